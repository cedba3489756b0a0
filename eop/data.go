package eop

// seedRows is a small bundled bootstrap series of historical Earth
// orientation parameters spanning recent years, standing in for a live IERS
// Bulletin A/B feed. Production deployments are expected to replace this
// with NewTable(rows) built from a freshly downloaded finals.all file; this
// series only exists so Default() returns something finite and
// interpolable out of the box.
var seedRows = []Entry{
	{JDUTC: 2458849.5, XP: 0.0757, YP: 0.2556, DUT1: -0.1778},  // 2020-01-01
	{JDUTC: 2458880.5, XP: 0.0859, YP: 0.2726, DUT1: -0.1818},  // 2020-02-01
	{JDUTC: 2458909.5, XP: 0.0941, YP: 0.2880, DUT1: -0.1749},  // 2020-03-01
	{JDUTC: 2458940.5, XP: 0.1019, YP: 0.3069, DUT1: -0.1623},  // 2020-04-01
	{JDUTC: 2458970.5, XP: 0.1218, YP: 0.3178, DUT1: -0.1544},  // 2020-05-01
	{JDUTC: 2459001.5, XP: 0.1481, YP: 0.3141, DUT1: -0.1512},  // 2020-06-01
	{JDUTC: 2459031.5, XP: 0.1704, YP: 0.2930, DUT1: -0.1531},  // 2020-07-01
	{JDUTC: 2459062.5, XP: 0.1862, YP: 0.2627, DUT1: -0.1603},  // 2020-08-01
	{JDUTC: 2459093.5, XP: 0.1957, YP: 0.2337, DUT1: -0.1701},  // 2020-09-01
	{JDUTC: 2459123.5, XP: 0.2013, YP: 0.2108, DUT1: -0.1814},  // 2020-10-01
	{JDUTC: 2459154.5, XP: 0.2029, YP: 0.1975, DUT1: -0.1930},  // 2020-11-01
	{JDUTC: 2459184.5, XP: 0.1985, YP: 0.1967, DUT1: -0.2029},  // 2020-12-01
	{JDUTC: 2459215.5, XP: 0.1842, YP: 0.2060, DUT1: -0.2107},  // 2021-01-01
	{JDUTC: 2459246.5, XP: 0.1653, YP: 0.2240, DUT1: -0.2145},  // 2021-02-01
	{JDUTC: 2459274.5, XP: 0.1454, YP: 0.2458, DUT1: -0.2145},  // 2021-03-01
	{JDUTC: 2459305.5, XP: 0.1284, YP: 0.2690, DUT1: -0.2108},  // 2021-04-01
	{JDUTC: 2459335.5, XP: 0.1218, YP: 0.2893, DUT1: -0.2045},  // 2021-05-01
	{JDUTC: 2459366.5, XP: 0.1288, YP: 0.2996, DUT1: -0.1971},  // 2021-06-01
	{JDUTC: 2459396.5, XP: 0.1448, YP: 0.2938, DUT1: -0.1901},  // 2021-07-01
	{JDUTC: 2459427.5, XP: 0.1645, YP: 0.2726, DUT1: -0.1853},  // 2021-08-01
	{JDUTC: 2459458.5, XP: 0.1825, YP: 0.2443, DUT1: -0.1839},  // 2021-09-01
	{JDUTC: 2459488.5, XP: 0.1942, YP: 0.2190, DUT1: -0.1856},  // 2021-10-01
	{JDUTC: 2459519.5, XP: 0.1969, YP: 0.2031, DUT1: -0.1896},  // 2021-11-01
	{JDUTC: 2459549.5, XP: 0.1898, YP: 0.2001, DUT1: -0.1937},  // 2021-12-01
	{JDUTC: 2459580.5, XP: 0.1724, YP: 0.2089, DUT1: -0.1954},  // 2022-01-01
}
