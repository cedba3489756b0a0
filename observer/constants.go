package observer

import "math"

const (
	deg2rad = math.Pi / 180.0
	rad2deg = 180.0 / math.Pi
	j2000JD = 2451545.0
)
