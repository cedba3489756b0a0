package coord

import (
	"math"
	"testing"
)

func TestPrecessionAngles_MatchesIAU2006Default(t *testing.T) {
	T := 0.5
	zetaA, zA, thetaA := precessionAngles(IAU2006, T)
	zetaA2, zA2, thetaA2 := precessionAngles(IAU2009, T)
	if zetaA != zetaA2 || zA != zA2 || thetaA != thetaA2 {
		t.Error("IAU2009 should reuse IAU2006 precession angles exactly")
	}
}

func TestPrecessionAngles_DiffersByMethod(t *testing.T) {
	T := 1.0
	z1976, _, _ := precessionAngles(IAU1976, T)
	z2006, _, _ := precessionAngles(IAU2006, T)
	if z1976 == z2006 {
		t.Error("IAU1976 and IAU2006 precession angles should differ")
	}
}

func TestPrecessionMatrix_Orthogonal(t *testing.T) {
	for _, m := range []ReductionMethod{IAU1976, IAU2000, IAU2006, IAU2009, Williams1994, JPLDE} {
		P := PrecessionMatrix(m, 0.3, true)
		// P * P^T should be identity for a rotation matrix.
		PT := transpose3(P)
		var prod [3][3]float64
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				var sum float64
				for k := 0; k < 3; k++ {
					sum += P[i][k] * PT[k][j]
				}
				prod[i][j] = sum
			}
		}
		for i := 0; i < 3; i++ {
			for j := 0; j < 3; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				if math.Abs(prod[i][j]-want) > 1e-9 {
					t.Errorf("method %v: P*P^T[%d][%d] = %f, want %f", m, i, j, prod[i][j], want)
				}
			}
		}
	}
}

func TestPrecessionMatrix_ForwardInverse(t *testing.T) {
	fwd := PrecessionMatrix(IAU2006, 0.2, true)
	inv := PrecessionMatrix(IAU2006, 0.2, false)
	gotInv := transpose3(fwd)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(gotInv[i][j]-inv[i][j]) > 1e-12 {
				t.Errorf("[%d][%d]: transpose(fwd)=%f inv=%f", i, j, gotInv[i][j], inv[i][j])
			}
		}
	}
}

func TestPrecessionMatrix_IdentityAtEpoch(t *testing.T) {
	P := PrecessionMatrix(IAU2006, 0, true)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(P[i][j]-want) > 1e-9 {
				t.Errorf("P(T=0)[%d][%d] = %f, want %f", i, j, P[i][j], want)
			}
		}
	}
}

func TestReductionMethod_String(t *testing.T) {
	tests := map[ReductionMethod]string{
		IAU1976:      "IAU1976",
		IAU2000:      "IAU2000",
		IAU2006:      "IAU2006",
		IAU2009:      "IAU2009",
		Williams1994: "Williams1994",
		JPLDE:        "JPLDE",
	}
	for m, want := range tests {
		if got := m.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", m, got, want)
		}
	}
}
