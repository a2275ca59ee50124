package aggregate

import "math"

// SignedLog compresses heavy-tailed trade volumes onto a scale suitable for
// a linear color gradient: sign(x) * ln(1 + |x|). It preserves sign and
// relative ordering and is exactly invertible.
func SignedLog(x float64) float64 {
	if x == 0 {
		return 0
	}
	return math.Copysign(math.Log1p(math.Abs(x)), x)
}

// InverseSignedLog inverts SignedLog: sign(y) * (exp(|y|) - 1).
func InverseSignedLog(y float64) float64 {
	if y == 0 {
		return 0
	}
	return math.Copysign(math.Expm1(math.Abs(y)), y)
}
