package render

import (
	"errors"
	"math"
	"strconv"

	"armsatlas/internal/aggregate"
)

// ErrDegenerateScale reports that no nonzero quantity survived aggregation,
// so no colorbar scale can be derived. The aggregator only guards row count,
// not value magnitude; this is the magnitude guard.
var ErrDegenerateScale = errors.New("render: no nonzero quantity to scale")

// logEps absorbs Log10 error on exact powers of ten (Log10(1000) can come
// out just under 3).
const logEps = 1e-9

// ColorbarTicks derives tick positions and labels from the maximum absolute
// raw value: the value is rounded to its leading significant digit, the next
// power of ten above it becomes the bound, and every power of ten from 10^1
// through the bound is emitted, positioned on the signed-log axis and
// labeled with its raw integer value. Diverging mode mirrors the positive
// ticks to negative values and adds a zero tick, sorted ascending.
func ColorbarTicks(maxAbs float64, diverging bool) ([]float64, []string, error) {
	if maxAbs <= 0 || math.IsNaN(maxAbs) || math.IsInf(maxAbs, 0) {
		return nil, nil, ErrDegenerateScale
	}

	values := make([]float64, 0, 2*maxExponent(maxAbs)+1)
	if diverging {
		for exp := maxExponent(maxAbs); exp >= 1; exp-- {
			values = append(values, -math.Pow(10, float64(exp)))
		}
		values = append(values, 0)
	}
	for exp := 1; exp <= maxExponent(maxAbs); exp++ {
		values = append(values, math.Pow(10, float64(exp)))
	}

	positions := make([]float64, len(values))
	labels := make([]string, len(values))
	for i, value := range values {
		positions[i] = aggregate.SignedLog(value)
		labels[i] = strconv.FormatInt(int64(value), 10)
	}
	return positions, labels, nil
}

// maxExponent returns the exponent of the power-of-ten bound derived from
// the maximum absolute value. Values below 1 yield 0: no ticks.
func maxExponent(maxAbs float64) int {
	lead := math.Floor(math.Log10(maxAbs) + logEps)
	scale := math.Pow(10, lead)
	rounded := math.RoundToEven(maxAbs/scale) * scale
	return int(math.Floor(math.Log10(rounded)+logEps)) + 1
}
