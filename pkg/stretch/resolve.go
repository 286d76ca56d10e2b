package stretch

import (
	"errors"
	"fmt"
)

// ErrInvalidRange is returned when a resolved stretch window is empty or
// inverted. The check runs after all substitutions, so a default low
// combined with a percentile high can still trip it.
var ErrInvalidRange = errors.New("upper stretch bound must be higher than lower bound")

// ErrNoPercentiles is returned when a percentile bound is requested but the
// dataset's percentile table cannot supply it.
var ErrNoPercentiles = errors.New("percentile metadata not available for dataset")

// Range is a concrete stretch window with Low < High.
type Range struct {
	Low  float64
	High float64
}

// Resolve turns an override plus the dataset's default range and percentile
// table into a concrete stretch window. Pure function: no I/O, no mutation
// of its inputs.
func Resolve(def Range, percentiles []float64, ov Override) (Range, error) {
	low, err := resolveBound(ov.Low, def.Low, percentiles)
	if err != nil {
		return Range{}, err
	}
	high, err := resolveBound(ov.High, def.High, percentiles)
	if err != nil {
		return Range{}, err
	}
	if low >= high {
		return Range{}, fmt.Errorf("%w: got [%g, %g]", ErrInvalidRange, low, high)
	}
	return Range{Low: low, High: high}, nil
}

func resolveBound(b Bound, def float64, percentiles []float64) (float64, error) {
	switch b.kind {
	case BoundDefault:
		return def, nil
	case BoundAbsolute:
		return b.value, nil
	case BoundPercentile:
		if len(percentiles) == 0 {
			return 0, ErrNoPercentiles
		}
		if b.percentile >= len(percentiles) {
			return 0, fmt.Errorf("%w: table has no entry for p%d", ErrNoPercentiles, b.percentile)
		}
		return percentiles[b.percentile], nil
	default:
		return 0, fmt.Errorf("%w: unknown bound kind %d", ErrBadBound, b.kind)
	}
}
