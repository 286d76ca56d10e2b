// Package stretch resolves per-band contrast stretch ranges: the [low, high]
// numeric window that is mapped linearly onto an 8-bit output channel.
//
// A bound is one of three variants: use the dataset default, an absolute
// value, or a percentile of the dataset's precomputed percentile table.
// Variants are validated at construction so resolution never sees a
// malformed bound.
package stretch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// BoundKind discriminates the Bound variants.
type BoundKind int

const (
	// BoundDefault means "use the dataset's default range value".
	BoundDefault BoundKind = iota
	// BoundAbsolute is a verbatim numeric value.
	BoundAbsolute
	// BoundPercentile looks the value up in the dataset's percentile table.
	BoundPercentile
)

// ErrBadBound is returned when a bound specification cannot be parsed or
// constructed.
var ErrBadBound = errors.New("invalid stretch bound")

// Bound is one end of a stretch override.
// The zero value is the default-range bound.
type Bound struct {
	kind       BoundKind
	value      float64
	percentile int
}

// DefaultBound returns a bound that resolves to the dataset default.
func DefaultBound() Bound {
	return Bound{kind: BoundDefault}
}

// AbsoluteBound returns a bound with a fixed numeric value.
func AbsoluteBound(v float64) Bound {
	return Bound{kind: BoundAbsolute, value: v}
}

// PercentileBound returns a bound that resolves via the dataset's percentile
// table. p must be in [0, 100].
func PercentileBound(p int) (Bound, error) {
	if p < 0 || p > 100 {
		return Bound{}, fmt.Errorf("%w: percentile must be between 0 and 100, got %d", ErrBadBound, p)
	}
	return Bound{kind: BoundPercentile, percentile: p}, nil
}

// Kind returns the variant of the bound.
func (b Bound) Kind() BoundKind { return b.kind }

func (b Bound) String() string {
	switch b.kind {
	case BoundAbsolute:
		return strconv.FormatFloat(b.value, 'g', -1, 64)
	case BoundPercentile:
		return fmt.Sprintf("p%d", b.percentile)
	default:
		return "default"
	}
}

// ParseBound converts a JSON-decoded stretch range element into a Bound.
// nil selects the dataset default, a number is an absolute bound, and a
// string of the form "p<0-100>" is a percentile bound.
func ParseBound(v any) (Bound, error) {
	switch x := v.(type) {
	case nil:
		return DefaultBound(), nil
	case float64:
		return AbsoluteBound(x), nil
	case string:
		rest, ok := strings.CutPrefix(x, "p")
		if !ok {
			return Bound{}, fmt.Errorf("%w: %q is not a number, null, or p<percentile>", ErrBadBound, x)
		}
		p, err := strconv.Atoi(rest)
		if err != nil {
			return Bound{}, fmt.Errorf("%w: %q has a non-integer percentile", ErrBadBound, x)
		}
		return PercentileBound(p)
	default:
		return Bound{}, fmt.Errorf("%w: unsupported value %v", ErrBadBound, v)
	}
}

// Override is the optional per-band stretch specification. Zero value means
// "use the dataset default range on both ends".
type Override struct {
	Low  Bound
	High Bound
}
