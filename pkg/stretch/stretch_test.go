package stretch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBound(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  Bound
	}{
		{"nil is default", nil, DefaultBound()},
		{"number is absolute", 12.5, AbsoluteBound(12.5)},
		{"zero is absolute", 0.0, AbsoluteBound(0)},
		{"percentile string", "p90", mustPercentile(t, 90)},
		{"p0 allowed", "p0", mustPercentile(t, 0)},
		{"p100 allowed", "p100", mustPercentile(t, 100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseBound(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseBound_Invalid(t *testing.T) {
	for _, input := range []any{"90", "q90", "p", "p9.5", "pabc", "p101", "p-1", true, []any{1, 2}} {
		_, err := ParseBound(input)
		assert.ErrorIs(t, err, ErrBadBound, "input %v", input)
	}
}

func TestPercentileBound_RangeValidation(t *testing.T) {
	_, err := PercentileBound(-1)
	assert.ErrorIs(t, err, ErrBadBound)

	_, err = PercentileBound(101)
	assert.ErrorIs(t, err, ErrBadBound)

	b, err := PercentileBound(50)
	require.NoError(t, err)
	assert.Equal(t, BoundPercentile, b.Kind())
}

func TestResolve_DefaultsUseDatasetRange(t *testing.T) {
	def := Range{Low: -10, High: 42}

	got, err := Resolve(def, nil, Override{})
	require.NoError(t, err)
	assert.Equal(t, def, got)
}

func TestResolve_AbsoluteOverrides(t *testing.T) {
	def := Range{Low: 0, High: 100}

	got, err := Resolve(def, nil, Override{Low: AbsoluteBound(10), High: AbsoluteBound(20)})
	require.NoError(t, err)
	assert.Equal(t, Range{Low: 10, High: 20}, got)

	// One-sided override keeps the other side at the dataset default.
	got, err = Resolve(def, nil, Override{High: AbsoluteBound(50)})
	require.NoError(t, err)
	assert.Equal(t, Range{Low: 0, High: 50}, got)
}

func TestResolve_PercentileLookup(t *testing.T) {
	// Table index is the percentile itself: table[90] answers p90.
	table := make([]float64, 101)
	for i := range table {
		table[i] = float64(i) * 2
	}
	def := Range{Low: 0, High: 1000}

	got, err := Resolve(def, table, Override{Low: mustPercentile(t, 10), High: mustPercentile(t, 90)})
	require.NoError(t, err)
	assert.Equal(t, Range{Low: 20, High: 180}, got)
}

func TestResolve_EmptyPercentileTable(t *testing.T) {
	def := Range{Low: 0, High: 100}

	_, err := Resolve(def, nil, Override{High: mustPercentile(t, 90)})
	assert.ErrorIs(t, err, ErrNoPercentiles)

	_, err = Resolve(def, []float64{}, Override{Low: mustPercentile(t, 5)})
	assert.ErrorIs(t, err, ErrNoPercentiles)
}

func TestResolve_PercentileBeyondTable(t *testing.T) {
	_, err := Resolve(Range{Low: 0, High: 100}, []float64{1, 2, 3}, Override{High: mustPercentile(t, 90)})
	assert.ErrorIs(t, err, ErrNoPercentiles)
}

func TestResolve_InvalidWindow(t *testing.T) {
	def := Range{Low: 0, High: 100}
	table := make([]float64, 101)
	for i := range table {
		table[i] = float64(i)
	}

	tests := []struct {
		name string
		ov   Override
	}{
		{"absolute inverted", Override{Low: AbsoluteBound(80), High: AbsoluteBound(20)}},
		{"absolute equal", Override{Low: AbsoluteBound(50), High: AbsoluteBound(50)}},
		{"absolute low above default high", Override{Low: AbsoluteBound(200)}},
		{"absolute high below default low", Override{High: AbsoluteBound(-5)}},
		{"percentile inverted", Override{Low: mustPercentile(t, 90), High: mustPercentile(t, 10)}},
		{"percentile equal", Override{Low: mustPercentile(t, 50), High: mustPercentile(t, 50)}},
		{"mixed inverted", Override{Low: AbsoluteBound(95), High: mustPercentile(t, 10)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(def, table, tt.ov)
			assert.ErrorIs(t, err, ErrInvalidRange)
		})
	}
}

// The invalid-window check must run after substitution, so a degenerate
// dataset default alone is also rejected when no override is given.
func TestResolve_DegenerateDefault(t *testing.T) {
	_, err := Resolve(Range{Low: 5, High: 5}, nil, Override{})
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestBound_String(t *testing.T) {
	assert.Equal(t, "default", DefaultBound().String())
	assert.Equal(t, "1.5", AbsoluteBound(1.5).String())
	assert.Equal(t, "p90", mustPercentile(t, 90).String())
}

func mustPercentile(t *testing.T, p int) Bound {
	t.Helper()
	b, err := PercentileBound(p)
	require.NoError(t, err)
	return b
}
