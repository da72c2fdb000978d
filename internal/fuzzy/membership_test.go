package fuzzy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTriangle_RejectsUnorderedBreakpoints(t *testing.T) {
	tests := []struct {
		name    string
		a, b, c float64
	}{
		{"a after b", 5, 0, 10},
		{"b after c", 0, 10, 5},
		{"reversed", 10, 5, 0},
		{"nan", math.NaN(), 0, 1},
		{"inf", 0, 1, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTriangle(tt.a, tt.b, tt.c)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrConfiguration))

			var ce *ConfigurationError
			assert.True(t, errors.As(err, &ce))
		})
	}
}

func TestTriangle_Degree(t *testing.T) {
	tests := []struct {
		name     string
		a, b, c  float64
		x        float64
		expected float64
	}{
		{"below support", 0, 5, 10, -1, 0},
		{"at left foot", 0, 5, 10, 0, 0},
		{"rising edge", 0, 5, 10, 2.5, 0.5},
		{"peak", 0, 5, 10, 5, 1},
		{"falling edge", 0, 5, 10, 7.5, 0.5},
		{"at right foot", 0, 5, 10, 10, 0},
		{"above support", 0, 5, 10, 11, 0},
		{"left shoulder peak", 0, 0, 5, 0, 1},
		{"left shoulder slope", 0, 0, 5, 2, 0.6},
		{"left shoulder below", 0, 0, 5, -0.1, 0},
		{"right shoulder peak", 5, 10, 10, 10, 1},
		{"right shoulder slope", 5, 10, 10, 9, 0.8},
		{"right shoulder above", 5, 10, 10, 10.1, 0},
		{"singleton hit", 3, 3, 3, 3, 1},
		{"singleton miss", 3, 3, 3, 3.01, 0},
		{"nan input", 0, 5, 10, math.NaN(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tri, err := NewTriangle(tt.a, tt.b, tt.c)
			require.NoError(t, err)
			assert.InDelta(t, tt.expected, tri.Degree(tt.x), 1e-12)
		})
	}
}

func TestTriangle_DegreeAlwaysInUnitInterval(t *testing.T) {
	shapes := [][3]float64{
		{0, 0, 5}, {0, 5, 10}, {5, 10, 10}, {10, 25, 40}, {30, 60, 60}, {2, 2, 2},
	}

	for _, s := range shapes {
		tri, err := NewTriangle(s[0], s[1], s[2])
		require.NoError(t, err)

		assert.Equal(t, 1.0, tri.Degree(s[1]), "peak of %v", s)
		for x := -20.0; x <= 80; x += 0.25 {
			d := tri.Degree(x)
			assert.GreaterOrEqual(t, d, 0.0)
			assert.LessOrEqual(t, d, 1.0)
			if x < s[0] || x > s[2] {
				assert.Zero(t, d, "x=%g outside %v", x, s)
			}
		}
	}
}

func TestTriangle_Params(t *testing.T) {
	tri, err := NewTriangle(10, 25, 40)
	require.NoError(t, err)

	a, b, c := tri.Params()
	assert.Equal(t, []float64{10, 25, 40}, []float64{a, b, c})
}
