package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marigraph/marigraph/internal/grid"
	"github.com/marigraph/marigraph/internal/surface"
)

func TestCachedTotalVarianceServesStoredValueInsteadOfRecomputing(t *testing.T) {
	c, err := NewCache()
	require.NoError(t, err)
	defer c.Close()

	params := SVIParams{A: 0.04, B: 0.1, Rho: -0.2, M: 0, Sigma: 0.2}
	want := TotalVariance(params, 0.1)
	assert.InDelta(t, want, c.CachedTotalVariance(1, params, 0.1), 1e-12)

	// Poison the cache entry directly: if CachedTotalVariance recomputed
	// rather than reading the cache, it would return `want`, not this
	// planted value.
	c.PutSVI(1, params, 0.1, 999)
	assert.Equal(t, 999.0, c.CachedTotalVariance(1, params, 0.1))

	// A different generation must not see the stale/poisoned entry.
	assert.InDelta(t, want, c.CachedTotalVariance(2, params, 0.1), 1e-12)
}

func TestCachedImpliedVolMatchesDirectAndUsesCache(t *testing.T) {
	c, err := NewCache()
	require.NoError(t, err)
	defer c.Close()

	params := SVIParams{A: 0.04, B: 0.1, Rho: -0.2, M: 0, Sigma: 0.2}
	direct := ImpliedVol(params, 0.05, 1.5)
	got := c.CachedImpliedVol(1, params, 0.05, 1.5)
	assert.InDelta(t, direct, got, 1e-12)

	// A planted total variance must be what the implied vol is built from.
	c.PutSVI(1, params, 0.05, 0.09)
	assert.InDelta(t, math.Sqrt(0.09/1.5), c.CachedImpliedVol(1, params, 0.05, 1.5), 1e-12)

	assert.Equal(t, 0.0, c.CachedImpliedVol(1, params, 0.05, 0))
}

func TestCachedInterpolateServesStoredValueInsteadOfRecomputing(t *testing.T) {
	c, err := NewCache()
	require.NoError(t, err)
	defer c.Close()

	x := grid.Linspace(0, 3, 4)
	y := grid.Linspace(0, 3, 4)
	z := grid.NewVec(16)
	for i := range z {
		z[i] = float64(i)
	}
	s := surface.New(x, y, z, "x", "y", "z")

	want := surface.Interpolate(s, 1.5, 1.5, surface.Bilinear)
	assert.InDelta(t, want, c.CachedInterpolate(1, s, 1.5, 1.5, surface.Bilinear), 1e-12)

	c.PutInterpolation(1, surface.Bilinear, 1.5, 1.5, -42)
	assert.Equal(t, -42.0, c.CachedInterpolate(1, s, 1.5, 1.5, surface.Bilinear))
}
