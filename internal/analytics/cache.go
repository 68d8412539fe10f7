package analytics

import (
	"fmt"
	"math"

	"github.com/dgraph-io/ristretto"
	"github.com/marigraph/marigraph/internal/surface"
)

// Cache memoizes the two analytics computations a dashboard redraw tick
// repeats most often: interpolated surface values (for any Method) and
// SVI total variance evaluations. Surfaces are versioned by an opaque Generation
// supplied by the caller (bumped on every in-place mutation) so a cache
// entry never outlives the data it was computed from.
type Cache struct {
	rc *ristretto.Cache
}

// NewCache returns a Cache holding up to 10,000 entries (each costs 1)
// — enough to hold one dashboard redraw's worth of interpolation
// queries and smile evaluations without noticeably growing with surface
// size.
func NewCache() (*Cache, error) {
	rc, err := ristretto.NewCache(&ristretto.Config{
		NumCounters:        100_000, // ~10x the expected number of cached entries
		MaxCost:            10_000,
		BufferItems:        64,
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, fmt.Errorf("analytics: creating cache: %w", err)
	}
	return &Cache{rc: rc}, nil
}

// Close releases the cache's background goroutines.
func (c *Cache) Close() {
	c.rc.Close()
}

// interpKey identifies one interpolation query against one surface
// generation.
type interpKey struct {
	gen    uint64
	method surface.Method
	x, y   float64
}

// GetInterpolation returns a previously cached interpolation result for
// (gen, method, x, y), if present.
func (c *Cache) GetInterpolation(gen uint64, method surface.Method, x, y float64) (float64, bool) {
	v, ok := c.rc.Get(interpKey{gen, method, x, y})
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// PutInterpolation stores an interpolation result for later retrieval by
// GetInterpolation.
func (c *Cache) PutInterpolation(gen uint64, method surface.Method, x, y, value float64) {
	c.rc.Set(interpKey{gen, method, x, y}, value, 1)
	c.rc.Wait()
}

// sviKey identifies one SVI total-variance evaluation.
type sviKey struct {
	gen    uint64
	params SVIParams
	k      float64
}

// GetSVI returns a previously cached total-variance evaluation for
// (gen, params, k), if present.
func (c *Cache) GetSVI(gen uint64, params SVIParams, k float64) (float64, bool) {
	v, ok := c.rc.Get(sviKey{gen, params, k})
	if !ok {
		return 0, false
	}
	return v.(float64), true
}

// PutSVI stores a total-variance evaluation for later retrieval by
// GetSVI.
func (c *Cache) PutSVI(gen uint64, params SVIParams, k, value float64) {
	c.rc.Set(sviKey{gen, params, k}, value, 1)
	c.rc.Wait()
}

// CachedTotalVariance returns TotalVariance(params, k), serving a prior
// result out of the cache when (gen, params, k) has already been
// evaluated rather than recomputing it.
func (c *Cache) CachedTotalVariance(gen uint64, params SVIParams, k float64) float64 {
	if v, ok := c.GetSVI(gen, params, k); ok {
		return v
	}
	w := TotalVariance(params, k)
	c.PutSVI(gen, params, k, w)
	return w
}

// CachedImpliedVol returns ImpliedVol(params, k, t), routing the
// underlying total-variance evaluation through CachedTotalVariance —
// the expensive part of ImpliedVol is TotalVariance, not the final
// sqrt(w/t).
func (c *Cache) CachedImpliedVol(gen uint64, params SVIParams, k, t float64) float64 {
	if t <= 0 {
		return 0
	}
	w := c.CachedTotalVariance(gen, params, k)
	if w < 0 {
		return 0
	}
	return math.Sqrt(w / t)
}

// CachedInterpolate returns surface.Interpolate(s, x, y, method), serving
// a prior result out of the cache when (gen, method, x, y) has already
// been evaluated against this surface generation.
func (c *Cache) CachedInterpolate(gen uint64, s *surface.Surface, x, y float64, method surface.Method) float64 {
	if v, ok := c.GetInterpolation(gen, method, x, y); ok {
		return v
	}
	v := surface.Interpolate(s, x, y, method)
	c.PutInterpolation(gen, method, x, y, v)
	return v
}
