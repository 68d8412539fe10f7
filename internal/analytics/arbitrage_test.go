package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marigraph/marigraph/internal/grid"
	"github.com/marigraph/marigraph/internal/surface"
)

func constantIVSurface(t *testing.T, iv float64) *surface.Surface {
	t.Helper()
	x := grid.Vec{1, 2, 3}
	y := grid.Vec{90, 100, 110}
	z := grid.NewVec(len(x) * len(y))
	for i := range z {
		z[i] = iv
	}
	return surface.New(x, y, z, "T", "K", "IV")
}

func TestCheckCalendarNoViolationOnConstantIV(t *testing.T) {
	s := constantIVSurface(t, 0.2)
	violations := CheckCalendar(s, CalendarTolerance)
	assert.Empty(t, violations, "constant IV across expiries must not violate calendar no-arbitrage")
}

func TestCheckCalendarDetectsDecreasingVariance(t *testing.T) {
	x := grid.Vec{1, 2}
	y := grid.Vec{100}
	z := grid.Vec{0.4, 0.1} // w(1) = 0.16, w(2) = 0.04*2=0.08: decreasing
	s := surface.New(x, y, z, "T", "K", "IV")

	violations := CheckCalendar(s, CalendarTolerance)
	require.Len(t, violations, 1)
	assert.Equal(t, Calendar, violations[0].Category)
	assert.Equal(t, Severe, violations[0].Severity)
}

func TestCheckButterflyFlagsConcaveSmile(t *testing.T) {
	x := grid.Vec{1}
	y := grid.Vec{90, 100, 110}
	z := grid.Vec{0.2, 0.4, 0.2} // concave: midpoint IV spikes above both wings
	s := surface.New(x, y, z, "T", "K", "IV")

	violations := CheckButterfly(s, ButterflyTolerance)
	require.Len(t, violations, 1)
	assert.Equal(t, Butterfly, violations[0].Category)
}

func TestEnforceArbitrageFreeConverges(t *testing.T) {
	x := grid.Vec{1, 2}
	y := grid.Vec{90, 100, 110}
	z := grid.Vec{
		0.4, 0.4, 0.4,
		0.1, 0.6, 0.1,
	}
	s := surface.New(x, y, z, "T", "K", "IV")

	EnforceArbitrageFree(s, 50, CalendarTolerance)

	report := CheckAllArbitrage(s, 0)
	assert.Equal(t, 0, report.CalendarCount, "calendar violations should be repaired")
	assert.Equal(t, 0, report.ButterflyCount, "butterfly violations should be repaired")
}

func TestRiskScoreRangeAndZero(t *testing.T) {
	x := grid.Linspace(0, 1, 5)
	y := grid.Linspace(0, 1, 5)
	z := grid.NewVec(25)
	flatSurf := surface.New(x, y, z, "x", "y", "z")
	flatField := surface.ComputeSlope(flatSurf)
	m := ComputeRiskMetrics(flatField)
	assert.Equal(t, 0.0, m.RiskScore)

	z2 := grid.NewVec(25)
	for xi := 0; xi < 5; xi++ {
		for yi := 0; yi < 5; yi++ {
			z2[xi*5+yi] = float64(xi)*3 + float64(yi)*2
		}
	}
	steepSurf := surface.New(x, y, z2, "x", "y", "z")
	steepField := surface.ComputeSlope(steepSurf)
	m2 := ComputeRiskMetrics(steepField)
	assert.GreaterOrEqual(t, m2.RiskScore, 0.0)
	assert.LessOrEqual(t, m2.RiskScore, 1.0)
}
