package analytics

import (
	"math"
	"sort"

	"github.com/marigraph/marigraph/internal/surface"
)

// TermStructureCurve is the implied-vol term structure at a fixed
// strike index: IV as a function of expiry.
type TermStructureCurve struct {
	StrikeIndex     int
	T               []float64
	IV              []float64
	Contango        bool
	Backwardation   bool
	Flatness        float64
	InflectionIndex []int
}

// SmileCurve is the implied-vol smile at a fixed expiry index: IV as a
// function of strike.
type SmileCurve struct {
	ExpiryIndex     int
	K               []float64
	IV              []float64
	SkewDirection   SkewDirection
	ButterflySpread float64
	InflectionIndex []int
}

// SkewDirection classifies which wing of a smile dominates.
type SkewDirection int

const (
	SkewNeutral SkewDirection = iota
	SkewPut
	SkewCall
)

func (d SkewDirection) String() string {
	switch d {
	case SkewPut:
		return "put"
	case SkewCall:
		return "call"
	default:
		return "neutral"
	}
}

// skewHysteresis is the minimum wing-IV difference before a smile is
// classified as put- or call-skewed rather than neutral.
const skewHysteresis = 0.01

// TermStructureAt builds the term-structure curve along the expiry axis
// at the given strike index.
func TermStructureAt(s *surface.Surface, strikeIndex int) TermStructureCurve {
	c := TermStructureCurve{StrikeIndex: strikeIndex}
	c.T = make([]float64, s.Nx)
	c.IV = make([]float64, s.Nx)
	for xi := 0; xi < s.Nx; xi++ {
		c.T[xi] = s.X[xi]
		c.IV[xi] = s.At(xi, strikeIndex)
	}
	if n := len(c.IV); n >= 2 {
		near, far := c.IV[0], c.IV[n-1]
		c.Contango = near < far
		c.Backwardation = near > far
		denom := math.Max(near, far)
		if denom > 0 {
			c.Flatness = 1 - math.Abs(near-far)/denom
		} else {
			c.Flatness = 1
		}
	}
	c.InflectionIndex = inflectionPoints(c.IV)
	return c
}

// SmileAt builds the smile curve along the strike axis at the given
// expiry index. atmIndex selects the at-the-money strike used for
// ButterflySpread; leftWingIndex/rightWingIndex select the wings used
// for both ButterflySpread and SkewDirection.
func SmileAt(s *surface.Surface, expiryIndex, leftWingIndex, atmIndex, rightWingIndex int) SmileCurve {
	c := SmileCurve{ExpiryIndex: expiryIndex}
	c.K = make([]float64, s.Ny)
	c.IV = make([]float64, s.Ny)
	for yi := 0; yi < s.Ny; yi++ {
		c.K[yi] = s.Y[yi]
		c.IV[yi] = s.At(expiryIndex, yi)
	}

	left := s.At(expiryIndex, leftWingIndex)
	atm := s.At(expiryIndex, atmIndex)
	right := s.At(expiryIndex, rightWingIndex)

	c.ButterflySpread = (left+right)/2 - atm
	switch {
	case left-right > skewHysteresis:
		c.SkewDirection = SkewPut
	case right-left > skewHysteresis:
		c.SkewDirection = SkewCall
	default:
		c.SkewDirection = SkewNeutral
	}
	c.InflectionIndex = inflectionPoints(c.IV)
	return c
}

// inflectionPoints returns the indices where the sign of the discrete
// second derivative of v changes.
func inflectionPoints(v []float64) []int {
	if len(v) < 3 {
		return nil
	}
	var out []int
	prevSign := 0
	for i := 1; i < len(v)-1; i++ {
		d2 := v[i+1] - 2*v[i] + v[i-1]
		sign := 0
		switch {
		case d2 > 0:
			sign = 1
		case d2 < 0:
			sign = -1
		}
		if sign != 0 && prevSign != 0 && sign != prevSign {
			out = append(out, i)
		}
		if sign != 0 {
			prevSign = sign
		}
	}
	return out
}

// Opportunity is a lenient-variant arbitrage opportunity: distinct from
// the strict static-arbitrage Violation, it carries an estimated profit
// and confidence rather than a severity.
type Opportunity struct {
	Category   Category
	XIndex     int
	YIndex     int
	Profit     float64
	Confidence float64
}

// calendarOpportunityRatio is the near/far IV ratio above which a
// calendar opportunity is flagged.
const calendarOpportunityRatio = 1.1

// butterflyOpportunityTolerance is the negative-convexity threshold
// above which a butterfly opportunity is flagged.
const butterflyOpportunityTolerance = 0.01

// DetectOpportunities scans s for the lenient arbitrage-opportunity
// variant described in §4.3: calendar opportunities where near-dated IV
// exceeds 1.1x far-dated IV, and butterfly opportunities where the smile
// convexity is negative by more than 0.01. Results are sorted by profit
// descending.
func DetectOpportunities(s *surface.Surface) []Opportunity {
	var out []Opportunity
	for yi := 0; yi < s.Ny; yi++ {
		for xi := 1; xi < s.Nx; xi++ {
			near, far := s.At(xi-1, yi), s.At(xi, yi)
			if far <= 0 {
				continue
			}
			if near > calendarOpportunityRatio*far {
				profit := near - far
				confidence := math.Min(1, (near/far-calendarOpportunityRatio)/calendarOpportunityRatio)
				out = append(out, Opportunity{
					Category:   Calendar,
					XIndex:     xi,
					YIndex:     yi,
					Profit:     profit,
					Confidence: math.Max(confidence, 0.01),
				})
			}
		}
	}
	for xi := 0; xi < s.Nx; xi++ {
		for yi := 1; yi < s.Ny-1; yi++ {
			convexity := (s.At(xi, yi-1)+s.At(xi, yi+1))/2 - s.At(xi, yi)
			if -convexity > butterflyOpportunityTolerance {
				profit := -convexity - butterflyOpportunityTolerance
				confidence := math.Min(1, profit/butterflyOpportunityTolerance)
				out = append(out, Opportunity{
					Category:   Butterfly,
					XIndex:     xi,
					YIndex:     yi,
					Profit:     profit,
					Confidence: math.Max(confidence, 0.01),
				})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Profit > out[j].Profit })
	return out
}
