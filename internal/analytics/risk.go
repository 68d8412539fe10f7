package analytics

import (
	"math"
	"sort"

	"github.com/marigraph/marigraph/internal/surface"
)

// Zone is one grid cell referenced by RiskMetrics.HighRiskZones or
// FlatZones, identified by its flat index into the SlopeField and its
// slope magnitude there.
type Zone struct {
	Index     int
	XIndex    int
	YIndex    int
	Magnitude float64
}

// RiskMetrics summarizes a SlopeField into the handful of scalars and
// zone lists a dashboard panel renders.
type RiskMetrics struct {
	MaxSlope               float64
	AvgSlope               float64
	SlopeVariance          float64
	UpwardBias             float64
	TermStructureSteepness float64
	SmileSteepness         float64
	HighRiskZones          []Zone
	FlatZones              []Zone
	RiskScore              float64
}

const maxZones = 10

// ComputeRiskMetrics derives RiskMetrics from a SlopeField.
func ComputeRiskMetrics(f *surface.SlopeField) RiskMetrics {
	n := len(f.Magnitude)
	if n == 0 {
		return RiskMetrics{}
	}

	var sum, sumSq, maxSlope float64
	var upCount int
	var termSum, smileSum float64
	for i := 0; i < n; i++ {
		m := f.Magnitude[i]
		sum += m
		sumSq += m * m
		if m > maxSlope {
			maxSlope = m
		}
		if f.DzDy[i] > 0 {
			upCount++
		}
		termSum += f.DzDx[i]
		smileSum += math.Abs(f.DzDy[i])
	}
	avg := sum / float64(n)
	variance := sumSq/float64(n) - avg*avg
	if variance < 0 {
		variance = 0 // guards against floating point cancellation
	}

	m := RiskMetrics{
		MaxSlope:               maxSlope,
		AvgSlope:               avg,
		SlopeVariance:          variance,
		UpwardBias:             float64(upCount) / float64(n),
		TermStructureSteepness: termSum / float64(n),
		SmileSteepness:         smileSum / float64(n),
	}

	highThreshold := 0.7 * maxSlope
	flatThreshold := 0.1 * maxSlope
	var high, flat []Zone
	for i := 0; i < n; i++ {
		mag := f.Magnitude[i]
		xi, yi := i/f.Ny, i%f.Ny
		switch {
		case mag >= highThreshold:
			high = append(high, Zone{Index: i, XIndex: xi, YIndex: yi, Magnitude: mag})
		case mag <= flatThreshold:
			flat = append(flat, Zone{Index: i, XIndex: xi, YIndex: yi, Magnitude: mag})
		}
	}
	sort.Slice(high, func(i, j int) bool { return high[i].Magnitude > high[j].Magnitude })
	if len(high) > maxZones {
		high = high[:maxZones]
	}
	if len(flat) > maxZones {
		flat = flat[:maxZones]
	}
	m.HighRiskZones = high
	m.FlatZones = flat

	m.RiskScore = riskScore(maxSlope, variance, m.TermStructureSteepness)
	return m
}

// riskScore combines the three normalized risk components per the
// weighting 0.4/0.3/0.3, clamped to [0,1].
func riskScore(maxSlope, variance, termSteepness float64) float64 {
	score := 0.4*math.Min(1, maxSlope/2) +
		0.3*math.Min(1, math.Sqrt(variance)/0.5) +
		0.3*math.Min(1, math.Abs(termSteepness)/0.5)
	return clamp01(score)
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
