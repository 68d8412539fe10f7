package analytics

import (
	"math"

	"github.com/marigraph/marigraph/internal/surface"
)

// Category identifies which static-arbitrage check a Violation came from.
type Category int

const (
	Calendar Category = iota
	Butterfly
	Vertical
)

func (c Category) String() string {
	switch c {
	case Calendar:
		return "calendar"
	case Butterfly:
		return "butterfly"
	case Vertical:
		return "vertical"
	default:
		return "unknown"
	}
}

// Severity buckets how far a Violation is past its category's tolerance.
type Severity int

const (
	Minor Severity = iota
	Moderate
	Severe
)

func (s Severity) String() string {
	switch s {
	case Minor:
		return "minor"
	case Moderate:
		return "moderate"
	case Severe:
		return "severe"
	default:
		return "unknown"
	}
}

// Violation is a single static-arbitrage breach: the category, severity,
// the grid indices it was found at, and the signed amount by which the
// no-arbitrage inequality failed.
type Violation struct {
	Category Category
	Severity Severity
	XIndex   int // T (expiry) index, for every category
	YIndex   int // K (strike) index, for every category
	Amount   float64
}

// ArbitrageReport is the result of CheckAllArbitrage: per-category
// counts and the unsorted list of every violation found.
type ArbitrageReport struct {
	CalendarCount  int
	ButterflyCount int
	VerticalCount  int
	Violations     []Violation
}

// CalendarTolerance is the default slack in total variance below which a
// decrease across expiries is not flagged.
const CalendarTolerance = 0.001

// ButterflyTolerance is the default slack in the discrete smile convexity
// below which non-convexity is not flagged.
const ButterflyTolerance = 0.01

// VerticalLimit is the default bound on |dw/dk| against log-moneyness.
const VerticalLimit = 2.0

func calendarSeverity(amount float64) Severity {
	switch {
	case amount < 0.005:
		return Minor
	case amount < 0.01:
		return Moderate
	default:
		return Severe
	}
}

func butterflySeverity(amount float64) Severity {
	switch {
	case amount < 0.01:
		return Minor
	case amount < 0.02:
		return Moderate
	default:
		return Severe
	}
}

func verticalSeverity(amount float64) Severity {
	switch {
	case amount < 0.5:
		return Minor
	case amount < 1.0:
		return Moderate
	default:
		return Severe
	}
}

// CheckCalendar checks, for every strike column, that total variance
// w(T) = IV^2 * T is non-decreasing in T (within tolerance) across
// consecutive expiries.
func CheckCalendar(s *surface.Surface, tolerance float64) []Violation {
	var out []Violation
	for yi := 0; yi < s.Ny; yi++ {
		for xi := 1; xi < s.Nx; xi++ {
			t1, t2 := s.X[xi-1], s.X[xi]
			iv1, iv2 := s.At(xi-1, yi), s.At(xi, yi)
			w1 := iv1 * iv1 * t1
			w2 := iv2 * iv2 * t2
			deficit := w1 - tolerance - w2
			if deficit > 0 {
				out = append(out, Violation{
					Category: Calendar,
					Severity: calendarSeverity(deficit),
					XIndex:   xi,
					YIndex:   yi,
					Amount:   deficit,
				})
			}
		}
	}
	return out
}

// CheckButterfly checks, for every (T,K) interior in K, that the smile
// is convex: (IV(K-1)+IV(K+1))/2 - IV(K) >= -tolerance.
func CheckButterfly(s *surface.Surface, tolerance float64) []Violation {
	var out []Violation
	for xi := 0; xi < s.Nx; xi++ {
		for yi := 1; yi < s.Ny-1; yi++ {
			convexity := (s.At(xi, yi-1)+s.At(xi, yi+1))/2 - s.At(xi, yi)
			deficit := -tolerance - convexity
			if deficit > 0 {
				out = append(out, Violation{
					Category: Butterfly,
					Severity: butterflySeverity(deficit),
					XIndex:   xi,
					YIndex:   yi,
					Amount:   deficit,
				})
			}
		}
	}
	return out
}

// CheckVertical checks that the slope of total variance against
// log-moneyness k = ln(K/F) stays within [-limit, limit], when a forward
// price is supplied.
func CheckVertical(s *surface.Surface, forward, limit float64) []Violation {
	if forward <= 0 {
		return nil
	}
	var out []Violation
	for xi := 0; xi < s.Nx; xi++ {
		t := s.X[xi]
		for yi := 1; yi < s.Ny-1; yi++ {
			k0 := math.Log(s.Y[yi-1] / forward)
			k1 := math.Log(s.Y[yi+1] / forward)
			if k1 == k0 {
				continue
			}
			w0 := s.At(xi, yi-1) * s.At(xi, yi-1) * t
			w1 := s.At(xi, yi+1) * s.At(xi, yi+1) * t
			slope := (w1 - w0) / (k1 - k0)
			var amount float64
			switch {
			case slope > limit:
				amount = slope - limit
			case slope < -limit:
				amount = -limit - slope
			default:
				continue
			}
			out = append(out, Violation{
				Category: Vertical,
				Severity: verticalSeverity(amount),
				XIndex:   xi,
				YIndex:   yi,
				Amount:   amount,
			})
		}
	}
	return out
}

// CheckAllArbitrage runs the calendar, butterfly and (if forward > 0)
// vertical checks and reports per-category counts plus the unsorted
// union of every violation.
func CheckAllArbitrage(s *surface.Surface, forward float64) ArbitrageReport {
	cal := CheckCalendar(s, CalendarTolerance)
	bfl := CheckButterfly(s, ButterflyTolerance)
	var vert []Violation
	if forward > 0 {
		vert = CheckVertical(s, forward, VerticalLimit)
	}

	report := ArbitrageReport{
		CalendarCount:  len(cal),
		ButterflyCount: len(bfl),
		VerticalCount:  len(vert),
	}
	report.Violations = append(report.Violations, cal...)
	report.Violations = append(report.Violations, bfl...)
	report.Violations = append(report.Violations, vert...)
	return report
}

// EnforceArbitrageFree repairs s in place until CheckCalendar and
// CheckButterfly, both run with tolerance, report zero violations or maxIter
// repair passes have run, whichever comes first. Each pass nudges every
// calendar-violating far-dated point upward by sqrt(violation/T_far)/2
// and replaces every butterfly-violating midpoint with the average of
// its two strike-neighbors.
func EnforceArbitrageFree(s *surface.Surface, maxIter int, tolerance float64) {
	for iter := 0; iter < maxIter; iter++ {
		cal := CheckCalendar(s, tolerance)
		bfl := CheckButterfly(s, tolerance)
		if len(cal) == 0 && len(bfl) == 0 {
			return
		}

		for _, v := range cal {
			tFar := s.X[v.XIndex]
			if tFar <= 0 {
				continue
			}
			bump := math.Sqrt(v.Amount/tFar) / 2
			s.Set(v.XIndex, v.YIndex, s.At(v.XIndex, v.YIndex)+bump)
		}
		for _, v := range bfl {
			avg := (s.At(v.XIndex, v.YIndex-1) + s.At(v.XIndex, v.YIndex+1)) / 2
			s.Set(v.XIndex, v.YIndex, avg)
		}
		s.RecomputeDomains()
	}
}
