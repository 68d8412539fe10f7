// Package analytics implements the surface analytics core: interpolation
// already lives in package surface; this package covers the SVI smile,
// arbitrage detection and repair, composite risk scoring, and term
// structure / smile analyses that are derived from a Surface and its
// SlopeField.
package analytics

import (
	"errors"
	"fmt"
	"math"
)

// ErrNotEnoughSamples is returned by Calibrate when fewer than 5 smile
// samples are supplied — below that the five SVI parameters are
// underdetermined.
var ErrNotEnoughSamples = errors.New("analytics: need at least 5 smile samples to calibrate SVI")

// SVIParams are the five raw-SVI parameters of the total-variance smile
//
//	w(k) = a + b*(rho*(k-m) + sqrt((k-m)^2 + sigma^2))
type SVIParams struct {
	A, B, Rho, M, Sigma float64
}

// clampConstraints projects p onto the calibration feasible region:
// rho in (-0.99,0.99), b >= 0.001, sigma >= 0.001.
func (p SVIParams) clampConstraints() SVIParams {
	const (
		rhoLimit = 0.99
		bFloor   = 0.001
		sigFloor = 0.001
	)
	if p.Rho >= rhoLimit {
		p.Rho = math.Nextafter(rhoLimit, 0)
	}
	if p.Rho <= -rhoLimit {
		p.Rho = math.Nextafter(-rhoLimit, 0)
	}
	if p.B < bFloor {
		p.B = bFloor
	}
	if p.Sigma < sigFloor {
		p.Sigma = sigFloor
	}
	return p
}

// TotalVariance evaluates w(k) for the raw SVI parametrization.
func TotalVariance(p SVIParams, k float64) float64 {
	d := k - p.M
	return p.A + p.B*(p.Rho*d+math.Sqrt(d*d+p.Sigma*p.Sigma))
}

// ImpliedVol returns sqrt(w(k)/T) for T>0 and w>=0, else 0.
func ImpliedVol(p SVIParams, k, t float64) float64 {
	if t <= 0 {
		return 0
	}
	w := TotalVariance(p, k)
	if w < 0 {
		return 0
	}
	return math.Sqrt(w / t)
}

// TotalVarianceDerivative returns dw/dk in closed form.
func TotalVarianceDerivative(p SVIParams, k float64) float64 {
	d := k - p.M
	denom := math.Sqrt(d*d + p.Sigma*p.Sigma)
	return p.B * (p.Rho + d/denom)
}

// TotalVarianceSecondDerivative returns d2w/dk2 in closed form.
func TotalVarianceSecondDerivative(p SVIParams, k float64) float64 {
	d := k - p.M
	s2 := p.Sigma * p.Sigma
	denom := math.Pow(d*d+s2, 1.5)
	return p.B * s2 / denom
}

// SmileSample is one (log-moneyness, implied vol, weight) observation
// used by Calibrate.
type SmileSample struct {
	K      float64
	IV     float64
	Weight float64
	T      float64
}

// CalibrationResult is the contract returned by Calibrate: the fitted
// parameters, the weighted RMSE of the fit, and the iteration count at
// which it stopped.
type CalibrationResult struct {
	Params     SVIParams
	RMSE       float64
	Iterations int
}

// CalibrateOptions tunes the gradient-descent calibration.
type CalibrateOptions struct {
	LearningRate float64
	MaxIter      int
	Tolerance    float64 // stop when the relative RMSE change is smaller than this in magnitude
	Initial      SVIParams
}

// DefaultCalibrateOptions returns reasonable defaults: a small fixed
// learning rate, generous iteration budget, and an initial guess whose
// level A is the samples' mean total variance (B=0.1, rho=0, m=0,
// sigma=0.1).
func DefaultCalibrateOptions(samples []SmileSample) CalibrateOptions {
	meanW := 0.0
	for _, s := range samples {
		meanW += s.IV * s.IV * s.T
	}
	if len(samples) > 0 {
		meanW /= float64(len(samples))
	}
	return CalibrateOptions{
		LearningRate: 0.005,
		MaxIter:      2000,
		Tolerance:    1e-8,
		Initial:      SVIParams{A: meanW, B: 0.1, Rho: 0, M: 0, Sigma: 0.1},
	}
}

// Calibrate fits SVIParams to samples by minimizing the weighted squared
// total-variance error using numerical gradient descent, stepping along
// the normalized gradient direction scaled by opts.LearningRate so
// convergence speed doesn't depend on the error surface's local
// curvature. It stops early when the relative RMSE change of a step is
// smaller than opts.Tolerance in magnitude, or after opts.MaxIter
// iterations; a step that worsens the RMSE by more than that does not
// stop it. The constraints
// rho in (-0.99,0.99), b >= 0.001, sigma >= 0.001 are enforced by
// projection after every step.
func Calibrate(samples []SmileSample, opts CalibrateOptions) (CalibrationResult, error) {
	if len(samples) < 5 {
		return CalibrationResult{}, fmt.Errorf("analytics: %d samples: %w", len(samples), ErrNotEnoughSamples)
	}

	p := opts.Initial.clampConstraints()
	prevRMSE := rmse(samples, p)

	const h = 1e-5 // finite-difference step for the numerical gradient
	iter := 0
	for ; iter < opts.MaxIter; iter++ {
		grad := numericalGradient(samples, p, h)
		norm := math.Sqrt(grad.A*grad.A + grad.B*grad.B + grad.Rho*grad.Rho + grad.M*grad.M + grad.Sigma*grad.Sigma)
		if norm > 0 {
			step := opts.LearningRate / norm
			p.A -= step * grad.A
			p.B -= step * grad.B
			p.Rho -= step * grad.Rho
			p.M -= step * grad.M
			p.Sigma -= step * grad.Sigma
		}
		p = p.clampConstraints()

		curRMSE := rmse(samples, p)
		if prevRMSE > 0 {
			improvement := (prevRMSE - curRMSE) / prevRMSE
			if improvement < opts.Tolerance && improvement > -opts.Tolerance {
				prevRMSE = curRMSE
				iter++
				break
			}
		}
		prevRMSE = curRMSE
	}

	return CalibrationResult{Params: p, RMSE: prevRMSE, Iterations: iter}, nil
}

// rmse computes the weighted root-mean-square total-variance error of p
// against samples.
func rmse(samples []SmileSample, p SVIParams) float64 {
	var sumSq, sumW float64
	for _, s := range samples {
		wTarget := s.IV * s.IV * s.T
		wModel := TotalVariance(p, s.K)
		e := wModel - wTarget
		sumSq += s.Weight * e * e
		sumW += s.Weight
	}
	if sumW == 0 {
		return 0
	}
	return math.Sqrt(sumSq / sumW)
}

// numericalGradient returns the gradient of rmse with respect to each
// SVI parameter via central finite differences.
func numericalGradient(samples []SmileSample, p SVIParams, h float64) SVIParams {
	base := func(mutate func(*SVIParams, float64)) float64 {
		plus, minus := p, p
		mutate(&plus, h)
		mutate(&minus, -h)
		return (rmse(samples, plus) - rmse(samples, minus)) / (2 * h)
	}
	return SVIParams{
		A:     base(func(q *SVIParams, d float64) { q.A += d }),
		B:     base(func(q *SVIParams, d float64) { q.B += d }),
		Rho:   base(func(q *SVIParams, d float64) { q.Rho += d }),
		M:     base(func(q *SVIParams, d float64) { q.M += d }),
		Sigma: base(func(q *SVIParams, d float64) { q.Sigma += d }),
	}
}
