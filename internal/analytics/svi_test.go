package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpliedVolZeroMaturity(t *testing.T) {
	p := SVIParams{A: 0.1, B: 0.2, Rho: 0, M: 0, Sigma: 0.2}
	assert.Equal(t, 0.0, ImpliedVol(p, 0, 0))
}

func TestImpliedVolMatchesTotalVariance(t *testing.T) {
	p := SVIParams{A: 0.04, B: 0.1, Rho: -0.3, M: 0, Sigma: 0.2}
	k, T := 0.1, 1.5
	w := TotalVariance(p, k)
	iv := ImpliedVol(p, k, T)
	assert.InDelta(t, w, iv*iv*T, 1e-9)
}

// syntheticSmile generates samples that are exact under knownParams, so a
// successful calibration should recover an RMSE close to zero.
func syntheticSmile(params SVIParams, t float64) []SmileSample {
	ks := []float64{-0.3, -0.2, -0.1, 0, 0.1, 0.2, 0.3}
	var out []SmileSample
	for _, k := range ks {
		w := TotalVariance(params, k)
		if w < 0 {
			w = 0
		}
		iv := math.Sqrt(w / t)
		out = append(out, SmileSample{K: k, IV: iv, Weight: 1, T: t})
	}
	return out
}

func TestCalibrateRecoversLowRMSE(t *testing.T) {
	truth := SVIParams{A: 0.04, B: 0.15, Rho: -0.2, M: 0.0, Sigma: 0.15}
	samples := syntheticSmile(truth, 1.0)

	opts := DefaultCalibrateOptions(samples)
	opts.MaxIter = 5000

	result, err := Calibrate(samples, opts)
	require.NoError(t, err)
	assert.Less(t, result.RMSE, 0.01, "calibration against exact synthetic data should fit tightly")
	assert.Greater(t, result.Iterations, 0)
}

func TestCalibrateRejectsTooFewSamples(t *testing.T) {
	samples := []SmileSample{{K: 0, IV: 0.2, Weight: 1, T: 1}}
	_, err := Calibrate(samples, DefaultCalibrateOptions(samples))
	require.ErrorIs(t, err, ErrNotEnoughSamples)
}

func TestCalibrateRespectsConstraints(t *testing.T) {
	truth := SVIParams{A: 0.01, B: 0.3, Rho: 0.5, M: 0, Sigma: 0.05}
	samples := syntheticSmile(truth, 0.5)
	opts := DefaultCalibrateOptions(samples)
	opts.MaxIter = 3000

	result, err := Calibrate(samples, opts)
	require.NoError(t, err)
	assert.Less(t, result.Params.Rho, 0.99)
	assert.Greater(t, result.Params.Rho, -0.99)
	assert.GreaterOrEqual(t, result.Params.B, 0.001)
	assert.GreaterOrEqual(t, result.Params.Sigma, 0.001)
}
