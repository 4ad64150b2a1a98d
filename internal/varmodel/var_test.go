package varmodel

import (
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// simulateBivariate draws T rows from a known VAR(1) with independent
// Gaussian innovations.
func simulateBivariate(T int, a11, a12, a21, a22, c1, c2, sigma float64, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewSource(seed))
	y := mat.NewDense(T, 2, nil)
	for t := 1; t < T; t++ {
		y.Set(t, 0, c1+a11*y.At(t-1, 0)+a12*y.At(t-1, 1)+sigma*rng.NormFloat64())
		y.Set(t, 1, c2+a21*y.At(t-1, 0)+a22*y.At(t-1, 1)+sigma*rng.NormFloat64())
	}
	return y
}

func TestEstimate_RecoversVAR1(t *testing.T) {
	y := simulateBivariate(2000, 0.5, 0.1, -0.2, 0.4, 0.3, -0.1, 0.5, 7)

	model, err := Estimate(y, 1)
	require.NoError(t, err)
	require.Equal(t, 1, model.Lags)

	assert.InDelta(t, 0.5, model.A[0].At(0, 0), 0.08)
	assert.InDelta(t, 0.1, model.A[0].At(0, 1), 0.08)
	assert.InDelta(t, -0.2, model.A[0].At(1, 0), 0.08)
	assert.InDelta(t, 0.4, model.A[0].At(1, 1), 0.08)
	assert.InDelta(t, 0.3, model.C.AtVec(0), 0.1)
	assert.InDelta(t, -0.1, model.C.AtVec(1), 0.1)
	assert.InDelta(t, 0.25, model.SigmaU.At(0, 0), 0.05)
}

func TestEstimate_Errors(t *testing.T) {
	y := mat.NewDense(5, 2, nil)

	_, err := Estimate(nil, 1)
	assert.Error(t, err)

	_, err = Estimate(y, 0)
	assert.Error(t, err)

	_, err = Estimate(y, 4)
	assert.Error(t, err)
}

func TestSelectLagOrder_PrefersTrueOrder(t *testing.T) {
	y := simulateBivariate(2000, 0.6, 0.0, 0.0, 0.5, 0.0, 0.0, 1.0, 11)

	lags, err := SelectLagOrder(y, 4)
	require.NoError(t, err)
	assert.Equal(t, 1, lags)
}

func TestOrthIRF_ImpactMatchesCholesky(t *testing.T) {
	y := simulateBivariate(800, 0.5, 0.1, -0.2, 0.4, 0.0, 0.0, 1.0, 3)
	model, err := Estimate(y, 1)
	require.NoError(t, err)

	irfs, err := model.OrthIRF(4)
	require.NoError(t, err)
	require.Len(t, irfs, 5)

	// Psi_0 = I, so the impact response is the Cholesky factor itself:
	// lower triangular with positive diagonal.
	assert.Zero(t, irfs[0].At(0, 1))
	assert.Greater(t, irfs[0].At(0, 0), 0.0)
	assert.Greater(t, irfs[0].At(1, 1), 0.0)

	// Responses of a stable VAR decay toward zero.
	assert.Less(t, math.Abs(irfs[4].At(0, 0)), math.Abs(irfs[0].At(0, 0)))
}

func TestErrorBands_BracketPointEstimate(t *testing.T) {
	y := simulateBivariate(400, 0.5, 0.1, -0.2, 0.4, 0.0, 0.0, 1.0, 5)
	model, err := Estimate(y, 1)
	require.NoError(t, err)

	irfs, err := model.OrthIRF(4)
	require.NoError(t, err)

	lower, upper, err := model.ErrorBands(y, 4, 100, 0.05, 17)
	require.NoError(t, err)

	for h := 0; h <= 4; h++ {
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				assert.LessOrEqual(t, lower[h].At(i, j), upper[h].At(i, j))
			}
		}
	}
	// The point estimate at longer horizons should sit inside the band.
	assert.Less(t, lower[4].At(1, 0), irfs[4].At(1, 0))
	assert.Greater(t, upper[4].At(1, 0), irfs[4].At(1, 0))
}

func TestErrorBands_Deterministic(t *testing.T) {
	y := simulateBivariate(300, 0.5, 0.0, 0.0, 0.4, 0.0, 0.0, 1.0, 5)
	model, err := Estimate(y, 1)
	require.NoError(t, err)

	lo1, hi1, err := model.ErrorBands(y, 3, 50, 0.05, 42)
	require.NoError(t, err)
	lo2, hi2, err := model.ErrorBands(y, 3, 50, 0.05, 42)
	require.NoError(t, err)

	for h := 0; h <= 3; h++ {
		assert.True(t, mat.Equal(lo1[h], lo2[h]))
		assert.True(t, mat.Equal(hi1[h], hi2[h]))
	}
}

func TestCumulativeLevelEffect(t *testing.T) {
	out := CumulativeLevelEffect([]float64{4, 4})

	// One quarter of 4 percent annualized growth is about 1 percent of
	// level, compounding across quarters.
	assert.InDelta(t, 100*(math.Exp(0.01)-1), out[0], 1e-12)
	assert.InDelta(t, 100*(math.Exp(0.02)-1), out[1], 1e-12)
}

func TestQuarterArithmetic(t *testing.T) {
	q := Quarter{Year: 2025, Q: 4}
	assert.Equal(t, "2025Q4", q.String())
	assert.Equal(t, Quarter{Year: 2026, Q: 1}, q.Next(1))
	assert.Equal(t, Quarter{Year: 2028, Q: 4}, q.Next(12))
	assert.Equal(t, Quarter{Year: 2020, Q: 2}, QuarterOfDate(time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC)))
}

func TestJoinQuarterly(t *testing.T) {
	index := []Point{
		{Date: time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC), Value: 0.5},
		{Date: time.Date(2020, 6, 30, 0, 0, 0, 0, time.UTC), Value: -0.25},
		{Date: time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), Value: 1.0},
	}
	gdp := []Point{
		{Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Value: -1.3},
		{Date: time.Date(2020, 4, 1, 0, 0, 0, 0, time.UTC), Value: -28.0},
		{Date: time.Date(2020, 7, 1, 0, 0, 0, 0, time.UTC), Value: 33.8},
	}

	rows := JoinQuarterly(index, gdp)
	require.Len(t, rows, 2)

	assert.Equal(t, Quarter{Year: 2020, Q: 1}, rows[0].Quarter)
	assert.Equal(t, -0.5, rows[0].Tailwind)
	assert.Equal(t, -1.3, rows[0].GDPG)
	assert.Equal(t, 0.25, rows[1].Tailwind)
}

func TestRun_EndToEnd(t *testing.T) {
	// Build quarterly series long enough for lag selection up to 8.
	rng := rand.New(rand.NewSource(9))
	var index, gdp []Point
	date := time.Date(1990, 3, 31, 0, 0, 0, 0, time.UTC)
	fci, growth := 0.0, 2.0
	for i := 0; i < 140; i++ {
		fci = 0.7*fci + 0.3*rng.NormFloat64()
		growth = 2.0 + 0.5*(growth-2.0) - 0.8*fci + rng.NormFloat64()
		index = append(index, Point{Date: date, Value: fci})
		gdp = append(gdp, Point{Date: time.Date(date.Year(), date.Month()-2, 1, 0, 0, 0, 0, time.UTC), Value: growth})
		date = date.AddDate(0, 3, 0)
	}

	rows := JoinQuarterly(index, gdp)
	require.NotEmpty(t, rows)

	opts := DefaultOptions(Quarter{Year: 2025, Q: 4})
	opts.Replications = 50

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	results, err := Run(rows, opts, logger)
	require.NoError(t, err)
	require.Len(t, results, opts.Horizon+1)

	first := results[0]
	assert.Equal(t, 0, first.Horizon)
	assert.Equal(t, "2025Q4", first.Quarter.String())
	assert.Equal(t, DefaultShockSize, first.ShockSize)
	assert.Greater(t, first.Lags, 0)

	// The rescaled tailwind impact at h=0 equals the shock size by
	// construction, so the scale factor applies consistently.
	assert.InDelta(t, DefaultShockSize, first.TailwindImpact*first.ScaleFactor, 1e-12)

	// A tailwind shock should lift GDP growth somewhere over the horizon.
	var lifted bool
	for _, row := range results {
		if row.GDPGrowth > 0 {
			lifted = true
			break
		}
	}
	assert.True(t, lifted)

	assert.Equal(t, "2028Q4", results[12].Quarter.String())
}
