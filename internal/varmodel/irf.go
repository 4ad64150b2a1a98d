package varmodel

import (
	"fmt"
	"math"
	"sort"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// maCoefficients computes the moving-average matrices Psi_0..Psi_horizon
// of the VAR, with Psi_0 = I.
func (m *Model) maCoefficients(horizon int) []*mat.Dense {
	K := m.C.Len()
	p := m.Lags

	psi := make([]*mat.Dense, horizon+1)
	identity := mat.NewDense(K, K, nil)
	for i := 0; i < K; i++ {
		identity.Set(i, i, 1.0)
	}
	psi[0] = identity

	for h := 1; h <= horizon; h++ {
		M := mat.NewDense(K, K, nil)
		maxLag := p
		if h < p {
			maxLag = h
		}
		for j := 1; j <= maxLag; j++ {
			var tmp mat.Dense
			tmp.Mul(m.A[j-1], psi[h-j])
			M.Add(M, &tmp)
		}
		psi[h] = M
	}
	return psi
}

// choleskyLower returns the lower triangular factor L of SigmaU = L L'.
func (m *Model) choleskyLower() (*mat.TriDense, error) {
	K := m.C.Len()
	var chol mat.Cholesky
	if !chol.Factorize(m.SigmaU) {
		return nil, fmt.Errorf("var: residual covariance is not positive definite")
	}
	L := mat.NewTriDense(K, mat.Lower, nil)
	chol.LTo(L)
	return L, nil
}

// OrthIRF computes Cholesky-orthogonalized impulse responses for horizons
// 0..horizon. Entry [h] is the K x K matrix Psi_h * L whose (i, j) element
// is the response of variable i at horizon h to a one standard deviation
// orthogonalized shock in variable j. Variable ordering fixes the
// identification.
func (m *Model) OrthIRF(horizon int) ([]*mat.Dense, error) {
	if horizon < 0 {
		return nil, fmt.Errorf("var: horizon must be >= 0")
	}
	L, err := m.choleskyLower()
	if err != nil {
		return nil, err
	}

	psi := m.maCoefficients(horizon)
	irfs := make([]*mat.Dense, horizon+1)
	for h := range psi {
		K := m.C.Len()
		out := mat.NewDense(K, K, nil)
		out.Mul(psi[h], L)
		irfs[h] = out
	}
	return irfs, nil
}

// simulate draws an artificial sample of length T from the fitted model,
// seeding the recursion with the first p rows of y and drawing Gaussian
// innovations through the Cholesky factor.
func (m *Model) simulate(y *mat.Dense, L *mat.TriDense, rng *rand.Rand) *mat.Dense {
	T, K := y.Dims()
	p := m.Lags
	normal := distuv.Normal{Mu: 0, Sigma: 1, Src: rng}

	sim := mat.NewDense(T, K, nil)
	for t := 0; t < p; t++ {
		for k := 0; k < K; k++ {
			sim.Set(t, k, y.At(t, k))
		}
	}

	z := make([]float64, K)
	for t := p; t < T; t++ {
		for k := 0; k < K; k++ {
			z[k] = normal.Rand()
		}
		for eq := 0; eq < K; eq++ {
			val := m.C.AtVec(eq)
			for j := 1; j <= p; j++ {
				A := m.A[j-1]
				for k := 0; k < K; k++ {
					val += A.At(eq, k) * sim.At(t-j, k)
				}
			}
			// Correlated innovation u = L z.
			for k := 0; k <= eq; k++ {
				val += L.At(eq, k) * z[k]
			}
			sim.Set(t, eq, val)
		}
	}
	return sim
}

// ErrorBands computes Monte Carlo confidence bands for the orthogonalized
// IRFs at the given significance level. Each replication simulates a sample
// from the fitted model, refits a VAR of the same order, and recomputes the
// IRFs; the bands are the pointwise quantiles over replications.
func (m *Model) ErrorBands(y *mat.Dense, horizon, replications int, signif float64, seed uint64) (lower, upper []*mat.Dense, err error) {
	if replications <= 0 {
		return nil, nil, fmt.Errorf("var: replications must be > 0")
	}
	if signif <= 0 || signif >= 1 {
		return nil, nil, fmt.Errorf("var: significance must be in (0, 1)")
	}

	L, err := m.choleskyLower()
	if err != nil {
		return nil, nil, err
	}

	K := m.C.Len()
	rng := rand.New(rand.NewSource(seed))

	// draws[h][i][j] collects the replication values for one IRF cell.
	draws := make([][][][]float64, horizon+1)
	for h := range draws {
		draws[h] = make([][][]float64, K)
		for i := 0; i < K; i++ {
			draws[h][i] = make([][]float64, K)
			for j := 0; j < K; j++ {
				draws[h][i][j] = make([]float64, 0, replications)
			}
		}
	}

	for r := 0; r < replications; r++ {
		sim := m.simulate(y, L, rng)
		refit, err := Estimate(sim, m.Lags)
		if err != nil {
			continue
		}
		irfs, err := refit.OrthIRF(horizon)
		if err != nil {
			continue
		}
		for h := 0; h <= horizon; h++ {
			for i := 0; i < K; i++ {
				for j := 0; j < K; j++ {
					draws[h][i][j] = append(draws[h][i][j], irfs[h].At(i, j))
				}
			}
		}
	}

	lower = make([]*mat.Dense, horizon+1)
	upper = make([]*mat.Dense, horizon+1)
	for h := 0; h <= horizon; h++ {
		lo := mat.NewDense(K, K, nil)
		hi := mat.NewDense(K, K, nil)
		for i := 0; i < K; i++ {
			for j := 0; j < K; j++ {
				cell := draws[h][i][j]
				if len(cell) == 0 {
					return nil, nil, fmt.Errorf("var: all Monte Carlo replications failed")
				}
				lo.Set(i, j, quantile(cell, signif/2))
				hi.Set(i, j, quantile(cell, 1-signif/2))
			}
		}
		lower[h] = lo
		upper[h] = hi
	}
	return lower, upper, nil
}

// quantile returns the q-th empirical quantile of samples using nearest
// rank on the sorted copy.
func quantile(samples []float64, q float64) float64 {
	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	idx := int(math.Ceil(q*float64(len(sorted)))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
