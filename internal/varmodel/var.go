package varmodel

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// Model is a reduced-form VAR(p) with an intercept, estimated equation by
// equation with OLS.
type Model struct {
	Lags   int
	A      []*mat.Dense  // K x K coefficient matrix per lag
	C      *mat.VecDense // intercept per equation
	SigmaU *mat.SymDense // residual covariance, df-adjusted
	nobs   int           // usable rows after lag trimming
}

// Estimate fits a VAR(p) to y (rows: time, cols: variables) by OLS with a
// constant term.
func Estimate(y *mat.Dense, lags int) (*Model, error) {
	if y == nil {
		return nil, fmt.Errorf("var: data not provided")
	}
	if lags <= 0 {
		return nil, fmt.Errorf("var: lags must be > 0")
	}

	T, K := y.Dims()
	p := lags
	regressors := 1 + p*K
	if T-p <= regressors {
		return nil, fmt.Errorf("var: need more than %d observations for %d lags, got %d", regressors+p, p, T)
	}

	Treg := T - p

	// Response rows y_p .. y_{T-1}
	Y := mat.NewDense(Treg, K, nil)
	for t := 0; t < Treg; t++ {
		for k := 0; k < K; k++ {
			Y.Set(t, k, y.At(t+p, k))
		}
	}

	// Regressor rows: constant then lag blocks most recent first
	X := mat.NewDense(Treg, regressors, nil)
	for t := 0; t < Treg; t++ {
		X.Set(t, 0, 1.0)
		col := 1
		for j := 1; j <= p; j++ {
			srcRow := t + p - j
			for k := 0; k < K; k++ {
				X.Set(t, col, y.At(srcRow, k))
				col++
			}
		}
	}

	// B = (X'X)^(-1) X'Y via the normal equations, with an SVD fallback
	// when X'X is numerically singular.
	var B mat.Dense
	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err == nil {
		var xty mat.Dense
		xty.Mul(X.T(), Y)
		B.Mul(&xtxInv, &xty)
	} else {
		var svd mat.SVD
		if ok := svd.Factorize(X, mat.SVDThin); !ok {
			return nil, fmt.Errorf("var: X'X singular and SVD factorization failed")
		}
		rank := svd.Rank(1e-12)
		if rank == 0 {
			return nil, fmt.Errorf("var: regressor matrix is numerically zero")
		}
		svd.SolveTo(&B, Y, rank)
	}

	// Split B into intercepts and per-lag coefficient matrices.
	C := mat.NewVecDense(K, nil)
	for k := 0; k < K; k++ {
		C.SetVec(k, B.At(0, k))
	}

	A := make([]*mat.Dense, p)
	for j := 0; j < p; j++ {
		Aj := mat.NewDense(K, K, nil)
		rowOffset := 1 + j*K
		for eq := 0; eq < K; eq++ {
			for v := 0; v < K; v++ {
				Aj.Set(eq, v, B.At(rowOffset+v, eq))
			}
		}
		A[j] = Aj
	}

	// Residual covariance with degrees-of-freedom adjustment.
	var Yhat mat.Dense
	Yhat.Mul(X, &B)
	var U mat.Dense
	U.Sub(Y, &Yhat)
	var utu mat.Dense
	utu.Mul(U.T(), &U)

	df := float64(Treg - regressors)
	if df <= 0 {
		df = float64(Treg)
	}
	sigmaData := make([]float64, K*K)
	for i := 0; i < K; i++ {
		for j := 0; j < K; j++ {
			sigmaData[i*K+j] = utu.At(i, j) / df
		}
	}

	return &Model{
		Lags:   p,
		A:      A,
		C:      C,
		SigmaU: mat.NewSymDense(K, sigmaData),
		nobs:   Treg,
	}, nil
}

// AIC returns the Akaike information criterion of the fitted model,
// log|Sigma_mle| + 2*k/T where k counts estimated coefficients per
// equation times equations.
func (m *Model) AIC() float64 {
	K := m.C.Len()
	regressors := 1 + m.Lags*K

	// Rescale the df-adjusted covariance back to the MLE estimate.
	scale := float64(m.nobs-regressors) / float64(m.nobs)
	if scale <= 0 {
		scale = 1
	}
	sigmaMLE := mat.NewDense(K, K, nil)
	for i := 0; i < K; i++ {
		for j := 0; j < K; j++ {
			sigmaMLE.Set(i, j, m.SigmaU.At(i, j)*scale)
		}
	}

	logDet, sign := mat.LogDet(sigmaMLE)
	if sign <= 0 {
		return math.Inf(1)
	}
	params := float64(K * regressors)
	return logDet + 2*params/float64(m.nobs)
}

// SelectLagOrder picks the lag order in 1..maxLags minimizing AIC. All
// candidates are fitted on the common sample that drops the first maxLags
// rows, so their criteria are comparable.
func SelectLagOrder(y *mat.Dense, maxLags int) (int, error) {
	if maxLags <= 0 {
		return 0, fmt.Errorf("var: maxLags must be > 0")
	}
	T, K := y.Dims()

	best := 0
	bestAIC := math.Inf(1)
	for p := 1; p <= maxLags; p++ {
		// Common estimation sample across candidate orders.
		offset := maxLags - p
		sub := y.Slice(offset, T, 0, K).(*mat.Dense)

		model, err := Estimate(sub, p)
		if err != nil {
			continue
		}
		if aic := model.AIC(); aic < bestAIC {
			bestAIC = aic
			best = p
		}
	}
	if best == 0 {
		return 0, fmt.Errorf("var: no lag order in 1..%d could be estimated", maxLags)
	}
	return best, nil
}
