package varmodel

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"

	"fcigcli/internal/calendar"
)

// Analysis defaults. The shock is a +0.10 easing of financial conditions
// (a rise in the tailwind, the negated index), traced through GDP growth
// over twelve quarters.
const (
	DefaultShockSize      = 0.1
	DefaultHorizon        = 12
	DefaultMaxLags        = 8
	DefaultReplications   = 2000
	DefaultSignificance   = 0.05
	tailwindIndex         = 0
	gdpIndex              = 1
	analysisVariableCount = 2
)

// Point is one dated scalar value of an input series.
type Point struct {
	Date  time.Time
	Value float64
}

// Quarter identifies a calendar quarter.
type Quarter struct {
	Year int
	Q    int
}

// QuarterOfDate returns the quarter containing a date.
func QuarterOfDate(t time.Time) Quarter {
	return Quarter{Year: t.Year(), Q: calendar.QuarterOf(t)}
}

// Next returns the quarter h quarters later.
func (q Quarter) Next(h int) Quarter {
	idx := q.Year*4 + (q.Q - 1) + h
	return Quarter{Year: idx / 4, Q: idx%4 + 1}
}

// String formats the quarter as e.g. "2025Q4".
func (q Quarter) String() string {
	return fmt.Sprintf("%dQ%d", q.Year, q.Q)
}

func (q Quarter) less(other Quarter) bool {
	if q.Year != other.Year {
		return q.Year < other.Year
	}
	return q.Q < other.Q
}

// EstimationRow is one joined quarterly observation used for estimation.
type EstimationRow struct {
	Quarter  Quarter
	Tailwind float64
	GDPG     float64
}

// JoinQuarterly inner-joins the quarterly index series and GDP growth
// series on calendar quarter, negating the index into a tailwind. Each
// input may carry at most one value per quarter; the last wins.
func JoinQuarterly(index, gdp []Point) []EstimationRow {
	indexByQuarter := make(map[Quarter]float64, len(index))
	for _, p := range index {
		indexByQuarter[QuarterOfDate(p.Date)] = p.Value
	}

	rows := make([]EstimationRow, 0, len(gdp))
	seen := make(map[Quarter]bool, len(gdp))
	for _, p := range gdp {
		q := QuarterOfDate(p.Date)
		value, ok := indexByQuarter[q]
		if !ok || seen[q] {
			continue
		}
		seen[q] = true
		rows = append(rows, EstimationRow{Quarter: q, Tailwind: -value, GDPG: p.Value})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Quarter.less(rows[j].Quarter) })
	return rows
}

// ResultRow is one horizon of the impulse response output.
type ResultRow struct {
	Horizon         int
	Quarter         Quarter
	ShockSize       float64
	Lags            int
	TailwindImpact  float64
	ScaleFactor     float64
	GDPGrowth       float64
	GDPGrowthLo95   float64
	GDPGrowthHi95   float64
	CumGDPLevel     float64
	CumGDPLevelLo95 float64
	CumGDPLevelHi95 float64
}

// Options configures an impulse response analysis run.
type Options struct {
	ShockSize    float64
	Horizon      int
	MaxLags      int
	Replications int
	Significance float64
	ShockQuarter Quarter
	Seed         uint64
}

// DefaultOptions returns the standard analysis configuration with the
// given shock quarter.
func DefaultOptions(shockQuarter Quarter) Options {
	return Options{
		ShockSize:    DefaultShockSize,
		Horizon:      DefaultHorizon,
		MaxLags:      DefaultMaxLags,
		Replications: DefaultReplications,
		Significance: DefaultSignificance,
		ShockQuarter: shockQuarter,
		Seed:         1,
	}
}

// Run estimates the bivariate VAR on the joined rows and computes the GDP
// growth response to a tailwind shock, with Monte Carlo confidence bands
// and the cumulative GDP level effect.
func Run(rows []EstimationRow, opts Options, logger *slog.Logger) ([]ResultRow, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("var: no overlapping quarters to estimate on")
	}

	y := mat.NewDense(len(rows), analysisVariableCount, nil)
	for i, row := range rows {
		y.Set(i, tailwindIndex, row.Tailwind)
		y.Set(i, gdpIndex, row.GDPG)
	}

	lags, err := SelectLagOrder(y, opts.MaxLags)
	if err != nil {
		return nil, err
	}
	model, err := Estimate(y, lags)
	if err != nil {
		return nil, err
	}

	logger.Info("estimated VAR model",
		slog.Int("observations", len(rows)),
		slog.Int("lags", lags))

	irfs, err := model.OrthIRF(opts.Horizon)
	if err != nil {
		return nil, err
	}
	lower, upper, err := model.ErrorBands(y, opts.Horizon, opts.Replications, opts.Significance, opts.Seed)
	if err != nil {
		return nil, err
	}

	// Rescale the one standard deviation orthogonalized shock to the
	// configured shock size in the tailwind.
	tailwindImpact := irfs[0].At(tailwindIndex, tailwindIndex)
	if tailwindImpact == 0 {
		return nil, fmt.Errorf("var: degenerate tailwind impact at horizon zero")
	}
	scale := opts.ShockSize / tailwindImpact

	resp := make([]float64, opts.Horizon+1)
	lo := make([]float64, opts.Horizon+1)
	hi := make([]float64, opts.Horizon+1)
	for h := 0; h <= opts.Horizon; h++ {
		resp[h] = irfs[h].At(gdpIndex, tailwindIndex) * scale
		lo[h] = lower[h].At(gdpIndex, tailwindIndex) * scale
		hi[h] = upper[h].At(gdpIndex, tailwindIndex) * scale
	}

	cum := CumulativeLevelEffect(resp)
	cumLo := CumulativeLevelEffect(lo)
	cumHi := CumulativeLevelEffect(hi)

	results := make([]ResultRow, opts.Horizon+1)
	for h := 0; h <= opts.Horizon; h++ {
		results[h] = ResultRow{
			Horizon:         h,
			Quarter:         opts.ShockQuarter.Next(h),
			ShockSize:       opts.ShockSize,
			Lags:            lags,
			TailwindImpact:  tailwindImpact,
			ScaleFactor:     scale,
			GDPGrowth:       resp[h],
			GDPGrowthLo95:   lo[h],
			GDPGrowthHi95:   hi[h],
			CumGDPLevel:     cum[h],
			CumGDPLevelLo95: cumLo[h],
			CumGDPLevelHi95: cumHi[h],
		}
	}
	return results, nil
}

// CumulativeLevelEffect converts a quarterly annualized growth response
// into the cumulative percent effect on the GDP level.
func CumulativeLevelEffect(growth []float64) []float64 {
	out := make([]float64, len(growth))
	var cumLog float64
	for i, g := range growth {
		cumLog += g / 400.0
		out[i] = 100.0 * (math.Exp(cumLog) - 1.0)
	}
	return out
}
