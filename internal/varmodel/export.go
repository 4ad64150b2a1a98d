package varmodel

import (
	"strconv"

	"fcigcli/internal/exporter"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteEstimationData writes the joined quarterly sample the model was
// fitted on.
func WriteEstimationData(w *exporter.CSVWriter, rows []EstimationRow) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, []string{
			row.Quarter.String(),
			formatFloat(row.Tailwind),
			formatFloat(row.GDPG),
		})
	}
	return w.WriteSimpleCSV("var_estimation_data.csv",
		[]string{"quarter", "tailwind", "gdp_g"}, records)
}

var resultHeaders = []string{
	"h", "quarter", "shock_tailwind", "var_lags_p",
	"tailwind_impact_h0_per_1orth", "scale_factor",
	"gdp_growth_pp_qoq_ann", "gdp_growth_pp_qoq_ann_lo95", "gdp_growth_pp_qoq_ann_hi95",
	"cum_gdp_level_pct", "cum_gdp_level_pct_lo95", "cum_gdp_level_pct_hi95",
}

func resultRecord(row ResultRow) []string {
	return []string{
		strconv.Itoa(row.Horizon),
		row.Quarter.String(),
		formatFloat(row.ShockSize),
		strconv.Itoa(row.Lags),
		formatFloat(row.TailwindImpact),
		formatFloat(row.ScaleFactor),
		formatFloat(row.GDPGrowth),
		formatFloat(row.GDPGrowthLo95),
		formatFloat(row.GDPGrowthHi95),
		formatFloat(row.CumGDPLevel),
		formatFloat(row.CumGDPLevelLo95),
		formatFloat(row.CumGDPLevelHi95),
	}
}

// WriteResults writes the full impulse response table.
func WriteResults(w *exporter.CSVWriter, results []ResultRow) error {
	records := make([][]string, 0, len(results))
	for _, row := range results {
		records = append(records, resultRecord(row))
	}
	return w.WriteSimpleCSV("var_irf_results.csv", resultHeaders, records)
}

// WriteSummary writes the short-horizon summary covering h=0..5.
func WriteSummary(w *exporter.CSVWriter, results []ResultRow) error {
	records := make([][]string, 0, 6)
	for _, row := range results {
		if row.Horizon > 5 {
			break
		}
		records = append(records, []string{
			row.Quarter.String(),
			strconv.Itoa(row.Horizon),
			formatFloat(row.GDPGrowth),
			formatFloat(row.GDPGrowthLo95),
			formatFloat(row.GDPGrowthHi95),
			formatFloat(row.CumGDPLevel),
			formatFloat(row.CumGDPLevelLo95),
			formatFloat(row.CumGDPLevelHi95),
		})
	}
	return w.WriteSimpleCSV("var_irf_summary_table.csv",
		[]string{
			"quarter", "h",
			"gdp_growth_pp_qoq_ann", "gdp_growth_pp_qoq_ann_lo95", "gdp_growth_pp_qoq_ann_hi95",
			"cum_gdp_level_pct", "cum_gdp_level_pct_lo95", "cum_gdp_level_pct_hi95",
		}, records)
}
