package normalizer

import (
	"strings"

	"gdm/internal/models"
)

// Derived column names. Downstream consumers match on these literal names,
// so renaming any of them is a breaking change.
const (
	FieldPowerIndexScore   = "Power Index Score"
	FieldPowerIndexRank    = "Power Index Rank"
	FieldPowerIndexRankGap = "Power Index Rank Gap"
	FieldBudgetToGDPRatio  = "Defense_Budget_to_GDP_Ratio"
	FieldEquipmentTotal    = "Equipment_Total"
	FieldPersonnelTotal    = "Personnel_Total"
	FieldSpendingPerCapita = "Military_Spending_per_Capita"
)

// Keyword tables for the cross-record KPIs. The per-capita pairing uses a
// narrower hardware set than the capability total; both mirror the column
// selections the downstream dashboard was built against.
var (
	perCapitaKeywords    = []string{"aircraft", "tank", "helicopter", "vessel"}
	capabilityKeywords   = []string{"aircraft", "tank", "helicopter", "submarine", "carrier"}
	personnelSumKeywords = []string{"personnel", "active"}
)

const (
	populationKeyword = "population"
	budgetKeyword     = "budget"
	gdpKeyword        = "gdp"
)

// Derive computes the KPI table from a cleaned dataset. It is a pure
// function over the whole table: several indicators need cross-record
// statistics, so it cannot run until every record has been cleaned. The
// input table is read-only here; the output is a disjoint table keyed by
// the same identities, in the same record order.
//
// Any KPI whose required input columns are missing from the dataset is
// omitted from the output entirely. That is a normal outcome, not an error.
func Derive(table *models.Table) *models.Table {
	derived := models.NewTable()

	outRecords := make([]*models.Record, 0, table.Len())
	for _, rec := range table.Records() {
		out := models.NewRecord(rec.Name())
		outRecords = append(outRecords, out)
		derived.Append(out)
	}

	cols := table.Columns()[1:] // drop identity

	deriveCompositeScore(table, cols, outRecords)
	deriveRankGap(table, cols, outRecords)
	derivePerCapita(table, cols, outRecords)
	deriveBudgetRatios(table, cols, outRecords)
	deriveTotals(table, cols, outRecords)

	return derived
}

// deriveCompositeScore min-max normalizes every scoreable column and sums
// the normalized columns per record.
//
// Two quirks are deliberate and preserved for output compatibility: the
// denominator is (max - min + 1), so the top record in a column scores just
// under 1 rather than exactly 1, and a zero-range column contributes 0 to
// every record instead of a neutral constant. Absent cells count as 0 before
// the min/max pass.
func deriveCompositeScore(table *models.Table, cols []string, out []*models.Record) {
	var scoreCols []string

	for _, col := range cols {
		if isScoreExcluded(col) || !isNumericColumn(table, col) {
			continue
		}

		scoreCols = append(scoreCols, col)
	}

	if len(scoreCols) == 0 {
		return
	}

	lows := make(map[string]float64, len(scoreCols))
	highs := make(map[string]float64, len(scoreCols))

	for _, col := range scoreCols {
		lows[col], highs[col] = columnRange(table, col)
	}

	for i, rec := range table.Records() {
		score := 0.0

		for _, col := range scoreCols {
			lo, hi := lows[col], highs[col]
			if hi-lo <= 0 {
				continue
			}

			score += (numberOrZero(rec, col) - lo) / (hi - lo + 1)
		}

		out[i].Set(FieldPowerIndexScore, models.NumberValue(score))
	}
}

// deriveRankGap emits the rank value and its gap to the best rank in the
// dataset. The record holding the minimum rank gets gap 0.
func deriveRankGap(table *models.Table, cols []string, out []*models.Record) {
	rankCol := firstMatch(cols, isRankColumn)
	if rankCol == "" {
		return
	}

	minRank := 0.0
	found := false

	for _, rec := range table.Records() {
		if v, ok := rec.Get(rankCol); ok {
			if rank, ok := v.Float(); ok {
				if !found || rank < minRank {
					minRank = rank
					found = true
				}
			}
		}
	}

	if !found {
		return
	}

	for i, rec := range table.Records() {
		v, ok := rec.Get(rankCol)
		if !ok {
			continue
		}

		rank, ok := v.Float()
		if !ok {
			continue
		}

		out[i].Set(FieldPowerIndexRank, models.NumberValue(rank))
		out[i].Set(FieldPowerIndexRankGap, models.NumberValue(rank-minRank))
	}
}

// derivePerCapita emits one <equipment>_per_capita column per equipment
// column, against the first population column found.
func derivePerCapita(table *models.Table, cols []string, out []*models.Record) {
	popCol := firstMatch(cols, func(col string) bool {
		return strings.Contains(strings.ToLower(col), populationKeyword)
	})
	if popCol == "" {
		return
	}

	for _, eqCol := range cols {
		if !containsAny(eqCol, perCapitaKeywords) {
			continue
		}

		outCol := eqCol + "_per_capita"

		for i, rec := range table.Records() {
			eq, okEq := numberAt(rec, eqCol)
			pop, okPop := numberAt(rec, popCol)

			if okEq && okPop {
				// +1 guards division by zero; the small bias near zero
				// population is part of the output contract.
				out[i].Set(outCol, models.NumberValue(eq/(pop+1)))
			}
		}
	}
}

// deriveBudgetRatios emits the budget-to-GDP percentage and the per-capita
// spending figure from the first matching budget, GDP and population columns.
func deriveBudgetRatios(table *models.Table, cols []string, out []*models.Record) {
	budgetCol := firstMatch(cols, func(col string) bool {
		lower := strings.ToLower(col)

		return strings.Contains(lower, budgetKeyword) && !strings.Contains(lower, gdpKeyword)
	})
	if budgetCol == "" {
		return
	}

	gdpCol := firstMatch(cols, func(col string) bool {
		return strings.Contains(strings.ToLower(col), gdpKeyword)
	})

	popCol := firstMatch(cols, func(col string) bool {
		return strings.Contains(strings.ToLower(col), populationKeyword)
	})

	for i, rec := range table.Records() {
		budget, okBudget := numberAt(rec, budgetCol)
		if !okBudget {
			continue
		}

		if gdpCol != "" {
			if gdp, ok := numberAt(rec, gdpCol); ok {
				out[i].Set(FieldBudgetToGDPRatio, models.NumberValue(budget/(gdp+1)*100))
			}
		}

		if popCol != "" {
			if pop, ok := numberAt(rec, popCol); ok {
				out[i].Set(FieldSpendingPerCapita, models.NumberValue(budget/(pop+1)))
			}
		}
	}
}

// deriveTotals emits the per-record equipment and personnel sums, treating
// absent cells as 0.
func deriveTotals(table *models.Table, cols []string, out []*models.Record) {
	var equipmentCols, personnelCols []string

	for _, col := range cols {
		if containsAny(col, capabilityKeywords) {
			equipmentCols = append(equipmentCols, col)
		}

		if containsAny(col, personnelSumKeywords) {
			personnelCols = append(personnelCols, col)
		}
	}

	for i, rec := range table.Records() {
		if len(equipmentCols) > 0 {
			total := 0.0
			for _, col := range equipmentCols {
				total += numberOrZero(rec, col)
			}

			out[i].Set(FieldEquipmentTotal, models.NumberValue(total))
		}

		if len(personnelCols) > 0 {
			total := 0.0
			for _, col := range personnelCols {
				total += numberOrZero(rec, col)
			}

			out[i].Set(FieldPersonnelTotal, models.NumberValue(total))
		}
	}
}

// isScoreExcluded reports whether a column stays out of the composite score:
// identity, source references, and rank columns (a rank is an ordering, not
// a magnitude).
func isScoreExcluded(col string) bool {
	return col == models.IdentityField || isSourceReference(col) || isRankColumn(col)
}

// isRankColumn matches ordering columns like "GFP Rank" without catching
// count columns like "Total Countries Ranked".
func isRankColumn(col string) bool {
	return strings.HasSuffix(strings.ToLower(col), "rank")
}

// isNumericColumn reports whether a column holds at least one number and no
// raw text anywhere, so that it is safe to aggregate.
func isNumericColumn(table *models.Table, col string) bool {
	hasNumber := false

	for _, rec := range table.Records() {
		v, ok := rec.Get(col)
		if !ok || v.IsAbsent() {
			continue
		}

		if _, isNum := v.Float(); !isNum {
			return false
		}

		hasNumber = true
	}

	return hasNumber
}

// columnRange returns the min and max of a column with absent cells counted
// as 0, matching the fill-then-normalize order of the score definition.
func columnRange(table *models.Table, col string) (float64, float64) {
	first := true

	var lo, hi float64

	for _, rec := range table.Records() {
		x := numberOrZero(rec, col)

		if first {
			lo, hi = x, x
			first = false

			continue
		}

		if x < lo {
			lo = x
		}

		if x > hi {
			hi = x
		}
	}

	return lo, hi
}

func numberAt(rec *models.Record, col string) (float64, bool) {
	v, ok := rec.Get(col)
	if !ok {
		return 0, false
	}

	return v.Float()
}

func numberOrZero(rec *models.Record, col string) float64 {
	f, ok := numberAt(rec, col)
	if !ok {
		return 0
	}

	return f
}

func firstMatch(cols []string, match func(string) bool) string {
	for _, col := range cols {
		if match(col) {
			return col
		}
	}

	return ""
}

func containsAny(col string, keywords []string) bool {
	lower := strings.ToLower(col)

	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return false
}
