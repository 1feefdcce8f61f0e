package services

import "math"

// Round2 rounds to 2 decimal places, half away from zero. Every money figure
// in the budget is stored at this precision.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ItemValue computes a line item's value from quantity and unit price.
func ItemValue(qty, unitPrice float64) float64 {
	return Round2(qty * unitPrice)
}

// ChapterTotal sums the computed values of the items in a chapter.
func ChapterTotal(items []Item) float64 {
	var sum float64
	for _, it := range items {
		sum += it.Value
	}
	return Round2(sum)
}

// DryCost sums all chapter totals: the project's material cost before
// diverse, subcontractor and amortization costs.
func DryCost(chapters []Chapter) float64 {
	var sum float64
	for _, ch := range chapters {
		sum += ChapterTotal(ch.Items)
	}
	return Round2(sum)
}

// SupplierTotal sums the SUBCONTRACTORS entries.
func SupplierTotal(entries []SupplierCost) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Total
	}
	return Round2(sum)
}

// AmortizationTotal sums the AMORTIZATIONS entries.
func AmortizationTotal(entries []Amortization) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.Total
	}
	return Round2(sum)
}

// OverrideTotals aggregates the per-item real costs across all chapters.
type OverrideTotals struct {
	// Count is the number of items carrying a usable real cost.
	Count int
	// Total is the project dry cost with each overridden item contributing
	// its real cost and every other item its budgeted value.
	Total float64
}

// ResolveOverrides walks every item of every chapter. The switch is
// all-or-nothing: the caller substitutes Total for the plain dry cost only
// when Count > 0, otherwise the budgeted figures stand untouched.
func ResolveOverrides(chapters []Chapter) OverrideTotals {
	var ov OverrideTotals
	for _, ch := range chapters {
		for _, it := range ch.Items {
			if real, ok := it.Control.RealCostValue(); ok {
				ov.Count++
				ov.Total += real
			} else {
				ov.Total += it.Value
			}
		}
	}
	ov.Total = Round2(ov.Total)
	return ov
}

// CostStatus classifies an item's budget-versus-real difference.
type CostStatus string

const (
	CostSavings CostStatus = "savings" // budgeted above real
	CostOverrun CostStatus = "overrun" // budgeted below real
	CostNeutral CostStatus = "neutral" // equal, or no usable real cost
)

// RealCostDifference returns budgeted minus real for an item and its
// classification. Items without a usable real cost are neutral with a zero
// difference.
func RealCostDifference(it Item) (float64, CostStatus) {
	real, ok := it.Control.RealCostValue()
	if !ok {
		return 0, CostNeutral
	}
	diff := Round2(it.Value - real)
	switch {
	case diff > 0:
		return diff, CostSavings
	case diff < 0:
		return diff, CostOverrun
	default:
		return 0, CostNeutral
	}
}

// SolveSale back-solves the sale price from the total cost and the target
// margin percent: sale = cost / (1 - margin/100). The margin mutator rejects
// values at or above 100, but the solver still guards the singular
// denominator so stale data can never produce Inf or NaN.
func SolveSale(totalCost, marginPercent float64) (saleValue, marginValue float64) {
	denom := 1 - marginPercent/100
	if denom <= 0 {
		return Round2(totalCost), 0
	}
	saleValue = Round2(totalCost / denom)
	marginValue = Round2(saleValue - totalCost)
	return saleValue, marginValue
}
