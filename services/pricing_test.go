package services

import (
	"math"
	"testing"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name   string
		input  float64
		expect float64
	}{
		{"already rounded", 10.50, 10.50},
		{"rounds down", 542.1268, 542.13},
		{"rounds up", 0.666, 0.67},
		{"rounds third decimal down", 1.994, 1.99},
		{"zero", 0, 0},
		{"negative", -3.456, -3.46},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Round2(tt.input)
			if math.Abs(got-tt.expect) > 1e-9 {
				t.Errorf("Round2(%v) = %v, want %v", tt.input, got, tt.expect)
			}
		})
	}
}

func TestItemValue(t *testing.T) {
	tests := []struct {
		name      string
		qty       float64
		unitPrice float64
		expect    float64
	}{
		{"sand line", 7.33, 73.96, 542.13},
		{"integer values", 10, 50, 500},
		{"zero qty", 0, 100, 0},
		{"zero price", 5, 0, 0},
		{"sub-cent product", 0.333, 0.10, 0.03},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ItemValue(tt.qty, tt.unitPrice)
			if got != tt.expect {
				t.Errorf("ItemValue(%v, %v) = %v, want %v", tt.qty, tt.unitPrice, got, tt.expect)
			}
		})
	}
}

func TestChapterTotal(t *testing.T) {
	items := []Item{
		{Value: 542.13},
		{Value: 100.50},
		{Value: 0},
	}
	if got := ChapterTotal(items); got != 642.63 {
		t.Errorf("ChapterTotal() = %v, want 642.63", got)
	}
	if got := ChapterTotal(nil); got != 0 {
		t.Errorf("ChapterTotal(nil) = %v, want 0", got)
	}
}

func TestDryCost(t *testing.T) {
	chapters := []Chapter{
		{Key: "CAR 1", Items: []Item{{Value: 100.10}, {Value: 200.20}}},
		{Key: "CAR 2", Items: []Item{{Value: 50.05}}},
		{Key: "CAR 3"},
	}
	if got := DryCost(chapters); got != 350.35 {
		t.Errorf("DryCost() = %v, want 350.35", got)
	}
}

func TestSupplierTotal(t *testing.T) {
	entries := []SupplierCost{
		{Supplier: "Eletricista", Total: 1200},
		{Supplier: "Canalizador", Total: 800.50},
	}
	if got := SupplierTotal(entries); got != 2000.50 {
		t.Errorf("SupplierTotal() = %v, want 2000.50", got)
	}
}

func TestAmortizationTotal(t *testing.T) {
	entries := []Amortization{
		{Kind: "Material", Total: 300},
		{Kind: "Labor", Total: 150.25},
	}
	if got := AmortizationTotal(entries); got != 450.25 {
		t.Errorf("AmortizationTotal() = %v, want 450.25", got)
	}
}

func TestResolveOverrides_NoRealCosts(t *testing.T) {
	chapters := []Chapter{
		{Key: "CAR 1", Items: []Item{
			{ID: "1-1", Value: 100},
			{ID: "1-2", Value: 200, Control: &ItemControl{Supplier: "X"}},
		}},
	}
	got := ResolveOverrides(chapters)
	if got.Count != 0 {
		t.Errorf("Count = %d, want 0", got.Count)
	}
}

func TestResolveOverrides_MixedUsability(t *testing.T) {
	chapters := []Chapter{
		{Key: "CAR 1", Items: []Item{
			{ID: "1-1", Value: 100, Control: &ItemControl{RealCost: "80"}},
			{ID: "1-2", Value: 200, Control: &ItemControl{RealCost: "not a number"}},
			{ID: "1-3", Value: 300, Control: &ItemControl{RealCost: "-5"}},
			{ID: "1-4", Value: 50, Control: &ItemControl{RealCost: "  "}},
			{ID: "1-5", Value: 25},
		}},
	}

	got := ResolveOverrides(chapters)
	if got.Count != 1 {
		t.Errorf("Count = %d, want 1", got.Count)
	}
	// 80 (real) + 200 + 300 + 50 + 25 (budgeted fallbacks)
	if got.Total != 655 {
		t.Errorf("Total = %v, want 655", got.Total)
	}
}

func TestResolveOverrides_CommaDecimal(t *testing.T) {
	chapters := []Chapter{
		{Key: "CAR 1", Items: []Item{
			{ID: "1-1", Value: 542.13, Control: &ItemControl{RealCost: "500,75"}},
		}},
	}

	got := ResolveOverrides(chapters)
	if got.Count != 1 {
		t.Fatalf("Count = %d, want 1", got.Count)
	}
	if got.Total != 500.75 {
		t.Errorf("Total = %v, want 500.75", got.Total)
	}
}

func TestRealCostDifference(t *testing.T) {
	tests := []struct {
		name       string
		item       Item
		expectDiff float64
		expectStat CostStatus
	}{
		{
			"savings when real below budget",
			Item{Value: 542.13, Control: &ItemControl{RealCost: "500"}},
			42.13, CostSavings,
		},
		{
			"overrun when real above budget",
			Item{Value: 100, Control: &ItemControl{RealCost: "125.50"}},
			-25.50, CostOverrun,
		},
		{
			"neutral when equal",
			Item{Value: 100, Control: &ItemControl{RealCost: "100"}},
			0, CostNeutral,
		},
		{
			"neutral without control",
			Item{Value: 100},
			0, CostNeutral,
		},
		{
			"neutral with unparseable real cost",
			Item{Value: 100, Control: &ItemControl{RealCost: "abc"}},
			0, CostNeutral,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diff, status := RealCostDifference(tt.item)
			if diff != tt.expectDiff {
				t.Errorf("diff = %v, want %v", diff, tt.expectDiff)
			}
			if status != tt.expectStat {
				t.Errorf("status = %q, want %q", status, tt.expectStat)
			}
		})
	}
}

func TestSolveSale(t *testing.T) {
	tests := []struct {
		name         string
		totalCost    float64
		margin       float64
		expectSale   float64
		expectMargin float64
	}{
		{"thirty percent", 700, 30, 1000, 300},
		{"zero margin", 500, 0, 500, 0},
		{"zero cost", 0, 30, 0, 0},
		{"fractional margin", 1000, 12.5, 1142.86, 142.86},
		{"dry plus diverse", 6942.82, 30, 9918.31, 2975.49},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sale, margin := SolveSale(tt.totalCost, tt.margin)
			if sale != tt.expectSale {
				t.Errorf("sale = %v, want %v", sale, tt.expectSale)
			}
			if margin != tt.expectMargin {
				t.Errorf("margin = %v, want %v", margin, tt.expectMargin)
			}
		})
	}
}

// Stored data can carry an out-of-range margin from before the range was
// enforced; the solver must not divide by zero or produce a negative sale.
func TestSolveSale_DegenerateMargin(t *testing.T) {
	for _, margin := range []float64{100, 150} {
		sale, marginValue := SolveSale(800, margin)
		if sale != 800 {
			t.Errorf("SolveSale(800, %v) sale = %v, want 800", margin, sale)
		}
		if marginValue != 0 {
			t.Errorf("SolveSale(800, %v) margin = %v, want 0", margin, marginValue)
		}
	}
}
