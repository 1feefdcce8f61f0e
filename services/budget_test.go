package services

import (
	"errors"
	"testing"
)

func TestNewBudget_Defaults(t *testing.T) {
	b := NewBudget("p1")

	if b.ProjectID != "p1" {
		t.Errorf("ProjectID = %q, want p1", b.ProjectID)
	}
	if len(b.Chapters) != 0 {
		t.Errorf("expected no chapters, got %d", len(b.Chapters))
	}
	if b.Control.Sale.MarginPercent != DefaultMarginPercent {
		t.Errorf("MarginPercent = %v, want %v", b.Control.Sale.MarginPercent, DefaultMarginPercent)
	}
	if len(b.Control.Subcontractors) != 3 {
		t.Errorf("expected 3 supplier slots, got %d", len(b.Control.Subcontractors))
	}
	if len(b.Control.Amortizations) != 2 {
		t.Errorf("expected 2 amortization entries, got %d", len(b.Control.Amortizations))
	}
	if b.Settings.Currency != "EUR" || b.Settings.Locale != "pt-PT" {
		t.Errorf("settings = %+v, want EUR/pt-PT defaults", b.Settings)
	}
	if b.Control.Sale.SaleValue != 0 || b.Control.Sale.TotalCost != 0 {
		t.Errorf("empty budget should have zero sale cache, got %+v", b.Control.Sale)
	}
}

func TestAddChapter(t *testing.T) {
	b := NewBudget("p1")

	if err := b.AddChapter("CAR 1", "FUNDAÇÃO"); err != nil {
		t.Fatalf("AddChapter() error = %v", err)
	}
	if ch := b.FindChapter("CAR 1"); ch == nil || ch.Header != "FUNDAÇÃO" {
		t.Fatalf("chapter not stored correctly: %+v", ch)
	}

	if err := b.AddChapter("CAR 1", "duplicate"); !errors.Is(err, ErrChapterExists) {
		t.Errorf("duplicate key error = %v, want ErrChapterExists", err)
	}
	if err := b.AddChapter("  ", "blank"); err == nil {
		t.Error("expected error for blank chapter key")
	}
}

func TestRenameChapter_HeaderOnly(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "old header")

	if err := b.RenameChapter("CAR 1", "new header"); err != nil {
		t.Fatalf("RenameChapter() error = %v", err)
	}
	ch := b.FindChapter("CAR 1")
	if ch.Key != "CAR 1" {
		t.Errorf("key changed to %q, must stay CAR 1", ch.Key)
	}
	if ch.Header != "new header" {
		t.Errorf("header = %q, want new header", ch.Header)
	}

	if err := b.RenameChapter("CAR 9", "x"); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("missing chapter error = %v, want ErrChapterNotFound", err)
	}
}

func TestDeleteChapter_RecomputesTotals(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	b.AddChapter("CAR 2", "")
	b.AddItem("CAR 1", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 7.33, UnitPrice: 73.96})
	b.AddItem("CAR 2", ItemDraft{Material: "BRITA", Unit: "M³", Qty: 2, UnitPrice: 50})

	if err := b.DeleteChapter("CAR 1"); err != nil {
		t.Fatalf("DeleteChapter() error = %v", err)
	}
	if b.Control.Sale.DryCost != 100 {
		t.Errorf("DryCost after delete = %v, want 100", b.Control.Sale.DryCost)
	}
	if err := b.DeleteChapter("CAR 1"); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("second delete error = %v, want ErrChapterNotFound", err)
	}
}

func TestAddItem_AssignsSequentialIDs(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 2", "")

	first, err := b.AddItem("CAR 2", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 7.33, UnitPrice: 73.96})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if first.ID != "2-1" {
		t.Errorf("first id = %q, want 2-1", first.ID)
	}
	if first.Value != 542.13 {
		t.Errorf("first value = %v, want 542.13", first.Value)
	}

	second, _ := b.AddItem("CAR 2", ItemDraft{Material: "CIMENTO", Unit: "SC", Qty: 10, UnitPrice: 7.5})
	if second.ID != "2-2" {
		t.Errorf("second id = %q, want 2-2", second.ID)
	}
}

// Deleting an item must never free its id for reuse; a stored real cost
// attached to "2-2" would otherwise silently apply to a different line.
func TestAddItem_NoIDReuseAfterDelete(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 2", "")
	b.AddItem("CAR 2", ItemDraft{Material: "A", Unit: "UN", Qty: 1, UnitPrice: 1})
	b.AddItem("CAR 2", ItemDraft{Material: "B", Unit: "UN", Qty: 1, UnitPrice: 1})

	if err := b.DeleteItem("CAR 2", "2-1"); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}

	third, err := b.AddItem("CAR 2", ItemDraft{Material: "C", Unit: "UN", Qty: 1, UnitPrice: 1})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if third.ID != "2-3" {
		t.Errorf("id after delete = %q, want 2-3", third.ID)
	}
}

func TestAddItem_Validation(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")

	tests := []struct {
		name  string
		draft ItemDraft
	}{
		{"missing material", ItemDraft{Unit: "M³", Qty: 1, UnitPrice: 1}},
		{"missing unit", ItemDraft{Material: "AREIA", Qty: 1, UnitPrice: 1}},
		{"negative qty", ItemDraft{Material: "AREIA", Unit: "M³", Qty: -1, UnitPrice: 1}},
		{"negative price", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 1, UnitPrice: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.AddItem("CAR 1", tt.draft); err == nil {
				t.Error("expected validation error")
			}
		})
	}

	if len(b.FindChapter("CAR 1").Items) != 0 {
		t.Error("rejected drafts must not be appended")
	}

	if _, err := b.AddItem("CAR 9", ItemDraft{Material: "X", Unit: "UN"}); !errors.Is(err, ErrChapterNotFound) {
		t.Errorf("unknown chapter error = %v, want ErrChapterNotFound", err)
	}
}

func TestUpdateItem_PartialPatch(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	item, _ := b.AddItem("CAR 1", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 7.33, UnitPrice: 73.96})

	newQty := 10.0
	updated, err := b.UpdateItem("CAR 1", item.ID, ItemPatch{Qty: &newQty})
	if err != nil {
		t.Fatalf("UpdateItem() error = %v", err)
	}
	if updated.Material != "AREIA" || updated.Unit != "M³" {
		t.Errorf("untouched fields changed: %+v", updated)
	}
	if updated.Qty != 10 || updated.Value != 739.60 {
		t.Errorf("qty/value = %v/%v, want 10/739.60", updated.Qty, updated.Value)
	}

	empty := ""
	if _, err := b.UpdateItem("CAR 1", item.ID, ItemPatch{Material: &empty}); err == nil {
		t.Error("expected validation error for blank material")
	}
	if _, err := b.UpdateItem("CAR 1", "1-99", ItemPatch{Qty: &newQty}); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("unknown item error = %v, want ErrItemNotFound", err)
	}
}

func TestSetItemControl_TogglesOverride(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	item, _ := b.AddItem("CAR 1", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 7.33, UnitPrice: 73.96})

	if err := b.SetItemControl("CAR 1", item.ID, &ItemControl{RealCost: "500"}); err != nil {
		t.Fatalf("SetItemControl() error = %v", err)
	}
	if b.Control.Sale.TotalCost != 500 {
		t.Errorf("TotalCost with override = %v, want 500", b.Control.Sale.TotalCost)
	}
	// Dry cost still shows the budgeted figure.
	if b.Control.Sale.DryCost != 542.13 {
		t.Errorf("DryCost = %v, want 542.13", b.Control.Sale.DryCost)
	}

	if err := b.SetItemControl("CAR 1", item.ID, nil); err != nil {
		t.Fatalf("clearing control error = %v", err)
	}
	if b.Control.Sale.TotalCost != 542.13 {
		t.Errorf("TotalCost after clearing = %v, want 542.13", b.Control.Sale.TotalCost)
	}
}

func TestSetMarginPercent(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	b.AddItem("CAR 1", ItemDraft{Material: "X", Unit: "UN", Qty: 1, UnitPrice: 700})

	if err := b.SetMarginPercent(30); err != nil {
		t.Fatalf("SetMarginPercent(30) error = %v", err)
	}
	if b.Control.Sale.SaleValue != 1000 || b.Control.Sale.MarginValue != 300 {
		t.Errorf("sale/margin = %v/%v, want 1000/300", b.Control.Sale.SaleValue, b.Control.Sale.MarginValue)
	}

	for _, bad := range []float64{-1, 100, 150} {
		if err := b.SetMarginPercent(bad); !errors.Is(err, ErrMarginOutOfRange) {
			t.Errorf("SetMarginPercent(%v) error = %v, want ErrMarginOutOfRange", bad, err)
		}
	}
	// Rejected updates leave the previous solution untouched.
	if b.Control.Sale.MarginPercent != 30 || b.Control.Sale.SaleValue != 1000 {
		t.Errorf("sale cache changed after rejected margin: %+v", b.Control.Sale)
	}
}

func TestUpdateDiverseCosts(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	b.AddItem("CAR 1", ItemDraft{Material: "X", Unit: "UN", Qty: 1, UnitPrice: 100})

	food := 25.0
	if err := b.UpdateDiverseCosts(DiverseCostsPatch{Food: &food}); err != nil {
		t.Fatalf("UpdateDiverseCosts() error = %v", err)
	}
	if b.Control.Diverse.Food != 25 || b.Control.Diverse.Transport != 0 {
		t.Errorf("diverse = %+v, want food=25 only", b.Control.Diverse)
	}
	if b.Control.Sale.TotalCost != 125 {
		t.Errorf("TotalCost = %v, want 125", b.Control.Sale.TotalCost)
	}

	negative := -1.0
	if err := b.UpdateDiverseCosts(DiverseCostsPatch{Transport: &negative}); err == nil {
		t.Error("expected error for negative transport cost")
	}
	if b.Control.Diverse.Transport != 0 {
		t.Error("rejected patch must not be applied")
	}
}

func TestSetSubcontractorsAndAmortizations(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	b.AddItem("CAR 1", ItemDraft{Material: "X", Unit: "UN", Qty: 1, UnitPrice: 100})

	if err := b.SetSubcontractors([]SupplierCost{{Supplier: "Eletricista", Total: 200}}); err != nil {
		t.Fatalf("SetSubcontractors() error = %v", err)
	}
	if err := b.SetAmortizations([]Amortization{{Kind: "Material", Total: 50}}); err != nil {
		t.Fatalf("SetAmortizations() error = %v", err)
	}
	if b.Control.Sale.TotalCost != 350 {
		t.Errorf("TotalCost = %v, want 350", b.Control.Sale.TotalCost)
	}

	if err := b.SetSubcontractors([]SupplierCost{{Supplier: "Y", Total: -1}}); err == nil {
		t.Error("expected error for negative subcontractor total")
	}
	if err := b.SetAmortizations([]Amortization{{Kind: "Z", Total: -1}}); err == nil {
		t.Error("expected error for negative amortization total")
	}
}

func TestRecalculate_Idempotent(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	b.AddItem("CAR 1", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 7.33, UnitPrice: 73.96})
	b.SetItemControl("CAR 1", "1-1", &ItemControl{RealCost: "500,75"})
	food := 10.0
	b.UpdateDiverseCosts(DiverseCostsPatch{Food: &food})

	before := b.Control.Sale
	b.Recalculate()
	b.Recalculate()
	if b.Control.Sale != before {
		t.Errorf("sale cache drifted: %+v vs %+v", b.Control.Sale, before)
	}
}

func TestRecalculate_FullPipeline(t *testing.T) {
	b := NewBudget("p1")
	b.AddChapter("CAR 1", "")
	b.AddItem("CAR 1", ItemDraft{Material: "AREIA", Unit: "M³", Qty: 7.33, UnitPrice: 73.96})
	b.AddItem("CAR 1", ItemDraft{Material: "BRITA", Unit: "M³", Qty: 2, UnitPrice: 50})

	food := 10.0
	transport := 5.0
	b.UpdateDiverseCosts(DiverseCostsPatch{Food: &food, Transport: &transport})
	b.SetSubcontractors([]SupplierCost{{Supplier: "S", Total: 100}})
	b.SetAmortizations([]Amortization{{Kind: "Material", Total: 42.87}})
	b.SetMarginPercent(20)

	// dry = 542.13 + 100 = 642.13; total = 642.13 + 15 + 100 + 42.87 = 800
	if b.Control.Sale.DryCost != 642.13 {
		t.Errorf("DryCost = %v, want 642.13", b.Control.Sale.DryCost)
	}
	if b.Control.Sale.TotalCost != 800 {
		t.Errorf("TotalCost = %v, want 800", b.Control.Sale.TotalCost)
	}
	if b.Control.Sale.SaleValue != 1000 {
		t.Errorf("SaleValue = %v, want 1000", b.Control.Sale.SaleValue)
	}
	if b.Control.Sale.MarginValue != 200 {
		t.Errorf("MarginValue = %v, want 200", b.Control.Sale.MarginValue)
	}
}

func TestChapterNumber(t *testing.T) {
	tests := []struct {
		key    string
		expect int
	}{
		{"CAR 1", 1},
		{"CAR 12", 12},
		{"CAP 3", 3},
		{"NOKEY", 0},
	}
	for _, tt := range tests {
		if got := (Chapter{Key: tt.key}).Number(); got != tt.expect {
			t.Errorf("Number(%q) = %d, want %d", tt.key, got, tt.expect)
		}
	}
}

func TestRealCostValue(t *testing.T) {
	tests := []struct {
		name    string
		control *ItemControl
		expect  float64
		usable  bool
	}{
		{"nil control", nil, 0, false},
		{"empty", &ItemControl{RealCost: ""}, 0, false},
		{"whitespace", &ItemControl{RealCost: "  "}, 0, false},
		{"plain number", &ItemControl{RealCost: "500"}, 500, true},
		{"comma decimal", &ItemControl{RealCost: "500,75"}, 500.75, true},
		{"dot decimal", &ItemControl{RealCost: "500.75"}, 500.75, true},
		{"zero", &ItemControl{RealCost: "0"}, 0, true},
		{"negative", &ItemControl{RealCost: "-5"}, 0, false},
		{"garbage", &ItemControl{RealCost: "about 500"}, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.control.RealCostValue()
			if got != tt.expect || ok != tt.usable {
				t.Errorf("RealCostValue() = (%v, %v), want (%v, %v)", got, ok, tt.expect, tt.usable)
			}
		})
	}
}
