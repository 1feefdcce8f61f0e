// Package services holds the budget domain model, the recalculation engine
// and the pure pricing math it is built on.
package services

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Internal control section names, mirrored in the internal_control collection.
const (
	SectionSale           = "SALE"
	SectionDiverseCosts   = "DIVERSE_COSTS"
	SectionSubcontractors = "SUBCONTRACTORS"
	SectionAmortizations  = "AMORTIZATIONS"
)

// DefaultMarginPercent is applied to newly created projects.
const DefaultMarginPercent = 30.0

var (
	ErrChapterExists    = errors.New("chapter key already exists")
	ErrChapterNotFound  = errors.New("chapter not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrMarginOutOfRange = errors.New("margin percent must be at least 0 and below 100")
)

// Item is a single material/labor line inside a chapter. Value is derived
// from Qty and UnitPrice on every recalculation and never set directly.
type Item struct {
	ID        string       `json:"id"`
	Material  string       `json:"material"`
	Unit      string       `json:"unit"`
	Qty       float64      `json:"quantity"`
	UnitPrice float64      `json:"unit_price"`
	Value     float64      `json:"value"`
	Control   *ItemControl `json:"internal_control,omitempty"`
}

// ItemControl is the optional per-item internal-control overlay. RealCost is
// kept as entered; it only participates in aggregation when it parses to a
// non-negative number (see RealCostValue).
type ItemControl struct {
	RealCost   string      `json:"real_cost,omitempty"`
	Supplier   string      `json:"supplier,omitempty"`
	ItemMargin string      `json:"item_margin,omitempty"`
	Notes      string      `json:"notes,omitempty"`
	LaborCosts []LaborCost `json:"labor_costs,omitempty"`
}

// LaborCost is a labor entry attached to an item's internal control record.
type LaborCost struct {
	Role  string  `json:"role,omitempty"`
	Hours float64 `json:"hours,omitempty"`
	Rate  float64 `json:"rate,omitempty"`
	Total float64 `json:"total,omitempty"`
}

// RealCostValue reports the parsed real cost and whether it is usable for
// aggregation (present, numeric and non-negative).
func (c *ItemControl) RealCostValue() (float64, bool) {
	if c == nil {
		return 0, false
	}
	raw := strings.TrimSpace(c.RealCost)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

// Chapter is a named cost category. Key is immutable after creation; only the
// header can be renamed.
type Chapter struct {
	Key    string `json:"key"`
	Header string `json:"header"`
	Items  []Item `json:"items"`
}

// Number returns the numeric suffix of the chapter key ("CAR 3" -> 3).
func (c Chapter) Number() int {
	parts := strings.Fields(c.Key)
	if len(parts) < 2 {
		return 0
	}
	n, _ := strconv.Atoi(parts[len(parts)-1])
	return n
}

// Sale is the derived SALE section of the internal control panel. Everything
// except MarginPercent is a cache recomputed after every mutation.
type Sale struct {
	DryCost       float64 `json:"dry_cost"`
	TotalCost     float64 `json:"total_cost"`
	MarginPercent float64 `json:"margin_percent"`
	SaleValue     float64 `json:"sale_value"`
	MarginValue   float64 `json:"margin_value"`
}

// DiverseCosts are the three independent user-set inputs of the
// DIVERSE_COSTS section.
type DiverseCosts struct {
	Food      float64 `json:"food"`
	Transport float64 `json:"transport"`
	Other     float64 `json:"other"`
}

// Total sums the three diverse cost inputs.
func (d DiverseCosts) Total() float64 {
	return d.Food + d.Transport + d.Other
}

// SupplierCost is one entry of the SUBCONTRACTORS section.
type SupplierCost struct {
	Supplier string  `json:"supplier"`
	Total    float64 `json:"total"`
}

// Amortization is one entry of the AMORTIZATIONS section.
type Amortization struct {
	Kind  string  `json:"kind"`
	Total float64 `json:"total"`
	Hours float64 `json:"hours,omitempty"`
}

// InternalControl is the margin/cost-tracking overlay hidden from
// client-facing views.
type InternalControl struct {
	Sale           Sale           `json:"sale"`
	Diverse        DiverseCosts   `json:"diverse_costs"`
	Subcontractors []SupplierCost `json:"subcontractors"`
	Amortizations  []Amortization `json:"amortizations"`
}

// Settings are the per-project display settings.
type Settings struct {
	Currency        string  `json:"currency"`
	Locale          string  `json:"locale"`
	DecimalPlaces   int     `json:"decimal_places"`
	ShowAllChapters bool    `json:"show_all_chapters"`
	DefaultMargin   float64 `json:"default_margin"`
}

// Budget is the in-memory tree the recalculation engine operates on:
// ordered chapters, the internal control overlay and display settings.
type Budget struct {
	ProjectID string          `json:"project_id"`
	Chapters  []Chapter       `json:"chapters"`
	Control   InternalControl `json:"internal_control"`
	Settings  Settings        `json:"settings"`
}

// NewBudget returns an empty budget with default internal-control sections,
// the shape every new project starts with.
func NewBudget(projectID string) *Budget {
	b := &Budget{
		ProjectID: projectID,
		Control: InternalControl{
			Sale: Sale{MarginPercent: DefaultMarginPercent},
			Subcontractors: []SupplierCost{
				{Supplier: "Supplier 1"},
				{Supplier: "Supplier 2"},
				{Supplier: "Supplier 3"},
			},
			Amortizations: []Amortization{
				{Kind: "Material"},
				{Kind: "Labor"},
			},
		},
		Settings: Settings{
			Currency:        "EUR",
			Locale:          "pt-PT",
			DecimalPlaces:   2,
			ShowAllChapters: true,
			DefaultMargin:   DefaultMarginPercent,
		},
	}
	b.Recalculate()
	return b
}

// FindChapter returns the chapter with the given key, or nil.
func (b *Budget) FindChapter(key string) *Chapter {
	for i := range b.Chapters {
		if b.Chapters[i].Key == key {
			return &b.Chapters[i]
		}
	}
	return nil
}

// FindItem returns the item with the given id within a chapter, or nil.
func (c *Chapter) FindItem(itemID string) *Item {
	for i := range c.Items {
		if c.Items[i].ID == itemID {
			return &c.Items[i]
		}
	}
	return nil
}

// ItemDraft carries the caller-supplied fields for a new item.
type ItemDraft struct {
	Material  string
	Unit      string
	Qty       float64
	UnitPrice float64
	Control   *ItemControl
}

// Validate rejects drafts with missing name/unit or negative numbers before
// any mutation is applied.
func (d ItemDraft) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Material, validation.Required.Error("material is required")),
		validation.Field(&d.Unit, validation.Required.Error("unit is required")),
		validation.Field(&d.Qty, validation.Min(0.0).Error("quantity cannot be negative")),
		validation.Field(&d.UnitPrice, validation.Min(0.0).Error("unit price cannot be negative")),
	)
}

// ItemPatch carries partial updates for an existing item. Nil fields are
// left unchanged.
type ItemPatch struct {
	Material  *string
	Unit      *string
	Qty       *float64
	UnitPrice *float64
	Control   *ItemControl
}

// AddChapter appends a chapter with an empty item list. The key must be
// unused; chapter keys are unique per budget and immutable afterwards.
func (b *Budget) AddChapter(key, header string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("chapter key is required")
	}
	if b.FindChapter(key) != nil {
		return ErrChapterExists
	}
	b.Chapters = append(b.Chapters, Chapter{Key: key, Header: header})
	b.Recalculate()
	return nil
}

// RenameChapter changes a chapter header. The key itself cannot change;
// callers wanting a new key must delete and recreate the chapter.
func (b *Budget) RenameChapter(key, header string) error {
	ch := b.FindChapter(key)
	if ch == nil {
		return ErrChapterNotFound
	}
	ch.Header = header
	return nil
}

// DeleteChapter removes a chapter together with all of its items.
func (b *Budget) DeleteChapter(key string) error {
	for i := range b.Chapters {
		if b.Chapters[i].Key == key {
			b.Chapters = append(b.Chapters[:i], b.Chapters[i+1:]...)
			b.Recalculate()
			return nil
		}
	}
	return ErrChapterNotFound
}

// AddItem validates the draft, assigns the next stable item id
// ("<chapterNumber>-<sequence>") and appends the item to the chapter.
func (b *Budget) AddItem(chapterKey string, draft ItemDraft) (Item, error) {
	ch := b.FindChapter(chapterKey)
	if ch == nil {
		return Item{}, ErrChapterNotFound
	}
	if err := draft.Validate(); err != nil {
		return Item{}, err
	}

	item := Item{
		ID:        fmt.Sprintf("%d-%d", ch.Number(), ch.nextItemSequence()),
		Material:  draft.Material,
		Unit:      draft.Unit,
		Qty:       draft.Qty,
		UnitPrice: draft.UnitPrice,
		Control:   draft.Control,
	}
	ch.Items = append(ch.Items, item)
	b.Recalculate()
	return *ch.FindItem(item.ID), nil
}

// nextItemSequence picks one past the highest assigned sequence so ids stay
// unique even after deletions (siblings are never renumbered).
func (c *Chapter) nextItemSequence() int {
	max := 0
	for _, it := range c.Items {
		if idx := strings.LastIndex(it.ID, "-"); idx >= 0 {
			if n, err := strconv.Atoi(it.ID[idx+1:]); err == nil && n > max {
				max = n
			}
		}
	}
	return max + 1
}

// UpdateItem applies a partial update to an existing item and recomputes its
// value. Unknown chapter or item ids are reported, not ignored.
func (b *Budget) UpdateItem(chapterKey, itemID string, patch ItemPatch) (Item, error) {
	ch := b.FindChapter(chapterKey)
	if ch == nil {
		return Item{}, ErrChapterNotFound
	}
	item := ch.FindItem(itemID)
	if item == nil {
		return Item{}, ErrItemNotFound
	}

	next := *item
	if patch.Material != nil {
		next.Material = *patch.Material
	}
	if patch.Unit != nil {
		next.Unit = *patch.Unit
	}
	if patch.Qty != nil {
		next.Qty = *patch.Qty
	}
	if patch.UnitPrice != nil {
		next.UnitPrice = *patch.UnitPrice
	}
	if patch.Control != nil {
		next.Control = patch.Control
	}
	if err := (ItemDraft{
		Material:  next.Material,
		Unit:      next.Unit,
		Qty:       next.Qty,
		UnitPrice: next.UnitPrice,
	}).Validate(); err != nil {
		return Item{}, err
	}

	*item = next
	b.Recalculate()
	return *ch.FindItem(itemID), nil
}

// DeleteItem removes an item by id. Remaining item ids keep their sequence.
func (b *Budget) DeleteItem(chapterKey, itemID string) error {
	ch := b.FindChapter(chapterKey)
	if ch == nil {
		return ErrChapterNotFound
	}
	for i := range ch.Items {
		if ch.Items[i].ID == itemID {
			ch.Items = append(ch.Items[:i], ch.Items[i+1:]...)
			b.Recalculate()
			return nil
		}
	}
	return ErrItemNotFound
}

// SetItemControl replaces an item's internal-control record. A nil control
// clears it.
func (b *Budget) SetItemControl(chapterKey, itemID string, control *ItemControl) error {
	ch := b.FindChapter(chapterKey)
	if ch == nil {
		return ErrChapterNotFound
	}
	item := ch.FindItem(itemID)
	if item == nil {
		return ErrItemNotFound
	}
	item.Control = control
	b.Recalculate()
	return nil
}

// SetMarginPercent updates the target margin. Valid inputs are 0 up to but
// excluding 100: a 100% margin has no finite sale price, so it is rejected
// here and the previous value retained.
func (b *Budget) SetMarginPercent(percent float64) error {
	if percent < 0 || percent >= 100 {
		return ErrMarginOutOfRange
	}
	b.Control.Sale.MarginPercent = percent
	b.Recalculate()
	return nil
}

// DiverseCostsPatch carries partial updates for the DIVERSE_COSTS section.
type DiverseCostsPatch struct {
	Food      *float64
	Transport *float64
	Other     *float64
}

// UpdateDiverseCosts merges the patch into the DIVERSE_COSTS section.
// Negative values are rejected before the section is touched.
func (b *Budget) UpdateDiverseCosts(patch DiverseCostsPatch) error {
	for _, v := range []*float64{patch.Food, patch.Transport, patch.Other} {
		if v != nil && *v < 0 {
			return fmt.Errorf("diverse costs cannot be negative")
		}
	}
	if patch.Food != nil {
		b.Control.Diverse.Food = *patch.Food
	}
	if patch.Transport != nil {
		b.Control.Diverse.Transport = *patch.Transport
	}
	if patch.Other != nil {
		b.Control.Diverse.Other = *patch.Other
	}
	b.Recalculate()
	return nil
}

// SetSubcontractors replaces the SUBCONTRACTORS entries.
func (b *Budget) SetSubcontractors(entries []SupplierCost) error {
	for _, e := range entries {
		if e.Total < 0 {
			return fmt.Errorf("subcontractor totals cannot be negative")
		}
	}
	b.Control.Subcontractors = entries
	b.Recalculate()
	return nil
}

// SetAmortizations replaces the AMORTIZATIONS entries.
func (b *Budget) SetAmortizations(entries []Amortization) error {
	for _, e := range entries {
		if e.Total < 0 {
			return fmt.Errorf("amortization totals cannot be negative")
		}
	}
	b.Control.Amortizations = entries
	b.Recalculate()
	return nil
}

// Recalculate recomputes every derived figure from the current tree: item
// values, chapter totals, dry cost, the override-adjusted total cost and the
// sale/margin pair. It is a pure function of the budget state and runs to
// completion before any mutator returns.
func (b *Budget) Recalculate() {
	for ci := range b.Chapters {
		ch := &b.Chapters[ci]
		for ii := range ch.Items {
			it := &ch.Items[ii]
			it.Value = ItemValue(it.Qty, it.UnitPrice)
		}
	}

	dry := DryCost(b.Chapters)
	effective := dry
	if ov := ResolveOverrides(b.Chapters); ov.Count > 0 {
		effective = ov.Total
	}

	total := Round2(effective +
		b.Control.Diverse.Total() +
		SupplierTotal(b.Control.Subcontractors) +
		AmortizationTotal(b.Control.Amortizations))

	sale, marginValue := SolveSale(total, b.Control.Sale.MarginPercent)

	b.Control.Sale.DryCost = Round2(dry)
	b.Control.Sale.TotalCost = total
	b.Control.Sale.SaleValue = sale
	b.Control.Sale.MarginValue = marginValue
}
