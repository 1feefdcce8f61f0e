package services

// ExportRow is a single row in the budget export: a chapter header
// (Level 0) or an item line (Level 1).
type ExportRow struct {
	Level     int
	Index     string // chapter key ("CAR 1") or item id ("1-2")
	Material  string
	Unit      string
	Qty       float64
	UnitPrice float64
	Value     float64
}

// ExportData holds everything the Excel and PDF generators need.
type ExportData struct {
	ProjectName string
	ClientName  string
	CreatedDate string
	Currency    CurrencyFormat
	Rows        []ExportRow

	DryCost float64

	// IncludeControl adds the internal-use cost/margin summary. Client-facing
	// exports leave it off.
	IncludeControl    bool
	DiverseTotal      float64
	SubcontractorsSum float64
	AmortizationsSum  float64
	TotalCost         float64
	MarginPercent     float64
	SaleValue         float64
	MarginValue       float64
	OverrideCount     int
	OverrideTotal     float64
}

// BuildExportData flattens a budget tree into export rows plus the derived
// totals. The figures are read from the recalculated tree, never recomputed
// here.
func BuildExportData(b *Budget, projectName, clientName, createdDate string, includeControl bool) ExportData {
	data := ExportData{
		ProjectName: projectName,
		ClientName:  clientName,
		CreatedDate: createdDate,
		Currency:    FormatFor(b.Settings),
		DryCost:     b.Control.Sale.DryCost,
	}

	for _, ch := range b.Chapters {
		data.Rows = append(data.Rows, ExportRow{
			Level:    0,
			Index:    ch.Key,
			Material: ch.Header,
			Value:    ChapterTotal(ch.Items),
		})
		for _, it := range ch.Items {
			data.Rows = append(data.Rows, ExportRow{
				Level:     1,
				Index:     it.ID,
				Material:  it.Material,
				Unit:      it.Unit,
				Qty:       it.Qty,
				UnitPrice: it.UnitPrice,
				Value:     it.Value,
			})
		}
	}

	if includeControl {
		ov := ResolveOverrides(b.Chapters)
		data.IncludeControl = true
		data.DiverseTotal = Round2(b.Control.Diverse.Total())
		data.SubcontractorsSum = SupplierTotal(b.Control.Subcontractors)
		data.AmortizationsSum = AmortizationTotal(b.Control.Amortizations)
		data.TotalCost = b.Control.Sale.TotalCost
		data.MarginPercent = b.Control.Sale.MarginPercent
		data.SaleValue = b.Control.Sale.SaleValue
		data.MarginValue = b.Control.Sale.MarginValue
		data.OverrideCount = ov.Count
		data.OverrideTotal = ov.Total
	}

	return data
}
