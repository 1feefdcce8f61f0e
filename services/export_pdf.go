package services

import (
	"fmt"
	"math"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a PDF document from budget export data using maroto/v2.
// It returns the raw PDF bytes or an error.
func GeneratePDF(data ExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for _, r := range data.Rows {
		addTableRow(m, r, data.Currency)
	}
	addSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}

	return doc.GetBytes(), nil
}

// addHeader adds the project name, client and date to the PDF.
func addHeader(m core.Maroto, data ExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.ProjectName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Client: %s", data.ClientName), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.CreatedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

// addTableHeader adds the column header row for the budget table.
func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(1).Add(
				text.New("#", headerText),
			).WithStyle(&headerCell),
			col.New(5).Add(
				text.New("Material", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Unit", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Qty", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Unit Price", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Value", headerText),
			).WithStyle(&headerCell),
		),
	)
}

// addTableRow adds one chapter or item row, styled by level.
func addTableRow(m core.Maroto, r ExportRow, cur CurrencyFormat) {
	var cellStyle *props.Cell
	var textSize float64 = 7
	var textStyle fontstyle.Type = fontstyle.Normal
	descPrefix := ""

	switch r.Level {
	case 0:
		// Chapter row: bold on light gray.
		textStyle = fontstyle.Bold
		textSize = 8
		bg := &props.Color{Red: 235, Green: 235, Blue: 235}
		cellStyle = &props.Cell{BackgroundColor: bg}
	case 1:
		descPrefix = "  "
	}

	baseText := props.Text{
		Size:  textSize,
		Style: textStyle,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	qtyStr := ""
	unitPriceStr := ""
	unit := ""
	if r.Level == 1 {
		qtyStr = formatQty(r.Qty)
		unitPriceStr = FormatCurrency(r.UnitPrice, cur)
		unit = r.Unit
	}

	colIndex := col.New(1).Add(text.New(r.Index, baseText))
	colDesc := col.New(5).Add(text.New(descPrefix+r.Material, leftText))
	colUnit := col.New(1).Add(text.New(unit, baseText))
	colQty := col.New(1).Add(text.New(qtyStr, rightText))
	colUnitPrice := col.New(2).Add(text.New(unitPriceStr, rightText))
	colValue := col.New(2).Add(text.New(FormatCurrency(r.Value, cur), rightText))

	if cellStyle != nil {
		colIndex = colIndex.WithStyle(cellStyle)
		colDesc = colDesc.WithStyle(cellStyle)
		colUnit = colUnit.WithStyle(cellStyle)
		colQty = colQty.WithStyle(cellStyle)
		colUnitPrice = colUnitPrice.WithStyle(cellStyle)
		colValue = colValue.WithStyle(cellStyle)
	}

	m.AddRows(
		row.New(7).Add(
			colIndex,
			colDesc,
			colUnit,
			colQty,
			colUnitPrice,
			colValue,
		),
	)
}

// addSummary adds the totals and, for internal exports, the cost/margin
// section at the bottom of the PDF.
func addSummary(m core.Maroto, data ExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := labelStyle

	addLine := func(label, value string) {
		m.AddRows(
			row.New(8).Add(
				col.New(8).Add(
					text.New(label, labelStyle),
				).WithStyle(summaryCell),
				col.New(4).Add(
					text.New(value, valueStyle),
				).WithStyle(summaryCell),
			),
		)
	}

	addLine("Dry Cost", FormatCurrency(data.DryCost, data.Currency))

	if data.IncludeControl {
		addLine("Diverse Costs", FormatCurrency(data.DiverseTotal, data.Currency))
		addLine("Subcontractors", FormatCurrency(data.SubcontractorsSum, data.Currency))
		addLine("Amortizations", FormatCurrency(data.AmortizationsSum, data.Currency))
		if data.OverrideCount > 0 {
			addLine(fmt.Sprintf("Real Cost (%d items)", data.OverrideCount),
				FormatCurrency(data.OverrideTotal, data.Currency))
		}
		addLine("Total Cost", FormatCurrency(data.TotalCost, data.Currency))
		addLine(fmt.Sprintf("Sale (%.1f%% margin)", data.MarginPercent),
			FormatCurrency(data.SaleValue, data.Currency))
		addLine("Margin", FormatCurrency(data.MarginValue, data.Currency))
	}
}

// formatQty renders whole quantities without decimals and fractional ones
// with two.
func formatQty(qty float64) string {
	if qty == math.Trunc(qty) {
		return fmt.Sprintf("%.0f", qty)
	}
	return fmt.Sprintf("%.2f", qty)
}
