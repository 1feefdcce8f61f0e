package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel workbook from the given ExportData and
// returns the file contents as a byte slice.
func GenerateExcel(data ExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	// Sheet names cap at 31 chars.
	sheetName := data.ProjectName
	if len(sheetName) > 31 {
		sheetName = sheetName[:31]
	}
	if sheetName == "" {
		sheetName = "Budget"
	}

	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, sheetName); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	columns := []string{"A", "B", "C", "D", "E", "F"}
	lastCol := columns[len(columns)-1]

	widths := []float64{8, 44, 10, 10, 16, 16}
	for i, col := range columns {
		if err := f.SetColWidth(sheetName, col, col, widths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#333333"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		Border:    thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	chapterStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 10},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#EFEFEF"},
			Pattern: 1,
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create chapter style: %w", err)
	}

	itemStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create item style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Header rows ─────────────────────────────────────────────────────

	if err := f.MergeCell(sheetName, "A1", lastCol+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(sheetName, "A1", sanitizeExcelCell(data.ProjectName))
	f.SetCellStyle(sheetName, "A1", lastCol+"1", titleStyle)

	if data.ClientName != "" {
		if err := f.MergeCell(sheetName, "A2", lastCol+"2"); err != nil {
			return nil, fmt.Errorf("merge client: %w", err)
		}
		f.SetCellValue(sheetName, "A2", "Client: "+sanitizeExcelCell(data.ClientName))
		f.SetCellStyle(sheetName, "A2", lastCol+"2", subtitleStyle)
	}

	if err := f.MergeCell(sheetName, "A3", lastCol+"3"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(sheetName, "A3", "Date: "+data.CreatedDate)
	f.SetCellStyle(sheetName, "A3", lastCol+"3", subtitleStyle)

	// ── Column headers (row 5) ──────────────────────────────────────────

	headers := []string{"#", "Material", "Unit", "Qty", "Unit Price", "Value"}
	for i, h := range headers {
		f.SetCellValue(sheetName, fmt.Sprintf("%s5", columns[i]), h)
	}
	f.SetCellStyle(sheetName, "A5", lastCol+"5", headerStyle)

	// ── Data rows ───────────────────────────────────────────────────────

	row := 6
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)

		f.SetCellValue(sheetName, "A"+rowStr, r.Index)

		desc := r.Material
		if r.Level == 1 {
			desc = "  " + desc
		}
		f.SetCellValue(sheetName, "B"+rowStr, sanitizeExcelCell(desc))

		if r.Level == 1 {
			f.SetCellValue(sheetName, "C"+rowStr, sanitizeExcelCell(r.Unit))
			f.SetCellValue(sheetName, "D"+rowStr, r.Qty)
			f.SetCellValue(sheetName, "E"+rowStr, FormatCurrency(r.UnitPrice, data.Currency))
		}
		f.SetCellValue(sheetName, "F"+rowStr, FormatCurrency(r.Value, data.Currency))

		style := itemStyle
		if r.Level == 0 {
			style = chapterStyle
		}
		f.SetCellStyle(sheetName, "A"+rowStr, lastCol+rowStr, style)

		row++
	}

	// ── Summary rows ────────────────────────────────────────────────────

	row++
	writeSummary := func(label, value string) {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(sheetName, "D"+rowStr, label)
		f.SetCellStyle(sheetName, "D"+rowStr, "D"+rowStr, summaryLabelStyle)
		f.SetCellValue(sheetName, "F"+rowStr, value)
		f.SetCellStyle(sheetName, "F"+rowStr, "F"+rowStr, summaryValueStyle)
		row++
	}

	writeSummary("Dry Cost:", FormatCurrency(data.DryCost, data.Currency))

	if data.IncludeControl {
		writeSummary("Diverse Costs:", FormatCurrency(data.DiverseTotal, data.Currency))
		writeSummary("Subcontractors:", FormatCurrency(data.SubcontractorsSum, data.Currency))
		writeSummary("Amortizations:", FormatCurrency(data.AmortizationsSum, data.Currency))
		if data.OverrideCount > 0 {
			writeSummary(fmt.Sprintf("Real Cost (%d items):", data.OverrideCount),
				FormatCurrency(data.OverrideTotal, data.Currency))
		}
		writeSummary("Total Cost:", FormatCurrency(data.TotalCost, data.Currency))
		writeSummary(fmt.Sprintf("Sale (%.1f%% margin):", data.MarginPercent),
			FormatCurrency(data.SaleValue, data.Currency))
		writeSummary("Margin:", FormatCurrency(data.MarginValue, data.Currency))
	}

	// ── Write to buffer ─────────────────────────────────────────────────

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}

	return buf.Bytes(), nil
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +,
// -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// thinBorders returns thin borders on all four sides.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}
