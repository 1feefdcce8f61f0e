package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// InternalControlPage renders the internal control panel: sale summary,
// diverse costs, subcontractors, amortizations and the per-item
// budget-versus-real table.
func InternalControlPage(data ControlPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<div class="page-title"><h1>Internal Control</h1>`+
			`<div class="page-actions">`+
			fmt.Sprintf(`<a href="/projects/%s/export/excel?control=1" class="btn">Excel</a> `, esc(data.ProjectID))+
			fmt.Sprintf(`<a href="/projects/%s/export/pdf?control=1" class="btn">PDF</a>`, esc(data.ProjectID))+
			`</div></div>`)

		renderSaleSummary(w, data)
		renderDiverseCosts(w, data)
		renderCostEntries(w, data.ProjectID, "Subcontractors", "subcontractors", data.Subcontractors)
		renderCostEntries(w, data.ProjectID, "Amortizations", "amortizations", data.Amortizations)
		renderControlItems(w, data)
		return nil
	})
	return Layout("Internal Control", data.Header, body)
}

func renderSaleSummary(w io.Writer, data ControlPageData) {
	fmt.Fprint(w, `<section class="panel sale-summary"><h2>Sale</h2><dl class="summary-grid">`)
	rows := []struct{ label, value string }{
		{"Dry Cost", data.DryCost},
		{"Total Cost", data.TotalCost},
		{"Sale Value", data.SaleValue},
		{"Margin Value", data.MarginValue},
	}
	for _, r := range rows {
		fmt.Fprintf(w, `<dt>%s</dt><dd>%s</dd>`, esc(r.label), esc(r.value))
	}
	fmt.Fprint(w, `</dl>`)

	fmt.Fprintf(w, `<form hx-post="/projects/%s/control/margin" hx-swap="none" class="inline-form">`+
		`<label>Margin (%%)<input type="number" name="margin" value="%s" min="0" max="99.99" step="0.01"></label>`,
		esc(data.ProjectID), esc(data.MarginPercent))
	fieldError(w, data.Errors, "margin")
	fmt.Fprint(w, `<button type="submit" class="btn btn-primary">Apply</button></form></section>`)
}

func renderDiverseCosts(w io.Writer, data ControlPageData) {
	fmt.Fprintf(w, `<section class="panel"><h2>Diverse Costs</h2>`+
		`<form hx-post="/projects/%s/control/diverse" hx-swap="none" class="inline-form">`,
		esc(data.ProjectID))
	fields := []struct{ name, label, value string }{
		{"food", "Food", data.Food},
		{"transport", "Transport", data.Transport},
		{"other", "Other", data.Other},
	}
	for _, f := range fields {
		fmt.Fprintf(w, `<label>%s<input type="number" name="%s" value="%s" min="0" step="0.01"></label>`,
			esc(f.label), f.name, esc(f.value))
		fieldError(w, data.Errors, f.name)
	}
	fmt.Fprint(w, `<button type="submit" class="btn btn-primary">Save</button></form></section>`)
}

func renderCostEntries(w io.Writer, projectID, title, slug string, entries []CostEntryRow) {
	fmt.Fprintf(w, `<section class="panel"><h2>%s</h2>`, esc(title))
	fmt.Fprintf(w, `<form hx-post="/projects/%s/control/%s" hx-swap="none" class="entry-form">`,
		esc(projectID), slug)
	for _, e := range entries {
		fmt.Fprintf(w, `<div class="entry-row">`+
			`<input type="text" name="label" value="%s">`+
			`<input type="number" name="total" value="%s" min="0" step="0.01">`+
			`</div>`, esc(e.Label), esc(e.Amount))
	}
	fmt.Fprint(w, `<div class="entry-row">`+
		`<input type="text" name="label" value="" placeholder="New entry">`+
		`<input type="number" name="total" value="" min="0" step="0.01">`+
		`</div>`)
	fmt.Fprint(w, `<button type="submit" class="btn btn-primary">Save</button></form></section>`)
}

func renderControlItems(w io.Writer, data ControlPageData) {
	fmt.Fprint(w, `<section class="panel"><h2>Budget vs Real</h2>`)
	if data.OverrideCount > 0 {
		fmt.Fprintf(w, `<p class="override-note">%d item(s) carry a real cost; the effective dry cost is <strong>%s</strong>.</p>`,
			data.OverrideCount, esc(data.OverrideTotal))
	}
	if len(data.Items) == 0 {
		fmt.Fprint(w, `<p class="empty-state">No budget items.</p></section>`)
		return
	}
	fmt.Fprint(w, `<table class="table control-table"><thead><tr>`+
		`<th>#</th><th>Material</th><th class="num">Budget</th>`+
		`<th class="num">Real</th><th class="num">Difference</th>`+
		`</tr></thead><tbody>`)
	for _, it := range data.Items {
		fmt.Fprintf(w, `<tr class="%s"><td>%s</td><td>%s</td>`+
			`<td class="num">%s</td><td class="num">%s</td><td class="num">%s</td></tr>`,
			esc(it.Status), esc(it.ID), esc(it.Material),
			esc(it.Value), esc(it.RealCost), esc(it.Difference))
	}
	fmt.Fprint(w, `</tbody></table></section>`)
}
