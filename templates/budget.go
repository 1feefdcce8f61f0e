package templates

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// BudgetPage renders the client-facing budget: chapter tabs, the active
// chapter's items and the dry cost footer.
func BudgetPage(data BudgetPageData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<div class="page-title"><h1>%s</h1>`+
			`<div class="page-actions">`+
			`<a href="/projects/%s/export/excel" class="btn">Excel</a> `+
			`<a href="/projects/%s/export/pdf" class="btn">PDF</a> `+
			`<a href="/projects/%s/chapters/create" class="btn btn-primary">New Chapter</a>`+
			`</div></div>`,
			esc(data.ProjectName), esc(data.ProjectID), esc(data.ProjectID), esc(data.ProjectID))

		if len(data.Chapters) == 0 {
			fmt.Fprint(w, `<p class="empty-state">No chapters yet. Add the first chapter to start the budget.</p>`)
			return nil
		}

		fmt.Fprint(w, `<nav class="chapter-tabs">`)
		for _, ch := range data.Chapters {
			cls := "tab"
			if ch.Key == data.ActiveKey {
				cls = "tab active"
			}
			fmt.Fprintf(w, `<a class="%s" href="/projects/%s/budget?chapter=%s">%s</a>`,
				cls, esc(data.ProjectID), url.QueryEscape(ch.Key), esc(ch.Key))
		}
		fmt.Fprint(w, `</nav>`)

		for _, ch := range data.Chapters {
			if ch.Key != data.ActiveKey {
				continue
			}
			renderChapter(w, data.ProjectID, ch)
		}

		fmt.Fprintf(w, `<div class="budget-footer"><span>Dry Cost</span><strong>%s</strong></div>`, esc(data.DryCost))
		return nil
	})
	return Layout(data.ProjectName+" — Budget", data.Header, body)
}

func renderChapter(w io.Writer, projectID string, ch ChapterView) {
	keyPath := url.PathEscape(ch.Key)
	fmt.Fprintf(w, `<section class="chapter" id="chapter-%s">`, esc(ch.Key))
	fmt.Fprintf(w, `<div class="chapter-head"><h2>%s — %s</h2>`+
		`<div class="chapter-actions">`+
		`<a href="/projects/%s/chapters/%s/edit">Rename</a> `+
		`<button hx-delete="/projects/%s/chapters/%s" hx-confirm="Delete this chapter and all its items?" hx-swap="none">Delete</button> `+
		`<a href="/projects/%s/chapters/%s/items/create" class="btn btn-primary">Add Item</a>`+
		`</div></div>`,
		esc(ch.Key), esc(ch.Header),
		esc(projectID), keyPath,
		esc(projectID), keyPath,
		esc(projectID), keyPath)

	if len(ch.Items) == 0 {
		fmt.Fprint(w, `<p class="empty-state">No items in this chapter.</p>`)
	} else {
		fmt.Fprint(w, `<table class="table budget-table"><thead><tr>`+
			`<th>#</th><th>Material</th><th>Unit</th>`+
			`<th class="num">Qty</th><th class="num">Unit Price</th><th class="num">Value</th><th></th>`+
			`</tr></thead><tbody>`)
		for _, it := range ch.Items {
			marker := ""
			if it.HasControl {
				marker = fmt.Sprintf(` <span class="control-marker %s" title="internal control">&#9679;</span>`, esc(it.Status))
			}
			fmt.Fprintf(w, `<tr>`+
				`<td>%s</td><td>%s%s</td><td>%s</td>`+
				`<td class="num">%s</td><td class="num">%s</td><td class="num">%s</td>`,
				esc(it.ID), esc(it.Material), marker, esc(it.Unit),
				esc(it.Qty), esc(it.UnitPrice), esc(it.Value))
			fmt.Fprintf(w, `<td class="actions">`+
				`<a href="/projects/%s/chapters/%s/items/%s/edit">Edit</a> `+
				`<button hx-delete="/projects/%s/chapters/%s/items/%s" hx-confirm="Delete this item?" hx-swap="none">Delete</button>`+
				`</td></tr>`,
				esc(projectID), keyPath, esc(it.ID),
				esc(projectID), keyPath, esc(it.ID))
		}
		fmt.Fprint(w, `</tbody></table>`)
	}

	fmt.Fprintf(w, `<div class="chapter-total"><span>Chapter Total</span><strong>%s</strong></div></section>`, esc(ch.Total))
}

// ChapterFormPage renders the chapter create/rename form.
func ChapterFormPage(data ChapterFormData) templ.Component {
	title := "New Chapter"
	action := fmt.Sprintf("/projects/%s/chapters", data.ProjectID)
	if data.IsEdit {
		title = "Rename Chapter"
		action = fmt.Sprintf("/projects/%s/chapters/%s/save", data.ProjectID, url.PathEscape(data.Key))
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s" class="form">`, esc(title), action)

		if data.IsEdit {
			fmt.Fprintf(w, `<label>Key<input type="text" value="%s" disabled></label>`, esc(data.Key))
		} else {
			fmt.Fprintf(w, `<label>Key<input type="text" name="key" value="%s" placeholder="CAR 3" required></label>`, esc(data.Key))
			fieldError(w, data.Errors, "key")
		}

		fmt.Fprintf(w, `<label>Header<input type="text" name="header" value="%s"></label>`, esc(data.Header))

		fmt.Fprintf(w, `<div class="form-actions">`+
			`<button type="submit" class="btn btn-primary">Save</button> `+
			`<a href="/projects/%s/budget" class="btn">Cancel</a></div></form>`,
			esc(data.ProjectID))
		return nil
	})
	return Layout(title, HeaderData{}, body)
}

// ItemFormPage renders the item create/edit form. Edit mode also exposes the
// per-item internal control fields.
func ItemFormPage(data ItemFormData) templ.Component {
	title := "New Item"
	action := fmt.Sprintf("/projects/%s/chapters/%s/items", data.ProjectID, url.PathEscape(data.ChapterKey))
	if data.IsEdit {
		title = "Edit Item " + data.ItemID
		action = fmt.Sprintf("/projects/%s/chapters/%s/items/%s/save", data.ProjectID, url.PathEscape(data.ChapterKey), data.ItemID)
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s" class="form">`, esc(title), action)

		fmt.Fprintf(w, `<label>Material<input type="text" name="material" value="%s" required></label>`, esc(data.Material))
		fieldError(w, data.Errors, "material")

		fmt.Fprintf(w, `<label>Unit<input type="text" name="unit" value="%s" placeholder="m2" required></label>`, esc(data.Unit))
		fieldError(w, data.Errors, "unit")

		fmt.Fprintf(w, `<label>Quantity<input type="number" name="quantity" value="%s" min="0" step="0.01"></label>`, esc(data.Qty))
		fieldError(w, data.Errors, "quantity")

		fmt.Fprintf(w, `<label>Unit Price<input type="number" name="unit_price" value="%s" min="0" step="0.01"></label>`, esc(data.UnitPrice))
		fieldError(w, data.Errors, "unit_price")

		if data.IsEdit {
			fmt.Fprint(w, `<fieldset class="control-fields"><legend>Internal Control</legend>`)
			fmt.Fprintf(w, `<label>Real Cost<input type="text" name="real_cost" value="%s" placeholder="0,00"></label>`, esc(data.RealCost))
			fieldError(w, data.Errors, "real_cost")
			fmt.Fprintf(w, `<label>Supplier<input type="text" name="supplier" value="%s"></label>`, esc(data.Supplier))
			fmt.Fprintf(w, `<label>Item Margin<input type="text" name="item_margin" value="%s"></label>`, esc(data.ItemMargin))
			fmt.Fprintf(w, `<label>Notes<textarea name="notes">%s</textarea></label>`, esc(data.Notes))
			fmt.Fprint(w, `</fieldset>`)
		}

		fmt.Fprintf(w, `<div class="form-actions">`+
			`<button type="submit" class="btn btn-primary">Save</button> `+
			`<a href="/projects/%s/budget?chapter=%s" class="btn">Cancel</a></div></form>`,
			esc(data.ProjectID), url.QueryEscape(data.ChapterKey))
		return nil
	})
	return Layout(title, HeaderData{}, body)
}
