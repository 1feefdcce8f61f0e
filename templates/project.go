package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// ProjectListPage renders the projects overview.
func ProjectListPage(data ProjectListData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprint(w, `<div class="page-title"><h1>Projects</h1>`+
			`<a href="/projects/create" class="btn btn-primary">New Project</a></div>`)

		if len(data.Items) == 0 {
			fmt.Fprint(w, `<p class="empty-state">No projects yet. Create one to get started.</p>`)
			return nil
		}

		fmt.Fprint(w, `<table class="table project-table"><thead><tr>`+
			`<th>Name</th><th>Client</th><th>Type</th><th>Status</th>`+
			`<th>Chapters</th><th>Dry Cost</th><th>Created</th><th></th>`+
			`</tr></thead><tbody>`)
		for _, p := range data.Items {
			fmt.Fprintf(w, `<tr>`+
				`<td><a href="/projects/%s/budget">%s</a></td>`+
				`<td>%s</td><td>%s</td><td><span class="badge">%s</span></td>`+
				`<td>%d</td><td class="num">%s</td><td>%s</td>`,
				esc(p.ID), esc(p.Name), esc(p.Client), esc(p.Type), esc(p.Status),
				p.ChapterCount, esc(p.DryCost), esc(p.CreatedDate))
			fmt.Fprintf(w, `<td class="actions">`+
				`<button hx-post="/projects/%s/activate" hx-swap="none">Activate</button> `+
				`<a href="/projects/%s/edit">Edit</a> `+
				`<button hx-delete="/projects/%s" hx-confirm="Delete this project and its entire budget?" hx-swap="none">Delete</button>`+
				`</td></tr>`,
				esc(p.ID), esc(p.ID), esc(p.ID))
		}
		fmt.Fprint(w, `</tbody></table>`)
		return nil
	})
	return Layout("Projects", data.Header, body)
}

// ProjectFormPage renders the project create/edit form.
func ProjectFormPage(data ProjectFormData) templ.Component {
	title := "New Project"
	action := "/projects"
	if data.IsEdit {
		title = "Edit Project"
		action = fmt.Sprintf("/projects/%s/save", data.ID)
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>%s</h1><form method="post" action="%s" class="form">`, esc(title), action)

		fmt.Fprintf(w, `<label>Name<input type="text" name="name" value="%s" required></label>`, esc(data.Name))
		fieldError(w, data.Errors, "name")

		fmt.Fprintf(w, `<label>Client<input type="text" name="client" value="%s"></label>`, esc(data.Client))

		fmt.Fprintf(w, `<label>Description<textarea name="description">%s</textarea></label>`, esc(data.Description))

		fmt.Fprint(w, `<label>Type<select name="type">`)
		for _, t := range []string{"residential", "commercial", "renovation", "other"} {
			selected := ""
			if t == data.Type {
				selected = " selected"
			}
			fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, t, selected, t)
		}
		fmt.Fprint(w, `</select></label>`)

		fmt.Fprint(w, `<label>Currency<select name="currency">`)
		for _, c := range []string{"EUR", "USD", "GBP", "BRL"} {
			selected := ""
			if c == data.Currency {
				selected = " selected"
			}
			fmt.Fprintf(w, `<option value="%s"%s>%s</option>`, c, selected, c)
		}
		fmt.Fprint(w, `</select></label>`)
		fieldError(w, data.Errors, "org")

		fmt.Fprint(w, `<div class="form-actions">`+
			`<button type="submit" class="btn btn-primary">Save</button> `+
			`<a href="/projects" class="btn">Cancel</a></div></form>`)
		return nil
	})
	return Layout(title, HeaderData{}, body)
}

// ProjectSettingsPage renders the per-project settings form.
func ProjectSettingsPage(data ProjectSettingsData) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<h1>Settings — %s</h1>`, esc(data.ProjectName))
		fmt.Fprintf(w, `<form method="post" action="/projects/%s/settings" class="form">`, esc(data.ProjectID))

		fmt.Fprintf(w, `<label>Currency<input type="text" name="currency" value="%s"></label>`, esc(data.Currency))
		fmt.Fprintf(w, `<label>Locale<input type="text" name="locale" value="%s"></label>`, esc(data.Locale))
		fmt.Fprintf(w, `<label>Decimal places<input type="number" name="decimal_places" value="%d" min="0" max="4"></label>`, data.DecimalPlaces)
		fieldError(w, data.Errors, "decimal_places")

		checked := ""
		if data.ShowAllChapters {
			checked = " checked"
		}
		fmt.Fprintf(w, `<label class="checkbox"><input type="checkbox" name="show_all_chapters"%s> Show all chapters</label>`, checked)

		fmt.Fprintf(w, `<label>Default margin (%%)<input type="number" name="default_margin" value="%.2f" min="0" max="99.99" step="0.01"></label>`, data.DefaultMargin)
		fieldError(w, data.Errors, "default_margin")

		fmt.Fprint(w, `<div class="form-actions"><button type="submit" class="btn btn-primary">Save</button></div></form>`)
		return nil
	})
	return Layout("Project Settings", data.Header(), body)
}

// Header builds an empty header; settings is reachable from the budget pages
// which carry the full switcher.
func (d ProjectSettingsData) Header() HeaderData {
	return HeaderData{Active: &ActiveProject{ID: d.ProjectID, Name: d.ProjectName}}
}
