package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// esc shortens templ.EscapeString for the hand-built components below.
func esc(s string) string {
	return templ.EscapeString(s)
}

// fieldError renders the validation message for a form field, if any.
func fieldError(w io.Writer, errors map[string]string, field string) {
	if msg, ok := errors[field]; ok && msg != "" {
		fmt.Fprintf(w, `<p class="field-error">%s</p>`, esc(msg))
	}
}

// Layout wraps a page body with the shared HTML shell and header.
func Layout(title string, header HeaderData, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s</title>`+
			`<link rel="stylesheet" href="/static/app.css">`+
			`<script src="https://unpkg.com/htmx.org@1.9.12"></script>`+
			`<script src="/static/app.js" defer></script>`+
			`</head><body>`, esc(title))

		if err := renderHeader(w, header); err != nil {
			return err
		}

		fmt.Fprint(w, `<main class="container">`)
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		fmt.Fprint(w, `</main><div id="toast-container"></div></body></html>`)
		return nil
	})
}

func renderHeader(w io.Writer, header HeaderData) error {
	fmt.Fprint(w, `<header class="app-header"><a href="/projects" class="brand">Budget Works</a>`)

	fmt.Fprint(w, `<nav class="project-switcher"><ul>`)
	for _, p := range header.Projects {
		activeClass := ""
		if p.IsActive {
			activeClass = ` class="active"`
		}
		fmt.Fprintf(w, `<li%s><a href="/projects/%s/budget">%s</a></li>`,
			activeClass, esc(p.ID), esc(p.Name))
	}
	fmt.Fprint(w, `</ul></nav>`)

	if header.Active != nil {
		fmt.Fprintf(w, `<div class="active-project" data-project-id="%s">`+
			`<span>%s</span>`+
			`<a href="/projects/%s/budget">Budget</a>`+
			`<a href="/projects/%s/control">Internal Control</a>`+
			`<a href="/projects/%s/settings">Settings</a>`+
			`</div>`,
			esc(header.Active.ID), esc(header.Active.Name),
			esc(header.Active.ID), esc(header.Active.ID), esc(header.Active.ID))
	}

	fmt.Fprint(w, `</header>`)
	return nil
}
