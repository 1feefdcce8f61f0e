package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/templates"
)

func HandleProjectEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		rec, err := app.FindRecordById("projects", projectID)
		if err != nil {
			SetToast(e, "error", "Project not found")
			return e.Redirect(http.StatusFound, "/projects")
		}

		data := templates.ProjectFormData{
			ID:          rec.Id,
			Name:        rec.GetString("name"),
			Client:      rec.GetString("client"),
			Description: rec.GetString("description"),
			Type:        rec.GetString("type"),
			Currency:    rec.GetString("currency"),
			IsEdit:      true,
			Errors:      make(map[string]string),
		}
		return templates.ProjectFormPage(data).Render(e.Request.Context(), e.Response)
	}
}

func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		rec, err := app.FindRecordById("projects", projectID)
		if err != nil {
			SetToast(e, "error", "Project not found")
			return e.Redirect(http.StatusFound, "/projects")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.ProjectFormData{
				ID:          projectID,
				Name:        name,
				Client:      strings.TrimSpace(e.Request.FormValue("client")),
				Description: strings.TrimSpace(e.Request.FormValue("description")),
				Type:        strings.TrimSpace(e.Request.FormValue("type")),
				Currency:    strings.TrimSpace(e.Request.FormValue("currency")),
				IsEdit:      true,
				Errors:      map[string]string{"name": "Project name is required"},
			}
			return templates.ProjectFormPage(data).Render(e.Request.Context(), e.Response)
		}

		rec.Set("name", name)
		rec.Set("client", strings.TrimSpace(e.Request.FormValue("client")))
		rec.Set("description", strings.TrimSpace(e.Request.FormValue("description")))
		rec.Set("type", strings.TrimSpace(e.Request.FormValue("type")))
		rec.Set("currency", strings.TrimSpace(e.Request.FormValue("currency")))

		if err := app.Save(rec); err != nil {
			log.Printf("project_edit: could not save project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Project updated")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/projects")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects")
	}
}
