package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
	"budgetworks/templates"
)

var ProjectTypeOptions = []string{"residential", "commercial", "renovation", "other"}

// requestOrgID resolves the organization id for the current request. An
// authenticated user contributes their org_id field; the local superuser
// surface falls back to a fixed organization.
func requestOrgID(e *core.RequestEvent) string {
	if e.Auth != nil {
		return e.Auth.GetString("org_id")
	}
	return "local"
}

func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.ProjectFormData{
			Type:     "residential",
			Currency: "EUR",
			Errors:   make(map[string]string),
		}
		return templates.ProjectFormPage(data).Render(e.Request.Context(), e.Response)
	}
}

func HandleProjectSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		draft := services.ProjectDraft{
			Name:        strings.TrimSpace(e.Request.FormValue("name")),
			Client:      strings.TrimSpace(e.Request.FormValue("client")),
			Description: strings.TrimSpace(e.Request.FormValue("description")),
			Type:        strings.TrimSpace(e.Request.FormValue("type")),
			Currency:    strings.TrimSpace(e.Request.FormValue("currency")),
			OrgID:       requestOrgID(e),
		}
		if e.Auth != nil {
			draft.OwnerID = e.Auth.Id
		}

		errors := make(map[string]string)
		if draft.Name == "" {
			errors["name"] = "Project name is required"
		}
		if draft.OrgID == "" {
			errors["org"] = "No organization is associated with your account"
		}

		if len(errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.ProjectFormData{
				Name:        draft.Name,
				Client:      draft.Client,
				Description: draft.Description,
				Type:        draft.Type,
				Currency:    draft.Currency,
				Errors:      errors,
			}
			return templates.ProjectFormPage(data).Render(e.Request.Context(), e.Response)
		}

		record, err := services.CreateProjectRecords(app, draft)
		if err != nil {
			log.Printf("project_create: could not create project: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// Make the new project the active one right away.
		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_project",
			Value:    record.Id,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, "success", "Project created successfully")

		target := "/projects/" + record.Id + "/budget"
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", target)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, target)
	}
}
