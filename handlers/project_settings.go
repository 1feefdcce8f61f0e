package handlers

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/templates"
)

func findSettingsRecord(app *pocketbase.PocketBase, projectID string) (*core.Record, error) {
	return app.FindFirstRecordByFilter(
		"project_settings",
		"project = {:projectId}",
		map[string]any{"projectId": projectID},
	)
}

func HandleProjectSettings(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			SetToast(e, "error", "Project not found")
			return e.Redirect(http.StatusFound, "/projects")
		}

		settings, err := findSettingsRecord(app, projectID)
		if err != nil {
			log.Printf("project_settings: no settings record for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := templates.ProjectSettingsData{
			ProjectID:       projectID,
			ProjectName:     project.GetString("name"),
			Currency:        settings.GetString("currency"),
			Locale:          settings.GetString("locale"),
			DecimalPlaces:   settings.GetInt("decimal_places"),
			ShowAllChapters: settings.GetBool("show_all_chapters"),
			DefaultMargin:   settings.GetFloat("default_margin"),
			Errors:          make(map[string]string),
		}
		return templates.ProjectSettingsPage(data).Render(e.Request.Context(), e.Response)
	}
}

func HandleProjectSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			SetToast(e, "error", "Project not found")
			return e.Redirect(http.StatusFound, "/projects")
		}

		settings, err := findSettingsRecord(app, projectID)
		if err != nil {
			log.Printf("project_settings: no settings record for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		currency := strings.ToUpper(strings.TrimSpace(e.Request.FormValue("currency")))
		locale := strings.TrimSpace(e.Request.FormValue("locale"))
		showAll := e.Request.FormValue("show_all_chapters") == "on"

		errors := make(map[string]string)

		decimalPlaces, err := strconv.Atoi(strings.TrimSpace(e.Request.FormValue("decimal_places")))
		if err != nil || decimalPlaces < 0 || decimalPlaces > 4 {
			errors["decimal_places"] = "Decimal places must be between 0 and 4"
			decimalPlaces = settings.GetInt("decimal_places")
		}

		defaultMargin, err := strconv.ParseFloat(strings.TrimSpace(e.Request.FormValue("default_margin")), 64)
		if err != nil || defaultMargin < 0 || defaultMargin >= 100 {
			errors["default_margin"] = "Margin must be at least 0 and below 100"
			defaultMargin = settings.GetFloat("default_margin")
		}

		if len(errors) > 0 {
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.ProjectSettingsData{
				ProjectID:       projectID,
				ProjectName:     project.GetString("name"),
				Currency:        currency,
				Locale:          locale,
				DecimalPlaces:   decimalPlaces,
				ShowAllChapters: showAll,
				DefaultMargin:   defaultMargin,
				Errors:          errors,
			}
			return templates.ProjectSettingsPage(data).Render(e.Request.Context(), e.Response)
		}

		settings.Set("currency", currency)
		settings.Set("locale", locale)
		settings.Set("decimal_places", decimalPlaces)
		settings.Set("show_all_chapters", showAll)
		settings.Set("default_margin", defaultMargin)

		if err := app.Save(settings); err != nil {
			log.Printf("project_settings: could not save settings for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Settings saved")

		target := "/projects/" + projectID + "/settings"
		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", target)
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, target)
	}
}
