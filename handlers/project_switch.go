package handlers

import (
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectActivate marks a project as the session's active project via
// the active_project cookie.
func HandleProjectActivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		rec, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		http.SetCookie(e.Response, &http.Cookie{
			Name:     "active_project",
			Value:    rec.Id,
			Path:     "/",
			MaxAge:   60 * 60 * 24 * 30,
			SameSite: http.SameSiteLaxMode,
		})

		SetToast(e, "success", "Switched to "+rec.GetString("name"))

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Refresh", "true")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects/"+rec.Id+"/budget")
	}
}

// HandleProjectDeactivate clears the active project selection.
func HandleProjectDeactivate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		http.SetCookie(e.Response, &http.Cookie{
			Name:   "active_project",
			Value:  "",
			Path:   "/",
			MaxAge: -1,
		})

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Refresh", "true")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects")
	}
}
