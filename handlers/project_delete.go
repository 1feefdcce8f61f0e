package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectDelete removes a project. The chapter, item, settings and
// internal-control records hang off cascade-delete relations, so deleting the
// project record takes the whole budget tree with it.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		rec, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("project_delete: could not delete project %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		// Deleting the active project clears the selection.
		if cookie, err := e.Request.Cookie("active_project"); err == nil && cookie.Value == projectID {
			http.SetCookie(e.Response, &http.Cookie{
				Name:   "active_project",
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
		}

		SetToast(e, "success", "Project deleted")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/projects")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects")
	}
}
