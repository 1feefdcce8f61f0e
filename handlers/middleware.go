package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/templates"
)

type contextKey string

const ActiveProjectKey contextKey = "activeProject"
const HeaderDataKey contextKey = "headerData"

// GetActiveProject extracts the active project from the request context.
func GetActiveProject(r *http.Request) *templates.ActiveProject {
	if val, ok := r.Context().Value(ActiveProjectKey).(*templates.ActiveProject); ok {
		return val
	}
	return nil
}

// GetHeaderData extracts the pre-built HeaderData from the request context.
func GetHeaderData(r *http.Request) templates.HeaderData {
	if val, ok := r.Context().Value(HeaderDataKey).(templates.HeaderData); ok {
		return val
	}
	return templates.HeaderData{}
}

// ActiveProjectMiddleware reads the "active_project" cookie, resolves the
// project record, builds HeaderData with the full project list for the
// switcher, and stores both in the request context.
func ActiveProjectMiddleware(app *pocketbase.PocketBase) func(e *core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		var activeProj *templates.ActiveProject

		cookie, err := e.Request.Cookie("active_project")
		if err == nil && cookie.Value != "" {
			rec, err := app.FindRecordById("projects", cookie.Value)
			if err == nil {
				activeProj = &templates.ActiveProject{
					ID:   rec.Id,
					Name: rec.GetString("name"),
				}
			} else {
				log.Printf("middleware: active project %s not found, clearing cookie", cookie.Value)
				http.SetCookie(e.Response, &http.Cookie{
					Name:   "active_project",
					Value:  "",
					Path:   "/",
					MaxAge: -1,
				})
			}
		}

		var selectorItems []templates.ProjectSelectorItem
		if projectsCol, _ := app.FindCollectionByNameOrId("projects"); projectsCol != nil {
			records, _ := app.FindAllRecords(projectsCol)
			for _, rec := range records {
				selectorItems = append(selectorItems, templates.ProjectSelectorItem{
					ID:       rec.Id,
					Name:     rec.GetString("name"),
					IsActive: activeProj != nil && rec.Id == activeProj.ID,
				})
			}
		}

		headerData := templates.HeaderData{
			Active:   activeProj,
			Projects: selectorItems,
		}

		ctx := context.WithValue(e.Request.Context(), ActiveProjectKey, activeProj)
		ctx = context.WithValue(ctx, HeaderDataKey, headerData)
		e.Request = e.Request.WithContext(ctx)

		return e.Next()
	}
}
