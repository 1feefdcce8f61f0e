package handlers

import (
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
	"budgetworks/templates"
)

func HandleChapterCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.ChapterFormData{
			ProjectID: e.Request.PathValue("id"),
			Errors:    make(map[string]string),
		}
		return templates.ChapterFormPage(data).Render(e.Request.Context(), e.Response)
	}
}

func HandleChapterSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		key := strings.TrimSpace(e.Request.FormValue("key"))
		header := strings.TrimSpace(e.Request.FormValue("header"))

		renderForm := func(msg string) error {
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.ChapterFormData{
				ProjectID: projectID,
				Key:       key,
				Header:    header,
				Errors:    map[string]string{"key": msg},
			}
			return templates.ChapterFormPage(data).Render(e.Request.Context(), e.Response)
		}

		if key == "" {
			return renderForm("Chapter key is required")
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("chapter_create: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := budget.AddChapter(key, header); err != nil {
			if errors.Is(err, services.ErrChapterExists) {
				return renderForm("A chapter with this key already exists")
			}
			log.Printf("chapter_create: could not add chapter %q: %v", key, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		ch := *budget.FindChapter(key)
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := services.InsertChapterRecord(txApp, projectID, ch, len(budget.Chapters)-1); err != nil {
				return err
			}
			return services.SaveSaleCache(txApp, projectID, budget.Control.Sale)
		})
		if err != nil {
			log.Printf("chapter_create: could not persist chapter %q: %v", key, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Chapter "+key+" created")
		return redirectToChapter(e, projectID, key)
	}
}

func HandleChapterEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		key := e.Request.PathValue("key")

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("chapter_edit: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		ch := budget.FindChapter(key)
		if ch == nil {
			SetToast(e, "error", "Chapter not found")
			return e.Redirect(http.StatusFound, "/projects/"+projectID+"/budget")
		}

		data := templates.ChapterFormData{
			ProjectID: projectID,
			Key:       ch.Key,
			Header:    ch.Header,
			IsEdit:    true,
			Errors:    make(map[string]string),
		}
		return templates.ChapterFormPage(data).Render(e.Request.Context(), e.Response)
	}
}

// HandleChapterRename updates a chapter's header text. The key is the
// chapter's identity and never changes.
func HandleChapterRename(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		key := e.Request.PathValue("key")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}
		header := strings.TrimSpace(e.Request.FormValue("header"))

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("chapter_rename: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := budget.RenameChapter(key, header); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Chapter not found")
		}

		if err := services.UpdateChapterHeader(app, projectID, key, header); err != nil {
			log.Printf("chapter_rename: could not persist header for %q: %v", key, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Chapter renamed")
		return redirectToChapter(e, projectID, key)
	}
}

func HandleChapterDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		key := e.Request.PathValue("key")

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("chapter_delete: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := budget.DeleteChapter(key); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Chapter not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := services.DeleteChapterRecord(txApp, projectID, key); err != nil {
				return err
			}
			return services.SaveSaleCache(txApp, projectID, budget.Control.Sale)
		})
		if err != nil {
			log.Printf("chapter_delete: could not delete chapter %q: %v", key, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Chapter "+key+" deleted")

		if e.Request.Header.Get("HX-Request") == "true" {
			e.Response.Header().Set("HX-Redirect", "/projects/"+projectID+"/budget")
			return e.String(http.StatusOK, "")
		}
		return e.Redirect(http.StatusFound, "/projects/"+projectID+"/budget")
	}
}

func redirectToChapter(e *core.RequestEvent, projectID, key string) error {
	target := "/projects/" + projectID + "/budget?chapter=" + url.QueryEscape(key)
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", target)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, target)
}
