package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetworks/testhelpers"
)

func TestHandleProjectDelete_Success(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Delete Me")
	chapter := testhelpers.CreateTestChapter(t, app, proj.Id, "CAR 1", "", 0)
	testhelpers.CreateTestItem(t, app, chapter.Id, "1-1", "AREIA", 1, 1, 0)

	handler := HandleProjectDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/projects/"+proj.Id, nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	testhelpers.AssertHXRedirect(t, rec.Header().Get("HX-Redirect"), "/projects")

	if _, err := app.FindRecordById("projects", proj.Id); err == nil {
		t.Error("expected project to be deleted")
	}
	// The budget tree went with it.
	if recs, _ := app.FindRecordsByFilter("chapters", "project = {:p}", "", 0, 0,
		map[string]any{"p": proj.Id}); len(recs) != 0 {
		t.Error("expected chapters to cascade-delete")
	}
}

func TestHandleProjectDelete_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectDelete(app)

	req := httptest.NewRequest(http.MethodDelete, "/projects/nonexistent", nil)
	req.SetPathValue("id", "nonexistent")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestHandleProjectActivate_SetsCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Activate Me")
	handler := HandleProjectActivate(app)

	req := httptest.NewRequest(http.MethodPost, "/projects/"+proj.Id+"/activate", nil)
	req.Header.Set("HX-Request", "true")
	req.SetPathValue("id", proj.Id)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var found bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_project" && c.Value == proj.Id {
			found = true
		}
	}
	if !found {
		t.Error("active_project cookie not set")
	}
	if rec.Header().Get("HX-Refresh") != "true" {
		t.Error("expected HX-Refresh header")
	}
}

func TestHandleProjectActivate_NotFound(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectActivate(app)

	req := httptest.NewRequest(http.MethodPost, "/projects/bogus/activate", nil)
	req.SetPathValue("id", "bogus")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}
