package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetworks/testhelpers"
)

func TestHandleProjectList_Renders(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Lista Obras")
	ch := testhelpers.CreateTestChapter(t, app, proj.Id, "CAR 1", "", 0)
	testhelpers.CreateTestItem(t, app, ch.Id, "1-1", "AREIA", 1, 100, 0)
	handler := HandleProjectList(app)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(),
		"Lista Obras", "Test Client", "100,00")
}

func TestHandleProjectList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectList(app)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	testhelpers.AssertHTMLContains(t, rec.Body.String(), "No projects yet")
}
