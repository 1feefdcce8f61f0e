package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"budgetworks/testhelpers"
)

func TestActiveProjectMiddleware_ResolvesCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "Cookie Project")
	testhelpers.CreateTestProject(t, app, "Other Project")
	mw := ActiveProjectMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: proj.Id})
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := mw(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	active := GetActiveProject(e.Request)
	if active == nil || active.ID != proj.Id || active.Name != "Cookie Project" {
		t.Fatalf("active project = %+v", active)
	}

	header := GetHeaderData(e.Request)
	if len(header.Projects) != 2 {
		t.Fatalf("selector items = %d, want 2", len(header.Projects))
	}
	for _, item := range header.Projects {
		if item.ID == proj.Id && !item.IsActive {
			t.Error("cookie project must be marked active in the selector")
		}
		if item.ID != proj.Id && item.IsActive {
			t.Error("other projects must not be marked active")
		}
	}
}

func TestActiveProjectMiddleware_StaleCookieCleared(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mw := ActiveProjectMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	req.AddCookie(&http.Cookie{Name: "active_project", Value: "deletedprojectid"})
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := mw(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}

	if GetActiveProject(e.Request) != nil {
		t.Error("stale cookie must not yield an active project")
	}

	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "active_project" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("expected the stale active_project cookie to be cleared")
	}
}

func TestActiveProjectMiddleware_NoCookie(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	mw := ActiveProjectMiddleware(app)

	req := httptest.NewRequest(http.MethodGet, "/projects", nil)
	rec := httptest.NewRecorder()

	e := newTestRequestEvent(app, req, rec)
	if err := mw(e); err != nil {
		t.Fatalf("middleware error: %v", err)
	}
	if GetActiveProject(e.Request) != nil {
		t.Error("no cookie must mean no active project")
	}
}
