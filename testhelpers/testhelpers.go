// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"strings"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/collections"
	"budgetworks/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project with its settings and internal-control
// section records and returns the project record.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string) *core.Record {
	t.Helper()

	project, err := services.CreateProjectRecords(app, services.ProjectDraft{
		Name:     name,
		Client:   "Test Client",
		Type:     "residential",
		Currency: "EUR",
		OrgID:    "test-org",
	})
	if err != nil {
		t.Fatalf("failed to create test project: %v", err)
	}
	return project
}

// CreateTestChapter creates a chapter record linked to a project.
func CreateTestChapter(t *testing.T, app *pocketbase.PocketBase, projectID, key, header string, position int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("chapters")
	if err != nil {
		t.Fatalf("failed to find chapters collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("chapter_key", key)
	record.Set("header", header)
	record.Set("position", position)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test chapter: %v", err)
	}
	return record
}

// CreateTestItem creates a budget item record linked to a chapter record.
func CreateTestItem(t *testing.T, app *pocketbase.PocketBase, chapterRecordID, itemKey, material string, qty, unitPrice float64, position int) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		t.Fatalf("failed to find budget_items collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("chapter", chapterRecordID)
	record.Set("item_key", itemKey)
	record.Set("material", material)
	record.Set("unit", "UN")
	record.Set("quantity", qty)
	record.Set("unit_price", unitPrice)
	record.Set("total_value", services.ItemValue(qty, unitPrice))
	record.Set("position", position)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test item: %v", err)
	}
	return record
}

// CreateTestUser creates an auth record with an org id for identity tests.
func CreateTestUser(t *testing.T, app *pocketbase.PocketBase, email, orgID string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("failed to find users collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("email", email)
	record.Set("password", "testpassword123")
	record.Set("org_id", orgID)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test user: %v", err)
	}
	return record
}

// AssertHTMLContains checks that body contains all specified fragments.
func AssertHTMLContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected HTML to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

// AssertHXRedirect checks that the response has an HX-Redirect header with the expected URL.
func AssertHXRedirect(t *testing.T, headerVal, expectedURL string) {
	t.Helper()

	if headerVal != expectedURL {
		t.Errorf("expected HX-Redirect %q, got %q", expectedURL, headerVal)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
