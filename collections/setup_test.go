package collections_test

import (
	"testing"

	"budgetworks/collections"
	"budgetworks/testhelpers"
)

var expectedCollections = []string{
	"projects",
	"project_settings",
	"chapters",
	"budget_items",
	"internal_control",
}

func TestSetup_AllCollectionsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	for _, name := range expectedCollections {
		t.Run(name, func(t *testing.T) {
			if _, err := app.FindCollectionByNameOrId(name); err != nil {
				t.Errorf("collection %q not found: %v", name, err)
			}
		})
	}
}

func TestSetup_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	// NewTestApp already ran Setup; running it again must neither fail nor
	// duplicate collections.
	collections.Setup(app)

	for _, name := range expectedCollections {
		if _, err := app.FindCollectionByNameOrId(name); err != nil {
			t.Errorf("collection %q missing after second Setup: %v", name, err)
		}
	}
}

func TestSetup_ProjectsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("projects collection not found: %v", err)
	}

	for _, field := range []string{"name", "client", "description", "type", "currency", "status", "owner", "org_id", "created", "updated"} {
		if col.Fields.GetByName(field) == nil {
			t.Errorf("projects missing field %q", field)
		}
	}
}

func TestSetup_BudgetItemsFields(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		t.Fatalf("budget_items collection not found: %v", err)
	}

	for _, field := range []string{"chapter", "item_key", "material", "unit", "quantity", "unit_price", "total_value", "position", "internal_control"} {
		if col.Fields.GetByName(field) == nil {
			t.Errorf("budget_items missing field %q", field)
		}
	}
}

func TestSetup_UsersOrgField(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		t.Fatalf("users collection not found: %v", err)
	}
	if users.Fields.GetByName("org_id") == nil {
		t.Error("users missing org_id field")
	}
}

func TestSetup_CascadeDeleteProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Cascade Project")
	chapter := testhelpers.CreateTestChapter(t, app, project.Id, "CAR 1", "FUNDAÇÃO", 0)
	testhelpers.CreateTestItem(t, app, chapter.Id, "1-1", "AREIA", 7.33, 73.96, 0)

	if err := app.Delete(project); err != nil {
		t.Fatalf("delete project: %v", err)
	}

	if recs, _ := app.FindRecordsByFilter("chapters", "project = {:p}", "", 0, 0,
		map[string]any{"p": project.Id}); len(recs) != 0 {
		t.Errorf("chapters not cascade-deleted: %d left", len(recs))
	}
	if recs, _ := app.FindRecordsByFilter("budget_items", "chapter = {:c}", "", 0, 0,
		map[string]any{"c": chapter.Id}); len(recs) != 0 {
		t.Errorf("items not cascade-deleted: %d left", len(recs))
	}
	if recs, _ := app.FindRecordsByFilter("internal_control", "project = {:p}", "", 0, 0,
		map[string]any{"p": project.Id}); len(recs) != 0 {
		t.Errorf("control sections not cascade-deleted: %d left", len(recs))
	}
	if recs, _ := app.FindRecordsByFilter("project_settings", "project = {:p}", "", 0, 0,
		map[string]any{"p": project.Id}); len(recs) != 0 {
		t.Errorf("settings not cascade-deleted: %d left", len(recs))
	}
}

func TestSetup_CascadeDeleteChapter(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	project := testhelpers.CreateTestProject(t, app, "Chapter Cascade")
	chapter := testhelpers.CreateTestChapter(t, app, project.Id, "CAR 1", "", 0)
	testhelpers.CreateTestItem(t, app, chapter.Id, "1-1", "AREIA", 1, 1, 0)

	if err := app.Delete(chapter); err != nil {
		t.Fatalf("delete chapter: %v", err)
	}
	if recs, _ := app.FindRecordsByFilter("budget_items", "chapter = {:c}", "", 0, 0,
		map[string]any{"c": chapter.Id}); len(recs) != 0 {
		t.Errorf("items not cascade-deleted with chapter: %d left", len(recs))
	}
}
