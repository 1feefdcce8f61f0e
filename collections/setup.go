package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the projects, project_settings,
// chapters, budget_items and internal_control collections exist, and adds
// the org_id field the identity contract needs to the users collection.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "client", Required: false})
		c.Fields.Add(&core.TextField{Name: "description", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "type",
			Required:  false,
			Values:    []string{"residential", "commercial", "renovation", "other"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  false,
			Values:    []string{"active", "completed", "on_hold"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.TextField{Name: "owner", Required: false})
		c.Fields.Add(&core.TextField{Name: "org_id", Required: false})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "project_settings", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "currency", Required: false})
		c.Fields.Add(&core.TextField{Name: "locale", Required: false})
		c.Fields.Add(&core.NumberField{Name: "decimal_places", Required: false})
		c.Fields.Add(&core.BoolField{Name: "show_all_chapters", Required: false})
		c.Fields.Add(&core.NumberField{Name: "default_margin", Required: false})
	})

	chapters := ensureCollection(app, "chapters", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "chapter_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "header", Required: false})
		c.Fields.Add(&core.NumberField{Name: "position", Required: false})
	})

	ensureCollection(app, "budget_items", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "chapter",
			Required:      true,
			CollectionId:  chapters.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.TextField{Name: "item_key", Required: true})
		c.Fields.Add(&core.TextField{Name: "material", Required: true})
		c.Fields.Add(&core.TextField{Name: "unit", Required: true})
		c.Fields.Add(&core.NumberField{Name: "quantity", Required: false})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Required: false})
		c.Fields.Add(&core.NumberField{Name: "total_value", Required: false})
		c.Fields.Add(&core.NumberField{Name: "position", Required: false})
		c.Fields.Add(&core.JSONField{Name: "internal_control", Required: false})
	})

	ensureCollection(app, "internal_control", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.SelectField{
			Name:      "section",
			Required:  true,
			Values:    []string{"SALE", "DIVERSE_COSTS", "SUBCONTRACTORS", "AMORTIZATIONS"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "data", Required: false})
	})

	ensureUserOrgField(app)
}

// ensureUserOrgField adds an org_id field to the built-in users auth
// collection so the session can resolve an organization id.
func ensureUserOrgField(app *pocketbase.PocketBase) {
	users, err := app.FindCollectionByNameOrId("users")
	if err != nil {
		log.Printf("users collection not found, skipping org_id field: %v", err)
		return
	}
	if users.Fields.GetByName("org_id") != nil {
		return
	}
	users.Fields.Add(&core.TextField{Name: "org_id", Required: false})
	if err := app.Save(users); err != nil {
		log.Fatalf("Failed to add org_id field to users: %v", err)
	}
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}
