package services

import (
	"encoding/json"
	"fmt"

	"github.com/pocketbase/pocketbase/core"
)

// ProjectDraft carries the fields required to create a project. OrgID comes
// from the identity collaborator; creation is declined without it.
type ProjectDraft struct {
	Name        string
	Client      string
	Description string
	Type        string
	Currency    string
	OwnerID     string
	OrgID       string
}

// CreateProjectRecords creates the project record together with its settings
// and the four internal-control section records. It runs in a transaction so
// a half-created project can never be observed.
func CreateProjectRecords(app core.App, draft ProjectDraft) (*core.Record, error) {
	if draft.OrgID == "" {
		return nil, fmt.Errorf("project creation requires an organization id")
	}

	var project *core.Record
	err := app.RunInTransaction(func(txApp core.App) error {
		projectsCol, err := txApp.FindCollectionByNameOrId("projects")
		if err != nil {
			return fmt.Errorf("projects collection: %w", err)
		}

		currency := draft.Currency
		if currency == "" {
			currency = "EUR"
		}

		project = core.NewRecord(projectsCol)
		project.Set("name", draft.Name)
		project.Set("client", draft.Client)
		project.Set("description", draft.Description)
		project.Set("type", draft.Type)
		project.Set("currency", currency)
		project.Set("status", "active")
		project.Set("owner", draft.OwnerID)
		project.Set("org_id", draft.OrgID)
		if err := txApp.Save(project); err != nil {
			return fmt.Errorf("save project: %w", err)
		}

		settingsCol, err := txApp.FindCollectionByNameOrId("project_settings")
		if err != nil {
			return fmt.Errorf("project_settings collection: %w", err)
		}
		settings := core.NewRecord(settingsCol)
		settings.Set("project", project.Id)
		settings.Set("currency", currency)
		settings.Set("locale", "pt-PT")
		settings.Set("decimal_places", 2)
		settings.Set("show_all_chapters", true)
		settings.Set("default_margin", DefaultMarginPercent)
		if err := txApp.Save(settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}

		seed := NewBudget(project.Id)
		sections := map[string]any{
			SectionSale:           seed.Control.Sale,
			SectionDiverseCosts:   seed.Control.Diverse,
			SectionSubcontractors: seed.Control.Subcontractors,
			SectionAmortizations:  seed.Control.Amortizations,
		}
		controlCol, err := txApp.FindCollectionByNameOrId("internal_control")
		if err != nil {
			return fmt.Errorf("internal_control collection: %w", err)
		}
		for section, data := range sections {
			rec := core.NewRecord(controlCol)
			rec.Set("project", project.Id)
			rec.Set("section", section)
			rec.Set("data", data)
			if err := txApp.Save(rec); err != nil {
				return fmt.Errorf("save %s section: %w", section, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

// LoadBudget assembles the complete in-memory budget tree for a project in
// one composite read: settings, ordered chapters and items, and the four
// internal-control sections. The tree is recalculated before it is returned
// so derived figures are never stale.
func LoadBudget(app core.App, projectID string) (*Budget, error) {
	b := NewBudget(projectID)

	settings, err := app.FindFirstRecordByFilter("project_settings",
		"project = {:projectId}", map[string]any{"projectId": projectID})
	if err == nil {
		b.Settings = Settings{
			Currency:        settings.GetString("currency"),
			Locale:          settings.GetString("locale"),
			DecimalPlaces:   settings.GetInt("decimal_places"),
			ShowAllChapters: settings.GetBool("show_all_chapters"),
			DefaultMargin:   settings.GetFloat("default_margin"),
		}
	}

	chapterRecords, err := app.FindRecordsByFilter("chapters",
		"project = {:projectId}", "position", 0, 0,
		map[string]any{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("load chapters: %w", err)
	}

	for _, chRec := range chapterRecords {
		ch := Chapter{
			Key:    chRec.GetString("chapter_key"),
			Header: chRec.GetString("header"),
		}

		itemRecords, err := app.FindRecordsByFilter("budget_items",
			"chapter = {:chapterId}", "position", 0, 0,
			map[string]any{"chapterId": chRec.Id})
		if err != nil {
			return nil, fmt.Errorf("load items for chapter %s: %w", ch.Key, err)
		}
		for _, itRec := range itemRecords {
			ch.Items = append(ch.Items, recordToItem(itRec))
		}

		b.Chapters = append(b.Chapters, ch)
	}

	sectionRecords, err := app.FindRecordsByFilter("internal_control",
		"project = {:projectId}", "", 0, 0,
		map[string]any{"projectId": projectID})
	if err != nil {
		return nil, fmt.Errorf("load internal control: %w", err)
	}
	for _, rec := range sectionRecords {
		switch rec.GetString("section") {
		case SectionSale:
			var sale Sale
			if err := unmarshalSection(rec, &sale); err == nil {
				b.Control.Sale = sale
			}
		case SectionDiverseCosts:
			var diverse DiverseCosts
			if err := unmarshalSection(rec, &diverse); err == nil {
				b.Control.Diverse = diverse
			}
		case SectionSubcontractors:
			var subs []SupplierCost
			if err := unmarshalSection(rec, &subs); err == nil {
				b.Control.Subcontractors = subs
			}
		case SectionAmortizations:
			var amorts []Amortization
			if err := unmarshalSection(rec, &amorts); err == nil {
				b.Control.Amortizations = amorts
			}
		}
	}

	b.Recalculate()
	return b, nil
}

func unmarshalSection(rec *core.Record, dst any) error {
	raw := rec.GetString("data")
	if raw == "" || raw == "null" {
		return fmt.Errorf("empty section data")
	}
	return json.Unmarshal([]byte(raw), dst)
}

func recordToItem(rec *core.Record) Item {
	item := Item{
		ID:        rec.GetString("item_key"),
		Material:  rec.GetString("material"),
		Unit:      rec.GetString("unit"),
		Qty:       rec.GetFloat("quantity"),
		UnitPrice: rec.GetFloat("unit_price"),
		Value:     rec.GetFloat("total_value"),
	}
	if raw := rec.GetString("internal_control"); raw != "" && raw != "null" {
		var control ItemControl
		if err := json.Unmarshal([]byte(raw), &control); err == nil {
			item.Control = &control
		}
	}
	return item
}

// SaveControlSection writes one internal-control section's JSON payload.
func SaveControlSection(app core.App, projectID, section string, data any) error {
	rec, err := app.FindFirstRecordByFilter("internal_control",
		"project = {:projectId} && section = {:section}",
		map[string]any{"projectId": projectID, "section": section})
	if err != nil {
		return fmt.Errorf("find %s section: %w", section, err)
	}
	rec.Set("data", data)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save %s section: %w", section, err)
	}
	return nil
}

// SaveSaleCache mirrors the recomputed SALE figures. Every mutation that
// changes a derived value ends by calling this, keeping the persisted cache
// consistent with the tree.
func SaveSaleCache(app core.App, projectID string, sale Sale) error {
	return SaveControlSection(app, projectID, SectionSale, sale)
}

func findChapterRecord(app core.App, projectID, chapterKey string) (*core.Record, error) {
	rec, err := app.FindFirstRecordByFilter("chapters",
		"project = {:projectId} && chapter_key = {:key}",
		map[string]any{"projectId": projectID, "key": chapterKey})
	if err != nil {
		return nil, fmt.Errorf("chapter %q: %w", chapterKey, ErrChapterNotFound)
	}
	return rec, nil
}

func findItemRecord(app core.App, chapterRecordID, itemKey string) (*core.Record, error) {
	rec, err := app.FindFirstRecordByFilter("budget_items",
		"chapter = {:chapterId} && item_key = {:key}",
		map[string]any{"chapterId": chapterRecordID, "key": itemKey})
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", itemKey, ErrItemNotFound)
	}
	return rec, nil
}

// InsertChapterRecord persists a newly added chapter at the end of the
// project's chapter ordering.
func InsertChapterRecord(app core.App, projectID string, ch Chapter, position int) error {
	col, err := app.FindCollectionByNameOrId("chapters")
	if err != nil {
		return fmt.Errorf("chapters collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("project", projectID)
	rec.Set("chapter_key", ch.Key)
	rec.Set("header", ch.Header)
	rec.Set("position", position)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save chapter %q: %w", ch.Key, err)
	}
	return nil
}

// UpdateChapterHeader renames a chapter. The chapter key is immutable and is
// deliberately not written here.
func UpdateChapterHeader(app core.App, projectID, chapterKey, header string) error {
	rec, err := findChapterRecord(app, projectID, chapterKey)
	if err != nil {
		return err
	}
	rec.Set("header", header)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save chapter %q: %w", chapterKey, err)
	}
	return nil
}

// DeleteChapterRecord removes a chapter record; the cascade on the items
// relation removes its items.
func DeleteChapterRecord(app core.App, projectID, chapterKey string) error {
	rec, err := findChapterRecord(app, projectID, chapterKey)
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete chapter %q: %w", chapterKey, err)
	}
	return nil
}

// InsertItemRecord persists a newly added item.
func InsertItemRecord(app core.App, projectID, chapterKey string, item Item, position int) error {
	chRec, err := findChapterRecord(app, projectID, chapterKey)
	if err != nil {
		return err
	}
	col, err := app.FindCollectionByNameOrId("budget_items")
	if err != nil {
		return fmt.Errorf("budget_items collection: %w", err)
	}
	rec := core.NewRecord(col)
	rec.Set("chapter", chRec.Id)
	rec.Set("position", position)
	setItemFields(rec, item)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save item %q: %w", item.ID, err)
	}
	return nil
}

// UpdateItemRecord rewrites an existing item's fields, including the
// recomputed value.
func UpdateItemRecord(app core.App, projectID, chapterKey string, item Item) error {
	chRec, err := findChapterRecord(app, projectID, chapterKey)
	if err != nil {
		return err
	}
	rec, err := findItemRecord(app, chRec.Id, item.ID)
	if err != nil {
		return err
	}
	setItemFields(rec, item)
	if err := app.Save(rec); err != nil {
		return fmt.Errorf("save item %q: %w", item.ID, err)
	}
	return nil
}

// DeleteItemRecord removes an item record. Sibling positions are untouched;
// item ids are stable once assigned.
func DeleteItemRecord(app core.App, projectID, chapterKey, itemID string) error {
	chRec, err := findChapterRecord(app, projectID, chapterKey)
	if err != nil {
		return err
	}
	rec, err := findItemRecord(app, chRec.Id, itemID)
	if err != nil {
		return err
	}
	if err := app.Delete(rec); err != nil {
		return fmt.Errorf("delete item %q: %w", itemID, err)
	}
	return nil
}

func setItemFields(rec *core.Record, item Item) {
	rec.Set("item_key", item.ID)
	rec.Set("material", item.Material)
	rec.Set("unit", item.Unit)
	rec.Set("quantity", item.Qty)
	rec.Set("unit_price", item.UnitPrice)
	rec.Set("total_value", item.Value)
	if item.Control != nil {
		rec.Set("internal_control", item.Control)
	} else {
		rec.Set("internal_control", nil)
	}
}
