package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
)

// controlSections is the canonical list of internal-control sections every
// project must carry.
var controlSections = []string{
	services.SectionSale,
	services.SectionDiverseCosts,
	services.SectionSubcontractors,
	services.SectionAmortizations,
}

// MigrateInternalControlSections backfills missing project_settings and
// internal_control section records for every project. Projects created by
// older revisions stored only the sections the user had touched. Safe to
// call on every startup.
func MigrateInternalControlSections(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("migrate_control: could not find projects collection: %w", err)
	}
	projects, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("migrate_control: could not query projects: %w", err)
	}

	controlCol, err := app.FindCollectionByNameOrId("internal_control")
	if err != nil {
		return fmt.Errorf("migrate_control: could not find internal_control collection: %w", err)
	}
	settingsCol, err := app.FindCollectionByNameOrId("project_settings")
	if err != nil {
		return fmt.Errorf("migrate_control: could not find project_settings collection: %w", err)
	}

	var created int
	for _, project := range projects {
		defaults := services.NewBudget(project.Id)

		// Backfill the settings record.
		_, err := app.FindFirstRecordByFilter("project_settings",
			"project = {:projectId}", map[string]any{"projectId": project.Id})
		if err != nil {
			rec := core.NewRecord(settingsCol)
			rec.Set("project", project.Id)
			rec.Set("currency", defaults.Settings.Currency)
			rec.Set("locale", defaults.Settings.Locale)
			rec.Set("decimal_places", defaults.Settings.DecimalPlaces)
			rec.Set("show_all_chapters", defaults.Settings.ShowAllChapters)
			rec.Set("default_margin", defaults.Settings.DefaultMargin)
			if err := app.Save(rec); err != nil {
				return fmt.Errorf("migrate_control: save settings for project %s: %w", project.Id, err)
			}
			created++
		}

		// Backfill missing control sections.
		sectionData := map[string]any{
			services.SectionSale:           defaults.Control.Sale,
			services.SectionDiverseCosts:   defaults.Control.Diverse,
			services.SectionSubcontractors: defaults.Control.Subcontractors,
			services.SectionAmortizations:  defaults.Control.Amortizations,
		}
		for _, section := range controlSections {
			_, err := app.FindFirstRecordByFilter("internal_control",
				"project = {:projectId} && section = {:section}",
				map[string]any{"projectId": project.Id, "section": section})
			if err == nil {
				continue
			}
			rec := core.NewRecord(controlCol)
			rec.Set("project", project.Id)
			rec.Set("section", section)
			rec.Set("data", sectionData[section])
			if err := app.Save(rec); err != nil {
				return fmt.Errorf("migrate_control: save %s for project %s: %w", section, project.Id, err)
			}
			created++
		}
	}

	if created > 0 {
		log.Printf("migrate_control: backfilled %d records", created)
	}
	return nil
}
