package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"budgetworks/services"
)

// ── Definition structs ───────────────────────────────────────────────────

type itemDef struct {
	material  string
	unit      string
	qty       float64
	unitPrice float64
}

type chapterDef struct {
	key    string
	header string
	items  []itemDef
}

// demoChapters is the sample residential budget new installs start with.
var demoChapters = []chapterDef{
	{
		key:    "CAR 1",
		header: "FUNDAÇÃO SUPERFICIAL - B. S.C/VIGA",
		items: []itemDef{
			{"AREIA", "M³", 7.33, 73.96},
			{"FORMA MADEIRA P/ SAPATA", "M²", 2.36, 20.44},
			{"ACO CA-50 10 MM", "KG", 14.77, 5.51},
			{"ACO CA-50 12,5 MM", "KG", 12.88, 5.51},
			{"ACO CA-50 16 MM", "KG", 20.47, 5.51},
			{"BROCA MANUAL P/ ESTACA", "UN", 1.00, 29.90},
			{"CIMENTO CP-II-Z-32", "SC", 1.91, 32.07},
			{"CONCRETO FCK=25 MPA", "M³", 1.59, 336.76},
		},
	},
	{
		key:    "CAR 2",
		header: "MOVIMENTO DE TERRA, REATERRO, COMPACTACAO E NIVELAMENTO",
		items: []itemDef{
			{"AREIA", "M³", 0.26, 73.96},
			{"AREIA GROSSA", "M³", 0.19, 87.48},
			{"CAMISA PLASTICA", "UN", 1.00, 2.59},
			{"FITA VEDA ROSCA 1/2\"", "UN", 1.00, 2.38},
			{"GEOTEXTIL BIDIM OP-50", "M²", 1.50, 3.70},
		},
	},
}

// Seed inserts a demo project with a populated budget tree when the projects
// collection is empty. It is a no-op on every later start.
func Seed(app *pocketbase.PocketBase) error {
	// ── idempotency: skip if projects already exist ──────────────────
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: could not find projects collection: %w", err)
	}
	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: could not query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Println("seed: projects collection is empty – inserting seed data …")

	project, err := services.CreateProjectRecords(app, services.ProjectDraft{
		Name:        "Moradia S. Pedro Estoril",
		Client:      "Cliente Exemplo",
		Description: "Demo residential construction budget",
		Type:        "residential",
		Currency:    "EUR",
		OrgID:       "demo-org",
	})
	if err != nil {
		return fmt.Errorf("seed: create demo project: %w", err)
	}

	budget := services.NewBudget(project.Id)
	for _, chDef := range demoChapters {
		if err := budget.AddChapter(chDef.key, chDef.header); err != nil {
			return fmt.Errorf("seed: add chapter %q: %w", chDef.key, err)
		}
		for _, itDef := range chDef.items {
			if _, err := budget.AddItem(chDef.key, services.ItemDraft{
				Material:  itDef.material,
				Unit:      itDef.unit,
				Qty:       itDef.qty,
				UnitPrice: itDef.unitPrice,
			}); err != nil {
				return fmt.Errorf("seed: add item %q: %w", itDef.material, err)
			}
		}
	}

	for ci, ch := range budget.Chapters {
		if err := services.InsertChapterRecord(app, project.Id, ch, ci); err != nil {
			return fmt.Errorf("seed: persist chapter %q: %w", ch.Key, err)
		}
		for ii, it := range ch.Items {
			if err := services.InsertItemRecord(app, project.Id, ch.Key, it, ii); err != nil {
				return fmt.Errorf("seed: persist item %q: %w", it.ID, err)
			}
		}
	}

	if err := services.SaveSaleCache(app, project.Id, budget.Control.Sale); err != nil {
		return fmt.Errorf("seed: persist sale cache: %w", err)
	}

	log.Printf("seed: created demo project %q with %d chapters", project.GetString("name"), len(budget.Chapters))
	return nil
}
