package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
	"budgetworks/templates"
)

func HandleBudgetView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			SetToast(e, "error", "Project not found")
			return e.Redirect(http.StatusFound, "/projects")
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("budget_view: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := buildBudgetPageData(budget, project.GetString("name"), e.Request.URL.Query().Get("chapter"))
		data.Header = GetHeaderData(e.Request)
		return templates.BudgetPage(data).Render(e.Request.Context(), e.Response)
	}
}

// buildBudgetPageData flattens the budget tree into formatted view rows. The
// requested chapter key becomes the active tab; an unknown or empty key falls
// back to the first chapter.
func buildBudgetPageData(b *services.Budget, projectName, chapterKey string) templates.BudgetPageData {
	cur := services.FormatFor(b.Settings)

	data := templates.BudgetPageData{
		ProjectID:   b.ProjectID,
		ProjectName: projectName,
		DryCost:     services.FormatCurrency(services.DryCost(b.Chapters), cur),
	}

	for _, ch := range b.Chapters {
		view := templates.ChapterView{
			Key:    ch.Key,
			Header: ch.Header,
			Total:  services.FormatCurrency(services.ChapterTotal(ch.Items), cur),
		}
		for _, it := range ch.Items {
			row := templates.ItemRow{
				ID:        it.ID,
				Material:  it.Material,
				Unit:      it.Unit,
				Qty:       strconv.FormatFloat(it.Qty, 'f', -1, 64),
				UnitPrice: services.FormatCurrency(it.UnitPrice, cur),
				Value:     services.FormatCurrency(it.Value, cur),
			}
			if it.Control != nil {
				if _, ok := it.Control.RealCostValue(); ok {
					_, status := services.RealCostDifference(it)
					row.HasControl = true
					row.Status = string(status)
				}
			}
			view.Items = append(view.Items, row)
		}
		data.Chapters = append(data.Chapters, view)
	}

	data.ActiveKey = chapterKey
	if data.ActiveKey == "" || b.FindChapter(data.ActiveKey) == nil {
		if len(b.Chapters) > 0 {
			data.ActiveKey = b.Chapters[0].Key
		}
	}
	return data
}
