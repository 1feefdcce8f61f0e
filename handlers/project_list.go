package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
	"budgetworks/templates"
)

func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_list: could not find projects collection: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		records, err := app.FindAllRecords(projectsCol)
		if err != nil {
			log.Printf("project_list: could not query projects: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		var items []templates.ProjectListItem
		for _, rec := range records {
			createdDate := "—"
			if dt := rec.GetDateTime("created"); !dt.IsZero() {
				createdDate = dt.Time().Format("02 Jan 2006")
			}

			item := templates.ProjectListItem{
				ID:          rec.Id,
				Name:        rec.GetString("name"),
				Client:      rec.GetString("client"),
				Type:        rec.GetString("type"),
				Status:      rec.GetString("status"),
				CreatedDate: createdDate,
				DryCost:     "—",
			}

			budget, err := services.LoadBudget(app, rec.Id)
			if err == nil {
				item.ChapterCount = len(budget.Chapters)
				cur := services.FormatFor(budget.Settings)
				item.DryCost = services.FormatCurrency(services.DryCost(budget.Chapters), cur)
			} else {
				log.Printf("project_list: could not load budget for %s: %v", rec.Id, err)
			}

			items = append(items, item)
		}

		data := templates.ProjectListData{
			Header: GetHeaderData(e.Request),
			Items:  items,
		}
		return templates.ProjectListPage(data).Render(e.Request.Context(), e.Response)
	}
}
