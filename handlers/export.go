package handlers

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
)

func loadExportData(app *pocketbase.PocketBase, e *core.RequestEvent) (services.ExportData, string, error) {
	projectID := e.Request.PathValue("id")

	project, err := app.FindRecordById("projects", projectID)
	if err != nil {
		return services.ExportData{}, "", fmt.Errorf("find project: %w", err)
	}

	budget, err := services.LoadBudget(app, projectID)
	if err != nil {
		return services.ExportData{}, "", fmt.Errorf("load budget: %w", err)
	}

	createdDate := ""
	if dt := project.GetDateTime("created"); !dt.IsZero() {
		createdDate = dt.Time().Format("02 Jan 2006")
	}

	includeControl := e.Request.URL.Query().Get("control") == "1"
	data := services.BuildExportData(budget,
		project.GetString("name"),
		project.GetString("client"),
		createdDate,
		includeControl)

	return data, exportFilename(project.GetString("name")), nil
}

// exportFilename turns a project name into a safe attachment base name.
func exportFilename(name string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == ' ', r == '-', r == '_':
			return '_'
		default:
			return -1
		}
	}, name)
	if clean == "" {
		clean = "budget"
	}
	return clean
}

func HandleExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, filename, err := loadExportData(app, e)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		content, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: could not generate workbook: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Export failed. Please try again.")
		}

		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		return e.Blob(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", content)
	}
}

func HandleExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data, filename, err := loadExportData(app, e)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return ErrorToast(e, http.StatusNotFound, "Project not found")
		}

		content, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: could not generate document: %v", err)
			return ErrorToast(e, http.StatusInternalServerError, "Export failed. Please try again.")
		}

		e.Response.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		return e.Blob(http.StatusOK, "application/pdf", content)
	}
}
