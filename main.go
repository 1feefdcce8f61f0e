package main

import (
	"log"
	"net/http"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/collections"
	"budgetworks/handlers"
)

func main() {
	app := pocketbase.New()

	// Create collections, seed the demo project and backfill control
	// sections on startup.
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.MigrateInternalControlSections(app); err != nil {
			log.Printf("Warning: control section migration failed: %v", err)
		}
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		return se.Next()
	})

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		se.Router.BindFunc(handlers.ActiveProjectMiddleware(app))

		se.Router.GET("/", func(e *core.RequestEvent) error {
			return e.Redirect(http.StatusFound, "/projects")
		})

		// Project CRUD and activation
		se.Router.GET("/projects", handlers.HandleProjectList(app))
		se.Router.GET("/projects/create", handlers.HandleProjectCreate(app))
		se.Router.POST("/projects", handlers.HandleProjectSave(app))
		se.Router.GET("/projects/{id}/edit", handlers.HandleProjectEdit(app))
		se.Router.POST("/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.DELETE("/projects/{id}", handlers.HandleProjectDelete(app))
		se.Router.POST("/projects/{id}/activate", handlers.HandleProjectActivate(app))
		se.Router.POST("/projects/deactivate", handlers.HandleProjectDeactivate(app))
		se.Router.GET("/projects/{id}/settings", handlers.HandleProjectSettings(app))
		se.Router.POST("/projects/{id}/settings", handlers.HandleProjectSettingsSave(app))

		// Client-facing budget
		se.Router.GET("/projects/{id}/budget", handlers.HandleBudgetView(app))
		se.Router.GET("/projects/{id}/chapters/create", handlers.HandleChapterCreate(app))
		se.Router.POST("/projects/{id}/chapters", handlers.HandleChapterSave(app))
		se.Router.GET("/projects/{id}/chapters/{key}/edit", handlers.HandleChapterEdit(app))
		se.Router.POST("/projects/{id}/chapters/{key}/save", handlers.HandleChapterRename(app))
		se.Router.DELETE("/projects/{id}/chapters/{key}", handlers.HandleChapterDelete(app))

		se.Router.GET("/projects/{id}/chapters/{key}/items/create", handlers.HandleItemCreate(app))
		se.Router.POST("/projects/{id}/chapters/{key}/items", handlers.HandleItemSave(app))
		se.Router.GET("/projects/{id}/chapters/{key}/items/{itemId}/edit", handlers.HandleItemEdit(app))
		se.Router.POST("/projects/{id}/chapters/{key}/items/{itemId}/save", handlers.HandleItemUpdate(app))
		se.Router.DELETE("/projects/{id}/chapters/{key}/items/{itemId}", handlers.HandleItemDelete(app))

		// Internal control
		se.Router.GET("/projects/{id}/control", handlers.HandleControlView(app))
		se.Router.POST("/projects/{id}/control/margin", handlers.HandleControlMargin(app))
		se.Router.POST("/projects/{id}/control/diverse", handlers.HandleControlDiverse(app))
		se.Router.POST("/projects/{id}/control/subcontractors", handlers.HandleControlSubcontractors(app))
		se.Router.POST("/projects/{id}/control/amortizations", handlers.HandleControlAmortizations(app))

		// Exports
		se.Router.GET("/projects/{id}/export/excel", handlers.HandleExportExcel(app))
		se.Router.GET("/projects/{id}/export/pdf", handlers.HandleExportPDF(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
