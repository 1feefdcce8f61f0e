package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
	"budgetworks/templates"
)

// parseDecimal accepts both "7.33" and "7,33"; forms come from locales on
// either convention.
func parseDecimal(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

func HandleItemCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		data := templates.ItemFormData{
			ProjectID:  e.Request.PathValue("id"),
			ChapterKey: e.Request.PathValue("key"),
			Errors:     make(map[string]string),
		}
		return templates.ItemFormPage(data).Render(e.Request.Context(), e.Response)
	}
}

func HandleItemSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		chapterKey := e.Request.PathValue("key")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		material := strings.TrimSpace(e.Request.FormValue("material"))
		unit := strings.TrimSpace(e.Request.FormValue("unit"))

		errors := make(map[string]string)
		qty, err := parseDecimal(e.Request.FormValue("quantity"))
		if err != nil {
			errors["quantity"] = "Quantity must be a number"
		}
		unitPrice, err := parseDecimal(e.Request.FormValue("unit_price"))
		if err != nil {
			errors["unit_price"] = "Unit price must be a number"
		}

		renderForm := func() error {
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.ItemFormData{
				ProjectID:  projectID,
				ChapterKey: chapterKey,
				Material:   material,
				Unit:       unit,
				Qty:        e.Request.FormValue("quantity"),
				UnitPrice:  e.Request.FormValue("unit_price"),
				Errors:     errors,
			}
			return templates.ItemFormPage(data).Render(e.Request.Context(), e.Response)
		}
		if len(errors) > 0 {
			return renderForm()
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("item_create: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		draft := services.ItemDraft{
			Material:  material,
			Unit:      unit,
			Qty:       qty,
			UnitPrice: unitPrice,
		}
		item, err := budget.AddItem(chapterKey, draft)
		if err != nil {
			if fillDraftErrors(err, errors) {
				return renderForm()
			}
			return ErrorToast(e, http.StatusNotFound, "Chapter not found")
		}

		ch := budget.FindChapter(chapterKey)
		err = app.RunInTransaction(func(txApp core.App) error {
			if err := services.InsertItemRecord(txApp, projectID, chapterKey, item, len(ch.Items)-1); err != nil {
				return err
			}
			return services.SaveSaleCache(txApp, projectID, budget.Control.Sale)
		})
		if err != nil {
			log.Printf("item_create: could not persist item in %q: %v", chapterKey, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item "+item.ID+" added")
		return redirectToChapter(e, projectID, chapterKey)
	}
}

func HandleItemEdit(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		chapterKey := e.Request.PathValue("key")
		itemID := e.Request.PathValue("itemId")

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("item_edit: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		ch := budget.FindChapter(chapterKey)
		if ch == nil {
			SetToast(e, "error", "Chapter not found")
			return e.Redirect(http.StatusFound, "/projects/"+projectID+"/budget")
		}
		item := ch.FindItem(itemID)
		if item == nil {
			SetToast(e, "error", "Item not found")
			return redirectToChapter(e, projectID, chapterKey)
		}

		data := templates.ItemFormData{
			ProjectID:  projectID,
			ChapterKey: chapterKey,
			ItemID:     item.ID,
			Material:   item.Material,
			Unit:       item.Unit,
			Qty:        strconv.FormatFloat(item.Qty, 'f', -1, 64),
			UnitPrice:  strconv.FormatFloat(item.UnitPrice, 'f', -1, 64),
			IsEdit:     true,
			Errors:     make(map[string]string),
		}
		if item.Control != nil {
			data.RealCost = item.Control.RealCost
			data.Supplier = item.Control.Supplier
			data.ItemMargin = item.Control.ItemMargin
			data.Notes = item.Control.Notes
		}
		return templates.ItemFormPage(data).Render(e.Request.Context(), e.Response)
	}
}

func HandleItemUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		chapterKey := e.Request.PathValue("key")
		itemID := e.Request.PathValue("itemId")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		material := strings.TrimSpace(e.Request.FormValue("material"))
		unit := strings.TrimSpace(e.Request.FormValue("unit"))
		realCost := strings.TrimSpace(e.Request.FormValue("real_cost"))

		errors := make(map[string]string)
		qty, err := parseDecimal(e.Request.FormValue("quantity"))
		if err != nil {
			errors["quantity"] = "Quantity must be a number"
		}
		unitPrice, err := parseDecimal(e.Request.FormValue("unit_price"))
		if err != nil {
			errors["unit_price"] = "Unit price must be a number"
		}
		if realCost != "" {
			if v, err := parseDecimal(realCost); err != nil || v < 0 {
				errors["real_cost"] = "Real cost must be a non-negative number"
			}
		}

		renderForm := func() error {
			SetToast(e, "warning", "Please fix the errors below")
			data := templates.ItemFormData{
				ProjectID:  projectID,
				ChapterKey: chapterKey,
				ItemID:     itemID,
				Material:   material,
				Unit:       unit,
				Qty:        e.Request.FormValue("quantity"),
				UnitPrice:  e.Request.FormValue("unit_price"),
				RealCost:   realCost,
				Supplier:   e.Request.FormValue("supplier"),
				ItemMargin: e.Request.FormValue("item_margin"),
				Notes:      e.Request.FormValue("notes"),
				IsEdit:     true,
				Errors:     errors,
			}
			return templates.ItemFormPage(data).Render(e.Request.Context(), e.Response)
		}
		if len(errors) > 0 {
			return renderForm()
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("item_edit: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		patch := services.ItemPatch{
			Material:  &material,
			Unit:      &unit,
			Qty:       &qty,
			UnitPrice: &unitPrice,
		}
		item, err := budget.UpdateItem(chapterKey, itemID, patch)
		if err != nil {
			if fillDraftErrors(err, errors) {
				return renderForm()
			}
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		control := &services.ItemControl{
			RealCost:   realCost,
			Supplier:   strings.TrimSpace(e.Request.FormValue("supplier")),
			ItemMargin: strings.TrimSpace(e.Request.FormValue("item_margin")),
			Notes:      strings.TrimSpace(e.Request.FormValue("notes")),
		}
		if item.Control != nil {
			control.LaborCosts = item.Control.LaborCosts
		}
		if err := budget.SetItemControl(chapterKey, itemID, control); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}
		item = *budget.FindChapter(chapterKey).FindItem(itemID)

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := services.UpdateItemRecord(txApp, projectID, chapterKey, item); err != nil {
				return err
			}
			return services.SaveSaleCache(txApp, projectID, budget.Control.Sale)
		})
		if err != nil {
			log.Printf("item_edit: could not persist item %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item "+itemID+" updated")
		return redirectToChapter(e, projectID, chapterKey)
	}
}

func HandleItemDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		chapterKey := e.Request.PathValue("key")
		itemID := e.Request.PathValue("itemId")

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("item_delete: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := budget.DeleteItem(chapterKey, itemID); err != nil {
			return ErrorToast(e, http.StatusNotFound, "Item not found")
		}

		err = app.RunInTransaction(func(txApp core.App) error {
			if err := services.DeleteItemRecord(txApp, projectID, chapterKey, itemID); err != nil {
				return err
			}
			return services.SaveSaleCache(txApp, projectID, budget.Control.Sale)
		})
		if err != nil {
			log.Printf("item_delete: could not delete item %s: %v", itemID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Item "+itemID+" deleted")
		return redirectToChapter(e, projectID, chapterKey)
	}
}

// fillDraftErrors maps ozzo validation failures onto form field errors.
// Returns false when the error is not a validation error.
func fillDraftErrors(err error, dst map[string]string) bool {
	var vErrs validation.Errors
	if !errors.As(err, &vErrs) {
		return false
	}
	fieldMap := map[string]string{
		"Material":  "material",
		"Unit":      "unit",
		"Qty":       "quantity",
		"UnitPrice": "unit_price",
	}
	for field, fieldErr := range vErrs {
		name, ok := fieldMap[field]
		if !ok {
			name = field
		}
		dst[name] = fieldErr.Error()
	}
	return len(dst) > 0
}
