package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"budgetworks/services"
	"budgetworks/templates"
)

func HandleControlView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if _, err := app.FindRecordById("projects", projectID); err != nil {
			SetToast(e, "error", "Project not found")
			return e.Redirect(http.StatusFound, "/projects")
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("control_view: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		data := buildControlPageData(budget)
		data.Header = GetHeaderData(e.Request)
		return templates.InternalControlPage(data).Render(e.Request.Context(), e.Response)
	}
}

func buildControlPageData(b *services.Budget) templates.ControlPageData {
	cur := services.FormatFor(b.Settings)
	sale := b.Control.Sale

	data := templates.ControlPageData{
		ProjectID:     b.ProjectID,
		DryCost:       services.FormatCurrency(sale.DryCost, cur),
		TotalCost:     services.FormatCurrency(sale.TotalCost, cur),
		MarginPercent: strconv.FormatFloat(sale.MarginPercent, 'f', -1, 64),
		SaleValue:     services.FormatCurrency(sale.SaleValue, cur),
		MarginValue:   services.FormatCurrency(sale.MarginValue, cur),
		Food:          strconv.FormatFloat(b.Control.Diverse.Food, 'f', -1, 64),
		Transport:     strconv.FormatFloat(b.Control.Diverse.Transport, 'f', -1, 64),
		Other:         strconv.FormatFloat(b.Control.Diverse.Other, 'f', -1, 64),
		Errors:        make(map[string]string),
	}

	for _, s := range b.Control.Subcontractors {
		data.Subcontractors = append(data.Subcontractors, templates.CostEntryRow{
			Label:  s.Supplier,
			Amount: strconv.FormatFloat(s.Total, 'f', -1, 64),
		})
	}
	for _, a := range b.Control.Amortizations {
		data.Amortizations = append(data.Amortizations, templates.CostEntryRow{
			Label:  a.Kind,
			Amount: strconv.FormatFloat(a.Total, 'f', -1, 64),
		})
	}

	overrides := services.ResolveOverrides(b.Chapters)
	data.OverrideCount = overrides.Count
	data.OverrideTotal = services.FormatCurrency(overrides.Total, cur)

	for _, ch := range b.Chapters {
		for _, it := range ch.Items {
			row := templates.ControlItemRow{
				ID:       it.ID,
				Material: it.Material,
				Value:    services.FormatCurrency(it.Value, cur),
				RealCost: "—",
			}
			diff, status := services.RealCostDifference(it)
			row.Status = string(status)
			if it.Control != nil {
				if real, ok := it.Control.RealCostValue(); ok {
					row.RealCost = services.FormatCurrency(real, cur)
					row.Difference = services.FormatCurrency(diff, cur)
				}
			}
			data.Items = append(data.Items, row)
		}
	}
	return data
}

// saveControlMutation runs a budget mutation and persists the touched control
// section together with the recomputed SALE cache in one transaction.
func saveControlMutation(app *pocketbase.PocketBase, b *services.Budget, section string, sectionData any) error {
	return app.RunInTransaction(func(txApp core.App) error {
		if section != services.SectionSale {
			if err := services.SaveControlSection(txApp, b.ProjectID, section, sectionData); err != nil {
				return err
			}
		}
		return services.SaveSaleCache(txApp, b.ProjectID, b.Control.Sale)
	})
}

func HandleControlMargin(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		margin, err := parseDecimal(e.Request.FormValue("margin"))
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Margin must be a number")
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("control_margin: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := budget.SetMarginPercent(margin); err != nil {
			if errors.Is(err, services.ErrMarginOutOfRange) {
				return ErrorToast(e, http.StatusBadRequest, "Margin must be at least 0 and below 100")
			}
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := saveControlMutation(app, budget, services.SectionSale, nil); err != nil {
			log.Printf("control_margin: could not persist margin for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Margin updated")
		return redirectToControl(e, projectID)
	}
}

func HandleControlDiverse(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		var patch services.DiverseCostsPatch
		fields := []struct {
			name string
			dst  **float64
		}{
			{"food", &patch.Food},
			{"transport", &patch.Transport},
			{"other", &patch.Other},
		}
		for _, f := range fields {
			raw := strings.TrimSpace(e.Request.FormValue(f.name))
			if raw == "" {
				continue
			}
			v, err := parseDecimal(raw)
			if err != nil {
				return ErrorToast(e, http.StatusBadRequest, "Costs must be numbers")
			}
			val := v
			*f.dst = &val
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("control_diverse: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		if err := budget.UpdateDiverseCosts(patch); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Costs cannot be negative")
		}

		if err := saveControlMutation(app, budget, services.SectionDiverseCosts, budget.Control.Diverse); err != nil {
			log.Printf("control_diverse: could not persist diverse costs for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Diverse costs updated")
		return redirectToControl(e, projectID)
	}
}

// parseCostEntries pairs up the repeated label/total form fields, dropping
// rows where both are blank.
func parseCostEntries(labels, totals []string) ([]string, []float64, error) {
	var outLabels []string
	var outTotals []float64
	for i, label := range labels {
		label = strings.TrimSpace(label)
		raw := ""
		if i < len(totals) {
			raw = strings.TrimSpace(totals[i])
		}
		if label == "" && raw == "" {
			continue
		}
		v, err := parseDecimal(raw)
		if err != nil || v < 0 {
			return nil, nil, errors.New("totals must be non-negative numbers")
		}
		outLabels = append(outLabels, label)
		outTotals = append(outTotals, v)
	}
	return outLabels, outTotals, nil
}

func HandleControlSubcontractors(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		labels, totals, err := parseCostEntries(e.Request.PostForm["label"], e.Request.PostForm["total"])
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Totals must be non-negative numbers")
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("control_subcontractors: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]services.SupplierCost, len(labels))
		for i := range labels {
			entries[i] = services.SupplierCost{Supplier: labels[i], Total: totals[i]}
		}
		if err := budget.SetSubcontractors(entries); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Totals must be non-negative numbers")
		}

		if err := saveControlMutation(app, budget, services.SectionSubcontractors, budget.Control.Subcontractors); err != nil {
			log.Printf("control_subcontractors: could not persist for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Subcontractors updated")
		return redirectToControl(e, projectID)
	}
}

func HandleControlAmortizations(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")

		if err := e.Request.ParseForm(); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Invalid form data")
		}

		labels, totals, err := parseCostEntries(e.Request.PostForm["label"], e.Request.PostForm["total"])
		if err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Totals must be non-negative numbers")
		}

		budget, err := services.LoadBudget(app, projectID)
		if err != nil {
			log.Printf("control_amortizations: could not load budget for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		entries := make([]services.Amortization, len(labels))
		for i := range labels {
			entries[i] = services.Amortization{Kind: labels[i], Total: totals[i]}
		}
		if err := budget.SetAmortizations(entries); err != nil {
			return ErrorToast(e, http.StatusBadRequest, "Totals must be non-negative numbers")
		}

		if err := saveControlMutation(app, budget, services.SectionAmortizations, budget.Control.Amortizations); err != nil {
			log.Printf("control_amortizations: could not persist for %s: %v", projectID, err)
			return ErrorToast(e, http.StatusInternalServerError, "Something went wrong. Please try again.")
		}

		SetToast(e, "success", "Amortizations updated")
		return redirectToControl(e, projectID)
	}
}

func redirectToControl(e *core.RequestEvent, projectID string) error {
	target := "/projects/" + projectID + "/control"
	if e.Request.Header.Get("HX-Request") == "true" {
		e.Response.Header().Set("HX-Redirect", target)
		return e.String(http.StatusOK, "")
	}
	return e.Redirect(http.StatusFound, target)
}
