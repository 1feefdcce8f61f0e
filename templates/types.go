// Package templates holds the typed view data and templ components rendered
// by the handlers.
package templates

// ActiveProject identifies the project the session is working on.
type ActiveProject struct {
	ID   string
	Name string
}

// ProjectSelectorItem is one entry of the header project switcher.
type ProjectSelectorItem struct {
	ID       string
	Name     string
	IsActive bool
}

// HeaderData feeds the shared page header.
type HeaderData struct {
	Active   *ActiveProject
	Projects []ProjectSelectorItem
}

// ProjectListItem is one row of the projects overview.
type ProjectListItem struct {
	ID           string
	Name         string
	Client       string
	Type         string
	Status       string
	CreatedDate  string
	ChapterCount int
	DryCost      string
}

// ProjectListData feeds the projects overview page.
type ProjectListData struct {
	Header HeaderData
	Items  []ProjectListItem
}

// ProjectFormData feeds the project create/edit form.
type ProjectFormData struct {
	ID          string
	Name        string
	Client      string
	Description string
	Type        string
	Currency    string
	IsEdit      bool
	Errors      map[string]string
}

// ProjectSettingsData feeds the project settings form.
type ProjectSettingsData struct {
	ProjectID       string
	ProjectName     string
	Currency        string
	Locale          string
	DecimalPlaces   int
	ShowAllChapters bool
	DefaultMargin   float64
	Errors          map[string]string
}

// ItemRow is one rendered budget line.
type ItemRow struct {
	ID         string
	Material   string
	Unit       string
	Qty        string
	UnitPrice  string
	Value      string
	HasControl bool
	Status     string // savings, overrun or neutral
}

// ChapterView is one rendered chapter with its items and total.
type ChapterView struct {
	Key    string
	Header string
	Items  []ItemRow
	Total  string
}

// BudgetPageData feeds the client-facing budget page.
type BudgetPageData struct {
	Header      HeaderData
	ProjectID   string
	ProjectName string
	Chapters    []ChapterView
	ActiveKey   string
	DryCost     string
}

// ChapterFormData feeds the chapter create/edit form. The key field is
// read-only in edit mode; chapter keys never change after creation.
type ChapterFormData struct {
	ProjectID string
	Key       string
	Header    string
	IsEdit    bool
	Errors    map[string]string
}

// ItemFormData feeds the item create/edit form, including the optional
// internal-control fields.
type ItemFormData struct {
	ProjectID  string
	ChapterKey string
	ItemID     string
	Material   string
	Unit       string
	Qty        string
	UnitPrice  string
	RealCost   string
	Supplier   string
	ItemMargin string
	Notes      string
	IsEdit     bool
	Errors     map[string]string
}

// ControlItemRow is a per-item budget-versus-real line on the internal
// control page.
type ControlItemRow struct {
	ID         string
	Material   string
	Value      string
	RealCost   string
	Difference string
	Status     string
}

// CostEntryRow is one subcontractor or amortization entry. Amount is the raw
// numeric string fed back into the edit form.
type CostEntryRow struct {
	Label  string
	Amount string
}

// ControlPageData feeds the internal control panel.
type ControlPageData struct {
	Header    HeaderData
	ProjectID string

	DryCost       string
	TotalCost     string
	MarginPercent string
	SaleValue     string
	MarginValue   string

	Food      string
	Transport string
	Other     string

	Subcontractors []CostEntryRow
	Amortizations  []CostEntryRow

	OverrideCount int
	OverrideTotal string
	Items         []ControlItemRow

	Errors map[string]string
}
