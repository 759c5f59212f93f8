package views

import (
	"github.com/corpweb/sitedesk/internal/nav"
	"github.com/corpweb/sitedesk/internal/screen"
)

// PageData is what the layout needs around a screen.
type PageData struct {
	Menu     nav.Menu
	Title    string
	Operator string
	Notices  []screen.Notice
	Content  any
}

// Manager is the view of a list-and-form entity screen.
type Manager struct {
	Heading  string
	Singular string
	NewURL   string
	// NewLabel overrides "Add <Singular>".
	NewLabel string
	Summary  string
	Extra    []Link
	Tabs     []Tab
	Filter   *Filter
	Table    Table
	Groups   []Group
	Total    int
	Pager    *Pager
	Form     *Form
}

type Link struct {
	Label string
	URL   string
}

type Tab struct {
	Label  string
	URL    string
	Active bool
}

// Filter is the search box and select above a table.
type Filter struct {
	Action      string
	Query       string
	SelectName  string
	SelectLabel string
	Options     []Option
}

type Table struct {
	Columns []string
	Rows    []Row
	Empty   string
	// ReorderURL turns on drag handles; drops are posted there.
	ReorderURL string
}

// Group is a titled block of rows, optionally with actions of its own.
type Group struct {
	Title        string
	Subtitle     string
	EditURL      string
	DeleteURL    string
	DeletePrompt string
	AddURL       string
	AddLabel     string
	Table        Table
}

type Row struct {
	ID           string
	Cells        []Cell
	EditURL      string
	DeleteURL    string
	DeletePrompt string
}

const (
	CellText  = "text"
	CellImage = "image"
	CellLink  = "link"
	CellStar  = "star"
	CellTags  = "tags"
)

type Cell struct {
	Kind string
	Text string
	URL  string
	Tags []string
	// On and Action drive the featured star.
	On     bool
	Action string
}

type Pager struct {
	Number  int
	Pages   int
	Start   int
	End     int
	Total   int
	PrevURL string
	NextURL string
}

const (
	FieldText     = "text"
	FieldNumber   = "number"
	FieldTextarea = "textarea"
	FieldSelect   = "select"
	FieldFile     = "file"
	FieldFiles    = "files"
	FieldList     = "list"
	FieldHidden   = "hidden"
)

type Field struct {
	Name        string
	Label       string
	Kind        string
	Value       string
	Placeholder string
	Help        string
	Required    bool
	Options     []Option
	// DependsOn names a select whose value filters this select's options
	// by Option.Parent.
	DependsOn string
}

type Option struct {
	Value    string
	Label    string
	Parent   string
	Selected bool
}

// Form is the modal create/edit form.
type Form struct {
	Title     string
	Action    string
	Cancel    string
	Submit    string
	Fields    []Field
	Image     string
	Map       *MapPicker
	Error     string
	Multipart bool
}

// MapPicker is the map dialog that fills the lat/lng fields.
type MapPicker struct {
	Lat      float64
	Lng      float64
	Zoom     int
	TileURL  string
	LatField string
	LngField string
	// Marked puts a marker at Lat/Lng when the map opens.
	Marked bool
}

// Gallery is the gallery image manager.
type Gallery struct {
	Galleries []Option
	Selected  string
	Title     string
	Images    []GalleryImage
	UploadURL string
	Empty     string
}

type GalleryImage struct {
	ID           string
	URL          string
	DeleteURL    string
	DeletePrompt string
}

// Dashboard is the landing screen.
type Dashboard struct {
	Cards  []Card
	Recent []ActivityRow
	Counts []Card
}

type Card struct {
	Label string
	Value string
	URL   string
}

type ActivityRow struct {
	Operator string
	Screen   string
	Action   string
	RecordID string
	Detail   string
	Ago      string
	At       string
}
