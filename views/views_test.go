package views

import (
	"bytes"
	"context"
	"testing"

	"github.com/corpweb/sitedesk/internal/nav"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func render(t *testing.T, name string, content any) string {
	t.Helper()
	var buf bytes.Buffer
	page := &PageData{
		Menu:     nav.MustLoad().For("/admin/home"),
		Title:    "Home",
		Operator: "editor",
		Notices:  []screen.Notice{screen.Success("Carousel item saved")},
		Content:  content,
	}
	require.NoError(t, Page(name, page).Render(context.Background(), &buf))
	return buf.String()
}

func TestPage_ManagerWithReorderAndForm(t *testing.T) {
	html := render(t, "manager", &Manager{
		Heading:  "Home",
		Singular: "Carousel Item",
		NewURL:   "/admin/home?new=1",
		Table: Table{
			Columns:    []string{"Order", "Title", "Image"},
			ReorderURL: "/admin/home/reorder",
			Rows: []Row{{
				ID:           "3",
				Cells:        []Cell{{Kind: CellText, Text: "1"}, {Kind: CellText, Text: "<b>Welcome</b>"}, {Kind: CellImage, URL: "https://cdn.example/a.png"}},
				EditURL:      "/admin/home?edit=3",
				DeleteURL:    "/admin/home/3/delete",
				DeletePrompt: "Are you sure you want to delete this carousel item?",
			}},
		},
		Pager: &Pager{Number: 1, Pages: 2, Start: 1, End: 10, Total: 14, NextURL: "/admin/home?page=2"},
		Form: &Form{
			Title:     "Edit Carousel Item",
			Action:    "/admin/home/3",
			Cancel:    "/admin/home",
			Multipart: true,
			Fields:    []Field{{Name: "title", Label: "Title", Kind: FieldText, Value: "Welcome", Required: true}},
		},
	})

	assert.Contains(t, html, `data-reorder-url="/admin/home/reorder"`)
	assert.Contains(t, html, `class="drag-handle`)
	assert.Contains(t, html, `data-confirm="Are you sure you want to delete this carousel item?"`)
	assert.Contains(t, html, "&lt;b&gt;Welcome&lt;/b&gt;", "cell text is escaped")
	assert.Contains(t, html, "Showing 1–10 of 14")
	assert.Contains(t, html, `enctype="multipart/form-data"`)
	assert.Contains(t, html, "Carousel item saved")
	assert.Contains(t, html, "Signed in as editor")
}

func TestPage_GroupsAndMap(t *testing.T) {
	html := render(t, "manager", &Manager{
		Singular: "Branch",
		Total:    3,
		Groups: []Group{{
			Title:    "Greater Accra",
			Subtitle: "2 branches",
			Table:    Table{Columns: []string{"Location"}, Rows: []Row{{ID: "1", Cells: []Cell{{Text: "Osu"}}}}},
		}},
		Form: &Form{
			Title:  "Add Branch",
			Action: "/admin/settings/branches",
			Cancel: "/admin/settings/branches",
			Map:    &MapPicker{Lat: 7.9465, Lng: -1.0232, Zoom: 7, TileURL: "https://tile", LatField: "lat", LngField: "lng"},
		},
	})
	assert.Contains(t, html, "Greater Accra")
	assert.Contains(t, html, "Total: 3")
	assert.Contains(t, html, `data-lat="7.9465"`)
	assert.Contains(t, html, "data-map-open")
	assert.NotContains(t, html, "data-marked")
}

func TestPage_GalleryAndDashboard(t *testing.T) {
	html := render(t, "gallery", &Gallery{
		Galleries: []Option{{Value: "4", Label: "Launch", Selected: true}},
		Selected:  "4",
		Title:     "Launch",
		UploadURL: "/admin/stories/gallery/4/images",
	})
	assert.Contains(t, html, "This gallery has no images yet.")
	assert.Contains(t, html, `name="images"`)

	html = render(t, "dashboard", &Dashboard{
		Cards:  []Card{{Label: "Products", Value: "12", URL: "/admin/products"}},
		Recent: []ActivityRow{{Operator: "editor", Action: "create", Screen: "award", RecordID: "9", Ago: "2 minutes ago"}},
	})
	assert.Contains(t, html, "2 minutes ago")
	assert.Contains(t, html, "Quiet week.")
}

func TestPage_Unknown(t *testing.T) {
	var buf bytes.Buffer
	err := Page("missing", &PageData{}).Render(context.Background(), &buf)
	assert.Error(t, err)
}

func TestFragment_Screen(t *testing.T) {
	var buf bytes.Buffer
	err := Fragment("screen", ScreenFragment{
		Notices: []screen.Notice{screen.Failure("Failed to update display order")},
		Manager: &Manager{Table: Table{Columns: []string{"Title"}, ReorderURL: "/admin/home/reorder"}},
	}).Render(context.Background(), &buf)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Failed to update display order")
	assert.Contains(t, buf.String(), "Nothing here yet.")
	assert.NotContains(t, buf.String(), "<html")
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"admin.js", "admin.css"} {
		_, err := Static().Open(name)
		assert.NoError(t, err, name)
	}
}
