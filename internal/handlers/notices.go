package handlers

import (
	"context"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
)

var noticeCategories = []choice{
	{"announcement", "Announcement"},
	{"news", "News"},
	{"update", "Update"},
}

func NewNoticesScreen(base *Base, store screen.Store[contentapi.Notice]) *Screen[contentapi.Notice] {
	return &Screen[contentapi.Notice]{
		Base:    base,
		Manager: screen.NewManager("Notice", store, base.uploader),
		Title:   "Notices",
		Key:     "notices",
		Path:    "/admin/notices",
		ListURL: "/admin/notices",
		Columns: []string{"Image", "Title", "Category", "Description"},
		Row: func(n contentapi.Notice) []views.Cell {
			return []views.Cell{
				image(n.Image),
				text(n.Title),
				text(labelOf(noticeCategories, n.Category)),
				text(helpers.Truncate(n.Description, 80)),
			}
		},
		Fields: func(_ context.Context, n contentapi.Notice) []views.Field {
			category := n.Category
			if category == "" {
				category = "announcement"
			}
			return []views.Field{
				{Name: "title", Label: "Title", Kind: views.FieldText, Value: n.Title, Required: true},
				{Name: "category", Label: "Category", Kind: views.FieldSelect, Options: choices(noticeCategories, category), Required: true},
				{Name: "description", Label: "Description", Kind: views.FieldTextarea, Value: n.Description},
			}
		},
		Bind: func(c echo.Context, n contentapi.Notice) (contentapi.Notice, error) {
			n.Title = formText(c, "title")
			n.Category = formText(c, "category")
			n.Description = formText(c, "description")
			return n, required(n.Title, "Title")
		},
		Label: func(n contentapi.Notice) string { return n.Title },
	}
}
