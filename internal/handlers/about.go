package handlers

import (
	"context"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
)

var teamCategories = []choice{
	{"management", "Management"},
	{"board of directors", "Board of Directors"},
	{"shareholders", "Share Holders"},
}

func NewTeamsScreen(base *Base, store screen.Store[contentapi.TeamMember]) *Screen[contentapi.TeamMember] {
	return &Screen[contentapi.TeamMember]{
		Base:    base,
		Manager: screen.NewManager("Team Member", store, base.uploader),
		Title:   "Team",
		Key:     "teams",
		Path:    "/admin/about/teams",
		ListURL: "/admin/about/teams",
		Columns: []string{"Image", "Name", "Position", "Category"},
		Row: func(m contentapi.TeamMember) []views.Cell {
			return []views.Cell{image(m.Image), text(m.Name), text(m.Position), text(labelOf(teamCategories, m.Category))}
		},
		Fields: func(_ context.Context, m contentapi.TeamMember) []views.Field {
			category := m.Category
			if category == "" {
				category = "management"
			}
			return []views.Field{
				{Name: "name", Label: "Name", Kind: views.FieldText, Value: m.Name, Required: true},
				{Name: "position", Label: "Position", Kind: views.FieldText, Value: m.Position, Required: true},
				{Name: "category", Label: "Category", Kind: views.FieldSelect, Options: choices(teamCategories, category), Required: true},
				{Name: "biography", Label: "Biography", Kind: views.FieldTextarea, Value: m.Biography},
			}
		},
		Bind: func(c echo.Context, m contentapi.TeamMember) (contentapi.TeamMember, error) {
			m.Name = formText(c, "name")
			m.Position = formText(c, "position")
			m.Category = formText(c, "category")
			m.Biography = formText(c, "biography")
			if err := required(m.Name, "Name"); err != nil {
				return m, err
			}
			return m, required(m.Position, "Position")
		},
		Label: func(m contentapi.TeamMember) string { return m.Name },
	}
}

func NewAwardsScreen(base *Base, store screen.Store[contentapi.Award]) *Screen[contentapi.Award] {
	return &Screen[contentapi.Award]{
		Base:    base,
		Manager: screen.NewManager("Award", store, base.uploader),
		Title:   "Awards",
		Key:     "awards",
		Path:    "/admin/about/awards",
		ListURL: "/admin/about/awards",
		Columns: []string{"Image", "Title", "Excerpt"},
		Row: func(a contentapi.Award) []views.Cell {
			return []views.Cell{image(a.Image), text(a.Title), text(helpers.Truncate(a.Excerpt, 80))}
		},
		Fields: func(_ context.Context, a contentapi.Award) []views.Field {
			return []views.Field{
				{Name: "title", Label: "Title", Kind: views.FieldText, Value: a.Title, Required: true},
				{Name: "excerpt", Label: "Excerpt", Kind: views.FieldTextarea, Value: a.Excerpt},
			}
		},
		Bind: func(c echo.Context, a contentapi.Award) (contentapi.Award, error) {
			a.Title = formText(c, "title")
			a.Excerpt = formText(c, "excerpt")
			return a, required(a.Title, "Title")
		},
		Label: func(a contentapi.Award) string { return a.Title },
	}
}
