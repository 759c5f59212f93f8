package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

const (
	categoriesKey    = "categories.list"
	subcategoriesKey = "subcategories.list"
)

// CategoriesHandler manages categories with their subcategories listed
// under them. Both lists are loaded together.
type CategoriesHandler struct {
	*Base
	taxonomy Taxonomy
	cats     *Screen[contentapi.Category]
	subs     *Screen[contentapi.Subcategory]
}

func NewCategoriesHandler(base *Base, taxonomy Taxonomy) *CategoriesHandler {
	h := &CategoriesHandler{Base: base, taxonomy: taxonomy}

	cats := screen.NewManager("Category", taxonomy.Categories, base.uploader)
	cats.DeleteWarning = "All associated subcategories will also be removed."

	h.cats = &Screen[contentapi.Category]{
		Base:    base,
		Manager: cats,
		Title:   "Categories",
		Key:     "categories",
		Path:    "/admin/categories",
		ListURL: "/admin/categories",
		Columns: []string{"Name"},
		Row:     func(cat contentapi.Category) []views.Cell { return []views.Cell{text(cat.Name)} },
		Fields: func(_ context.Context, cat contentapi.Category) []views.Field {
			return []views.Field{{Name: "name", Label: "Name", Kind: views.FieldText, Value: cat.Name, Required: true}}
		},
		Bind: func(c echo.Context, cat contentapi.Category) (contentapi.Category, error) {
			cat.Name = formText(c, "name")
			return cat, required(cat.Name, "Name")
		},
		Source: func(c echo.Context) ([]contentapi.Category, error) {
			cats, _, err := h.load(c)
			return cats, err
		},
		Layout: func(c echo.Context, _ []contentapi.Category, v *views.Manager) { h.layout(c, v) },
		Label:  func(cat contentapi.Category) string { return cat.Name },
	}

	h.subs = &Screen[contentapi.Subcategory]{
		Base:    base,
		Manager: screen.NewManager("Subcategory", taxonomy.Subcategories, base.uploader),
		Title:   "Categories",
		Key:     "subcategories",
		Path:    "/admin/subcategories",
		ListURL: "/admin/categories",
		Columns: []string{"Subcategory"},
		Row:     func(sub contentapi.Subcategory) []views.Cell { return []views.Cell{text(sub.Name)} },
		Fields: func(ctx context.Context, sub contentapi.Subcategory) []views.Field {
			cats, err := taxonomy.Categories.List(ctx)
			if err != nil {
				slog.Error("failed to load categories for subcategory form", "error", err)
			}
			opts := make([]views.Option, len(cats))
			for i, cat := range cats {
				opts[i] = views.Option{Value: cat.ID.String(), Label: cat.Name, Selected: cat.ID == sub.CategoryID}
			}
			return []views.Field{
				{Name: "name", Label: "Name", Kind: views.FieldText, Value: sub.Name, Required: true},
				{Name: "category_id", Label: "Category", Kind: views.FieldSelect, Options: opts, Required: true},
			}
		},
		Bind: func(c echo.Context, sub contentapi.Subcategory) (contentapi.Subcategory, error) {
			sub.Name = formText(c, "name")
			sub.CategoryID = contentapi.ID(formText(c, "category_id"))
			if err := required(sub.Name, "Name"); err != nil {
				return sub, err
			}
			return sub, required(sub.CategoryID.String(), "Category")
		},
		Source: func(c echo.Context) ([]contentapi.Subcategory, error) {
			_, subs, err := h.load(c)
			return subs, err
		},
		Layout: func(c echo.Context, _ []contentapi.Subcategory, v *views.Manager) { h.layout(c, v) },
		Label:  func(sub contentapi.Subcategory) string { return sub.Name },
	}
	return h
}

func (h *CategoriesHandler) Register(g *echo.Group) {
	h.cats.Register(g)
	h.subs.Register(g)
}

func (h *CategoriesHandler) load(c echo.Context) ([]contentapi.Category, []contentapi.Subcategory, error) {
	cats, subs, err := h.taxonomy.Load(c.Request().Context())
	c.Set(categoriesKey, cats)
	c.Set(subcategoriesKey, subs)
	return cats, subs, err
}

func (h *CategoriesHandler) HandleList(c echo.Context) error {
	ctx := c.Request().Context()
	cats, subs, err := h.load(c)

	var notices []screen.Notice
	if err != nil {
		notices = append(notices, screen.Failure("Failed to load categories"))
	}

	back := listURL(c)
	var form *views.Form
	switch {
	case c.QueryParam("new") == "category":
		form = h.cats.form(ctx, "", contentapi.Category{}, back)
	case c.QueryParam("new") == "subcategory":
		form = h.subs.form(ctx, "", contentapi.Subcategory{CategoryID: contentapi.ID(c.QueryParam("category"))}, back)
	case c.QueryParam("edit") != "":
		if cat, ok := screen.Find(cats, contentapi.ID(c.QueryParam("edit"))); ok {
			form = h.cats.form(ctx, cat.ID, cat, back)
		} else {
			notices = append(notices, screen.Warn("Category not found"))
		}
	case c.QueryParam("edit_sub") != "":
		if sub, ok := screen.Find(subs, contentapi.ID(c.QueryParam("edit_sub"))); ok {
			form = h.subs.form(ctx, sub.ID, sub, back)
		} else {
			notices = append(notices, screen.Warn("Subcategory not found"))
		}
	}

	v := &views.Manager{Heading: "Categories", Singular: "Category"}
	h.layout(c, v)
	v.Form = form
	return RenderStatus(c, http.StatusOK, views.Page("manager", h.page(c, "Categories", v, notices...)))
}

// layout replaces the flat table with one group per category holding its
// subcategories. Subcategories whose category is gone are listed last.
func (h *CategoriesHandler) layout(c echo.Context, v *views.Manager) {
	cats, _ := c.Get(categoriesKey).([]contentapi.Category)
	subs, _ := c.Get(subcategoriesKey).([]contentapi.Subcategory)

	v.NewURL = "/admin/categories?new=category"
	v.NewLabel = "Add Category"
	v.Extra = []views.Link{{Label: "Add Subcategory", URL: "/admin/categories?new=subcategory"}}
	v.Table = views.Table{Empty: "No categories yet."}
	v.Total = len(cats)

	known := map[contentapi.ID]bool{}
	v.Groups = make([]views.Group, 0, len(cats)+1)
	for _, cat := range cats {
		known[cat.ID] = true
		v.Groups = append(v.Groups, views.Group{
			Title:        cat.Name,
			EditURL:      "/admin/categories?edit=" + cat.ID.String(),
			DeleteURL:    "/admin/categories/" + cat.ID.String() + "/delete",
			DeletePrompt: h.cats.Manager.DeletePrompt(),
			AddURL:       "/admin/categories?new=subcategory&category=" + cat.ID.String(),
			AddLabel:     "Add Subcategory",
			Table:        h.subTable(subs, func(s contentapi.Subcategory) bool { return s.CategoryID == cat.ID }),
		})
	}

	orphans := h.subTable(subs, func(s contentapi.Subcategory) bool { return !known[s.CategoryID] })
	if len(orphans.Rows) > 0 {
		v.Groups = append(v.Groups, views.Group{Title: "Without a category", Table: orphans})
	}
}

func (h *CategoriesHandler) subTable(subs []contentapi.Subcategory, keep func(contentapi.Subcategory) bool) views.Table {
	t := views.Table{Columns: []string{"Subcategory"}, Empty: "No subcategories."}
	for _, s := range subs {
		if !keep(s) {
			continue
		}
		t.Rows = append(t.Rows, views.Row{
			ID:           s.ID.String(),
			Cells:        []views.Cell{text(s.Name)},
			EditURL:      "/admin/categories?edit_sub=" + s.ID.String(),
			DeleteURL:    "/admin/subcategories/" + s.ID.String() + "/delete",
			DeletePrompt: h.subs.Manager.DeletePrompt(),
		})
	}
	return t
}
