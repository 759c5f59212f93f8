package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

// ProductStore is the products endpoint including the featured toggle.
type ProductStore interface {
	screen.Store[contentapi.Product]
	screen.FeatureSetter
}

// Taxonomy lists the categories and subcategories product forms choose from.
type Taxonomy struct {
	Categories    screen.Store[contentapi.Category]
	Subcategories screen.Store[contentapi.Subcategory]
}

// Load fetches both lists concurrently.
func (t Taxonomy) Load(ctx context.Context) ([]contentapi.Category, []contentapi.Subcategory, error) {
	var (
		cats []contentapi.Category
		subs []contentapi.Subcategory
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cats, err = t.Categories.List(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		subs, err = t.Subcategories.List(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return []contentapi.Category{}, []contentapi.Subcategory{}, err
	}
	return cats, subs, nil
}

type ProductsHandler struct {
	*Screen[contentapi.Product]
	products ProductStore
}

func NewProductsHandler(base *Base, products ProductStore, taxonomy Taxonomy) *ProductsHandler {
	h := &ProductsHandler{products: products}
	h.Screen = &Screen[contentapi.Product]{
		Base:    base,
		Manager: screen.NewManager("Product", screen.Store[contentapi.Product](products), base.uploader),
		Title:   "Products",
		Key:     "products",
		Path:    "/admin/products",
		ListURL: "/admin/products",
		Columns: []string{"Featured", "Image", "Title", "Category", "Subcategory", "Description"},
		Row: func(p contentapi.Product) []views.Cell {
			return []views.Cell{
				{Kind: views.CellStar, On: bool(p.Featured), Action: "/admin/products/" + p.ID.String() + "/featured"},
				image(p.Image),
				text(p.Title),
				text(p.Category),
				text(p.Subcategory),
				text(helpers.Truncate(p.Description, 60)),
			}
		},
		Fields: func(ctx context.Context, p contentapi.Product) []views.Field {
			cats, subs, err := taxonomy.Load(ctx)
			if err != nil {
				slog.Error("failed to load categories for product form", "error", err)
			}
			return productFields(p, cats, subs)
		},
		Bind: func(c echo.Context, p contentapi.Product) (contentapi.Product, error) {
			p.Title = formText(c, "title")
			p.CategoryID = contentapi.ID(formText(c, "category_id"))
			p.SubcategoryID = contentapi.ID(formText(c, "subcategory_id"))
			p.Description = formText(c, "description")
			p.Features = formList(c, "features")
			p.Featured = contentapi.Flag(c.FormValue("featured") == "1")
			if err := required(p.Title, "Title"); err != nil {
				return p, err
			}
			return p, required(p.CategoryID.String(), "Category")
		},
		Layout: func(c echo.Context, items []contentapi.Product, v *views.Manager) {
			v.Extra = []views.Link{{Label: "Categories", URL: "/admin/categories"}}
			v.Summary = fmt.Sprintf("%d of %d products featured", screen.FeaturedCount(items), screen.MaxFeatured)
		},
		Label: func(p contentapi.Product) string { return p.Title },
	}
	return h
}

func (h *ProductsHandler) Register(g *echo.Group) {
	h.Screen.Register(g)
	g.POST("/products/:id/featured", h.HandleToggleFeatured)
}

// HandleToggleFeatured flips a product's star. When the cap is reached and
// the operator has not confirmed yet, the page script gets a 409 with the
// prompt to put; a plain form post gets the prompt as a warning instead.
func (h *ProductsHandler) HandleToggleFeatured(c echo.Context) error {
	ctx := c.Request().Context()
	id := contentapi.ID(c.Param("id"))

	products, err := h.Manager.Load(ctx)
	if err != nil {
		return h.featuredReply(c, http.StatusBadGateway, screen.Failure("Failed to load products"), nil)
	}

	ans := answer(c)
	state, err := screen.ToggleFeatured(ctx, products, id, h.products, ans)
	switch {
	case errors.Is(err, screen.ErrDeclined) && ans.Asked():
		if wantsJSON(c) {
			return c.JSON(http.StatusConflict, map[string]string{"prompt": ans.Prompt})
		}
		return h.featuredReply(c, http.StatusConflict, screen.Warn("%s", ans.Prompt), nil)
	case errors.Is(err, contentapi.ErrNotFound):
		return notFound(c, "Product")
	case err != nil:
		return h.featuredReply(c, http.StatusBadGateway, screen.Failure("Failed to update featured status"), nil)
	}

	p, _ := screen.Find(products, id)
	detail := "unfeatured " + p.Title
	msg := screen.Success("%s removed from featured products", p.Title)
	if state {
		detail = "featured " + p.Title
		msg = screen.Success("%s is now featured", p.Title)
	}
	h.record(c, h.Key, activity.ActionFeature, id, detail)
	return h.featuredReply(c, http.StatusOK, msg, &state)
}

func (h *ProductsHandler) featuredReply(c echo.Context, status int, n screen.Notice, state *bool) error {
	h.flash(c, n)
	if wantsJSON(c) {
		body := map[string]any{"message": n.Text}
		if state != nil {
			body["featured"] = *state
		}
		return c.JSON(status, body)
	}
	return redirectBack(c, h.ListURL)
}

func productFields(p contentapi.Product, cats []contentapi.Category, subs []contentapi.Subcategory) []views.Field {
	catOpts := make([]views.Option, len(cats))
	for i, cat := range cats {
		catOpts[i] = views.Option{Value: cat.ID.String(), Label: cat.Name, Selected: cat.ID == p.CategoryID}
	}
	subOpts := make([]views.Option, len(subs))
	for i, sub := range subs {
		subOpts[i] = views.Option{
			Value:    sub.ID.String(),
			Label:    sub.Name,
			Parent:   sub.CategoryID.String(),
			Selected: sub.ID == p.SubcategoryID,
		}
	}
	featured := "0"
	if p.Featured {
		featured = "1"
	}

	return []views.Field{
		{Name: "title", Label: "Title", Kind: views.FieldText, Value: p.Title, Required: true},
		{Name: "category_id", Label: "Category", Kind: views.FieldSelect, Options: catOpts, Required: true},
		{Name: "subcategory_id", Label: "Subcategory", Kind: views.FieldSelect, Options: subOpts, DependsOn: "category_id"},
		{Name: "description", Label: "Description", Kind: views.FieldTextarea, Value: p.Description},
		{Name: "features", Label: "Features", Kind: views.FieldList, Value: listValue(p.Features), Help: "One feature per line"},
		{Name: "featured", Kind: views.FieldHidden, Value: featured},
	}
}
