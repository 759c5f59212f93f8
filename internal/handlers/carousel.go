package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/carousel"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

const carouselPageKey = "carousel.page"

// CarouselStore is the carousel endpoint including the batched reorder.
type CarouselStore interface {
	screen.Store[contentapi.CarouselItem]
	carousel.Store
}

// CarouselHandler is the home page carousel screen. Its list comes from
// the operator's mounted board rather than a fresh listing per request, so
// paging and reordering work on one loaded list until the screen is
// opened again.
type CarouselHandler struct {
	*Screen[contentapi.CarouselItem]
	boards   *carousel.Registry
	products screen.Store[contentapi.Product]
}

func NewCarouselHandler(base *Base, store CarouselStore, products screen.Store[contentapi.Product], boards *carousel.Registry) *CarouselHandler {
	h := &CarouselHandler{boards: boards, products: products}
	h.Screen = &Screen[contentapi.CarouselItem]{
		Base:    base,
		Manager: screen.NewManager("Carousel Item", screen.Store[contentapi.CarouselItem](store), base.uploader),
		Title:   "Home",
		Key:     "carousel",
		Path:    "/admin/home",
		ListURL: "/admin/home",
		Columns: []string{"Order", "Image", "Title", "Text", "Button", "Link"},
		Row: func(it contentapi.CarouselItem) []views.Cell {
			return []views.Cell{
				text(strconv.Itoa(it.DisplayOrder)),
				image(it.Image),
				text(it.Title),
				text(it.Text),
				text(it.TextBtn),
				text(it.Link),
			}
		},
		Fields: h.fields,
		Bind:   h.bind,
		Source: h.source,
		Layout: h.layout,
		Label:  func(it contentapi.CarouselItem) string { return it.Title },

		// the board is stale once the API list changed; the redirect
		// target mounts a fresh one
		Changed: func(c echo.Context) { boards.Close(operatorID(c)) },
	}
	return h
}

func (h *CarouselHandler) Register(g *echo.Group) {
	h.Screen.Register(g)
	g.POST("/home/reorder", h.HandleReorder)
}

// source mounts a fresh board when the screen is opened and reuses the
// mounted one for paging and for opening the form.
func (h *CarouselHandler) source(c echo.Context) ([]contentapi.CarouselItem, error) {
	ctx := c.Request().Context()
	session := operatorID(c)

	board, ok := h.boards.Get(session)
	var err error
	if !ok || board.Closed() || mounting(c) {
		board = h.boards.Open(session)
		err = board.Load(ctx)
	}
	if n, convErr := strconv.Atoi(c.QueryParam("page")); convErr == nil {
		board.GoTo(n)
	}

	page := board.Page()
	c.Set(carouselPageKey, page)
	return page.Items, err
}

// mounting reports whether the request opens the screen, as opposed to
// paging or opening the form on the screen already shown.
func mounting(c echo.Context) bool {
	if c.Request().Method != http.MethodGet {
		return false
	}
	q := c.QueryParams()
	return !q.Has("page") && !q.Has("new") && !q.Has("edit")
}

func (h *CarouselHandler) layout(c echo.Context, _ []contentapi.CarouselItem, v *views.Manager) {
	page, ok := c.Get(carouselPageKey).(carousel.Page)
	if !ok {
		return
	}
	v.Table.ReorderURL = "/admin/home/reorder"
	v.Table.Empty = "No carousel items yet."
	v.Pager = pager(page)
	v.NewURL = withQuery(h.ListURL, "new", "1")
	v.NewURL = withQuery(v.NewURL, "page", strconv.Itoa(page.Number))

	// rows link back to the page they are on
	for i := range v.Table.Rows {
		r := &v.Table.Rows[i]
		r.EditURL = withQuery(withQuery(h.ListURL, "page", strconv.Itoa(page.Number)), "edit", r.ID)
	}
}

func pager(p carousel.Page) *views.Pager {
	out := &views.Pager{Number: p.Number, Pages: p.Pages, Start: p.Start, End: p.End, Total: p.Total}
	if p.Number > 1 {
		out.PrevURL = "/admin/home?page=" + strconv.Itoa(p.Number-1)
	}
	if p.Number < p.Pages {
		out.NextURL = "/admin/home?page=" + strconv.Itoa(p.Number+1)
	}
	return out
}

// HandleReorder applies a drop posted by the page script and answers with
// the table as it now stands.
func (h *CarouselHandler) HandleReorder(c echo.Context) error {
	ctx := c.Request().Context()
	board, ok := h.boards.Get(operatorID(c))
	if !ok {
		return c.NoContent(http.StatusGone)
	}

	active := contentapi.ID(formText(c, "active"))
	over := contentapi.ID(formText(c, "over"))

	outcome, err := board.DragEnd(ctx, active, over)
	var notices []screen.Notice
	switch {
	case outcome == carousel.Discarded:
		slog.Info("reorder result discarded, screen was closed", "error", err)
		return c.NoContent(http.StatusGone)
	case errors.Is(err, carousel.ErrNotVisible):
		notices = append(notices, screen.Warn("Items can only be reordered within the current page"))
	case outcome == carousel.Reconciled:
		notices = append(notices, screen.Failure("Failed to update display order"))
		if len(board.Items()) == 0 {
			notices = append(notices, screen.Failure("Failed to load carousel items"))
		}
	case outcome == carousel.Saved:
		h.record(c, h.Key, activity.ActionReorder, active, "moved onto "+over.String())
	}

	page := board.Page()
	c.Set(carouselPageKey, page)
	v := h.View(c, page.Items)
	return RenderStatus(c, http.StatusOK, views.Fragment("screen", views.ScreenFragment{Notices: notices, Manager: v}))
}

// Unmount closes the operator's board when they open any other screen, so
// a reorder still in flight no longer touches it.
func (h *CarouselHandler) Unmount(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		if req.Method == http.MethodGet && !strings.HasPrefix(req.URL.Path, "/admin/home") && !strings.HasPrefix(req.URL.Path, "/admin/static") {
			if id := operatorID(c); id != "" {
				h.boards.Close(id)
			}
		}
		return next(c)
	}
}

func (h *CarouselHandler) fields(ctx context.Context, it contentapi.CarouselItem) []views.Field {
	products, err := h.products.List(ctx)
	if err != nil {
		slog.Error("failed to load products for carousel link", "error", err)
	}
	links := make([]views.Option, 0, len(products)+1)
	seen := false
	for _, p := range products {
		links = append(links, views.Option{Value: p.Title, Label: p.Title, Selected: p.Title == it.Link})
		seen = seen || p.Title == it.Link
	}
	if it.Link != "" && !seen {
		links = append(links, views.Option{Value: it.Link, Label: it.Link, Selected: true})
	}

	order := ""
	if it.DisplayOrder > 0 {
		order = strconv.Itoa(it.DisplayOrder)
	}
	return []views.Field{
		{Name: "title", Label: "Title", Kind: views.FieldText, Value: it.Title, Required: true},
		{Name: "text", Label: "Text", Kind: views.FieldTextarea, Value: it.Text},
		{Name: "text_btn", Label: "Button text", Kind: views.FieldText, Value: it.TextBtn},
		{Name: "link", Label: "Link", Kind: views.FieldSelect, Options: links, Help: "The product the button opens"},
		{Name: "display_order", Label: "Display order", Kind: views.FieldNumber, Value: order, Help: "Leave empty to add at the end"},
	}
}

func (h *CarouselHandler) bind(c echo.Context, it contentapi.CarouselItem) (contentapi.CarouselItem, error) {
	it.Title = formText(c, "title")
	it.Text = formText(c, "text")
	it.TextBtn = formText(c, "text_btn")
	it.Link = formText(c, "link")

	order, err := formInt(c, "display_order")
	if err != nil {
		return it, err
	}
	if order <= 0 {
		order, err = h.defaultOrder(c, contentapi.ID(c.Param("id")))
		if err != nil {
			return it, err
		}
	}
	it.DisplayOrder = order
	return it, required(it.Title, "Title")
}

// defaultOrder fills an empty display order: a new item goes last and an
// edited item keeps its place.
func (h *CarouselHandler) defaultOrder(c echo.Context, id contentapi.ID) (int, error) {
	var items []contentapi.CarouselItem
	if board, ok := h.boards.Get(operatorID(c)); ok && !board.Closed() {
		items = board.Items()
	} else {
		loaded, err := h.Manager.Load(c.Request().Context())
		if err != nil {
			return 0, err
		}
		items = loaded
	}
	if id == "" {
		return len(items) + 1, nil
	}
	if it, ok := screen.Find(items, id); ok && it.DisplayOrder > 0 {
		return it.DisplayOrder, nil
	}
	return 0, fmt.Errorf("%w: Display order is required", screen.ErrInvalid)
}
