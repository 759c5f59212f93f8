package handlers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/media"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

type record interface {
	RecordID() contentapi.ID
}

// Screen is a list-table-form entity screen. The per-entity parts are the
// function fields; everything else (loading, the modal form, submit with
// upload, confirmed delete, notices and the activity log) is shared.
type Screen[T record] struct {
	*Base
	Manager *screen.Manager[T]

	// Title is the page heading and Key the activity log screen name.
	Title string
	Key   string
	// Path is where the form posts; ListURL is where the operator lands.
	Path    string
	ListURL string

	Columns []string
	Row     func(T) []views.Cell
	Fields  func(ctx context.Context, rec T) []views.Field
	Bind    func(c echo.Context, rec T) (T, error)
	Label   func(T) string

	// Optional hooks.
	Source func(c echo.Context) ([]T, error)
	Filter func(c echo.Context, items []T) ([]T, *views.Filter)
	Layout func(c echo.Context, items []T, v *views.Manager)
	Tabs   []views.Tab
	Map    func(rec T) *views.MapPicker

	// Changed runs after a successful create, update or delete.
	Changed func(c echo.Context)
}

// Register wires the create, update and delete posts under the /admin group.
func (s *Screen[T]) Register(g *echo.Group) {
	rel := strings.TrimPrefix(s.Path, "/admin")
	g.POST(rel, s.HandleCreate)
	g.POST(rel+"/:id", s.HandleUpdate)
	g.POST(rel+"/:id/delete", s.HandleDelete)
}

func (s *Screen[T]) HandleList(c echo.Context) error {
	return s.renderList(c, http.StatusOK, nil)
}

func (s *Screen[T]) HandleCreate(c echo.Context) error {
	return s.submit(c, "")
}

func (s *Screen[T]) HandleUpdate(c echo.Context) error {
	return s.submit(c, contentapi.ID(c.Param("id")))
}

func (s *Screen[T]) HandleDelete(c echo.Context) error {
	id := contentapi.ID(c.Param("id"))
	name := s.Manager.Name()

	err := s.Manager.Remove(c.Request().Context(), id, answer(c))
	switch {
	case errors.Is(err, screen.ErrDeclined):
		s.flash(c, screen.Info("Delete cancelled"))
	case err != nil:
		s.flash(c, screen.FailureFor("delete", name, err))
	default:
		s.record(c, s.Key, activity.ActionDelete, id, "")
		s.flash(c, screen.Success("%s deleted successfully", name))
		s.changed(c)
	}
	return redirectBack(c, s.ListURL)
}

func (s *Screen[T]) submit(c echo.Context, id contentapi.ID) error {
	ctx := c.Request().Context()
	name := s.Manager.Name()

	var zero T
	rec, err := s.Bind(c, zero)
	if err == nil {
		if im, ok := any(rec).(screen.Imaged[T]); ok && im.ImageURL() == "" {
			rec = im.WithImage(formText(c, currentImageField))
		}
	}

	var file *media.File
	if err == nil {
		file, err = formImage(c, s.maxUpload)
	}
	if err == nil {
		var saved T
		saved, err = s.Manager.Submit(ctx, id, rec, file)
		if err == nil {
			action, verb := activity.ActionCreate, "created"
			if id != "" {
				action, verb = activity.ActionUpdate, "updated"
			}
			if saved.RecordID() != "" {
				id = saved.RecordID()
			}
			s.record(c, s.Key, action, id, s.label(saved))
			s.flash(c, screen.Success("%s %s successfully", name, verb))
			s.changed(c)
			return redirectBack(c, s.ListURL)
		}
		rec = saved
	}

	action := "create"
	if id != "" {
		action = "update"
	}
	notice := screen.FailureFor(action, name, err)
	slog.Warn("submit rejected", "screen", s.Key, "id", id, "error", err)

	back, ok := sanitizeReturnTo(c.FormValue(returnToField))
	if !ok {
		back = s.ListURL
	}
	form := s.form(ctx, id, rec, back)
	form.Error = notice.Text
	return s.renderList(c, http.StatusUnprocessableEntity, form)
}

// renderList shows the list with form open on top of it when form is set,
// or when the query asks for one.
func (s *Screen[T]) renderList(c echo.Context, status int, form *views.Form) error {
	ctx := c.Request().Context()

	load := s.Manager.Load
	if s.Source != nil {
		load = func(context.Context) ([]T, error) { return s.Source(c) }
	}
	items, err := load(ctx)

	var notices []screen.Notice
	if err != nil {
		notices = append(notices, screen.Failure("Failed to load %s", strings.ToLower(s.Title)))
	}

	if form == nil {
		form, notices = s.queryForm(c, items, notices)
	}

	v := s.View(c, items)
	v.Form = form
	return RenderStatus(c, status, views.Page("manager", s.page(c, s.Title, v, notices...)))
}

// View builds the list part of the screen.
func (s *Screen[T]) View(c echo.Context, items []T) *views.Manager {
	back := listURL(c)
	if c.Request().Method != http.MethodGet {
		back = s.ListURL
	}

	v := &views.Manager{
		Heading:  s.Title,
		Singular: s.Manager.Name(),
		NewURL:   withQuery(back, "new", "1"),
		Tabs:     s.Tabs,
	}

	if s.Filter != nil {
		items, v.Filter = s.Filter(c, items)
	}

	v.Table = views.Table{
		Columns: s.Columns,
		Rows:    s.rows(items, back),
		Empty:   fmt.Sprintf("No %s found.", strings.ToLower(s.Title)),
	}
	if s.Layout != nil {
		s.Layout(c, items, v)
	}
	return v
}

func (s *Screen[T]) rows(items []T, back string) []views.Row {
	rows := make([]views.Row, 0, len(items))
	for _, it := range items {
		id := it.RecordID().String()
		rows = append(rows, views.Row{
			ID:           id,
			Cells:        s.Row(it),
			EditURL:      withQuery(back, "edit", id),
			DeleteURL:    withQuery(s.Path+"/"+id+"/delete", returnToField, back),
			DeletePrompt: s.Manager.DeletePrompt(),
		})
	}
	return rows
}

func (s *Screen[T]) queryForm(c echo.Context, items []T, notices []screen.Notice) (*views.Form, []screen.Notice) {
	ctx := c.Request().Context()
	back := listURL(c)
	if c.QueryParam("new") != "" {
		var zero T
		return s.form(ctx, "", zero, back), notices
	}
	if id := c.QueryParam("edit"); id != "" {
		rec, ok := screen.Find(items, contentapi.ID(id))
		if !ok {
			return nil, append(notices, screen.Warn("%s not found", s.Manager.Name()))
		}
		return s.form(ctx, rec.RecordID(), rec, back), notices
	}
	return nil, notices
}

func (s *Screen[T]) form(ctx context.Context, id contentapi.ID, rec T, back string) *views.Form {
	name := s.Manager.Name()
	f := &views.Form{
		Title:  "Add " + name,
		Action: s.Path,
		Cancel: back,
		Submit: "Create",
		Fields: append(s.Fields(ctx, rec), views.Field{Name: returnToField, Kind: views.FieldHidden, Value: back}),
	}
	if id != "" {
		f.Title = "Edit " + name
		f.Action = s.Path + "/" + id.String()
		f.Submit = "Update"
	}

	if im, ok := any(rec).(screen.Imaged[T]); ok {
		f.Multipart = true
		f.Image = im.ImageURL()
		f.Fields = append(f.Fields,
			views.Field{Name: imageField, Label: "Image", Kind: views.FieldFile, Required: s.Manager.ImageRequired && f.Image == ""},
			views.Field{Name: currentImageField, Kind: views.FieldHidden, Value: f.Image},
		)
	}
	if s.Map != nil {
		f.Map = s.Map(rec)
	}
	return f
}

func (s *Screen[T]) changed(c echo.Context) {
	if s.Changed != nil {
		s.Changed(c)
	}
}

func (s *Screen[T]) label(rec T) string {
	if s.Label == nil {
		return ""
	}
	return s.Label(rec)
}
