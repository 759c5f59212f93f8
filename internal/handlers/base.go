package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/media"
	"github.com/corpweb/sitedesk/internal/middleware"
	"github.com/corpweb/sitedesk/internal/nav"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/internal/session"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

// ActivityRecorder is the part of the activity log the screens write to.
type ActivityRecorder interface {
	Record(ctx context.Context, e activity.Entry) (activity.Entry, error)
}

// Base carries what every screen handler shares.
type Base struct {
	sessions  *session.Manager
	activity  ActivityRecorder
	menu      *nav.Menu
	uploader  media.Uploader
	maxUpload int64
}

func NewBase(sessions *session.Manager, recorder ActivityRecorder, menu *nav.Menu, uploader media.Uploader, maxUpload int64) *Base {
	return &Base{
		sessions:  sessions,
		activity:  recorder,
		menu:      menu,
		uploader:  uploader,
		maxUpload: maxUpload,
	}
}

// page wraps content in the layout, adding queued flash notices ahead of
// the ones produced by this request.
func (b *Base) page(c echo.Context, title string, content any, notices ...screen.Notice) *views.PageData {
	queued, err := b.sessions.Notices(c)
	if err != nil {
		slog.Warn("failed to read flash notices", "error", err)
	}

	menu := b.menu.For(c.Request().URL.Path)
	if title == "" {
		title = menu.Title()
	}

	data := &views.PageData{
		Menu:    menu,
		Title:   title,
		Notices: append(queued, notices...),
		Content: content,
	}
	if op := middleware.Operator(c); op != nil {
		data.Operator = op.Username
	}
	return data
}

// flash queues a notice for the page the redirect lands on.
func (b *Base) flash(c echo.Context, n screen.Notice) {
	if err := b.sessions.AddNotice(c, n); err != nil {
		slog.Warn("failed to queue notice", "error", err, "notice", n.Text)
	}
}

// record appends to the activity log. Failures are logged, not surfaced:
// the change itself already succeeded.
func (b *Base) record(c echo.Context, screenKey, action string, id contentapi.ID, detail string) {
	if b.activity == nil {
		return
	}
	_, err := b.activity.Record(c.Request().Context(), activity.Entry{
		Operator: operatorName(c),
		Screen:   screenKey,
		Action:   action,
		RecordID: id.String(),
		Detail:   detail,
	})
	if err != nil {
		slog.Error("failed to record activity", "screen", screenKey, "action", action, "error", err)
	}
}

func operatorName(c echo.Context) string {
	if op := middleware.Operator(c); op != nil {
		return op.Username
	}
	return "unknown"
}

func operatorID(c echo.Context) string {
	if op := middleware.Operator(c); op != nil {
		return op.ID
	}
	return ""
}

// wantsJSON reports whether the request came from the page script.
func wantsJSON(c echo.Context) bool {
	return c.Request().Header.Get("X-Requested-With") == "fetch"
}

func notFound(c echo.Context, what string) error {
	return c.String(http.StatusNotFound, what+" not found")
}
