package handlers

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"
)

const (
	recentActivity = 20
	activityWindow = 7 * 24 * time.Hour
)

// ActivityReader is the read side of the activity log.
type ActivityReader interface {
	Recent(ctx context.Context, n int) ([]activity.Entry, error)
	CountsSince(ctx context.Context, window time.Duration) ([]activity.ScreenCount, error)
}

// Tally is one dashboard card: a label, where it links and how to count.
type Tally struct {
	Label string
	URL   string
	Count func(ctx context.Context) (int, error)
}

// CountOf counts the records a list endpoint returns.
func CountOf[T any](list func(ctx context.Context) ([]T, error)) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		items, err := list(ctx)
		return len(items), err
	}
}

type DashboardHandler struct {
	*Base
	tallies []Tally
	log     ActivityReader
}

func NewDashboardHandler(base *Base, log ActivityReader, tallies ...Tally) *DashboardHandler {
	return &DashboardHandler{Base: base, tallies: tallies, log: log}
}

func (h *DashboardHandler) HandleDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	v := &views.Dashboard{Cards: make([]views.Card, len(h.tallies))}

	var failed atomic.Int32
	g, gctx := errgroup.WithContext(ctx)
	for i, t := range h.tallies {
		v.Cards[i] = views.Card{Label: t.Label, URL: t.URL, Value: "–"}
		g.Go(func() error {
			n, err := t.Count(gctx)
			if err != nil {
				slog.Warn("dashboard count failed", "card", t.Label, "error", err)
				failed.Add(1)
				return nil
			}
			v.Cards[i].Value = helpers.Count(n)
			return nil
		})
	}
	_ = g.Wait()

	var notices []screen.Notice
	if failed.Load() > 0 {
		notices = append(notices, screen.Warn("Some totals could not be loaded"))
	}

	if h.log != nil {
		recent, err := h.log.Recent(ctx, recentActivity)
		if err != nil {
			slog.Error("failed to read recent activity", "error", err)
		}
		for _, e := range recent {
			v.Recent = append(v.Recent, views.ActivityRow{
				Operator: e.Operator,
				Screen:   e.Screen,
				Action:   pastTense(e.Action),
				RecordID: e.RecordID,
				Detail:   e.Detail,
				Ago:      helpers.Ago(e.At),
				At:       helpers.FormatDateTime(e.At),
			})
		}

		counts, err := h.log.CountsSince(ctx, activityWindow)
		if err != nil {
			slog.Error("failed to count activity", "error", err)
		}
		for _, sc := range counts {
			v.Counts = append(v.Counts, views.Card{Label: sc.Screen, Value: helpers.Count(sc.Total), URL: screenURL(sc.Screen)})
		}
	}

	return Render(c, views.Page("dashboard", h.page(c, "Dashboard", v, notices...)))
}

func pastTense(action string) string {
	switch action {
	case activity.ActionCreate:
		return "created"
	case activity.ActionUpdate:
		return "updated"
	case activity.ActionDelete:
		return "deleted"
	case activity.ActionReorder:
		return "reordered"
	case activity.ActionFeature:
		return "toggled featured on"
	case activity.ActionUpload:
		return "uploaded to"
	}
	return action
}

// screenURL maps an activity screen key back to its page.
func screenURL(key string) string {
	switch key {
	case "carousel":
		return "/admin/home"
	case "categories", "subcategories":
		return "/admin/categories"
	case "teams":
		return "/admin/about/teams"
	case "awards":
		return "/admin/about/awards"
	case "branches":
		return "/admin/settings/branches"
	case "articles":
		return "/admin/stories?tab=Articles"
	case "blogs":
		return "/admin/stories?tab=Blogs"
	case "galleries":
		return "/admin/stories?tab=Gallery"
	case "gallery":
		return "/admin/stories/gallery"
	}
	return "/admin/" + key
}
