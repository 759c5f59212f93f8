package handlers

import (
	"context"
	"net/http"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
)

// storyTabs in display order. Path is where each tab's form posts.
var storyTabs = []struct {
	tab  string
	name string
	key  string
	path string
}{
	{"Articles", "Article", "articles", "/admin/stories/articles"},
	{"Blogs", "Blog", "blogs", "/admin/stories/blogs"},
	{"Gallery", "Gallery", "galleries", "/admin/stories/galleries"},
}

// galleryStore writes gallery rows without the image column they lack.
type galleryStore struct {
	screen.Store[contentapi.Story]
}

func (s galleryStore) Create(ctx context.Context, rec contentapi.Story) (contentapi.Story, error) {
	return s.Store.Create(ctx, rec.AsGallery())
}

func (s galleryStore) Update(ctx context.Context, id contentapi.ID, rec contentapi.Story) (contentapi.Story, error) {
	return s.Store.Update(ctx, id, rec.AsGallery())
}

// StoriesHandler is the tabbed articles / blogs / gallery screen. The tabs
// share one content form.
type StoriesHandler struct {
	tabs map[string]*Screen[contentapi.Story]
}

func NewStoriesHandler(base *Base, articles, blogs, gallery screen.Store[contentapi.Story]) *StoriesHandler {
	stores := map[string]screen.Store[contentapi.Story]{
		"Articles": articles,
		"Blogs":    blogs,
		"Gallery":  galleryStore{gallery},
	}

	h := &StoriesHandler{tabs: map[string]*Screen[contentapi.Story]{}}
	for _, t := range storyTabs {
		mgr := screen.NewManager(t.name, stores[t.tab], base.uploader)
		mgr.ImageRequired = true

		tabs := make([]views.Tab, len(storyTabs))
		for i, other := range storyTabs {
			tabs[i] = views.Tab{Label: other.tab, URL: "/admin/stories?tab=" + other.tab, Active: other.tab == t.tab}
		}

		h.tabs[t.tab] = &Screen[contentapi.Story]{
			Base:    base,
			Manager: mgr,
			Title:   "Stories",
			Key:     t.key,
			Path:    t.path,
			ListURL: "/admin/stories?tab=" + t.tab,
			Columns: []string{"Image", "Title", "Subtitle", "Excerpt"},
			Row: func(s contentapi.Story) []views.Cell {
				return []views.Cell{image(s.ImageURL()), text(s.Title), text(s.SubTitle), text(helpers.Truncate(s.Excerpt, 80))}
			},
			Fields: storyFields,
			Bind:   bindStory,
			Tabs:   tabs,
			Label:  func(s contentapi.Story) string { return s.Title },
		}
	}
	return h
}

// Tab returns the screen for a tab name, defaulting to Articles.
func (h *StoriesHandler) Tab(name string) *Screen[contentapi.Story] {
	if s, ok := h.tabs[name]; ok {
		return s
	}
	return h.tabs["Articles"]
}

func (h *StoriesHandler) HandleList(c echo.Context) error {
	return h.Tab(c.QueryParam("tab")).renderList(c, http.StatusOK, nil)
}

func (h *StoriesHandler) Register(g *echo.Group) {
	for _, t := range storyTabs {
		h.tabs[t.tab].Register(g)
	}
}

func storyFields(_ context.Context, s contentapi.Story) []views.Field {
	return []views.Field{
		{Name: "title", Label: "Title", Kind: views.FieldText, Value: s.Title, Required: true},
		{Name: "subTitle", Label: "Subtitle", Kind: views.FieldText, Value: s.SubTitle},
		{Name: "excerpt", Label: "Excerpt", Kind: views.FieldTextarea, Value: s.Excerpt},
		{Name: "story", Label: "Story", Kind: views.FieldTextarea, Value: s.Story},
		{Name: "quote_person", Label: "Quote by", Kind: views.FieldText, Value: s.QuotePerson},
		{Name: "quote_text", Label: "Quote", Kind: views.FieldTextarea, Value: s.QuoteText},
	}
}

func bindStory(c echo.Context, s contentapi.Story) (contentapi.Story, error) {
	s.Title = formText(c, "title")
	s.SubTitle = formText(c, "subTitle")
	s.Excerpt = formText(c, "excerpt")
	s.Story = formText(c, "story")
	s.QuotePerson = formText(c, "quote_person")
	s.QuoteText = formText(c, "quote_text")
	return s, required(s.Title, "Title")
}
