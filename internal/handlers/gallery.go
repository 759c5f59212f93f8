package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/media"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views"
	"github.com/labstack/echo/v4"
)

const (
	galleryImagesField = "images"
	uploadConcurrency  = 4
)

// GalleryStore is the gallery endpoint with its image sub-resource.
type GalleryStore interface {
	List(ctx context.Context) ([]contentapi.Story, error)
	Images(ctx context.Context, galleryID contentapi.ID) ([]contentapi.GalleryImage, error)
	AddImage(ctx context.Context, img contentapi.GalleryImage) (contentapi.GalleryImage, error)
	DeleteImage(ctx context.Context, id contentapi.ID) error
}

// GalleryHandler manages the images inside one gallery at a time.
type GalleryHandler struct {
	*Base
	store GalleryStore
}

func NewGalleryHandler(base *Base, store GalleryStore) *GalleryHandler {
	return &GalleryHandler{Base: base, store: store}
}

func (h *GalleryHandler) Register(g *echo.Group) {
	g.POST("/stories/gallery/:id/images", h.HandleUpload)
	g.POST("/stories/gallery/images/:id/delete", h.HandleDeleteImage)
}

func (h *GalleryHandler) HandleList(c echo.Context) error {
	ctx := c.Request().Context()
	selected := contentapi.ID(c.QueryParam("gallery"))

	var notices []screen.Notice
	galleries, err := h.store.List(ctx)
	if err != nil {
		slog.Error("failed to load galleries", "error", err)
		notices = append(notices, screen.Failure("Failed to load galleries"))
	}

	v := &views.Gallery{Selected: selected.String()}
	for _, g := range galleries {
		v.Galleries = append(v.Galleries, views.Option{Value: g.ID.String(), Label: g.Title, Selected: g.ID == selected})
	}

	if selected != "" {
		g, ok := screen.Find(galleries, selected)
		if !ok && err == nil {
			notices = append(notices, screen.Warn("Gallery not found"))
			v.Selected = ""
		} else {
			v.Title = g.Title
			v.UploadURL = "/admin/stories/gallery/" + selected.String() + "/images"
			images, err := h.store.Images(ctx, selected)
			if err != nil {
				slog.Error("failed to load gallery images", "gallery", selected, "error", err)
				notices = append(notices, screen.Failure("Failed to load gallery images"))
				v.Empty = "Images could not be loaded."
			}
			back := "/admin/stories/gallery?gallery=" + selected.String()
			for _, img := range images {
				v.Images = append(v.Images, views.GalleryImage{
					ID:           img.ID.String(),
					URL:          img.Image,
					DeleteURL:    withQuery("/admin/stories/gallery/images/"+img.ID.String()+"/delete", returnToField, back),
					DeletePrompt: screen.DeletePrompt("Image"),
				})
			}
		}
	}

	return Render(c, views.Page("gallery", h.page(c, "Gallery", v, notices...)))
}

// HandleUpload pushes every selected file to the media host concurrently
// and creates one gallery image per file that made it.
func (h *GalleryHandler) HandleUpload(c echo.Context) error {
	ctx := c.Request().Context()
	galleryID := contentapi.ID(c.Param("id"))
	back := "/admin/stories/gallery?gallery=" + galleryID.String()

	files, skipped, err := formImages(c, galleryImagesField, h.maxUpload)
	if err != nil || len(files) == 0 {
		h.flash(c, screen.Warn("Select at least one image to upload"))
		return c.Redirect(http.StatusSeeOther, back)
	}

	urls, err := media.UploadAll(ctx, h.uploader, files, uploadConcurrency)
	if errors.Is(err, media.ErrNoneUploaded) {
		h.flash(c, screen.Failure("Failed to upload images"))
		return c.Redirect(http.StatusSeeOther, back)
	}

	added := 0
	for _, url := range urls {
		img, err := h.store.AddImage(ctx, contentapi.GalleryImage{GalleryID: galleryID, Image: url})
		if err != nil {
			slog.Error("failed to add gallery image", "gallery", galleryID, "url", url, "error", err)
			continue
		}
		added++
		h.record(c, "gallery", activity.ActionUpload, img.ID, url)
	}

	total := len(files) + skipped
	switch {
	case added == 0:
		h.flash(c, screen.Failure("Failed to add images to the gallery"))
	case added < total:
		h.flash(c, screen.Warn("%d of %d images uploaded", added, total))
	default:
		h.flash(c, screen.Success("Images uploaded successfully"))
	}
	return c.Redirect(http.StatusSeeOther, back)
}

func (h *GalleryHandler) HandleDeleteImage(c echo.Context) error {
	id := contentapi.ID(c.Param("id"))
	ans := answer(c)

	if !ans.Confirm(screen.DeletePrompt("Image")) {
		h.flash(c, screen.Info("Delete cancelled"))
		return redirectBack(c, "/admin/stories/gallery")
	}
	if err := h.store.DeleteImage(c.Request().Context(), id); err != nil {
		slog.Error("failed to delete gallery image", "id", id, "error", err)
		h.flash(c, screen.FailureFor("delete", "Image", err))
		return redirectBack(c, "/admin/stories/gallery")
	}
	h.record(c, "gallery", activity.ActionDelete, id, "")
	h.flash(c, screen.Success("Image deleted successfully"))
	return redirectBack(c, "/admin/stories/gallery")
}
