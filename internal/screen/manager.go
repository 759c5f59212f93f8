package screen

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/media"
)

var (
	ErrDeclined      = errors.New("operator declined")
	ErrUpload        = errors.New("upload aborted the submit")
	ErrImageRequired = errors.New("an image is required")
	ErrInvalid       = errors.New("invalid form")
)

// Store is the CRUD surface of one content API entity.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, rec T) (T, error)
	Update(ctx context.Context, id contentapi.ID, rec T) (T, error)
	Delete(ctx context.Context, id contentapi.ID) error
}

// Imaged records carry one image slot that a form upload fills in.
type Imaged[T any] interface {
	ImageURL() string
	WithImage(url string) T
}

// Validator lets a record reject a submit before anything is sent.
type Validator interface {
	Validate() error
}

// Manager drives one entity screen: list on mount, create or update on
// submit (uploading the form image first), delete after confirmation.
// It keeps no list state between calls; handlers re-list after every
// mutation by redirecting back to the screen.
type Manager[T any] struct {
	name     string
	store    Store[T]
	uploader media.Uploader

	// ImageRequired rejects a submit that has neither a new file nor an
	// existing image URL.
	ImageRequired bool
	// DeleteWarning is appended to the delete prompt.
	DeleteWarning string
}

func NewManager[T any](name string, store Store[T], uploader media.Uploader) *Manager[T] {
	return &Manager[T]{name: name, store: store, uploader: uploader}
}

func (m *Manager[T]) Name() string { return m.name }

// DeletePrompt is the question put before a delete.
func (m *Manager[T]) DeletePrompt() string {
	if m.DeleteWarning != "" {
		return DeletePrompt(m.name) + " " + m.DeleteWarning
	}
	return DeletePrompt(m.name)
}

func DeletePrompt(name string) string {
	return fmt.Sprintf("Are you sure you want to delete this %s?", strings.ToLower(name))
}

// Load lists the records. On failure it returns an empty list together
// with the error so the screen renders empty and shows a notice.
func (m *Manager[T]) Load(ctx context.Context) ([]T, error) {
	items, err := m.store.List(ctx)
	if err != nil {
		slog.Error("failed to load records", "screen", m.name, "error", err)
		return []T{}, fmt.Errorf("load %s: %w", strings.ToLower(m.name), err)
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

// Submit stores rec, creating it when id is empty. When file is non-nil it
// is uploaded first and the returned URL replaces rec's image; an upload
// failure aborts the submit before the content API is called, and the
// unchanged rec is returned so the form can be shown again.
func (m *Manager[T]) Submit(ctx context.Context, id contentapi.ID, rec T, file *media.File) (T, error) {
	if v, ok := any(rec).(Validator); ok {
		if err := v.Validate(); err != nil {
			return rec, fmt.Errorf("%w: %v", ErrInvalid, err)
		}
	}

	imaged, hasImage := any(rec).(Imaged[T])
	if file != nil {
		if !hasImage {
			return rec, fmt.Errorf("%s records do not take an image", m.name)
		}
		if m.uploader == nil {
			return rec, fmt.Errorf("%w: no media host configured", ErrUpload)
		}
		url, err := m.uploader.Upload(ctx, *file)
		if err != nil {
			slog.Error("image upload failed", "screen", m.name, "file", file.Name, "error", err)
			return rec, fmt.Errorf("%w: %w", ErrUpload, err)
		}
		rec = imaged.WithImage(url)
	} else if m.ImageRequired && hasImage && imaged.ImageURL() == "" {
		return rec, ErrImageRequired
	}

	var (
		saved T
		err   error
	)
	if id == "" {
		saved, err = m.store.Create(ctx, rec)
	} else {
		saved, err = m.store.Update(ctx, id, rec)
	}
	if err != nil {
		slog.Error("failed to save record", "screen", m.name, "id", id, "error", err)
		return rec, fmt.Errorf("save %s: %w", strings.ToLower(m.name), err)
	}
	return saved, nil
}

// Remove deletes the record after the operator confirms.
func (m *Manager[T]) Remove(ctx context.Context, id contentapi.ID, confirm Confirmer) error {
	if !confirm.Confirm(m.DeletePrompt()) {
		return ErrDeclined
	}
	if err := m.store.Delete(ctx, id); err != nil {
		slog.Error("failed to delete record", "screen", m.name, "id", id, "error", err)
		return fmt.Errorf("delete %s: %w", strings.ToLower(m.name), err)
	}
	return nil
}

// Find returns the record with the given id from a loaded list.
func Find[T interface{ RecordID() contentapi.ID }](items []T, id contentapi.ID) (T, bool) {
	for _, it := range items {
		if it.RecordID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}
