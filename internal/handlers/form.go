package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/corpweb/sitedesk/internal/contentapi"
	"github.com/corpweb/sitedesk/internal/media"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/views/helpers"
	"github.com/labstack/echo/v4"
)

const (
	imageField        = "image"
	currentImageField = "current_image"
	confirmField      = "confirm"
)

func formText(c echo.Context, name string) string {
	return strings.TrimSpace(c.FormValue(name))
}

// formList reads a one-item-per-line textarea, dropping blank lines.
func formList(c echo.Context, name string) contentapi.StringList {
	out := contentapi.StringList{}
	for _, line := range strings.Split(c.FormValue(name), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func listValue(l []string) string {
	return strings.Join(l, "\n")
}

func formInt(c echo.Context, name string) (int, error) {
	v := formText(c, name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a whole number", screen.ErrInvalid, name)
	}
	return n, nil
}

func required(value, label string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", screen.ErrInvalid, label)
	}
	return nil
}

// formImage reads the optional image file of a form. An unreadable or
// oversize file aborts the submit the same way a failed upload does.
func formImage(c echo.Context, maxSize int64) (*media.File, error) {
	fh, err := c.FormFile(imageField)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", screen.ErrUpload, err)
	}
	f, err := media.FileFromHeader(fh, maxSize)
	if errors.Is(err, media.ErrTooLarge) {
		return nil, fmt.Errorf("%w: %w, limit is %s", screen.ErrUpload, err, helpers.Bytes(maxSize))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", screen.ErrUpload, err)
	}
	return f, nil
}

// formImages reads every file of a multi-file input. Files that cannot be
// read are skipped and counted.
func formImages(c echo.Context, name string, maxSize int64) ([]media.File, int, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, 0, err
	}
	var (
		files   []media.File
		skipped int
	)
	for _, fh := range form.File[name] {
		f, err := media.FileFromHeader(fh, maxSize)
		if err != nil || f == nil {
			skipped++
			continue
		}
		files = append(files, *f)
	}
	return files, skipped, nil
}

// answer is the operator's reply to a confirmation the page script put.
func answer(c echo.Context) *screen.Answer {
	return &screen.Answer{Yes: c.FormValue(confirmField) == "yes"}
}
