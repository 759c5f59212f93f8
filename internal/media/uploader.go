package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	// decoders registered for Sniff
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

var (
	ErrUploadFailed = errors.New("image upload failed")
	ErrNotImage     = errors.New("file is not a supported image")
	ErrTooLarge     = errors.New("file exceeds the upload size limit")
	ErrEmptyFile    = errors.New("file is empty")
)

// File is a local file selected in a form, held in memory until it is
// pushed to the media host.
type File struct {
	Name        string
	ContentType string
	Data        []byte

	format string
}

// Uploader turns a local file into a durable public URL.
type Uploader interface {
	Upload(ctx context.Context, f File) (string, error)
}

// FileFromHeader reads a multipart file header into memory. A nil header
// (no file selected) yields a nil File and no error.
func FileFromHeader(fh *multipart.FileHeader, maxSize int64) (*File, error) {
	if fh == nil || fh.Filename == "" {
		return nil, nil
	}
	if maxSize > 0 && fh.Size > maxSize {
		return nil, fmt.Errorf("%s: %w", fh.Filename, ErrTooLarge)
	}
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	return &File{
		Name:        filepath.Base(fh.Filename),
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Sniff checks that f decodes as an image and is within maxSize bytes.
// It records the detected format so uploaders can pick an extension.
func Sniff(f *File, maxSize int64) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("%s: %w", f.Name, ErrEmptyFile)
	}
	if maxSize > 0 && int64(len(f.Data)) > maxSize {
		return fmt.Errorf("%s: %w", f.Name, ErrTooLarge)
	}
	_, format, err := image.DecodeConfig(bytes.NewReader(f.Data))
	if err != nil {
		return fmt.Errorf("%s: %w", f.Name, ErrNotImage)
	}
	f.format = format
	if f.ContentType == "" || f.ContentType == "application/octet-stream" {
		f.ContentType = "image/" + format
	}
	return nil
}

// Ext returns the file extension to store the file under, preferring the
// sniffed format over the client supplied name.
func (f File) Ext() string {
	switch f.format {
	case "jpeg":
		return ".jpg"
	case "":
	default:
		return "." + f.format
	}
	if ext := strings.ToLower(filepath.Ext(f.Name)); ext != "" {
		return ext
	}
	return ".bin"
}
