package media

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

var ErrNoneUploaded = errors.New("no images were uploaded successfully")

// UploadAll uploads files concurrently, at most limit at a time. Files that
// fail are logged and dropped; the returned URLs keep the input order of
// the files that succeeded. It fails only when nothing was uploaded.
func UploadAll(ctx context.Context, up Uploader, files []File, limit int) ([]string, error) {
	if len(files) == 0 {
		return nil, ErrNoneUploaded
	}
	if limit <= 0 {
		limit = 4
	}

	urls := make([]string, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, f := range files {
		g.Go(func() error {
			url, err := up.Upload(gctx, f)
			if err != nil {
				slog.Warn("batch upload dropped a file", "file", f.Name, "error", err)
				return nil
			}
			urls[i] = url
			return nil
		})
	}
	_ = g.Wait()

	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u != "" {
			out = append(out, u)
		}
	}
	if len(out) == 0 {
		return nil, ErrNoneUploaded
	}
	return out, nil
}
