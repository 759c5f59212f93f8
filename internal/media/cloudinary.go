package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"
)

const cloudinaryBaseURL = "https://api.cloudinary.com/v1_1"

// CloudinaryUploader posts files to an unsigned Cloudinary upload preset.
type CloudinaryUploader struct {
	endpoint   string
	preset     string
	maxSize    int64
	httpClient *http.Client
}

func NewCloudinaryUploader(cloud, preset string, maxSize int64) *CloudinaryUploader {
	return &CloudinaryUploader{
		endpoint: fmt.Sprintf("%s/%s/image/upload", cloudinaryBaseURL, cloud),
		preset:   preset,
		maxSize:  maxSize,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// WithEndpoint points the uploader at a different upload URL.
func (u *CloudinaryUploader) WithEndpoint(endpoint string) *CloudinaryUploader {
	u.endpoint = endpoint
	return u
}

func (u *CloudinaryUploader) Upload(ctx context.Context, f File) (string, error) {
	if err := Sniff(&f, u.maxSize); err != nil {
		return "", err
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", f.Name)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(f.Data); err != nil {
		return "", fmt.Errorf("write form file: %w", err)
	}
	if err := w.WriteField("upload_preset", u.preset); err != nil {
		return "", fmt.Errorf("write preset: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("close multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUploadFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		slog.Error("media host rejected upload", "status", resp.StatusCode, "file", f.Name)
		return "", fmt.Errorf("%w: status %d", ErrUploadFailed, resp.StatusCode)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUploadFailed, err)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("%w: response carried no secure_url", ErrUploadFailed)
	}

	slog.Info("uploaded image", "file", f.Name, "url", result.SecureURL)
	return result.SecureURL, nil
}
