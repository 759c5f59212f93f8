package service

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/corpweb/sitedesk/internal/handlers"
	"github.com/corpweb/sitedesk/storage"
	"github.com/labstack/echo/v4"
)

const (
	testAdminUser     = "editor"
	testAdminPassword = "correct-horse"
)

// newFakeContentAPI answers every list endpoint with an empty list and
// every write with a bare acknowledgement.
func newFakeContentAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/branches":
			io.WriteString(w, `{"regions":{},"totalBranches":0}`)
		case r.Method == http.MethodGet:
			_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
		default:
			io.WriteString(w, `{"message":"ok"}`)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// setupTestService creates a service over an in-memory database and a fake
// content API.
func setupTestService(t *testing.T) *Service {
	t.Helper()

	store, err := storage.NewTestStorage()
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	api := newFakeContentAPI(t)

	config := &Config{Environment: "test", Port: "8080"}
	config.Session.Secret = "service-test-secret-0123456789abc"
	config.Admin.Username = testAdminUser
	config.Admin.Password = testAdminPassword
	config.ContentAPI.URL = api.URL
	config.ContentAPI.Timeout = 5 * time.Second
	config.Media.Provider = "cloudinary"
	config.Media.MaxSize = 5 << 20
	config.Carousel.PageSize = 10
	config.Carousel.IdleTTL = time.Minute
	config.Activity.Retention = time.Hour

	return New(store, config, handlers.StubUploader{})
}

// setupTestEcho creates an Echo instance with routes registered
func setupTestEcho(t *testing.T) (*echo.Echo, *Service) {
	t.Helper()

	e := echo.New()
	svc := setupTestService(t)
	svc.RegisterRoutes(e)
	return e, svc
}

// adminRequest builds a request carrying the admin credentials.
func adminRequest(method, path string, body string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.SetBasicAuth(testAdminUser, testAdminPassword)
	return req
}
