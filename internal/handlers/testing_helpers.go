package handlers

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"

	"github.com/corpweb/sitedesk/internal/activity"
	"github.com/corpweb/sitedesk/internal/media"
	"github.com/corpweb/sitedesk/internal/middleware"
	"github.com/corpweb/sitedesk/internal/nav"
	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/corpweb/sitedesk/internal/session"
	"github.com/corpweb/sitedesk/storage"
	"github.com/labstack/echo/v4"
)

const testSessionSecret = "handlers-test-secret-0123456789ab"

// NewTestContext creates an echo context for a form post (or a GET when
// form is nil).
func NewTestContext(method, target string, form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// TestUpload is one file of a multipart test request.
type TestUpload struct {
	Field string
	Name  string
	Data  []byte
}

// NewMultipartContext creates an echo context for a multipart form post.
func NewMultipartContext(target string, fields url.Values, files ...TestUpload) (echo.Context, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, values := range fields {
		for _, v := range values {
			_ = w.WriteField(name, v)
		}
	}
	for _, f := range files {
		part, err := w.CreateFormFile(f.Field, f.Name)
		if err != nil {
			panic("create form file: " + err.Error())
		}
		_, _ = io.Copy(part, bytes.NewReader(f.Data))
	}
	_ = w.Close()

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := httptest.NewRecorder()
	return echo.New().NewContext(req, rec), rec
}

// SetTestOperator signs the context in as an operator with a fixed session id.
func SetTestOperator(c echo.Context, id, username string) {
	c.Set(middleware.OperatorKey, &session.Operator{ID: id, Username: username})
}

// NewTestBase builds a Base over a fresh session manager and the bundled
// menu. recorder and uploader may be nil.
func NewTestBase(recorder ActivityRecorder, uploader media.Uploader) (*Base, *session.Manager) {
	sessions := session.NewManager(testSessionSecret, false)
	return NewBase(sessions, recorder, nav.MustLoad(), uploader, 5<<20), sessions
}

// FlashNotices reads the notices a response queued in its session cookie.
func FlashNotices(sessions *session.Manager, rec *httptest.ResponseRecorder) []screen.Notice {
	latest := map[string]*http.Cookie{}
	for _, ck := range rec.Result().Cookies() {
		latest[ck.Name] = ck
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, ck := range latest {
		req.AddCookie(ck)
	}
	c := echo.New().NewContext(req, httptest.NewRecorder())
	notices, _ := sessions.Notices(c)
	return notices
}

// NewTestActivityLog creates an activity log over an in-memory database.
func NewTestActivityLog() (*activity.Log, *sql.DB, func()) {
	database, queries, cleanup, err := storage.NewTestDB()
	if err != nil {
		panic("failed to create test database: " + err.Error())
	}
	return activity.NewLog(queries), database, cleanup
}

// StubUploader hands out predictable URLs, failing for the listed names.
type StubUploader struct {
	Fail map[string]bool
}

func (u StubUploader) Upload(_ context.Context, f media.File) (string, error) {
	if u.Fail[f.Name] {
		return "", media.ErrUploadFailed
	}
	return "https://cdn.example/" + f.Name, nil
}
