package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicRoutes(t *testing.T) {
	e, _ := setupTestEcho(t)

	tests := []struct {
		name       string
		path       string
		wantStatus int
		location   string
	}{
		{"Health check", "/health", http.StatusOK, ""},
		{"Root", "/", http.StatusFound, "/admin"},
		{"Legacy home", "/home", http.StatusMovedPermanently, "/admin/home"},
		{"Legacy awards", "/awards", http.StatusMovedPermanently, "/admin/about/awards"},
		{"Legacy branches", "/settings/branches", http.StatusMovedPermanently, "/admin/settings/branches"},
		{"Legacy gallery", "/stories/gallery", http.StatusMovedPermanently, "/admin/stories/gallery"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.location != "" {
				assert.Equal(t, tt.location, rec.Header().Get("Location"))
			}
		})
	}
}

func TestHealth(t *testing.T) {
	e, _ := setupTestEcho(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "connected", body["database"])
	assert.Equal(t, float64(1), body["schema"])
}

func TestAdminRoutesNeedCredentials(t *testing.T) {
	e, _ := setupTestEcho(t)

	for _, path := range []string{"/admin", "/admin/home", "/admin/products", "/admin/static/admin.js"} {
		t.Run(path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.SetBasicAuth(testAdminUser, "wrong")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminScreens(t *testing.T) {
	e, _ := setupTestEcho(t)

	screens := []struct {
		path  string
		title string
	}{
		{"/admin", "Dashboard"},
		{"/admin/home", "Home"},
		{"/admin/products", "Products"},
		{"/admin/categories", "Categories"},
		{"/admin/about/teams", "Team"},
		{"/admin/about/awards", "Awards"},
		{"/admin/careers", "Careers"},
		{"/admin/notices", "Notices"},
		{"/admin/settings/branches", "Branches"},
		{"/admin/stories?tab=Blogs", "Stories"},
		{"/admin/stories/gallery", "Gallery"},
	}

	for _, tt := range screens {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, adminRequest(http.MethodGet, tt.path, ""))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.title)
			assert.NotEmpty(t, rec.Header().Values("Set-Cookie"), "operator session cookie")
		})
	}
}

func TestAdminStaticAssets(t *testing.T) {
	e, _ := setupTestEcho(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, adminRequest(http.MethodGet, "/admin/static/admin.js", ""))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "data-reorder-url")
}

func TestDashboardTallies(t *testing.T) {
	e, _ := setupTestEcho(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, adminRequest(http.MethodGet, "/admin", ""))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	for _, label := range []string{"Carousel items", "Products", "Team members", "Open roles", "Notices", "Branches", "Articles", "Awards"} {
		assert.Contains(t, body, `<div class="text-sm text-gray-500">`+label+`</div>`)
	}
	assert.NotContains(t, body, "Some totals could not be loaded")
}

func TestReorderWithoutOpenScreenIsGone(t *testing.T) {
	e, _ := setupTestEcho(t)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, adminRequest(http.MethodPost, "/admin/home/reorder", "active=1&over=2"))
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestCreateRecordsActivity(t *testing.T) {
	e, svc := setupTestEcho(t)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, adminRequest(http.MethodPost, "/admin/notices", "title=Office+closed&category=news"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/notices", rec.Header().Get("Location"))

	recent, err := svc.activity.Recent(t.Context(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, testAdminUser, recent[0].Operator)
	assert.Equal(t, "notices", recent[0].Screen)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MEDIA_PROVIDER", "s3")
	t.Setenv("CAROUSEL_PAGE_SIZE", "25")
	t.Setenv("CONTENT_API_TIMEOUT", "3s")
	t.Setenv("UPLOAD_MAX_SIZE", "not-a-number")

	config, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3", config.Media.Provider)
	assert.Equal(t, 25, config.Carousel.PageSize)
	assert.Equal(t, "3s", config.ContentAPI.Timeout.String())
	assert.Equal(t, int64(10<<20), config.Media.MaxSize)

	t.Setenv("MEDIA_PROVIDER", "ftp")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("MEDIA_PROVIDER", "cloudinary")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ADMIN_PASSWORD", "")
	_, err = LoadConfig()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")
}
