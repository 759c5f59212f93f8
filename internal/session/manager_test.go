package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTrip runs fn in a request carrying cookies and returns the cookies
// the response set, merged over the ones sent.
func roundTrip(t *testing.T, cookies []*http.Cookie, fn func(c echo.Context)) []*http.Cookie {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	fn(e.NewContext(req, rec))

	set := rec.Result().Cookies()
	if len(set) == 0 {
		return cookies
	}
	return set
}

func TestEnsure_KeepsOperatorAcrossRequests(t *testing.T) {
	m := NewManager("test-secret-test-secret-test-sec", false)

	var first *Operator
	cookies := roundTrip(t, nil, func(c echo.Context) {
		op, err := m.Ensure(c, "editor")
		require.NoError(t, err)
		first = op
	})
	require.NotEmpty(t, cookies)
	assert.Len(t, first.ID, 36)

	roundTrip(t, cookies, func(c echo.Context) {
		op, err := m.Ensure(c, "editor")
		require.NoError(t, err)
		assert.Equal(t, first.ID, op.ID)

		got, err := m.Operator(c)
		require.NoError(t, err)
		assert.Equal(t, "editor", got.Username)
	})

	roundTrip(t, cookies, func(c echo.Context) {
		op, err := m.Ensure(c, "someone-else")
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, op.ID)
	})
}

func TestOperator_NoSession(t *testing.T) {
	m := NewManager("test-secret-test-secret-test-sec", false)
	roundTrip(t, nil, func(c echo.Context) {
		_, err := m.Operator(c)
		assert.ErrorIs(t, err, ErrNoSession)
	})
}

func TestNotices_PopOnce(t *testing.T) {
	m := NewManager("test-secret-test-secret-test-sec", false)

	cookies := roundTrip(t, nil, func(c echo.Context) {
		require.NoError(t, m.AddNotice(c, screen.Success("Award created successfully")))
	})
	cookies = roundTrip(t, cookies, func(c echo.Context) {
		require.NoError(t, m.AddNotice(c, screen.Failure("Failed to delete award")))
	})

	cookies = roundTrip(t, cookies, func(c echo.Context) {
		notices, err := m.Notices(c)
		require.NoError(t, err)
		assert.Equal(t, []screen.Notice{
			{Level: screen.LevelSuccess, Text: "Award created successfully"},
			{Level: screen.LevelError, Text: "Failed to delete award"},
		}, notices)
	})

	roundTrip(t, cookies, func(c echo.Context) {
		notices, err := m.Notices(c)
		require.NoError(t, err)
		assert.Empty(t, notices)
	})
}

func TestDestroy(t *testing.T) {
	m := NewManager("test-secret-test-secret-test-sec", false)
	cookies := roundTrip(t, nil, func(c echo.Context) {
		_, err := m.Ensure(c, "editor")
		require.NoError(t, err)
	})
	cookies = roundTrip(t, cookies, func(c echo.Context) {
		require.NoError(t, m.Destroy(c))
	})
	roundTrip(t, cookies, func(c echo.Context) {
		_, err := m.Operator(c)
		assert.Error(t, err)
	})
}
