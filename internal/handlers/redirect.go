package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// returnToField carries the list URL (with its filters) through a form
// post so the operator lands back where they were.
const returnToField = "return_to"

func sanitizeReturnTo(path string) (string, bool) {
	if path == "" {
		return "", false
	}

	if strings.ContainsAny(path, "\r\n\\") {
		return "", false
	}

	if strings.HasPrefix(path, "//") || strings.Contains(path, "://") {
		return "", false
	}

	base := path
	if idx := strings.IndexAny(path, "?#"); idx != -1 {
		base = path[:idx]
	}

	if base != "/admin" && !strings.HasPrefix(base, "/admin/") {
		return "", false
	}

	if strings.Contains(base, "/../") || strings.HasSuffix(base, "/..") {
		return "", false
	}

	return path, true
}

// redirectBack answers a form post with a 303 to the return_to field, or
// to fallback when it is missing or points outside the console.
func redirectBack(c echo.Context, fallback string) error {
	if target, ok := sanitizeReturnTo(c.FormValue(returnToField)); ok {
		return c.Redirect(http.StatusSeeOther, target)
	}
	return c.Redirect(http.StatusSeeOther, fallback)
}

// listURL is the current URL without the parameters that open the form.
func listURL(c echo.Context) string {
	u := *c.Request().URL
	q := u.Query()
	for _, k := range []string{"new", "edit", "edit_sub"} {
		q.Del(k)
	}
	u.RawQuery = q.Encode()
	u.Scheme, u.Host = "", ""
	return u.RequestURI()
}

// withQuery returns base with key set to value.
func withQuery(base, key, value string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set(key, value)
	u.RawQuery = q.Encode()
	return u.String()
}
