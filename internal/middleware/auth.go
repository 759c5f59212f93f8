package middleware

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

const (
	// OperatorKey is the echo context key holding the *session.Operator.
	OperatorKey = "operator"
	// UsernameKey is the echo context key holding the authenticated username.
	UsernameKey = "username"
)

// BasicAuth guards the console with a single configured account.
func BasicAuth(username, password string) echo.MiddlewareFunc {
	return echomw.BasicAuthWithConfig(echomw.BasicAuthConfig{
		Realm: "sitedesk",
		Validator: func(user, pass string, c echo.Context) (bool, error) {
			userOK := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
			passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
			if userOK && passOK {
				c.Set(UsernameKey, user)
				return true, nil
			}
			return false, nil
		},
	})
}
