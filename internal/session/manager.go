package session

import (
	"encoding/gob"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/corpweb/sitedesk/internal/screen"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo/v4"
)

const (
	sessionName = "sitedesk_session"
	operatorKey = "operator"
)

var ErrNoSession = errors.New("no operator in session")

// Manager manages operator sessions
type Manager struct {
	store sessions.Store
	now   func() time.Time
}

// NewManager creates a new session manager
func NewManager(secret string, secure bool) *Manager {
	gob.Register(&Operator{})

	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/admin",
		MaxAge:   86400, // 1 day
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &Manager{store: store, now: time.Now}
}

// Ensure returns the operator stored in the session, starting a new
// session when there is none or it belongs to another username.
func (m *Manager) Ensure(c echo.Context, username string) (*Operator, error) {
	sess, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		// a cookie signed with an old secret; start over
		sess, err = m.store.New(c.Request(), sessionName)
		if sess == nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
	}

	if op, ok := sess.Values[operatorKey].(*Operator); ok && op != nil && op.Username == username {
		return op, nil
	}

	op := &Operator{ID: uuid.NewString(), Username: username, Since: m.now()}
	sess.Values[operatorKey] = op
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return op, nil
}

// Operator retrieves the operator from the session
func (m *Manager) Operator(c echo.Context) (*Operator, error) {
	sess, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	op, ok := sess.Values[operatorKey].(*Operator)
	if !ok || op == nil {
		return nil, ErrNoSession
	}
	return op, nil
}

// AddNotice queues a notice for the next page the operator sees.
func (m *Manager) AddNotice(c echo.Context, n screen.Notice) error {
	sess, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}
	sess.AddFlash(n)
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Notices pops the queued notices.
func (m *Manager) Notices(c echo.Context) ([]screen.Notice, error) {
	sess, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil, nil
	}

	notices := make([]screen.Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(screen.Notice); ok {
			notices = append(notices, n)
		}
	}
	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return notices, fmt.Errorf("failed to save session: %w", err)
	}
	return notices, nil
}

// Destroy clears the session
func (m *Manager) Destroy(c echo.Context) error {
	sess, err := m.store.Get(c.Request(), sessionName)
	if err != nil {
		return fmt.Errorf("failed to get session: %w", err)
	}

	sess.Options.MaxAge = -1
	delete(sess.Values, operatorKey)

	if err := sess.Save(c.Request(), c.Response()); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
