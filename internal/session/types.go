package session

import "time"

// Operator is the signed-in admin as remembered by the session cookie.
// ID is fresh per sign-in and keys the operator's screen state.
type Operator struct {
	ID       string
	Username string
	Since    time.Time
}
