package domain

import (
	"context"
	"time"
)

// Session tracks the authentication state of one caller. Sessions live
// outside the employee database; they are created empty and filled in
// field by field as partial credentials arrive.
type Session struct {
	ID           string    `json:"id"`
	EmployeeID   *string   `json:"employee_id"`   // normalized 9-digit form
	EmployeeName *string   `json:"employee_name"` // as submitted by the caller
	IsCISO       bool      `json:"is_ciso"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
}

// IsAuthenticated reports whether the session is fully authenticated:
// both the employee ID and the employee name are set. The auth service
// only leaves both set after the pair verified against the record store.
func (s *Session) IsAuthenticated() bool {
	return s.EmployeeID != nil && s.EmployeeName != nil
}

// MissingFields lists the credential fields still required before the
// session can be verified.
func (s *Session) MissingFields() []string {
	missing := []string{}
	if s.EmployeeID == nil {
		missing = append(missing, "employee_id")
	}
	if s.EmployeeName == nil {
		missing = append(missing, "employee_name")
	}
	return missing
}

// SessionStore defines keyed storage of sessions with idle expiry.
// Get must behave identically for an expired and a missing session:
// both return ErrNotFound. Update applies the mutation under the
// store's own synchronization and refreshes last-activity.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Update(ctx context.Context, id string, mutate func(*Session)) (*Session, error)
	Delete(ctx context.Context, id string) error
}
