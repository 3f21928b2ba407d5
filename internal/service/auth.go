package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/seclearn/trainquery/internal/domain"
)

// AuthService manages sessions and credential verification. Credentials
// are an employee ID plus name, verified against the record store; they
// may arrive one field at a time across requests.
type AuthService struct {
	sessions domain.SessionStore
	training *TrainingService
	cisoID   string // normalized 9-digit privileged identity
}

// NewAuthService creates a new AuthService. cisoID is the single
// employee ID granted company-wide access, in its zero-padded form.
func NewAuthService(sessions domain.SessionStore, training *TrainingService, cisoID string) *AuthService {
	return &AuthService{sessions: sessions, training: training, cisoID: cisoID}
}

// AuthResult describes the outcome of a credential submission.
type AuthResult struct {
	Success         bool
	Message         string
	IsAuthenticated bool
	IsCISO          bool
	MissingFields   []string
}

// OpenSession creates a new empty session and returns it.
func (s *AuthService) OpenSession(ctx context.Context) (*domain.Session, error) {
	now := time.Now().UTC()
	session := &domain.Session{
		ID:           uuid.NewString(),
		CreatedAt:    now,
		LastActivity: now,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// GetSession returns the session, or ErrInvalidSession when it is
// missing or expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidSession
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return session, nil
}

// SubmitCredentials records the provided credential fields on the
// session. Once both fields are present the pair is verified against
// the record store: a match authenticates the session (and promotes it
// to CISO when the verified ID is the configured privileged identity);
// a mismatch clears both fields so the caller re-enters them.
func (s *AuthService) SubmitCredentials(ctx context.Context, sessionID string, employeeID *int64, employeeName *string) (*AuthResult, error) {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	session, err = s.sessions.Update(ctx, session.ID, func(sess *domain.Session) {
		if employeeID != nil {
			normalized := domain.NormalizeEmployeeID(*employeeID)
			sess.EmployeeID = &normalized
		}
		if employeeName != nil {
			sess.EmployeeName = employeeName
		}
	})
	if err != nil {
		return nil, fmt.Errorf("update session: %w", err)
	}

	if !session.IsAuthenticated() {
		missing := session.MissingFields()
		return &AuthResult{
			Success:       false,
			Message:       "Please provide your " + strings.Join(missing, " and "),
			MissingFields: missing,
		}, nil
	}

	emp, err := s.verify(ctx, session)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidCredentials) {
			// Reset partial state to force re-entry of both fields.
			if _, uerr := s.sessions.Update(ctx, session.ID, func(sess *domain.Session) {
				sess.EmployeeID = nil
				sess.EmployeeName = nil
			}); uerr != nil {
				return nil, fmt.Errorf("reset session: %w", uerr)
			}
			return &AuthResult{
				Success:       false,
				Message:       "Invalid credentials. Employee ID and name do not match.",
				MissingFields: []string{"employee_id", "employee_name"},
			}, nil
		}
		return nil, err
	}

	isCISO := emp.ID == s.cisoID
	if _, err := s.sessions.Update(ctx, session.ID, func(sess *domain.Session) {
		sess.IsCISO = isCISO
	}); err != nil {
		return nil, fmt.Errorf("promote session: %w", err)
	}

	msg := "Authentication successful"
	if isCISO {
		msg = "CISO authenticated successfully"
	}
	return &AuthResult{
		Success:         true,
		Message:         msg,
		IsAuthenticated: true,
		IsCISO:          isCISO,
		MissingFields:   []string{},
	}, nil
}

// verify re-checks the session's credential pair against the record
// store. The ID and name must belong to the same record.
func (s *AuthService) verify(ctx context.Context, session *domain.Session) (*domain.Employee, error) {
	emp, err := s.training.employees.GetByID(ctx, *session.EmployeeID)
	if err != nil {
		return nil, err
	}
	lower := strings.ToLower(*session.EmployeeName)
	if strings.ToLower(emp.FirstName) == lower || strings.ToLower(emp.FullName()) == lower {
		return emp, nil
	}
	return nil, domain.ErrInvalidCredentials
}

// IsAuthenticated reports whether the session exists and is fully
// authenticated.
func (s *AuthService) IsAuthenticated(ctx context.Context, sessionID string) bool {
	session, err := s.GetSession(ctx, sessionID)
	return err == nil && session.IsAuthenticated()
}

// IsCISO reports whether the session belongs to the privileged identity.
func (s *AuthService) IsCISO(ctx context.Context, sessionID string) bool {
	session, err := s.GetSession(ctx, sessionID)
	return err == nil && session.IsCISO
}

// AuthenticatedEmployeeID returns the session's verified employee ID,
// or "" when the session is not fully authenticated.
func (s *AuthService) AuthenticatedEmployeeID(ctx context.Context, sessionID string) string {
	session, err := s.GetSession(ctx, sessionID)
	if err != nil || !session.IsAuthenticated() {
		return ""
	}
	return *session.EmployeeID
}

// Logout deletes the session. Deleting an unknown session is not an error.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}
