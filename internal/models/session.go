// internal/models/session.go
package models

import (
	"context"
	"time"
)

// Roles a session can carry. The product has two modes, recruiter and
// candidate, and some operations are only meaningful for one of them.
const (
	RoleRecruiter = "recruiter"
	RoleCandidate = "candidate"
)

// Session is the explicit authenticated-request context. Whatever operation
// needs the caller's identity receives a Session through its job variables;
// there is no process-wide "current user" state anywhere.
type Session struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Role         string    `json:"role"`
	Token        string    `json:"token"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
	IsActive     bool      `json:"isActive"`
}

// IsExpired checks if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// UpdateActivity updates the last activity timestamp.
func (s *Session) UpdateActivity() {
	s.LastActivity = time.Now()
}

// SessionStore defines session persistence. The Redis implementation lives
// with the auth workers.
type SessionStore interface {
	Create(ctx context.Context, session *Session) error
	FindByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, userID, sessionID string) error
	DeleteAllForUser(ctx context.Context, userID string) (int, error)
}
