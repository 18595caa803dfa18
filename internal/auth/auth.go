// Package auth resolves who is calling: it authenticates against the
// Users sheet and holds server-side sessions keyed by an opaque cookie.
package auth

import (
	"context"
	"errors"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleHead  Role = "head"
	RoleStaff Role = "staff"
)

// WildcardDepartment is the legacy "see everything" department value.
// It is honored only for admins; a non-admin row carrying it does not
// widen that user's visibility.
const WildcardDepartment = "ALL"

// ParseRole normalizes a role cell. Unknown or empty roles fall back to
// staff, the least-privileged role.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin":
		return RoleAdmin
	case "head":
		return RoleHead
	default:
		return RoleStaff
	}
}

// Session is the server-held state behind one cookie.
type Session struct {
	Email      string    `json:"email"`
	Department string    `json:"department"`
	Role       Role      `json:"role"`
	Personal   string    `json:"personal,omitempty"`
	CreatedAt  time.Time `json:"-"`
}

func (s Session) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// User is one row of the Users sheet.
type User struct {
	Email      string
	Password   string
	Department string
	Role       Role
	Personal   string
}

// LoginDTO is the login request payload.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (dto LoginDTO) Validate() error {
	if strings.TrimSpace(dto.Email) == "" {
		return errors.New("email is required")
	}
	if dto.Password == "" {
		return errors.New("password is required")
	}
	return nil
}

type sessionCtxKey struct{}

func ContextWithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionCtxKey{}, s)
}

func SessionFromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionCtxKey{}).(Session)
	return s, ok
}
