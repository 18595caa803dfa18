package auth

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/sheets"
)

// Repository reads user rows from the spreadsheet store.
type Repository interface {
	Records(ctx context.Context, sheetName string) ([]sheets.Record, error)
}

const usersSheet = "Users"

type Service struct {
	repo   Repository
	store  *Store
	logger *slog.Logger
}

func NewService(repo Repository, store *Store, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// Authenticate checks credentials against the Users sheet and, on
// success, creates a session and returns it with its token.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (Session, string, error) {
	if err := dto.Validate(); err != nil {
		return Session{}, "", internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	users, err := s.fetchUsers(ctx)
	if err != nil {
		s.logger.Error("failed to load users sheet", "error", err)
		return Session{}, "", internal.NewUpstreamError("login is temporarily unavailable", err)
	}

	for _, user := range users {
		// Users is a hand-maintained sheet that can carry duplicate
		// email rows; keep scanning past a non-matching password so any
		// row with the right credentials can log in.
		if !sheets.EqualFold(user.Email, dto.Email) || !passwordMatches(user.Password, dto.Password) {
			continue
		}

		if user.Role != RoleAdmin && strings.EqualFold(user.Department, WildcardDepartment) {
			// Wildcard visibility is an admin privilege; a non-admin row
			// carrying ALL keeps the value but gains no extra scope.
			s.logger.Warn("non-admin user has wildcard department",
				"email", user.Email, "role", user.Role)
		}

		session := Session{
			Email:      user.Email,
			Department: user.Department,
			Role:       user.Role,
			Personal:   user.Personal,
		}
		token := s.store.Create(session)

		s.logger.Info("login successful",
			"email", user.Email,
			"role", user.Role,
			"department", user.Department)
		return session, token, nil
	}

	s.logger.Warn("login failed", "email", dto.Email)
	return Session{}, "", internal.ErrInvalidCredentials
}

// Resolve returns the live session behind a token.
func (s *Service) Resolve(token string) (Session, bool) {
	return s.store.Get(token)
}

// Logout destroys the session behind a token.
func (s *Service) Logout(token string) {
	s.store.Delete(token)
}

// ActiveSessions reports the number of live sessions.
func (s *Service) ActiveSessions() int {
	return s.store.Count()
}

func (s *Service) fetchUsers(ctx context.Context) ([]User, error) {
	records, err := s.repo.Records(ctx, usersSheet)
	if err != nil {
		return nil, err
	}

	users := make([]User, 0, len(records))
	for _, rec := range records {
		users = append(users, User{
			Email:      rec.Field("Email"),
			Password:   rec.Field("Password"),
			Department: strings.TrimSpace(rec.Department()),
			Role:       ParseRole(rec.Field("Role")),
			Personal:   strings.TrimSpace(rec.Personal()),
		})
	}
	return users, nil
}

// passwordMatches supports bcrypt hashes in the Password column with a
// constant-time fallback for legacy plaintext rows.
func passwordMatches(stored, supplied string) bool {
	if strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$") || strings.HasPrefix(stored, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(supplied)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
