package auth

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	"github.com/mazta/kpi-dashboard/internal"
	"github.com/mazta/kpi-dashboard/internal/sheets"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock repository serving the Users sheet
type mockUserRepository struct {
	records       []sheets.Record
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.DefaultCost)

	return &mockUserRepository{
		records: []sheets.Record{
			{
				"Email":                  "admin@example.com",
				"Password":               string(hashed),
				sheets.HeaderDepartment:  "ALL",
				"Role":                   "admin",
				sheets.HeaderPersonal:    "Admin",
			},
			{
				"Email":                  "head.finance@example.com",
				"Password":               string(hashed),
				sheets.HeaderDepartment:  "Finance",
				"Role":                   "head",
				sheets.HeaderPersonal:    "Siti",
			},
			{
				"Email":                  "legacy@example.com",
				"Password":               "plain_secret",
				sheets.HeaderDepartment:  "HRD",
				"Role":                   "staff",
				sheets.HeaderPersonal:    "Budi",
			},
		},
	}
}

func (m *mockUserRepository) Records(ctx context.Context, sheetName string) ([]sheets.Record, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	return m.records, nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service  *Service
		mockRepo *mockUserRepository
		store    *Store
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		store = NewStore(24 * time.Hour)
		service = NewService(mockRepo, store, slog.New(slog.NewTextHandler(io.Discard, nil)))
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.Context("when credentials are valid", func() {
			ginkgo.It("should return a session and a resolvable token", func() {
				// Given
				dto := LoginDTO{Email: "head.finance@example.com", Password: "correct_password"}

				// When
				session, token, err := service.Authenticate(context.Background(), dto)

				// Then
				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(token).ToNot(gomega.BeEmpty())
				gomega.Expect(session.Role).To(gomega.Equal(RoleHead))
				gomega.Expect(session.Department).To(gomega.Equal("Finance"))
				gomega.Expect(session.Personal).To(gomega.Equal("Siti"))

				resolved, ok := service.Resolve(token)
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(resolved.Email).To(gomega.Equal("head.finance@example.com"))
			})

			ginkgo.It("should match email case-insensitively", func() {
				dto := LoginDTO{Email: "ADMIN@example.com", Password: "correct_password"}

				session, _, err := service.Authenticate(context.Background(), dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(session.Role).To(gomega.Equal(RoleAdmin))
			})

			ginkgo.It("should keep scanning past a duplicate email row with another password", func() {
				mockRepo.records = append([]sheets.Record{
					{
						"Email":                 "legacy@example.com",
						"Password":              "old_rotated_secret",
						sheets.HeaderDepartment: "HRD",
						"Role":                  "staff",
						sheets.HeaderPersonal:   "Budi",
					},
				}, mockRepo.records...)

				dto := LoginDTO{Email: "legacy@example.com", Password: "plain_secret"}

				session, _, err := service.Authenticate(context.Background(), dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(session.Personal).To(gomega.Equal("Budi"))
			})

			ginkgo.It("should accept a legacy plaintext password row", func() {
				dto := LoginDTO{Email: "legacy@example.com", Password: "plain_secret"}

				session, _, err := service.Authenticate(context.Background(), dto)

				gomega.Expect(err).ToNot(gomega.HaveOccurred())
				gomega.Expect(session.Role).To(gomega.Equal(RoleStaff))
			})
		})

		ginkgo.Context("when credentials are invalid", func() {
			ginkgo.It("should reject a wrong password", func() {
				dto := LoginDTO{Email: "head.finance@example.com", Password: "wrong"}

				_, _, err := service.Authenticate(context.Background(), dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should reject an unknown email", func() {
				dto := LoginDTO{Email: "nobody@example.com", Password: "correct_password"}

				_, _, err := service.Authenticate(context.Background(), dto)

				gomega.Expect(err).To(gomega.Equal(internal.ErrInvalidCredentials))
			})

			ginkgo.It("should reject an empty payload as a validation error", func() {
				_, _, err := service.Authenticate(context.Background(), LoginDTO{})

				var appErr *internal.AppError
				gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeValidation))
			})
		})

		ginkgo.Context("when the users sheet is unreachable", func() {
			ginkgo.It("should return an upstream error, not invalid credentials", func() {
				mockRepo.returnError = true
				mockRepo.errorToReturn = errors.New("connection refused")

				_, _, err := service.Authenticate(context.Background(),
					LoginDTO{Email: "admin@example.com", Password: "correct_password"})

				var appErr *internal.AppError
				gomega.Expect(errors.As(err, &appErr)).To(gomega.BeTrue())
				gomega.Expect(appErr.Type).To(gomega.Equal(internal.ErrorTypeUpstream))
			})
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should make the token unresolvable", func() {
			_, token, err := service.Authenticate(context.Background(),
				LoginDTO{Email: "admin@example.com", Password: "correct_password"})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			service.Logout(token)

			_, ok := service.Resolve(token)
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})
})

var _ = ginkgo.Describe("Store", func() {
	ginkgo.It("should drop sessions past their TTL", func() {
		store := NewStore(time.Hour)
		current := time.Now()
		store.now = func() time.Time { return current }

		token := store.Create(Session{Email: "a@b.c"})

		_, ok := store.Get(token)
		gomega.Expect(ok).To(gomega.BeTrue())

		current = current.Add(time.Hour + time.Minute)

		_, ok = store.Get(token)
		gomega.Expect(ok).To(gomega.BeFalse())
		gomega.Expect(store.Count()).To(gomega.BeZero())
	})

	ginkgo.It("should prune expired sessions while counting", func() {
		store := NewStore(time.Hour)
		current := time.Now()
		store.now = func() time.Time { return current }

		store.Create(Session{Email: "a@b.c"})
		store.Create(Session{Email: "d@e.f"})
		gomega.Expect(store.Count()).To(gomega.Equal(2))

		current = current.Add(2 * time.Hour)
		gomega.Expect(store.Count()).To(gomega.BeZero())
	})
})
