package auth

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/mazta/kpi-dashboard/internal"
)

func testSessionConfig() internal.SessionConfig {
	return internal.SessionConfig{
		CookieName: "kpi_session",
		TTL:        24 * time.Hour,
	}
}

var _ = ginkgo.Describe("AuthHandler", func() {
	var (
		handler *Handler
		service *Service
	)

	ginkgo.BeforeEach(func() {
		service = NewService(newMockUserRepository(), NewStore(24*time.Hour),
			slog.New(slog.NewTextHandler(io.Discard, nil)))
		handler = NewHandler(service, testSessionConfig())
	})

	ginkgo.Describe("Login", func() {
		ginkgo.It("should set an HttpOnly session cookie on success", func() {
			body := `{"email":"legacy@example.com","password":"plain_secret"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			cookies := rec.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(1))
			gomega.Expect(cookies[0].Name).To(gomega.Equal("kpi_session"))
			gomega.Expect(cookies[0].Value).ToNot(gomega.BeEmpty())
			gomega.Expect(cookies[0].HttpOnly).To(gomega.BeTrue())

			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"role":"staff"`))
		})

		ginkgo.It("should answer 401 without a cookie on bad credentials", func() {
			body := `{"email":"legacy@example.com","password":"wrong"}`
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
			gomega.Expect(rec.Result().Cookies()).To(gomega.BeEmpty())
		})

		ginkgo.It("should answer 400 on a malformed body", func() {
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader("{"))
			rec := httptest.NewRecorder()

			handler.Login(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusBadRequest))
		})
	})

	ginkgo.Describe("Logout", func() {
		ginkgo.It("should invalidate the session and expire the cookie", func() {
			token := loginToken(handler)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
			req.AddCookie(&http.Cookie{Name: "kpi_session", Value: token})
			rec := httptest.NewRecorder()

			handler.Logout(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))

			cookies := rec.Result().Cookies()
			gomega.Expect(cookies).To(gomega.HaveLen(1))
			gomega.Expect(cookies[0].MaxAge).To(gomega.Equal(-1))

			_, ok := service.Resolve(token)
			gomega.Expect(ok).To(gomega.BeFalse())
		})
	})

	ginkgo.Describe("CheckLogin", func() {
		ginkgo.It("should report false without a cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/check-login", nil)
			rec := httptest.NewRecorder()

			handler.CheckLogin(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusOK))
			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"loggedIn":false`))
		})

		ginkgo.It("should report true with a live session", func() {
			token := loginToken(handler)

			req := httptest.NewRequest(http.MethodGet, "/api/auth/check-login", nil)
			req.AddCookie(&http.Cookie{Name: "kpi_session", Value: token})
			rec := httptest.NewRecorder()

			handler.CheckLogin(rec, req)

			gomega.Expect(rec.Body.String()).To(gomega.ContainSubstring(`"loggedIn":true`))
		})
	})

	ginkgo.Describe("SessionMiddleware", func() {
		var next http.Handler

		ginkgo.BeforeEach(func() {
			next = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				session, ok := SessionFromContext(r.Context())
				gomega.Expect(ok).To(gomega.BeTrue())
				gomega.Expect(session.Email).To(gomega.Equal("legacy@example.com"))
				w.WriteHeader(http.StatusNoContent)
			})
		})

		ginkgo.It("should reject a request without a cookie", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/workload", nil)
			rec := httptest.NewRecorder()

			handler.SessionMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should reject an unknown token", func() {
			req := httptest.NewRequest(http.MethodGet, "/api/workload", nil)
			req.AddCookie(&http.Cookie{Name: "kpi_session", Value: "stale"})
			rec := httptest.NewRecorder()

			handler.SessionMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusUnauthorized))
		})

		ginkgo.It("should put the session in context for a live token", func() {
			token := loginToken(handler)

			req := httptest.NewRequest(http.MethodGet, "/api/workload", nil)
			req.AddCookie(&http.Cookie{Name: "kpi_session", Value: token})
			rec := httptest.NewRecorder()

			handler.SessionMiddleware(next).ServeHTTP(rec, req)

			gomega.Expect(rec.Code).To(gomega.Equal(http.StatusNoContent))
		})
	})
})

func loginToken(handler *Handler) string {
	body := `{"email":"legacy@example.com","password":"plain_secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.Login(rec, req)
	gomega.Expect(rec.Result().Cookies()).ToNot(gomega.BeEmpty())
	return rec.Result().Cookies()[0].Value
}
