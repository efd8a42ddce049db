// Package router sets up all HTTP routes and middleware chains. Routes
// fall into three groups: auth screens, the authenticated dashboard,
// and public profile pages under catch-all usernames.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"linkdeck/internal/handlers"
	"linkdeck/internal/middleware"
	"linkdeck/internal/session"
)

// Rate limit budgets. Sign-in attempts are tight to slow credential
// stuffing; public pages get a generous per-IP budget.
const (
	signInLimit  = 10
	signInWindow = time.Minute

	publicLimit  = 120
	publicWindow = time.Minute
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. The returned rate limiters are stopped by
// the caller on shutdown.
func New(sessionStore *session.Store, auth *handlers.Auth, dashboard *handlers.Dashboard, public *handlers.Public) (chi.Router, []*middleware.RateLimiter) {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.Logger)
	r.Use(middleware.LoadSession(sessionStore))

	signInLimiter := middleware.NewRateLimiter(signInLimit, signInWindow)
	publicLimiter := middleware.NewRateLimiter(publicLimit, publicWindow)

	// Health check, no auth or CSRF.
	r.Get("/healthz", healthHandler)

	// Auth screens.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Get("/sign-in", auth.SignInPage)
		r.With(signInLimiter.Middleware).Post("/sign-in", auth.SignInSubmit)
		r.Get("/sign-up", auth.SignUpPage)
		r.With(signInLimiter.Middleware).Post("/sign-up", auth.SignUpSubmit)
		r.Post("/sign-out", auth.SignOut)

		// 2FA routes require auth but not completed verification.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Post("/2fa/setup", auth.TwoFASetupSubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.With(signInLimiter.Middleware).Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})
	})

	// Google OAuth2: state is carried in its own cookie, not a CSRF form field.
	r.Get("/auth/google", auth.GoogleStart)
	r.Get("/auth/google/callback", auth.GoogleCallback)

	// Authenticated dashboard.
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.RequireTOTP)

		r.Get("/", dashboard.Page)
		r.Get("/share/qr.png", dashboard.ShareQR)

		r.Post("/links", dashboard.AddLink)
		r.Post("/links/{id}", dashboard.UpdateLink)
		r.Post("/links/{id}/toggle", dashboard.ToggleLink)
		r.Post("/links/{id}/delete", dashboard.DeleteLink)

		r.Post("/profile", dashboard.UpdateProfile)
		r.Post("/theme", dashboard.SelectTheme)
		r.Post("/avatar", dashboard.UploadAvatar)

		r.Post("/save", dashboard.Save)
		r.Post("/discard", dashboard.Discard)
	})

	// Public profile pages: catch-all usernames, rate limited per IP.
	r.Group(func(r chi.Router) {
		r.Use(publicLimiter.Middleware)
		r.Get("/{username}", public.Profile)
		r.Get("/{username}/l/{id}", public.Click)
	})

	// The root sends everyone to the dashboard; the auth gate bounces
	// anonymous visitors on to the sign-in screen.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/dashboard", http.StatusSeeOther)
	})

	r.NotFound(public.NotFound)

	return r, []*middleware.RateLimiter{signInLimiter, publicLimiter}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
