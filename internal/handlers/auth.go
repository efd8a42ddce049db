// Package handlers implements the HTTP handlers for authentication, the
// dashboard editor, and public profile pages.
package handlers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
	"golang.org/x/oauth2"

	"linkdeck/internal/draft"
	"linkdeck/internal/middleware"
	"linkdeck/internal/render"
	"linkdeck/internal/session"
	"linkdeck/internal/store"
)

const (
	totpIssuer       = "LinkDeck"
	oauthStateCookie = "ld_oauth_state"
	googleUserInfo   = "https://www.googleapis.com/oauth2/v2/userinfo"
)

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	users    *store.UserStore
	drafts   *draft.Store
	oauth    *oauth2.Config // nil when Google sign-in is not configured
}

// NewAuth creates a new Auth handler group. oauth may be nil.
func NewAuth(renderer *render.Renderer, sessions *session.Store, users *store.UserStore, drafts *draft.Store, oauth *oauth2.Config) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		users:    users,
		drafts:   drafts,
		oauth:    oauth,
	}
}

// googleEnabled reports whether federated sign-in is wired up.
func (a *Auth) googleEnabled() bool {
	return a.oauth != nil
}

// SignInPage renders the sign-in form.
func (a *Auth) SignInPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "sign_in", &render.PageData{
		Title: "Sign in",
		Data:  map[string]any{"GoogleEnabled": a.googleEnabled()},
	})
}

// SignInSubmit processes the sign-in form.
func (a *Auth) SignInSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	user, err := a.users.FindByEmail(email)
	if err != nil {
		slog.Error("sign-in lookup failed", "error", err)
		a.renderer.Page(w, r, "sign_in", &render.PageData{
			Title: "Sign in",
			Flash: &render.Flash{Type: "error", Message: "An unexpected error occurred."},
			Data:  map[string]any{"GoogleEnabled": a.googleEnabled()},
		})
		return
	}

	if user == nil || !a.users.CheckPassword(user, password) {
		a.renderer.Page(w, r, "sign_in", &render.PageData{
			Title: "Sign in",
			Flash: &render.Flash{Type: "error", Message: "Invalid email or password."},
			Data:  map[string]any{"GoogleEnabled": a.googleEnabled()},
		})
		return
	}

	// Users without 2FA enabled skip straight to the dashboard.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: !user.TOTPEnabled,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.TOTPEnabled {
		http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignUpPage renders the registration form.
func (a *Auth) SignUpPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "sign_up", &render.PageData{
		Title: "Sign up",
		Data:  map[string]any{"GoogleEnabled": a.googleEnabled()},
	})
}

// SignUpSubmit creates a user and signs them in. The account document is
// provisioned lazily on the first dashboard visit.
func (a *Auth) SignUpSubmit(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	if msg := validateCredentials(email, password); msg != "" {
		a.renderer.Page(w, r, "sign_up", &render.PageData{
			Title: "Sign up",
			Flash: &render.Flash{Type: "error", Message: msg},
			Data:  map[string]any{"GoogleEnabled": a.googleEnabled()},
		})
		return
	}

	existing, err := a.users.FindByEmail(email)
	if err != nil {
		slog.Error("sign-up lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		a.renderer.Page(w, r, "sign_up", &render.PageData{
			Title: "Sign up",
			Flash: &render.Flash{Type: "error", Message: "An account with that email already exists."},
			Data:  map[string]any{"GoogleEnabled": a.googleEnabled()},
		})
		return
	}

	user, err := a.users.Create(email, password)
	if err != nil {
		slog.Error("user create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: true,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// SignOut destroys the session and its editing draft.
func (a *Auth) SignOut(w http.ResponseWriter, r *http.Request) {
	if id := session.ID(r); id != "" {
		if err := a.drafts.Delete(r.Context(), id); err != nil {
			slog.Warn("draft delete on sign-out failed", "error", err)
		}
	}
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
}

// GoogleStart begins the OAuth2 flow: sets a state cookie and redirects
// to Google's consent screen.
func (a *Auth) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if !a.googleEnabled() {
		http.NotFound(w, r)
		return
	}

	state, err := randomState()
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/auth/google",
		HttpOnly: true,
		MaxAge:   300,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, a.oauth.AuthCodeURL(state), http.StatusSeeOther)
}

// googleProfile is the subset of Google's userinfo response we consume.
type googleProfile struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GoogleCallback completes the OAuth2 flow: verifies the state cookie,
// exchanges the code, fetches the user's identity, and signs them in.
// First-time Google users get a federated user row; existing email
// accounts get the Google subject linked.
func (a *Auth) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !a.googleEnabled() {
		http.NotFound(w, r)
		return
	}

	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || r.URL.Query().Get("state") != stateCookie.Value {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	token, err := a.oauth.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		slog.Error("oauth exchange failed", "error", err)
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	profile, err := fetchGoogleProfile(r, a.oauth, token)
	if err != nil {
		slog.Error("google userinfo fetch failed", "error", err)
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}
	if profile.ID == "" || profile.Email == "" {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByGoogleID(profile.ID)
	if err != nil {
		slog.Error("google id lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user == nil {
		// Link an existing email account or create a fresh federated one.
		user, err = a.users.FindByEmail(profile.Email)
		if err != nil {
			slog.Error("email lookup failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		if user != nil {
			if err := a.users.LinkGoogleID(user.ID, profile.ID); err != nil {
				slog.Error("google id link failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		} else {
			user, err = a.users.CreateFederated(profile.Email, profile.ID)
			if err != nil {
				slog.Error("federated user create failed", "error", err)
				http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				return
			}
		}
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:    user.ID,
		Email:     user.Email,
		TwoFADone: !user.TOTPEnabled,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.TOTPEnabled {
		http.Redirect(w, r, "/2fa/verify", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// fetchGoogleProfile retrieves the signed-in user's id and email from
// the userinfo endpoint using the exchanged token.
func fetchGoogleProfile(r *http.Request, cfg *oauth2.Config, token *oauth2.Token) (*googleProfile, error) {
	client := cfg.Client(r.Context(), token)
	resp, err := client.Get(googleUserInfo)
	if err != nil {
		return nil, fmt.Errorf("userinfo request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var profile googleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("userinfo decode: %w", err)
	}
	return &profile, nil
}

// TwoFASetupPage generates a TOTP secret and displays the QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if err := a.users.SetTOTPSecret(sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.render2FASetup(w, r, key.Secret(), key.URL(), nil)
}

// TwoFASetupSubmit validates the first code against the pending secret
// and enables 2FA.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa setup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		url := totpURL(user.Email, *user.TOTPSecret)
		a.render2FASetup(w, r, *user.TOTPSecret, url, &render.Flash{
			Type: "error", Message: "Invalid code. Please try again.",
		})
		return
	}

	if err := a.users.EnableTOTP(user.ID); err != nil {
		slog.Error("enable totp failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// TwoFAVerifyPage renders the code entry form for users with 2FA enabled.
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}
	if sess.TwoFADone {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "2fa_verify", &render.PageData{Title: "Two-factor verification"})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/sign-in", http.StatusSeeOther)
		return
	}

	user, err := a.users.FindByID(sess.UserID)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if user.TOTPSecret == nil || !user.TOTPEnabled {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if !totp.Validate(r.FormValue("code"), *user.TOTPSecret) {
		a.renderer.Page(w, r, "2fa_verify", &render.PageData{
			Title: "Two-factor verification",
			Flash: &render.Flash{Type: "error", Message: "Invalid code. Please try again."},
		})
		return
	}

	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// render2FASetup renders the setup page with the QR code for a secret.
func (a *Auth) render2FASetup(w http.ResponseWriter, r *http.Request, secret, otpURL string, flash *render.Flash) {
	qrPNG, err := qrcode.Encode(otpURL, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "2fa_setup", &render.PageData{
		Title: "Set up two-factor auth",
		Flash: flash,
		Data: map[string]any{
			"QRCode": base64.StdEncoding.EncodeToString(qrPNG),
			"Secret": secret,
		},
	})
}

// totpURL rebuilds the otpauth provisioning URL for an existing secret.
func totpURL(email, secret string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s", totpIssuer, email, secret, totpIssuer)
}

// randomState creates an unguessable OAuth2 state value.
func randomState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
