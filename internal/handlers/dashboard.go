package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"linkdeck/internal/cache"
	"linkdeck/internal/config"
	"linkdeck/internal/draft"
	"linkdeck/internal/linkset"
	"linkdeck/internal/middleware"
	"linkdeck/internal/models"
	"linkdeck/internal/render"
	"linkdeck/internal/session"
	"linkdeck/internal/storage"
	"linkdeck/internal/store"
	"linkdeck/internal/username"
)

// maxProvisionAttempts bounds the suffix retry loop when claiming a
// username derived from the email's local part.
const maxProvisionAttempts = 20

// Dashboard groups the handlers for the authenticated editor: link CRUD
// against the session draft, profile and theme edits, the save/discard
// pair, and the share QR code.
type Dashboard struct {
	renderer  *render.Renderer
	accounts  *store.AccountStore
	drafts    *draft.Store
	pageCache *cache.PageCache
	storage   *storage.Client // nil when S3 is not configured
	cfg       *config.Config
}

// NewDashboard creates a new Dashboard handler group. storageClient may
// be nil.
func NewDashboard(renderer *render.Renderer, accounts *store.AccountStore, drafts *draft.Store, pageCache *cache.PageCache, storageClient *storage.Client, cfg *config.Config) *Dashboard {
	return &Dashboard{
		renderer:  renderer,
		accounts:  accounts,
		drafts:    drafts,
		pageCache: pageCache,
		storage:   storageClient,
		cfg:       cfg,
	}
}

// Page renders the editor. The first visit provisions the account with
// defaults and a username derived from the email.
func (d *Dashboard) Page(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	state, err := d.loadState(r, sess)
	if err != nil {
		slog.Error("dashboard state load failed", "error", err)
		d.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}

	d.renderPage(w, r, state, flashFromQuery(r))
}

// AddLink appends a new link to the draft.
func (d *Dashboard) AddLink(w http.ResponseWriter, r *http.Request) {
	d.mutate(w, r, func(state *draft.State) string {
		title := r.FormValue("title")
		url := r.FormValue("url")
		if msg := validateLink(title, url); msg != "" {
			return msg
		}
		link, err := models.NewLink(title, url, r.FormValue("icon"))
		if err != nil {
			return "Could not add the link."
		}
		state.AddLink(link)
		return ""
	})
}

// UpdateLink edits a draft link's title, URL, and icon in place.
func (d *Dashboard) UpdateLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	d.mutate(w, r, func(state *draft.State) string {
		title := r.FormValue("title")
		url := r.FormValue("url")
		if msg := validateLink(title, url); msg != "" {
			return msg
		}

		existing, ok := linkset.Find(state.Draft.Links, id)
		if !ok {
			return "That link no longer exists."
		}
		updated, err := existing.Apply(title, url, r.FormValue("icon"))
		if err != nil {
			return "Could not update the link."
		}
		state.UpdateLink(updated)
		return ""
	})
}

// ToggleLink flips a draft link's visibility.
func (d *Dashboard) ToggleLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	d.mutate(w, r, func(state *draft.State) string {
		enabled := r.FormValue("enabled") == "true"
		if !state.SetLinkEnabled(id, enabled) {
			return "That link no longer exists."
		}
		return ""
	})
}

// DeleteLink removes a link from the draft.
func (d *Dashboard) DeleteLink(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	d.mutate(w, r, func(state *draft.State) string {
		if !state.RemoveLink(id) {
			return "That link no longer exists."
		}
		return ""
	})
}

// UpdateProfile edits the draft display name and bio.
func (d *Dashboard) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	d.mutate(w, r, func(state *draft.State) string {
		displayName := r.FormValue("display_name")
		bio := r.FormValue("bio")
		if msg := validateProfile(displayName, bio); msg != "" {
			return msg
		}
		state.SetProfile(displayName, bio)
		return ""
	})
}

// SelectTheme switches the draft to a catalog preset.
func (d *Dashboard) SelectTheme(w http.ResponseWriter, r *http.Request) {
	d.mutate(w, r, func(state *draft.State) string {
		theme, ok := models.ThemeByID(r.FormValue("theme_id"))
		if !ok {
			return "Unknown theme."
		}
		state.SetTheme(theme)
		return ""
	})
}

// Save persists the draft to the database in one full-document replace,
// invalidates the cached public page, and marks the draft clean.
func (d *Dashboard) Save(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	state, err := d.loadState(r, sess)
	if err != nil {
		slog.Error("dashboard state load failed", "error", err)
		d.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}

	if !state.Dirty {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	if err := d.accounts.Replace(sess.UserID, state.Draft.Profile, state.Draft.Links); err != nil {
		slog.Error("account save failed", "error", err)
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Saving failed. Please try again."})
		return
	}

	state.MarkSaved()
	if err := d.drafts.Save(r.Context(), session.ID(r), state); err != nil {
		slog.Warn("draft persist after save failed", "error", err)
	}

	d.pageCache.Invalidate(r.Context(), state.Committed.Username)

	http.Redirect(w, r, "/dashboard?saved=1", http.StatusSeeOther)
}

// Discard abandons all unsaved edits.
func (d *Dashboard) Discard(w http.ResponseWriter, r *http.Request) {
	d.mutate(w, r, func(state *draft.State) string {
		state.Discard()
		return ""
	})
}

// ShareQR serves a QR code PNG pointing at the public profile URL.
func (d *Dashboard) ShareQR(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	state, err := d.loadState(r, sess)
	if err != nil {
		slog.Error("dashboard state load failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	png, err := qrcode.Encode(d.cfg.ShareURL(state.Committed.Username), qrcode.Medium, 512)
	if err != nil {
		slog.Error("share qr generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "private, max-age=300")
	w.Write(png)
}

// mutate runs one edit against the session draft, persists it, and
// redirects back to the editor. Validation failures re-render with a
// flash instead of applying the edit.
func (d *Dashboard) mutate(w http.ResponseWriter, r *http.Request, edit func(*draft.State) string) {
	sess := middleware.SessionFromCtx(r.Context())

	state, err := d.loadState(r, sess)
	if err != nil {
		slog.Error("dashboard state load failed", "error", err)
		d.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}

	if msg := edit(state); msg != "" {
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: msg})
		return
	}

	if err := d.drafts.Save(r.Context(), session.ID(r), state); err != nil {
		slog.Error("draft persist failed", "error", err)
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Could not store your edit. Please try again."})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// loadState returns the session's editing state, starting a fresh one
// from the database (provisioning the account if needed) when no draft
// exists yet.
func (d *Dashboard) loadState(r *http.Request, sess *session.Data) (*draft.State, error) {
	ctx := r.Context()
	sessionID := session.ID(r)

	state, err := d.drafts.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		return state, nil
	}

	account, err := d.accounts.FindByUserID(sess.UserID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		account, err = d.provisionAccount(sess)
		if err != nil {
			return nil, err
		}
	}

	state = draft.NewState(account)
	if err := d.drafts.Save(ctx, sessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// provisionAccount creates the default account on first dashboard
// visit. The username comes from the email's local part; collisions get
// a numeric suffix. A concurrent claim between the availability check
// and the insert surfaces as a unique violation and moves on to the
// next suffix.
func (d *Dashboard) provisionAccount(sess *session.Data) (*models.Account, error) {
	base := username.Derive(sess.Email)

	for n := 0; n < maxProvisionAttempts; n++ {
		handle := base
		if n > 0 {
			handle = username.WithSuffix(base, n)
		}

		taken, err := d.accounts.UsernameTaken(handle)
		if err != nil {
			return nil, err
		}
		if taken {
			continue
		}

		account, err := d.accounts.Create(models.DefaultAccount(sess.UserID, handle, ""))
		if err != nil {
			if store.IsUniqueViolation(err) {
				continue
			}
			return nil, err
		}

		slog.Info("account provisioned", "user_id", sess.UserID, "username", handle)
		return account, nil
	}

	return nil, fmt.Errorf("provision account: no free username for %q", base)
}

// renderPage renders the dashboard with the current editing state.
func (d *Dashboard) renderPage(w http.ResponseWriter, r *http.Request, state *draft.State, flash *render.Flash) {
	d.renderer.Page(w, r, "dashboard", &render.PageData{
		Title: "Dashboard",
		Flash: flash,
		Data: map[string]any{
			"State":    state,
			"Themes":   models.Themes,
			"Icons":    models.IconKeys,
			"ShareURL": d.cfg.ShareURL(state.Committed.Username),
		},
	})
}

// flashFromQuery maps redirect query flags to a flash message.
func flashFromQuery(r *http.Request) *render.Flash {
	if r.URL.Query().Get("saved") == "1" {
		return &render.Flash{Type: "success", Message: "Your changes are live."}
	}
	return nil
}
