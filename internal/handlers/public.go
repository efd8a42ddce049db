package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"linkdeck/internal/cache"
	"linkdeck/internal/linkset"
	"linkdeck/internal/markdown"
	"linkdeck/internal/render"
	"linkdeck/internal/store"
)

// counterTimeout bounds the async analytics writes so a slow database
// never piles up goroutines.
const counterTimeout = 5 * time.Second

// Public groups the handlers for visitor-facing profile pages. Rendered
// pages are served from the Valkey page cache when possible; the view
// counter is bumped on every request either way.
type Public struct {
	renderer  *render.Renderer
	accounts  *store.AccountStore
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group.
func NewPublic(renderer *render.Renderer, accounts *store.AccountStore, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:  renderer,
		accounts:  accounts,
		pageCache: pageCache,
	}
}

// Profile renders a public profile page by username. Unknown usernames
// get the not-found view. Disabled links never reach the page.
func (p *Public) Profile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handle := chi.URLParam(r, "username")

	if cached, ok := p.pageCache.Get(ctx, handle); ok {
		// The page itself is cacheable; the view still counts.
		account, err := p.accounts.FindByUsername(handle)
		if err == nil && account != nil {
			p.countView(account.UserID)
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(cached)
		return
	}

	account, err := p.accounts.FindByUsername(handle)
	if err != nil {
		slog.Error("profile lookup failed", "error", err, "username", handle)
		p.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}
	if account == nil {
		p.NotFound(w, r)
		return
	}

	bioHTML := ""
	if account.Profile.Bio != "" {
		bioHTML, err = markdown.ToHTML(account.Profile.Bio)
		if err != nil {
			slog.Warn("bio render failed", "error", err, "username", handle)
			bioHTML = ""
		}
	}

	out, err := p.renderer.Bytes("profile", &render.PageData{
		Data: map[string]any{
			"Account": account,
			"Links":   linkset.Enabled(account.Links),
			"BioHTML": bioHTML,
		},
	})
	if err != nil {
		slog.Error("profile render failed", "error", err, "username", handle)
		p.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}

	p.pageCache.Set(ctx, handle, out)
	p.countView(account.UserID)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

// Click resolves a link by id, counts the click, and redirects the
// visitor to the destination. Disabled or unknown links 404.
func (p *Public) Click(w http.ResponseWriter, r *http.Request) {
	handle := chi.URLParam(r, "username")
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		p.NotFound(w, r)
		return
	}

	account, err := p.accounts.FindByUsername(handle)
	if err != nil {
		slog.Error("profile lookup failed", "error", err, "username", handle)
		p.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}
	if account == nil {
		p.NotFound(w, r)
		return
	}

	link, ok := linkset.Find(account.Links, id)
	if !ok || !link.Enabled {
		p.NotFound(w, r)
		return
	}

	p.countClick(account.UserID)

	http.Redirect(w, r, link.URL, http.StatusFound)
}

// NotFound renders the profile-not-found view.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.PageWithStatus(w, r, http.StatusNotFound, "not_found", nil)
}

// countView bumps the view counter without blocking the response.
// Failures are logged and swallowed; analytics never break a page view.
func (p *Public) countView(userID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
		defer cancel()
		if err := p.accounts.IncrementViews(ctx, userID); err != nil {
			slog.Warn("view counter increment failed", "user_id", userID, "error", err)
		}
	}()
}

// countClick bumps the click counter without blocking the redirect.
func (p *Public) countClick(userID uuid.UUID) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), counterTimeout)
		defer cancel()
		if err := p.accounts.IncrementClicks(ctx, userID); err != nil {
			slog.Warn("click counter increment failed", "user_id", userID, "error", err)
		}
	}()
}
