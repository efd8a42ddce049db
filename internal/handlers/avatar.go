package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"linkdeck/internal/imaging"
	"linkdeck/internal/middleware"
	"linkdeck/internal/render"
	"linkdeck/internal/session"
)

// UploadAvatar accepts a multipart image upload, processes it into a
// square JPEG, stores it in object storage, and points the draft at the
// new URL. The previous stored avatar is deleted once the new one is up.
func (d *Dashboard) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	state, err := d.loadState(r, sess)
	if err != nil {
		slog.Error("dashboard state load failed", "error", err)
		d.renderer.PageWithStatus(w, r, http.StatusInternalServerError, "error", nil)
		return
	}

	if d.storage == nil {
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Avatar uploads are not configured on this server."})
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, imaging.MaxUploadBytes)
	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "The image is too large (max 5 MB)."})
		return
	}

	file, _, err := r.FormFile("avatar")
	if err != nil {
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Please choose an image to upload."})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("avatar read failed", "error", err)
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Could not read the uploaded file."})
		return
	}

	processed, err := imaging.ProcessAvatar(data)
	if err != nil {
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "That file is not a supported image (PNG, JPEG, GIF, or WebP)."})
		return
	}

	key := avatarKey(sess.UserID)
	if err := d.storage.Upload(r.Context(), key, processed.ContentType, bytes.NewReader(processed.Data), int64(len(processed.Data))); err != nil {
		slog.Error("avatar upload failed", "error", err)
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Uploading the avatar failed. Please try again."})
		return
	}

	// Remove the previous avatar if it lives in our bucket. Google
	// profile pictures and other foreign URLs are left alone.
	if old := state.Draft.Profile.ImageURL; old != "" {
		if oldKey, ok := d.storage.ExtractKey(old); ok && oldKey != key {
			if err := d.storage.Delete(r.Context(), oldKey); err != nil {
				slog.Warn("stale avatar delete failed", "key", oldKey, "error", err)
			}
		}
	}

	state.SetImageURL(d.storage.FileURL(key))
	if err := d.drafts.Save(r.Context(), session.ID(r), state); err != nil {
		slog.Error("draft persist failed", "error", err)
		d.renderPage(w, r, state, &render.Flash{Type: "error", Message: "Could not store your edit. Please try again."})
		return
	}

	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// avatarKey builds a unique object key per upload so CDN caches never
// serve a stale image for the same key.
func avatarKey(userID uuid.UUID) string {
	return fmt.Sprintf("avatars/%s-%s.jpg", userID, uuid.NewString()[:8])
}
