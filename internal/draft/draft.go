// Package draft holds the per-session editing state of the dashboard.
// Edits accumulate against a draft copy of the account while the
// committed copy reflects what the database last confirmed. Nothing is
// written to Postgres until the user saves; Discard throws the draft
// away and reverts to the committed copy.
package draft

import (
	"github.com/google/uuid"

	"linkdeck/internal/linkset"
	"linkdeck/internal/models"
)

// State is one user's editing session: the last-saved aggregate, the
// working copy with unsaved edits, and a dirty flag driving the
// save/discard controls.
type State struct {
	Committed models.Account `json:"committed"`
	Draft     models.Account `json:"draft"`
	Dirty     bool           `json:"dirty"`
}

// NewState starts a clean editing session on top of the given account.
func NewState(account *models.Account) *State {
	return &State{
		Committed: *account,
		Draft:     *account,
		Dirty:     false,
	}
}

// AddLink appends a link to the draft collection.
func (s *State) AddLink(link models.Link) {
	s.Draft.Links = linkset.Add(s.Draft.Links, link)
	s.Dirty = true
}

// UpdateLink replaces the matching draft link in place, keeping its
// position. Returns false when no link has that id.
func (s *State) UpdateLink(link models.Link) bool {
	links, ok := linkset.Update(s.Draft.Links, link)
	if !ok {
		return false
	}
	s.Draft.Links = links
	s.Dirty = true
	return true
}

// RemoveLink deletes the matching draft link. Returns false on no match.
func (s *State) RemoveLink(id uuid.UUID) bool {
	links, ok := linkset.Remove(s.Draft.Links, id)
	if !ok {
		return false
	}
	s.Draft.Links = links
	s.Dirty = true
	return true
}

// SetLinkEnabled flips visibility of the matching draft link. Returns
// false on no match.
func (s *State) SetLinkEnabled(id uuid.UUID, enabled bool) bool {
	links, ok := linkset.SetEnabled(s.Draft.Links, id, enabled)
	if !ok {
		return false
	}
	s.Draft.Links = links
	s.Dirty = true
	return true
}

// SetProfile updates the draft display name and bio.
func (s *State) SetProfile(displayName, bio string) {
	s.Draft.Profile.DisplayName = displayName
	s.Draft.Profile.Bio = bio
	s.Dirty = true
}

// SetTheme switches the draft to the given theme.
func (s *State) SetTheme(theme models.Theme) {
	s.Draft.Profile.Theme = theme
	s.Dirty = true
}

// SetImageURL points the draft avatar at a new uploaded image.
func (s *State) SetImageURL(url string) {
	s.Draft.Profile.ImageURL = url
	s.Dirty = true
}

// Discard abandons all unsaved edits, restoring the committed copy.
func (s *State) Discard() {
	s.Draft = s.Committed
	s.Dirty = false
}

// MarkSaved records that the draft was persisted: the draft becomes the
// new committed copy and the session is clean again.
func (s *State) MarkSaved() {
	s.Committed = s.Draft
	s.Dirty = false
}
