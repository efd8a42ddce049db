// Package linkset provides pure operations over an account's ordered
// link collection. Every operation returns a fresh slice and leaves its
// input untouched, so a caller holding the previous collection (the
// committed state, a preview) never observes a half-applied mutation.
package linkset

import (
	"github.com/google/uuid"

	"linkdeck/internal/models"
)

// Add appends the link, preserving existing order.
func Add(links []models.Link, link models.Link) []models.Link {
	out := make([]models.Link, 0, len(links)+1)
	out = append(out, links...)
	return append(out, link)
}

// Update replaces the link whose id matches, keeping its position.
// Returns (links unchanged, false) when no link matches.
func Update(links []models.Link, link models.Link) ([]models.Link, bool) {
	idx := indexOf(links, link.ID)
	if idx < 0 {
		return links, false
	}
	out := clone(links)
	out[idx] = link
	return out, true
}

// Remove deletes the link with the given id, closing the gap.
// Returns (links unchanged, false) when no link matches.
func Remove(links []models.Link, id uuid.UUID) ([]models.Link, bool) {
	idx := indexOf(links, id)
	if idx < 0 {
		return links, false
	}
	out := make([]models.Link, 0, len(links)-1)
	out = append(out, links[:idx]...)
	return append(out, links[idx+1:]...), true
}

// SetEnabled flips the enabled flag on the matching link. All other
// fields are untouched. Returns (links unchanged, false) on no match.
func SetEnabled(links []models.Link, id uuid.UUID, enabled bool) ([]models.Link, bool) {
	idx := indexOf(links, id)
	if idx < 0 {
		return links, false
	}
	out := clone(links)
	out[idx].Enabled = enabled
	return out, true
}

// Find returns the link with the given id, or (zero, false).
func Find(links []models.Link, id uuid.UUID) (models.Link, bool) {
	if idx := indexOf(links, id); idx >= 0 {
		return links[idx], true
	}
	return models.Link{}, false
}

// Enabled filters to links with Enabled=true, preserving order.
func Enabled(links []models.Link) []models.Link {
	out := make([]models.Link, 0, len(links))
	for _, l := range links {
		if l.Enabled {
			out = append(out, l)
		}
	}
	return out
}

func indexOf(links []models.Link, id uuid.UUID) int {
	for i, l := range links {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func clone(links []models.Link) []models.Link {
	out := make([]models.Link, len(links))
	copy(out, links)
	return out
}
