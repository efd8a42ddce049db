package draft

import (
	"reflect"
	"testing"

	"github.com/google/uuid"

	"linkdeck/internal/models"
)

func testAccount() *models.Account {
	return models.DefaultAccount(uuid.New(), "alice", "Alice")
}

func TestNewStateIsClean(t *testing.T) {
	account := testAccount()
	state := NewState(account)

	if state.Dirty {
		t.Error("fresh state must not be dirty")
	}
	if !reflect.DeepEqual(state.Draft, state.Committed) {
		t.Error("draft and committed must start identical")
	}
	if !reflect.DeepEqual(state.Committed, *account) {
		t.Error("committed must mirror the source account")
	}
}

func TestAddLinkMarksDirty(t *testing.T) {
	state := NewState(testAccount())

	link, err := models.NewLink("My Blog", "blog.example.com", "globe")
	if err != nil {
		t.Fatalf("NewLink: %v", err)
	}
	state.AddLink(link)

	if !state.Dirty {
		t.Error("adding a link must mark the state dirty")
	}
	if len(state.Draft.Links) != 2 {
		t.Fatalf("draft links = %d, want 2", len(state.Draft.Links))
	}
	if len(state.Committed.Links) != 1 {
		t.Error("committed copy must not see unsaved edits")
	}
}

func TestUpdateLinkKeepsPosition(t *testing.T) {
	state := NewState(testAccount())
	original := state.Draft.Links[0]

	updated := original
	updated.Title = "Renamed"
	if !state.UpdateLink(updated) {
		t.Fatal("UpdateLink returned false for existing link")
	}

	if got := state.Draft.Links[0].Title; got != "Renamed" {
		t.Errorf("title = %q, want Renamed", got)
	}
	if state.Draft.Links[0].ID != original.ID {
		t.Error("update must not change the link id")
	}

	if state.UpdateLink(models.Link{ID: uuid.New(), Title: "Ghost"}) {
		t.Error("UpdateLink must return false for unknown id")
	}
}

func TestRemoveAndToggle(t *testing.T) {
	state := NewState(testAccount())
	id := state.Draft.Links[0].ID

	if !state.SetLinkEnabled(id, false) {
		t.Fatal("SetLinkEnabled returned false for existing link")
	}
	if state.Draft.Links[0].Enabled {
		t.Error("link should be disabled")
	}

	if !state.RemoveLink(id) {
		t.Fatal("RemoveLink returned false for existing link")
	}
	if len(state.Draft.Links) != 0 {
		t.Errorf("draft links = %d, want 0", len(state.Draft.Links))
	}

	if state.RemoveLink(uuid.New()) {
		t.Error("RemoveLink must return false for unknown id")
	}
	if state.SetLinkEnabled(uuid.New(), true) {
		t.Error("SetLinkEnabled must return false for unknown id")
	}
}

func TestDiscardRevertsToCommitted(t *testing.T) {
	state := NewState(testAccount())
	before := state.Committed

	state.SetProfile("Mallory", "taking over")
	state.SetTheme(models.Themes[3])
	state.RemoveLink(state.Draft.Links[0].ID)
	if !state.Dirty {
		t.Fatal("edits must mark the state dirty")
	}

	state.Discard()

	if state.Dirty {
		t.Error("discard must clear the dirty flag")
	}
	if !reflect.DeepEqual(state.Draft, before) {
		t.Errorf("draft after discard = %+v, want committed copy", state.Draft)
	}
}

func TestMarkSavedPromotesDraft(t *testing.T) {
	state := NewState(testAccount())
	state.SetProfile("Alice B.", "now with bio")
	state.SetImageURL("https://cdn.example.com/avatars/a.jpg")

	state.MarkSaved()

	if state.Dirty {
		t.Error("saved state must be clean")
	}
	if !reflect.DeepEqual(state.Committed, state.Draft) {
		t.Error("committed must equal draft after save")
	}
	if state.Committed.Profile.DisplayName != "Alice B." {
		t.Errorf("display name = %q", state.Committed.Profile.DisplayName)
	}
}
