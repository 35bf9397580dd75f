package session

import (
	"errors"
	"testing"

	"github.com/wricardo/spriteboard/game/config"
	"github.com/wricardo/spriteboard/game/service"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()

	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", configManager.DefaultID(), configManager.GetDefault())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}
	})

	t.Run("Save Persists Board Changes", func(t *testing.T) {
		session, _ := manager.Get("auto1")
		first := session.Board.Sprites()[0]
		session.Board.Nudge(first.ID, 5, 5)
		if err := manager.Save("auto1"); err != nil {
			t.Fatal(err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatal(err)
		}
		sprite, ok := loaded.Board.Get(first.ID)
		if !ok || sprite.Adjust.X != 5 {
			t.Errorf("persisted sprite = %+v, %v", sprite, ok)
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		manager2 := NewManagerWithPersistence(persistence)

		session, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.ID != "auto1" {
			t.Errorf("Expected ID auto1, got %s", session.ID)
		}

		session2, _ := manager2.Get("auto1")
		if session2 != session {
			t.Error("Session should be cached in memory after loading from persistence")
		}
	})

	t.Run("Load Persisted Sessions", func(t *testing.T) {
		manager3 := NewManagerWithPersistence(persistence)
		if err := manager3.LoadPersistedSessions(); err != nil {
			t.Fatal(err)
		}
		if manager3.Count() != 1 {
			t.Errorf("Count() = %d, want 1", manager3.Count())
		}
		if err := manager3.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions failed: %v", err)
		}
	})

	t.Run("Delete Removes Persisted Copy", func(t *testing.T) {
		if err := manager.Delete("auto1"); err != nil {
			t.Fatal(err)
		}
		if persistence.Exists("auto1") {
			t.Error("persisted session should be deleted")
		}
	})
}

func TestManager_PruneOrphans(t *testing.T) {
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatal(err)
	}
	persistence, err := NewFilePersistence(t.TempDir(), configManager)
	if err != nil {
		t.Fatal(err)
	}
	manager := NewManagerWithPersistence(persistence)

	manager.Create("keep", "arena", configManager.GetDefault())
	manager.Create("drop", "arena", configManager.GetDefault())

	if err := persistence.Delete("drop"); err != nil {
		t.Fatal(err)
	}

	if pruned := manager.PruneOrphans(); pruned != 1 {
		t.Errorf("pruned = %d, want 1", pruned)
	}
	if manager.Count() != 1 {
		t.Errorf("Count() = %d, want 1", manager.Count())
	}
	if _, err := manager.Get("keep"); err != nil {
		t.Errorf("kept session should remain: %v", err)
	}

	if NewManager().PruneOrphans() != 0 {
		t.Error("manager without persistence should never prune")
	}
}

// failingPersistence rejects every save until ok is set.
type failingPersistence struct {
	ok    bool
	saved map[string]bool
}

func (p *failingPersistence) Save(session *service.Session) error {
	if !p.ok {
		return errors.New("disk full")
	}
	p.saved[session.ID] = true
	return nil
}

func (p *failingPersistence) Load(id string) (*service.Session, error) {
	return nil, ErrSessionNotFound
}

func (p *failingPersistence) Delete(id string) error {
	delete(p.saved, id)
	return nil
}

func (p *failingPersistence) ListAll() ([]string, error) { return nil, nil }

func (p *failingPersistence) Exists(id string) bool { return p.saved[id] }

func TestManager_PruneOrphansKeepsUnsaved(t *testing.T) {
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatal(err)
	}
	persistence := &failingPersistence{saved: make(map[string]bool)}
	manager := NewManagerWithPersistence(persistence)

	if _, err := manager.Create("live", "arena", configManager.GetDefault()); err != nil {
		t.Fatalf("Create should survive a failed save: %v", err)
	}
	if pruned := manager.PruneOrphans(); pruned != 0 {
		t.Errorf("pruned = %d, want 0 for a never-saved session", pruned)
	}
	if _, err := manager.Get("live"); err != nil {
		t.Fatalf("never-saved session was evicted: %v", err)
	}

	persistence.ok = true
	if err := manager.Save("live"); err != nil {
		t.Fatal(err)
	}
	if err := persistence.Delete("live"); err != nil {
		t.Fatal(err)
	}
	if pruned := manager.PruneOrphans(); pruned != 1 {
		t.Errorf("pruned = %d, want 1 once the saved file is gone", pruned)
	}
}
