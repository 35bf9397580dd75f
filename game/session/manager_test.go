package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
)

func createTestConfig() *engine.BoardConfig {
	return &engine.BoardConfig{
		Name:        "Test Config",
		Description: "Test configuration",
		AspectRatio: geometry.SixteenNine,
		Padding:     20,
		Viewport:    geometry.Size{W: 400, H: 400},
		Grid:        engine.GridConfig{Rows: 5, Cols: 5, Spacing: 5, CellSize: 30},
		State: engine.GameState{Sprites: map[string]engine.EntityKind{
			"1,1": engine.Player,
			"3,3": engine.Pickup,
		}},
	}
}

func TestManager_Create(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session, err := manager.Create("test-1", "test", config)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	if session.ID != "test-1" || session.ConfigID != "test" {
		t.Errorf("session = %s/%s", session.ID, session.ConfigID)
	}
	if session.Board == nil || session.Board.Len() != 2 {
		t.Fatal("session board should be seeded from config")
	}
	if session.CreatedAt.IsZero() || session.LastAccessedAt.IsZero() {
		t.Error("timestamps should be set")
	}

	if _, err := manager.Create("TEST-1", "test", config); !errors.Is(err, ErrSessionAlreadyExists) {
		t.Errorf("error = %v, want ErrSessionAlreadyExists", err)
	}
	if _, err := manager.Create("../escape", "test", config); !errors.Is(err, ErrInvalidSessionID) {
		t.Errorf("error = %v, want ErrInvalidSessionID", err)
	}

	bad := createTestConfig()
	bad.Grid.CellSize = 0
	if _, err := manager.Create("bad", "test", bad); err == nil {
		t.Error("expected error for invalid config")
	}
}

func TestManager_Get(t *testing.T) {
	manager := NewManager()
	created, _ := manager.Create("MixedCase", "test", createTestConfig())

	session, err := manager.Get("mixedcase")
	if err != nil {
		t.Fatalf("Failed to get session: %v", err)
	}
	if session != created {
		t.Error("Get should return the same session")
	}

	if _, err := manager.Get("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_Delete(t *testing.T) {
	manager := NewManager()
	manager.Create("del", "test", createTestConfig())

	if err := manager.Delete("del"); err != nil {
		t.Fatalf("Failed to delete session: %v", err)
	}
	if _, err := manager.Get("del"); !errors.Is(err, ErrSessionNotFound) {
		t.Error("session should be gone after delete")
	}
	if err := manager.Delete("del"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
	if err := manager.DeleteFromMemory("del"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_List(t *testing.T) {
	manager := NewManager()
	for i := 0; i < 3; i++ {
		manager.Create(fmt.Sprintf("list-%d", i), "test", createTestConfig())
	}

	if got := len(manager.List()); got != 3 {
		t.Errorf("List() returned %d sessions, want 3", got)
	}
	if manager.Count() != 3 {
		t.Errorf("Count() = %d, want 3", manager.Count())
	}
}

func TestManager_CleanupExpired(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", "test", createTestConfig())
	manager.Create("fresh", "test", createTestConfig())
	old.LastAccessedAt = time.Now().Add(-2 * time.Hour)

	if removed := manager.CleanupExpiredSessions(time.Hour); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, err := manager.Get("old"); err == nil {
		t.Error("expired session should be removed")
	}
	if _, err := manager.Get("fresh"); err != nil {
		t.Error("fresh session should remain")
	}
}

func TestManager_RunCleanup(t *testing.T) {
	manager := NewManager()
	old, _ := manager.Create("old", "test", createTestConfig())
	old.LastAccessedAt = time.Now().Add(-time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- manager.RunCleanup(ctx, 5*time.Millisecond, time.Minute) }()

	deadline := time.After(2 * time.Second)
	for manager.Count() != 0 {
		select {
		case <-deadline:
			t.Fatal("cleanup never evicted the expired session")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("RunCleanup returned %v", err)
	}
}

func TestManager_UpdateLastAccessed(t *testing.T) {
	manager := NewManager()
	session, _ := manager.Create("touch", "test", createTestConfig())
	before := session.LastAccessedAt

	time.Sleep(2 * time.Millisecond)
	if err := manager.UpdateLastAccessed("touch"); err != nil {
		t.Fatal(err)
	}
	if !session.LastAccessedAt.After(before) {
		t.Error("LastAccessedAt should advance")
	}
	if err := manager.UpdateLastAccessed("missing"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	var wg sync.WaitGroup
	errs := make(chan error, 100)

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			_, err := manager.Create(fmt.Sprintf("c-%d", id%20), "test", config)
			if err != nil && !errors.Is(err, ErrSessionAlreadyExists) {
				errs <- err
			}
		}(i)
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 20 {
		t.Errorf("Count() = %d, want 20", manager.Count())
	}
}

func TestManager_SessionIsolation(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	session1, _ := manager.Create("iso-1", "test", config)
	session2, _ := manager.Create("iso-2", "test", config)

	player := engine.FindKind(session1.Board.Sprites(), engine.Player)[0]
	session1.Board.Nudge(player.ID, 15, 0)

	other := engine.FindKind(session2.Board.Sprites(), engine.Player)[0]
	if other.Adjust != (geometry.Point{}) {
		t.Error("Session 2 should not be affected by session 1 moves")
	}
	if other.ID == player.ID {
		t.Error("Sessions should own distinct sprites")
	}
}

func TestManager_SessionIDGeneration(t *testing.T) {
	manager := NewManager()
	config := createTestConfig()

	generatedIDs := make(map[string]bool)
	for i := 0; i < 50; i++ {
		session, err := manager.Create("", "test", config)
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}

		if generatedIDs[session.ID] {
			t.Errorf("Duplicate session ID generated: %s", session.ID)
		}
		generatedIDs[session.ID] = true

		if len(session.ID) != 4 {
			t.Errorf("Expected 4-character ID, got %q", session.ID)
		}
	}
}
