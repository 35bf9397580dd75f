package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/spriteboard/api"
	"github.com/wricardo/spriteboard/game/clock"
	"github.com/wricardo/spriteboard/transport/mcp"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}
	if AppName != "spriteboard" {
		t.Errorf("AppName = %s", AppName)
	}
}

func TestNewApp(t *testing.T) {
	app := newApp()

	if app.Version != Version {
		t.Errorf("Version = %s, want %s", app.Version, Version)
	}

	names := map[string]bool{}
	for _, sub := range app.Commands {
		names[sub.Name] = true
	}
	for _, want := range []string{"serve", "mcp"} {
		if !names[want] {
			t.Errorf("missing %s subcommand", want)
		}
	}

	flags := map[string]bool{}
	for _, f := range app.Flags {
		for _, n := range f.Names() {
			flags[n] = true
		}
	}
	for _, want := range []string{"host", "port", "config-dir", "sessions-dir", "debug", "tick-interval", "ngrok", "ngrok-auth", "ngrok-domain"} {
		if !flags[want] {
			t.Errorf("missing --%s flag", want)
		}
	}
}

func TestLoadSettings(t *testing.T) {
	settings, err := loadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.SessionTTL != 24*time.Hour || settings.CleanupPeriod != time.Hour {
		t.Errorf("defaults = %+v", settings)
	}
	if settings.WSSendBuffer != 256 || settings.ProbeAttempts != 3 {
		t.Errorf("defaults = %+v", settings)
	}

	t.Setenv("SPRITEBOARD_SESSION_TTL", "30m")
	t.Setenv("SPRITEBOARD_WS_SEND_BUFFER", "16")
	settings, err = loadSettings()
	if err != nil {
		t.Fatal(err)
	}
	if settings.SessionTTL != 30*time.Minute || settings.WSSendBuffer != 16 {
		t.Errorf("overrides = %+v", settings)
	}

	t.Setenv("SPRITEBOARD_CLEANUP_PERIOD", "soon")
	if _, err := loadSettings(); err == nil {
		t.Error("expected error for malformed duration")
	}
}

func TestInitializeServices(t *testing.T) {
	svcs, err := initializeServices("configs", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	if svcs.game == nil || svcs.sessions == nil || svcs.configs == nil {
		t.Fatal("Expected services to be initialized")
	}

	info, err := svcs.game.CreateSession(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if info.ConfigName != svcs.configs.DefaultID() {
		t.Errorf("config = %s, want the default", info.ConfigName)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, err := initializeServices("/non/existent/path", t.TempDir()); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestNewHandler(t *testing.T) {
	svcs, err := initializeServices("configs", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	handler := newHandler(api.NewServer(svcs.game, nil), mcp.NewClient("http://127.0.0.1:0"))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	if rr.Code != http.StatusOK {
		t.Errorf("/health status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	body := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`)
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/mcp", body))
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "get_board") {
		t.Errorf("/mcp status = %d body = %s", rr.Code, rr.Body.String())
	}
}

func TestDefaultTickInterval(t *testing.T) {
	for _, f := range newApp().Flags {
		if f.Names()[0] == "tick-interval" {
			if !strings.Contains(f.String(), clock.DefaultInterval.String()) {
				t.Errorf("tick-interval flag = %s", f.String())
			}
			return
		}
	}
	t.Fatal("tick-interval flag not found")
}
