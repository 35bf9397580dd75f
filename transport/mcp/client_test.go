package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/service"
)

func callRequest(name string, args map[string]interface{}) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("baseURL = %s, want trailing slash trimmed", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{"id": "ab12"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]interface{}
	if err := client.apiCall(context.Background(), "GET", "/api/sessions/ab12", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["id"] != "ab12" {
		t.Errorf("id = %v", response["id"])
	}
}

func TestClient_apiCall_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json-error":
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("Internal Server Error"))
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	err := client.apiCall(ctx, "GET", "/json-error", nil, nil)
	if err == nil || err.Error() != "session not found" {
		t.Errorf("error = %v, want the API's message", err)
	}

	err = client.apiCall(ctx, "GET", "/plain", nil, nil)
	if err == nil || !strings.Contains(err.Error(), "API error") {
		t.Errorf("Expected 'API error' in error message, got: %v", err)
	}

	if err := NewClient("http://invalid-url-that-does-not-exist:9999").apiCall(ctx, "GET", "/api", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_createSession(t *testing.T) {
	var body map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&body)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:          "test-session-123",
			ConfigName:  "classic",
			SpriteCount: 14,
			Extent:      geometry.Size{W: 360, H: 360},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]interface{}{
		"config_id": "classic",
	}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "test-session-123") || !strings.Contains(text, "360x360") {
		t.Errorf("unexpected result: %s", text)
	}
	if body["config_id"] != "classic" {
		t.Errorf("request body = %v", body)
	}
}

func TestClient_nudgeCoercesArguments(t *testing.T) {
	var got map[string]float64
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.SpriteInfo{ID: "sp1", Kind: engine.Player})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleNudgeSprite(context.Background(), callRequest("nudge_sprite", map[string]interface{}{
		"session_id": "ab12",
		"sprite_id":  "sp1",
		"dx":         "12.5",
		"dy":         -3,
	}))
	if err != nil {
		t.Fatal(err)
	}
	if result.IsError {
		t.Fatalf("unexpected tool error: %s", resultText(t, result))
	}
	if path != "/api/sessions/ab12/sprites/sp1/nudge" {
		t.Errorf("path = %s", path)
	}
	if got["dx"] != 12.5 || got["dy"] != -3 {
		t.Errorf("body = %v", got)
	}
}

func TestClient_insertSpriteRejectsBadOffset(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleInsertSprite(context.Background(), callRequest("insert_sprite", map[string]interface{}{
		"session_id": "ab12",
		"kind":       "pickup",
		"width":      10,
		"height":     10,
		"x":          "sideways",
	}))
	if err != nil {
		t.Fatal(err)
	}
	if !result.IsError {
		t.Error("expected a tool error for an invalid offset")
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("invalid input should not reach the API")
	}
}

func TestClient_collisionHistoryQuery(t *testing.T) {
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		json.NewEncoder(w).Encode(service.HistoryResponse{
			Collisions:      []service.CollisionRecord{{Seq: 3, A: "a", B: "b", KindA: engine.Player, KindB: engine.Obstacle}},
			TotalCollisions: 1,
			Page:            2,
			TotalPages:      2,
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCollisionHistory(context.Background(), callRequest("collision_history", map[string]interface{}{
		"session_id": "ab12",
		"page":       2.0,
		"limit":      "5",
		"order":      "asc",
	}))
	if err != nil {
		t.Fatal(err)
	}

	if query != "limit=5&order=asc&page=2" {
		t.Errorf("query = %s", query)
	}
	if text := resultText(t, result); !strings.Contains(text, "Tick 3: player a <-> obstacle b") {
		t.Errorf("unexpected history text: %s", text)
	}
}

func TestFormatTick(t *testing.T) {
	text := formatTick(&service.TickReport{
		SessionID: "ab12",
		Seq:       7,
		Extent:    geometry.Size{W: 360, H: 202.5},
		Collisions: []service.CollisionRecord{
			{A: "p", B: "c", KindA: engine.Player, KindB: engine.Pickup},
		},
		Removed: []string{"c"},
	})

	for _, want := range []string{"Tick 7", "360x202.5", "1 collision(s)", "player p <-> pickup c", "Removed: c"} {
		if !strings.Contains(text, want) {
			t.Errorf("expected %q in %s", want, text)
		}
	}
}

func TestFormatInputResult(t *testing.T) {
	quiet := formatInputResult(&service.InputResult{Action: "up"})
	if !strings.Contains(quiet, "nothing moved") {
		t.Errorf("quiet = %s", quiet)
	}

	moved := formatInputResult(&service.InputResult{
		Action: "left",
		Moved:  []string{"p"},
		Sprites: []service.SpriteInfo{
			{ID: "p", Kind: engine.Player, Adjust: geometry.Point{X: -10}},
			{ID: "o", Kind: engine.Obstacle},
		},
	})
	if !strings.Contains(moved, "player p") || strings.Contains(moved, "obstacle o") {
		t.Errorf("moved = %s", moved)
	}
}

func TestClient_handleBoardInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleBoardInstructions(context.Background(), callRequest("board_instructions", map[string]interface{}{}))
	if err != nil {
		t.Fatalf("handleBoardInstructions failed: %v", err)
	}

	text := resultText(t, result)
	for _, content := range []string{"LAYOUT:", "COLLISIONS:", "INPUT:", "touch do not collide"} {
		if !strings.Contains(text, content) {
			t.Errorf("Expected '%s' in instructions", content)
		}
	}
}

func TestProbe(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&hits, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"status":"healthy"}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := Probe(ctx, server.URL, 5); err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if atomic.LoadInt32(&hits) != 3 {
		t.Errorf("hits = %d, want 3", hits)
	}

	if err := Probe(ctx, "http://127.0.0.1:1", 2); err == nil {
		t.Error("expected error for unreachable API")
	}
}

func TestHTTPHandler(t *testing.T) {
	client := NewClient("http://localhost:8080")
	handler := client.HTTPHandler()

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("GET", "/mcp", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d, want 405", rr.Code)
	}

	msg := `{"jsonrpc":"2.0","id":1,"method":"tools/list","params":{}}`
	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest("POST", "/mcp", strings.NewReader(msg)))
	if rr.Code != http.StatusOK {
		t.Fatalf("POST status = %d", rr.Code)
	}

	body := rr.Body.String()
	for _, tool := range []string{"create_session", "tick", "nudge_sprite", "collision_history", "board_instructions"} {
		if !strings.Contains(body, tool) {
			t.Errorf("tools/list missing %s", tool)
		}
	}
}
