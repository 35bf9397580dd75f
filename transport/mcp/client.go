package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cast"

	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/service"
)

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Sprite Board",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions(`Sprite Board - MCP Interface

This is a thin client that proxies all requests to the REST API server.

A board is a rectangle locked to an aspect ratio inside a viewport. Sprites
(player, obstacle, pickup) sit on it and are checked for overlap every tick.
Every overlapping pair produces one collision.

AVAILABLE TOOLS:
- create_session / list_sessions: manage boards
- get_board: resolved extent, placements and sprite bounds
- resize_board: change the viewport the board is fitted into
- tick: run one collision pass
- insert_sprite / remove_sprite / nudge_sprite: edit sprites
- send_input: steer players (up/down/left/right)
- collision_history: past collisions
- list_configs: available board configurations
- board_instructions: full rules`),
	)

	c.registerTools()
}

func sessionProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new board session with optional config selection",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"config_id": map[string]interface{}{
					"type":        "string",
					"description": "ID of the board config to use (optional, see list_configs)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all active board sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListSessions)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "get_board",
		Description: "Get the board extent, placements and every sprite's bounds",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGetBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "resize_board",
		Description: "Set the available viewport size the board is fitted into",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"width": map[string]interface{}{
					"type":        "number",
					"description": "Available width",
				},
				"height": map[string]interface{}{
					"type":        "number",
					"description": "Available height",
				},
			},
			Required: []string{"session_id", "width", "height"},
		},
	}, c.handleResizeBoard)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "tick",
		Description: "Run one tick: lay the board out and report every colliding pair",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleTick)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "insert_sprite",
		Description: "Add a sprite to the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"kind": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"player", "obstacle", "pickup"},
					"description": "Entity kind",
				},
				"width": map[string]interface{}{
					"type":        "number",
					"description": "Sprite width",
				},
				"height": map[string]interface{}{
					"type":        "number",
					"description": "Sprite height",
				},
				"x": map[string]interface{}{
					"type":        "string",
					"description": "Horizontal offset: start, center, end or a number",
				},
				"y": map[string]interface{}{
					"type":        "string",
					"description": "Vertical offset: start, center, end or a number",
				},
			},
			Required: []string{"session_id", "kind", "width", "height"},
		},
	}, c.handleInsertSprite)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "remove_sprite",
		Description: "Remove a sprite from the board",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"sprite_id": map[string]interface{}{
					"type":        "string",
					"description": "Sprite ID",
				},
			},
			Required: []string{"session_id", "sprite_id"},
		},
	}, c.handleRemoveSprite)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "nudge_sprite",
		Description: "Move a sprite by a relative amount",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"sprite_id": map[string]interface{}{
					"type":        "string",
					"description": "Sprite ID",
				},
				"dx": map[string]interface{}{
					"type":        "number",
					"description": "Horizontal delta",
				},
				"dy": map[string]interface{}{
					"type":        "number",
					"description": "Vertical delta",
				},
			},
			Required: []string{"session_id", "sprite_id"},
		},
	}, c.handleNudgeSprite)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "send_input",
		Description: "Send an input action to every sprite; players move one step",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"action": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"up", "down", "left", "right"},
					"description": "Action to send",
				},
			},
			Required: []string{"session_id", "action"},
		},
	}, c.handleSendInput)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "collision_history",
		Description: "Get collision history for a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"session_id": sessionProperty(),
				"page": map[string]interface{}{
					"type":        "integer",
					"description": "Page number",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Items per page",
				},
				"order": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"asc", "desc"},
					"description": "Sort order, most recent first by default",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleCollisionHistory)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_configs",
		Description: "List available board configurations",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleListConfigs)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "board_instructions",
		Description: "Get the rules of the board: layout, collisions and input",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, c.handleBoardInstructions)
}

// GetMCPServer returns the underlying MCP server for serving
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// Helper methods for API calls

func (c *Client) apiCall(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}

	return nil
}

func sessionPath(sessionID string, parts ...string) string {
	path := "/api/sessions/" + url.PathEscape(sessionID)
	for _, p := range parts {
		path += "/" + url.PathEscape(p)
	}
	return path
}

// Tool handlers

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	body := map[string]string{}
	if configID := cast.ToString(args["config_id"]); configID != "" {
		body["config_id"] = configID
	}

	var session service.SessionInfo
	if err := c.apiCall(ctx, "POST", "/api/sessions", body, &session); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatSessionInfo(&session)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var response struct {
		Count    int                   `json:"count"`
		Sessions []service.SessionInfo `json:"sessions"`
	}

	if err := c.apiCall(ctx, "GET", "/api/sessions", nil, &response); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Active Sessions (%d):\n\n", response.Count)
	for _, s := range response.Sessions {
		fmt.Fprintf(&result, "- %s (Config: %s, Sprites: %d, Tick: %d, Created: %s)\n",
			s.ID, s.ConfigName, s.SpriteCount, s.Seq, s.CreatedAt.Format("15:04:05"))
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleGetBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(request.GetArguments()["session_id"])

	var view service.BoardView
	if err := c.apiCall(ctx, "GET", sessionPath(sessionID, "board"), nil, &view); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatBoard(&view)), nil
}

func (c *Client) handleResizeBoard(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])
	size := geometry.Size{
		W: cast.ToFloat64(args["width"]),
		H: cast.ToFloat64(args["height"]),
	}

	var frame engine.Frame
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "resize"), size, &frame); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Available %s -> board extent %s, background at %s\n",
		formatSize(size), formatSize(frame.Extent), formatPoint(frame.Background.Offset))), nil
}

func (c *Client) handleTick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := cast.ToString(request.GetArguments()["session_id"])

	var report service.TickReport
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "tick"), nil, &report); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatTick(&report)), nil
}

func (c *Client) handleInsertSprite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])

	x, err := geometry.ParseOffset(cast.ToString(args["x"]))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	y, err := geometry.ParseOffset(cast.ToString(args["y"]))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	spec := service.SpriteSpec{
		Kind:   cast.ToString(args["kind"]),
		Width:  cast.ToFloat64(args["width"]),
		Height: cast.ToFloat64(args["height"]),
		X:      x,
		Y:      y,
	}

	var sprite service.SpriteInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "sprites"), spec, &sprite); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Inserted " + formatSprite(sprite)), nil
}

func (c *Client) handleRemoveSprite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])
	spriteID := cast.ToString(args["sprite_id"])

	if err := c.apiCall(ctx, "DELETE", sessionPath(sessionID, "sprites", spriteID), nil, nil); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Removed sprite %s\n", spriteID)), nil
}

func (c *Client) handleNudgeSprite(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])
	spriteID := cast.ToString(args["sprite_id"])

	body := map[string]float64{
		"dx": cast.ToFloat64(args["dx"]),
		"dy": cast.ToFloat64(args["dy"]),
	}

	var sprite service.SpriteInfo
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "sprites", spriteID, "nudge"), body, &sprite); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText("Nudged " + formatSprite(sprite)), nil
}

func (c *Client) handleSendInput(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])

	body := map[string]string{"action": cast.ToString(args["action"])}

	var result service.InputResult
	if err := c.apiCall(ctx, "POST", sessionPath(sessionID, "input"), body, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatInputResult(&result)), nil
}

func (c *Client) handleCollisionHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	sessionID := cast.ToString(args["session_id"])

	query := url.Values{}
	if page := cast.ToInt(args["page"]); page > 0 {
		query.Set("page", cast.ToString(page))
	}
	if limit := cast.ToInt(args["limit"]); limit > 0 {
		query.Set("limit", cast.ToString(limit))
	}
	if order := cast.ToString(args["order"]); order != "" {
		query.Set("order", order)
	}

	path := sessionPath(sessionID, "collisions")
	if len(query) > 0 {
		path += "?" + query.Encode()
	}

	var history service.HistoryResponse
	if err := c.apiCall(ctx, "GET", path, nil, &history); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(formatHistory(&history)), nil
}

func (c *Client) handleListConfigs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var configs []service.ConfigInfo
	if err := c.apiCall(ctx, "GET", "/api/configs", nil, &configs); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var result strings.Builder
	result.WriteString("Available Configurations:\n\n")
	for _, cfg := range configs {
		fmt.Fprintf(&result, "- %s (id: %s)\n  %s\n  Aspect: %s, Grid: %dx%d, Sprites: %d\n\n",
			cfg.Name, cfg.ConfigID, cfg.Description, cfg.AspectRatio, cfg.GridCols, cfg.GridRows, cfg.Sprites)
	}

	return mcp.NewToolResultText(result.String()), nil
}

func (c *Client) handleBoardInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(boardInstructions), nil
}

const boardInstructions = `Sprite Board - Rules

LAYOUT:
- The viewport minus padding is the available area.
- The board extent is the largest box of the configured aspect ratio
  (1:1, 2:3, 4:5, 5:7, 16:9) that fits the available area.
- Sprite offsets are start, center, end or a fixed number, resolved
  against the board extent. Nudges add a relative adjustment on top.

COLLISIONS:
- Every tick lays the board out and compares every pair of sprites.
- Boxes collide only when they overlap with positive area.
  Edges that merely touch do not collide.
- One collision is reported per overlapping pair, every tick the
  overlap persists.
- Pickups disappear when they collide with anything.

INPUT:
- send_input delivers up, down, left or right to every sprite.
- Players move by the board's step; obstacles and pickups ignore input.

TYPICAL LOOP:
1. create_session, then get_board to see where everything is.
2. send_input or nudge_sprite to move a player.
3. tick to detect collisions, collision_history to review them.
`

// Formatting helpers

func formatSize(s geometry.Size) string {
	return fmt.Sprintf("%gx%g", s.W, s.H)
}

func formatPoint(p geometry.Point) string {
	return fmt.Sprintf("(%g,%g)", p.X, p.Y)
}

func formatRect(r geometry.Rect) string {
	return fmt.Sprintf("[%g,%g %gx%g]", r.X, r.Y, r.W, r.H)
}

func formatSessionInfo(session *service.SessionInfo) string {
	return fmt.Sprintf("Session: %s\nConfig: %s\nCreated: %s\nSprites: %d\nExtent: %s\n",
		session.ID, session.ConfigName,
		session.CreatedAt.Format("2006-01-02 15:04:05"),
		session.SpriteCount, formatSize(session.Extent))
}

func formatSprite(s service.SpriteInfo) string {
	return fmt.Sprintf("%s %s at %s adjust %s\n", s.Kind, s.ID, formatRect(s.Bounds), formatPoint(s.Adjust))
}

func formatBoard(view *service.BoardView) string {
	if view == nil {
		return "No board available"
	}

	var result strings.Builder
	fmt.Fprintf(&result, "Session %s | Tick %d | Available %s | Extent %s\n",
		view.SessionID, view.Seq, formatSize(view.Available), formatSize(view.Frame.Extent))
	fmt.Fprintf(&result, "Counts: player=%d obstacle=%d pickup=%d\n\n",
		view.Counts[engine.Player], view.Counts[engine.Obstacle], view.Counts[engine.Pickup])

	result.WriteString("Sprites:\n")
	for _, s := range view.Sprites {
		result.WriteString("- " + formatSprite(s))
	}
	return result.String()
}

func formatTick(report *service.TickReport) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Tick %d on %s (extent %s): %d collision(s)\n",
		report.Seq, report.SessionID, formatSize(report.Extent), len(report.Collisions))
	for _, c := range report.Collisions {
		fmt.Fprintf(&result, "- %s %s <-> %s %s\n", c.KindA, c.A, c.KindB, c.B)
	}
	if len(report.Removed) > 0 {
		fmt.Fprintf(&result, "Removed: %s\n", strings.Join(report.Removed, ", "))
	}
	return result.String()
}

func formatInputResult(result *service.InputResult) string {
	if len(result.Moved) == 0 {
		return fmt.Sprintf("Action %s: nothing moved\n", result.Action)
	}
	var out strings.Builder
	fmt.Fprintf(&out, "Action %s moved %d sprite(s):\n", result.Action, len(result.Moved))
	moved := make(map[string]bool, len(result.Moved))
	for _, id := range result.Moved {
		moved[id] = true
	}
	for _, s := range result.Sprites {
		if moved[s.ID] {
			out.WriteString("- " + formatSprite(s))
		}
	}
	return out.String()
}

func formatHistory(history *service.HistoryResponse) string {
	var result strings.Builder
	fmt.Fprintf(&result, "Collision History (Page %d/%d, Total: %d):\n\n",
		history.Page, history.TotalPages, history.TotalCollisions)

	for _, c := range history.Collisions {
		fmt.Fprintf(&result, "Tick %d: %s %s <-> %s %s\n", c.Seq, c.KindA, c.A, c.KindB, c.B)
	}
	if history.HasNext {
		result.WriteString("\nMore results on the next page.\n")
	}
	return result.String()
}
