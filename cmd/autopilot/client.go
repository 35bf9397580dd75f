package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/wricardo/spriteboard/game/service"
)

// Client drives one board session over the REST API.
type Client struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// SessionID returns the session the client is bound to.
func (c *Client) SessionID() string {
	return c.sessionID
}

func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s %s failed: %s - %s", method, path, resp.Status, bytes.TrimSpace(data))
	}
	if result == nil {
		return nil
	}
	if err := json.Unmarshal(data, result); err != nil {
		return fmt.Errorf("parse %s response: %w", path, err)
	}
	return nil
}

func (c *Client) sessionPath(suffix string) string {
	return "/api/sessions/" + url.PathEscape(c.sessionID) + suffix
}

// CreateSession starts a session from a config and binds the client to it.
// An empty configID selects the server default.
func (c *Client) CreateSession(ctx context.Context, configID string) (*service.SessionInfo, error) {
	var body interface{}
	if configID != "" {
		body = map[string]string{"config_id": configID}
	}

	var info service.SessionInfo
	if err := c.do(ctx, http.MethodPost, "/api/sessions", body, &info); err != nil {
		return nil, err
	}
	c.sessionID = info.ID
	return &info, nil
}

// Resume binds the client to an existing session.
func (c *Client) Resume(ctx context.Context, sessionID string) (*service.SessionInfo, error) {
	c.sessionID = sessionID
	var info service.SessionInfo
	if err := c.do(ctx, http.MethodGet, c.sessionPath(""), nil, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (c *Client) Board(ctx context.Context) (*service.BoardView, error) {
	var view service.BoardView
	if err := c.do(ctx, http.MethodGet, c.sessionPath("/board"), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) Reset(ctx context.Context) (*service.BoardView, error) {
	var view service.BoardView
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/reset"), nil, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *Client) Input(ctx context.Context, action string) (*service.InputResult, error) {
	var result service.InputResult
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/input"), map[string]string{"action": action}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) Tick(ctx context.Context) (*service.TickReport, error) {
	var report service.TickReport
	if err := c.do(ctx, http.MethodPost, c.sessionPath("/tick"), nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}
