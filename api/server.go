package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wricardo/spriteboard/game/config"
	"github.com/wricardo/spriteboard/game/engine"
	"github.com/wricardo/spriteboard/game/geometry"
	"github.com/wricardo/spriteboard/game/service"
	"github.com/wricardo/spriteboard/game/session"
	"github.com/wricardo/spriteboard/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.GameService
	hub     *websocket.Hub
	router  *mux.Router
	logger  zerolog.Logger
}

// NewServer creates a new API server. hub may be nil, in which case nothing
// is broadcast and /ws is unavailable.
func NewServer(gameService service.GameService, hub *websocket.Hub) *Server {
	s := &Server{
		service: gameService,
		hub:     hub,
		router:  mux.NewRouter(),
		logger:  log.With().Str("component", "api").Logger(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)

	api := s.router.PathPrefix("/api").Subrouter()

	// Session management
	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/reset", s.handleReset).Methods("POST")

	// Layout and ticks
	api.HandleFunc("/sessions/{id}/board", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/sessions/{id}/resize", s.handleResize).Methods("POST")
	api.HandleFunc("/sessions/{id}/tick", s.handleTick).Methods("POST")
	api.HandleFunc("/sessions/{id}/grid", s.handleGetGrid).Methods("GET")

	// Sprites and input
	api.HandleFunc("/sessions/{id}/sprites", s.handleInsertSprite).Methods("POST")
	api.HandleFunc("/sessions/{id}/sprites/{sprite}", s.handleRemoveSprite).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/sprites/{sprite}/nudge", s.handleNudgeSprite).Methods("POST")
	api.HandleFunc("/sessions/{id}/input", s.handleInput).Methods("POST")
	api.HandleFunc("/sessions/{id}/collisions", s.handleGetCollisions).Methods("GET")

	// Configuration (schema must be before {name} pattern)
	api.HandleFunc("/configs", s.handleListConfigs).Methods("GET")
	api.HandleFunc("/configs", s.handleCreateConfig).Methods("POST")
	api.HandleFunc("/configs/schema", s.handleConfigSchema).Methods("GET")
	api.HandleFunc("/configs/{name}", s.handleGetConfig).Methods("GET")

	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("took", time.Since(start)).Msg("request")
	})
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service error to its HTTP status
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, service.ErrConfigNotFound),
		errors.Is(err, engine.ErrSpriteNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrSessionAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, session.ErrInvalidSessionID),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, engine.ErrDuplicateSprite),
		errors.Is(err, engine.ErrInvalidSprite),
		errors.Is(err, engine.ErrTooManySprites):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("request body required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// publishBoard pushes the current board of a session to its WebSocket clients
func (s *Server) publishBoard(r *http.Request, sessionID string) {
	if s.hub == nil {
		return
	}
	view, err := s.service.GetBoard(r.Context(), sessionID)
	if err != nil {
		s.logger.Warn().Err(err).Str("session", sessionID).Msg("failed to publish board")
		return
	}
	s.hub.BroadcastBoard(view.SessionID, view)
}

// Session Handlers

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ConfigID   string `json:"config_id,omitempty"`
		ConfigName string `json:"config_name,omitempty"`
	}

	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	configID := req.ConfigID
	if configID == "" {
		configID = req.ConfigName
	}

	info, err := s.service.CreateSession(r.Context(), configID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.logger.Info().Str("session", info.ID).Str("config", info.ConfigName).Msg("session created")
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.service.ListSessions(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created", "accessed" (default)
	order := query.Get("order") // "asc", "desc" (default)
	if sortBy == "" {
		sortBy = "accessed"
	}
	if order == "" {
		order = "desc"
	}

	sort.Slice(sessions, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "created" {
			ti, tj = sessions[i].CreatedAt, sessions[j].CreatedAt
		} else {
			ti, tj = sessions[i].LastAccessedAt, sessions[j].LastAccessedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(sessions)
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 && l < len(sessions) {
		sessions = sessions[:l]
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":    len(sessions),
		"total":    total,
		"sessions": sessions,
		"sort":     sortBy,
		"order":    order,
	})
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	if err := s.service.DeleteSession(r.Context(), sessionID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Session %s deleted", sessionID),
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.ResetSession(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastBoard(view.SessionID, view)
	}
	respondJSON(w, http.StatusOK, view)
}

// Layout Handlers

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	view, err := s.service.GetBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, view)
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var size geometry.Size
	if err := decodeBody(r, &size); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	frame, err := s.service.Resize(r.Context(), sessionID, size)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publishBoard(r, sessionID)
	respondJSON(w, http.StatusOK, frame)
}

func (s *Server) handleTick(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Tick(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastTick(report)
	}
	respondJSON(w, http.StatusOK, report)
}

func (s *Server) handleGetGrid(w http.ResponseWriter, r *http.Request) {
	cells, err := s.service.GetGrid(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(cells),
		"cells": cells,
	})
}

// Sprite Handlers

func (s *Server) handleInsertSprite(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var spec service.SpriteSpec
	if err := decodeBody(r, &spec); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sprite, err := s.service.InsertSprite(r.Context(), sessionID, spec)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publishBoard(r, sessionID)
	respondJSON(w, http.StatusCreated, sprite)
}

func (s *Server) handleRemoveSprite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID, spriteID := vars["id"], vars["sprite"]

	if err := s.service.RemoveSprite(r.Context(), sessionID, spriteID); err != nil {
		respondServiceError(w, err)
		return
	}

	s.publishBoard(r, sessionID)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Sprite %s removed", spriteID),
	})
}

func (s *Server) handleNudgeSprite(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	sessionID := vars["id"]

	var req struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	sprite, err := s.service.NudgeSprite(r.Context(), sessionID, vars["sprite"], req.DX, req.DY)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.publishBoard(r, sessionID)
	respondJSON(w, http.StatusOK, sprite)
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["id"]

	var req struct {
		Action string `json:"action"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.service.SendInput(r.Context(), sessionID, req.Action)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.logger.Debug().Str("session", sessionID).Str("action", result.Action).Strs("moved", result.Moved).Msg("input")
	s.publishBoard(r, sessionID)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetCollisions(w http.ResponseWriter, r *http.Request) {
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	query := r.URL.Query()
	if p, err := strconv.Atoi(query.Get("page")); err == nil && p > 0 {
		opts.Page = p
	}
	if l, err := strconv.Atoi(query.Get("limit")); err == nil && l > 0 {
		opts.Limit = l
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetCollisionHistory(r.Context(), mux.Vars(r)["id"], opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Configuration Handlers

func (s *Server) handleListConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.service.ListConfigs(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := s.service.LoadConfig(r.Context(), mux.Vars(r)["name"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleConfigSchema(w http.ResponseWriter, r *http.Request) {
	schema, err := s.service.ConfigSchema(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, schema)
}

// handleCreateConfig saves a board config. The file name comes from the
// config_id query parameter, falling back to the config name.
func (s *Server) handleCreateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg engine.BoardConfig
	if err := decodeBody(r, &cfg); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	configID := r.URL.Query().Get("config_id")
	if configID == "" {
		configID = strings.ToLower(strings.ReplaceAll(strings.TrimSpace(cfg.Name), " ", "_"))
	}
	if configID == "" {
		respondError(w, http.StatusBadRequest, "Config name is required")
		return
	}

	if err := s.service.SaveConfig(r.Context(), configID, &cfg); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"message":   "Configuration saved successfully",
		"config_id": configID,
	})
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		http.Error(w, "websocket unavailable", http.StatusServiceUnavailable)
		return
	}

	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	info, err := s.service.GetSession(r.Context(), sessionID)
	if err != nil {
		http.Error(w, "Invalid session", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, info.ID)
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}
