package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/hashfront-movement/game/maps"
	"github.com/wricardo/hashfront-movement/game/movement"
	"github.com/wricardo/hashfront-movement/game/service"
	"github.com/wricardo/hashfront-movement/transport/websocket"
)

// Server represents the REST API server
type Server struct {
	service service.PlannerService
	hub     *websocket.Hub
	router  *mux.Router
}

// NewServer creates a new API server
func NewServer(planner service.PlannerService, hub *websocket.Hub) *Server {
	s := &Server{
		service: planner,
		hub:     hub,
		router:  mux.NewRouter(),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Maps and stateless planning
	api.HandleFunc("/maps", s.handleListMaps).Methods("GET")
	api.HandleFunc("/maps/{name}", s.handleGetMap).Methods("GET")
	api.HandleFunc("/maps/{name}/path", s.handleMapPath).Methods("POST")
	api.HandleFunc("/maps/{name}/reachable", s.handleMapReachable).Methods("POST")

	// Boards
	api.HandleFunc("/boards", s.handleCreateBoard).Methods("POST")
	api.HandleFunc("/boards", s.handleListBoards).Methods("GET")
	api.HandleFunc("/boards/{id}", s.handleGetBoard).Methods("GET")
	api.HandleFunc("/boards/{id}", s.handleDeleteBoard).Methods("DELETE")

	// Units on boards
	api.HandleFunc("/boards/{id}/units", s.handlePlaceUnit).Methods("POST")
	api.HandleFunc("/boards/{id}/units/{unit}", s.handleRemoveUnit).Methods("DELETE")
	api.HandleFunc("/boards/{id}/units/{unit}/path", s.handleUnitPath).Methods("POST")
	api.HandleFunc("/boards/{id}/units/{unit}/reachable", s.handleUnitReachable).Methods("POST")
	api.HandleFunc("/boards/{id}/units/{unit}/move", s.handleMoveUnit).Methods("POST")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
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

// respondServiceError maps service and map errors onto HTTP status codes
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, maps.ErrInvalidMap):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrBoardNotFound), errors.Is(err, service.ErrUnitNotFound), errors.Is(err, maps.ErrMapNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrTileOccupied), errors.Is(err, service.ErrUnitExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrNoPath):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody decodes a JSON request body. An empty body leaves target untouched.
func decodeBody(r *http.Request, target interface{}) error {
	if r.Body == nil {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(target)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// Health check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Map Handlers

func (s *Server) handleListMaps(w http.ResponseWriter, r *http.Request) {
	infos, err := s.service.ListMaps(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if infos == nil {
		infos = []*maps.MapInfo{}
	}

	respondJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGetMap(w http.ResponseWriter, r *http.Request) {
	// Remove .json extension if present
	name := strings.TrimSuffix(mux.Vars(r)["name"], ".json")

	cfg, err := s.service.GetMap(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) handleMapPath(w http.ResponseWriter, r *http.Request) {
	var req service.PathRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.MapID = mux.Vars(r)["name"]

	result, err := s.service.FindPath(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logPath("map="+req.MapID, result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMapReachable(w http.ResponseWriter, r *http.Request) {
	var req service.ReachRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	req.MapID = mux.Vars(r)["name"]

	result, err := s.service.FindReachable(r.Context(), req)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	log.Printf("[REACH] map=%s class=%s start=%s budget=%d tiles=%d",
		req.MapID, result.Class, result.Start, result.Budget, result.Count)
	respondJSON(w, http.StatusOK, result)
}

// Board Handlers

func (s *Server) handleCreateBoard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		MapID string `json:"map_id,omitempty"`
	}

	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.CreateBoard(r.Context(), req.MapID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleListBoards(w http.ResponseWriter, r *http.Request) {
	boards, err := s.service.ListBoards(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sort") // "created" (default), "accessed"
	order := query.Get("order") // "asc", "desc" (default: "desc")
	if sortBy == "" {
		sortBy = "created"
	}
	if order == "" {
		order = "desc"
	}

	sort.SliceStable(boards, func(i, j int) bool {
		var ti, tj time.Time
		if sortBy == "accessed" {
			ti, tj = boards[i].LastAccessedAt, boards[j].LastAccessedAt
		} else {
			ti, tj = boards[i].CreatedAt, boards[j].CreatedAt
		}

		if order == "asc" {
			return ti.Before(tj)
		}
		return ti.After(tj)
	})

	total := len(boards)
	if limitStr := query.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 && l < len(boards) {
			boards = boards[:l]
		}
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":  len(boards),
		"total":  total,
		"boards": boards,
		"sort":   sortBy,
		"order":  order,
	})
}

func (s *Server) handleGetBoard(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetBoard(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleDeleteBoard(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	if err := s.service.DeleteBoard(r.Context(), boardID); err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Board %s deleted", boardID),
	})
}

// Unit Handlers

func (s *Server) handlePlaceUnit(w http.ResponseWriter, r *http.Request) {
	boardID := mux.Vars(r)["id"]

	var placement maps.UnitPlacement
	if err := decodeBody(r, &placement); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	info, err := s.service.PlaceUnit(r.Context(), boardID, placement)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastBoard(info)
	respondJSON(w, http.StatusCreated, info)
}

func (s *Server) handleRemoveUnit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	info, err := s.service.RemoveUnit(r.Context(), vars["id"], vars["unit"])
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.broadcastBoard(info)
	respondJSON(w, http.StatusOK, info)
}

// unitMoveRequest is the body of unit path and move requests
type unitMoveRequest struct {
	Goal   movement.Position `json:"goal"`
	Budget int               `json:"budget"`
}

func (s *Server) handleUnitPath(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req unitMoveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.UnitPath(r.Context(), vars["id"], vars["unit"], req.Goal, req.Budget)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	logPath("board="+vars["id"]+" unit="+vars["unit"], result)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleUnitReachable(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req struct {
		Budget int `json:"budget"`
	}
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.UnitReach(r.Context(), vars["id"], vars["unit"], req.Budget)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if s.hub != nil {
		s.hub.BroadcastEvent(vars["id"], websocket.EventReachableOverlay, map[string]interface{}{
			"unit_id": vars["unit"],
			"reach":   result,
		})
	}

	log.Printf("[REACH] board=%s unit=%s start=%s budget=%d tiles=%d",
		vars["id"], vars["unit"], result.Start, result.Budget, result.Count)
	respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleMoveUnit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req unitMoveRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := s.service.MoveUnit(r.Context(), vars["id"], vars["unit"], req.Goal, req.Budget)
	if err != nil {
		log.Printf("[MOVE] board=%s unit=%s goal=%s budget=%d status=FAIL err=%v",
			vars["id"], vars["unit"], req.Goal, req.Budget, err)
		respondServiceError(w, err)
		return
	}

	s.broadcastBoard(result.Board)

	// Compact server log for observability
	log.Printf("[MOVE] board=%s unit=%s %s->%s cost=%d/%d steps=%d status=OK",
		vars["id"], result.UnitID, result.From, result.To, result.Cost, result.Budget, len(result.Path))

	respondJSON(w, http.StatusOK, result)
}

// WebSocket Handler

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	boardID := r.URL.Query().Get("board")
	if boardID == "" {
		http.Error(w, "board parameter required", http.StatusBadRequest)
		return
	}

	// Verify board exists
	if _, err := s.service.GetBoard(r.Context(), boardID); err != nil {
		http.Error(w, "Invalid board", http.StatusNotFound)
		return
	}

	s.hub.ServeWS(w, r, boardID)
}

func (s *Server) broadcastBoard(info *service.BoardInfo) {
	if s.hub != nil && info != nil {
		s.hub.BroadcastBoard(info.ID, info)
	}
}

// logPath writes a compact line for a path query
func logPath(scope string, result *service.PathResult) {
	status := "NONE"
	if result.Found {
		status = "OK"
	}
	log.Printf("[PATH] %s class=%s %s->%s cost=%d/%d expanded=%d status=%s",
		scope, result.Class, result.Start, result.Goal, result.Cost, result.Budget, result.Expanded, status)
}
