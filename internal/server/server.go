// Package server implements the match server: a WebSocket endpoint where
// players queue up, join rooms and play, plus a small JSON admin API for
// preparing rooms and browsing the archive.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/FalconsSky/penguins/internal/archive"
	"github.com/FalconsSky/penguins/internal/config"
	"github.com/FalconsSky/penguins/pkg/game"
	"github.com/FalconsSky/penguins/pkg/models"
)

// Server represents the game server.
type Server struct {
	config *config.Config
	log    zerolog.Logger

	upgrader websocket.Upgrader
	httpSrv  *http.Server

	redis        *redis.Client
	reservations *ReservationService
	archive      *archive.Store

	// Room tracking. lobby points at the waiting quick-match room, nil
	// when the next join should open a fresh one.
	roomMu sync.RWMutex
	rooms  map[string]*Room
	lobby  *Room

	// Connection tracking
	connections map[*Connection]bool
	connMu      sync.RWMutex

	// Shutdown
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a new server instance. store may be nil when archiving is
// disabled.
func New(cfg *config.Config, logger zerolog.Logger, store *archive.Store) (*Server, error) {
	ctx, cancel := context.WithCancel(context.Background())

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		cancel()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")

	srv := &Server{
		config:      cfg,
		log:         logger,
		redis:       redisClient,
		archive:     store,
		rooms:       make(map[string]*Room),
		connections: make(map[*Connection]bool),
		ctx:         ctx,
		cancel:      cancel,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// TODO: Add proper origin checking in production
				return true
			},
		},
	}
	srv.reservations = NewReservationService(cfg, redisClient)

	return srv, nil
}

// Start begins listening for connections.
func (s *Server) Start(addr string) error {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)

	r.Route("/api", func(api chi.Router) {
		api.Use(chimw.Timeout(10 * time.Second))
		api.Use(jsonContentType)
		api.Post("/rooms/prepared", s.handlePrepareRoom)
		api.Get("/rooms", s.handleListRooms)
		api.Get("/games", s.handleListGames)
		api.Get("/games/{id}", s.handleGetGame)
	})

	// No ReadTimeout here: WebSocket connections outlive any sane value,
	// their liveness is the ping/pong cycle in the connection pumps.
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	s.log.Info().Str("addr", addr).Msg("server listening")

	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	s.log.Info().Msg("shutting down")

	// Cancel context to signal shutdown
	s.cancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if s.httpSrv != nil {
		if err := s.httpSrv.Shutdown(ctx); err != nil {
			s.log.Warn().Err(err).Msg("http server shutdown")
		}
	}

	// Closing the sockets unblocks every readPump, which then detaches
	// its connection from its room.
	s.connMu.Lock()
	for conn := range s.connections {
		conn.ws.Close()
	}
	s.connMu.Unlock()

	if err := s.redis.Close(); err != nil {
		s.log.Warn().Err(err).Msg("redis close")
	}

	s.log.Info().Msg("shutdown complete")
	return nil
}

// JoinLobby seats a player in the waiting quick-match room, opening a new
// one when none is waiting. Two quick joins in a row end up in the same
// room and the game starts.
func (s *Server) JoinLobby(conn *Connection, player *models.Player) (*Room, error) {
	s.roomMu.Lock()
	defer s.roomMu.Unlock()

	room := s.lobby
	if room == nil || room.Status() != models.RoomWaiting {
		room = newRoom(uuid.NewString(), s, false)
		s.rooms[room.ID] = room
		s.lobby = room
		s.log.Info().Str("room", room.ID).Msg("lobby room opened")
	}

	if err := room.AddPlayer(conn, player); err != nil {
		return nil, err
	}
	if room.Status() != models.RoomWaiting {
		s.lobby = nil
	}
	return room, nil
}

// GetRoom looks a room up by id.
func (s *Server) GetRoom(id string) (*Room, bool) {
	s.roomMu.RLock()
	defer s.roomMu.RUnlock()
	room, ok := s.rooms[id]
	return room, ok
}

// handleWebSocket handles WebSocket connection requests.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn().Err(err).Str("remote", r.RemoteAddr).Msg("websocket upgrade failed")
		return
	}

	conn := NewConnection(ws, s)

	s.connMu.Lock()
	s.connections[conn] = true
	s.connMu.Unlock()

	s.log.Info().Str("remote", r.RemoteAddr).Msg("websocket connected")

	// Handle connection (blocking)
	conn.Handle()

	s.connMu.Lock()
	delete(s.connections, conn)
	s.connMu.Unlock()

	s.log.Info().Str("remote", r.RemoteAddr).Msg("websocket closed")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

// preparedRoomResponse is the admin API answer to a prepared room request.
type preparedRoomResponse struct {
	RoomID       string `json:"room_id"`
	Reservations struct {
		One string `json:"one"`
		Two string `json:"two"`
	} `json:"reservations"`
}

// handlePrepareRoom creates a room whose seats can only be taken with the
// two reservations returned in the response.
func (s *Server) handlePrepareRoom(w http.ResponseWriter, r *http.Request) {
	room := newRoom(uuid.NewString(), s, true)

	var resp preparedRoomResponse
	resp.RoomID = room.ID

	var err error
	if resp.Reservations.One, err = s.reservations.Issue(r.Context(), room.ID, game.TeamOne); err != nil {
		s.log.Error().Err(err).Msg("issue reservation")
		http.Error(w, `{"error":"reservation_failed"}`, http.StatusInternalServerError)
		return
	}
	if resp.Reservations.Two, err = s.reservations.Issue(r.Context(), room.ID, game.TeamTwo); err != nil {
		s.log.Error().Err(err).Msg("issue reservation")
		http.Error(w, `{"error":"reservation_failed"}`, http.StatusInternalServerError)
		return
	}

	s.roomMu.Lock()
	s.rooms[room.ID] = room
	s.roomMu.Unlock()

	s.log.Info().Str("room", room.ID).Msg("prepared room created")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)
}

// handleListRooms lists every room the server currently tracks.
func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	s.roomMu.RLock()
	rooms := make([]*Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		rooms = append(rooms, room)
	}
	s.roomMu.RUnlock()

	infos := make([]models.RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		infos = append(infos, room.Info())
	}
	json.NewEncoder(w).Encode(infos)
}

// handleListGames lists archived games, newest first. The limit query
// parameter caps the count, defaulting in the archive.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		json.NewEncoder(w).Encode([]models.GameRecord{})
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	games, err := s.archive.ListGames(r.Context(), limit)
	if err != nil {
		s.log.Error().Err(err).Msg("list games")
		http.Error(w, `{"error":"archive_error"}`, http.StatusInternalServerError)
		return
	}
	if games == nil {
		games = []models.GameRecord{}
	}
	json.NewEncoder(w).Encode(games)
}

// handleGetGame returns one archived game.
func (s *Server) handleGetGame(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}

	rec, err := s.archive.GetGame(r.Context(), chi.URLParam(r, "id"))
	if err == archive.ErrNotFound {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		s.log.Error().Err(err).Msg("get game")
		http.Error(w, `{"error":"archive_error"}`, http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(rec)
}

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}
