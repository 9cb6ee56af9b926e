package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/FalconsSky/penguins/internal/network"
	"github.com/FalconsSky/penguins/pkg/models"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection represents a WebSocket connection to a client. The room and
// player fields are owned by the readPump goroutine; the room itself takes
// its own lock when the connection calls into it.
type Connection struct {
	ws     *websocket.Conn
	server *Server
	log    zerolog.Logger

	player *models.Player
	room   *Room

	// Buffered channel for outbound messages
	send chan []byte

	closeOnce sync.Once
}

// NewConnection creates a new connection.
func NewConnection(ws *websocket.Conn, server *Server) *Connection {
	return &Connection{
		ws:     ws,
		server: server,
		log:    server.log.With().Str("remote", ws.RemoteAddr().String()).Logger(),
		send:   make(chan []byte, 256),
	}
}

// Handle manages the connection lifecycle.
func (c *Connection) Handle() {
	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	go c.writePump()
	c.readPump() // Blocking
}

// readPump pumps messages from the WebSocket connection to the server.
func (c *Connection) readPump() {
	defer c.Close()

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.Warn().Err(err).Msg("websocket read error")
			}
			break
		}

		var clientMsg network.ClientMessage
		if err := json.Unmarshal(message, &clientMsg); err != nil {
			c.log.Warn().Err(err).Msg("unparseable client message")
			c.SendError("invalid_message", "Failed to parse message")
			continue
		}

		c.handleMessage(&clientMsg)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection.
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.ws.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Channel closed
				c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.log.Warn().Err(err).Msg("websocket write error")
				return
			}

		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.server.ctx.Done():
			// Server shutting down
			return
		}
	}
}

// handleMessage routes messages to appropriate handlers.
func (c *Connection) handleMessage(msg *network.ClientMessage) {
	c.log.Debug().Str("type", msg.Type).Msg("message received")

	switch msg.Type {
	case network.MsgTypeJoin:
		c.handleJoin(msg.Payload)

	case network.MsgTypeJoinRoom:
		c.handleJoinRoom(msg.Payload)

	case network.MsgTypeJoinPrepared:
		c.handleJoinPrepared(msg.Payload)

	case network.MsgTypeObserve:
		c.handleObserve(msg.Payload)

	case network.MsgTypeMove:
		c.handleMove(msg.Payload)

	case network.MsgTypeLeave:
		c.handleLeave()

	default:
		c.log.Warn().Str("type", msg.Type).Msg("unknown message type")
		c.SendError("unknown_message_type", "Unknown message type")
	}
}

// handleJoin puts the connection into the matchmaking queue.
func (c *Connection) handleJoin(payload json.RawMessage) {
	if c.room != nil {
		c.SendError("already_joined", "Already in a room")
		return
	}

	var p network.JoinPayload
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &p); err != nil {
			c.SendError("invalid_payload", "Failed to parse join payload")
			return
		}
	}

	c.player = newPlayer(p.Name)
	room, err := c.server.JoinLobby(c, c.player)
	if err != nil {
		c.log.Warn().Err(err).Msg("lobby join failed")
		c.SendError("join_failed", err.Error())
		return
	}
	c.room = room
}

// handleJoinRoom seats the connection in a specific room.
func (c *Connection) handleJoinRoom(payload json.RawMessage) {
	if c.room != nil {
		c.SendError("already_joined", "Already in a room")
		return
	}

	var p network.JoinRoomPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Failed to parse join_room payload")
		return
	}

	room, ok := c.server.GetRoom(p.RoomID)
	if !ok {
		c.SendError("room_not_found", "No such room")
		return
	}

	c.player = newPlayer(p.Name)
	if err := room.AddPlayer(c, c.player); err != nil {
		c.log.Warn().Err(err).Str("room", p.RoomID).Msg("room join failed")
		c.SendError("join_failed", err.Error())
		return
	}
	c.room = room
}

// handleJoinPrepared redeems a reservation and seats the connection at the
// reserved team.
func (c *Connection) handleJoinPrepared(payload json.RawMessage) {
	if c.room != nil {
		c.SendError("already_joined", "Already in a room")
		return
	}

	var p network.JoinPreparedPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Failed to parse join_prepared payload")
		return
	}

	roomID, team, err := c.server.reservations.Redeem(c.server.ctx, p.Reservation)
	if err != nil {
		c.log.Warn().Err(err).Msg("reservation rejected")
		c.SendError("invalid_reservation", err.Error())
		return
	}

	room, ok := c.server.GetRoom(roomID)
	if !ok {
		c.SendError("room_not_found", "Reserved room no longer exists")
		return
	}

	c.player = newPlayer(p.Name)
	if err := room.AddReserved(c, c.player, team); err != nil {
		c.log.Warn().Err(err).Str("room", roomID).Msg("reserved join failed")
		c.SendError("join_failed", err.Error())
		return
	}
	c.room = room
}

// handleObserve subscribes the connection to a room's broadcasts.
func (c *Connection) handleObserve(payload json.RawMessage) {
	if c.room != nil {
		c.SendError("already_joined", "Already in a room")
		return
	}

	var p network.ObservePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Failed to parse observe payload")
		return
	}

	room, ok := c.server.GetRoom(p.RoomID)
	if !ok {
		c.SendError("room_not_found", "No such room")
		return
	}

	room.AddObserver(c)
	c.room = room
}

// handleMove forwards a move to the connection's room.
func (c *Connection) handleMove(payload json.RawMessage) {
	if c.room == nil {
		c.SendError("not_in_room", "Join a room before moving")
		return
	}

	var p network.MovePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		c.SendError("invalid_payload", "Failed to parse move payload")
		return
	}

	c.room.HandleMove(c, p)
}

// handleLeave detaches the connection from its room.
func (c *Connection) handleLeave() {
	if c.room == nil {
		return
	}
	c.room.RemoveConnection(c)
	c.room = nil
}

// SendMessage sends a message to the client.
func (c *Connection) SendMessage(msg *network.ServerMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error().Err(err).Str("type", msg.Type).Msg("marshal message")
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn().Str("type", msg.Type).Msg("send buffer full, dropping message")
	}
}

// SendError sends an error message to the client.
func (c *Connection) SendError(code, message string) {
	c.SendMessage(&network.ServerMessage{
		Type: network.MsgTypeError,
		Payload: network.ErrorPayload{
			Code:    code,
			Message: message,
		},
	})
}

// Close detaches the connection from its room and tears the socket down.
// Only the readPump goroutine calls it; the server shuts connections down
// by closing the socket, which makes readPump return.
func (c *Connection) Close() {
	c.closeOnce.Do(func() {
		if c.room != nil {
			c.room.RemoveConnection(c)
			c.room = nil
		}
		close(c.send)
		c.ws.Close()
	})
}

// newPlayer builds the player record for a joining connection. Unnamed
// players get a short handle derived from their id.
func newPlayer(name string) *models.Player {
	id := uuid.NewString()
	if name == "" {
		name = "player-" + id[:8]
	}
	return &models.Player{
		ID:          id,
		Name:        name,
		Connected:   true,
		ConnectedAt: time.Now(),
	}
}
