// Package client connects bots and observers to a match server. A Handler
// supplies the game-specific behavior; the Client keeps the engine state in
// sync with the server's broadcasts and answers move requests with whatever
// the handler calculates.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/FalconsSky/penguins/internal/network"
	"github.com/FalconsSky/penguins/pkg/game"
)

// Handler reacts to the events of one game.
type Handler interface {
	// CalculateMove picks the move to answer a move request with. The
	// state's CurrentTeam is the handler's own team at that point.
	CalculateMove(state game.GameState) (game.Move, error)

	// OnGameJoined fires once the server has seated or subscribed the
	// client.
	OnGameJoined(roomID string)

	// OnUpdate fires on every state broadcast.
	OnUpdate(state game.GameState)

	// OnResult fires when the game ends.
	OnResult(result network.ResultPayload)

	// OnError fires on server-side error messages.
	OnError(message string)
}

// BaseHandler is a no-op implementation of every Handler callback except
// CalculateMove. Embed it and implement only what the bot cares about.
type BaseHandler struct{}

func (BaseHandler) OnGameJoined(string) {}
func (BaseHandler) OnUpdate(game.GameState) {}
func (BaseHandler) OnResult(network.ResultPayload) {}
func (BaseHandler) OnError(string) {}

const (
	handshakeTimeout = 10 * time.Second
	writeTimeout     = 10 * time.Second
)

// Client is a WebSocket connection to a match server driving one Handler.
// It is not safe for concurrent use; Run owns the connection once called.
type Client struct {
	ws      *websocket.Conn
	log     zerolog.Logger
	handler Handler

	// send is swappable so tests can capture outgoing messages.
	send func(*network.ClientMessage) error

	team     game.Team
	roomID   string
	state    game.GameState
	hasState bool
}

// Dial connects to a match server. url is the full WebSocket endpoint,
// e.g. ws://localhost:8080/ws.
func Dial(url string, handler Handler, logger zerolog.Logger) (*Client, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: handshakeTimeout,
	}
	ws, _, err := dialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}

	c := &Client{
		ws:      ws,
		log:     logger,
		handler: handler,
	}
	c.send = c.writeMessage
	return c, nil
}

// Join enters the matchmaking queue under the given name.
func (c *Client) Join(name string) error {
	return c.sendTyped(network.MsgTypeJoin, network.JoinPayload{Name: name})
}

// JoinRoom asks for a seat in a specific room.
func (c *Client) JoinRoom(roomID, name string) error {
	return c.sendTyped(network.MsgTypeJoinRoom, network.JoinRoomPayload{RoomID: roomID, Name: name})
}

// JoinPrepared redeems a reservation for a seat in a prepared room.
func (c *Client) JoinPrepared(reservation, name string) error {
	return c.sendTyped(network.MsgTypeJoinPrepared, network.JoinPreparedPayload{Reservation: reservation, Name: name})
}

// Observe subscribes to a room's broadcasts without taking a seat.
func (c *Client) Observe(roomID string) error {
	return c.sendTyped(network.MsgTypeObserve, network.ObservePayload{RoomID: roomID})
}

// Leave gives up the seat or subscription.
func (c *Client) Leave() error {
	return c.sendTyped(network.MsgTypeLeave, nil)
}

// Close tears the connection down.
func (c *Client) Close() error {
	return c.ws.Close()
}

// RoomID returns the room the client was admitted to, empty before then.
func (c *Client) RoomID() string { return c.roomID }

// Team returns the team the server assigned. Meaningless for observers.
func (c *Client) Team() game.Team { return c.team }

// Run reads server messages and drives the handler until the game ends,
// the context is canceled or the connection drops. A normal game end
// returns nil.
func (c *Client) Run(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.ws.Close()
		case <-done:
		}
	}()

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil
			}
			return fmt.Errorf("read: %w", err)
		}

		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			c.log.Warn().Err(err).Msg("unparseable server message")
			continue
		}

		finished, err := c.handleMessage(env)
		if err != nil {
			return err
		}
		if finished {
			return nil
		}
	}
}

// envelope is the receiving side of a server message; the payload stays raw
// until the type is known.
type envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// handleMessage dispatches one server message. It reports whether the game
// is over.
func (c *Client) handleMessage(env envelope) (bool, error) {
	switch env.Type {
	case network.MsgTypeJoined:
		var p network.JoinedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("joined payload: %w", err)
		}
		c.roomID = p.RoomID
		c.handler.OnGameJoined(p.RoomID)

	case network.MsgTypeWelcome:
		var p network.WelcomePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("welcome payload: %w", err)
		}
		team, err := game.ParseTeam(p.Team)
		if err != nil {
			return false, fmt.Errorf("welcome payload: %w", err)
		}
		c.team = team
		c.log.Info().Str("room", p.RoomID).Str("team", p.Team).Msg("seated")

	case network.MsgTypeState:
		var p network.StatePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("state payload: %w", err)
		}
		st, err := network.DecodeState(p, c.team)
		if err != nil {
			return false, fmt.Errorf("state payload: %w", err)
		}
		c.state = st
		c.hasState = true
		c.handler.OnUpdate(st)

	case network.MsgTypeMoveRequest:
		if !c.hasState {
			return false, errors.New("move requested before any state")
		}
		move, err := c.handler.CalculateMove(c.state)
		if err != nil {
			return false, fmt.Errorf("calculate move: %w", err)
		}
		if err := c.sendTyped(network.MsgTypeMove, network.EncodeMove(move)); err != nil {
			return false, err
		}

	case network.MsgTypeResult:
		var p network.ResultPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("result payload: %w", err)
		}
		c.handler.OnResult(p)
		return true, nil

	case network.MsgTypeLeft:
		var p network.LeftPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("left payload: %w", err)
		}
		c.log.Info().Str("player", p.Name).Str("team", p.Team).Msg("participant left")

	case network.MsgTypeError:
		var p network.ErrorPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return false, fmt.Errorf("error payload: %w", err)
		}
		c.log.Warn().Str("code", p.Code).Str("message", p.Message).Msg("server error")
		c.handler.OnError(p.Message)

	default:
		c.log.Warn().Str("type", env.Type).Msg("unknown message type")
	}
	return false, nil
}

// sendTyped marshals payload and sends it under the given message type.
func (c *Client) sendTyped(msgType string, payload interface{}) error {
	var raw json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s payload: %w", msgType, err)
		}
		raw = data
	}
	return c.send(&network.ClientMessage{Type: msgType, Payload: raw})
}

func (c *Client) writeMessage(msg *network.ClientMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}
