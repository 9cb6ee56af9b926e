// Package network defines the JSON wire protocol between the match server
// and its clients, and the codec between wire payloads and engine values.
package network

import "encoding/json"

// Message types - Client → Server
const (
	MsgTypeJoin         = "join"          // enter the matchmaking queue
	MsgTypeJoinRoom     = "join_room"     // join a specific room by id
	MsgTypeJoinPrepared = "join_prepared" // join with a reservation code
	MsgTypeObserve      = "observe"       // spectate a room
	MsgTypeMove         = "move"
	MsgTypeLeave        = "leave"
)

// Message types - Server → Client
const (
	MsgTypeJoined      = "joined"
	MsgTypeWelcome     = "welcome"
	MsgTypeState       = "state"
	MsgTypeMoveRequest = "move_request"
	MsgTypeResult      = "result"
	MsgTypeLeft        = "left"
	MsgTypeError       = "error"
)

// ClientMessage represents any message from client to server
type ClientMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents any message from server to client
type ServerMessage struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// --- Client Message Payloads ---

// JoinPayload enters the matchmaking queue.
type JoinPayload struct {
	Name string `json:"name,omitempty"`
}

// JoinRoomPayload joins the given room directly.
type JoinRoomPayload struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name,omitempty"`
}

// JoinPreparedPayload joins a prepared room with a reservation code.
type JoinPreparedPayload struct {
	Reservation string `json:"reservation"`
	Name        string `json:"name,omitempty"`
}

// ObservePayload subscribes to a room's state broadcasts.
type ObservePayload struct {
	RoomID string `json:"room_id"`
}

// --- Shared Payloads ---

// CoordPayload is a board coordinate in doubled hex form.
type CoordPayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MovePayload describes one move. From is absent for placements. Team is
// filled in by the server when echoing moves inside state payloads and is
// ignored on receive: the sender's seat decides the acting team.
type MovePayload struct {
	Team string        `json:"team,omitempty"`
	From *CoordPayload `json:"from,omitempty"`
	To   CoordPayload  `json:"to"`
}

// ScorePayload carries both fish tallies.
type ScorePayload struct {
	One int `json:"one"`
	Two int `json:"two"`
}

// CellPayload is one board cell: fish count, or the occupying team.
type CellPayload struct {
	Fish    int    `json:"fish,omitempty"`
	Penguin string `json:"penguin,omitempty"`
}

// StatePayload is the authoritative game state after a move. Board is an
// 8x8 grid of rows, row-major from the top-left cell.
type StatePayload struct {
	StartTeam string          `json:"start_team"`
	Turn      int             `json:"turn"`
	Round     int             `json:"round"`
	Score     ScorePayload    `json:"score"`
	Board     [][]CellPayload `json:"board"`
	LastMove  *MovePayload    `json:"last_move,omitempty"`
}

// --- Server Message Payloads ---

// JoinedPayload confirms room entry.
type JoinedPayload struct {
	RoomID   string `json:"room_id"`
	Observer bool   `json:"observer,omitempty"`
}

// WelcomePayload tells a player which team it controls.
type WelcomePayload struct {
	RoomID string `json:"room_id"`
	Team   string `json:"team"`
}

// MoveRequestPayload asks the receiving player for its move.
type MoveRequestPayload struct {
	TimeoutMS int64 `json:"timeout_ms,omitempty"`
}

// ResultPayload announces the end of a game. Winner is empty on a draw.
type ResultPayload struct {
	Winner string       `json:"winner,omitempty"`
	Reason string       `json:"reason"`
	Score  ScorePayload `json:"score"`
}

// LeftPayload notifies that a participant left the room.
type LeftPayload struct {
	RoomID string `json:"room_id"`
	Name   string `json:"name,omitempty"`
	Team   string `json:"team,omitempty"`
}

// ErrorPayload contains error information
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
