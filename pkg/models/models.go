// Package models holds the records shared between the match server, the
// game archive and the admin API.
package models

import "time"

// Player represents one participant of a room.
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Team string `json:"team,omitempty"`

	// Connection state
	Connected   bool      `json:"connected"`
	ConnectedAt time.Time `json:"connected_at"`
}

// Room status values.
const (
	RoomWaiting  = "waiting"
	RoomRunning  = "running"
	RoomFinished = "finished"
)

// RoomInfo is the admin API view of one room.
type RoomInfo struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Players   []Player  `json:"players"`
	Turn      int       `json:"turn"`
	Round     int       `json:"round"`
	CreatedAt time.Time `json:"created_at"`
}

// Result reasons recorded with a finished game.
const (
	ReasonRegular       = "regular"        // neither team could move
	ReasonRuleViolation = "rule_violation" // illegal or out-of-turn move
	ReasonTimeout       = "timeout"        // move soft limit exceeded
	ReasonLeft          = "left"           // a player disconnected mid-game
)

// GameRecord is the archived outcome of a finished game.
type GameRecord struct {
	ID         string    `json:"id"`
	RoomID     string    `json:"room_id"`
	PlayerOne  string    `json:"player_one"`
	PlayerTwo  string    `json:"player_two"`
	ScoreOne   int       `json:"score_one"`
	ScoreTwo   int       `json:"score_two"`
	Winner     string    `json:"winner,omitempty"` // empty on a draw
	Reason     string    `json:"reason"`
	Moves      string    `json:"moves"` // JSON array of wire moves
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
