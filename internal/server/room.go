package server

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/FalconsSky/penguins/internal/network"
	"github.com/FalconsSky/penguins/pkg/game"
	"github.com/FalconsSky/penguins/pkg/models"
)

// Room hosts one game between two seated players plus any number of
// observers. Seat 0 always plays ONE and seat 1 plays TWO; ONE starts.
// All state behind mu; the move timer re-enters through handleMoveTimeout
// and checks moveSeq so a timeout never fires for a move already made.
type Room struct {
	ID        string
	CreatedAt time.Time

	server *Server
	log    zerolog.Logger

	mu        sync.Mutex
	status    string
	seats     [2]*seat
	reserved  bool // seats are claimed by reservation, not join order
	observers map[*Connection]bool

	state     game.GameState
	moves     []network.MovePayload
	startedAt time.Time

	moveLimit time.Duration
	moveTimer *time.Timer
	moveSeq   int
}

// seat binds a connection and its player record to a team. conn goes nil
// when the player disconnects; the player record stays for the archive.
type seat struct {
	conn   *Connection
	player *models.Player
	team   game.Team
}

func newRoom(id string, srv *Server, reserved bool) *Room {
	limit, _ := srv.config.Game.MoveTimeoutDuration()
	return &Room{
		ID:        id,
		CreatedAt: time.Now(),
		server:    srv,
		log:       srv.log.With().Str("room", id).Logger(),
		status:    models.RoomWaiting,
		reserved:  reserved,
		observers: make(map[*Connection]bool),
		moveLimit: limit,
	}
}

// Status returns the room's lifecycle state.
func (r *Room) Status() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// Info returns the admin API view of the room.
func (r *Room) Info() models.RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	info := models.RoomInfo{ID: r.ID, Status: r.status, CreatedAt: r.CreatedAt}
	for _, s := range r.seats {
		if s != nil {
			info.Players = append(info.Players, *s.player)
		}
	}
	if r.status != models.RoomWaiting {
		info.Turn = r.state.Progress.Turn
		info.Round = r.state.Progress.Round
	}
	return info
}

// AddPlayer seats a player in join order: the first to arrive plays ONE.
// The game starts as soon as both seats are taken.
func (r *Room) AddPlayer(conn *Connection, player *models.Player) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomWaiting {
		return fmt.Errorf("room %s is not accepting players", r.ID)
	}
	if r.reserved {
		return fmt.Errorf("room %s requires a reservation", r.ID)
	}

	idx := -1
	for i, s := range r.seats {
		if s == nil {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("room %s is full", r.ID)
	}
	r.seatPlayer(idx, conn, player)
	return nil
}

// AddReserved seats a player at the team its reservation names.
func (r *Room) AddReserved(conn *Connection, player *models.Player, team game.Team) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomWaiting {
		return fmt.Errorf("room %s is not accepting players", r.ID)
	}
	idx := int(team)
	if r.seats[idx] != nil {
		return fmt.Errorf("seat %s in room %s is taken", team, r.ID)
	}
	r.seatPlayer(idx, conn, player)
	return nil
}

// seatPlayer is the common tail of AddPlayer and AddReserved; r.mu held.
func (r *Room) seatPlayer(idx int, conn *Connection, player *models.Player) {
	team := game.Team(idx)
	player.Team = team.String()
	r.seats[idx] = &seat{conn: conn, player: player, team: team}

	conn.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeJoined,
		Payload: network.JoinedPayload{RoomID: r.ID},
	})
	r.log.Info().Str("player", player.Name).Str("team", team.String()).Msg("player seated")

	if r.seats[0] != nil && r.seats[1] != nil {
		r.start()
	}
}

// AddObserver subscribes a connection to the room's broadcasts. Observers
// joining mid-game get the current state right away.
func (r *Room) AddObserver(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.observers[conn] = true
	conn.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeJoined,
		Payload: network.JoinedPayload{RoomID: r.ID, Observer: true},
	})
	if r.status != models.RoomWaiting {
		conn.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypeState,
			Payload: network.EncodeState(r.state),
		})
	}
}

// start deals a board and opens the game; r.mu held.
func (r *Room) start() {
	seed := r.server.config.Game.BoardSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	board := game.RandomBoard(rand.New(rand.NewSource(seed)))

	r.state = game.NewInitialState(game.WelcomeMessage{Team: game.TeamOne}, game.TeamOne, board)
	r.status = models.RoomRunning
	r.startedAt = time.Now()

	for _, s := range r.seats {
		s.conn.SendMessage(&network.ServerMessage{
			Type:    network.MsgTypeWelcome,
			Payload: network.WelcomePayload{RoomID: r.ID, Team: s.team.String()},
		})
	}
	r.log.Info().
		Int64("seed", seed).
		Str("one", r.seats[0].player.Name).
		Str("two", r.seats[1].player.Name).
		Msg("game started")

	r.broadcastState()
	r.requestMove()
}

// HandleMove applies a move sent by conn. An out-of-turn or illegal move
// forfeits the game to the opponent.
func (r *Room) HandleMove(conn *Connection, payload network.MovePayload) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomRunning {
		conn.SendError("not_running", "No game is running in this room")
		return
	}
	s := r.seatByConn(conn)
	if s == nil {
		conn.SendError("not_playing", "Only seated players can move")
		return
	}
	if s.team != r.state.CurrentTeam() {
		r.log.Warn().Str("team", s.team.String()).Int("turn", r.state.Progress.Turn).
			Msg("move out of turn")
		r.finish(s.team.Opponent().String(), models.ReasonRuleViolation)
		return
	}

	move, err := network.DecodeMove(payload, s.team)
	if err != nil {
		r.log.Warn().Err(err).Str("team", s.team.String()).Msg("unreadable move")
		r.finish(s.team.Opponent().String(), models.ReasonRuleViolation)
		return
	}
	next, err := r.state.PerformMove(move)
	if err != nil {
		r.log.Warn().Err(err).Str("team", s.team.String()).Msg("illegal move")
		r.finish(s.team.Opponent().String(), models.ReasonRuleViolation)
		return
	}

	r.moveSeq++
	if r.moveTimer != nil {
		r.moveTimer.Stop()
	}
	r.state = next
	r.moves = append(r.moves, network.EncodeMove(move))

	r.broadcastState()
	r.requestMove()
}

// requestMove asks the team on turn for its move, or ends the game when
// neither team can move anymore; r.mu held.
func (r *Room) requestMove() {
	one := r.state.PossibleMoves(game.TeamOne)
	two := r.state.PossibleMoves(game.TeamTwo)
	if len(one) == 0 && len(two) == 0 {
		r.finish(winnerByScore(r.state.Score), models.ReasonRegular)
		return
	}

	team := r.state.CurrentTeam()
	r.seats[int(team)].conn.SendMessage(&network.ServerMessage{
		Type:    network.MsgTypeMoveRequest,
		Payload: network.MoveRequestPayload{TimeoutMS: r.moveLimit.Milliseconds()},
	})

	r.moveSeq++
	seq := r.moveSeq
	r.moveTimer = time.AfterFunc(r.moveLimit, func() { r.handleMoveTimeout(seq) })
}

// handleMoveTimeout forfeits the game when the team on turn let its move
// window lapse. seq tells a stale timer from the live one.
func (r *Room) handleMoveTimeout(seq int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.status != models.RoomRunning || seq != r.moveSeq {
		return
	}
	team := r.state.CurrentTeam()
	r.log.Warn().Str("team", team.String()).Int("turn", r.state.Progress.Turn).
		Msg("move timeout")
	r.finish(team.Opponent().String(), models.ReasonTimeout)
}

// RemoveConnection detaches a connection from the room. A seated player
// leaving a running game forfeits it.
func (r *Room) RemoveConnection(conn *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.observers[conn] {
		delete(r.observers, conn)
		return
	}
	s := r.seatByConn(conn)
	if s == nil {
		return
	}
	s.conn = nil
	s.player.Connected = false

	r.broadcast(&network.ServerMessage{
		Type: network.MsgTypeLeft,
		Payload: network.LeftPayload{
			RoomID: r.ID,
			Name:   s.player.Name,
			Team:   s.team.String(),
		},
	})
	r.log.Info().Str("player", s.player.Name).Str("team", s.team.String()).Msg("player left")

	switch r.status {
	case models.RoomWaiting:
		r.seats[int(s.team)] = nil
	case models.RoomRunning:
		r.finish(s.team.Opponent().String(), models.ReasonLeft)
	}
}

// finish closes the game, announces the result and hands the record to the
// archive; r.mu held. winner is empty on a draw.
func (r *Room) finish(winner, reason string) {
	if r.status == models.RoomFinished {
		return
	}
	r.status = models.RoomFinished
	r.moveSeq++
	if r.moveTimer != nil {
		r.moveTimer.Stop()
	}

	r.broadcast(&network.ServerMessage{
		Type: network.MsgTypeResult,
		Payload: network.ResultPayload{
			Winner: winner,
			Reason: reason,
			Score:  network.ScorePayload{One: r.state.Score.One, Two: r.state.Score.Two},
		},
	})
	r.log.Info().
		Str("winner", winner).
		Str("reason", reason).
		Int("score_one", r.state.Score.One).
		Int("score_two", r.state.Score.Two).
		Int("turns", r.state.Progress.Turn).
		Msg("game finished")

	r.archiveGame(winner, reason)
}

// archiveGame snapshots the finished game and saves it off the room lock.
func (r *Room) archiveGame(winner, reason string) {
	store := r.server.archive
	if store == nil {
		return
	}

	movesJSON, err := json.Marshal(r.moves)
	if err != nil {
		r.log.Error().Err(err).Msg("marshal move log")
		movesJSON = []byte("[]")
	}
	rec := models.GameRecord{
		ID:         uuid.NewString(),
		RoomID:     r.ID,
		PlayerOne:  r.seats[0].player.Name,
		PlayerTwo:  r.seats[1].player.Name,
		ScoreOne:   r.state.Score.One,
		ScoreTwo:   r.state.Score.Two,
		Winner:     winner,
		Reason:     reason,
		Moves:      string(movesJSON),
		StartedAt:  r.startedAt,
		FinishedAt: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.SaveGame(ctx, rec); err != nil {
			r.log.Error().Err(err).Str("game", rec.ID).Msg("archive game")
		}
	}()
}

// broadcastState sends the current state to every participant; r.mu held.
func (r *Room) broadcastState() {
	r.broadcast(&network.ServerMessage{
		Type:    network.MsgTypeState,
		Payload: network.EncodeState(r.state),
	})
}

// broadcast sends a message to both seats and all observers; r.mu held.
func (r *Room) broadcast(msg *network.ServerMessage) {
	for _, s := range r.seats {
		if s != nil && s.conn != nil {
			s.conn.SendMessage(msg)
		}
	}
	for conn := range r.observers {
		conn.SendMessage(msg)
	}
}

// seatByConn finds the seat a connection plays at, nil for observers and
// strangers; r.mu held.
func (r *Room) seatByConn(conn *Connection) *seat {
	for _, s := range r.seats {
		if s != nil && s.conn == conn {
			return s
		}
	}
	return nil
}

// winnerByScore names the team with more fish, empty on a tie.
func winnerByScore(s game.Score) string {
	switch {
	case s.One > s.Two:
		return game.TeamOne.String()
	case s.Two > s.One:
		return game.TeamTwo.String()
	default:
		return ""
	}
}
