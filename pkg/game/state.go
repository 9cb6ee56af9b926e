// Package game implements the rules of the penguin game: two teams on an
// 8x8 hex board first place four penguins each on single-fish cells, then
// slide them along unbroken runs of fish-bearing cells, harvesting the
// fish of every cell they land on. Vacated cells keep no fish and so turn
// into holes that block later slides; the team with the larger tally when
// neither side can move wins.
//
// The package provides move enumeration, legality checks and pure state
// transitions. Every type is an immutable value: transitions return new
// values, so independent game lineages can be explored concurrently
// without locking.
package game

import "fmt"

// GameState is one snapshot of a running game. States are persistent:
// PerformMove returns a new state and never alters the receiver.
type GameState struct {
	// Welcome records which team this instance plays as.
	Welcome WelcomeMessage
	// StartTeam moves on even turns, its opponent on odd ones.
	StartTeam Team
	Board     Board
	Progress  Progress
	Score     Score
	// LastMove is nil only for the initial state.
	LastMove *Move
}

// NewGameState assembles a state from a full snapshot.
func NewGameState(welcome WelcomeMessage, startTeam Team, board Board, progress Progress, score Score, lastMove *Move) GameState {
	return GameState{
		Welcome:   welcome,
		StartTeam: startTeam,
		Board:     board,
		Progress:  progress,
		Score:     score,
		LastMove:  lastMove,
	}
}

// NewInitialState returns the turn-zero state for a fresh board.
func NewInitialState(welcome WelcomeMessage, startTeam Team, board Board) GameState {
	return GameState{
		Welcome:   welcome,
		StartTeam: startTeam,
		Board:     board,
		Progress:  Progress{Round: 1},
	}
}

// teamOnTurn is the plain parity rule, before the skip rule is applied.
func (s GameState) teamOnTurn() Team {
	switch s.Progress.Turn % 2 {
	case 0:
		return s.StartTeam
	case 1:
		return s.StartTeam.Opponent()
	default:
		panic(fmt.Sprintf("game: turn %d has impossible parity", s.Progress.Turn))
	}
}

// CurrentTeam resolves whose turn it is. A team with no legal moves is
// skipped while its opponent still has some; otherwise turn parity
// decides, with StartTeam on even turns. When neither team can move the
// parity team is reported and the game is over; callers detect that by
// checking PossibleMoves for both teams.
func (s GameState) CurrentTeam() Team {
	oneStuck := len(s.PossibleMoves(TeamOne)) == 0
	twoStuck := len(s.PossibleMoves(TeamTwo)) == 0
	if oneStuck && !twoStuck {
		return TeamTwo
	}
	if twoStuck && !oneStuck {
		return TeamOne
	}
	return s.teamOnTurn()
}

// Opponent returns the opponent of the team currently on turn.
func (s GameState) Opponent() Team { return s.CurrentTeam().Opponent() }

// PossibleMoves enumerates every legal move for team. While the team has
// penguins left to place, each single-fish cell is one placement
// candidate; afterwards the moves are the slides of its placed penguins.
// The order is deterministic for a given board: ascending bit index, then
// directions clockwise from right.
func (s GameState) PossibleMoves(team Team) []Move {
	if s.Board.PenguinsOf(team).Count() < PenguinsPerTeam {
		cells := s.Board.Fish1.Coordinates()
		moves := make([]Move, 0, len(cells))
		for _, c := range cells {
			moves = append(moves, Placement(c, team))
		}
		return moves
	}
	var moves []Move
	for _, c := range s.Board.PenguinsOf(team).Coordinates() {
		moves = append(moves, s.Board.PossibleMovesFrom(c, team)...)
	}
	return moves
}

// IsValidMove reports whether m is among the legal moves of its team.
func (s GameState) IsValidMove(m Move) bool {
	for _, legal := range s.PossibleMoves(m.Team()) {
		if legal == m {
			return true
		}
	}
	return false
}

// PerformMove applies m and returns the resulting state. The acting team
// banks the fish of the destination cell as it stood before the move; the
// opponent's tally, Welcome and StartTeam carry over unchanged. An illegal
// move returns an error wrapping ErrInvalidMove and no new state: hitting
// that path is a caller bug, since legal moves come from PossibleMoves and
// can be pre-checked with IsValidMove.
func (s GameState) PerformMove(m Move) (GameState, error) {
	if !s.IsValidMove(m) {
		return GameState{}, fmt.Errorf("%w: %s on turn %d", ErrInvalidMove, m, s.Progress.Turn)
	}
	gained := s.Board.FishAt(m.To())
	next := s
	next.Board = s.Board.ApplyMove(m)
	next.Score = s.Score.Add(m.Team(), gained)
	next.Progress = s.Progress.Advance()
	last := m
	next.LastMove = &last
	return next, nil
}
