package network

import (
	"fmt"

	"github.com/FalconsSky/penguins/pkg/game"
	"github.com/FalconsSky/penguins/pkg/hex"
)

// EncodeCoord converts an engine coordinate to its wire form.
func EncodeCoord(c hex.Coordinate) CoordPayload {
	return CoordPayload{X: c.X, Y: c.Y}
}

// DecodeCoord validates and converts a wire coordinate.
func DecodeCoord(p CoordPayload) (hex.Coordinate, error) {
	c := hex.Coordinate{X: p.X, Y: p.Y}
	if !c.Valid() {
		return hex.Coordinate{}, fmt.Errorf("coordinate (%d,%d) is not on the board", p.X, p.Y)
	}
	return c, nil
}

// EncodeMove converts an engine move to its wire form, team included.
func EncodeMove(m game.Move) MovePayload {
	p := MovePayload{
		Team: m.Team().String(),
		To:   EncodeCoord(m.To()),
	}
	if from, ok := m.From(); ok {
		fc := EncodeCoord(from)
		p.From = &fc
	}
	return p
}

// DecodeMove converts a wire move into an engine move acted by team. The
// Team field of the payload is ignored.
func DecodeMove(p MovePayload, team game.Team) (game.Move, error) {
	to, err := DecodeCoord(p.To)
	if err != nil {
		return game.Move{}, fmt.Errorf("move destination: %w", err)
	}
	if p.From == nil {
		return game.Placement(to, team), nil
	}
	from, err := DecodeCoord(*p.From)
	if err != nil {
		return game.Move{}, fmt.Errorf("move origin: %w", err)
	}
	return game.Slide(from, to, team), nil
}

// EncodeState converts a game state to its wire form.
func EncodeState(s game.GameState) StatePayload {
	board := make([][]CellPayload, hex.Height)
	for y := 0; y < hex.Height; y++ {
		row := make([]CellPayload, hex.Width)
		for x := 0; x < hex.Width; x++ {
			f := s.Board.FieldAt(hex.FromIndex(y*hex.Width + x))
			if f.Penguin != nil {
				row[x] = CellPayload{Penguin: f.Penguin.Team.String()}
			} else {
				row[x] = CellPayload{Fish: f.Fish}
			}
		}
		board[y] = row
	}

	p := StatePayload{
		StartTeam: s.StartTeam.String(),
		Turn:      s.Progress.Turn,
		Round:     s.Progress.Round,
		Score:     ScorePayload{One: s.Score.One, Two: s.Score.Two},
		Board:     board,
	}
	if s.LastMove != nil {
		m := EncodeMove(*s.LastMove)
		p.LastMove = &m
	}
	return p
}

// DecodeState rebuilds an engine state from its wire form for an instance
// playing as the given team.
func DecodeState(p StatePayload, as game.Team) (game.GameState, error) {
	startTeam, err := game.ParseTeam(p.StartTeam)
	if err != nil {
		return game.GameState{}, fmt.Errorf("start team: %w", err)
	}
	if len(p.Board) != hex.Height {
		return game.GameState{}, fmt.Errorf("board has %d rows, want %d", len(p.Board), hex.Height)
	}

	var board game.Board
	for y, row := range p.Board {
		if len(row) != hex.Width {
			return game.GameState{}, fmt.Errorf("board row %d has %d cells, want %d", y, len(row), hex.Width)
		}
		for x, cell := range row {
			i := y*hex.Width + x
			switch {
			case cell.Penguin != "":
				team, err := game.ParseTeam(cell.Penguin)
				if err != nil {
					return game.GameState{}, fmt.Errorf("cell (%d,%d): %w", x, y, err)
				}
				if team == game.TeamOne {
					board.One = board.One.Set(i)
				} else {
					board.Two = board.Two.Set(i)
				}
			case cell.Fish != 0:
				switch cell.Fish {
				case 1:
					board.Fish1 = board.Fish1.Set(i)
				case 2:
					board.Fish2 = board.Fish2.Set(i)
				case 3:
					board.Fish3 = board.Fish3.Set(i)
				case 4:
					board.Fish4 = board.Fish4.Set(i)
				default:
					return game.GameState{}, fmt.Errorf("cell (%d,%d) holds %d fish, want 0-4", x, y, cell.Fish)
				}
			}
		}
	}

	var lastMove *game.Move
	if p.LastMove != nil {
		team, err := game.ParseTeam(p.LastMove.Team)
		if err != nil {
			return game.GameState{}, fmt.Errorf("last move: %w", err)
		}
		m, err := DecodeMove(*p.LastMove, team)
		if err != nil {
			return game.GameState{}, fmt.Errorf("last move: %w", err)
		}
		lastMove = &m
	}

	return game.NewGameState(
		game.WelcomeMessage{Team: as},
		startTeam,
		board,
		game.Progress{Turn: p.Turn, Round: p.Round},
		game.Score{One: p.Score.One, Two: p.Score.Two},
		lastMove,
	), nil
}
