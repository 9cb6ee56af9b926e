package game

import (
	"strings"

	"github.com/FalconsSky/penguins/pkg/hex"
)

// Board is the complete cell state as bit masks over the 64 cells: one
// occupancy mask per team plus one mask per fish count. A cell appears in
// at most one occupancy mask and at most one fish layer, never both, since
// a penguin harvests the fish of the cell it lands on. A cell in no mask
// at all is a hole.
//
// Board is a value; transitions return a new Board and never modify the
// receiver.
type Board struct {
	One   Bitboard
	Two   Bitboard
	Fish1 Bitboard
	Fish2 Bitboard
	Fish3 Bitboard
	Fish4 Bitboard
}

// Penguin is a team's token standing on a board cell.
type Penguin struct {
	Position hex.Coordinate
	Team     Team
}

// Field is the classification of a single cell: occupied by a penguin,
// holding fish, or empty.
type Field struct {
	Coord   hex.Coordinate
	Penguin *Penguin
	Fish    int
}

// IsEmpty reports whether the field holds neither a penguin nor fish.
func (f Field) IsEmpty() bool { return f.Penguin == nil && f.Fish == 0 }

// Occupied returns the union of both occupancy masks.
func (b Board) Occupied() Bitboard { return b.One | b.Two }

// PenguinsOf returns team t's occupancy mask.
func (b Board) PenguinsOf(t Team) Bitboard {
	if t == TeamOne {
		return b.One
	}
	return b.Two
}

// FishAt returns the fish count at c, 0 when the cell is a hole, occupied
// or off the board.
func (b Board) FishAt(c hex.Coordinate) int {
	i, ok := c.Index()
	if !ok {
		return 0
	}
	switch {
	case b.Fish1.Has(i):
		return 1
	case b.Fish2.Has(i):
		return 2
	case b.Fish3.Has(i):
		return 3
	case b.Fish4.Has(i):
		return 4
	}
	return 0
}

// FieldAt classifies the cell at c. Off-board coordinates classify as
// empty.
func (b Board) FieldAt(c hex.Coordinate) Field {
	f := Field{Coord: c}
	i, ok := c.Index()
	if !ok {
		return f
	}
	switch {
	case b.One.Has(i):
		f.Penguin = &Penguin{Position: c, Team: TeamOne}
	case b.Two.Has(i):
		f.Penguin = &Penguin{Position: c, Team: TeamTwo}
	default:
		f.Fish = b.FishAt(c)
	}
	return f
}

// PossibleMovesFrom returns the legal slides for a penguin of team t
// standing at from. In each direction the penguin may stop on any cell of
// the unbroken run of unoccupied fish-bearing cells; the first hole,
// penguin or the board edge ends the run. Returns nil when from does not
// hold a penguin of t.
func (b Board) PossibleMovesFrom(from hex.Coordinate, t Team) []Move {
	i, ok := from.Index()
	if !ok || !b.PenguinsOf(t).Has(i) {
		return nil
	}
	occupied := b.Occupied()
	var moves []Move
	for d := range hex.Directions {
		for _, c := range from.Ray(hex.Direction(d)) {
			j, _ := c.Index()
			if occupied.Has(j) || b.FishAt(c) == 0 {
				break
			}
			moves = append(moves, Slide(from, c, t))
		}
	}
	return moves
}

// ApplyMove returns the board after m: the origin (when present) is
// vacated, the destination is taken by the acting team and the
// destination's fish layer membership is cleared. ApplyMove does not check
// legality; callers validate through GameState first.
func (b Board) ApplyMove(m Move) Board {
	ti, ok := m.To().Index()
	if !ok {
		return b
	}
	if from, has := m.From(); has {
		if fi, ok := from.Index(); ok {
			if m.Team() == TeamOne {
				b.One = b.One.Clear(fi)
			} else {
				b.Two = b.Two.Clear(fi)
			}
		}
	}
	if m.Team() == TeamOne {
		b.One = b.One.Set(ti)
	} else {
		b.Two = b.Two.Set(ti)
	}
	b.Fish1 = b.Fish1.Clear(ti)
	b.Fish2 = b.Fish2.Clear(ti)
	b.Fish3 = b.Fish3.Clear(ti)
	b.Fish4 = b.Fish4.Clear(ti)
	return b
}

// String renders the board row by row with odd rows shifted right to
// suggest the hex stagger: O and X are penguins of ONE and TWO, digits are
// fish counts, dots are holes.
func (b Board) String() string {
	var sb strings.Builder
	for y := 0; y < hex.Height; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		if y%2 == 1 {
			sb.WriteByte(' ')
		}
		for x := 0; x < hex.Width; x++ {
			if x > 0 {
				sb.WriteByte(' ')
			}
			i := y*hex.Width + x
			switch {
			case b.One.Has(i):
				sb.WriteByte('O')
			case b.Two.Has(i):
				sb.WriteByte('X')
			default:
				if f := b.FishAt(hex.FromIndex(i)); f > 0 {
					sb.WriteByte(byte('0' + f))
				} else {
					sb.WriteByte('.')
				}
			}
		}
	}
	return sb.String()
}
