package game

import (
	"fmt"

	"github.com/FalconsSky/penguins/pkg/hex"
)

// Move is a single action by a team: placing a new penguin (no origin) or
// sliding an already placed one. Moves are comparable values; two moves
// are the same move exactly when origin, destination and team all match.
type Move struct {
	from    hex.Coordinate
	hasFrom bool
	to      hex.Coordinate
	team    Team
}

// Placement returns a placement move putting a penguin of team on to.
func Placement(to hex.Coordinate, team Team) Move {
	return Move{to: to, team: team}
}

// Slide returns a movement-phase move of team's penguin from from to to.
func Slide(from, to hex.Coordinate, team Team) Move {
	return Move{from: from, hasFrom: true, to: to, team: team}
}

// From returns the origin coordinate and whether the move has one;
// placement moves have none.
func (m Move) From() (hex.Coordinate, bool) { return m.from, m.hasFrom }

// To returns the destination coordinate.
func (m Move) To() hex.Coordinate { return m.to }

// Team returns the acting team.
func (m Move) Team() Team { return m.team }

// IsPlacement reports whether the move places a new penguin.
func (m Move) IsPlacement() bool { return !m.hasFrom }

func (m Move) String() string {
	if m.hasFrom {
		return fmt.Sprintf("%s %s->%s", m.team, m.from, m.to)
	}
	return fmt.Sprintf("%s place %s", m.team, m.to)
}
