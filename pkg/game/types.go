package game

import "fmt"

// PenguinsPerTeam is how many penguins a team places before its movement
// phase begins.
const PenguinsPerTeam = 4

// Team identifies one of the two players.
type Team uint8

const (
	TeamOne Team = iota
	TeamTwo
)

// Opponent returns the other team.
func (t Team) Opponent() Team {
	if t == TeamOne {
		return TeamTwo
	}
	return TeamOne
}

func (t Team) String() string {
	if t == TeamOne {
		return "ONE"
	}
	return "TWO"
}

// ParseTeam converts a team's wire name ("ONE" or "TWO") back to a Team.
func ParseTeam(s string) (Team, error) {
	switch s {
	case "ONE":
		return TeamOne, nil
	case "TWO":
		return TeamTwo, nil
	}
	return TeamOne, fmt.Errorf("unknown team %q", s)
}

// Score holds both teams' fish tallies.
type Score struct {
	One int
	Two int
}

// Of returns team t's tally.
func (s Score) Of(t Team) int {
	if t == TeamOne {
		return s.One
	}
	return s.Two
}

// Add returns a new Score with fish added to team t's tally.
func (s Score) Add(t Team, fish int) Score {
	if t == TeamOne {
		s.One += fish
	} else {
		s.Two += fish
	}
	return s
}

// Progress tracks how far a game has advanced: Turn counts applied moves
// starting at 0, Round groups two turns starting at 1.
type Progress struct {
	Round int
	Turn  int
}

// Advance returns the progress after one more move.
func (p Progress) Advance() Progress {
	return Progress{Turn: p.Turn + 1, Round: RoundOf(p.Turn + 1)}
}

// RoundOf returns the 1-based round a turn number belongs to.
func RoundOf(turn int) int { return turn/2 + 1 }

// WelcomeMessage records which team this engine instance plays as. It is
// assigned when the game is joined and never changes afterwards.
type WelcomeMessage struct {
	Team Team
}
