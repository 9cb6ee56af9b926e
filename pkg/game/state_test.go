package game

import (
	"errors"
	"math/rand"
	"testing"
)

func totalFish(b Board) int {
	return b.Fish1.Count() + 2*b.Fish2.Count() + 3*b.Fish3.Count() + 4*b.Fish4.Count()
}

// movementBoard returns a board with all eight penguins placed: ONE along
// the top row, TWO along the bottom row, a single fish everywhere else.
func movementBoard() Board {
	one := BB(0) | BB(2) | BB(4) | BB(6)
	two := BB(56) | BB(58) | BB(60) | BB(62)
	return Board{
		One:   one,
		Two:   two,
		Fish1: ^Bitboard(0) &^ (one | two),
	}
}

func TestInitialPlacement(t *testing.T) {
	fish1 := BB(0) | BB(5) | BB(9) | BB(14) | BB(22) | BB(27) | BB(35) | BB(40) | BB(51) | BB(63)
	s := NewInitialState(WelcomeMessage{Team: TeamOne}, TeamOne, Board{Fish1: fish1})

	if got := s.CurrentTeam(); got != TeamOne {
		t.Fatalf("CurrentTeam at turn 0 = %v, want ONE", got)
	}
	if got := s.Opponent(); got != TeamTwo {
		t.Fatalf("Opponent = %v, want TWO", got)
	}

	moves := s.PossibleMoves(TeamOne)
	if len(moves) != 10 {
		t.Fatalf("placement moves = %d, want 10", len(moves))
	}

	target := moves[2]
	next, err := s.PerformMove(target)
	if err != nil {
		t.Fatalf("PerformMove(%v): %v", target, err)
	}
	if next.Progress.Turn != 1 || next.Progress.Round != 1 {
		t.Fatalf("progress = %+v, want turn 1 round 1", next.Progress)
	}
	if next.Score.One != 1 || next.Score.Two != 0 {
		t.Fatalf("score = %+v, want 1/0", next.Score)
	}
	f := next.Board.FieldAt(target.To())
	if f.Penguin == nil || f.Penguin.Team != TeamOne || f.Fish != 0 {
		t.Fatalf("destination field = %+v, want ONE penguin with no fish", f)
	}
	if next.LastMove == nil || *next.LastMove != target {
		t.Fatalf("LastMove = %v, want %v", next.LastMove, target)
	}
	if next.Welcome != s.Welcome || next.StartTeam != s.StartTeam {
		t.Fatalf("welcome/start team changed: %+v", next)
	}
	if s.Progress.Turn != 0 || s.Board.Occupied() != 0 {
		t.Fatalf("original state was mutated: %+v", s)
	}
	if got := next.CurrentTeam(); got != TeamTwo {
		t.Fatalf("CurrentTeam at turn 1 = %v, want TWO", got)
	}
}

func TestPlacementCardinality(t *testing.T) {
	fish1 := BB(3) | BB(11) | BB(30) | BB(44) | BB(50)
	b := Board{
		One:   BB(0) | BB(1) | BB(2), // three placed, still placing
		Fish1: fish1,
		Fish2: BB(20) | BB(21),
	}
	s := NewInitialState(WelcomeMessage{Team: TeamTwo}, TeamOne, b)

	for _, team := range []Team{TeamOne, TeamTwo} {
		moves := s.PossibleMoves(team)
		if len(moves) != fish1.Count() {
			t.Fatalf("%v placement moves = %d, want %d", team, len(moves), fish1.Count())
		}
		seen := make(map[Move]bool)
		for _, m := range moves {
			if !m.IsPlacement() {
				t.Fatalf("%v move %v has an origin during placement", team, m)
			}
			if seen[m] {
				t.Fatalf("duplicate placement %v", m)
			}
			seen[m] = true
			if s.Board.FishAt(m.To()) != 1 {
				t.Fatalf("placement target %v does not hold exactly one fish", m.To())
			}
		}
	}
}

func TestMovementPhaseMovesAllPerform(t *testing.T) {
	s := NewInitialState(WelcomeMessage{Team: TeamOne}, TeamOne, movementBoard())
	for _, team := range []Team{TeamOne, TeamTwo} {
		moves := s.PossibleMoves(team)
		if len(moves) == 0 {
			t.Fatalf("%v has no movement-phase moves", team)
		}
		for _, m := range moves {
			if m.IsPlacement() {
				t.Fatalf("%v placement %v in movement phase", team, m)
			}
			if _, err := s.PerformMove(m); err != nil {
				t.Fatalf("legal move %v rejected: %v", m, err)
			}
		}
	}
}

func TestPerformMoveRejectsIllegal(t *testing.T) {
	s := NewInitialState(WelcomeMessage{Team: TeamOne}, TeamOne, movementBoard())

	cases := []Move{
		Placement(at(3, 1), TeamOne),       // placements are over
		Slide(at(0, 0), at(0, 0), TeamOne), // no move at all
		Slide(at(0, 0), at(4, 0), TeamOne), // destination occupied
		Slide(at(0, 0), at(3, 3), TeamTwo), // not TWO's penguin
		Slide(at(2, 0), at(6, 2), TeamOne), // empty origin cell
		Slide(at(0, 0), at(5, 3), TeamOne), // not on a straight line
	}
	for _, m := range cases {
		if s.IsValidMove(m) {
			t.Errorf("IsValidMove(%v) = true, want false", m)
		}
		if _, err := s.PerformMove(m); !errors.Is(err, ErrInvalidMove) {
			t.Errorf("PerformMove(%v) error = %v, want ErrInvalidMove", m, err)
		}
	}
}

func TestSkipRule(t *testing.T) {
	// ONE's penguins sit in the top row surrounded by holes; TWO still has
	// a fish run in the bottom row. Even turn parity would pick ONE, the
	// skip rule hands the move to TWO.
	b := Board{
		One:   BB(0) | BB(2) | BB(4) | BB(6),
		Two:   BB(56) | BB(58) | BB(60) | BB(62),
		Fish1: BB(57),
	}
	s := NewGameState(WelcomeMessage{Team: TeamOne}, TeamOne, b, Progress{Round: 2, Turn: 2}, Score{}, nil)
	t.Logf("board:\n%s", b)

	if got := len(s.PossibleMoves(TeamOne)); got != 0 {
		t.Fatalf("ONE moves = %d, want 0", got)
	}
	if got := len(s.PossibleMoves(TeamTwo)); got == 0 {
		t.Fatalf("TWO moves = 0, want some")
	}
	if got := s.CurrentTeam(); got != TeamTwo {
		t.Fatalf("CurrentTeam = %v, want TWO via skip rule", got)
	}

	// Mirrored: TWO stuck, ONE free, odd parity would pick TWO.
	m := Board{
		One:   b.Two,
		Two:   b.One,
		Fish1: BB(57),
	}
	ms := NewGameState(WelcomeMessage{Team: TeamOne}, TeamOne, m, Progress{Round: 2, Turn: 3}, Score{}, nil)
	if got := ms.CurrentTeam(); got != TeamOne {
		t.Fatalf("CurrentTeam = %v, want ONE via skip rule", got)
	}
}

func TestCurrentTeamBothStuckFallsBackToParity(t *testing.T) {
	b := Board{
		One: BB(0) | BB(2) | BB(4) | BB(6),
		Two: BB(56) | BB(58) | BB(60) | BB(62),
	}
	s := NewGameState(WelcomeMessage{Team: TeamOne}, TeamOne, b, Progress{Round: 2, Turn: 2}, Score{}, nil)
	if got := s.CurrentTeam(); got != TeamOne {
		t.Fatalf("CurrentTeam = %v, want parity team ONE", got)
	}
	s.Progress.Turn = 3
	if got := s.CurrentTeam(); got != TeamTwo {
		t.Fatalf("CurrentTeam = %v, want parity team TWO", got)
	}
}

func TestCurrentTeamHonorsStartTeam(t *testing.T) {
	fish1 := BB(10) | BB(20) | BB(30) | BB(40) | BB(41) | BB(42) | BB(43) | BB(44)
	s := NewInitialState(WelcomeMessage{Team: TeamOne}, TeamTwo, Board{Fish1: fish1})
	if got := s.CurrentTeam(); got != TeamTwo {
		t.Fatalf("CurrentTeam with start team TWO = %v, want TWO", got)
	}
}

func TestRoundOf(t *testing.T) {
	cases := []struct{ turn, want int }{
		{0, 1}, {1, 1}, {2, 2}, {3, 2}, {7, 4}, {8, 5},
	}
	for _, tc := range cases {
		if got := RoundOf(tc.turn); got != tc.want {
			t.Errorf("RoundOf(%d) = %d, want %d", tc.turn, got, tc.want)
		}
	}
}

func TestRandomPlayout(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	board := RandomBoard(r)
	initialFish := totalFish(board)
	s := NewInitialState(WelcomeMessage{Team: TeamOne}, TeamOne, board)

	for steps := 0; ; steps++ {
		if steps > 300 {
			t.Fatalf("game did not finish after %d moves", steps)
		}
		if len(s.PossibleMoves(TeamOne)) == 0 && len(s.PossibleMoves(TeamTwo)) == 0 {
			break
		}

		team := s.CurrentTeam()
		moves := s.PossibleMoves(team)
		if len(moves) == 0 {
			t.Fatalf("current team %v has no moves on turn %d", team, s.Progress.Turn)
		}
		m := moves[r.Intn(len(moves))]
		if !s.IsValidMove(m) {
			t.Fatalf("enumerated move %v not valid on turn %d", m, s.Progress.Turn)
		}

		gained := s.Board.FishAt(m.To())
		next, err := s.PerformMove(m)
		if err != nil {
			t.Fatalf("PerformMove(%v) on turn %d: %v", m, s.Progress.Turn, err)
		}
		if next.Progress.Turn != s.Progress.Turn+1 {
			t.Fatalf("turn %d -> %d, want +1", s.Progress.Turn, next.Progress.Turn)
		}
		if next.Progress.Round != RoundOf(next.Progress.Turn) {
			t.Fatalf("round = %d on turn %d, want %d", next.Progress.Round, next.Progress.Turn, RoundOf(next.Progress.Turn))
		}
		if next.Board.One&next.Board.Two != 0 {
			t.Fatalf("occupancy masks overlap after %v:\n%s", m, next.Board)
		}
		if next.Score.Of(team) != s.Score.Of(team)+gained {
			t.Fatalf("%v score = %d, want %d+%d", team, next.Score.Of(team), s.Score.Of(team), gained)
		}
		if next.Score.Of(team.Opponent()) != s.Score.Of(team.Opponent()) {
			t.Fatalf("opponent score changed after %v", m)
		}
		if next.LastMove == nil || *next.LastMove != m {
			t.Fatalf("LastMove = %v, want %v", next.LastMove, m)
		}
		s = next
	}

	if s.Progress.Turn < 2*PenguinsPerTeam {
		t.Fatalf("game over after %d turns, before placement could finish", s.Progress.Turn)
	}
	if got := s.Score.One + s.Score.Two + totalFish(s.Board); got != initialFish {
		t.Fatalf("fish not conserved: %d banked+left, started with %d", got, initialFish)
	}
	t.Logf("final after %d turns, score %d:%d\n%s", s.Progress.Turn, s.Score.One, s.Score.Two, s.Board)
}
