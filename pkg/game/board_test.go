package game

import (
	"testing"

	"github.com/FalconsSky/penguins/pkg/hex"
)

func at(x, y int) hex.Coordinate { return hex.Coordinate{X: x, Y: y} }

func TestFieldAt(t *testing.T) {
	b := Board{
		One:   BB(0), // (0,0)
		Two:   BB(8), // (1,1)
		Fish2: BB(1), // (2,0)
		Fish4: BB(9), // (3,1)
	}

	f := b.FieldAt(at(0, 0))
	if f.Penguin == nil || f.Penguin.Team != TeamOne || f.Fish != 0 {
		t.Fatalf("FieldAt(0,0) = %+v, want ONE penguin", f)
	}
	f = b.FieldAt(at(1, 1))
	if f.Penguin == nil || f.Penguin.Team != TeamTwo {
		t.Fatalf("FieldAt(1,1) = %+v, want TWO penguin", f)
	}
	f = b.FieldAt(at(2, 0))
	if f.Penguin != nil || f.Fish != 2 {
		t.Fatalf("FieldAt(2,0) = %+v, want 2 fish", f)
	}
	f = b.FieldAt(at(3, 1))
	if f.Fish != 4 {
		t.Fatalf("FieldAt(3,1) = %+v, want 4 fish", f)
	}
	f = b.FieldAt(at(4, 0))
	if !f.IsEmpty() {
		t.Fatalf("FieldAt(4,0) = %+v, want empty", f)
	}
	f = b.FieldAt(at(-2, 0))
	if !f.IsEmpty() {
		t.Fatalf("FieldAt(-2,0) = %+v, want empty", f)
	}
}

func TestPossibleMovesFrom(t *testing.T) {
	// ONE sits in the top-left corner. To the right: two fish cells, then a
	// hole. Down-right: two fish cells, then a TWO penguin.
	b := Board{
		One:   BB(0),                          // (0,0)
		Two:   BB(25),                         // (3,3)
		Fish1: BB(1) | BB(2) | BB(8) | BB(17), // (2,0) (4,0) (1,1) (2,2)
	}
	t.Logf("board:\n%s", b)

	moves := b.PossibleMovesFrom(at(0, 0), TeamOne)
	want := map[hex.Coordinate]bool{
		at(2, 0): true,
		at(4, 0): true,
		at(1, 1): true,
		at(2, 2): true,
	}
	if len(moves) != len(want) {
		t.Fatalf("got %d moves %v, want %d", len(moves), moves, len(want))
	}
	for _, m := range moves {
		if !want[m.To()] {
			t.Errorf("unexpected destination %v", m.To())
		}
		if from, ok := m.From(); !ok || from != at(0, 0) {
			t.Errorf("move %v has origin %v, %v, want (0,0)", m, from, ok)
		}
		if m.Team() != TeamOne {
			t.Errorf("move %v acting team = %v, want ONE", m, m.Team())
		}
	}
}

func TestPossibleMovesFromRequiresOwnPenguin(t *testing.T) {
	b := Board{
		One:   BB(0),
		Fish1: BB(1),
	}
	if got := b.PossibleMovesFrom(at(0, 0), TeamTwo); got != nil {
		t.Fatalf("moves for TWO from ONE's cell = %v, want nil", got)
	}
	if got := b.PossibleMovesFrom(at(4, 4), TeamOne); got != nil {
		t.Fatalf("moves from empty cell = %v, want nil", got)
	}
	if got := b.PossibleMovesFrom(at(-2, 0), TeamOne); got != nil {
		t.Fatalf("moves from off-board cell = %v, want nil", got)
	}
}

func TestApplyMovePlacement(t *testing.T) {
	b := Board{Fish1: BB(1) | BB(2)}
	got := b.ApplyMove(Placement(at(2, 0), TeamTwo))

	if !got.Two.Has(1) {
		t.Fatalf("destination not occupied by TWO:\n%s", got)
	}
	if got.Fish1.Has(1) {
		t.Fatalf("destination fish not harvested:\n%s", got)
	}
	if !got.Fish1.Has(2) {
		t.Fatalf("unrelated fish cell changed:\n%s", got)
	}
	if b.Two != 0 || !b.Fish1.Has(1) {
		t.Fatalf("receiver board was modified:\n%s", b)
	}
}

func TestApplyMoveSlide(t *testing.T) {
	b := Board{
		One:   BB(0),
		Fish1: BB(1),
		Fish3: BB(2),
	}
	got := b.ApplyMove(Slide(at(0, 0), at(4, 0), TeamOne))

	if got.One.Has(0) {
		t.Fatalf("origin still occupied:\n%s", got)
	}
	if !got.One.Has(2) {
		t.Fatalf("destination not occupied:\n%s", got)
	}
	if got.Fish3.Has(2) {
		t.Fatalf("destination fish not harvested:\n%s", got)
	}
	if !got.Fish1.Has(1) {
		t.Fatalf("traversed cell lost its fish:\n%s", got)
	}
	if got.One&got.Two != 0 {
		t.Fatalf("occupancy masks overlap:\n%s", got)
	}
}
