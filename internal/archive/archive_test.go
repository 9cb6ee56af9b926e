package archive

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/FalconsSky/penguins/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "archive", "games.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleRecord(id string, finished time.Time) models.GameRecord {
	return models.GameRecord{
		ID:         id,
		RoomID:     "room-" + id,
		PlayerOne:  "alice",
		PlayerTwo:  "bob",
		ScoreOne:   24,
		ScoreTwo:   19,
		Winner:     "ONE",
		Reason:     models.ReasonRegular,
		Moves:      `[{"to":{"x":0,"y":0}}]`,
		StartedAt:  finished.Add(-10 * time.Minute),
		FinishedAt: finished,
	}
}

func TestSaveAndGetGame(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	want := sampleRecord("g1", time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	if err := store.SaveGame(ctx, want); err != nil {
		t.Fatalf("SaveGame() error = %v", err)
	}

	got, err := store.GetGame(ctx, "g1")
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if got.ID != want.ID || got.RoomID != want.RoomID {
		t.Errorf("GetGame() ids = %q/%q, want %q/%q", got.ID, got.RoomID, want.ID, want.RoomID)
	}
	if got.PlayerOne != want.PlayerOne || got.PlayerTwo != want.PlayerTwo {
		t.Errorf("GetGame() players = %q/%q, want %q/%q", got.PlayerOne, got.PlayerTwo, want.PlayerOne, want.PlayerTwo)
	}
	if got.ScoreOne != want.ScoreOne || got.ScoreTwo != want.ScoreTwo {
		t.Errorf("GetGame() score = %d:%d, want %d:%d", got.ScoreOne, got.ScoreTwo, want.ScoreOne, want.ScoreTwo)
	}
	if got.Winner != want.Winner || got.Reason != want.Reason {
		t.Errorf("GetGame() result = %q/%q, want %q/%q", got.Winner, got.Reason, want.Winner, want.Reason)
	}
	if got.Moves != want.Moves {
		t.Errorf("GetGame() moves = %q, want %q", got.Moves, want.Moves)
	}
	if !got.StartedAt.Equal(want.StartedAt) || !got.FinishedAt.Equal(want.FinishedAt) {
		t.Errorf("GetGame() times = %v/%v, want %v/%v", got.StartedAt, got.FinishedAt, want.StartedAt, want.FinishedAt)
	}
}

func TestGetGameMissing(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetGame(context.Background(), "nope")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetGame() error = %v, want ErrNotFound", err)
	}
}

func TestListGamesNewestFirst(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		rec := sampleRecord(id, base.Add(time.Duration(i)*time.Hour))
		if err := store.SaveGame(ctx, rec); err != nil {
			t.Fatalf("SaveGame(%s) error = %v", id, err)
		}
	}

	games, err := store.ListGames(ctx, 2)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(games) != 2 {
		t.Fatalf("ListGames() returned %d games, want 2", len(games))
	}
	if games[0].ID != "new" || games[1].ID != "mid" {
		t.Errorf("ListGames() order = %q, %q, want new, mid", games[0].ID, games[1].ID)
	}

	all, err := store.ListGames(ctx, 0)
	if err != nil {
		t.Fatalf("ListGames() error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListGames(0) returned %d games, want 3", len(all))
	}
}

func TestSaveGameDuplicateID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	rec := sampleRecord("dup", time.Now().UTC())
	if err := store.SaveGame(ctx, rec); err != nil {
		t.Fatalf("SaveGame() error = %v", err)
	}
	if err := store.SaveGame(ctx, rec); err == nil {
		t.Fatal("SaveGame() with duplicate id succeeded, want error")
	}
}
