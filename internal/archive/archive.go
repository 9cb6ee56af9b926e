// Package archive persists finished games to SQLite for the admin API and
// later inspection. Live game state never touches the archive; rooms hand
// over a record once, after the result is known.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/FalconsSky/penguins/pkg/models"
)

// ErrNotFound reports that no archived game has the requested id.
var ErrNotFound = errors.New("game not found")

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id          TEXT PRIMARY KEY,
	room_id     TEXT NOT NULL,
	player_one  TEXT NOT NULL,
	player_two  TEXT NOT NULL,
	score_one   INTEGER NOT NULL,
	score_two   INTEGER NOT NULL,
	winner      TEXT NOT NULL DEFAULT '',
	reason      TEXT NOT NULL,
	moves       TEXT NOT NULL,
	started_at  TIMESTAMP NOT NULL,
	finished_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_games_room ON games(room_id);
CREATE INDEX IF NOT EXISTS idx_games_finished ON games(finished_at);
`

// Store records finished games in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (and creates if missing) the archive database at path with a
// busy timeout and WAL journaling, and ensures the schema exists.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// SaveGame inserts one finished game.
func (s *Store) SaveGame(ctx context.Context, rec models.GameRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO games(id, room_id, player_one, player_two, score_one, score_two,
		                   winner, reason, moves, started_at, finished_at)
		 VALUES(?,?,?,?,?,?,?,?,?,?,?)`,
		rec.ID, rec.RoomID, rec.PlayerOne, rec.PlayerTwo, rec.ScoreOne, rec.ScoreTwo,
		rec.Winner, rec.Reason, rec.Moves, rec.StartedAt, rec.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	return nil
}

// ListGames returns up to limit finished games, newest first.
func (s *Store) ListGames(ctx context.Context, limit int) ([]models.GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, room_id, player_one, player_two, score_one, score_two,
		        winner, reason, moves, started_at, finished_at
		 FROM games ORDER BY finished_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	var out []models.GameRecord
	for rows.Next() {
		var rec models.GameRecord
		if err := rows.Scan(&rec.ID, &rec.RoomID, &rec.PlayerOne, &rec.PlayerTwo,
			&rec.ScoreOne, &rec.ScoreTwo, &rec.Winner, &rec.Reason, &rec.Moves,
			&rec.StartedAt, &rec.FinishedAt); err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetGame returns one archived game by id, or ErrNotFound.
func (s *Store) GetGame(ctx context.Context, id string) (models.GameRecord, error) {
	var rec models.GameRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT id, room_id, player_one, player_two, score_one, score_two,
		        winner, reason, moves, started_at, finished_at
		 FROM games WHERE id = ?`, id).
		Scan(&rec.ID, &rec.RoomID, &rec.PlayerOne, &rec.PlayerTwo,
			&rec.ScoreOne, &rec.ScoreTwo, &rec.Winner, &rec.Reason, &rec.Moves,
			&rec.StartedAt, &rec.FinishedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.GameRecord{}, ErrNotFound
	}
	if err != nil {
		return models.GameRecord{}, fmt.Errorf("get game: %w", err)
	}
	return rec, nil
}
