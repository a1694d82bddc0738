// Package sqlite persists recent game scores in a local SQLite file.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"trivia-service/internal/domain"
)

// ScoreStore records finished games and serves the latest few per player.
type ScoreStore struct {
	db    *sql.DB
	limit int
}

// Open creates or opens the database at path, creating parent directories and
// the schema as needed. A leading ~ expands to the home directory.
func Open(path string) (*ScoreStore, error) {
	if path != "" && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("sqlite: cannot expand home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite: cannot create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: cannot connect to database: %w", err)
	}

	store := &ScoreStore{db: db, limit: domain.RecentScoreLimit}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: migration failed: %w", err)
	}
	return store, nil
}

func (s *ScoreStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS game_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			recorded_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_game_scores_player ON game_scores(player_id, id DESC);
	`)
	return err
}

// Close closes the database connection.
func (s *ScoreStore) Close() error {
	return s.db.Close()
}

// Record stores entry and prunes everything but the latest few for the player.
func (s *ScoreStore) Record(ctx context.Context, entry domain.ScoreEntry) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO game_scores (player_id, score, recorded_at) VALUES (?, ?, ?)`,
		entry.PlayerID, entry.Score, entry.RecordedAt.UnixNano(),
	); err != nil {
		return fmt.Errorf("sqlite: insert score: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		DELETE FROM game_scores
		WHERE player_id = ? AND id NOT IN (
			SELECT id FROM game_scores WHERE player_id = ? ORDER BY id DESC LIMIT ?
		)`, entry.PlayerID, entry.PlayerID, s.limit,
	); err != nil {
		return fmt.Errorf("sqlite: prune scores: %w", err)
	}
	return tx.Commit()
}

// Recent returns the player's latest scores, newest first.
func (s *ScoreStore) Recent(ctx context.Context, playerID string) ([]domain.ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT score, recorded_at FROM game_scores WHERE player_id = ? ORDER BY id DESC LIMIT ?`,
		playerID, s.limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: query scores: %w", err)
	}
	defer rows.Close()

	var entries []domain.ScoreEntry
	for rows.Next() {
		var (
			score int
			nanos int64
		)
		if err := rows.Scan(&score, &nanos); err != nil {
			return nil, fmt.Errorf("sqlite: scan score: %w", err)
		}
		entries = append(entries, domain.ScoreEntry{
			PlayerID:   playerID,
			Score:      score,
			RecordedAt: time.Unix(0, nanos).UTC(),
		})
	}
	return entries, rows.Err()
}
