package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mcoot/wordgrid-go/internal/model"
	"github.com/mcoot/wordgrid-go/internal/storage"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// New opens (creating if missing) the database and applies migrations
func New(cfg Config) (*Storage, error) {
	if cfg.BusyTimeoutMs <= 0 {
		cfg.BusyTimeoutMs = DefaultConfig().BusyTimeoutMs
	}

	// Ensure directory exists for ./data/wordgrid.db, etc.
	dir := filepath.Dir(cfg.Path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL", cfg.Path, cfg.BusyTimeoutMs)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// migrate applies embedded migrations in lexical order, recording each in _migrations
func migrate(db *sql.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	files, err := fs.Glob(migrationFS, "migrations/*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := migrationFS.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
	}
	return nil
}

func toUnix(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixNano()
}

func fromUnix(n int64) time.Time {
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(0, n).UTC()
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO players (id, display_name, is_guest, created_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            display_name = excluded.display_name,
            is_guest = excluded.is_guest`,
		string(player.ID), player.DisplayName, player.IsGuest, toUnix(player.CreatedAt),
	)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	var (
		p       model.Player
		created int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, display_name, is_guest, created_at FROM players WHERE id=?`, string(id),
	).Scan(&p.ID, &p.DisplayName, &p.IsGuest, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	p.CreatedAt = fromUnix(created)
	return &p, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM players WHERE id=?`, string(id))
	return err
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO registered_players (player_id, username, password_hash, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(player_id) DO UPDATE SET
            password_hash = excluded.password_hash,
            updated_at = excluded.updated_at`,
		string(rp.PlayerID), rp.Username, rp.PasswordHash, toUnix(rp.CreatedAt), toUnix(rp.UpdatedAt),
	)
	return err
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	return s.queryRegisteredPlayer(ctx, `WHERE player_id=?`, string(playerID))
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	return s.queryRegisteredPlayer(ctx, `WHERE username=?`, username)
}

func (s *Storage) queryRegisteredPlayer(ctx context.Context, where string, arg any) (*model.RegisteredPlayer, error) {
	var (
		rp               model.RegisteredPlayer
		created, updated int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT player_id, username, password_hash, created_at, updated_at FROM registered_players `+where, arg,
	).Scan(&rp.PlayerID, &rp.Username, &rp.PasswordHash, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	rp.CreatedAt = fromUnix(created)
	rp.UpdatedAt = fromUnix(updated)
	return &rp, nil
}

// Game session operations

func (s *Storage) SaveSession(ctx context.Context, session *model.GameSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO sessions (id, player_id, data, updated_at)
        VALUES (?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            player_id = excluded.player_id,
            data = excluded.data,
            updated_at = excluded.updated_at`,
		string(session.ID), string(session.PlayerID), string(data), toUnix(session.UpdatedAt),
	)
	return err
}

func (s *Storage) GetSession(ctx context.Context, id model.GameSessionID) (*model.GameSession, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM sessions WHERE id=?`, string(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}

	var session model.GameSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", id, err)
	}
	return &session, nil
}

func (s *Storage) DeleteSession(ctx context.Context, id model.GameSessionID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id=?`, string(id))
	return err
}

func (s *Storage) GetSessionsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.GameSession, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT data FROM sessions
        WHERE player_id=?
        ORDER BY updated_at DESC`, string(playerID),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*model.GameSession{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var session model.GameSession
		if err := json.Unmarshal([]byte(data), &session); err != nil {
			continue // Skip invalid data
		}
		sessions = append(sessions, &session)
	}
	return sessions, rows.Err()
}

// Dictionary operations

func (s *Storage) GetDictionaryWords(ctx context.Context) ([]string, error) {
	var loaded int
	err := s.db.QueryRowContext(ctx, `SELECT loaded FROM dictionary_meta WHERE id=1`).Scan(&loaded)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrDictionaryNotLoaded
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT word FROM dictionary_words ORDER BY position`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	words := []string{}
	for rows.Next() {
		var w string
		if err := rows.Scan(&w); err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, rows.Err()
}

func (s *Storage) SaveDictionaryWords(ctx context.Context, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM dictionary_words`); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dictionary_words (position, word) VALUES (?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, w := range words {
		if _, err := stmt.ExecContext(ctx, i, w); err != nil {
			return err
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO dictionary_meta (id, loaded) VALUES (1, 1)`); err != nil {
		return err
	}
	return tx.Commit()
}

// Leaderboard operations

func (s *Storage) SaveLeaderboardEntry(ctx context.Context, entry *model.LeaderboardEntry) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT OR REPLACE INTO leaderboard
            (session_id, player_id, display_name, score, word_count, won, completed_at)
        VALUES (?, ?, ?, ?, ?, ?, ?)`,
		string(entry.SessionID), string(entry.PlayerID), entry.DisplayName,
		entry.Score, entry.WordCount, entry.Won, toUnix(entry.CompletedAt),
	)
	return err
}

func (s *Storage) GetLeaderboard(ctx context.Context, since time.Time, limit int) ([]model.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT session_id, player_id, display_name, score, word_count, won, completed_at
        FROM leaderboard
        WHERE completed_at >= ?
        ORDER BY score DESC, completed_at ASC
        LIMIT ?`, toUnix(since), limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []model.LeaderboardEntry{}
	for rows.Next() {
		var (
			e         model.LeaderboardEntry
			completed int64
		)
		if err := rows.Scan(&e.SessionID, &e.PlayerID, &e.DisplayName, &e.Score, &e.WordCount, &e.Won, &completed); err != nil {
			return nil, err
		}
		e.CompletedAt = fromUnix(completed)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
