package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps transitions in a SQLite table
type SQLiteStore struct {
	conn   *sqlx.DB
	logger zerolog.Logger
}

type transitionRow struct {
	MatchID    string `db:"match_id"`
	Country    string `db:"country"`
	CommandID  string `db:"command_id"`
	Kind       string `db:"kind"`
	Turn       int    `db:"turn"`
	FromState  string `db:"from_state"`
	ToState    string `db:"to_state"`
	Elapsed    int    `db:"elapsed"`
	Estimated  int    `db:"estimated"`
	Reason     string `db:"reason"`
	RecordedAt int64  `db:"recorded_at"`
}

// OpenSQLite opens or creates the database at path
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	conn, err := sqlx.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{conn: conn, logger: logger.With().Str("component", "audit_sqlite").Logger()}
	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS command_transitions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		match_id TEXT NOT NULL,
		country TEXT NOT NULL,
		command_id TEXT NOT NULL,
		kind TEXT NOT NULL,
		turn INTEGER NOT NULL,
		from_state TEXT NOT NULL,
		to_state TEXT NOT NULL,
		elapsed INTEGER NOT NULL,
		estimated INTEGER NOT NULL,
		reason TEXT NOT NULL,
		recorded_at INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_transitions_command ON command_transitions(match_id, country, command_id);
	`
	_, err := s.conn.Exec(schema)
	return err
}

// Write inserts the records in one transaction
func (s *SQLiteStore) Write(ctx context.Context, records []Record) error {
	if len(records) == 0 {
		return nil
	}
	tx, err := s.conn.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insert = `INSERT INTO command_transitions
		(match_id, country, command_id, kind, turn, from_state, to_state, elapsed, estimated, reason, recorded_at)
		VALUES (:match_id, :country, :command_id, :kind, :turn, :from_state, :to_state, :elapsed, :estimated, :reason, :recorded_at)`
	for _, r := range records {
		if _, err := tx.NamedExecContext(ctx, insert, toRow(r)); err != nil {
			return fmt.Errorf("insert transition %s: %w", r.CommandID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.Debug().Int("records", len(records)).Msg("Transitions saved")
	return nil
}

// History reads records back in insertion order
func (s *SQLiteStore) History(ctx context.Context, matchID, country, commandID string) ([]Record, error) {
	var rows []transitionRow
	query := `SELECT match_id, country, command_id, kind, turn, from_state, to_state, elapsed, estimated, reason, recorded_at
		FROM command_transitions WHERE match_id = ?`
	args := []any{matchID}
	if country != "" {
		query += " AND country = ?"
		args = append(args, country)
	}
	if commandID != "" {
		query += " AND command_id = ?"
		args = append(args, commandID)
	}
	query += " ORDER BY id"

	if err := s.conn.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = fromRow(r)
	}
	return out, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

func toRow(r Record) transitionRow {
	return transitionRow{
		MatchID:    r.MatchID,
		Country:    r.Country,
		CommandID:  r.CommandID,
		Kind:       r.Kind,
		Turn:       r.Turn,
		FromState:  r.From,
		ToState:    r.To,
		Elapsed:    r.Elapsed,
		Estimated:  r.Estimated,
		Reason:     r.Reason,
		RecordedAt: r.RecordedAt.UnixNano(),
	}
}

func fromRow(r transitionRow) Record {
	return Record{
		MatchID:    r.MatchID,
		Country:    r.Country,
		CommandID:  r.CommandID,
		Kind:       r.Kind,
		Turn:       r.Turn,
		From:       r.FromState,
		To:         r.ToState,
		Elapsed:    r.Elapsed,
		Estimated:  r.Estimated,
		Reason:     r.Reason,
		RecordedAt: time.Unix(0, r.RecordedAt),
	}
}
