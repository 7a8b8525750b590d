// Package journal persists locally-decided read/unread/shown marks so
// they survive a restart while still awaiting remote confirmation. The
// notification feed itself is never persisted; only the pending queues.
package journal

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// Queue names recognized by the journal.
const (
	QueueRead   = "read"
	QueueUnread = "unread"
	QueueShown  = "shown"
)

// Journal records pending marks in a local SQLite database.
type Journal struct {
	db *sqlx.DB
}

// Open opens (or creates) the journal database at dbPath, enables WAL
// mode, and runs any pending schema migrations.
func Open(dbPath string) (*Journal, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	j := &Journal{db: db}
	if err := j.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return j, nil
}

// Close closes the underlying database connection.
func (j *Journal) Close() error {
	return j.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (j *Journal) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := j.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = j.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := j.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// Record journals the given notification IDs under one queue. Marks
// already present for that queue are refreshed, not duplicated.
func (j *Journal) Record(ctx context.Context, queue string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	tx, err := j.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT OR REPLACE INTO pending_marks (notification_id, queue, queued_at)
		VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, queue, now); err != nil {
			return fmt.Errorf("recording mark %s/%s: %w", queue, id, err)
		}
	}

	return tx.Commit()
}

// Clear removes journaled marks for the given IDs under one queue,
// called once the remote service has confirmed the submission.
func (j *Journal) Clear(ctx context.Context, queue string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, queue)
	for _, id := range ids {
		args = append(args, id)
	}

	query := fmt.Sprintf(
		"DELETE FROM pending_marks WHERE queue = ? AND notification_id IN (%s)",
		placeholders,
	)
	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("clearing %s marks: %w", queue, err)
	}

	return nil
}

// Load returns all journaled marks grouped by queue, ordered by the
// time they were queued. Used to restore the pending sets at startup.
func (j *Journal) Load(ctx context.Context) (map[string][]string, error) {
	rows, err := j.db.QueryxContext(ctx,
		"SELECT notification_id, queue FROM pending_marks ORDER BY queued_at, notification_id",
	)
	if err != nil {
		return nil, fmt.Errorf("querying pending marks: %w", err)
	}
	defer rows.Close()

	marks := make(map[string][]string)
	for rows.Next() {
		var id, queue string
		if err := rows.Scan(&id, &queue); err != nil {
			return nil, fmt.Errorf("scanning pending mark: %w", err)
		}
		marks[queue] = append(marks[queue], id)
	}

	return marks, rows.Err()
}
