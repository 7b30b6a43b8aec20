// Package journal provides a SQLite-backed log of publish events.
// Only metadata is stored (id, checksum, counts, arrival time); snapshots
// themselves are never persisted.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/oklog/ulid/v2"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS publishes (
	id              TEXT PRIMARY KEY,
	name            TEXT NOT NULL DEFAULT '',
	checksum        TEXT NOT NULL DEFAULT '',
	node_count      INTEGER NOT NULL DEFAULT 0,
	container_count INTEGER NOT NULL DEFAULT 0,
	received_at     DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_publishes_received ON publishes(received_at);
`

// Entry is one recorded publish event.
type Entry struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Checksum       string    `json:"checksum"`
	NodeCount      int       `json:"nodeCount"`
	ContainerCount int       `json:"containerCount"`
	ReceivedAt     time.Time `json:"receivedAt"`
}

// Log defines publish-journal operations. Consumers should depend on this
// interface rather than the concrete *DB type to facilitate testing.
type Log interface {
	Record(e Entry) (Entry, error)
	Recent(limit int) ([]Entry, error)
	Close() error
}

// Verify *DB satisfies Log at compile time.
var _ Log = (*DB)(nil)

// DB wraps a sql.DB with journal-specific operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the journal database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("journal: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("journal: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record inserts a publish event. A ULID is assigned when e.ID is empty,
// and ReceivedAt defaults to the current time. The stored entry is
// returned.
func (db *DB) Record(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = ulid.Make().String()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now().UTC()
	}

	_, err := db.conn.Exec(`
		INSERT INTO publishes (id, name, checksum, node_count, container_count, received_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, e.ID, e.Name, e.Checksum, e.NodeCount, e.ContainerCount, e.ReceivedAt)
	if err != nil {
		return Entry{}, fmt.Errorf("journal: record: %w", err)
	}
	return e, nil
}

// Recent returns the most recent publish events, newest first. ULIDs sort
// lexicographically by time, so the id is used as a tiebreaker.
func (db *DB) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT id, name, checksum, node_count, container_count, received_at
		FROM publishes
		ORDER BY received_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("journal: recent: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Checksum, &e.NodeCount, &e.ContainerCount, &e.ReceivedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
