// Package sqlite persists item attribute containers in a SQLite database.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/zjrosen/slotmenu/internal/attribute"
	"github.com/zjrosen/slotmenu/internal/log"
)

const schema = `
CREATE TABLE IF NOT EXISTS attributes (
	item_id    TEXT    NOT NULL,
	namespace  TEXT    NOT NULL,
	name       TEXT    NOT NULL,
	kind       TEXT    NOT NULL,
	text_value TEXT,
	int_value  INTEGER,
	real_value REAL,
	blob_value BLOB,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (item_id, namespace, name)
);
CREATE INDEX IF NOT EXISTS idx_attributes_item ON attributes(item_id);
`

// DB wraps the database connection.
type DB struct {
	conn *sql.DB
	path string
}

// NewDB opens (or creates) the database at path with WAL journaling,
// foreign keys and a 5s busy timeout, and creates the schema.
func NewDB(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)&_pragma=foreign_keys(1)"
	log.Debug(log.CatStore, "Opening database", "path", path)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		log.ErrorErr(log.CatStore, "Failed to open database", err, "path", path)
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		log.ErrorErr(log.CatStore, "Failed to ping database", err, "path", path)
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	log.Info(log.CatStore, "Connected to database", "path", path)
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string { return db.path }

// Container returns the persistent attribute container for one item.
func (db *DB) Container(itemID string) attribute.Container {
	return newAttributeRepository(db.conn, itemID)
}

// Provider adapts the database to attribute.Provider for item services.
func (db *DB) Provider() attribute.Provider {
	return func(itemID string) attribute.Container { return db.Container(itemID) }
}

// Items lists the ids of every item with at least one stored attribute.
func (db *DB) Items() ([]string, error) {
	rows, err := db.conn.Query(`SELECT DISTINCT item_id FROM attributes ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan item id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// DeleteItem removes every attribute stored for itemID.
func (db *DB) DeleteItem(itemID string) error {
	if _, err := db.conn.Exec(`DELETE FROM attributes WHERE item_id = ?`, itemID); err != nil {
		return fmt.Errorf("failed to delete item %s: %w", itemID, err)
	}
	return nil
}
