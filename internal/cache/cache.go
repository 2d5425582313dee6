// Package cache implements the "blob-backed map" collaborator named in
// spec.md §6: a player-name lookup the session orchestrator loads once
// at Enter and periodically persists from EVENT_PERIODIC_SAVE. Adapted
// from the teacher's internal/database package — same DSN construction
// and Connection-wrapping-*sql.DB shape, repointed at a name cache
// table instead of account/character rows.
package cache

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/go-sql-driver/mysql"
)

// Config holds the connection parameters for the backing MySQL store.
type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
}

// NameCache is an in-memory GUID-to-name map that loads from and saves
// to a MySQL table. Safe for concurrent use: Lookup/Put/Save may be
// called from the event scheduler's goroutine while the session
// goroutine also reads it.
type NameCache struct {
	db *sql.DB

	mu    sync.RWMutex
	names map[uint64]string
	dirty bool
}

// Open connects to the backing store and returns an empty cache. Call
// Load to populate it.
func Open(cfg Config) (*NameCache, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("cache: open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("cache: ping database: %w", err)
	}

	return &NameCache{db: db, names: make(map[uint64]string)}, nil
}

// NewInMemory returns a NameCache with no backing store: Lookup/Put work
// normally, and Load/Save are no-ops. Useful for tests and for running
// without a configured MySQL cache.
func NewInMemory() *NameCache {
	return &NameCache{names: make(map[uint64]string)}
}

// Close releases the underlying database connection, if any.
func (c *NameCache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Load replaces the in-memory cache with every row currently in the
// player_names table. A no-op on a NewInMemory cache.
func (c *NameCache) Load() error {
	if c.db == nil {
		return nil
	}
	rows, err := c.db.Query("SELECT guid, name FROM player_names")
	if err != nil {
		return fmt.Errorf("cache: load: %w", err)
	}
	defer rows.Close()

	fresh := make(map[uint64]string)
	for rows.Next() {
		var guid uint64
		var name string
		if err := rows.Scan(&guid, &name); err != nil {
			return fmt.Errorf("cache: scan row: %w", err)
		}
		fresh[guid] = name
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("cache: iterate rows: %w", err)
	}

	c.mu.Lock()
	c.names = fresh
	c.dirty = false
	c.mu.Unlock()
	return nil
}

// Lookup returns the cached name for guid, if any.
func (c *NameCache) Lookup(guid uint64) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.names[guid]
	return name, ok
}

// Put records a name learned from a SMSG_NAME_QUERY_RESPONSE handler,
// marking the cache dirty so the next EVENT_PERIODIC_SAVE writes it
// through.
func (c *NameCache) Put(guid uint64, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.names[guid] = name
	c.dirty = true
}

// Save writes every cached entry back to the player_names table if the
// cache has changed since the last Save, matching
// WorldSession::EVENT_PERIODIC_SAVE's callback
// (`playerNames_.Save()`) on a one-minute period.
func (c *NameCache) Save() error {
	if c.db == nil {
		return nil
	}
	c.mu.Lock()
	if !c.dirty {
		c.mu.Unlock()
		return nil
	}
	snapshot := make(map[uint64]string, len(c.names))
	for guid, name := range c.names {
		snapshot[guid] = name
	}
	c.dirty = false
	c.mu.Unlock()

	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("cache: begin save transaction: %w", err)
	}

	const upsert = `INSERT INTO player_names (guid, name) VALUES (?, ?)
		ON DUPLICATE KEY UPDATE name = VALUES(name)`
	for guid, name := range snapshot {
		if _, err := tx.Exec(upsert, guid, name); err != nil {
			tx.Rollback()
			return fmt.Errorf("cache: save guid %d: %w", guid, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("cache: commit save transaction: %w", err)
	}
	return nil
}
