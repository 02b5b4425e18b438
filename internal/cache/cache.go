// Package cache provides a small SQLite-backed cache for upstream API
// responses, so repeated estimates for the same address don't refetch
// building data. Values are msgpack-encoded.
package cache

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS responses (
	provider   TEXT NOT NULL,
	key        TEXT NOT NULL,
	payload    BLOB NOT NULL,
	fetched_at INTEGER NOT NULL,
	PRIMARY KEY (provider, key)
)`

// Cache stores msgpack-encoded upstream responses with a TTL.
type Cache struct {
	db     *sql.DB
	ttl    time.Duration
	logger *zap.SugaredLogger
}

// Open creates or opens the cache database at path.
func Open(path string, ttl time.Duration, logger *zap.SugaredLogger) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create cache schema: %w", err)
	}

	return &Cache{db: db, ttl: ttl, logger: logger}, nil
}

// Get loads a cached response into dest, reporting whether a fresh entry
// was found. Expired entries are removed on access.
func (c *Cache) Get(provider, key string, dest interface{}) (bool, error) {
	var payload []byte
	var fetchedAt int64

	err := c.db.QueryRow(
		`SELECT payload, fetched_at FROM responses WHERE provider = ? AND key = ?`,
		provider, key).Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to query cache: %w", err)
	}

	if time.Since(time.Unix(fetchedAt, 0)) > c.ttl {
		if _, err := c.db.Exec(`DELETE FROM responses WHERE provider = ? AND key = ?`, provider, key); err != nil {
			c.logger.Warnf("failed to evict expired cache entry %s/%s: %v", provider, key, err)
		}
		return false, nil
	}

	if err := msgpack.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("failed to decode cached payload: %w", err)
	}
	return true, nil
}

// Put stores a response, replacing any previous entry for the same key.
func (c *Cache) Put(provider, key string, value interface{}) error {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode payload: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO responses (provider, key, payload, fetched_at) VALUES (?, ?, ?, ?)`,
		provider, key, payload, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store cache entry: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}
