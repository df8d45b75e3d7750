package cache

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"
)

// persistTier is the on-disk tier, one row per entry. Timestamps are stored
// as Unix nanoseconds; expires_at = 0 means never expires. Each operation is
// its own transaction; no long-lived transactions are held.
type persistTier struct {
	db *sql.DB
}

func openPersistTier(path string) (*persistTier, error) {
	if path == "" {
		path = ":memory:"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// An in-memory database exists per connection; pin the pool to one so
	// every query sees the same data.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	// WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS cache_entries (
		key TEXT PRIMARY KEY,
		raw_key TEXT NOT NULL,
		value BLOB NOT NULL,
		created_at INTEGER NOT NULL,
		expires_at INTEGER NOT NULL,
		access_count INTEGER NOT NULL DEFAULT 0,
		last_accessed INTEGER NOT NULL,
		compressed INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		db.Close()
		return nil, err
	}

	for _, stmt := range []string{
		`CREATE INDEX IF NOT EXISTS idx_cache_expires_at ON cache_entries(expires_at)`,
		`CREATE INDEX IF NOT EXISTS idx_cache_last_accessed ON cache_entries(last_accessed)`,
	} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, err
		}
	}

	return &persistTier{db: db}, nil
}

// diskEntry is a persistent-tier row returned by get.
type diskEntry struct {
	blob       []byte
	compressed bool
	expiresAt  int64 // Unix nanos, 0 = never
}

// get returns the stored row for digest. Expired rows are deleted lazily
// and reported as a miss; unexpired hits bump access stats.
func (p *persistTier) get(ctx context.Context, digest string, now time.Time) (*diskEntry, error) {
	var e diskEntry
	err := p.db.QueryRowContext(ctx,
		`SELECT value, expires_at, compressed FROM cache_entries WHERE key = ?`, digest,
	).Scan(&e.blob, &e.expiresAt, &e.compressed)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if e.expiresAt != 0 && e.expiresAt < now.UnixNano() {
		_, _ = p.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, digest)
		return nil, nil
	}

	_, _ = p.db.ExecContext(ctx,
		`UPDATE cache_entries SET access_count = access_count + 1, last_accessed = ? WHERE key = ?`,
		now.UnixNano(), digest,
	)

	return &e, nil
}

func (p *persistTier) set(ctx context.Context, digest, rawKey string, blob []byte, compressed bool, createdAt time.Time, expiresAt int64) error {
	_, err := p.db.ExecContext(ctx,
		`INSERT INTO cache_entries (key, raw_key, value, created_at, expires_at, access_count, last_accessed, compressed)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			raw_key = excluded.raw_key,
			value = excluded.value,
			created_at = excluded.created_at,
			expires_at = excluded.expires_at,
			access_count = 0,
			last_accessed = excluded.last_accessed,
			compressed = excluded.compressed`,
		digest, rawKey, blob, createdAt.UnixNano(), expiresAt, createdAt.UnixNano(), compressed,
	)
	return err
}

func (p *persistTier) delete(ctx context.Context, digest string) (bool, error) {
	result, err := p.db.ExecContext(ctx, `DELETE FROM cache_entries WHERE key = ?`, digest)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// clear removes rows whose raw key contains pattern; an empty pattern
// removes everything. Returns the number of rows removed.
func (p *persistTier) clear(ctx context.Context, pattern string) (int, error) {
	var result sql.Result
	var err error
	if pattern == "" {
		result, err = p.db.ExecContext(ctx, `DELETE FROM cache_entries`)
	} else {
		result, err = p.db.ExecContext(ctx,
			`DELETE FROM cache_entries WHERE raw_key LIKE ? ESCAPE '\'`, "%"+escapeLike(pattern)+"%")
	}
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

// sweep deletes rows past their expiry. Rows with expires_at = 0 never match.
func (p *persistTier) sweep(ctx context.Context, now time.Time) (int, error) {
	result, err := p.db.ExecContext(ctx,
		`DELETE FROM cache_entries WHERE expires_at != 0 AND expires_at < ?`, now.UnixNano())
	if err != nil {
		return 0, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(rows), nil
}

func (p *persistTier) count(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cache_entries`).Scan(&n)
	return n, err
}

func (p *persistTier) expiredCount(ctx context.Context, now time.Time) (int, error) {
	var n int
	err := p.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cache_entries WHERE expires_at != 0 AND expires_at < ?`,
		now.UnixNano()).Scan(&n)
	return n, err
}

func (p *persistTier) close() error {
	return p.db.Close()
}

// escapeLike escapes LIKE metacharacters so a pattern is treated as a plain
// substring under ESCAPE '\'.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
