package cache

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// NeverExpire as a TTL stores an entry with no expiry.
const NeverExpire time.Duration = 0

// Config configures a Store. The zero value is usable: an in-memory SQLite
// database with the defaults below.
type Config struct {
	// Path is the SQLite database file. Empty or ":memory:" keeps the
	// persistent tier in memory (useful for tests).
	Path string

	// DefaultTTL applies when Set is called with a negative TTL.
	// Defaults to 5 minutes.
	DefaultTTL time.Duration

	// MaxMemoryItems bounds the in-memory tier. Defaults to 1000.
	MaxMemoryItems int

	// SweepInterval is how often expired entries are cleaned up.
	// Defaults to 1 minute.
	SweepInterval time.Duration

	// CompressionThreshold is the encoded size in bytes past which values
	// are gzip-compressed in the persistent tier. 0 uses the default of
	// 1 KiB; negative disables compression.
	CompressionThreshold int

	// Logger receives storage failure and sweep logs. Defaults to
	// slog.Default().
	Logger *slog.Logger
}

func (c *Config) applyDefaults() {
	if c.DefaultTTL <= 0 {
		c.DefaultTTL = 5 * time.Minute
	}
	if c.MaxMemoryItems <= 0 {
		c.MaxMemoryItems = 1000
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.CompressionThreshold == 0 {
		c.CompressionThreshold = 1024
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Store is the two-tier cache. All methods are safe for concurrent use.
type Store struct {
	cfg    Config
	memory *memoryTier
	disk   *persistTier
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	once   sync.Once

	hits       atomic.Int64
	misses     atomic.Int64
	memoryHits atomic.Int64
	diskHits   atomic.Int64
	evictions  atomic.Int64
}

// New opens the persistent tier and starts the background sweep. The parent
// context bounds the sweep goroutine's lifetime; Close also stops it.
func New(parent context.Context, cfg Config) (*Store, error) {
	cfg.applyDefaults()

	disk, err := openPersistTier(cfg.Path)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithCancel(parent)
	s := &Store{
		cfg:    cfg,
		memory: newMemoryTier(cfg.MaxMemoryItems),
		disk:   disk,
		logger: cfg.Logger,
		ctx:    ctx,
		cancel: cancel,
	}

	s.wg.Add(1)
	go s.run()

	return s, nil
}

// Set stores value under key. A TTL of NeverExpire (0) stores the entry
// without expiry; a negative TTL uses the configured default. The value is
// written to both tiers; the in-memory tier evicts its oldest entries when
// full. Returns false, after logging, when serialization or storage fails;
// Set never returns an error to the caller.
func (s *Store) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if ttl < 0 {
		ttl = s.cfg.DefaultTTL
	}

	data, err := encode(value)
	if err != nil {
		s.logger.Error("cache set: encode failed", "key", key, "error", err)
		return false
	}

	now := time.Now()
	var expiresAt time.Time
	var expiresAtNanos int64
	if ttl > 0 {
		expiresAt = now.Add(ttl)
		expiresAtNanos = expiresAt.UnixNano()
	}

	digest := hashKey(key)
	if evicted := s.memory.set(digest, key, data, now, expiresAt); evicted > 0 {
		s.evictions.Add(int64(evicted))
	}

	blob, compressed := maybeCompress(data, s.cfg.CompressionThreshold)
	if err := s.disk.set(ctx, digest, key, blob, compressed, now, expiresAtNanos); err != nil {
		s.logger.Error("cache set: persistent tier write failed", "key", key, "error", err)
		return false
	}
	return true
}

// Get looks up key and decodes the cached value into out, which must be a
// pointer. The in-memory tier is checked first; a persistent-tier hit is
// promoted into memory. Expired entries are deleted and reported as a miss,
// as are storage and decode errors.
func (s *Store) Get(ctx context.Context, key string, out any) bool {
	digest := hashKey(key)
	now := time.Now()

	if data, ok := s.memory.get(digest, now); ok {
		if err := decode(data, out); err != nil {
			s.logger.Error("cache get: decode failed", "key", key, "error", err)
			s.misses.Add(1)
			return false
		}
		s.hits.Add(1)
		s.memoryHits.Add(1)
		return true
	}

	entry, err := s.disk.get(ctx, digest, now)
	if err != nil {
		s.logger.Error("cache get: persistent tier read failed", "key", key, "error", err)
		s.misses.Add(1)
		return false
	}
	if entry == nil {
		s.misses.Add(1)
		return false
	}

	data := entry.blob
	if entry.compressed {
		data, err = decompress(entry.blob)
		if err != nil {
			s.logger.Error("cache get: decompress failed", "key", key, "error", err)
			s.misses.Add(1)
			return false
		}
	}

	if err := decode(data, out); err != nil {
		s.logger.Error("cache get: decode failed", "key", key, "error", err)
		s.misses.Add(1)
		return false
	}

	// Promote for faster future access, keeping the row's real expiry.
	var expiresAt time.Time
	if entry.expiresAt != 0 {
		expiresAt = time.Unix(0, entry.expiresAt)
	}
	if evicted := s.memory.set(digest, key, data, now, expiresAt); evicted > 0 {
		s.evictions.Add(int64(evicted))
	}

	s.hits.Add(1)
	s.diskHits.Add(1)
	return true
}

// Delete removes key from both tiers. Returns true if either tier held it.
func (s *Store) Delete(ctx context.Context, key string) bool {
	digest := hashKey(key)
	inMemory := s.memory.delete(digest)
	onDisk, err := s.disk.delete(ctx, digest)
	if err != nil {
		s.logger.Error("cache delete: persistent tier failed", "key", key, "error", err)
	}
	return inMemory || onDisk
}

// Clear removes entries whose key contains pattern from both tiers; an
// empty pattern removes everything. Returns the number of persistent-tier
// entries removed. Clearing an already-empty cache removes zero entries.
func (s *Store) Clear(ctx context.Context, pattern string) int {
	s.memory.clear(pattern)
	n, err := s.disk.clear(ctx, pattern)
	if err != nil {
		s.logger.Error("cache clear: persistent tier failed", "pattern", pattern, "error", err)
		return 0
	}
	return n
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	MemoryItems    int     `json:"memory_items"`
	DiskItems      int     `json:"disk_items"`
	ExpiredPending int     `json:"expired_pending"`
	Hits           int64   `json:"hits"`
	Misses         int64   `json:"misses"`
	MemoryHits     int64   `json:"memory_hits"`
	DiskHits       int64   `json:"disk_hits"`
	Evictions      int64   `json:"evictions"`
	HitRate        float64 `json:"hit_rate"`
}

// Stats returns current counters and tier sizes. Persistent tier counts
// fall back to zero on storage errors.
func (s *Store) Stats(ctx context.Context) Stats {
	diskItems, err := s.disk.count(ctx)
	if err != nil {
		diskItems = 0
	}
	expired, err := s.disk.expiredCount(ctx, time.Now())
	if err != nil {
		expired = 0
	}

	hits := s.hits.Load()
	misses := s.misses.Load()
	var hitRate float64
	if hits+misses > 0 {
		hitRate = float64(hits) / float64(hits+misses) * 100
	}

	return Stats{
		MemoryItems:    s.memory.len(),
		DiskItems:      diskItems,
		ExpiredPending: expired,
		Hits:           hits,
		Misses:         misses,
		MemoryHits:     s.memoryHits.Load(),
		DiskHits:       s.diskHits.Load(),
		Evictions:      s.evictions.Load(),
		HitRate:        hitRate,
	}
}

// Close stops the background sweep and closes the persistent tier. Safe to
// call more than once.
func (s *Store) Close() error {
	var err error
	s.once.Do(func() {
		s.cancel()
		s.wg.Wait()
		err = s.disk.close()
	})
	return err
}

func (s *Store) run() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweepOnce()
		}
	}
}

func (s *Store) sweepOnce() {
	now := time.Now()

	evicted := s.memory.sweep(now)
	if evicted > 0 {
		s.evictions.Add(int64(evicted))
	}

	removed, err := s.disk.sweep(s.ctx, now)
	if err != nil {
		s.logger.Error("cache sweep: persistent tier failed", "error", err)
		return
	}
	if removed > 0 {
		s.evictions.Add(int64(removed))
		s.logger.Debug("cache sweep removed expired entries", "count", removed)
	}
}
