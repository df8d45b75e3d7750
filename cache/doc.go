// Package cache provides a two-tier TTL cache: a bounded in-memory tier in
// front of a persistent SQLite tier, so cached upstream responses survive
// process restarts.
//
// Values are serialized with msgpack and gzip-compressed past a size
// threshold. Keys are normalized to an xxhash digest so arbitrary strings
// can be used as lookup keys across both tiers.
//
// The cache is a performance layer, not a source of truth: storage failures
// on Get and Set are logged and degrade to a miss, never surfaced to the
// caller. Constructor errors are returned loudly.
//
//	store, err := cache.New(ctx, cache.Config{Path: "cache.db"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
//	store.Set(ctx, "standings:2026", standings, 5*time.Minute)
//
//	var got f1.Response
//	if store.Get(ctx, "standings:2026", &got) {
//	    // cache hit
//	}
package cache
