// Package testutil provides test helpers: a mock Ergast-compatible HTTP
// server with request capture, canned JSON replies, fixtures, and a fake
// sleeper for deterministic retry timing.
package testutil
