package cache

import (
	"bytes"
	"fmt"
	"io"

	"github.com/cespare/xxhash/v2"
	"github.com/klauspost/compress/gzip"
	"github.com/vmihailenco/msgpack/v5"
)

// hashKey normalizes an arbitrary key string into a fixed-width hex digest.
// Both tiers key on the digest; the raw key is kept alongside for pattern
// matching in Clear.
func hashKey(raw string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(raw))
}

// encode serializes a value with msgpack.
func encode(value any) ([]byte, error) {
	return msgpack.Marshal(value)
}

// decode deserializes msgpack data into out, which must be a pointer.
func decode(data []byte, out any) error {
	return msgpack.Unmarshal(data, out)
}

// maybeCompress gzips data when it exceeds threshold and compression
// actually shrinks it. The bool reports whether the returned bytes are
// compressed.
func maybeCompress(data []byte, threshold int) ([]byte, bool) {
	if threshold <= 0 || len(data) <= threshold {
		return data, false
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return data, false
	}
	if err := zw.Close(); err != nil {
		return data, false
	}
	if buf.Len() >= len(data) {
		return data, false
	}
	return buf.Bytes(), true
}

// decompress reverses maybeCompress.
func decompress(data []byte) ([]byte, error) {
	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}
