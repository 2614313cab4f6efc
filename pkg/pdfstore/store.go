// Package pdfstore holds fetched documents keyed by the URL they were
// fetched from.
package pdfstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
)

type Store interface {
	// Get reports a miss as (nil, false, nil).
	Get(ctx context.Context, url string) ([]byte, bool, error)
	Put(ctx context.Context, url string, data []byte) error
}

// Key is the storage key for a URL in backends that cannot use the URL
// verbatim.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])
}
