package cache

import (
	"context"
	"fmt"
)

// Key identifies one cached payload: which identity asked, which view, and the
// grid/filter parameters the result depends on. Raw fetched tracks are cached
// under the same scheme with View "tracks" and zero parameters.
type Key struct {
	Identity string
	View     string
	GridSize int
	Year     string
	Sport    string
}

// Field is the canonical per-identity form of the key
func (k Key) Field() string {
	return fmt.Sprintf("%s_%d_%s_%s", k.View, k.GridSize, k.Year, k.Sport)
}

// Store is a key→payload cache with per-identity invalidation. Payloads are
// JSON; no eviction policy is imposed by the callers.
type Store interface {
	Get(ctx context.Context, key Key) ([]byte, bool, error)
	Set(ctx context.Context, key Key, payload []byte) error
	Invalidate(ctx context.Context, identity string) error
}
