package probe

import (
	"context"
	"os"
)

// Cache persists probed durations keyed by file identity. Staleness is
// impossible by construction: size and mtime are part of the key.
type Cache interface {
	Get(ctx context.Context, path string, size int64, mtimeNS int64) (float64, bool, error)
	Put(ctx context.Context, path string, size int64, mtimeNS int64, duration float64) error
}

// Cached wraps a Prober with a duration cache. Cache errors degrade to
// a plain probe; a broken cache must never fail a build.
type Cached struct {
	Prober Prober
	Cache  Cache
}

// Duration implements Prober.
func (c Cached) Duration(ctx context.Context, path string) (float64, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	size := info.Size()
	mtime := info.ModTime().UnixNano()

	if c.Cache != nil {
		if duration, ok, cacheErr := c.Cache.Get(ctx, path, size, mtime); cacheErr == nil && ok {
			return duration, nil
		}
	}

	duration, err := c.Prober.Duration(ctx, path)
	if err != nil {
		return 0, err
	}
	if c.Cache != nil {
		_ = c.Cache.Put(ctx, path, size, mtime, duration)
	}
	return duration, nil
}
