package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/depscope/depscope/pkg/cache"
	"github.com/depscope/depscope/pkg/registry"
	"github.com/depscope/depscope/pkg/reverse"
)

// appName is the application name used for directories and display.
const appName = "depscope"

// cacheDir returns the cache directory using XDG standard (~/.cache/depscope/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// lockfileCacheDir returns the directory resolution lockfiles live under.
func lockfileCacheDir() (string, error) {
	dir, err := cacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "lockfiles"), nil
}

// loadRegistry parses the registry snapshot at root into an in-memory index.
func loadRegistry(ctx context.Context, root string, workers int) (registry.Index, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	idx, err := registry.Load(root, registry.LoadOptions{
		Workers: workers,
		Logger:  func(msg string, args ...any) { logger.Warnf(msg, args...) },
	})
	if err != nil {
		return nil, err
	}
	p.done(fmt.Sprintf("Loaded %d packages", len(idx)))
	return idx, nil
}

// indexCacheOpts selects the backend reverse indexes are persisted to.
type indexCacheOpts struct {
	noCache bool
	redis   string
}

func (o *indexCacheOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "rebuild the reverse index instead of using a cached copy")
	cmd.Flags().StringVar(&o.redis, "redis", "", "cache the reverse index in redis at this address instead of on disk")
}

func (o *indexCacheOpts) open(ctx context.Context) (cache.Cache, error) {
	if o.noCache {
		return cache.NewNullCache(), nil
	}
	if o.redis != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{Addr: o.redis, Prefix: appName})
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(filepath.Join(dir, "index"))
}

// loadReverse returns the reverse-dependency index for the snapshot at root,
// from the cache backend when a copy for this snapshot path exists, built
// from scratch otherwise. The cache key is derived from the absolute
// snapshot path, so distinct snapshots never share an entry.
func loadReverse(ctx context.Context, store cache.Cache, root string, reg registry.Index, workers int) (*reverse.Index, error) {
	logger := loggerFromContext(ctx)

	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	key := cache.Hash([]byte(abs)) + ".reverse"

	if idx, ok, err := reverse.LoadIndex(ctx, store, key); err != nil {
		logger.Warnf("Ignoring cached reverse index: %v", err)
	} else if ok {
		logger.Debugf("Reverse index loaded from cache (%d edges)", idx.Edges())
		return idx, nil
	}

	p := newProgress(logger)
	idx := reverse.Build(reg, reverse.BuildOptions{
		Workers: workers,
		Warn:    func(msg string, args ...any) { logger.Debugf(msg, args...) },
	})
	p.done(fmt.Sprintf("Built reverse index with %d edges", idx.Edges()))

	if err := reverse.Save(ctx, store, key, idx); err != nil {
		logger.Warnf("Could not cache reverse index: %v", err)
	}
	return idx, nil
}
