package cmd

import (
	"context"
	"fmt"
	"sync"

	"github.com/huanfeng/fdroidmeta/internal/config"
	"github.com/huanfeng/fdroidmeta/pkg/client"
	"github.com/huanfeng/fdroidmeta/pkg/fdroid"
	"github.com/huanfeng/fdroidmeta/pkg/models"
)

var (
	cacheOnce  sync.Once
	indexCache *client.IndexCache
	cacheErr   error
)

// indexes returns the process index cache, created on first use
func indexes() (*client.IndexCache, error) {
	cacheOnce.Do(func() {
		indexCache, cacheErr = client.NewIndexCache(client.NewFileSource(logger), cfg.Cache.Size, logger)
	})
	return indexCache, cacheErr
}

func loadIndex(ctx context.Context, address string) (*models.RepositoryIndex, error) {
	cache, err := indexes()
	if err != nil {
		return nil, err
	}
	return cache.Get(ctx, address)
}

// desiredLocale falls back to locale.default
func desiredLocale(flag string) string {
	if flag != "" {
		return flag
	}
	return cfg.Locale.Default
}

func buildIndex(ctx context.Context, address, desired string, opts ...fdroid.BuildOption) (*fdroid.Index, error) {
	raw, err := loadIndex(ctx, address)
	if err != nil {
		return nil, err
	}
	assembler, err := config.NewAssembler(cfg, logger)
	if err != nil {
		return nil, err
	}
	idx, err := fdroid.BuildIndex(ctx, raw, desired, assembler, logger, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}
	return idx, nil
}
