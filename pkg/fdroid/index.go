package fdroid

import (
	"context"
	"fmt"
	"strconv"

	"github.com/huanfeng/fdroidmeta/internal/errors"
	"github.com/huanfeng/fdroidmeta/internal/workers"
	"github.com/huanfeng/fdroidmeta/pkg/models"
	"github.com/huanfeng/fdroidmeta/pkg/utils"
)

// Failure describes an index entry that could not be assembled
type Failure struct {
	Position    int
	PackageName string
	Err         *errors.Error
}

// Index is every assembled app of a repository for one locale
type Index struct {
	Repo     *Repo
	Locale   string
	Apps     []*App
	Failures []Failure
	Stats    errors.Stats

	byName map[string]*App
}

// App returns the record of packageName
func (idx *Index) App(packageName string) (*App, bool) {
	app, ok := idx.byName[packageName]
	return app, ok
}

// Errors returns the failure causes in input order
func (idx *Index) Errors() []*errors.Error {
	out := make([]*errors.Error, len(idx.Failures))
	for i, f := range idx.Failures {
		out[i] = f.Err
	}
	return out
}

type buildOptions struct {
	workers  int
	progress func()
}

// BuildOption configures BuildIndex
type BuildOption func(*buildOptions)

// WithWorkers bounds the number of concurrent assemblies
func WithWorkers(n int) BuildOption {
	return func(o *buildOptions) {
		o.workers = n
	}
}

// WithProgress registers a callback run after each entry. It may be called
// from several goroutines.
func WithProgress(fn func()) BuildOption {
	return func(o *buildOptions) {
		o.progress = fn
	}
}

// BuildIndex assembles every app of raw for the desired locale. Apps keep
// the order of the index. An entry that fails to assemble is left out,
// logged, and reported in Failures; the other entries are unaffected.
func BuildIndex(ctx context.Context, raw *models.RepositoryIndex, desired string, assembler *Assembler, logger utils.Logger, opts ...BuildOption) (*Index, error) {
	if raw == nil {
		return nil, fmt.Errorf("nil repository index")
	}
	if assembler == nil {
		assembler = NewDefaultAssembler()
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}

	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	entries := raw.Entries()
	pool := workers.NewPool[models.Entry, *App](workers.WithWorkerLimit[models.Entry, *App](o.workers))
	results := pool.Run(ctx, entries, func(ctx context.Context, i int, entry models.Entry) (*App, error) {
		if o.progress != nil {
			defer o.progress()
		}
		return assembler.Assemble(entry, desired)
	})
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handler := errors.NewHandler(logger)
	idx := &Index{
		Repo:   NewRepo(raw.Repo),
		Locale: desired,
		Apps:   make([]*App, 0, len(entries)),
		byName: make(map[string]*App, len(entries)),
	}
	for _, res := range results {
		if res.Err != nil {
			e := handler.Handle(res.Err).WithContext("index", strconv.Itoa(res.Index))
			idx.Failures = append(idx.Failures, Failure{
				Position:    res.Index,
				PackageName: entries[res.Index].PackageName,
				Err:         e,
			})
			continue
		}
		idx.Apps = append(idx.Apps, res.Value)
		idx.byName[res.Value.PackageName()] = res.Value
	}
	idx.Stats = handler.GetStats()

	logger.Debug("Assembled %d of %d apps for locale %q", len(idx.Apps), len(entries), desired)
	return idx, nil
}
