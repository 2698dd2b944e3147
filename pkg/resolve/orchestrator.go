package resolve

import (
	"context"
	stderrors "errors"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/registry"
	"github.com/depscope/depscope/pkg/synth"
)

// Options configures a ResolveAll run.
type Options struct {
	// Workers bounds the resolution pool. Zero means runtime.NumCPU.
	Workers int
	// CacheRoot is the directory lockfiles are cached under.
	CacheRoot string
	// Step, when non-nil, is called once per processed unit.
	Step func()
	// Logger, when non-nil, receives per-unit progress messages.
	Logger func(msg string, args ...any)
}

// Failure is one classified, non-fatal resolution failure.
type Failure struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Kind    Kind   `json:"kind"`
	Detail  string `json:"detail,omitempty"`
}

// Summary is the outcome of a ResolveAll run. Resolved counts every unit
// that ended with a usable lockfile, cache hits included; CacheHits is the
// subset that never invoked the resolver.
type Summary struct {
	Resolved  int       `json:"resolved"`
	CacheHits int       `json:"cache_hits"`
	Skipped   int       `json:"skipped"`
	Failures  []Failure `json:"failures,omitempty"`
}

// runner carries the shared state of one ResolveAll run.
type runner struct {
	store     *LockfileCache
	cacheRoot string
	logf      func(string, ...any)

	resolved  atomic.Int64
	cacheHits atomic.Int64

	failMu   sync.Mutex
	failures []Failure
}

func (r *runner) fail(f Failure) {
	r.failMu.Lock()
	r.failures = append(r.failures, f)
	r.failMu.Unlock()
}

// ResolveAll resolves the latest non-yanked version of every package in reg.
//
// Packages with no non-yanked version are skipped, not failed. Work items
// fan out over a fixed pool; each worker lazily acquires one resolver
// Context from factory on its first cache miss and keeps it for the whole
// run. Classified failures accumulate in the Summary and the run continues;
// an unclassifiable diagnostic or an infrastructure error aborts the whole
// run. Lockfiles already committed to the cache stay valid across an abort
// and are reused by the next run.
func ResolveAll(ctx context.Context, reg registry.Index, factory ContextFactory, opts Options) (*Summary, error) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logf := opts.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}

	skipped := 0
	var units []*registry.VersionRecord
	for _, pkg := range reg {
		latest := pkg.LatestNonYanked()
		if latest == nil {
			skipped++
			continue
		}
		units = append(units, latest)
	}

	r := &runner{
		store:     NewLockfileCache(opts.CacheRoot),
		cacheRoot: opts.CacheRoot,
		logf:      logf,
	}

	g, ctx := errgroup.WithContext(ctx)
	feed := make(chan *registry.VersionRecord)
	g.Go(func() error {
		defer close(feed)
		for _, vr := range units {
			select {
			case feed <- vr:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for id := 0; id < workers; id++ {
		g.Go(func() error {
			return r.worker(ctx, id, factory, feed, opts.Step)
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Summary{
		Resolved:  int(r.resolved.Load()),
		CacheHits: int(r.cacheHits.Load()),
		Skipped:   skipped,
		Failures:  r.failures,
	}, nil
}

// worker drains feed. The resolver context is built on this worker's first
// cache miss and owned by it until the run ends; a fully cached run never
// constructs one.
func (r *runner) worker(ctx context.Context, id int, factory ContextFactory, feed <-chan *registry.VersionRecord, step func()) error {
	var rc Context
	defer func() {
		if rc != nil {
			rc.Close()
		}
	}()
	getContext := func() (Context, error) {
		if rc == nil {
			var err error
			if rc, err = factory.NewContext(id); err != nil {
				return nil, err
			}
		}
		return rc, nil
	}
	for vr := range feed {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.resolveOne(getContext, vr); err != nil {
			return err
		}
		if step != nil {
			step()
		}
	}
	return nil
}

func (r *runner) resolveOne(getContext func() (Context, error), vr *registry.VersionRecord) error {
	d, err := synth.Synthesize(vr.Name, vr, r.cacheRoot)
	if err != nil {
		// A record we cannot even express as a workspace is an index
		// problem, not a run-fatal one.
		r.fail(Failure{
			Name:    vr.Name,
			Version: vr.Version,
			Kind:    KindInvalidIndexEntry,
			Detail:  err.Error(),
		})
		return nil
	}

	if _, ok, err := r.store.Load(d); err != nil {
		return err
	} else if ok {
		r.cacheHits.Add(1)
		r.resolved.Add(1)
		r.logf("cache hit", "unit", d.Key())
		return nil
	}

	rc, err := getContext()
	if err != nil {
		return err
	}
	lf, err := rc.Resolve(d, DefaultSelection())
	if err != nil {
		var diag *Diagnostic
		if !stderrors.As(err, &diag) {
			return err
		}
		kind, ok := Classify(diag.Text)
		if !ok {
			return errors.Wrap(errors.ErrCodeUnknownResolution, err,
				"unclassifiable failure for %s", d.Key())
		}
		r.fail(Failure{
			Name:    vr.Name,
			Version: vr.Version,
			Kind:    kind,
			Detail:  diag.Text,
		})
		r.logf("resolution failed", "unit", d.Key(), "kind", string(kind))
		return nil
	}

	if err := r.store.Store(d, lf); err != nil {
		return err
	}
	r.resolved.Add(1)
	r.logf("resolved", "unit", d.Key())
	return nil
}
