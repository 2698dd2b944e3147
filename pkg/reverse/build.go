package reverse

import (
	"runtime"
	"sync"

	"github.com/Masterminds/semver/v3"
	"golang.org/x/sync/errgroup"

	"github.com/depscope/depscope/pkg/registry"
)

// BuildOptions configures reverse-index construction.
type BuildOptions struct {
	Workers int                  // parallel package tasks (default: GOMAXPROCS)
	Step    func()               // called once per package, for progress totals (optional)
	Warn    func(string, ...any) // dropped-edge callback, for debugging (optional)
}

func (o BuildOptions) withDefaults() BuildOptions {
	opts := o
	if opts.Workers <= 0 {
		opts.Workers = runtime.GOMAXPROCS(0)
	}
	if opts.Step == nil {
		opts.Step = func() {}
	}
	if opts.Warn == nil {
		opts.Warn = func(string, ...any) {}
	}
	return opts
}

// Build constructs the reverse index for a loaded registry snapshot.
//
// For every non-yanked (package, version) and every non-dev dependency, the
// target's versions are scanned from highest to lowest and the first
// non-yanked version satisfying the requirement receives the edge. Unknown
// targets, unparsable requirements, and unsatisfiable requirements drop the
// edge silently; registry snapshots are never fully self-consistent and a
// missing edge is expected, not an error.
func Build(reg registry.Index, opts BuildOptions) *Index {
	opts = opts.withDefaults()
	idx := NewIndex()
	reqs := newConstraintCache()

	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for _, pkg := range reg {
		g.Go(func() error {
			defer opts.Step()
			indexPackage(idx, reg, pkg, reqs, opts.Warn)
			return nil
		})
	}
	_ = g.Wait() // tasks never return errors; dropped edges are not failures
	return idx
}

func indexPackage(idx *Index, reg registry.Index, pkg *registry.Package, reqs *constraintCache, warn func(string, ...any)) {
	for _, vr := range pkg.Versions {
		if vr.Yanked {
			continue
		}
		source := Ref{Name: pkg.Name, Version: vr.Version}

		for _, dep := range vr.Deps {
			if dep.Kind == registry.KindDev {
				continue
			}

			target, ok := reg[dep.Name]
			if !ok {
				warn("%s@%s: dependency %s not in index", pkg.Name, vr.Version, dep.Name)
				continue
			}
			c := reqs.get(dep.Req)
			if c == nil {
				warn("%s@%s: unparsable requirement %s@%q", pkg.Name, vr.Version, dep.Name, dep.Req)
				continue
			}

			if selected := selectVersion(target, c); selected != nil {
				idx.Add(Ref{Name: target.Name, Version: selected.Version}, source)
			} else {
				warn("%s@%s: no version of %s satisfies %q", pkg.Name, vr.Version, dep.Name, dep.Req)
			}
		}
	}
}

// selectVersion scans from highest to lowest and returns the first non-yanked
// version satisfying the constraint, so ties always break toward the highest
// matching version.
func selectVersion(pkg *registry.Package, c *semver.Constraints) *registry.VersionRecord {
	for i := len(pkg.Versions) - 1; i >= 0; i-- {
		vr := pkg.Versions[i]
		if !vr.Yanked && c.Check(vr.Semver) {
			return vr
		}
	}
	return nil
}

// constraintCache memoizes requirement parsing. The same handful of
// requirement strings ("^1", "^1.0", ...) repeats across millions of records,
// so parsing each once pays for the map. A nil value caches a parse failure.
type constraintCache struct {
	mu sync.RWMutex
	m  map[string]*semver.Constraints
}

func newConstraintCache() *constraintCache {
	return &constraintCache{m: make(map[string]*semver.Constraints)}
}

func (cc *constraintCache) get(req string) *semver.Constraints {
	cc.mu.RLock()
	c, ok := cc.m[req]
	cc.mu.RUnlock()
	if ok {
		return c
	}

	c, err := semver.NewConstraint(req)
	if err != nil {
		c = nil
	}
	cc.mu.Lock()
	cc.m[req] = c
	cc.mu.Unlock()
	return c
}
