package reverse

import (
	"github.com/Masterminds/semver/v3"

	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/registry"
)

// Filter narrows a walk result after traversal completes.
// Filters compose: Walk applies them in order and keeps a dependent only if
// every filter keeps it.
type Filter interface {
	// Name identifies the filter in logs.
	Name() string
	// Keep reports whether the dependent survives the filter.
	Keep(ref Ref) bool
}

type filterFunc struct {
	name string
	keep func(Ref) bool
}

func (f *filterFunc) Name() string      { return f.name }
func (f *filterFunc) Keep(ref Ref) bool { return f.keep(ref) }

// LatestOnly keeps a dependent only if the reached version is that package's
// current latest non-yanked version.
func LatestOnly(reg registry.Index) Filter {
	return &filterFunc{name: "latest-only", keep: func(ref Ref) bool {
		pkg, ok := reg[ref.Name]
		if !ok {
			return false
		}
		latest := pkg.LatestNonYanked()
		return latest != nil && latest.Version == ref.Version
	}}
}

// MinimumVersion keeps a dependent if it declares no minimum-supported-version
// constraint, or the given target version is at or above the declared floor.
// Declarations may be partial ("1.56"); ones that do not parse at all are
// kept, treating an unreadable declaration as no declaration.
func MinimumVersion(reg registry.Index, target *semver.Version) Filter {
	return &filterFunc{name: "minimum-version", keep: func(ref Ref) bool {
		pkg, ok := reg[ref.Name]
		if !ok {
			return false
		}
		vr := pkg.Version(ref.Version)
		if vr == nil {
			return false
		}
		if vr.MinVersion == "" {
			return true
		}
		floor, err := semver.NewVersion(vr.MinVersion)
		if err != nil {
			return true
		}
		return !target.LessThan(floor)
	}}
}

// LeafOnly keeps only dependents that have no dependents of their own,
// i.e. packages nothing else in the registry depends on.
func LeafOnly(idx *Index) Filter {
	return &filterFunc{name: "leaf-only", keep: func(ref Ref) bool {
		return !idx.HasDependents(ref.Name)
	}}
}

// Walk returns every package that transitively depends on any version of
// target satisfying requirement.
//
// Traversal is breadth-first over the reverse index. The seen-set is keyed by
// package name only: when several versions of one dependent are reachable,
// the first version dequeued represents the package and the rest are not
// tracked separately. Filters run after traversal, in order. The result is
// sorted by name then version.
func Walk(idx *Index, reg registry.Index, target, requirement string, filters ...Filter) ([]Ref, error) {
	c, err := semver.NewConstraint(requirement)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "requirement %q", requirement)
	}

	// Seed with every version of target matching the requirement. Yanked
	// versions seed too: they may still hold historical dependents.
	var queue []Ref
	if pkg, ok := reg[target]; ok {
		for _, vr := range pkg.Versions {
			if c.Check(vr.Semver) {
				queue = append(queue, Ref{Name: target, Version: vr.Version})
			}
		}
	}

	seen := map[string]bool{target: true}
	var found []Ref
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, dep := range idx.Dependents(cur.Name, cur.Version) {
			if seen[dep.Name] {
				continue
			}
			seen[dep.Name] = true
			found = append(found, dep)
			queue = append(queue, dep)
		}
	}

	for _, f := range filters {
		kept := found[:0]
		for _, ref := range found {
			if f.Keep(ref) {
				kept = append(kept, ref)
			}
		}
		found = kept
	}

	sortRefs(found)
	return found, nil
}
