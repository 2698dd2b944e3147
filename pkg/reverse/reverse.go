package reverse

import (
	"hash/fnv"
	"sort"
	"sync"
)

// Ref identifies one (package, exact version) pair.
type Ref struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// shardCount must stay a power of two; shardFor masks against it.
const shardCount = 64

// shard guards one slice of the key space.
// Keys are target package names; values map target version to its dependents.
type shard struct {
	mu sync.RWMutex
	m  map[string]map[string]map[Ref]struct{}
}

// Index is the reverse-dependency index: (target package, target version) to
// the set of dependents. Insert-only while Build runs, read-only afterwards.
type Index struct {
	shards [shardCount]*shard
}

// NewIndex creates an empty reverse index.
func NewIndex() *Index {
	x := &Index{}
	for i := range x.shards {
		x.shards[i] = &shard{m: make(map[string]map[string]map[Ref]struct{})}
	}
	return x
}

func (x *Index) shardFor(name string) *shard {
	h := fnv.New32a()
	h.Write([]byte(name))
	return x.shards[h.Sum32()&(shardCount-1)]
}

// Add records that source depends on the exact target version.
// Safe for concurrent use; duplicate inserts collapse into the set.
func (x *Index) Add(target, source Ref) {
	s := x.shardFor(target.Name)
	s.mu.Lock()
	defer s.mu.Unlock()

	versions, ok := s.m[target.Name]
	if !ok {
		versions = make(map[string]map[Ref]struct{})
		s.m[target.Name] = versions
	}
	deps, ok := versions[target.Version]
	if !ok {
		deps = make(map[Ref]struct{})
		versions[target.Version] = deps
	}
	deps[source] = struct{}{}
}

// Dependents returns the direct dependents of one (package, version),
// sorted for deterministic output. Returns nil if the key has no entry.
func (x *Index) Dependents(name, version string) []Ref {
	s := x.shardFor(name)
	s.mu.RLock()
	defer s.mu.RUnlock()

	deps := s.m[name][version]
	if len(deps) == 0 {
		return nil
	}
	out := make([]Ref, 0, len(deps))
	for ref := range deps {
		out = append(out, ref)
	}
	sortRefs(out)
	return out
}

// HasDependents reports whether any version of the package has a dependent.
func (x *Index) HasDependents(name string) bool {
	s := x.shardFor(name)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.m[name]) > 0
}

// Edges returns the total number of recorded dependency edges.
func (x *Index) Edges() int {
	n := 0
	for _, s := range x.shards {
		s.mu.RLock()
		for _, versions := range s.m {
			for _, deps := range versions {
				n += len(deps)
			}
		}
		s.mu.RUnlock()
	}
	return n
}

// Snapshot flattens the index into a plain map with sorted dependent slices,
// suitable for serialization or traversal by exporters.
func (x *Index) Snapshot() map[string]map[string][]Ref {
	out := make(map[string]map[string][]Ref)
	for _, s := range x.shards {
		s.mu.RLock()
		for name, versions := range s.m {
			vs := make(map[string][]Ref, len(versions))
			for version, deps := range versions {
				refs := make([]Ref, 0, len(deps))
				for ref := range deps {
					refs = append(refs, ref)
				}
				sortRefs(refs)
				vs[version] = refs
			}
			out[name] = vs
		}
		s.mu.RUnlock()
	}
	return out
}

// restore rebuilds index contents from a snapshot.
func (x *Index) restore(snap map[string]map[string][]Ref) {
	for name, versions := range snap {
		for version, refs := range versions {
			for _, ref := range refs {
				x.Add(Ref{Name: name, Version: version}, ref)
			}
		}
	}
}

func sortRefs(refs []Ref) {
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].Name != refs[j].Name {
			return refs[i].Name < refs[j].Name
		}
		return refs[i].Version < refs[j].Version
	})
}
