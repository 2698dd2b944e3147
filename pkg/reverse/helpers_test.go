package reverse

import (
	"sort"
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/depscope/depscope/pkg/registry"
)

// vspec describes one version for test registry construction.
type vspec struct {
	version string
	yanked  bool
	minVer  string
	deps    []registry.DependencySpec
}

// dep is shorthand for a normal dependency.
func dep(name, req string) registry.DependencySpec {
	return registry.DependencySpec{Name: name, Req: req, Kind: registry.KindNormal, DefaultFeatures: true}
}

// mkReg builds an in-memory registry index the way Load would.
func mkReg(t *testing.T, pkgs map[string][]vspec) registry.Index {
	t.Helper()
	idx := make(registry.Index, len(pkgs))
	for name, specs := range pkgs {
		p := &registry.Package{Name: name}
		for _, s := range specs {
			sv, err := semver.StrictNewVersion(s.version)
			if err != nil {
				t.Fatalf("bad test version %q: %v", s.version, err)
			}
			p.Versions = append(p.Versions, &registry.VersionRecord{
				Name:       name,
				Version:    s.version,
				Semver:     sv,
				Yanked:     s.yanked,
				MinVersion: s.minVer,
				Deps:       s.deps,
			})
		}
		sort.Slice(p.Versions, func(i, j int) bool {
			return p.Versions[i].Semver.LessThan(p.Versions[j].Semver)
		})
		idx[name] = p
	}
	return idx
}

// refNames extracts the sorted package names from a ref slice.
func refNames(refs []Ref) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	sort.Strings(names)
	return names
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
