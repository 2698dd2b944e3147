package reverse

import (
	"testing"

	"github.com/Masterminds/semver/v3"

	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/registry"
)

func TestWalkDiamond(t *testing.T) {
	// Reverse edges: B and C reached from A; D reached from both B and C.
	// D must be visited exactly once, and the result must not depend on
	// edge insertion order.
	reg := mkReg(t, map[string][]vspec{
		"a": {{version: "1.0.0"}},
		"b": {{version: "1.0.0"}},
		"c": {{version: "1.0.0"}},
		"d": {{version: "1.0.0"}},
	})

	orders := map[string][][2]Ref{
		"forward": {
			{{Name: "a", Version: "1.0.0"}, {Name: "b", Version: "1.0.0"}},
			{{Name: "a", Version: "1.0.0"}, {Name: "c", Version: "1.0.0"}},
			{{Name: "b", Version: "1.0.0"}, {Name: "d", Version: "1.0.0"}},
			{{Name: "c", Version: "1.0.0"}, {Name: "d", Version: "1.0.0"}},
		},
		"reversed": {
			{{Name: "c", Version: "1.0.0"}, {Name: "d", Version: "1.0.0"}},
			{{Name: "b", Version: "1.0.0"}, {Name: "d", Version: "1.0.0"}},
			{{Name: "a", Version: "1.0.0"}, {Name: "c", Version: "1.0.0"}},
			{{Name: "a", Version: "1.0.0"}, {Name: "b", Version: "1.0.0"}},
		},
	}

	for name, edges := range orders {
		t.Run(name, func(t *testing.T) {
			idx := NewIndex()
			for _, e := range edges {
				idx.Add(e[0], e[1])
			}

			refs, err := Walk(idx, reg, "a", "^1.0")
			if err != nil {
				t.Fatalf("Walk error: %v", err)
			}
			if got := refNames(refs); !equalStrings(got, []string{"b", "c", "d"}) {
				t.Errorf("Walk = %v, want [b c d]", got)
			}
		})
	}
}

func TestWalkEndToEnd(t *testing.T) {
	// T@1.0.0 (no deps), M@1.0.0 depends on T ^1.0, N@1.0.0 depends on M ^1.0.
	reg := mkReg(t, map[string][]vspec{
		"t": {{version: "1.0.0"}},
		"m": {{version: "1.0.0", deps: []registry.DependencySpec{dep("t", "^1.0")}}},
		"n": {{version: "1.0.0", deps: []registry.DependencySpec{dep("m", "^1.0")}}},
	})
	idx := Build(reg, BuildOptions{})

	refs, err := Walk(idx, reg, "t", "^1.0")
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}

	want := []Ref{{Name: "m", Version: "1.0.0"}, {Name: "n", Version: "1.0.0"}}
	if len(refs) != len(want) {
		t.Fatalf("Walk = %v, want %v", refs, want)
	}
	for i := range want {
		if refs[i] != want[i] {
			t.Errorf("Walk[%d] = %v, want %v", i, refs[i], want[i])
		}
	}
}

func TestWalkSeedRequirement(t *testing.T) {
	// Dependents of versions outside the requirement must not be reached.
	reg := mkReg(t, map[string][]vspec{
		"t":   {{version: "0.9.0"}, {version: "1.0.0"}},
		"old": {{version: "1.0.0", deps: []registry.DependencySpec{dep("t", "^0.9")}}},
		"new": {{version: "1.0.0", deps: []registry.DependencySpec{dep("t", "^1.0")}}},
	})
	idx := Build(reg, BuildOptions{})

	refs, err := Walk(idx, reg, "t", "^1.0")
	if err != nil {
		t.Fatalf("Walk error: %v", err)
	}
	if got := refNames(refs); !equalStrings(got, []string{"new"}) {
		t.Errorf("Walk = %v, want [new]", got)
	}
}

func TestWalkBadRequirement(t *testing.T) {
	idx := NewIndex()
	reg := mkReg(t, map[string][]vspec{"t": {{version: "1.0.0"}}})

	_, err := Walk(idx, reg, "t", "not a requirement")
	if err == nil {
		t.Fatal("Walk should reject an unparsable requirement")
	}
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error code = %v, want INVALID_INPUT", errors.GetCode(err))
	}
}

func TestFilters(t *testing.T) {
	reg := mkReg(t, map[string][]vspec{
		"t": {{version: "1.0.0"}},
		// stale: reached at 1.0.0 but its latest non-yanked is 2.0.0
		"stale": {
			{version: "1.0.0", deps: []registry.DependencySpec{dep("t", "^1.0")}},
			{version: "2.0.0"},
		},
		// current: reached at its latest version, declares a satisfied minimum version
		"current": {{version: "1.0.0", minVer: "1.60.0", deps: []registry.DependencySpec{dep("t", "^1.0")}}},
		// demanding: minimum version too high for the probe
		"demanding": {{version: "1.0.0", minVer: "1.80.0", deps: []registry.DependencySpec{dep("t", "^1.0")}}},
		// mid: depended upon by current, so not a leaf
		"mid": {{version: "1.0.0", deps: []registry.DependencySpec{dep("t", "^1.0")}}},
	})
	reg["current"].Versions[0].Deps = append(reg["current"].Versions[0].Deps, dep("mid", "^1.0"))

	idx := Build(reg, BuildOptions{})
	probe := semver.MustParse("1.62.1")

	tests := []struct {
		name    string
		filters []Filter
		want    []string
	}{
		{"no filters", nil, []string{"current", "demanding", "mid", "stale"}},
		{"latest only", []Filter{LatestOnly(reg)}, []string{"current", "demanding", "mid"}},
		{"minimum version", []Filter{MinimumVersion(reg, probe)}, []string{"current", "mid", "stale"}},
		{"leaf only", []Filter{LeafOnly(idx)}, []string{"current", "demanding", "stale"}},
		{
			"composed",
			[]Filter{LatestOnly(reg), MinimumVersion(reg, probe), LeafOnly(idx)},
			[]string{"current"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			refs, err := Walk(idx, reg, "t", "^1.0", tt.filters...)
			if err != nil {
				t.Fatalf("Walk error: %v", err)
			}
			if got := refNames(refs); !equalStrings(got, tt.want) {
				t.Errorf("Walk = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMinimumVersionKeepsUnparsableDeclaration(t *testing.T) {
	reg := mkReg(t, map[string][]vspec{
		"p": {{version: "1.0.0", minVer: "garbage ~~"}},
	})
	f := MinimumVersion(reg, semver.MustParse("1.62.1"))
	if !f.Keep(Ref{Name: "p", Version: "1.0.0"}) {
		t.Error("unparsable minimum-version declaration should be treated as absent")
	}
}
