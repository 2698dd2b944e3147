package registry

import (
	"encoding/json"

	"github.com/Masterminds/semver/v3"

	"github.com/depscope/depscope/pkg/errors"
)

// DepKind classifies a dependency edge.
type DepKind int

const (
	// KindNormal is a runtime dependency.
	KindNormal DepKind = iota
	// KindDev is a test-only dependency, excluded from graph edges.
	KindDev
	// KindBuild is a build-time dependency.
	KindBuild
)

// String returns the registry wire name of the kind.
func (k DepKind) String() string {
	switch k {
	case KindDev:
		return "dev"
	case KindBuild:
		return "build"
	default:
		return "normal"
	}
}

// UnmarshalJSON decodes the registry wire representation. An absent or null
// kind means normal; unrecognized kinds also map to normal, matching how
// registries treat forward-compatible additions.
func (k *DepKind) UnmarshalJSON(data []byte) error {
	var s *string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == nil {
		*k = KindNormal
		return nil
	}
	switch *s {
	case "dev":
		*k = KindDev
	case "build":
		*k = KindBuild
	default:
		*k = KindNormal
	}
	return nil
}

// MarshalJSON encodes the registry wire representation.
func (k DepKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// DependencySpec is one declared dependency of a version record.
type DependencySpec struct {
	Name            string   `json:"name"`
	Req             string   `json:"req"`
	Kind            DepKind  `json:"kind"`
	Optional        bool     `json:"optional"`
	DefaultFeatures bool     `json:"default_features"`
	Rename          string   `json:"rename,omitempty"`
	Features        []string `json:"features,omitempty"`
	Target          string   `json:"target,omitempty"` // platform predicate, e.g. cfg(windows)
}

// VersionRecord is one published (name, version) unit. Immutable once loaded.
type VersionRecord struct {
	Name       string              `json:"name"`
	Version    string              `json:"vers"`
	Deps       []DependencySpec    `json:"deps"`
	Features   map[string][]string `json:"features,omitempty"`
	Yanked     bool                `json:"yanked"`
	Links      string              `json:"links,omitempty"`
	MinVersion string              `json:"rust_version,omitempty"` // minimum-supported-version constraint

	// Semver is the parsed form of Version, populated by Load.
	Semver *semver.Version `json:"-"`
}

// Package holds all published versions of one package,
// sorted ascending by semantic version with no duplicates.
type Package struct {
	Name     string
	Versions []*VersionRecord
}

// LatestNonYanked returns the highest non-yanked version, or nil if every
// version is yanked. Callers must skip packages that return nil.
func (p *Package) LatestNonYanked() *VersionRecord {
	for i := len(p.Versions) - 1; i >= 0; i-- {
		if !p.Versions[i].Yanked {
			return p.Versions[i]
		}
	}
	return nil
}

// Version returns the record for an exact version string, or nil.
func (p *Package) Version(version string) *VersionRecord {
	for _, vr := range p.Versions {
		if vr.Version == version {
			return vr
		}
	}
	return nil
}

// Index maps package name to its version history. Populated once by Load,
// never mutated afterwards; safe for concurrent reads.
type Index map[string]*Package

// Lookup returns the package entry for name, or an error with a NOT_FOUND
// code suitable for caller-facing reporting.
func (idx Index) Lookup(name string) (*Package, error) {
	p, ok := idx[name]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "package %q not in index", name)
	}
	return p, nil
}
