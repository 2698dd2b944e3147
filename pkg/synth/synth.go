package synth

import (
	"maps"
	"path/filepath"

	"github.com/Masterminds/semver/v3"

	"github.com/depscope/depscope/pkg/errors"
	"github.com/depscope/depscope/pkg/registry"
)

// Source identifies where a descriptor's package lives. Every synthesized
// descriptor uses the fixed registry source; there is no path or git source.
type Source string

// SourceRegistry is the fixed source identity for synthesized descriptors.
const SourceRegistry Source = "registry"

// Dependency is one resolver-native dependency entry.
type Dependency struct {
	Name            string           `json:"name"`
	Req             string           `json:"req"`
	Kind            registry.DepKind `json:"kind"`
	Optional        bool             `json:"optional"`
	DefaultFeatures bool             `json:"default_features"`
	Rename          string           `json:"rename,omitempty"`
	Features        []string         `json:"features,omitempty"`
	Platform        *Platform        `json:"platform,omitempty"` // nil when the dependency is unconditional
}

// Descriptor is the minimal input the external resolver needs for one
// package-version. It never touches the filesystem: ScratchPath is only a
// computed location where the resolution result will be cached.
type Descriptor struct {
	Name     string              `json:"name"`
	Version  string              `json:"version"`
	Semver   *semver.Version     `json:"-"`
	Source   Source              `json:"source"`
	Deps     []Dependency        `json:"deps"`
	Features map[string][]string `json:"features,omitempty"`
	Links    string              `json:"links,omitempty"`

	// MinVersion is the declared minimum-supported-version floor, nil when
	// the record declares none.
	MinVersion *semver.Version `json:"min_version,omitempty"`

	// ScratchPath is the deterministic per-(name, version) directory used as
	// the lockfile cache location.
	ScratchPath string `json:"scratch_path"`
}

// Key returns the canonical "name@version" identity of the descriptor.
func (d *Descriptor) Key() string {
	return d.Name + "@" + d.Version
}

// Synthesize maps a loaded version record to a resolver descriptor.
//
// All dependency attributes carry through one-to-one; platform predicates and
// the minimum-version string are parsed into their native representations.
// A field that fails to parse yields a SYNTH_ERROR naming the package-version
// so the caller can record it without aborting the batch.
func Synthesize(name string, vr *registry.VersionRecord, cacheRoot string) (*Descriptor, error) {
	d := &Descriptor{
		Name:        name,
		Version:     vr.Version,
		Semver:      vr.Semver,
		Source:      SourceRegistry,
		Features:    maps.Clone(vr.Features),
		Links:       vr.Links,
		ScratchPath: filepath.Join(cacheRoot, name, vr.Version),
	}

	if vr.MinVersion != "" {
		floor, err := semver.NewVersion(vr.MinVersion)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSynth, err,
				"%s@%s: minimum version %q", name, vr.Version, vr.MinVersion)
		}
		d.MinVersion = floor
	}

	d.Deps = make([]Dependency, 0, len(vr.Deps))
	for _, spec := range vr.Deps {
		out := Dependency{
			Name:            spec.Name,
			Req:             spec.Req,
			Kind:            spec.Kind,
			Optional:        spec.Optional,
			DefaultFeatures: spec.DefaultFeatures,
			Rename:          spec.Rename,
			Features:        spec.Features,
		}
		if spec.Target != "" {
			platform, err := ParsePlatform(spec.Target)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeSynth, err,
					"%s@%s: dependency %s platform predicate", name, vr.Version, spec.Name)
			}
			out.Platform = platform
		}
		d.Deps = append(d.Deps, out)
	}
	return d, nil
}
