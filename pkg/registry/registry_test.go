package registry

import (
	"encoding/json"
	"testing"

	"github.com/Masterminds/semver/v3"
)

func mustVersion(t *testing.T, s string) *semver.Version {
	t.Helper()
	v, err := semver.StrictNewVersion(s)
	if err != nil {
		t.Fatalf("bad version %q: %v", s, err)
	}
	return v
}

func TestLatestNonYanked(t *testing.T) {
	mk := func(version string, yanked bool) *VersionRecord {
		return &VersionRecord{Version: version, Yanked: yanked, Semver: mustVersion(t, version)}
	}

	tests := []struct {
		name     string
		versions []*VersionRecord
		want     string // "" means nil
	}{
		{
			name:     "skips yanked highest",
			versions: []*VersionRecord{mk("1.0.0", true), mk("1.1.0", false), mk("2.0.0", false)},
			want:     "2.0.0",
		},
		{
			name:     "falls back past yanked tail",
			versions: []*VersionRecord{mk("1.0.0", false), mk("2.0.0", true)},
			want:     "1.0.0",
		},
		{
			name:     "all yanked",
			versions: []*VersionRecord{mk("1.0.0", true), mk("2.0.0", true)},
			want:     "",
		},
		{
			name:     "empty",
			versions: nil,
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Package{Name: "p", Versions: tt.versions}
			got := p.LatestNonYanked()
			if tt.want == "" {
				if got != nil {
					t.Errorf("LatestNonYanked() = %s, want nil", got.Version)
				}
				return
			}
			if got == nil || got.Version != tt.want {
				t.Errorf("LatestNonYanked() = %v, want %s", got, tt.want)
			}
		})
	}
}

func TestDepKindJSON(t *testing.T) {
	tests := []struct {
		in   string
		want DepKind
	}{
		{`"normal"`, KindNormal},
		{`"dev"`, KindDev},
		{`"build"`, KindBuild},
		{`null`, KindNormal},
		{`"weird-future-kind"`, KindNormal},
	}
	for _, tt := range tests {
		var k DepKind
		if err := json.Unmarshal([]byte(tt.in), &k); err != nil {
			t.Fatalf("Unmarshal(%s): %v", tt.in, err)
		}
		if k != tt.want {
			t.Errorf("Unmarshal(%s) = %v, want %v", tt.in, k, tt.want)
		}
	}

	data, err := json.Marshal(KindBuild)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"build"` {
		t.Errorf("Marshal(KindBuild) = %s", data)
	}
}

func TestPackageVersionLookup(t *testing.T) {
	p := &Package{Name: "p", Versions: []*VersionRecord{
		{Version: "1.0.0", Semver: mustVersion(t, "1.0.0")},
		{Version: "1.2.0", Semver: mustVersion(t, "1.2.0")},
	}}
	if vr := p.Version("1.2.0"); vr == nil || vr.Version != "1.2.0" {
		t.Errorf("Version(1.2.0) = %v", vr)
	}
	if vr := p.Version("9.9.9"); vr != nil {
		t.Errorf("Version(9.9.9) = %v, want nil", vr)
	}
}
