package resolve

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Kind
		ok   bool
	}{
		{
			name: "fully yanked",
			text: `failed to select a version for the requirement ` + "`quote = \"^1.0\"`" + ` (locked to 1.0.35)
candidate versions found which didn't match: 1.0.40
location searched: registry
all of the candidate versions are yanked; the package quote is yanked`,
			// "candidate versions found which didn't match" takes priority
			// over the yank phrasing when both occur.
			want: KindCandidateVersionMismatch,
			ok:   true,
		},
		{
			name: "yanked without candidate phrase",
			text: "failed to select a version for the requirement `left-pad = \"^1\"`: version 1.0.0 is yanked",
			want: KindDependencyFullyYanked,
			ok:   true,
		},
		{
			name: "unavailable",
			text: "failed to select a version for the requirement `gone = \"*\"`: package is unavailable",
			want: KindUnavailableDependency,
			ok:   true,
		},
		{
			name: "feature conflict",
			text: "package `tokio v1.0.0` does not have these features: `io-compat`",
			want: KindFeatureConflict,
			ok:   true,
		},
		{
			name: "version conflict",
			text: "all possible versions conflict with previously selected packages",
			want: KindVersionConflict,
			ok:   true,
		},
		{
			name: "cycle",
			text: "cyclic package dependency: package `a v1.0.0` depends on itself",
			want: KindCyclicDependency,
			ok:   true,
		},
		{
			name: "missing package",
			text: "no matching package named `serd` found",
			want: KindNoMatchingPackage,
			ok:   true,
		},
		{
			name: "invalid entry",
			text: "invalid index entry for package `broken`",
			want: KindInvalidIndexEntry,
			ok:   true,
		},
		{
			name: "select-version alone is not enough",
			text: "failed to select a version for the requirement `x = \"^2\"`",
			ok:   false,
		},
		{
			name: "unknown diagnostic",
			text: "the resolver exploded in a novel way",
			ok:   false,
		},
		{
			name: "empty",
			text: "",
			ok:   false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Classify(tt.text)
			if ok != tt.ok {
				t.Fatalf("Classify ok = %v, want %v", ok, tt.ok)
			}
			if ok && got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	text := "candidate versions found which didn't match: 2.0.0; all possible versions conflict with previously selected packages"
	first, ok := Classify(text)
	if !ok {
		t.Fatal("expected a match")
	}
	for i := 0; i < 10; i++ {
		got, _ := Classify(text)
		if got != first {
			t.Fatalf("run %d classified as %q, first run %q", i, got, first)
		}
	}
	if first != KindCandidateVersionMismatch {
		t.Errorf("priority order broken: got %q", first)
	}
}
