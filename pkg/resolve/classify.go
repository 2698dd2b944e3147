package resolve

import "strings"

// Kind is a closed taxonomy of resolution failures. Every diagnostic an
// external resolver can emit must map to exactly one Kind; an unmatched
// diagnostic means the taxonomy is missing a name and aborts the run.
type Kind string

const (
	KindDependencyFullyYanked    Kind = "dependency_fully_yanked"
	KindUnavailableDependency    Kind = "unavailable_dependency"
	KindCyclicDependency         Kind = "cyclic_dependency"
	KindVersionConflict          Kind = "version_conflict"
	KindNoMatchingPackage        Kind = "no_matching_package"
	KindCandidateVersionMismatch Kind = "candidate_version_mismatch"
	KindFeatureConflict          Kind = "feature_conflict"
	KindInvalidIndexEntry        Kind = "invalid_index_entry"
)

// rule matches when every pattern occurs in the diagnostic text.
type rule struct {
	patterns []string
	kind     Kind
}

// Rules are evaluated in order, first match wins. The ordering matters:
// version-selection diagnostics embed the generic "failed to select a
// version" phrase, so the more specific patterns come first. The table is
// the only place raw resolver text is interpreted; if the resolver ever
// grows structured error codes, swap the table, not the callers.
var rules = []rule{
	{[]string{"does not have these features"}, KindFeatureConflict},
	{[]string{"candidate versions found which didn't match"}, KindCandidateVersionMismatch},
	{[]string{"all possible versions conflict with previously selected packages"}, KindVersionConflict},
	{[]string{"failed to select a version for the requirement", "is yanked"}, KindDependencyFullyYanked},
	{[]string{"failed to select a version for the requirement", "is unavailable"}, KindUnavailableDependency},
	{[]string{"cyclic package dependency"}, KindCyclicDependency},
	{[]string{"no matching package named"}, KindNoMatchingPackage},
	{[]string{"invalid index entry"}, KindInvalidIndexEntry},
}

// Classify maps raw diagnostic text to a failure Kind. The second return is
// false when no rule matches, which callers must treat as fatal rather than
// counting the failure under a wrong label.
func Classify(text string) (Kind, bool) {
	for _, r := range rules {
		matched := true
		for _, p := range r.patterns {
			if !strings.Contains(text, p) {
				matched = false
				break
			}
		}
		if matched {
			return r.kind, true
		}
	}
	return "", false
}
