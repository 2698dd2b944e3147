// Package synth produces ephemeral package descriptors for the resolver.
//
// A descriptor carries exactly what constraint resolution needs (identity,
// dependency list, feature map, platform predicates, minimum-supported
// version) and nothing else. No manifest exists on disk and no source is
// checked out; synthesis is a pure data mapping from a loaded version record,
// plus the computation of one deterministic scratch path used as the cache
// location for the resolution result.
//
// Synthesis failures (an unparsable platform predicate or minimum-version
// string) are attributable to the single package-version that carried the bad
// field and never abort unrelated work.
package synth
