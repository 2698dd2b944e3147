// Package reverse builds and queries the reverse-dependency index.
//
// # Model
//
// The forward registry index answers "what does X depend on"; this package
// inverts it: for every (package, version) it records the set of
// (dependent, dependent version) pairs whose declared requirement selects
// that exact version. Edges point from a non-yanked dependent to the highest
// non-yanked version of the target that satisfies the requirement.
//
// The graph is best-effort by construction. Registry snapshots contain
// dangling dependency names, requirement strings that never parsed, and
// requirements no published version satisfies; all of these drop the edge
// silently rather than failing the build.
//
// # Concurrency
//
// Build fans out one task per package. Inserts land in a lock-striped
// map-of-sets, so correctness does not depend on task ordering. After Build
// returns, the index is read-only.
package reverse
