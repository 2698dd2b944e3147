// Package resolve runs full dependency resolution against the registry
// snapshot and caches the resulting lockfiles on disk.
//
// # Pipeline
//
// ResolveAll feeds package versions through a fixed worker pool. Each worker
// owns one resolver Context for its lifetime; descriptors are never resolved
// on a context owned by another worker. For every unit the worker synthesizes
// an ephemeral workspace descriptor, checks the lockfile cache, and only on a
// miss invokes the resolver. A successful resolution is written back with a
// temp-file-and-rename so a crash never leaves a torn lockfile behind.
//
// # Failure taxonomy
//
// Resolver diagnostics are classified into a closed set of Kind values by
// substring matching on the diagnostic text. Classified failures are recorded
// in the run Summary and the run continues; a diagnostic no rule matches is a
// bug in the taxonomy, so it aborts the run instead of being miscounted.
package resolve
