// Package registry loads a package-registry snapshot into an in-memory index.
//
// # Snapshot Layout
//
// The input is a sharded directory tree as published by crates-style
// registries: short names under "1/", "2/", "3/<initial>/", longer names
// under "<first two>/<next two>/<name>". Each leaf file holds one
// newline-delimited JSON record per published version, in publish order.
//
// # Parsing Model
//
// Files are independent, so parsing fans out one task per file and fans into
// a shared map. A malformed record or invalid version string anywhere aborts
// the whole load: downstream stages assume a fully consistent index, so no
// partial index is ever produced.
//
// # Lifecycle
//
// An Index is populated once by Load and never mutated afterwards. All reads
// are safe for concurrent use.
package registry
