// Package pkg provides the core libraries for depscope registry analysis.
//
// # Overview
//
// depscope answers dependency questions over a point-in-time snapshot of a
// package registry. The pkg directory is organized by pipeline stage:
//
//  1. [registry] - Snapshot ingestion into an in-memory index
//  2. [reverse] - Reverse-dependency index construction, walking, and export
//  3. [synth] - Ephemeral workspace descriptor synthesis
//  4. [resolve] - Resolution orchestration, lockfile caching, failure taxonomy
//  5. [cache] - Generic byte caches (file, redis, null) for persisted indexes
//  6. [errors] - Structured error codes shared across packages
//
// # Architecture
//
// The typical data flow through depscope:
//
//	Registry Snapshot (sharded JSON-lines tree)
//	         ↓
//	    [registry] package (parse into the package index)
//	         ↓
//	    [reverse] package (invert edges, walk dependents)
//	    [synth] + [resolve] packages (one lockfile per package version)
//	         ↓
//	    dependent lists, DOT/SVG graphs, resolution summaries
//
// See the individual package documentation for details.
package pkg
