package resolve

import "github.com/depscope/depscope/pkg/synth"

// FeatureSelection controls which declared units participate in a
// resolution.
type FeatureSelection struct {
	// AllFeatures enables every feature the package declares, regardless of
	// its default set.
	AllFeatures bool
	// DefaultFeatures enables the package's default feature set.
	DefaultFeatures bool
	// DevUnits includes development-only dependencies.
	DevUnits bool
}

// DefaultSelection is the selection ResolveAll uses for every unit: all
// features on, development dependencies off.
func DefaultSelection() FeatureSelection {
	return FeatureSelection{AllFeatures: true, DefaultFeatures: true}
}

// Diagnostic is a failure reported by the resolver itself, as opposed to an
// infrastructure error invoking it. Its text is the input to Classify;
// callers must not interpret it any other way.
type Diagnostic struct {
	Text string
}

func (d *Diagnostic) Error() string {
	return d.Text
}

// Context is a single-owner resolver session. A Context is not safe for
// concurrent use; the orchestrator gives each worker its own and never
// migrates one between workers.
type Context interface {
	// Resolve computes the full dependency closure of d under sel. A
	// *Diagnostic error is a classifiable resolution failure; any other
	// error is infrastructural.
	Resolve(d *synth.Descriptor, sel FeatureSelection) (*Lockfile, error)

	// Close releases the session. The Context must not be used afterwards.
	Close() error
}

// ContextFactory mints resolver contexts. NewContext is called at most once
// per worker, lazily on the worker's first resolution.
type ContextFactory interface {
	NewContext(workerID int) (Context, error)
}
