// Package engine defines the contract between the synchronization layer
// and a positioning engine: an Engine binds Instances to a (reference,
// popper) node pair and an Options bundle, recomputes layout on demand,
// and reports each computation through the enabled modifier callbacks.
//
// The package carries no placement math. Engines are opaque to the rest
// of the library; the synchronization layer only creates, destroys, and
// nudges instances, and consumes the Result descriptors they emit.
package engine

import "github.com/go-popper/popper/pkg/dom"

// Engine creates positioning instances. Implementations own their
// scheduling and listener machinery; callers own instance lifetime.
type Engine interface {
	// Create binds a new instance to the node pair and options. The
	// instance computes an initial layout and runs the enabled modifier
	// callbacks in ascending Order with the Result descriptor. There is
	// no error return: engine-internal failure is fatal misuse and
	// panics through to the caller.
	Create(reference, popper *dom.Node, opts Options) Instance
}

// Instance is one live binding between a node pair and an options
// bundle. Engines that recompute asynchronously deliver callbacks back
// on the goroutine that created the instance.
type Instance interface {
	// ScheduleUpdate requests a layout recomputation. The request is
	// fire-and-forget; the result arrives through the modifier
	// callbacks.
	ScheduleUpdate()

	// EnableEventListeners attaches the engine's scroll and resize
	// listeners so layout tracks ambient movement.
	EnableEventListeners()

	// DisableEventListeners detaches the listeners without destroying
	// the instance. Explicit ScheduleUpdate calls still recompute.
	DisableEventListeners()

	// Destroy releases the instance. No modifier callback fires after
	// Destroy returns.
	Destroy()
}
