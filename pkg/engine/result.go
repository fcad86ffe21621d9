package engine

import "github.com/go-popper/popper/pkg/dom"

// Result is the descriptor an instance threads through its modifier
// callbacks on every computation.
type Result struct {
	// Offsets carries the computed geometry.
	Offsets Offsets

	// Styles is the style map the render layer applies to the popper
	// node.
	Styles dom.Style

	// ArrowStyles is the style map for the arrow node, when one is
	// configured.
	ArrowStyles dom.Style

	// Placement is the side the engine resolved, which may differ from
	// the requested placement after collision handling.
	Placement Placement

	// Hide is set when the reference has left the configured boundaries
	// and the popper should be hidden.
	Hide bool
}

// Offsets groups computed geometry by node.
type Offsets struct {
	Popper PopperOffsets
}

// PopperOffsets is the popper node's computed position.
type PopperOffsets struct {
	// Position is the CSS scheme the offsets are relative to. Render
	// layers copy it into the popper style.
	Position Position

	Top  float64
	Left float64
}
