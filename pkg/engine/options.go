package engine

import (
	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/equality"
)

// Options is the bundle an instance is created from. It is treated as
// immutable once handed to Create; the synchronization layer derives a
// fresh bundle for every create so arrow attachment timing is
// respected.
type Options struct {
	Placement     Placement
	EventsEnabled bool
	PositionFixed bool
	Modifiers     ModifierMap
}

// ModifierMap holds named modifier configurations. Entries the engine
// does not recognize pass through untouched.
type ModifierMap map[string]Modifier

// Names of the modifiers the synchronization layer manages. Stock
// engines define many more (offset, preventOverflow, flip, hide); those
// are configured by callers and never touched here.
const (
	// ModifierApplyStyle is the engine's built-in style writer. The
	// synchronization layer always disables it: styles flow through
	// render state instead of direct node mutation.
	ModifierApplyStyle = "applyStyle"

	// ModifierArrow positions an arrow element against the reference.
	ModifierArrow = "arrow"

	// ModifierUpdateState is the synthetic modifier the synchronization
	// layer injects to observe each computation.
	ModifierUpdateState = "updateStateModifier"
)

// UpdateStateOrder runs the state-observing callback at the end of the
// pipeline, in the slot the disabled applyStyle modifier vacates.
const UpdateStateOrder = 900

// UpdateFn observes or transforms a computed Result. Enabled modifier
// functions run in ascending Order on every computation, each receiving
// the previous one's return value.
type UpdateFn func(Result) Result

// Modifier configures one named step of the engine's pipeline.
type Modifier struct {
	// Enabled toggles the step without discarding its configuration.
	Enabled bool

	// Order positions the step in the pipeline. Zero means the engine's
	// default order for a name it recognizes.
	Order int

	// Element is the target node for node-bound modifiers such as
	// arrow.
	Element *dom.Node

	// Fn, when set, is invoked with the Result descriptor on every
	// computation.
	Fn UpdateFn

	// Options carries engine-specific parameters (offsets, boundary
	// elements, padding).
	Options map[string]any
}

// EqualValue reports whether two modifiers carry the same
// configuration. Element compares by identity; Fn does not participate,
// since callbacks have no useful value equality and the derivation
// layer replaces them wholesale on every create.
func (m Modifier) EqualValue(o Modifier) bool {
	return m.Enabled == o.Enabled &&
		m.Order == o.Order &&
		m.Element == o.Element &&
		equality.Deep(m.Options, o.Options)
}

// Equal reports whether two maps hold value-identical configurations
// under the same names. A nil map equals only another nil map.
func (m ModifierMap) Equal(o ModifierMap) bool {
	if (m == nil) != (o == nil) || len(m) != len(o) {
		return false
	}
	for name, mod := range m {
		other, ok := o[name]
		if !ok || !mod.EqualValue(other) {
			return false
		}
	}
	return true
}

// Clone returns a top-level copy of the map. Modifier values are
// copied; their Options maps are shared.
func (m ModifierMap) Clone() ModifierMap {
	if m == nil {
		return nil
	}
	out := make(ModifierMap, len(m))
	for name, mod := range m {
		out[name] = mod
	}
	return out
}

// SameStorage reports whether two maps share underlying storage. Render
// layers use it to detect a caller rebuilding an identical
// configuration on every pass.
func SameStorage(a, b ModifierMap) bool {
	return equality.SameReference(a, b)
}
