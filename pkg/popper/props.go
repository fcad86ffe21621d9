package popper

import (
	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/engine"
	"github.com/go-popper/popper/pkg/equality"
)

// Props is the render payload a Popper hands to its child builder.
type Props struct {
	// Ref must be wired to the positioned element's node. The binding
	// creates the engine instance through it, so a child that never
	// attaches the ref never gets positioned.
	Ref dom.RefFunc
	// Style is the style to apply to the positioned element. It holds the
	// initial off-screen style until the engine publishes a result.
	Style dom.Style
	// Placement is the placement the engine resolved, "" until computed.
	Placement engine.Placement
	// OutOfBoundaries reports whether the popper escaped its boundaries,
	// nil until computed.
	OutOfBoundaries *bool
	// ScheduleUpdate requests a recompute from the engine. Always safe to
	// call; a no-op while no instance exists.
	ScheduleUpdate func()
	// ArrowProps carries the arrow element's ref and style.
	ArrowProps ArrowProps
}

// ArrowProps is the arrow half of the render payload.
type ArrowProps struct {
	Ref   dom.RefFunc
	Style dom.Style
}

// Builder produces the popper subtree from the render payload.
type Builder func(Props) core.Widget

// BuilderList holds builders; only the first entry is used.
type BuilderList []Builder

// ChildBuilder is the polymorphic child slot of a Popper. Builder and
// BuilderList both satisfy it.
type ChildBuilder interface {
	builders() []Builder
}

func (b Builder) builders() []Builder { return []Builder{b} }

func (l BuilderList) builders() []Builder { return l }

// firstBuilder normalizes a polymorphic child value to a single builder,
// nil when the slot is empty.
func firstBuilder(child ChildBuilder) Builder {
	if child == nil {
		return nil
	}
	list := child.builders()
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// RenderState is the engine output published into the tree.
type RenderState struct {
	Style           dom.Style
	ArrowStyle      dom.Style
	Placement       engine.Placement
	OutOfBoundaries *bool
}

// initialRenderState keeps the popper positioned but invisible until the
// engine's first result arrives, so consumers can measure it without a
// flash at the wrong coordinates.
func initialRenderState() RenderState {
	return RenderState{
		Style: dom.Style{
			"position":      "absolute",
			"top":           0,
			"left":          0,
			"opacity":       0,
			"pointerEvents": "none",
		},
		ArrowStyle: dom.Style{},
	}
}

// equal compares render states by value. The boundary flag compares
// through the pointer; a fresh pointer to the same value is equal.
func (r RenderState) equal(o RenderState) bool {
	if r.Placement != o.Placement {
		return false
	}
	if (r.OutOfBoundaries == nil) != (o.OutOfBoundaries == nil) {
		return false
	}
	if r.OutOfBoundaries != nil && *r.OutOfBoundaries != *o.OutOfBoundaries {
		return false
	}
	return equality.Deep(r.Style, o.Style) && equality.Deep(r.ArrowStyle, o.ArrowStyle)
}
