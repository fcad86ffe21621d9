// Package core provides the widget and element framework interfaces and lifecycle.
//
// This package defines the foundational types for building declarative node
// trees: Widget, Element, State, and BuildContext. Widgets describe what the
// tree should look like; the framework diffs successive descriptions and
// updates the element tree, and through it the document nodes, to match.
//
// # Core Types
//
// Widget is an immutable description of part of the tree. Widgets are
// lightweight configuration values that can be recreated on every build
// without performance concerns.
//
// Element is the instantiation of a Widget at a particular location in the
// tree. Elements manage lifecycle and identity across rebuilds.
//
// NodeWidget is the leaf-most widget kind: it owns a concrete document node
// and pushes its configuration into it on every rebuild.
//
// # Stateful Widgets
//
// For widgets that need mutable state, embed StateBase in your state struct:
//
//	type popoverState struct {
//	    core.StateBase
//	    open bool
//	}
//
//	func (s *popoverState) InitState() {
//	    // Initialize state here
//	}
//
//	func (s *popoverState) Build(ctx core.BuildContext) core.Widget {
//	    if !s.open {
//	        return nil
//	    }
//	    return widgets.ElementNode{Tag: "div"}
//	}
//
// SetState mutates state and schedules a rebuild through the element's
// BuildOwner; the host decides when to flush.
//
// # Inherited Widgets
//
// InheritedWidget propagates values down the tree without threading them
// through every constructor. Descendants that read the value through
// BuildContext.DependOnInherited rebuild automatically when it changes.
// Aspect-aware variants narrow notification to the facets a dependent
// actually reads.
//
// # Constructor Conventions
//
// Long-lived mutable objects use NewX() constructors returning pointers:
//
//	owner := core.NewBuildOwner()
//	cell := dom.NewNodeRef()
//
// This distinguishes them from immutable configuration objects (widgets),
// which are plain struct literals.
package core
