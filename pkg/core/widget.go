package core

import (
	"reflect"

	"github.com/go-popper/popper/pkg/dom"
)

// Widget is an immutable description of part of the tree. Widgets are cheap
// configuration values; the framework diffs them against the previous
// configuration and updates the element tree to match.
type Widget interface {
	// CreateElement returns a fresh, unconfigured element for this widget
	// kind. The framework injects the widget, build owner, and self
	// reference during inflation.
	CreateElement() Element

	// Key identifies this widget among siblings for reconciliation.
	// Widgets with equal types and equal keys update in place; otherwise
	// the old element is unmounted and a new one inflated.
	Key() any
}

// StatelessWidget composes other widgets from its immutable configuration.
type StatelessWidget interface {
	Widget
	Build(ctx BuildContext) Widget
}

// StatefulWidget owns mutable state that outlives individual rebuilds.
// The widget itself stays immutable; the state object created by
// CreateState persists for the lifetime of the element.
type StatefulWidget interface {
	Widget
	CreateState() State
}

// State holds the mutable state for a StatefulWidget and builds its subtree.
// Embed [StateBase] to inherit no-op lifecycle defaults and SetState.
type State interface {
	// InitState runs once after the state is attached to its element,
	// before the first build.
	InitState()

	// Build constructs the subtree from the current state.
	Build(ctx BuildContext) Widget

	// DidChangeDependencies runs when an inherited widget this state
	// depends on notifies a change.
	DidChangeDependencies()

	// DidUpdateWidget runs when the element's widget is replaced by a
	// newer configuration of the same type.
	DidUpdateWidget(oldWidget StatefulWidget)

	// Dispose releases resources. Called exactly once when the element
	// unmounts.
	Dispose()
}

// InheritedWidget propagates a value down the tree. Descendants register as
// dependents through [BuildContext.DependOnInherited] and rebuild when
// UpdateShouldNotify reports a change.
type InheritedWidget interface {
	Widget
	ChildWidget() Widget
	UpdateShouldNotify(old InheritedWidget) bool
}

// AspectAwareInheritedWidget refines dependent notification: dependents that
// registered with specific aspects are only rebuilt when
// UpdateShouldNotifyDependent reports that one of their aspects changed.
type AspectAwareInheritedWidget interface {
	InheritedWidget
	UpdateShouldNotifyDependent(old InheritedWidget, aspects map[any]struct{}) bool
}

// NodeWidget owns a concrete document node. The element creates the node
// once at mount and calls UpdateNode on every rebuild to push the widget's
// configuration into it.
type NodeWidget interface {
	Widget
	CreateNode(ctx BuildContext) *dom.Node
	UpdateNode(ctx BuildContext, node *dom.Node)
}

// BuildContext is handed to build methods. It exposes the element's position
// in the tree without exposing the element's mutable internals.
type BuildContext interface {
	// Widget returns the widget configuration currently hosted at this
	// location.
	Widget() Widget

	// DependOnInherited finds the nearest ancestor inherited widget of
	// the given type, registers the caller as a dependent, and returns
	// the widget (or nil when absent). A non-nil aspect narrows the
	// dependency to that aspect.
	DependOnInherited(inheritedType reflect.Type, aspect any) any

	// DependOnInheritedWithAspects registers several aspects in a single
	// tree walk.
	DependOnInheritedWithAspects(inheritedType reflect.Type, aspects ...any) any

	// FindAncestor walks up the element tree and returns the first
	// ancestor matching the predicate, or nil.
	FindAncestor(predicate func(Element) bool) Element
}

// Element is the instantiation of a Widget at a particular tree location.
// Elements carry identity across rebuilds; widgets are replaced wholesale.
type Element interface {
	Widget() Widget
	Mount(parent Element, slot any)
	Update(newWidget Widget)
	Unmount()
	RebuildIfNeeded()
	MarkNeedsBuild()
	VisitChildren(visitor func(Element) bool)
	Depth() int
	Slot() any
	UpdateSlot(slot any)
}

// MountRoot inflates widget and mounts the resulting element as the root of
// a new tree. Rebuilds scheduled during mounting are left on the owner's
// dirty list for the caller to flush.
func MountRoot(widget Widget, owner *BuildOwner) Element {
	element := inflateWidget(widget, owner)
	if element == nil {
		return nil
	}
	element.Mount(nil, nil)
	return element
}
