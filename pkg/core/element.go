package core

import (
	"reflect"
	"time"

	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/errors"
)

type elementBase struct {
	widget     Widget
	parent     Element
	depth      int
	slot       any
	buildOwner *BuildOwner
	dirty      bool
	self       Element
	mounted    bool
}

func (e *elementBase) Widget() Widget {
	return e.widget
}

func (e *elementBase) Depth() int {
	return e.depth
}

func (e *elementBase) Slot() any {
	return e.slot
}

func (e *elementBase) UpdateSlot(slot any) {
	e.slot = slot
}

func (e *elementBase) MarkNeedsBuild() {
	if e.dirty {
		return
	}
	e.dirty = true
	if e.buildOwner != nil && e.self != nil {
		e.buildOwner.ScheduleBuild(e.self)
	}
}

func (e *elementBase) parentElement() Element {
	return e.parent
}

func (e *elementBase) setWidget(widget Widget) {
	e.widget = widget
}

func (e *elementBase) setSelf(self Element) {
	e.self = self
}

func (e *elementBase) setBuildOwner(owner *BuildOwner) {
	e.buildOwner = owner
}

func (e *elementBase) isMounted() bool {
	return e.mounted
}

func (e *elementBase) FindAncestor(predicate func(Element) bool) Element {
	current := e.parent
	for current != nil {
		if predicate(current) {
			return current
		}
		if base, ok := current.(interface{ parentElement() Element }); ok {
			current = base.parentElement()
		} else {
			break
		}
	}
	return nil
}

func (e *elementBase) DependOnInherited(inheritedType reflect.Type, aspect any) any {
	return dependOnInheritedImpl(e.self, inheritedType, aspect)
}

func (e *elementBase) DependOnInheritedWithAspects(inheritedType reflect.Type, aspects ...any) any {
	return dependOnInheritedWithAspects(e.self, inheritedType, aspects...)
}

// safeBuild executes a build function with panic recovery.
// If the build panics, it reports the error and returns an error widget.
func (e *elementBase) safeBuild(buildFn func() Widget) Widget {
	var built Widget
	var buildErr *errors.BuildError

	func() {
		defer func() {
			if r := recover(); r != nil {
				buildErr = &errors.BuildError{
					Widget:     reflect.TypeOf(e.widget).String(),
					Element:    reflect.TypeOf(e.self).String(),
					Recovered:  r,
					StackTrace: errors.CaptureStack(),
					Timestamp:  time.Now(),
				}
			}
		}()
		built = buildFn()
	}()

	if buildErr != nil {
		// Report to global error handler
		errors.ReportBuildError(buildErr)

		// Find nearest error boundary in ancestors
		if boundary := e.findErrorBoundary(); boundary != nil {
			if boundary.CaptureError(buildErr) {
				// The boundary owns display of the failure
				return nil
			}
		}

		// Use global fallback error widget builder
		if builder := GetErrorWidgetBuilder(); builder != nil {
			if errWidget := builder(buildErr); errWidget != nil {
				return errWidget
			}
		}

		// Final fallback: render nothing via a minimal placeholder
		return errorPlaceholder{err: buildErr}
	}
	return built
}

// findErrorBoundary searches ancestors for an error boundary.
func (e *elementBase) findErrorBoundary() ErrorBoundaryCapture {
	current := e.parent
	for current != nil {
		if capture, ok := current.(ErrorBoundaryCapture); ok {
			return capture
		}
		if base, ok := current.(interface{ parentElement() Element }); ok {
			current = base.parentElement()
		} else {
			break
		}
	}
	return nil
}

// errorPlaceholder is a minimal fallback widget shown when build fails
// and no error widget builder is configured.
type errorPlaceholder struct {
	err *errors.BuildError
}

func (p errorPlaceholder) CreateElement() Element {
	return NewStatelessElement()
}

func (p errorPlaceholder) Key() any {
	return nil
}

func (p errorPlaceholder) Build(ctx BuildContext) Widget {
	// Render nothing - the error has already been reported
	return nil
}

// StatelessElement hosts a StatelessWidget.
type StatelessElement struct {
	elementBase
	child Element
}

// NewStatelessElement creates a StatelessElement.
// The widget and build owner are set by the framework during inflation.
func NewStatelessElement() *StatelessElement {
	element := &StatelessElement{}
	element.self = element
	return element
}

func (e *StatelessElement) Mount(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.mounted = true
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatelessElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *StatelessElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
}

func (e *StatelessElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	widget := e.widget.(StatelessWidget)
	built := e.safeBuild(func() Widget {
		return widget.Build(e)
	})
	e.child = updateChild(e.child, built, e.self, e.buildOwner, nil)
}

func (e *StatelessElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// Node returns the document node from the first node-bearing descendant.
func (e *StatelessElement) Node() *dom.Node {
	if e.child == nil {
		return nil
	}
	if child, ok := e.child.(interface{ Node() *dom.Node }); ok {
		return child.Node()
	}
	return nil
}

// StatefulElement hosts a StatefulWidget and its State.
type StatefulElement struct {
	elementBase
	child Element
	state State
}

// NewStatefulElement creates a StatefulElement.
// The widget and build owner are set by the framework during inflation.
func NewStatefulElement() *StatefulElement {
	element := &StatefulElement{}
	element.self = element
	return element
}

func (e *StatefulElement) Mount(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.mounted = true
	widget := e.widget.(StatefulWidget)
	e.state = widget.CreateState()
	if setter, ok := e.state.(interface{ SetElement(*StatefulElement) }); ok {
		setter.SetElement(e)
	} else if setter, ok := e.state.(interface{ setElement(*StatefulElement) }); ok {
		setter.setElement(e)
	}
	e.state.InitState()
	e.dirty = true
	e.RebuildIfNeeded()
}

func (e *StatefulElement) Update(newWidget Widget) {
	oldWidget := e.widget.(StatefulWidget)
	e.widget = newWidget
	e.state.DidUpdateWidget(oldWidget)
	e.MarkNeedsBuild()
}

func (e *StatefulElement) Unmount() {
	e.mounted = false
	if e.child != nil {
		e.child.Unmount()
		e.child = nil
	}
	if e.state != nil {
		e.state.Dispose()
	}
}

func (e *StatefulElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false
	built := e.safeBuild(func() Widget {
		return e.state.Build(e)
	})
	e.child = updateChild(e.child, built, e.self, e.buildOwner, nil)
}

func (e *StatefulElement) VisitChildren(visitor func(Element) bool) {
	if e.child != nil {
		visitor(e.child)
	}
}

// State returns the state object hosted by this element.
func (e *StatefulElement) State() State {
	return e.state
}

// Node returns the document node from the first node-bearing descendant.
func (e *StatefulElement) Node() *dom.Node {
	if e.child == nil {
		return nil
	}
	if child, ok := e.child.(interface{ Node() *dom.Node }); ok {
		return child.Node()
	}
	return nil
}

// IndexedSlot identifies a child's position within a multi-child parent.
// PreviousSibling records the element ordered immediately before this child,
// nil for the first child.
type IndexedSlot struct {
	Index           int
	PreviousSibling Element
}

func updateChild(existing Element, widget Widget, parent Element, owner *BuildOwner, slot any) Element {
	if widget == nil {
		if existing != nil {
			existing.Unmount()
		}
		return nil
	}
	if existing != nil && canUpdateWidget(existing.Widget(), widget) {
		existing.Update(widget)
		if slot != nil && existing.Slot() != slot {
			existing.UpdateSlot(slot)
		}
		return existing
	}
	if existing != nil {
		existing.Unmount()
	}
	element := inflateWidget(widget, owner)
	if element != nil {
		element.Mount(parent, slot)
	}
	return element
}

// updateChildren reconciles a list of child elements against a new widget
// list. Runs matching from the top and bottom first, then resolves the
// middle by key, reusing keyed elements across positions. Old children that
// find no match are unmounted. Every surviving child receives an
// IndexedSlot reflecting its final position.
func updateChildren(parent Element, oldChildren []Element, newWidgets []Widget, owner *BuildOwner) []Element {
	newChildren := make([]Element, len(newWidgets))

	newHead, oldHead := 0, 0
	newTail, oldTail := len(newWidgets)-1, len(oldChildren)-1

	// Sync from the top while widgets update in place.
	for newHead <= newTail && oldHead <= oldTail {
		existing := oldChildren[oldHead]
		if existing == nil || !canUpdateWidget(existing.Widget(), newWidgets[newHead]) {
			break
		}
		existing.Update(newWidgets[newHead])
		newChildren[newHead] = existing
		newHead++
		oldHead++
	}

	// Sync from the bottom.
	for newHead <= newTail && oldHead <= oldTail {
		existing := oldChildren[oldTail]
		if existing == nil || !canUpdateWidget(existing.Widget(), newWidgets[newTail]) {
			break
		}
		existing.Update(newWidgets[newTail])
		newChildren[newTail] = existing
		newTail--
		oldTail--
	}

	// Index the remaining old children by key. Non-keyed (or non-comparable
	// keyed) children in the middle cannot be matched and are unmounted.
	var oldKeyed map[any]Element
	for i := oldHead; i <= oldTail; i++ {
		existing := oldChildren[i]
		if existing == nil {
			continue
		}
		key := keyOf(existing.Widget())
		if key != nil {
			if oldKeyed == nil {
				oldKeyed = make(map[any]Element)
			}
			oldKeyed[key] = existing
		} else {
			existing.Unmount()
		}
	}

	// Fill the middle: reuse keyed elements, inflate everything else.
	for ; newHead <= newTail; newHead++ {
		widget := newWidgets[newHead]
		var existing Element
		if key := keyOf(widget); key != nil {
			if candidate, ok := oldKeyed[key]; ok && canUpdateWidget(candidate.Widget(), widget) {
				existing = candidate
				delete(oldKeyed, key)
			}
		}
		if existing != nil {
			existing.Update(widget)
			newChildren[newHead] = existing
		} else {
			element := inflateWidget(widget, owner)
			if element != nil {
				element.Mount(parent, nil)
			}
			newChildren[newHead] = element
		}
	}

	// Keyed old children that were not claimed by any new widget.
	for _, leftover := range oldKeyed {
		leftover.Unmount()
	}

	// Assign final slots in order.
	var previous Element
	for i, child := range newChildren {
		if child == nil {
			continue
		}
		child.UpdateSlot(IndexedSlot{Index: i, PreviousSibling: previous})
		previous = child
	}
	return newChildren
}

// keyOf returns the widget's key when it can serve as a map key, nil
// otherwise. Non-comparable keys would panic on map insertion, so they are
// treated as absent.
func keyOf(widget Widget) any {
	if widget == nil {
		return nil
	}
	key := widget.Key()
	if key == nil || !isComparable(key) {
		return nil
	}
	return key
}

func canUpdateWidget(existing Widget, next Widget) bool {
	if existing == nil || next == nil {
		return false
	}
	if reflect.TypeOf(existing) != reflect.TypeOf(next) {
		return false
	}
	return reflect.DeepEqual(existing.Key(), next.Key())
}

func isComparable(value any) bool {
	if value == nil {
		return true
	}
	return reflect.TypeOf(value).Comparable()
}

func inflateWidget(widget Widget, owner *BuildOwner) Element {
	if widget == nil {
		return nil
	}
	element := widget.CreateElement()
	if element == nil {
		return nil
	}
	if setter, ok := element.(interface{ setWidget(Widget) }); ok {
		setter.setWidget(widget)
	}
	if setter, ok := element.(interface{ setBuildOwner(*BuildOwner) }); ok {
		setter.setBuildOwner(owner)
	}
	if setter, ok := element.(interface{ setSelf(Element) }); ok {
		setter.setSelf(element)
	}
	return element
}
