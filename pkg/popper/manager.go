package popper

import (
	"reflect"

	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
)

// Aspects of the reference scope. Poppers depend on the node aspect and
// rebuild when the anchor changes identity; References depend on the
// setter aspect and never rebuild from scope updates.
const (
	refNodeAspect   = "popper.referenceNode"
	refSetterAspect = "popper.referenceSetter"
)

var referenceScopeType = reflect.TypeFor[referenceScope]()

// Manager holds the ambient reference node that connects a [Reference]
// to the [Popper] widgets below it. Wrap the subtree containing both:
//
//	popper.Manager{Child: buildMenu()}
//
// A Popper with an explicit Reference field ignores the Manager.
type Manager struct {
	core.StatefulBase
	Child core.Widget
}

func (m Manager) CreateState() core.State { return &managerState{} }

type managerState struct {
	core.StateBase
	referenceNode *dom.Node
}

// setReferenceNode records the anchor reported by a Reference. Nil and
// identical reports are dropped so re-renders of the Reference subtree
// never invalidate the scope.
func (s *managerState) setReferenceNode(node *dom.Node) {
	if node == nil || node == s.referenceNode {
		return
	}
	s.SetState(func() {
		s.referenceNode = node
	})
}

func (s *managerState) Build(ctx core.BuildContext) core.Widget {
	return referenceScope{
		node:   s.referenceNode,
		setter: s.setReferenceNode,
		child:  s.Element().Widget().(Manager).Child,
	}
}

// referenceScope is the inherited carrier for (node, setter). The setter
// is stable in behavior across builds even though the func value is
// recreated, so only node identity participates in change notification.
type referenceScope struct {
	core.InheritedBase
	node   *dom.Node
	setter func(*dom.Node)
	child  core.Widget
}

func (s referenceScope) ChildWidget() core.Widget { return s.child }

func (s referenceScope) UpdateShouldNotify(old core.InheritedWidget) bool {
	return s.node != old.(referenceScope).node
}

func (s referenceScope) UpdateShouldNotifyDependent(old core.InheritedWidget, aspects map[any]struct{}) bool {
	if s.node == old.(referenceScope).node {
		return false
	}
	_, dependsOnNode := aspects[any(refNodeAspect)]
	return dependsOnNode
}

// ReferenceNodeOf returns the ambient reference node, or nil when no
// Manager encloses ctx. The caller is registered as a node-aspect
// dependent and rebuilds when the anchor changes identity.
func ReferenceNodeOf(ctx core.BuildContext) *dom.Node {
	scope, ok := ctx.DependOnInherited(referenceScopeType, refNodeAspect).(referenceScope)
	if !ok {
		return nil
	}
	return scope.node
}

// referenceSetterOf returns the enclosing Manager's setter without
// subscribing to anchor changes, or nil outside a Manager.
func referenceSetterOf(ctx core.BuildContext) func(*dom.Node) {
	scope, ok := ctx.DependOnInherited(referenceScopeType, refSetterAspect).(referenceScope)
	if !ok {
		return nil
	}
	return scope.setter
}
