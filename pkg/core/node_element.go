package core

import (
	"github.com/go-popper/popper/pkg/dom"
)

// NodeRefProvider is implemented by node widgets that want the created node
// handed back to them. The callback fires once per element lifetime: with
// the node after the element and its entire subtree have mounted, and with
// nil when the element unmounts. Children fire before their parents, so a
// parent's callback always observes a fully assembled subtree.
type NodeRefProvider interface {
	NodeRef() dom.RefFunc
}

// NodeElement hosts a document node and optional children.
type NodeElement struct {
	elementBase
	node       *dom.Node
	children   []Element
	nodeParent *NodeElement // nearest ancestor that owns a node
}

// NewNodeElement creates a NodeElement.
// The widget and build owner are set by the framework during inflation.
func NewNodeElement() *NodeElement {
	element := &NodeElement{}
	element.self = element
	return element
}

func (e *NodeElement) Mount(parent Element, slot any) {
	e.parent = parent
	e.slot = slot
	if parent != nil {
		e.depth = parent.Depth() + 1
	}
	e.mounted = true

	// Create the node and attach it to the node tree BEFORE building
	// children, so descendants find an attached parent node.
	widget := e.widget.(NodeWidget)
	e.node = widget.CreateNode(e)
	e.attachNode()

	e.dirty = true
	e.RebuildIfNeeded()

	// Children have mounted and fired their own refs by now.
	e.invokeRef(e.node)
}

func (e *NodeElement) Update(newWidget Widget) {
	e.widget = newWidget
	e.MarkNeedsBuild()
}

func (e *NodeElement) Unmount() {
	e.mounted = false

	// Unmount children first (they detach their own nodes and clear
	// their own refs), then release this node.
	for _, child := range e.children {
		if child != nil {
			child.Unmount()
		}
	}
	e.children = nil

	e.invokeRef(nil)
	e.detachNode()
}

func (e *NodeElement) RebuildIfNeeded() {
	if !e.dirty || !e.mounted {
		return
	}
	e.dirty = false

	widget := e.widget.(NodeWidget)
	widget.UpdateNode(e, e.node)

	switch typed := e.widget.(type) {
	case interface{ Child() Widget }:
		childWidget := typed.Child()
		var child Element
		if len(e.children) > 0 {
			child = e.children[0]
		}
		child = updateChild(child, childWidget, e.self, e.buildOwner, nil)
		if child != nil {
			e.children = []Element{child}
		} else {
			e.children = nil
		}

	case interface{ Children() []Widget }:
		e.children = updateChildren(e.self, e.children, typed.Children(), e.buildOwner)
		// Reconciliation may have reordered or replaced children; restore
		// the node tree to match element order. This cannot happen during
		// child mounts since e.children is not yet populated there.
		e.rebuildChildNodes()
	}
}

func (e *NodeElement) VisitChildren(visitor func(Element) bool) {
	for _, child := range e.children {
		if child == nil {
			continue
		}
		if !visitor(child) {
			return
		}
	}
}

// Node exposes the hosted document node.
func (e *NodeElement) Node() *dom.Node {
	return e.node
}

// invokeRef hands the node to the widget's ref callback, when present.
func (e *NodeElement) invokeRef(node *dom.Node) {
	if provider, ok := e.widget.(NodeRefProvider); ok {
		if ref := provider.NodeRef(); ref != nil {
			ref(node)
		}
	}
}

// attachNode inserts this element's node under the nearest ancestor node.
// Called from Mount after the node is created.
func (e *NodeElement) attachNode() {
	e.nodeParent = e.findNodeParent()
	if e.nodeParent != nil && e.nodeParent.node != nil {
		e.nodeParent.node.AppendChild(e.node)
	}
}

// detachNode removes this element's node from the node tree.
// Called from Unmount after children are gone.
func (e *NodeElement) detachNode() {
	if e.nodeParent != nil && e.nodeParent.node != nil {
		e.nodeParent.node.RemoveChild(e.node)
	}
	e.nodeParent = nil
}

// findNodeParent walks up the element tree to find the nearest NodeElement.
func (e *NodeElement) findNodeParent() *NodeElement {
	current := e.parent
	for current != nil {
		if nodeElement, ok := current.(*NodeElement); ok {
			return nodeElement
		}
		if base, ok := current.(interface{ parentElement() Element }); ok {
			current = base.parentElement()
		} else {
			break
		}
	}
	return nil
}

// rebuildChildNodes rewrites the hosted node's children from element order.
// Each child element contributes at most one subtree root node, possibly
// through intermediate stateless or stateful wrappers.
func (e *NodeElement) rebuildChildNodes() {
	if e.node == nil {
		return
	}
	e.node.RemoveAllChildren()
	for _, child := range e.children {
		if child == nil {
			continue
		}
		if provider, ok := child.(interface{ Node() *dom.Node }); ok {
			if node := provider.Node(); node != nil {
				e.node.AppendChild(node)
			}
		}
	}
}
