package widgets

import (
	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
)

// ElementNode hosts a plain document node. It is the leaf and container
// workhorse for popper trees: give it a tag, wire Ref to receive the
// node, and nest further widgets through ChildrenWidgets.
//
// # Creation Patterns
//
// A positioned popper element wired from a render payload:
//
//	widgets.ElementNode{
//	    Tag:   "div",
//	    Ref:   props.Ref,
//	    Style: props.Style,
//	    ChildrenWidgets: []core.Widget{
//	        widgets.ElementNode{Tag: "span", Ref: props.ArrowProps.Ref},
//	    },
//	}
//
// The node is created once when the element mounts; updates push Style
// and Attributes into the existing node without replacing it, so node
// identity is stable for the lifetime of the element.
type ElementNode struct {
	core.NodeBase
	// Tag is the node's element tag, "div" when empty.
	Tag string
	// ID keys the widget for reconciliation among siblings.
	ID any
	// Attributes are copied onto the node on every build; attributes
	// removed from the map are removed from the node.
	Attributes map[string]string
	// Style replaces the node's style map on every build.
	Style dom.Style
	// Ref receives the node after the subtree mounts and nil before
	// unmount.
	Ref dom.RefFunc
	// ChildrenWidgets are mounted beneath this node in order.
	ChildrenWidgets []core.Widget
}

// Key returns ID so keyed siblings reconcile across reorders.
func (n ElementNode) Key() any { return n.ID }

// Children exposes the child widgets to the hosting element.
func (n ElementNode) Children() []core.Widget { return n.ChildrenWidgets }

// NodeRef exposes Ref to the hosting element.
func (n ElementNode) NodeRef() dom.RefFunc { return n.Ref }

func (n ElementNode) CreateNode(ctx core.BuildContext) *dom.Node {
	tag := n.Tag
	if tag == "" {
		tag = "div"
	}
	return dom.NewNode(tag)
}

func (n ElementNode) UpdateNode(ctx core.BuildContext, node *dom.Node) {
	node.SetStyle(n.Style)
	for name := range node.Attributes {
		if _, ok := n.Attributes[name]; !ok {
			delete(node.Attributes, name)
		}
	}
	for name, value := range n.Attributes {
		node.SetAttribute(name, value)
	}
}
