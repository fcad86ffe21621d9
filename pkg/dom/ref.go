package dom

// RefFunc is the callback a host invokes when the node backing a widget
// mounts (with the node) or is about to unmount (with nil).
type RefFunc func(*Node)

// NodeSink receives a node reference. It is the output-slot half of the ref
// contract: consumers hand a sink in, the binding pushes nodes out.
type NodeSink interface {
	SetNode(*Node)
}

// NodeSinkFunc adapts a plain function to a NodeSink.
type NodeSinkFunc func(*Node)

func (f NodeSinkFunc) SetNode(n *Node) { f(n) }

// NodeRef is a mutable cell sink. Current holds the most recently assigned
// node, nil after the source unmounts.
type NodeRef struct {
	Current *Node
}

// NewNodeRef creates an empty NodeRef.
func NewNodeRef() *NodeRef {
	return &NodeRef{}
}

func (r *NodeRef) SetNode(n *Node) {
	if r == nil {
		return
	}
	r.Current = n
}

// AssignRef forwards node to sink. A nil sink is a no-op, so optional ref
// wiring never needs a guard at the call site.
func AssignRef(sink NodeSink, node *Node) {
	if sink == nil {
		return
	}
	sink.SetNode(node)
}
