// Package dom provides the minimal element-node model the positioning
// layer works against: a mutable node tree with tags, attributes, styles,
// and measured bounding rectangles.
//
// It is deliberately headless. Nodes carry the geometry an engine needs to
// compute placement and the styles a host applies, nothing more; there is
// no event system and no rendering.
package dom

import "fmt"

// Node is a single element in the host tree.
type Node struct {
	Tag        string
	Attributes map[string]string

	style    Style
	parent   *Node
	children []*Node
	rect     Rect
}

// NewNode returns a detached node with the given tag.
func NewNode(tag string) *Node {
	return &Node{Tag: tag}
}

// Parent returns the node's parent, or nil for a detached or root node.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the node's children in order. The returned slice is the
// node's own; callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// AppendChild adds child as the last child of n, detaching it from any
// previous parent first.
func (n *Node) AppendChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// InsertBefore inserts newChild before refChild. A nil refChild appends at
// the end. If newChild already has a parent it is removed from it first.
func (n *Node) InsertBefore(newChild, refChild *Node) {
	if newChild.parent != nil {
		newChild.parent.RemoveChild(newChild)
	}
	if refChild == nil {
		child := newChild
		child.parent = n
		n.children = append(n.children, child)
		return
	}
	for i, c := range n.children {
		if c == refChild {
			n.children = append(n.children, nil)
			copy(n.children[i+1:], n.children[i:])
			n.children[i] = newChild
			newChild.parent = n
			return
		}
	}
	newChild.parent = n
	n.children = append(n.children, newChild)
}

// RemoveChild removes child from n's children and clears its parent
// pointer. Returns the removed child, or nil if child was not found.
func (n *Node) RemoveChild(child *Node) *Node {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return child
		}
	}
	return nil
}

// RemoveAllChildren detaches every child.
func (n *Node) RemoveAllChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

// SetAttribute sets a single attribute, allocating the map on first use.
func (n *Node) SetAttribute(name, value string) {
	if n.Attributes == nil {
		n.Attributes = make(map[string]string)
	}
	n.Attributes[name] = value
}

// GetAttribute returns the attribute value, or "" when absent. Check the
// Attributes map directly to distinguish an empty value from a missing one.
func (n *Node) GetAttribute(name string) string {
	return n.Attributes[name]
}

// SetStyle replaces the node's style map.
func (n *Node) SetStyle(s Style) {
	n.style = s
}

// Style returns the node's current style map. May be nil.
func (n *Node) Style() Style {
	return n.style
}

// BoundingClientRect returns the node's measured rectangle. Zero until a
// host or test assigns one.
func (n *Node) BoundingClientRect() Rect {
	return n.rect
}

// SetBoundingClientRect records the node's measured rectangle. Engines read
// it; the node layer itself never computes geometry.
func (n *Node) SetBoundingClientRect(r Rect) {
	n.rect = r
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s>", n.Tag)
}
