// Package widgets provides the stock host widgets over document nodes.
//
// ElementNode is the general-purpose host: it owns one dom.Node, pushes
// its Tag, Style, and Attributes into it on every build, mounts its
// children beneath it, and reports the node through Ref once the
// subtree is live. Popper and Reference builders compose their trees
// from it, wiring the callbacks they receive into Ref.
//
// Identity follows ID: siblings carrying distinct IDs keep their nodes
// across reorders, so a keyed remount is how a builder swaps the
// underlying node on purpose.
package widgets
