// Package popper binds an imperative positioning engine to the declarative
// widget tree.
//
// The tree declares what should be anchored and how; this package owns the
// engine instance lifecycle, translates configuration changes into the
// minimal imperative calls, and publishes the engine's computed output
// (styles, resolved placement, out-of-boundaries flag) back into the tree
// through an equality-gated render state.
//
// Three widgets cover the surface:
//
//   - [Manager] scopes an ambient anchor node.
//   - [Reference] reports its subtree's node as that anchor.
//   - [Popper] positions its subtree against the anchor and feeds its
//     builder the computed [Props].
//
// A Popper can also skip the Manager entirely with [ReferenceTo].
//
// The positioning engine itself is opaque behind the contracts in
// pkg/engine; pkg/enginetest ships a scriptable fake for tests.
package popper
