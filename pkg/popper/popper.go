package popper

import (
	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/engine"
)

// ReferenceSource supplies the anchor node a popper positions against.
type ReferenceSource interface {
	ReferenceNode() *dom.Node
}

// pinnedReference anchors to one specific node, possibly nil.
type pinnedReference struct {
	node *dom.Node
}

func (p pinnedReference) ReferenceNode() *dom.Node { return p.node }

// ReferenceTo anchors a Popper to a specific node, bypassing any ambient
// Manager. ReferenceTo(nil) is the explicit-null form: it suppresses the
// ambient fallback and leaves the popper unanchored.
func ReferenceTo(node *dom.Node) ReferenceSource {
	return pinnedReference{node: node}
}

// Popper keeps a floating subtree positioned relative to an anchor node.
//
// The child builder receives a [Props] payload: wire Props.Ref to the node
// of the element to position and apply Props.Style to it. Once both the
// anchor and the popper node exist, Popper creates an engine instance and
// republishes the engine's output through the payload on every change.
//
// # Creation Patterns
//
// Anchored through an enclosing [Manager] and [Reference]:
//
//	popper.Manager{Child: widgets.ElementNode{
//	    Tag: "div",
//	    ChildrenWidgets: []core.Widget{
//	        popper.Reference{Child: popper.ReferenceBuilder(func(p popper.ReferenceProps) core.Widget {
//	            return widgets.ElementNode{Tag: "button", Ref: p.Ref}
//	        })},
//	        popper.Popper{
//	            Placement: engine.Top,
//	            Child: popper.Builder(func(p popper.Props) core.Widget {
//	                return widgets.ElementNode{Tag: "div", Ref: p.Ref, Style: p.Style}
//	            }),
//	        },
//	    },
//	}}
//
// Anchored to an explicit node:
//
//	popper.Popper{
//	    Reference: popper.ReferenceTo(anchor),
//	    Child:     popper.Builder(buildTooltip),
//	}
type Popper struct {
	core.StatelessBase
	// Reference overrides the ambient Manager anchor. nil falls back to
	// the enclosing Manager's reference node.
	Reference ReferenceSource
	// Placement is the requested placement, engine.Bottom when empty.
	Placement engine.Placement
	// DisableEventListeners turns off the engine's scroll and resize
	// listeners. The zero value keeps them enabled.
	DisableEventListeners bool
	// PositionFixed positions against the viewport instead of the nearest
	// positioned ancestor.
	PositionFixed bool
	// Modifiers configures the engine's modifier pipeline. The map is
	// treated as immutable configuration; reuse the same map across
	// builds unless the configuration actually changed.
	Modifiers engine.ModifierMap
	// InnerRef additionally receives the popper node when it attaches,
	// and nil at teardown.
	InnerRef dom.NodeSink
	// Engine positions the popper. nil uses engine.Default().
	Engine engine.Engine
	// Child builds the positioned subtree.
	Child ChildBuilder
}

func (p Popper) Build(ctx core.BuildContext) core.Widget {
	referenceElement := resolveReference(ctx, p.Reference)
	placement := p.Placement
	if placement == "" {
		placement = engine.Bottom
	}
	return innerPopper{
		referenceElement: referenceElement,
		placement:        placement,
		eventsEnabled:    !p.DisableEventListeners,
		positionFixed:    p.PositionFixed,
		modifiers:        p.Modifiers,
		innerRef:         p.InnerRef,
		engine:           p.Engine,
		child:            p.Child,
	}
}

// resolveReference applies the anchor precedence: an explicit source
// always wins, including one that resolves to nil; only an absent source
// falls back to the ambient Manager node.
func resolveReference(ctx core.BuildContext, source ReferenceSource) *dom.Node {
	if source != nil {
		return source.ReferenceNode()
	}
	return ReferenceNodeOf(ctx)
}

// innerPopper is the resolved configuration the stateful half works from:
// the anchor is a concrete node and the placement is defaulted, so state
// transitions compare plain values.
type innerPopper struct {
	core.StatefulBase
	referenceElement *dom.Node
	placement        engine.Placement
	eventsEnabled    bool
	positionFixed    bool
	modifiers        engine.ModifierMap
	innerRef         dom.NodeSink
	engine           engine.Engine
	child            ChildBuilder
}

func (w innerPopper) CreateState() core.State { return &innerPopperState{} }

// innerPopperState owns at most one engine instance and the render state
// published from it.
type innerPopperState struct {
	core.StateBase
	popperNode *dom.Node
	arrowNode  *dom.Node
	instance   engine.Instance
	render     RenderState
}

func (s *innerPopperState) widget() innerPopper {
	return s.Element().Widget().(innerPopper)
}

func (s *innerPopperState) InitState() {
	s.render = initialRenderState()
}

// setPopperNode is the Props.Ref target. The identity guard makes repeated
// attachment of the same node free: the node layer fires the ref once per
// element lifetime, but builders may also forward it themselves.
func (s *innerPopperState) setPopperNode(node *dom.Node) {
	if node == nil || node == s.popperNode {
		return
	}
	dom.AssignRef(s.widget().innerRef, node)
	s.popperNode = node
	s.rebuildInstance()
}

// setArrowNode is the ArrowProps.Ref target. Stored unconditionally; a nil
// store records arrow removal. The arrow takes effect the next time options
// are derived, not immediately.
func (s *innerPopperState) setArrowNode(node *dom.Node) {
	s.arrowNode = node
}

// options derives the engine options from the current configuration. Always
// derived fresh at instance creation, never cached, so the arrow node and
// the injected modifiers reflect the state at that moment.
func (s *innerPopperState) options() engine.Options {
	w := s.widget()

	modifiers := w.modifiers.Clone()
	if modifiers == nil {
		modifiers = make(engine.ModifierMap, 3)
	}
	arrow := modifiers[engine.ModifierArrow]
	arrow.Enabled = s.arrowNode != nil
	arrow.Element = s.arrowNode
	modifiers[engine.ModifierArrow] = arrow
	modifiers[engine.ModifierApplyStyle] = engine.Modifier{Enabled: false}
	modifiers[engine.ModifierUpdateState] = engine.Modifier{
		Enabled: true,
		Order:   engine.UpdateStateOrder,
		Fn:      s.applyResult,
	}

	return engine.Options{
		Placement:     w.placement,
		EventsEnabled: w.eventsEnabled,
		PositionFixed: w.positionFixed,
		Modifiers:     modifiers,
	}
}

// rebuildInstance is the single choke point for instance churn: destroy
// always precedes create, and an instance exists only while both the
// reference node and the popper node are attached.
func (s *innerPopperState) rebuildInstance() {
	if s.instance != nil {
		s.instance.Destroy()
		s.instance = nil
	}
	w := s.widget()
	if w.referenceElement == nil || s.popperNode == nil {
		return
	}
	s.instance = s.resolveEngine().Create(w.referenceElement, s.popperNode, s.options())
}

func (s *innerPopperState) resolveEngine() engine.Engine {
	if eng := s.widget().engine; eng != nil {
		return eng
	}
	if eng := engine.Default(); eng != nil {
		return eng
	}
	panic("popper: no engine configured; set Popper.Engine or engine.SetDefault")
}

// applyResult is the injected modifier fn. It publishes the result into
// the render state only when the value actually changed, and returns the
// descriptor unmodified so the engine's own pipeline is unaffected.
func (s *innerPopperState) applyResult(r engine.Result) engine.Result {
	hide := r.Hide
	next := RenderState{
		Style:           dom.Style{"position": string(r.Offsets.Popper.Position)}.Merged(r.Styles),
		ArrowStyle:      r.ArrowStyles,
		Placement:       r.Placement,
		OutOfBoundaries: &hide,
	}
	if !s.render.equal(next) {
		s.SetState(func() {
			s.render = next
		})
	}
	return r
}

func (s *innerPopperState) DidUpdateWidget(oldWidget core.StatefulWidget) {
	old := oldWidget.(innerPopper)
	current := s.widget()

	s.warnOnRecreatedModifiers(old.modifiers, current.modifiers)

	switch {
	case current.placement != old.placement,
		current.referenceElement != old.referenceElement,
		current.positionFixed != old.positionFixed,
		!current.modifiers.Equal(old.modifiers):
		s.rebuildInstance()
	case current.eventsEnabled != old.eventsEnabled && s.instance != nil:
		if current.eventsEnabled {
			s.instance.EnableEventListeners()
		} else {
			s.instance.DisableEventListeners()
		}
	}

	// Configuration aside, the surrounding layout may have shifted
	// (content size, anchor position), so every update requests a
	// recompute.
	s.scheduleUpdate()
}

// warnOnRecreatedModifiers flags a modifier map whose storage changed while
// its value did not: the caller rebuilds the map every render. Correctness
// is unaffected, the map is compared by value everywhere.
func (s *innerPopperState) warnOnRecreatedModifiers(old, current engine.ModifierMap) {
	if !core.DebugMode {
		return
	}
	if old == nil || current == nil || engine.SameStorage(old, current) {
		return
	}
	if current.Equal(old) {
		Logger().Warn("popper modifiers map was recreated with an identical value; reuse one map across builds")
	}
}

// scheduleUpdate asks the engine for a recompute. Safe whenever, including
// before the first instance and after teardown.
func (s *innerPopperState) scheduleUpdate() {
	if s.instance != nil {
		s.instance.ScheduleUpdate()
	}
}

func (s *innerPopperState) props() Props {
	p := Props{
		Ref:            s.setPopperNode,
		Style:          s.render.Style,
		Placement:      s.render.Placement,
		ScheduleUpdate: s.scheduleUpdate,
		ArrowProps: ArrowProps{
			Ref:   s.setArrowNode,
			Style: dom.Style{},
		},
	}
	if s.render.OutOfBoundaries != nil {
		hide := *s.render.OutOfBoundaries
		p.OutOfBoundaries = &hide
	}
	// Arrow style only applies while an arrow node is attached and a
	// result has been published; otherwise stay with the empty map.
	if s.arrowNode != nil && s.render.OutOfBoundaries != nil && s.render.ArrowStyle != nil {
		p.ArrowProps.Style = s.render.ArrowStyle
	}
	return p
}

func (s *innerPopperState) Build(ctx core.BuildContext) core.Widget {
	builder := firstBuilder(s.widget().child)
	if builder == nil {
		return nil
	}
	return builder(s.props())
}

// Dispose tears the binding down exactly once: the InnerRef slot is
// cleared, then the instance destroyed. The engine guarantees no modifier
// callback fires after Destroy returns, so nothing can republish.
func (s *innerPopperState) Dispose() {
	if s.IsDisposed() {
		return
	}
	dom.AssignRef(s.widget().innerRef, nil)
	if s.instance != nil {
		s.instance.Destroy()
		s.instance = nil
	}
	s.StateBase.Dispose()
}
