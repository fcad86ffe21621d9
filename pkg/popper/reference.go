package popper

import (
	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
)

// ReferenceProps is the render payload a Reference hands to its builder.
type ReferenceProps struct {
	// Ref must be wired to the anchor element's node.
	Ref dom.RefFunc
}

// ReferenceBuilder produces the anchor subtree from the render payload.
type ReferenceBuilder func(ReferenceProps) core.Widget

// ReferenceBuilderList holds builders; only the first entry is used.
type ReferenceBuilderList []ReferenceBuilder

// ReferenceChildBuilder is the polymorphic child slot of a Reference.
type ReferenceChildBuilder interface {
	referenceBuilders() []ReferenceBuilder
}

func (b ReferenceBuilder) referenceBuilders() []ReferenceBuilder {
	return []ReferenceBuilder{b}
}

func (l ReferenceBuilderList) referenceBuilders() []ReferenceBuilder { return l }

func firstReferenceBuilder(child ReferenceChildBuilder) ReferenceBuilder {
	if child == nil {
		return nil
	}
	list := child.referenceBuilders()
	if len(list) == 0 {
		return nil
	}
	return list[0]
}

// Reference marks its subtree's node as the anchor of the enclosing
// [Manager]. The builder wires ReferenceProps.Ref to the anchor element:
//
//	popper.Reference{Child: popper.ReferenceBuilder(func(p popper.ReferenceProps) core.Widget {
//	    return widgets.ElementNode{Tag: "button", Ref: p.Ref}
//	})}
type Reference struct {
	core.StatefulBase
	// InnerRef additionally receives the anchor node.
	InnerRef dom.NodeSink
	// Child builds the anchor subtree.
	Child ReferenceChildBuilder
}

func (r Reference) CreateState() core.State { return &referenceState{} }

type referenceState struct {
	core.StateBase
	setter func(*dom.Node)
	warned bool
}

func (s *referenceState) widget() Reference {
	return s.Element().Widget().(Reference)
}

func (s *referenceState) Build(ctx core.BuildContext) core.Widget {
	s.setter = referenceSetterOf(ctx)
	if s.setter == nil && core.DebugMode && !s.warned {
		s.warned = true
		Logger().Warn("`Reference` should not be used outside of a `Manager` component")
	}

	builder := firstReferenceBuilder(s.widget().Child)
	if builder == nil {
		return nil
	}
	return builder(ReferenceProps{Ref: s.setReferenceNode})
}

// setReferenceNode forwards the anchor to the InnerRef slot first, then to
// the Manager. The Manager drops nil, so unmount reports only clear the
// local slot.
func (s *referenceState) setReferenceNode(node *dom.Node) {
	dom.AssignRef(s.widget().InnerRef, node)
	if s.setter != nil {
		s.setter(node)
	}
}
