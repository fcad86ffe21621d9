// Package testbed provides internal fixture widgets for the testing
// framework's own tests.
package testbed

import (
	"strconv"

	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/widgets"
)

// Counter is a stateful widget that publishes its count as an attribute
// on an "output" node. OnReady hands the test a bump callback so it can
// mutate state from outside and pump the result.
type Counter struct {
	core.StatefulBase
	Initial int
	OnReady func(bump func())
}

func (c Counter) CreateState() core.State {
	return &counterState{}
}

type counterState struct {
	core.StateBase
	count int
}

func (s *counterState) InitState() {
	w := s.Element().Widget().(Counter)
	s.count = w.Initial
	if w.OnReady != nil {
		w.OnReady(s.bump)
	}
}

func (s *counterState) bump() {
	s.SetState(func() {
		s.count++
	})
}

func (s *counterState) Build(ctx core.BuildContext) core.Widget {
	return widgets.ElementNode{
		Tag:        "output",
		Attributes: map[string]string{"value": strconv.Itoa(s.count)},
	}
}
