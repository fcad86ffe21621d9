package testbed

import (
	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/widgets"
)

// Badge is a stateless widget with an optional key, used to exercise
// finders across wrappers.
type Badge struct {
	core.StatelessBase
	ID    any
	Label string
}

func (b Badge) Key() any { return b.ID }

func (b Badge) Build(ctx core.BuildContext) core.Widget {
	return widgets.ElementNode{
		Tag:        "badge",
		Attributes: map[string]string{"label": b.Label},
	}
}
