package enginetest

import (
	"sort"
	"sync"

	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/engine"
)

// Instance is one scripted binding. It records lifecycle calls on its
// engine's journal and replays pushed results through the enabled
// modifier callbacks in ascending order.
type Instance struct {
	engine    *Engine
	seq       int
	reference *dom.Node
	popper    *dom.Node
	options   engine.Options

	mu     sync.Mutex
	live   bool
	events bool
}

// Seq returns the instance's 1-based creation ordinal on its engine.
func (i *Instance) Seq() int { return i.seq }

// Reference returns the reference node the instance was created with.
func (i *Instance) Reference() *dom.Node { return i.reference }

// Popper returns the popper node the instance was created with.
func (i *Instance) Popper() *dom.Node { return i.popper }

// Options returns the options bundle the instance was created with.
func (i *Instance) Options() engine.Options { return i.options }

// Live reports whether the instance has not been destroyed.
func (i *Instance) Live() bool { return i.isLive() }

// EventsEnabled reports the listener state: the creation option,
// shifted by any Enable/DisableEventListeners calls since.
func (i *Instance) EventsEnabled() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.events
}

// ScheduleUpdate records the call. The fake recomputes nothing; tests
// push results explicitly.
func (i *Instance) ScheduleUpdate() {
	i.engine.record(CallScheduleUpdate)
}

// EnableEventListeners records the call and flips the listener state.
func (i *Instance) EnableEventListeners() {
	i.mu.Lock()
	i.events = true
	i.mu.Unlock()
	i.engine.record(CallEnableEvents)
}

// DisableEventListeners records the call and flips the listener state.
func (i *Instance) DisableEventListeners() {
	i.mu.Lock()
	i.events = false
	i.mu.Unlock()
	i.engine.record(CallDisableEvents)
}

// Destroy records the call and stops result delivery. Pushes after
// Destroy skip the instance.
func (i *Instance) Destroy() {
	i.mu.Lock()
	i.live = false
	i.mu.Unlock()
	i.engine.record(CallDestroy)
}

func (i *Instance) isLive() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.live
}

// deliver threads r through the enabled modifier callbacks in ascending
// order, ties broken by name for determinism. Destroyed instances drop
// the result.
func (i *Instance) deliver(r engine.Result) engine.Result {
	if !i.isLive() {
		return r
	}

	type step struct {
		name string
		mod  engine.Modifier
	}
	steps := make([]step, 0, len(i.options.Modifiers))
	for name, mod := range i.options.Modifiers {
		if mod.Enabled && mod.Fn != nil {
			steps = append(steps, step{name: name, mod: mod})
		}
	}
	sort.Slice(steps, func(a, b int) bool {
		if steps[a].mod.Order != steps[b].mod.Order {
			return steps[a].mod.Order < steps[b].mod.Order
		}
		return steps[a].name < steps[b].name
	})

	for _, s := range steps {
		r = s.mod.Fn(r)
	}
	return r
}
