// Package enginetest provides a scriptable positioning engine for tests
// and tooling.
//
// The engine performs no layout math. Each Create consumes the next
// scripted result, if any, and replays it through the new instance's
// modifier pipeline, matching the synchronous first computation of a
// real engine. Callers push further results explicitly to simulate
// asynchronous recomputation, and assert against the chronological call
// journal afterwards.
package enginetest

import (
	"sync"

	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/engine"
)

// Call names one recorded engine interaction.
type Call string

const (
	CallCreate         Call = "create"
	CallDestroy        Call = "destroy"
	CallScheduleUpdate Call = "scheduleUpdate"
	CallEnableEvents   Call = "enableEventListeners"
	CallDisableEvents  Call = "disableEventListeners"
)

// Engine is a scriptable engine.Engine. The zero value is ready to use;
// instances created from it deliver no results until one is scripted or
// pushed.
type Engine struct {
	mu        sync.Mutex
	scripted  []engine.Result
	journal   []Call
	instances []*Instance

	lastReference *dom.Node
	lastPopper    *dom.Node
	lastOptions   engine.Options
}

// Script queues results to deliver at instance creation, one per Create
// in order. Creates beyond the queue deliver nothing.
func (e *Engine) Script(results ...engine.Result) {
	e.mu.Lock()
	e.scripted = append(e.scripted, results...)
	e.mu.Unlock()
}

// Create implements engine.Engine. It records the call, captures the
// arguments for later assertions, and replays the next scripted result
// through the new instance. Both nodes must be non-nil, as a real
// engine would fail on a missing node.
func (e *Engine) Create(reference, popper *dom.Node, opts engine.Options) engine.Instance {
	if reference == nil || popper == nil {
		panic("enginetest: Create called with a nil node")
	}

	e.mu.Lock()
	inst := &Instance{
		engine:    e,
		seq:       len(e.instances) + 1,
		reference: reference,
		popper:    popper,
		options:   opts,
		live:      true,
		events:    opts.EventsEnabled,
	}
	e.instances = append(e.instances, inst)
	e.journal = append(e.journal, CallCreate)
	e.lastReference = reference
	e.lastPopper = popper
	e.lastOptions = opts

	var first *engine.Result
	if len(e.scripted) > 0 {
		r := e.scripted[0]
		e.scripted = e.scripted[1:]
		first = &r
	}
	e.mu.Unlock()

	if first != nil {
		inst.deliver(*first)
	}
	return inst
}

// Push replays a result through the most recently created live
// instance, simulating an asynchronous recomputation arriving. It
// reports whether an instance received the result.
func (e *Engine) Push(r engine.Result) bool {
	e.mu.Lock()
	var target *Instance
	for i := len(e.instances) - 1; i >= 0; i-- {
		if e.instances[i].isLive() {
			target = e.instances[i]
			break
		}
	}
	e.mu.Unlock()

	if target == nil {
		return false
	}
	target.deliver(r)
	return true
}

// Journal returns a copy of the chronological call record across all
// instances.
func (e *Engine) Journal() []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]Call, len(e.journal))
	copy(out, e.journal)
	return out
}

// Count returns how many times a call was recorded.
func (e *Engine) Count(c Call) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, got := range e.journal {
		if got == c {
			n++
		}
	}
	return n
}

// Live returns the number of undestroyed instances.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	n := 0
	for _, inst := range e.instances {
		if inst.isLive() {
			n++
		}
	}
	return n
}

// Instances returns every instance ever created, in creation order.
func (e *Engine) Instances() []*Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*Instance, len(e.instances))
	copy(out, e.instances)
	return out
}

// LastInstance returns the most recently created instance, or nil when
// Create has not been called.
func (e *Engine) LastInstance() *Instance {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.instances) == 0 {
		return nil
	}
	return e.instances[len(e.instances)-1]
}

// LastOptions returns the options of the most recent Create.
func (e *Engine) LastOptions() engine.Options {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastOptions
}

// LastNodes returns the node pair of the most recent Create.
func (e *Engine) LastNodes() (reference, popper *dom.Node) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastReference, e.lastPopper
}

func (e *Engine) record(c Call) {
	e.mu.Lock()
	e.journal = append(e.journal, c)
	e.mu.Unlock()
}
