package testing

import (
	"errors"
	"testing"
	"time"

	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/widgets"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = errors.New("PumpAndSettle timed out: framework did not settle")

// WidgetTester provides isolated widget testing without a real host.
// It mounts widgets under a detached root node and drives the build
// pipeline by hand, so tests control exactly when rebuilds happen.
type WidgetTester struct {
	buildOwner *core.BuildOwner
	root       core.Element
	dispatches []func()
}

// NewWidgetTester creates a tester with an empty tree.
// Call Cleanup() when done, or use NewWidgetTesterWithT() instead.
func NewWidgetTester() *WidgetTester {
	return &WidgetTester{
		buildOwner: core.NewBuildOwner(),
	}
}

// NewWidgetTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewWidgetTesterWithT(t *testing.T) *WidgetTester {
	tester := NewWidgetTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup unmounts the tree. Must be called if not using
// NewWidgetTesterWithT.
func (t *WidgetTester) Cleanup() {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}
}

// PumpWidget mounts (or remounts) a widget and flushes the initial build.
func (t *WidgetTester) PumpWidget(widget core.Widget) error {
	if t.root != nil {
		t.root.Unmount()
		t.root = nil
	}

	// Wrap in a host root node so the pumped subtree has a node ancestry
	// to attach under, the way an embedding's document provides one.
	wrapped := widgets.ElementNode{
		Tag:             "root",
		ChildrenWidgets: []core.Widget{widget},
	}

	t.root = core.MountRoot(wrapped, t.buildOwner)
	return t.Pump()
}

// Pump runs a single cycle: drains the dispatch queue, then flushes builds.
func (t *WidgetTester) Pump() error {
	dispatches := t.dispatches
	t.dispatches = nil
	for _, fn := range dispatches {
		fn()
	}

	t.buildOwner.FlushBuild()
	return nil
}

// PumpAndSettle pumps until the framework is idle or the timeout is
// reached. Returns ErrSettleTimeout if work keeps appearing.
func (t *WidgetTester) PumpAndSettle(timeout time.Duration) error {
	const frameDuration = 16 * time.Millisecond
	var elapsed time.Duration
	for elapsed < timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

// needsWork returns true if the framework has pending work.
func (t *WidgetTester) needsWork() bool {
	return t.buildOwner.NeedsWork() || len(t.dispatches) > 0
}

// Dispatch queues a callback to run at the start of the next Pump.
func (t *WidgetTester) Dispatch(fn func()) {
	t.dispatches = append(t.dispatches, fn)
}

// BuildOwner exposes the tester's build owner for tests that schedule
// work directly.
func (t *WidgetTester) BuildOwner() *core.BuildOwner {
	return t.buildOwner
}

// RootElement returns the root element of the mounted tree.
func (t *WidgetTester) RootElement() core.Element {
	return t.root
}

// RootNode returns the host root node the pumped widget mounted under,
// or nil before the first PumpWidget.
func (t *WidgetTester) RootNode() *dom.Node {
	if provider, ok := t.root.(interface{ Node() *dom.Node }); ok {
		return provider.Node()
	}
	return nil
}

// Find evaluates a finder against the current element tree.
func (t *WidgetTester) Find(finder Finder) FinderResult {
	if t.root == nil {
		return FinderResult{finder: finder}
	}
	return FinderResult{
		elements: finder.Evaluate(t.root),
		finder:   finder,
	}
}
