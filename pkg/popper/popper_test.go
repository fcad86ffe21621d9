package popper_test

import (
	"strings"
	"testing"

	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/engine"
	"github.com/go-popper/popper/pkg/enginetest"
	"github.com/go-popper/popper/pkg/popper"
	"github.com/go-popper/popper/pkg/widgets"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// propsLog records every render payload a builder receives.
type propsLog struct {
	calls []popper.Props
}

func (l *propsLog) builder() popper.Builder {
	return func(p popper.Props) core.Widget {
		l.calls = append(l.calls, p)
		return widgets.ElementNode{Tag: "popper", Ref: p.Ref, Style: p.Style}
	}
}

func (l *propsLog) builderWithArrow() popper.Builder {
	return func(p popper.Props) core.Widget {
		l.calls = append(l.calls, p)
		return widgets.ElementNode{
			Tag:   "popper",
			Ref:   p.Ref,
			Style: p.Style,
			ChildrenWidgets: []core.Widget{
				widgets.ElementNode{Tag: "arrow", Ref: p.ArrowProps.Ref, Style: p.ArrowProps.Style},
			},
		}
	}
}

func (l *propsLog) last() popper.Props {
	return l.calls[len(l.calls)-1]
}

func mountWidget(t *testing.T, w core.Widget) (*core.BuildOwner, core.Element) {
	t.Helper()
	owner := core.NewBuildOwner()
	root := core.MountRoot(w, owner)
	owner.FlushBuild()
	return owner, root
}

func positionedResult(top, left float64, placement engine.Placement, hide bool) engine.Result {
	return engine.Result{
		Offsets:     engine.Offsets{Popper: engine.PopperOffsets{Position: engine.Absolute, Top: top, Left: left}},
		Styles:      dom.Style{"top": top, "left": left},
		ArrowStyles: dom.Style{"left": 4.0},
		Placement:   placement,
		Hide:        hide,
	}
}

// captureWarnings routes the package logger into an observer for the
// duration of the test.
func captureWarnings(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	obsCore, logs := observer.New(zap.WarnLevel)
	popper.SetLogger(zap.New(obsCore))
	t.Cleanup(func() { popper.SetLogger(zap.NewNop()) })
	return logs
}

func TestInitialRenderPayload(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})

	if len(log.calls) != 1 {
		t.Fatalf("expected exactly 1 build without a scripted result, got %d", len(log.calls))
	}
	p := log.calls[0]
	want := dom.Style{
		"position":      "absolute",
		"top":           0,
		"left":          0,
		"opacity":       0,
		"pointerEvents": "none",
	}
	for key, value := range want {
		if p.Style[key] != value {
			t.Errorf("initial style %q: expected %v, got %v", key, value, p.Style[key])
		}
	}
	if p.Placement != "" {
		t.Errorf("expected empty placement before the first result, got %q", p.Placement)
	}
	if p.OutOfBoundaries != nil {
		t.Error("expected nil OutOfBoundaries before the first result")
	}
	if p.ScheduleUpdate == nil {
		t.Error("expected a non-nil ScheduleUpdate callback")
	}
	if p.Ref == nil {
		t.Error("expected a non-nil popper ref")
	}
}

func TestInstanceCreatedWhenBothNodesAttach(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})

	if got := fake.Count(enginetest.CallCreate); got != 1 {
		t.Fatalf("expected 1 create, got %d", got)
	}
	if got := fake.Live(); got != 1 {
		t.Errorf("expected 1 live instance, got %d", got)
	}
	reference, popperNode := fake.LastNodes()
	if reference != anchor {
		t.Error("expected the engine to receive the anchor as reference")
	}
	if popperNode == nil || popperNode.Tag != "popper" {
		t.Errorf("expected the engine to receive the popper node, got %v", popperNode)
	}
}

func TestNoInstanceWithoutReference(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}

	mountWidget(t, popper.Popper{
		Engine: fake,
		Child:  log.builder(),
	})

	if got := fake.Count(enginetest.CallCreate); got != 0 {
		t.Errorf("expected no create without a reference node, got %d", got)
	}
	if len(log.calls) != 1 {
		t.Errorf("expected the builder to run anyway, got %d builds", len(log.calls))
	}
}

func TestNoInstanceWithoutChild(t *testing.T) {
	fake := &enginetest.Engine{}
	anchor := dom.NewNode("button")

	_, root := mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
	})

	if got := fake.Count(enginetest.CallCreate); got != 0 {
		t.Errorf("expected no create without a popper node, got %d", got)
	}
	root.Unmount()
	if got := fake.Count(enginetest.CallDestroy); got != 0 {
		t.Errorf("expected no destroy either, got %d", got)
	}
}

func TestFirstResultPublishes(t *testing.T) {
	fake := &enginetest.Engine{}
	fake.Script(positionedResult(10, 20, engine.Top, false))
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})

	if len(log.calls) != 2 {
		t.Fatalf("expected a rebuild after the scripted result, got %d builds", len(log.calls))
	}
	p := log.last()
	if p.Style["position"] != "absolute" {
		t.Errorf("expected position 'absolute', got %v", p.Style["position"])
	}
	if p.Style["top"] != 10.0 || p.Style["left"] != 20.0 {
		t.Errorf("expected engine styles overlaid, got %v", p.Style)
	}
	if p.Placement != engine.Top {
		t.Errorf("expected placement %q, got %q", engine.Top, p.Placement)
	}
	if p.OutOfBoundaries == nil || *p.OutOfBoundaries {
		t.Errorf("expected OutOfBoundaries pointing at false, got %v", p.OutOfBoundaries)
	}
}

func TestEqualResultDoesNotRerender(t *testing.T) {
	fake := &enginetest.Engine{}
	fake.Script(positionedResult(10, 20, engine.Top, false))
	log := &propsLog{}
	anchor := dom.NewNode("button")

	owner, _ := mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})
	builds := len(log.calls)

	// Same value, freshly built maps: the publication gate must hold.
	if !fake.Push(positionedResult(10, 20, engine.Top, false)) {
		t.Fatal("expected a live instance to push to")
	}
	if owner.NeedsWork() {
		t.Error("expected no rebuild scheduled for an equal result")
	}
	owner.FlushBuild()
	if len(log.calls) != builds {
		t.Errorf("expected build count to stay at %d, got %d", builds, len(log.calls))
	}

	// A changed value re-renders.
	fake.Push(positionedResult(30, 20, engine.Top, false))
	if !owner.NeedsWork() {
		t.Error("expected a rebuild scheduled for a changed result")
	}
	owner.FlushBuild()
	if len(log.calls) != builds+1 {
		t.Errorf("expected one more build, got %d (was %d)", len(log.calls), builds)
	}
	if log.last().Style["top"] != 30.0 {
		t.Errorf("expected updated top, got %v", log.last().Style["top"])
	}
}

func TestConsumerCannotMutatePublishedState(t *testing.T) {
	fake := &enginetest.Engine{}
	fake.Script(positionedResult(10, 20, engine.Top, true))
	log := &propsLog{}
	anchor := dom.NewNode("button")

	owner, _ := mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})

	// Flip the payload's flag; the published state must not be aliased.
	*log.last().OutOfBoundaries = false

	fake.Push(positionedResult(10, 20, engine.Top, true))
	if owner.NeedsWork() {
		t.Error("expected the equal push to stay gated; payload mutation leaked into state")
	}
}

func TestRebuildTriggers(t *testing.T) {
	anchor := dom.NewNode("button")
	otherAnchor := dom.NewNode("input")
	mods := engine.ModifierMap{"offset": {Enabled: true, Options: map[string]any{"offset": "0, 8"}}}

	base := func(fake *enginetest.Engine, log *propsLog) popper.Popper {
		return popper.Popper{
			Reference: popper.ReferenceTo(anchor),
			Placement: engine.Top,
			Modifiers: mods,
			Engine:    fake,
			Child:     log.builder(),
		}
	}

	tests := []struct {
		name   string
		mutate func(*popper.Popper)
	}{
		{"placement", func(p *popper.Popper) { p.Placement = engine.RightStart }},
		{"reference identity", func(p *popper.Popper) { p.Reference = popper.ReferenceTo(otherAnchor) }},
		{"position fixed", func(p *popper.Popper) { p.PositionFixed = true }},
		{"modifier value", func(p *popper.Popper) {
			p.Modifiers = engine.ModifierMap{"offset": {Enabled: true, Options: map[string]any{"offset": "0, 16"}}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &enginetest.Engine{}
			log := &propsLog{}
			owner, root := mountWidget(t, base(fake, log))

			next := base(fake, log)
			tt.mutate(&next)
			root.Update(next)
			owner.FlushBuild()

			if got := fake.Count(enginetest.CallDestroy); got != 1 {
				t.Errorf("expected exactly 1 destroy, got %d", got)
			}
			if got := fake.Count(enginetest.CallCreate); got != 2 {
				t.Errorf("expected exactly 2 creates, got %d", got)
			}
			if got := fake.Live(); got != 1 {
				t.Errorf("expected 1 live instance after the rebuild, got %d", got)
			}
			if got := fake.Count(enginetest.CallScheduleUpdate); got != 1 {
				t.Errorf("expected 1 schedule after the update, got %d", got)
			}
		})
	}

	t.Run("rebuild carries new configuration", func(t *testing.T) {
		fake := &enginetest.Engine{}
		log := &propsLog{}
		owner, root := mountWidget(t, base(fake, log))

		next := base(fake, log)
		next.Placement = engine.RightStart
		root.Update(next)
		owner.FlushBuild()

		if got := fake.LastOptions().Placement; got != engine.RightStart {
			t.Errorf("expected new placement in recreate options, got %q", got)
		}
	})
}

func TestEventsOnlyToggleAdjustsInPlace(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	base := popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	}
	owner, root := mountWidget(t, base)

	disabled := base
	disabled.DisableEventListeners = true
	root.Update(disabled)
	owner.FlushBuild()

	if got := fake.Count(enginetest.CallDestroy); got != 0 {
		t.Errorf("expected no destroy for an events-only change, got %d", got)
	}
	if got := fake.Count(enginetest.CallCreate); got != 1 {
		t.Errorf("expected no extra create, got %d", got)
	}
	if got := fake.Count(enginetest.CallDisableEvents); got != 1 {
		t.Errorf("expected 1 disable call, got %d", got)
	}
	if fake.LastInstance().EventsEnabled() {
		t.Error("expected the instance to report listeners disabled")
	}

	root.Update(base)
	owner.FlushBuild()

	if got := fake.Count(enginetest.CallEnableEvents); got != 1 {
		t.Errorf("expected 1 enable call, got %d", got)
	}
	if !fake.LastInstance().EventsEnabled() {
		t.Error("expected the instance to report listeners enabled again")
	}
}

func TestIdenticalRerenderOnlySchedules(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")
	mods := engine.ModifierMap{"offset": {Enabled: true}}

	w := popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Placement: engine.Top,
		Modifiers: mods,
		Engine:    fake,
		Child:     log.builder(),
	}
	owner, root := mountWidget(t, w)
	before := fake.Journal()

	root.Update(w)
	owner.FlushBuild()

	after := fake.Journal()
	added := after[len(before):]
	if len(added) != 1 || added[0] != enginetest.CallScheduleUpdate {
		t.Errorf("expected exactly [scheduleUpdate] for an identical re-render, got %v", added)
	}
}

func TestRecreatedButEqualModifiersWarnsWithoutRebuild(t *testing.T) {
	logs := captureWarnings(t)
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	build := func() popper.Popper {
		return popper.Popper{
			Reference: popper.ReferenceTo(anchor),
			// A fresh map with an identical value on every build.
			Modifiers: engine.ModifierMap{"offset": {Enabled: true, Options: map[string]any{"offset": "0, 8"}}},
			Engine:    fake,
			Child:     log.builder(),
		}
	}
	owner, root := mountWidget(t, build())

	root.Update(build())
	owner.FlushBuild()

	if got := fake.Count(enginetest.CallDestroy); got != 0 {
		t.Errorf("expected no rebuild for a value-equal modifier map, got %d destroys", got)
	}
	if got := fake.Count(enginetest.CallScheduleUpdate); got != 1 {
		t.Errorf("expected the update to still schedule a recompute, got %d", got)
	}
	if got := logs.Len(); got != 1 {
		t.Fatalf("expected exactly 1 warning, got %d", got)
	}
	if msg := logs.All()[0].Message; !strings.Contains(msg, "modifiers") {
		t.Errorf("expected the warning to mention modifiers, got %q", msg)
	}

	// Each occurrence warns again.
	root.Update(build())
	owner.FlushBuild()
	if got := logs.Len(); got != 2 {
		t.Errorf("expected a second warning for the second occurrence, got %d", got)
	}
}

func TestModifierWarningSuppressedOutsideDebugMode(t *testing.T) {
	logs := captureWarnings(t)
	core.SetDebugMode(false)
	t.Cleanup(func() { core.SetDebugMode(true) })

	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	build := func() popper.Popper {
		return popper.Popper{
			Reference: popper.ReferenceTo(anchor),
			Modifiers: engine.ModifierMap{"offset": {Enabled: true}},
			Engine:    fake,
			Child:     log.builder(),
		}
	}
	owner, root := mountWidget(t, build())
	root.Update(build())
	owner.FlushBuild()

	if got := logs.Len(); got != 0 {
		t.Errorf("expected no warnings outside debug mode, got %d", got)
	}
}

func TestOptionsDerivation(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")
	user := engine.ModifierMap{
		"offset": {Enabled: true, Options: map[string]any{"offset": "0, 8"}},
		"arrow":  {Options: map[string]any{"padding": 5}},
	}

	mountWidget(t, popper.Popper{
		Reference:             popper.ReferenceTo(anchor),
		DisableEventListeners: true,
		PositionFixed:         true,
		Modifiers:             user,
		Engine:                fake,
		Child:                 log.builderWithArrow(),
	})

	opts := fake.LastOptions()
	if opts.Placement != engine.Bottom {
		t.Errorf("expected the empty placement to default to bottom, got %q", opts.Placement)
	}
	if opts.EventsEnabled {
		t.Error("expected EventsEnabled false when listeners are disabled")
	}
	if !opts.PositionFixed {
		t.Error("expected PositionFixed to carry through")
	}

	if m := opts.Modifiers["offset"]; !m.Enabled || m.Options["offset"] != "0, 8" {
		t.Errorf("expected the user modifier preserved, got %+v", m)
	}
	arrow := opts.Modifiers[engine.ModifierArrow]
	if !arrow.Enabled {
		t.Error("expected the arrow modifier enabled while an arrow node is attached")
	}
	if arrow.Element == nil || arrow.Element.Tag != "arrow" {
		t.Errorf("expected the arrow element wired, got %v", arrow.Element)
	}
	if arrow.Options["padding"] != 5 {
		t.Errorf("expected the user's arrow options preserved, got %v", arrow.Options)
	}
	if m := opts.Modifiers[engine.ModifierApplyStyle]; m.Enabled {
		t.Error("expected applyStyle forced off")
	}
	update := opts.Modifiers[engine.ModifierUpdateState]
	if !update.Enabled || update.Order != engine.UpdateStateOrder || update.Fn == nil {
		t.Errorf("expected the injected update modifier enabled at order %d, got %+v",
			engine.UpdateStateOrder, update)
	}

	// The user's map is configuration, never mutated.
	if len(user) != 2 {
		t.Errorf("expected the user map untouched, got %d entries", len(user))
	}
	if user["arrow"].Enabled || user["arrow"].Element != nil {
		t.Errorf("expected the user's arrow entry untouched, got %+v", user["arrow"])
	}
}

func TestArrowAttachTakesEffectAtNextRebuild(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	base := popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	}
	owner, root := mountWidget(t, base)

	if arrow := fake.LastOptions().Modifiers[engine.ModifierArrow]; arrow.Enabled {
		t.Fatal("expected the arrow modifier disabled with no arrow node")
	}

	// The arrow node appears after the instance exists. No immediate
	// resynchronization: the live instance keeps its options.
	arrowNode := dom.NewNode("arrow")
	log.last().ArrowProps.Ref(arrowNode)

	if got := fake.Count(enginetest.CallCreate); got != 1 {
		t.Fatalf("expected arrow attach not to recreate the instance, got %d creates", got)
	}
	if arrow := fake.LastOptions().Modifiers[engine.ModifierArrow]; arrow.Enabled {
		t.Error("expected the live instance to keep arrow disabled")
	}

	// The next resynchronization derives options fresh and picks it up.
	next := base
	next.Placement = engine.Left
	root.Update(next)
	owner.FlushBuild()

	arrow := fake.LastOptions().Modifiers[engine.ModifierArrow]
	if !arrow.Enabled || arrow.Element != arrowNode {
		t.Errorf("expected the rebuilt instance to see the arrow, got %+v", arrow)
	}

	// Arrow removal is also picked up at the next derivation.
	log.last().ArrowProps.Ref(nil)
	final := base
	final.Placement = engine.Right
	root.Update(final)
	owner.FlushBuild()

	arrow = fake.LastOptions().Modifiers[engine.ModifierArrow]
	if arrow.Enabled || arrow.Element != nil {
		t.Errorf("expected arrow removal to disable the modifier, got %+v", arrow)
	}
}

func TestPopperRefIsIdempotent(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})
	journalLen := len(fake.Journal())

	_, popperNode := fake.LastNodes()
	log.last().Ref(popperNode)
	log.last().Ref(nil)

	if got := len(fake.Journal()); got != journalLen {
		t.Errorf("expected repeated and nil ref calls to be no-ops, journal grew from %d to %d",
			journalLen, got)
	}
}

func TestScheduleUpdatePropRequestsRecompute(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Engine:    fake,
		Child:     log.builder(),
	})

	log.last().ScheduleUpdate()
	if got := fake.Count(enginetest.CallScheduleUpdate); got != 1 {
		t.Errorf("expected 1 schedule from the payload callback, got %d", got)
	}
}

func TestModifierPipelineSeesDescriptorUnmodified(t *testing.T) {
	fake := &enginetest.Engine{}
	scripted := positionedResult(10, 20, engine.Top, true)
	fake.Script(scripted)

	var downstream []engine.Result
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Modifiers: engine.ModifierMap{
			"spy": {Enabled: true, Order: 950, Fn: func(r engine.Result) engine.Result {
				downstream = append(downstream, r)
				return r
			}},
		},
		Engine: fake,
		Child:  log.builder(),
	})

	if len(downstream) != 1 {
		t.Fatalf("expected the downstream modifier to run once, got %d", len(downstream))
	}
	got := downstream[0]
	if got.Placement != scripted.Placement || got.Hide != scripted.Hide {
		t.Errorf("expected the descriptor unmodified downstream, got %+v", got)
	}
	if got.Styles["top"] != 10.0 || got.Styles["left"] != 20.0 {
		t.Errorf("expected untouched styles downstream, got %v", got.Styles)
	}
}

func TestTeardown(t *testing.T) {
	fake := &enginetest.Engine{}
	log := &propsLog{}
	anchor := dom.NewNode("button")
	innerRef := dom.NewNodeRef()

	_, root := mountWidget(t, popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		InnerRef:  innerRef,
		Engine:    fake,
		Child:     log.builder(),
	})

	if innerRef.Current == nil || innerRef.Current.Tag != "popper" {
		t.Fatalf("expected InnerRef to hold the popper node, got %v", innerRef.Current)
	}
	schedule := log.last().ScheduleUpdate
	scheduled := fake.Count(enginetest.CallScheduleUpdate)

	root.Unmount()

	if got := fake.Count(enginetest.CallDestroy); got != 1 {
		t.Errorf("expected exactly 1 destroy at teardown, got %d", got)
	}
	if got := fake.Live(); got != 0 {
		t.Errorf("expected no live instances after teardown, got %d", got)
	}
	if innerRef.Current != nil {
		t.Error("expected InnerRef cleared at teardown")
	}

	// Recompute requests after teardown are silent no-ops.
	schedule()
	if got := fake.Count(enginetest.CallScheduleUpdate); got != scheduled {
		t.Errorf("expected ScheduleUpdate after teardown to be a no-op, count went %d to %d",
			scheduled, got)
	}
}

func TestNilEnginePanicsAtCreate(t *testing.T) {
	prev := engine.Default()
	engine.SetDefault(nil)
	t.Cleanup(func() { engine.SetDefault(prev) })

	log := &propsLog{}
	anchor := dom.NewNode("button")

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected a panic when no engine is configured")
		}
		msg, ok := r.(string)
		if !ok || !strings.Contains(msg, "no engine configured") {
			t.Errorf("expected a clear misconfiguration message, got %v", r)
		}
	}()

	owner := core.NewBuildOwner()
	core.MountRoot(popper.Popper{
		Reference: popper.ReferenceTo(anchor),
		Child:     log.builder(),
	}, owner)
}

func TestPositionFixedResultPublishesFixedPosition(t *testing.T) {
	fake := &enginetest.Engine{}
	fake.Script(engine.Result{
		Offsets:   engine.Offsets{Popper: engine.PopperOffsets{Position: engine.Fixed}},
		Styles:    dom.Style{"top": 0.0, "left": 0.0},
		Placement: engine.Bottom,
	})
	log := &propsLog{}
	anchor := dom.NewNode("button")

	mountWidget(t, popper.Popper{
		Reference:     popper.ReferenceTo(anchor),
		PositionFixed: true,
		Engine:        fake,
		Child:         log.builder(),
	})

	if got := log.last().Style["position"]; got != "fixed" {
		t.Errorf("expected position 'fixed' in the published style, got %v", got)
	}
}
