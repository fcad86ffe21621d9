package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap/zaptest/observer"

	"github.com/go-popper/popper/pkg/core"
	"github.com/go-popper/popper/pkg/engine"
	"github.com/go-popper/popper/pkg/enginetest"
	"github.com/go-popper/popper/pkg/popper"
	"github.com/go-popper/popper/pkg/widgets"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	stepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// verticalMargin is the number of lines the fixed sections of the view
// occupy; the journal viewport gets the rest.
const verticalMargin = 16

// treeConfig is the mutable widget configuration the scenario steps
// drive. Every change goes back through root.Update so the tree sees
// the same transitions a real embedding would produce.
type treeConfig struct {
	placement      engine.Placement
	positionFixed  bool
	eventsDisabled bool
	withArrow      bool
	anchorGen      int
	modifiers      engine.ModifierMap
}

// inspectorModel steps a scenario through a live widget tree and shows
// the engine journal and published render state after each action.
type inspectorModel struct {
	scenario *scenario
	logs     *observer.ObservedLogs

	fake  *enginetest.Engine
	owner *core.BuildOwner
	root  core.Element
	cfg   treeConfig
	props popper.Props

	stepIdx     int
	lastApplied string

	journal viewport.Model
	ready   bool
	width   int
	height  int
}

func newInspectorModel(sc *scenario, logs *observer.ObservedLogs) *inspectorModel {
	m := &inspectorModel{scenario: sc, logs: logs}
	m.mount()
	return m
}

// mount builds a fresh world: new fake engine, new build owner, the
// scenario's initial tree.
func (m *inspectorModel) mount() {
	if m.root != nil {
		m.root.Unmount()
	}
	m.fake = &enginetest.Engine{}
	m.owner = core.NewBuildOwner()
	m.cfg = treeConfig{
		placement:      engine.Placement(m.scenario.Placement),
		positionFixed:  m.scenario.PositionFixed,
		eventsDisabled: m.scenario.DisableEventListeners,
		withArrow:      m.scenario.Arrow,
		modifiers:      m.scenario.modifierMap(),
	}
	m.props = popper.Props{}
	m.stepIdx = 0
	m.lastApplied = ""
	m.root = core.MountRoot(m.tree(), m.owner)
	m.owner.FlushBuild()
}

// tree assembles the Manager/Reference/Popper triple from the current
// configuration. The anchor carries anchorGen as its key so a reanchor
// step remounts it under a brand-new node.
func (m *inspectorModel) tree() core.Widget {
	return popper.Manager{Child: widgets.ElementNode{
		Tag: "app",
		ChildrenWidgets: []core.Widget{
			popper.Reference{Child: m.referenceBuilder()},
			popper.Popper{
				Placement:             m.cfg.placement,
				PositionFixed:         m.cfg.positionFixed,
				DisableEventListeners: m.cfg.eventsDisabled,
				Modifiers:             m.cfg.modifiers,
				Engine:                m.fake,
				Child:                 m.popperBuilder(),
			},
		},
	}}
}

func (m *inspectorModel) referenceBuilder() popper.ReferenceBuilder {
	return func(p popper.ReferenceProps) core.Widget {
		return widgets.ElementNode{Tag: "button", ID: m.cfg.anchorGen, Ref: p.Ref}
	}
}

func (m *inspectorModel) popperBuilder() popper.Builder {
	return func(p popper.Props) core.Widget {
		m.props = p
		var children []core.Widget
		if m.cfg.withArrow {
			children = append(children, widgets.ElementNode{
				Tag:   "arrow",
				Style: p.ArrowProps.Style,
				Ref:   p.ArrowProps.Ref,
			})
		}
		return widgets.ElementNode{
			Tag:             "popper",
			Style:           p.Style,
			Ref:             p.Ref,
			ChildrenWidgets: children,
		}
	}
}

func (m *inspectorModel) requestedPlacement() engine.Placement {
	if m.cfg.placement == "" {
		return engine.Bottom
	}
	return m.cfg.placement
}

func (m *inspectorModel) rebuildTree() {
	if m.root != nil {
		m.root.Update(m.tree())
	}
}

// applyStep replays the next scenario step against the tree.
func (m *inspectorModel) applyStep() {
	if m.stepIdx >= len(m.scenario.Steps) {
		return
	}
	st := m.scenario.Steps[m.stepIdx]
	m.stepIdx++

	switch st.Do {
	case stepPush:
		m.fake.Push(st.result(m.requestedPlacement()))
	case stepPlacement:
		m.cfg.placement = engine.Placement(st.Placement)
		m.rebuildTree()
	case stepReanchor:
		m.cfg.anchorGen++
		m.rebuildTree()
	case stepEvents:
		m.cfg.eventsDisabled = !*st.Enabled
		m.rebuildTree()
	case stepFixed:
		m.cfg.positionFixed = *st.Enabled
		m.rebuildTree()
	case stepArrow:
		m.cfg.withArrow = *st.Enabled
		m.rebuildTree()
	case stepRemodifiers:
		m.cfg.modifiers = m.cfg.modifiers.Clone()
		m.rebuildTree()
	case stepSchedule:
		if m.props.ScheduleUpdate != nil {
			m.props.ScheduleUpdate()
		}
	case stepUnmount:
		if m.root != nil {
			m.root.Unmount()
			m.root = nil
		}
	}

	m.owner.FlushBuild()
	m.lastApplied = st.Label
	if m.lastApplied == "" {
		m.lastApplied = st.Do
	}
	m.refreshJournal()
}

func (m *inspectorModel) Init() tea.Cmd {
	return nil
}

func (m *inspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.root != nil {
				m.root.Unmount()
				m.root = nil
			}
			return m, tea.Quit

		case " ", "enter", "n":
			m.applyStep()
			return m, nil

		case "r":
			m.logs.TakeAll()
			m.mount()
			m.refreshJournal()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		h := msg.Height - verticalMargin
		if h < 3 {
			h = 3
		}
		if !m.ready {
			m.journal = viewport.New(msg.Width, h)
			m.ready = true
		} else {
			m.journal.Width = msg.Width
			m.journal.Height = h
		}
		m.refreshJournal()
	}

	var cmd tea.Cmd
	m.journal, cmd = m.journal.Update(msg)
	return m, cmd
}

func (m *inspectorModel) refreshJournal() {
	if !m.ready {
		return
	}
	m.journal.SetContent(m.journalContent())
	m.journal.GotoBottom()
}

func (m *inspectorModel) journalContent() string {
	calls := m.fake.Journal()
	if len(calls) == 0 {
		return "(no engine calls yet)"
	}
	var b strings.Builder
	for i, call := range calls {
		fmt.Fprintf(&b, "%3d  %s\n", i+1, call)
	}
	return b.String()
}

func (m *inspectorModel) View() string {
	if !m.ready {
		return "Starting inspector..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("popper lifecycle inspector"))
	b.WriteString(" ")
	b.WriteString(m.scenario.Name)
	b.WriteString("\n")
	b.WriteString(m.stepLine())
	b.WriteString("\n\n")

	b.WriteString(m.engineLine())
	b.WriteString("\n")
	b.WriteString(m.instanceLine())
	b.WriteString("\n")
	b.WriteString(m.optionsLine())
	b.WriteString("\n\n")

	writeField(&b, "popper", formatStyle(m.props.Style))
	b.WriteString("\n")
	writeField(&b, "arrow", formatStyle(m.props.ArrowProps.Style))
	b.WriteString("\n")
	writeField(&b, "state", m.renderStateLine())
	b.WriteString("\n\n")

	b.WriteString(labelStyle.Render("engine journal"))
	b.WriteString("\n")
	b.WriteString(m.journal.View())
	b.WriteString("\n")

	for _, entry := range lastWarnings(m.logs, 2) {
		b.WriteString(warnStyle.Render("diag  " + entry))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("space/enter step • r reset • ↑/↓ scroll journal • q quit"))
	return b.String()
}

func (m *inspectorModel) stepLine() string {
	total := len(m.scenario.Steps)
	switch {
	case total == 0:
		return helpStyle.Render("scenario has no steps")
	case m.stepIdx == 0:
		return fmt.Sprintf("%d steps — press space to begin", total)
	case m.stepIdx >= total:
		return fmt.Sprintf("step %d/%d  %s  %s", m.stepIdx, total,
			stepStyle.Render(m.lastApplied), helpStyle.Render("(done)"))
	default:
		return fmt.Sprintf("step %d/%d  %s", m.stepIdx, total, stepStyle.Render(m.lastApplied))
	}
}

func (m *inspectorModel) engineLine() string {
	return fmt.Sprintf("%s  creates %d  destroys %d  live %d  schedules %d",
		labelStyle.Render("engine"),
		m.fake.Count(enginetest.CallCreate),
		m.fake.Count(enginetest.CallDestroy),
		m.fake.Live(),
		m.fake.Count(enginetest.CallScheduleUpdate))
}

func (m *inspectorModel) instanceLine() string {
	inst := m.fake.LastInstance()
	if inst == nil {
		return fmt.Sprintf("%s  none yet", labelStyle.Render("instance"))
	}
	state := "live"
	if !inst.Live() {
		state = "destroyed"
	}
	events := "off"
	if inst.EventsEnabled() {
		events = "on"
	}
	return fmt.Sprintf("%s  #%d  %s  listeners %s",
		labelStyle.Render("instance"), inst.Seq(), state, events)
}

func (m *inspectorModel) optionsLine() string {
	if m.fake.Count(enginetest.CallCreate) == 0 {
		return fmt.Sprintf("%s  waiting for both nodes", labelStyle.Render("options"))
	}
	o := m.fake.LastOptions()
	return fmt.Sprintf("%s  placement %s  events %s  fixed %s  modifiers %s",
		labelStyle.Render("options"),
		valueStyle.Render(string(o.Placement)),
		onOff(o.EventsEnabled), onOff(o.PositionFixed),
		formatModifiers(o.Modifiers))
}

func (m *inspectorModel) renderStateLine() string {
	placement := string(m.props.Placement)
	if placement == "" {
		placement = "-"
	}
	hidden := "unknown"
	if m.props.OutOfBoundaries != nil {
		hidden = fmt.Sprintf("%t", *m.props.OutOfBoundaries)
	}
	return fmt.Sprintf("placement %s  hidden %s", valueStyle.Render(placement), hidden)
}

func writeField(b *strings.Builder, name, value string) {
	b.WriteString(labelStyle.Render(name))
	b.WriteString("  ")
	b.WriteString(value)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func formatStyle(s map[string]any) string {
	if len(s) == 0 {
		return "{}"
	}
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", k, s[k]))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

func formatModifiers(mods engine.ModifierMap) string {
	if len(mods) == 0 {
		return "[]"
	}
	names := make([]string, 0, len(mods))
	for name, mod := range mods {
		if !mod.Enabled {
			name += "(off)"
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return "[" + strings.Join(names, " ") + "]"
}

func lastWarnings(logs *observer.ObservedLogs, n int) []string {
	entries := logs.All()
	if len(entries) > n {
		entries = entries[len(entries)-n:]
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Message)
	}
	return out
}
