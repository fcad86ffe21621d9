package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/go-popper/popper/pkg/dom"
	"github.com/go-popper/popper/pkg/engine"
	"github.com/go-popper/popper/pkg/errors"
)

// scenario scripts one inspector session: the initial widget
// configuration plus the steps to replay against it.
type scenario struct {
	Name                  string                  `yaml:"name"`
	Placement             string                  `yaml:"placement"`
	PositionFixed         bool                    `yaml:"positionFixed"`
	DisableEventListeners bool                    `yaml:"disableEventListeners"`
	Arrow                 bool                    `yaml:"arrow"`
	Modifiers             map[string]modifierSpec `yaml:"modifiers"`
	Steps                 []step                  `yaml:"steps"`
}

// modifierSpec configures one named modifier on the Popper widget.
type modifierSpec struct {
	Enabled *bool          `yaml:"enabled"`
	Order   int            `yaml:"order"`
	Options map[string]any `yaml:"options"`
}

// step is one scripted action. Do selects the kind; the remaining
// fields parameterize it.
type step struct {
	Do    string `yaml:"do"`
	Label string `yaml:"label"`

	// push
	Top       float64  `yaml:"top"`
	Left      float64  `yaml:"left"`
	Placement string   `yaml:"placement"`
	Position  string   `yaml:"position"`
	Hide      bool     `yaml:"hide"`
	ArrowLeft *float64 `yaml:"arrowLeft"`

	// events, fixed, arrow
	Enabled *bool `yaml:"enabled"`
}

// The step kinds.
const (
	stepPush        = "push"        // deliver an engine result
	stepPlacement   = "placement"   // change the requested placement
	stepReanchor    = "reanchor"    // remount the reference under a new node
	stepEvents      = "events"      // toggle event listeners
	stepFixed       = "fixed"       // toggle fixed positioning
	stepArrow       = "arrow"       // attach or detach the arrow element
	stepRemodifiers = "remodifiers" // rebuild an identical modifiers map
	stepSchedule    = "schedule"    // call the ScheduleUpdate prop
	stepUnmount     = "unmount"     // tear the tree down
)

// loadScenario reads and validates a YAML scenario file.
func loadScenario(path string) (*scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &errors.Error{
			Op:   "demo.loadScenario",
			Kind: errors.KindConfig,
			Err:  fmt.Errorf("failed to read %s: %w", path, err),
		}
	}
	return parseScenario(data)
}

// parseScenario decodes a scenario strictly: unknown keys are config
// errors, not typos to ignore.
func parseScenario(data []byte) (*scenario, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc scenario
	if err := dec.Decode(&sc); err != nil {
		if err == io.EOF {
			err = fmt.Errorf("scenario file is empty")
		} else {
			err = fmt.Errorf("failed to parse scenario: %w", err)
		}
		return nil, &errors.Error{Op: "demo.parseScenario", Kind: errors.KindConfig, Err: err}
	}

	if err := sc.validate(); err != nil {
		return nil, &errors.Error{Op: "demo.parseScenario", Kind: errors.KindConfig, Err: err}
	}
	if sc.Name == "" {
		sc.Name = "untitled scenario"
	}
	return &sc, nil
}

func (sc *scenario) validate() error {
	if sc.Placement != "" && !engine.Placement(sc.Placement).IsValid() {
		return fmt.Errorf("placement %q is not a valid placement", sc.Placement)
	}

	for i, st := range sc.Steps {
		switch st.Do {
		case stepPush:
			if st.Placement != "" && !engine.Placement(st.Placement).IsValid() {
				return fmt.Errorf("steps[%d]: placement %q is not a valid placement", i, st.Placement)
			}
			if st.Position != "" && st.Position != string(engine.Absolute) && st.Position != string(engine.Fixed) {
				return fmt.Errorf("steps[%d]: position must be %q or %q (got %q)",
					i, engine.Absolute, engine.Fixed, st.Position)
			}
		case stepPlacement:
			if !engine.Placement(st.Placement).IsValid() {
				return fmt.Errorf("steps[%d]: placement %q is not a valid placement", i, st.Placement)
			}
		case stepEvents, stepFixed, stepArrow:
			if st.Enabled == nil {
				return fmt.Errorf("steps[%d]: %s needs enabled: true|false", i, st.Do)
			}
		case stepRemodifiers:
			if len(sc.Modifiers) == 0 {
				return fmt.Errorf("steps[%d]: remodifiers needs a modifiers section to rebuild", i)
			}
		case stepReanchor, stepSchedule, stepUnmount:
		default:
			return fmt.Errorf("steps[%d]: unknown step %q", i, st.Do)
		}
	}
	return nil
}

// modifierMap builds the engine configuration the scenario's modifiers
// section describes. Enabled defaults to true.
func (sc *scenario) modifierMap() engine.ModifierMap {
	if len(sc.Modifiers) == 0 {
		return nil
	}
	mods := make(engine.ModifierMap, len(sc.Modifiers))
	for name, spec := range sc.Modifiers {
		enabled := true
		if spec.Enabled != nil {
			enabled = *spec.Enabled
		}
		mods[name] = engine.Modifier{
			Enabled: enabled,
			Order:   spec.Order,
			Options: spec.Options,
		}
	}
	return mods
}

// result converts a push step into the engine result it delivers.
// An unset placement falls back to the currently requested one.
func (st step) result(requested engine.Placement) engine.Result {
	placement := engine.Placement(st.Placement)
	if placement == "" {
		placement = requested
	}
	position := engine.Absolute
	if st.Position == string(engine.Fixed) {
		position = engine.Fixed
	}

	r := engine.Result{
		Offsets: engine.Offsets{Popper: engine.PopperOffsets{
			Position: position,
			Top:      st.Top,
			Left:     st.Left,
		}},
		Styles:    dom.Style{"top": st.Top, "left": st.Left},
		Placement: placement,
		Hide:      st.Hide,
	}
	if st.ArrowLeft != nil {
		r.ArrowStyles = dom.Style{"left": *st.ArrowLeft}
	}
	return r
}

func boolPtr(b bool) *bool { return &b }

func floatPtr(f float64) *float64 { return &f }

// defaultScenario is the built-in tour used when no scenario file is
// given. It walks the whole lifecycle: creation, result publication,
// every rebuild trigger, the in-place listener toggle, deferred arrow
// pickup, the recreated-modifiers diagnostic, and teardown.
func defaultScenario() *scenario {
	return &scenario{
		Name:      "lifecycle tour",
		Placement: string(engine.Bottom),
		Modifiers: map[string]modifierSpec{
			"offset": {Options: map[string]any{"offset": "0,8"}},
		},
		Steps: []step{
			{Do: stepPush, Label: "engine computes the first layout", Top: 120, Left: 48},
			{Do: stepPush, Label: "reference scrolls, popper follows", Top: 96, Left: 48},
			{Do: stepPush, Label: "identical result, publication gated", Top: 96, Left: 48},
			{Do: stepPlacement, Label: "flip to top: destroy and recreate", Placement: string(engine.Top)},
			{Do: stepPush, Label: "layout lands on the new side", Top: 12, Left: 48, Placement: string(engine.Top)},
			{Do: stepEvents, Label: "pause listeners in place", Enabled: boolPtr(false)},
			{Do: stepEvents, Label: "resume listeners in place", Enabled: boolPtr(true)},
			{Do: stepArrow, Label: "arrow attaches, pickup deferred", Enabled: boolPtr(true)},
			{Do: stepPlacement, Label: "next rebuild sees the arrow", Placement: string(engine.Right)},
			{Do: stepPush, Label: "result carries arrow styles", Top: 64, Left: 140, Placement: string(engine.Right), ArrowLeft: floatPtr(-4)},
			{Do: stepRemodifiers, Label: "equal modifiers map recreated: diagnostic, no rebuild"},
			{Do: stepSchedule, Label: "ask the engine to recompute"},
			{Do: stepPush, Label: "reference leaves the boundary", Top: 64, Left: 140, Placement: string(engine.Right), Hide: true},
			{Do: stepReanchor, Label: "anchor replaced: rebind to the new node"},
			{Do: stepUnmount, Label: "tree unmounts, instance destroyed once"},
		},
	}
}
