package engine

// Placement names the popper's preferred side and alignment relative to
// the reference node, e.g. "bottom" or "left-start". The empty string is
// not a valid placement; it stands for "not yet computed" in render
// state, and configuration layers substitute Bottom for it.
type Placement string

// The valid placements. Auto lets the engine pick the side with the
// most available space.
const (
	AutoStart   Placement = "auto-start"
	Auto        Placement = "auto"
	AutoEnd     Placement = "auto-end"
	TopStart    Placement = "top-start"
	Top         Placement = "top"
	TopEnd      Placement = "top-end"
	RightStart  Placement = "right-start"
	Right       Placement = "right"
	RightEnd    Placement = "right-end"
	BottomEnd   Placement = "bottom-end"
	Bottom      Placement = "bottom"
	BottomStart Placement = "bottom-start"
	LeftEnd     Placement = "left-end"
	Left        Placement = "left"
	LeftStart   Placement = "left-start"
)

// placements holds every valid placement, clockwise from auto-start.
var placements = []Placement{
	AutoStart, Auto, AutoEnd,
	TopStart, Top, TopEnd,
	RightStart, Right, RightEnd,
	BottomEnd, Bottom, BottomStart,
	LeftEnd, Left, LeftStart,
}

// Placements returns every valid placement in clockwise order. The
// returned slice is a fresh copy.
func Placements() []Placement {
	out := make([]Placement, len(placements))
	copy(out, placements)
	return out
}

// IsValid reports whether p is one of the known placements.
func (p Placement) IsValid() bool {
	for _, known := range placements {
		if p == known {
			return true
		}
	}
	return false
}

// Base strips the alignment suffix: Base of "bottom-end" is "bottom".
func (p Placement) Base() Placement {
	for i := 0; i < len(p); i++ {
		if p[i] == '-' {
			return p[:i]
		}
	}
	return p
}

// Variation returns the alignment suffix ("start" or "end"), or "" for
// a centered placement.
func (p Placement) Variation() string {
	for i := 0; i < len(p); i++ {
		if p[i] == '-' {
			return string(p[i+1:])
		}
	}
	return ""
}

// Opposite mirrors the base side, keeping the alignment: Opposite of
// "left-start" is "right-start". Auto placements have no opposite side
// and are returned unchanged.
func (p Placement) Opposite() Placement {
	base := p.Base()
	var flipped Placement
	switch base {
	case Top:
		flipped = Bottom
	case Bottom:
		flipped = Top
	case Left:
		flipped = Right
	case Right:
		flipped = Left
	default:
		return p
	}
	if v := p.Variation(); v != "" {
		return flipped + "-" + Placement(v)
	}
	return flipped
}

// Position is the CSS positioning scheme an engine computed offsets
// against.
type Position string

const (
	// Absolute positions the popper within its offset parent.
	Absolute Position = "absolute"
	// Fixed positions the popper within the viewport.
	Fixed Position = "fixed"
)
