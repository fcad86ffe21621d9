package engine

import "testing"

func TestPlacementsEnumeration(t *testing.T) {
	all := Placements()

	if len(all) != 15 {
		t.Fatalf("expected 15 placements, got %d", len(all))
	}
	if all[0] != AutoStart {
		t.Errorf("expected auto-start first, got %q", all[0])
	}
	if all[len(all)-1] != LeftStart {
		t.Errorf("expected left-start last, got %q", all[len(all)-1])
	}

	for _, p := range all {
		if !p.IsValid() {
			t.Errorf("enumerated placement %q reports invalid", p)
		}
	}
}

func TestPlacementsReturnsCopy(t *testing.T) {
	first := Placements()
	first[0] = Placement("mutated")

	if Placements()[0] != AutoStart {
		t.Error("mutating the returned slice changed the enumeration")
	}
}

func TestPlacementIsValid(t *testing.T) {
	invalid := []Placement{"", "bottom-center", "up", "auto-middle", "BOTTOM"}
	for _, p := range invalid {
		if p.IsValid() {
			t.Errorf("expected %q to be invalid", p)
		}
	}
}

func TestPlacementBaseAndVariation(t *testing.T) {
	tests := []struct {
		placement Placement
		base      Placement
		variation string
	}{
		{Bottom, Bottom, ""},
		{BottomEnd, Bottom, "end"},
		{TopStart, Top, "start"},
		{Auto, Auto, ""},
		{AutoEnd, Auto, "end"},
		{Left, Left, ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.placement), func(t *testing.T) {
			if got := tt.placement.Base(); got != tt.base {
				t.Errorf("Base() = %q, want %q", got, tt.base)
			}
			if got := tt.placement.Variation(); got != tt.variation {
				t.Errorf("Variation() = %q, want %q", got, tt.variation)
			}
		})
	}
}

func TestPlacementOpposite(t *testing.T) {
	tests := []struct {
		placement Placement
		want      Placement
	}{
		{Top, Bottom},
		{Bottom, Top},
		{Left, Right},
		{Right, Left},
		{LeftStart, RightStart},
		{BottomEnd, TopEnd},
		{Auto, Auto},
		{AutoStart, AutoStart},
	}

	for _, tt := range tests {
		t.Run(string(tt.placement), func(t *testing.T) {
			if got := tt.placement.Opposite(); got != tt.want {
				t.Errorf("Opposite() = %q, want %q", got, tt.want)
			}
		})
	}
}
