package dom

// Rect is an axis-aligned rectangle in host coordinates, origin top-left.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

func (r Rect) Left() float64 { return r.X }

func (r Rect) Top() float64 { return r.Y }

func (r Rect) Right() float64 { return r.X + r.Width }

func (r Rect) Bottom() float64 { return r.Y + r.Height }

// IsEmpty reports whether the rectangle has no area.
func (r Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}
