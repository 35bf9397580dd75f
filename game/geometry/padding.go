package geometry

import "math"

// Padding is the inset applied between a container and its content.
type Padding struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Uniform returns the same padding on all four sides.
func Uniform(p float64) Padding {
	return Padding{Top: p, Right: p, Bottom: p, Left: p}
}

// Horizontal returns the combined left and right padding.
func (p Padding) Horizontal() float64 {
	return p.Left + p.Right
}

// Vertical returns the combined top and bottom padding.
func (p Padding) Vertical() float64 {
	return p.Top + p.Bottom
}

// AdjustSize shrinks an outer size to the content size, never below zero.
func (p Padding) AdjustSize(s Size) Size {
	return Size{
		W: math.Max(s.W-p.Horizontal(), 0),
		H: math.Max(s.H-p.Vertical(), 0),
	}
}

// AdjustOffset moves a content-relative offset into the outer coordinate space.
func (p Padding) AdjustOffset(o Point) Point {
	return Point{X: o.X + p.Left, Y: o.Y + p.Top}
}

// AdjustRequest grows a content request by the padding.
func (p Padding) AdjustRequest(r SizeRequest) SizeRequest {
	return r.Add(p.Horizontal(), p.Vertical())
}
