package layout

import "github.com/wricardo/spriteboard/game/geometry"

// Child is one entry of a free layout: its size request together with the
// offsets that anchor it. Keeping both in one record means a child can never
// be placed with another child's offsets.
type Child struct {
	Request geometry.SizeRequest
	X       geometry.Offset
	Y       geometry.Offset
}

// Pass is the outcome of one Free.Build call.
type Pass struct {
	// Extent is the aspect-locked board size resolved for this pass.
	Extent geometry.Size
	// Areas holds one placement per child, in child order.
	Areas []geometry.Area
}

// Free is the aspect-locked, free-offset board layout.
type Free struct {
	Ratio   geometry.AspectRatio
	Padding geometry.Padding
}

// NewFree creates a free layout.
func NewFree(ratio geometry.AspectRatio, padding geometry.Padding) Free {
	return Free{Ratio: ratio, Padding: padding}
}

// RequestSize merges the children's requests into their envelope.
func (f Free) RequestSize(children []geometry.SizeRequest) geometry.SizeRequest {
	return f.Padding.AdjustRequest(geometry.MergeRequests(children...))
}

// Extent resolves the board size for an available area.
func (f Free) Extent(available geometry.Size) geometry.Size {
	return f.Ratio.Size(f.Padding.AdjustSize(available))
}

// Build resolves the board extent and places every child inside it.
func (f Free) Build(available geometry.Size, children []Child) Pass {
	extent := f.Extent(available)

	areas := make([]geometry.Area, len(children))
	for i, c := range children {
		size := c.Request.Get(extent)
		offset := geometry.Point{
			X: c.X.Resolve(extent.W, size.W),
			Y: c.Y.Resolve(extent.H, size.H),
		}
		areas[i] = geometry.Area{Offset: f.Padding.AdjustOffset(offset), Size: size}
	}

	return Pass{Extent: extent, Areas: areas}
}
