// Package geometry provides the value types shared by the board layout and
// collision code: sizes, points, rectangles, placement areas, size requests,
// padding, aspect ratios and symbolic offsets.
//
// Every type here is a plain value. Nothing in the package holds state between
// calls, so results depend only on the arguments.
//
// Usage:
//
//	extent := geometry.SixteenNine.Size(geometry.Size{W: 400, H: 400})
//	x := geometry.Center().Resolve(extent.W, 50)
package geometry
