// Package layout computes placement areas for board children.
//
// Two layouts are provided:
//
//   - Free sizes the board to a fixed aspect ratio inside the available area
//     and positions every child with its own pair of offsets.
//   - Grid places children into fixed rows and columns, sized by the largest
//     child in each row and column.
//
// Both expose RequestSize, which reports what the layout needs from its
// parent, and Build, which resolves one Area per child. Build never stores
// its result: the resolved board extent is returned to the caller, who passes
// it on to whatever needs it during the same tick.
package layout
