package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedCoords is returned when a coordinate key does not have exactly
// two comma separated fields.
var ErrMalformedCoords = errors.New("coordinates must be in format `x,y`")

// Coords addresses a grid cell by column (X) and row (Y).
type Coords struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// String formats c as "x,y".
func (c Coords) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// CoordsError describes a coordinate key that failed to parse.
type CoordsError struct {
	Input string
	Field string // "x", "y" or empty when the shape is wrong
	Err   error
}

func (e *CoordsError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid coords %q: %v", e.Input, e.Err)
	}
	return fmt.Sprintf("invalid coords %q: invalid %s: %v", e.Input, e.Field, e.Err)
}

func (e *CoordsError) Unwrap() error {
	return e.Err
}

// ParseCoords parses "x,y" into Coords. Both fields must be non-negative
// decimal integers.
func ParseCoords(s string) (Coords, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return Coords{}, &CoordsError{Input: s, Err: ErrMalformedCoords}
	}

	x, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 31)
	if err != nil {
		return Coords{}, &CoordsError{Input: s, Field: "x", Err: err}
	}
	y, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 31)
	if err != nil {
		return Coords{}, &CoordsError{Input: s, Field: "y", Err: err}
	}

	return Coords{X: int(x), Y: int(y)}, nil
}
