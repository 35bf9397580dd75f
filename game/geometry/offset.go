package geometry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// OffsetKind selects how an Offset is resolved.
type OffsetKind uint8

const (
	OffsetStart OffsetKind = iota
	OffsetCenter
	OffsetEnd
	OffsetStatic
)

// Offset is a symbolic one-dimensional placement rule.
type Offset struct {
	Kind  OffsetKind
	Value float64 // only meaningful for OffsetStatic
}

// Start aligns the leading edges.
func Start() Offset { return Offset{Kind: OffsetStart} }

// Center centres the child in the available extent.
func Center() Offset { return Offset{Kind: OffsetCenter} }

// End aligns the trailing edges.
func End() Offset { return Offset{Kind: OffsetEnd} }

// Static places the child at an absolute coordinate.
func Static(v float64) Offset { return Offset{Kind: OffsetStatic, Value: v} }

// Resolve maps the rule to a coordinate for a child of extent used inside an
// extent available. No clamping is applied, so Static and End offsets can
// place a child partly or fully outside its parent.
func (o Offset) Resolve(available, used float64) float64 {
	switch o.Kind {
	case OffsetCenter:
		return (available - used) / 2
	case OffsetEnd:
		return available - used
	case OffsetStatic:
		return o.Value
	default:
		return 0
	}
}

func (o Offset) String() string {
	switch o.Kind {
	case OffsetCenter:
		return "center"
	case OffsetEnd:
		return "end"
	case OffsetStatic:
		return strconv.FormatFloat(o.Value, 'f', -1, 64)
	default:
		return "start"
	}
}

// ParseOffset parses "start", "center", "end" or a decimal static coordinate.
func ParseOffset(s string) (Offset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "start":
		return Start(), nil
	case "center":
		return Center(), nil
	case "end":
		return End(), nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return Offset{}, fmt.Errorf("invalid offset %q: want start, center, end or a number", s)
	}
	return Static(v), nil
}

// MarshalText implements encoding.TextMarshaler.
func (o Offset) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Offset) UnmarshalText(text []byte) error {
	parsed, err := ParseOffset(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// MarshalJSON writes static offsets as numbers and symbolic ones as strings.
func (o Offset) MarshalJSON() ([]byte, error) {
	if o.Kind == OffsetStatic {
		return json.Marshal(o.Value)
	}
	return json.Marshal(o.String())
}

// UnmarshalJSON accepts either a number or a string.
func (o *Offset) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err == nil {
		*o = Static(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("offset must be a number or a string: %w", err)
	}
	return o.UnmarshalText([]byte(s))
}
