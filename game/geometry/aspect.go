package geometry

import (
	"fmt"
	"strings"
)

// AspectRatio is one of the supported board aspect ratios.
type AspectRatio int

const (
	SixteenNine AspectRatio = iota // default
	OneOne
	TwoThree
	FourFive
	FiveSeven
)

var aspectNames = map[AspectRatio]string{
	SixteenNine: "16:9",
	OneOne:      "1:1",
	TwoThree:    "2:3",
	FourFive:    "4:5",
	FiveSeven:   "5:7",
}

// AspectRatios lists every supported ratio.
func AspectRatios() []AspectRatio {
	return []AspectRatio{OneOne, TwoThree, FourFive, FiveSeven, SixteenNine}
}

// Ratio returns the target width divided by the target height.
func (a AspectRatio) Ratio() float64 {
	switch a {
	case OneOne:
		return 1
	case TwoThree:
		return 2.0 / 3.0
	case FourFive:
		return 4.0 / 5.0
	case FiveSeven:
		return 5.0 / 7.0
	default:
		return 16.0 / 9.0
	}
}

// Size returns the largest box with this ratio that fits inside available.
// The axis that runs out first is kept and the other one is derived from it.
func (a AspectRatio) Size(available Size) Size {
	if available.W <= 0 || available.H <= 0 {
		return Size{}
	}

	r := a.Ratio()
	if available.W/available.H > r {
		return Size{W: available.H * r, H: available.H}
	}
	return Size{W: available.W, H: available.W / r}
}

func (a AspectRatio) String() string {
	if name, ok := aspectNames[a]; ok {
		return name
	}
	return fmt.Sprintf("AspectRatio(%d)", int(a))
}

// ParseAspectRatio parses the "w:h" form of a supported ratio.
// The empty string selects the default 16:9.
func ParseAspectRatio(s string) (AspectRatio, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return SixteenNine, nil
	}
	for ratio, name := range aspectNames {
		if name == s {
			return ratio, nil
		}
	}
	return SixteenNine, fmt.Errorf("unsupported aspect ratio %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (a AspectRatio) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AspectRatio) UnmarshalText(text []byte) error {
	parsed, err := ParseAspectRatio(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
