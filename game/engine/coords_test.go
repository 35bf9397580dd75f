package engine

import (
	"errors"
	"strconv"
	"testing"
)

func TestParseCoords(t *testing.T) {
	tests := map[string]struct {
		input     string
		want      Coords
		wantField string
		malformed bool
		wantErr   bool
	}{
		"simple":       {input: "3,4", want: Coords{X: 3, Y: 4}},
		"origin":       {input: "0,0", want: Coords{}},
		"spaces":       {input: " 1, 2", want: Coords{X: 1, Y: 2}},
		"single field": {input: "3", malformed: true, wantErr: true},
		"three fields": {input: "1,2,3", malformed: true, wantErr: true},
		"empty":        {input: "", malformed: true, wantErr: true},
		"bad x":        {input: "a,1", wantField: "x", wantErr: true},
		"bad y":        {input: "1,b", wantField: "y", wantErr: true},
		"negative x":   {input: "-1,2", wantField: "x", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseCoords(tt.input)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("ParseCoords(%q) error: %v", tt.input, err)
				}
				if got != tt.want {
					t.Errorf("ParseCoords(%q) = %+v, want %+v", tt.input, got, tt.want)
				}
				return
			}

			var cerr *CoordsError
			if !errors.As(err, &cerr) {
				t.Fatalf("ParseCoords(%q) error = %v, want *CoordsError", tt.input, err)
			}
			if cerr.Input != tt.input {
				t.Errorf("Input = %q, want %q", cerr.Input, tt.input)
			}
			if cerr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", cerr.Field, tt.wantField)
			}
			if got := errors.Is(err, ErrMalformedCoords); got != tt.malformed {
				t.Errorf("errors.Is(err, ErrMalformedCoords) = %v, want %v", got, tt.malformed)
			}
			if tt.wantField != "" {
				var numErr *strconv.NumError
				if !errors.As(err, &numErr) {
					t.Errorf("expected wrapped *strconv.NumError, got %v", err)
				}
			}
		})
	}
}

func TestCoords_String(t *testing.T) {
	c := Coords{X: 7, Y: 2}
	if c.String() != "7,2" {
		t.Errorf("String() = %q, want 7,2", c.String())
	}
	back, err := ParseCoords(c.String())
	if err != nil || back != c {
		t.Errorf("round trip = %+v, %v", back, err)
	}
}
