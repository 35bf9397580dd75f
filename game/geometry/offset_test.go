package geometry

import (
	"encoding/json"
	"testing"
)

func TestOffset_Resolve(t *testing.T) {
	type tc struct {
		offset    Offset
		available float64
		used      float64
		want      float64
	}

	tests := map[string]tc{
		"start":              {offset: Start(), available: 100, used: 20, want: 0},
		"center":             {offset: Center(), available: 100, used: 20, want: 40},
		"end":                {offset: End(), available: 100, used: 20, want: 80},
		"static ignores box": {offset: Static(250), available: 100, used: 20, want: 250},
		"end overflows":      {offset: End(), available: 10, used: 20, want: -10},
		"negative static":    {offset: Static(-5), available: 10, used: 1, want: -5},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tt.offset.Resolve(tt.available, tt.used); got != tt.want {
				t.Errorf("Resolve(%v, %v) = %v, want %v", tt.available, tt.used, got, tt.want)
			}
		})
	}
}

func TestParseOffset(t *testing.T) {
	type tc struct {
		in      string
		want    Offset
		wantErr bool
	}

	tests := map[string]tc{
		"start":      {in: "start", want: Start()},
		"empty":      {in: "", want: Start()},
		"center":     {in: " Center ", want: Center()},
		"end":        {in: "END", want: End()},
		"static":     {in: "12.5", want: Static(12.5)},
		"negative":   {in: "-3", want: Static(-3)},
		"gibberish":  {in: "left", wantErr: true},
		"half float": {in: "1.2.3", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := ParseOffset(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q) expected error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOffset(%q) error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseOffset(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestOffset_JSON(t *testing.T) {
	var pair struct {
		X Offset `json:"x"`
		Y Offset `json:"y"`
	}
	if err := json.Unmarshal([]byte(`{"x":50,"y":"center"}`), &pair); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if pair.X != Static(50) {
		t.Errorf("X = %+v, want Static(50)", pair.X)
	}
	if pair.Y != Center() {
		t.Errorf("Y = %+v, want Center", pair.Y)
	}

	data, err := json.Marshal(pair)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `{"x":50,"y":"center"}` {
		t.Errorf("Marshal = %s", data)
	}

	if err := json.Unmarshal([]byte(`{"x":true}`), &pair); err == nil {
		t.Error("Expected error for boolean offset")
	}
}
