package units

import (
	"math"
	"testing"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  float64
	}{
		{"float", 12.5, 12.5},
		{"int", 7, 7},
		{"int64", int64(-3), -3},
		{"plain string", "21.4", 21.4},
		{"comma decimal", "12,4", 12.4},
		{"negative comma decimal", "-3,2", -3.2},
		{"parenthetical annotation", "37.4(27)", 37.4},
		{"direction value composite", "99/21.1", 21.1},
		{"composite with comma", "270/5,4", 5.4},
		{"whitespace", "  18.0  ", 18},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.input)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ParseNumber(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseNumberNoData(t *testing.T) {
	inputs := []any{nil, "", "Ip", "ip", "-", "--", "NaN", "none", "NULL", "garbage", "12.3.4", true}
	for _, in := range inputs {
		if got := ParseNumber(in); !math.IsNaN(got) {
			t.Errorf("ParseNumber(%v) = %v, want NaN", in, got)
		}
	}
}

func TestMsToKmh(t *testing.T) {
	if got := MsToKmh(10); math.Abs(got-36) > 1e-9 {
		t.Errorf("MsToKmh(10) = %v, want 36", got)
	}
	if !math.IsNaN(MsToKmh(math.NaN())) {
		t.Error("MsToKmh(NaN) should be NaN")
	}
}

func TestCompassToDegrees(t *testing.T) {
	tests := []struct {
		name string
		want float64
	}{
		{"N", 0},
		{"n", 0},
		{"NNE", 22.5},
		{"E", 90},
		{"S", 180},
		{"W", 270},
		{"SW", 225},
		// Spanish: O is west, SO southwest.
		{"O", 270},
		{"SO", 225},
		{"NNO", 337.5},
		{"Oeste", 270},
		{"Noroeste", 315},
		{"sur", 180},
		{"Northwest", 315},
	}
	for _, tt := range tests {
		if got := CompassToDegrees(tt.name); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("CompassToDegrees(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
	if !math.IsNaN(CompassToDegrees("XYZ")) {
		t.Error("unknown compass name should map to NaN")
	}
	if !math.IsNaN(CompassToDegrees("")) {
		t.Error("empty compass name should map to NaN")
	}
}

func TestDegreesToCompass(t *testing.T) {
	tests := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{11, "N"},
		{12, "NNE"},
		{90, "E"},
		{180, "S"},
		{270, "W"},
		{359, "N"},
		{-90, "W"},
		{450, "E"},
	}
	for _, tt := range tests {
		if got := DegreesToCompass(tt.deg); got != tt.want {
			t.Errorf("DegreesToCompass(%v) = %q, want %q", tt.deg, got, tt.want)
		}
	}
	if got := DegreesToCompass(math.NaN()); got != "" {
		t.Errorf("DegreesToCompass(NaN) = %q, want empty", got)
	}
}
