package sanitizer

import (
	"reflect"
	"testing"

	"fishtank/pkg/model"
)

func TestNormalizeAggression(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  int
	}{
		{name: "missing", input: nil, want: 3},
		{name: "valid number", input: float64(4), want: 4},
		{name: "valid int", input: 2, want: 2},
		{name: "numeric string", input: "5", want: 5},
		{name: "padded numeric string", input: " 1 ", want: 1},
		{name: "garbage string", input: "abc", want: 3},
		{name: "above range resets", input: float64(9), want: 3},
		{name: "below range resets", input: float64(0), want: 3},
		{name: "negative string resets", input: "-2", want: 3},
		{name: "fractional number truncates", input: 4.7, want: 4},
		{name: "fractional string fails", input: "4.7", want: 3},
		{name: "bool is not a number", input: true, want: 3},
		{name: "object is not a number", input: map[string]any{"a": 1}, want: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAggression(tt.input); got != tt.want {
				t.Errorf("NormalizeAggression(%v) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeSize(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "missing", input: nil, want: "small"},
		{name: "exact", input: "medium", want: "medium"},
		{name: "upper case", input: "LARGE", want: "large"},
		{name: "canonical extra large", input: "extra-large", want: "extra-large"},
		{name: "spaced synonym", input: "Extra Large", want: "extra-large"},
		{name: "underscore synonym", input: "extra_large", want: "extra-large"},
		{name: "surrounding whitespace", input: "  Medium ", want: "medium"},
		{name: "unknown", input: "banana", want: "small"},
		{name: "empty", input: "", want: "small"},
		{name: "number", input: float64(3), want: "small"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSize(tt.input); got != tt.want {
				t.Errorf("NormalizeSize(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeWaterType(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{name: "missing", input: nil, want: "fresh"},
		{name: "exact", input: "brackish", want: "brackish"},
		{name: "shouted synonym", input: "SALT WATER", want: "salt"},
		{name: "joined synonym", input: "saltwater", want: "salt"},
		{name: "fresh synonym", input: "Fresh Water", want: "fresh"},
		{name: "freshwater", input: "freshwater", want: "fresh"},
		{name: "mixed case", input: "Salt", want: "salt"},
		{name: "unknown", input: "x", want: "fresh"},
		{name: "empty", input: "", want: "fresh"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeWaterType(tt.input); got != tt.want {
				t.Errorf("NormalizeWaterType(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalize_ExactKeys(t *testing.T) {
	got := Normalize(model.Fields{
		"name":      "nemo",
		"waterType": "Salt Water",
		"extra":     "ignored",
	})

	want := model.Fields{
		"name":       "nemo",
		"waterType":  "salt",
		"size":       "small",
		"aggression": 3,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize() = %v, want %v", got, want)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []model.Fields{
		{},
		{"aggression": "abc"},
		{"aggression": float64(9), "size": "Extra Large"},
		{"name": "dory", "waterType": "SALT WATER", "size": "banana", "aggression": "2"},
		{"waterType": float64(7), "size": true, "aggression": []any{1}},
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("Normalize not idempotent for %v: %v then %v", in, once, twice)
		}
	}
}

func TestNormalize_DoesNotMutateInput(t *testing.T) {
	in := model.Fields{"waterType": "SALT WATER", "aggression": "9"}
	_ = Normalize(in)
	_ = Overlay(in)

	if in["waterType"] != "SALT WATER" || in["aggression"] != "9" {
		t.Errorf("input was mutated: %v", in)
	}
}

func TestOverlay_KeepsExtras(t *testing.T) {
	raw := model.Fields{
		"name":       "nemo",
		"size":       "huge",
		"aggression": float64(2),
		"color":      "orange",
		"createdBy":  "alice",
	}

	got := Overlay(raw)

	if got["color"] != "orange" || got["createdBy"] != "alice" {
		t.Errorf("extras not preserved: %v", got)
	}
	if got["size"] != "small" {
		t.Errorf("size = %v, want small", got["size"])
	}
	if got["waterType"] != "fresh" {
		t.Errorf("waterType = %v, want fresh", got["waterType"])
	}
	if got["aggression"] != 2 {
		t.Errorf("aggression = %v, want 2", got["aggression"])
	}
}
