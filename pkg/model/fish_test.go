package model

import (
	"encoding/json"
	"testing"
)

func TestFishFromFields_SplitsExtras(t *testing.T) {
	fields := Fields{
		"name":       "nemo",
		"waterType":  "salt",
		"size":       "small",
		"aggression": float64(2),
		"createdBy":  "alice",
		"apiKey":     "k1",
		"createdAt":  float64(1700000000),
		"deleted":    false,
		"color":      "orange",
		"fins":       float64(7),
	}

	fish := FishFromFields(fields)

	if fish.Name != "nemo" || fish.WaterType != "salt" || fish.Aggression != 2 {
		t.Errorf("unexpected core fields: %+v", fish)
	}
	if fish.CreatedAt != 1700000000 {
		t.Errorf("CreatedAt = %d, want 1700000000", fish.CreatedAt)
	}
	if len(fish.Extra) != 2 || fish.Extra["color"] != "orange" || fish.Extra["fins"] != float64(7) {
		t.Errorf("Extra = %v, want color and fins only", fish.Extra)
	}
}

func TestFish_FieldsCoreWinsOnCollision(t *testing.T) {
	fish := &Fish{
		Name:       "nemo",
		WaterType:  "fresh",
		Size:       "small",
		Aggression: 3,
		Extra: map[string]any{
			"waterType": "lava",
			"color":     "orange",
		},
	}

	got := fish.Fields()

	if got["waterType"] != "fresh" {
		t.Errorf("waterType = %v, want core value fresh", got["waterType"])
	}
	if got["color"] != "orange" {
		t.Errorf("color = %v, want orange", got["color"])
	}
}

func TestFish_JSONPreservesExtras(t *testing.T) {
	in := []byte(`{"name":"nemo","waterType":"salt","size":"large","aggression":4,"deleted":true,"habitat":{"reef":"great barrier"}}`)

	var fish Fish
	if err := json.Unmarshal(in, &fish); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !fish.Deleted || fish.Size != "large" {
		t.Errorf("unexpected fish: %+v", fish)
	}

	out, err := json.Marshal(&fish)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var back map[string]any
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("Unmarshal back: %v", err)
	}
	habitat, ok := back["habitat"].(map[string]any)
	if !ok || habitat["reef"] != "great barrier" {
		t.Errorf("habitat extra lost: %v", back)
	}
	if back["apiKey"] != "" {
		t.Errorf("apiKey = %v, want empty string", back["apiKey"])
	}
}

func TestAsString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"abc", "abc"},
		{float64(12), "12"},
		{1.5, "1.5"},
		{true, "true"},
		{[]any{"a"}, `["a"]`},
	}
	for _, tt := range tests {
		if got := AsString(tt.in); got != tt.want {
			t.Errorf("AsString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAsBool(t *testing.T) {
	tests := []struct {
		in   any
		want bool
	}{
		{nil, false},
		{true, true},
		{false, false},
		{"true", true},
		{"nope", false},
		{float64(1), true},
		{float64(0), false},
	}
	for _, tt := range tests {
		if got := AsBool(tt.in); got != tt.want {
			t.Errorf("AsBool(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
