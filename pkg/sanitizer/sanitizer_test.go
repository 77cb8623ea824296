package sanitizer

import (
	"strings"
	"testing"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain name untouched",
			input: "goldfish",
			want:  "goldfish",
		},
		{
			name:  "slash removed",
			input: "a/b",
			want:  "ab",
		},
		{
			name:  "dots and slashes removed",
			input: "goldfish.1/2",
			want:  "goldfish12",
		},
		{
			name:  "parent directory traversal",
			input: "../../etc/passwd",
			want:  "etcpasswd",
		},
		{
			name:  "only dangerous characters",
			input: "./../",
			want:  "",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "spaces and unicode preserved",
			input: " Nemo Clownfish 🐠 ",
			want:  " Nemo Clownfish 🐠 ",
		},
		{
			name:  "backslash is not a separator here",
			input: `a\b`,
			want:  `a\b`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if strings.ContainsAny(got, "./") {
				t.Errorf("SanitizeName(%q) = %q still contains '.' or '/'", tt.input, got)
			}
		})
	}
}

func TestSanitizeName_Idempotent(t *testing.T) {
	inputs := []string{"a.b/c", "....", "//x//", "fish", "a..b../c"}
	for _, in := range inputs {
		once := SanitizeName(in)
		twice := SanitizeName(once)
		if once != twice {
			t.Errorf("SanitizeName not idempotent for %q: %q then %q", in, once, twice)
		}
	}
}

func FuzzSanitizeName(f *testing.F) {
	for _, seed := range []string{"", "a/b", "..", "goldfish.1/2", "🐟./🐟"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, s string) {
		if got := SanitizeName(s); strings.ContainsAny(got, "./") {
			t.Fatalf("SanitizeName(%q) = %q contains '.' or '/'", s, got)
		}
	})
}

func TestClampAggression(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{in: -10, want: 1},
		{in: 0, want: 1},
		{in: 1, want: 1},
		{in: 3, want: 3},
		{in: 5, want: 5},
		{in: 9, want: 5},
	}
	for _, tt := range tests {
		if got := ClampAggression(tt.in); got != tt.want {
			t.Errorf("ClampAggression(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
