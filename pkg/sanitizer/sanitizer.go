package sanitizer

import (
	"strings"
)

type Strategy func(string) string

type Pipeline []Strategy

func (p Pipeline) Apply(s string) string {
	for _, fn := range p {
		s = fn(s)
	}
	return s
}

var pathCharRemover = strings.NewReplacer(".", "", "/", "")

func trimAndLower(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return s
}

func removePathChars(s string) string {
	return pathCharRemover.Replace(s)
}

// SanitizeName turns a caller supplied name into a storage key by removing
// every '.' and '/'. The result may be empty.
func SanitizeName(name string) string {
	return Pipeline{removePathChars}.Apply(name)
}
