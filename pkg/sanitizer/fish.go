package sanitizer

import (
	"fishtank/pkg/model"
)

const (
	WaterFresh    = "fresh"
	WaterSalt     = "salt"
	WaterBrackish = "brackish"

	SizeSmall      = "small"
	SizeMedium     = "medium"
	SizeLarge      = "large"
	SizeExtraLarge = "extra-large"

	DefaultWaterType = WaterFresh
	DefaultSize      = SizeSmall
)

var (
	waterTypes = []string{WaterFresh, WaterSalt, WaterBrackish}
	sizes      = []string{SizeSmall, SizeMedium, SizeLarge, SizeExtraLarge}

	waterTypeSynonyms = map[string]string{
		"saltwater":   WaterSalt,
		"salt water":  WaterSalt,
		"freshwater":  WaterFresh,
		"fresh water": WaterFresh,
	}
	sizeSynonyms = map[string]string{
		"extra large": SizeExtraLarge,
		"extra_large": SizeExtraLarge,
	}
)

func synonyms(table map[string]string) Strategy {
	return func(s string) string {
		if canonical, ok := table[s]; ok {
			return canonical
		}
		return s
	}
}

func matchVocabulary(value any, vocabulary []string, table map[string]string, fallback string) string {
	if value == nil {
		return fallback
	}
	s := Pipeline{trimAndLower, synonyms(table)}.Apply(model.AsString(value))
	for _, v := range vocabulary {
		if s == v {
			return v
		}
	}
	return fallback
}

// NormalizeWaterType maps value onto fresh, salt or brackish.
func NormalizeWaterType(value any) string {
	return matchVocabulary(value, waterTypes, waterTypeSynonyms, DefaultWaterType)
}

// NormalizeSize maps value onto small, medium, large or extra-large.
func NormalizeSize(value any) string {
	return matchVocabulary(value, sizes, sizeSynonyms, DefaultSize)
}

// NormalizeAggression parses value as an integer. Parse failures and values
// outside [1,5] yield the default of 3; nothing is clamped here.
func NormalizeAggression(value any) int {
	n, ok := model.AsInt(value)
	if !ok || n < MinAggression || n > MaxAggression {
		return DefaultAggression
	}
	return n
}

// Normalize returns the canonical name, waterType, size and aggression of
// fields. The input map is not modified.
func Normalize(fields model.Fields) model.Fields {
	return model.Fields{
		model.FieldName:       fields.String(model.FieldName),
		model.FieldWaterType:  NormalizeWaterType(fields[model.FieldWaterType]),
		model.FieldSize:       NormalizeSize(fields[model.FieldSize]),
		model.FieldAggression: NormalizeAggression(fields[model.FieldAggression]),
	}
}

// Overlay copies raw and replaces its canonical fields with their normalized
// values. Extra keys of raw survive.
func Overlay(raw model.Fields) model.Fields {
	merged := raw.Clone()
	for k, v := range Normalize(raw) {
		merged[k] = v
	}
	return merged
}
