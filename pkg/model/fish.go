package model

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Descriptor keys.
const (
	FieldName       = "name"
	FieldWaterType  = "waterType"
	FieldSize       = "size"
	FieldAggression = "aggression"
	FieldCreatedBy  = "createdBy"
	FieldAPIKey     = "apiKey"
	FieldCreatedAt  = "createdAt"
	FieldBrowserID  = "browserID"
	FieldThumbmark  = "thumbmark"
	FieldUserName   = "userName"
	FieldDeleted    = "deleted"
)

var coreFields = map[string]struct{}{
	FieldName:       {},
	FieldWaterType:  {},
	FieldSize:       {},
	FieldAggression: {},
	FieldCreatedBy:  {},
	FieldAPIKey:     {},
	FieldCreatedAt:  {},
	FieldBrowserID:  {},
	FieldThumbmark:  {},
	FieldUserName:   {},
	FieldDeleted:    {},
}

// IsCoreField reports whether key names one of the typed Fish fields.
func IsCoreField(key string) bool {
	_, ok := coreFields[key]
	return ok
}

// Fields is a loosely typed field mapping as decoded from a request body or
// a stored descriptor.
type Fields map[string]any

// Clone returns a shallow copy of f.
func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// Has reports whether key is present, regardless of its value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value under key rendered as a string. Missing and null
// values yield "".
func (f Fields) String(key string) string {
	return AsString(f[key])
}

// Fish is a persisted record. Core fields are typed; anything else found in a
// descriptor is kept in Extra and written back untouched.
type Fish struct {
	Name       string
	WaterType  string
	Size       string
	Aggression int
	CreatedBy  string
	APIKey     string
	CreatedAt  int64
	BrowserID  string
	Thumbmark  string
	UserName   string
	Deleted    bool

	Extra map[string]any
}

// Fields flattens f into a descriptor mapping. Core fields win over Extra on
// key collision.
func (f *Fish) Fields() Fields {
	out := make(Fields, len(f.Extra)+len(coreFields))
	for k, v := range f.Extra {
		out[k] = v
	}
	out[FieldName] = f.Name
	out[FieldWaterType] = f.WaterType
	out[FieldSize] = f.Size
	out[FieldAggression] = f.Aggression
	out[FieldCreatedBy] = f.CreatedBy
	out[FieldAPIKey] = f.APIKey
	out[FieldCreatedAt] = f.CreatedAt
	out[FieldBrowserID] = f.BrowserID
	out[FieldThumbmark] = f.Thumbmark
	out[FieldUserName] = f.UserName
	out[FieldDeleted] = f.Deleted
	return out
}

// FishFromFields builds a Fish from a descriptor mapping. Core values are
// coerced leniently; unrecognized keys land in Extra.
func FishFromFields(fields Fields) *Fish {
	f := &Fish{
		Name:      fields.String(FieldName),
		WaterType: fields.String(FieldWaterType),
		Size:      fields.String(FieldSize),
		CreatedBy: fields.String(FieldCreatedBy),
		APIKey:    fields.String(FieldAPIKey),
		BrowserID: fields.String(FieldBrowserID),
		Thumbmark: fields.String(FieldThumbmark),
		UserName:  fields.String(FieldUserName),
		Deleted:   AsBool(fields[FieldDeleted]),
	}
	if n, ok := AsInt(fields[FieldAggression]); ok {
		f.Aggression = n
	}
	if n, ok := AsInt(fields[FieldCreatedAt]); ok {
		f.CreatedAt = int64(n)
	}
	for k, v := range fields {
		if IsCoreField(k) {
			continue
		}
		if f.Extra == nil {
			f.Extra = make(map[string]any)
		}
		f.Extra[k] = v
	}
	return f
}

func (f *Fish) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any(f.Fields()))
}

func (f *Fish) UnmarshalJSON(data []byte) error {
	var fields Fields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*f = *FishFromFields(fields)
	return nil
}

// AsString renders scalar JSON values as strings.
func AsString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case bool:
		return strconv.FormatBool(t)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}

// AsInt parses v as an integer. JSON numbers are truncated toward zero,
// strings must hold a base-10 integer once surrounding space is trimmed.
func AsInt(v any) (int, bool) {
	switch t := v.(type) {
	case int:
		return t, true
	case int32:
		return int(t), true
	case int64:
		return int(t), true
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), true
		}
		if fl, err := t.Float64(); err == nil {
			return int(fl), true
		}
		return 0, false
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// AsBool follows JSON truthiness for the soft-delete flag.
func AsBool(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(t))
		return err == nil && b
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return false
	}
}
