package domain

import (
	"encoding/json"
	"strings"
)

// FieldKind distinguishes Slack's built-in profile attributes from workspace custom fields.
type FieldKind int

const (
	FieldCustom FieldKind = iota
	FieldBuiltin
)

func (k FieldKind) String() string {
	if k == FieldBuiltin {
		return "builtin"
	}
	return "custom"
}

// Built-in profile attributes Slack accepts at the top level of a profile write.
const (
	FieldTitle       = "title"
	FieldPhone       = "phone"
	FieldRealName    = "real_name"
	FieldDisplayName = "display_name"
)

var builtinFields = map[string]struct{}{
	FieldTitle:       {},
	FieldPhone:       {},
	FieldRealName:    {},
	FieldDisplayName: {},
}

// ProfileField is a resolved profile field identifier.
type ProfileField struct {
	Kind FieldKind
	ID   string
}

// ParseProfileField resolves id into a built-in attribute or an opaque custom field.
// Built-in names match exactly; any other id is used as given.
func ParseProfileField(id string) (ProfileField, error) {
	if strings.TrimSpace(id) == "" {
		return ProfileField{}, &ValidationError{Field: "field", Message: "Field ID required"}
	}
	if _, ok := builtinFields[id]; ok {
		return ProfileField{Kind: FieldBuiltin, ID: id}, nil
	}
	return ProfileField{Kind: FieldCustom, ID: id}, nil
}

// ProfileFieldUpdate is a single-field write against the caller's own profile.
type ProfileFieldUpdate struct {
	Field ProfileField
	Value string
	Alt   string
}

// CustomFieldValue is one entry of a profile's custom field map.
type CustomFieldValue struct {
	Value string `json:"value"`
	Alt   string `json:"alt"`
}

// Payload returns the "profile" object Slack expects for this update.
// Built-in attributes are written at the top level; custom fields go under "fields".
func (u ProfileFieldUpdate) Payload() map[string]any {
	switch u.Field.Kind {
	case FieldBuiltin:
		return map[string]any{u.Field.ID: u.Value}
	default:
		return map[string]any{
			"fields": map[string]CustomFieldValue{
				u.Field.ID: {Value: u.Value, Alt: u.Alt},
			},
		}
	}
}

// Profile is a user's full Slack profile. Raw holds the record exactly as Slack
// returned it; Fields is the decoded custom field map.
type Profile struct {
	Raw    json.RawMessage
	Fields map[string]CustomFieldValue
}

// FieldValue returns the value of custom field id, or "" when unset.
func (p Profile) FieldValue(id string) string {
	return p.Fields[id].Value
}

// MarshalJSON writes the profile verbatim.
func (p Profile) MarshalJSON() ([]byte, error) {
	if len(p.Raw) == 0 {
		return []byte("{}"), nil
	}
	return p.Raw, nil
}
