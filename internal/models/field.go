// Package models holds the candidate domain types shared by the engine,
// the record store and the transports.
package models

// Field names one profile attribute. The string value is the column and
// JSON key used everywhere the field is stored.
type Field string

const (
	FieldName             Field = "name"
	FieldEmail            Field = "email"
	FieldPhoneNumber      Field = "phone_number"
	FieldCurrentLocation  Field = "current_location"
	FieldExperienceYears  Field = "experience_years"
	FieldDesiredPositions Field = "desired_positions"
	FieldTechStack        Field = "tech_stack"
)

// Fields is the fixed collection order.
var Fields = []Field{
	FieldName,
	FieldEmail,
	FieldPhoneNumber,
	FieldCurrentLocation,
	FieldExperienceYears,
	FieldDesiredPositions,
	FieldTechStack,
}

// SensitiveFields are encrypted in the primary store.
var SensitiveFields = []Field{FieldEmail, FieldPhoneNumber, FieldCurrentLocation}

var fieldLabels = map[Field]string{
	FieldName:             "full name",
	FieldEmail:            "email address",
	FieldPhoneNumber:      "phone number",
	FieldCurrentLocation:  "current location",
	FieldExperienceYears:  "years of experience",
	FieldDesiredPositions: "desired position(s)",
	FieldTechStack:        "tech stack",
}

// Label is the human wording used in prompts.
func (f Field) Label() string {
	if l, ok := fieldLabels[f]; ok {
		return l
	}
	return string(f)
}

// Sensitive reports whether f is encrypted at rest.
func (f Field) Sensitive() bool {
	for _, s := range SensitiveFields {
		if s == f {
			return true
		}
	}
	return false
}

// Next returns the field collected after f.
func (f Field) Next() (Field, bool) {
	for i, x := range Fields {
		if x == f && i+1 < len(Fields) {
			return Fields[i+1], true
		}
	}
	return "", false
}
