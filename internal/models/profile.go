package models

import (
	"errors"
	"fmt"
)

// ErrFieldAlreadySet is returned when a populated field is written again.
var ErrFieldAlreadySet = errors.New("field already set")

// Profile is the respondent's collected data. Values are written once, in
// collection order, and only after validation.
type Profile struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	PhoneNumber      string `json:"phone_number"`
	CurrentLocation  string `json:"current_location"`
	ExperienceYears  string `json:"experience_years"`
	DesiredPositions string `json:"desired_positions"`
	TechStack        string `json:"tech_stack"`
}

func (p *Profile) slot(f Field) *string {
	switch f {
	case FieldName:
		return &p.Name
	case FieldEmail:
		return &p.Email
	case FieldPhoneNumber:
		return &p.PhoneNumber
	case FieldCurrentLocation:
		return &p.CurrentLocation
	case FieldExperienceYears:
		return &p.ExperienceYears
	case FieldDesiredPositions:
		return &p.DesiredPositions
	case FieldTechStack:
		return &p.TechStack
	}
	return nil
}

// Get returns the stored value of f, or "" when unset or unknown.
func (p Profile) Get(f Field) string {
	if s := p.slot(f); s != nil {
		return *s
	}
	return ""
}

// Set writes f once. Empty values and unknown fields are rejected.
func (p *Profile) Set(f Field, value string) error {
	s := p.slot(f)
	if s == nil {
		return fmt.Errorf("unknown field %q", f)
	}
	if value == "" {
		return fmt.Errorf("empty value for %s", f)
	}
	if *s != "" {
		return fmt.Errorf("%s: %w", f, ErrFieldAlreadySet)
	}
	*s = value
	return nil
}

// Filled counts populated fields.
func (p Profile) Filled() int {
	n := 0
	for _, f := range Fields {
		if p.Get(f) != "" {
			n++
		}
	}
	return n
}

// Values returns the populated fields keyed by name.
func (p Profile) Values() map[Field]string {
	out := make(map[Field]string, len(Fields))
	for _, f := range Fields {
		if v := p.Get(f); v != "" {
			out[f] = v
		}
	}
	return out
}
