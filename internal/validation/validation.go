// Package validation gates profile fields before the engine stores them.
// Email, phone and location checks delegate to injected verifiers so tests
// and hosts choose their own providers.
package validation

import (
	"context"
	"net/mail"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/talentscout/internal/common"
	"github.com/dmitrijs2005/talentscout/internal/logging"
	"github.com/dmitrijs2005/talentscout/internal/models"
)

const (
	MinExperienceYears = 0
	MaxExperienceYears = 50
)

// EmailVerifier reports whether a syntactically valid address can receive
// mail.
type EmailVerifier interface {
	VerifyEmail(ctx context.Context, address string) (bool, error)
}

// PhoneVerifier reports whether a number is a valid international number.
type PhoneVerifier interface {
	VerifyPhone(ctx context.Context, number string) (bool, error)
}

// LocationVerifier reports whether a geocoding lookup finds the place.
type LocationVerifier interface {
	VerifyLocation(ctx context.Context, query string) (bool, error)
}

type Pipeline struct {
	email    EmailVerifier
	phone    PhoneVerifier
	location LocationVerifier
	logger   logging.Logger
}

func NewPipeline(e EmailVerifier, p PhoneVerifier, l LocationVerifier, logger logging.Logger) *Pipeline {
	return &Pipeline{email: e, phone: p, location: l, logger: logger.With("module", "validation")}
}

// Validate checks raw against the rule for field and returns the value to
// store. Failures, including verifier faults, are *common.ValidationError.
func (p *Pipeline) Validate(ctx context.Context, field models.Field, raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return "", invalid(field, "empty", nil)
	}

	switch field {
	case models.FieldEmail:
		return v, p.validateEmail(ctx, v)
	case models.FieldPhoneNumber:
		return v, p.verify(ctx, field, v, p.phone.VerifyPhone)
	case models.FieldCurrentLocation:
		return v, p.verify(ctx, field, v, p.location.VerifyLocation)
	case models.FieldExperienceYears:
		return validateYears(v)
	case models.FieldName, models.FieldDesiredPositions, models.FieldTechStack:
		return v, nil
	}
	return "", invalid(field, "unknown field", nil)
}

func (p *Pipeline) validateEmail(ctx context.Context, v string) error {
	addr, err := mail.ParseAddress(v)
	if err != nil || addr.Name != "" || addr.Address != v {
		return invalid(models.FieldEmail, "malformed address", err)
	}
	return p.verify(ctx, models.FieldEmail, v, p.email.VerifyEmail)
}

func (p *Pipeline) verify(ctx context.Context, field models.Field, v string, check func(context.Context, string) (bool, error)) error {
	ok, err := check(ctx, v)
	if err != nil {
		err = scrub(err, v)
		p.logger.Warn(ctx, "verifier failed", "field", string(field), "error", err)
		return invalid(field, "verification unavailable", err)
	}
	if !ok {
		return invalid(field, "rejected by verifier", nil)
	}
	return nil
}

func validateYears(v string) (string, error) {
	n, err := strconv.Atoi(v)
	if err != nil {
		return "", invalid(models.FieldExperienceYears, "not a whole number", err)
	}
	if n < MinExperienceYears || n > MaxExperienceYears {
		return "", invalid(models.FieldExperienceYears, "out of range", nil)
	}
	return strconv.Itoa(n), nil
}

// scrubbedError is err with the candidate's value masked in its message.
// Unwrap still exposes the original for errors.Is and errors.As.
type scrubbedError struct {
	msg string
	err error
}

func (e *scrubbedError) Error() string { return e.msg }
func (e *scrubbedError) Unwrap() error { return e.err }

// scrub masks every occurrence of values in the message of err.
func scrub(err error, values ...string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	for _, v := range values {
		if v != "" {
			msg = strings.ReplaceAll(msg, v, logging.Redacted)
		}
	}
	if msg == err.Error() {
		return err
	}
	return &scrubbedError{msg: msg, err: err}
}

func invalid(field models.Field, reason string, err error) error {
	return &common.ValidationError{Field: string(field), Reason: reason, Err: err}
}
