package wizard

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kalambet/careermentor/internal/profile"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ValidationError reports the first failed check of a step. Message is the
// notice shown to the user.
type ValidationError struct {
	Step    int
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Message)
}

type nameStep struct {
	Name string `validate:"required"`
}

type emailStep struct {
	Email string `validate:"required,emailshape"`
}

type skillsStep struct {
	Skills string `validate:"required"`
}

// Validator runs the per-step checks. Only steps 1, 2 and 4 have required
// fields; every other step always passes.
type Validator struct {
	v *validator.Validate
}

// NewValidator creates a Validator with the emailshape rule registered.
func NewValidator() *Validator {
	v := validator.New()
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return ValidEmail(fl.Field().String())
	})
	return &Validator{v: v}
}

// ValidEmail reports whether s looks like localpart@domain.tld with no
// whitespace on either side of the @.
func ValidEmail(s string) bool {
	return emailShape.MatchString(s)
}

// Check validates the fields required by step. It returns nil or a
// *ValidationError.
func (v *Validator) Check(step int, f profile.Fields) error {
	switch step {
	case 1:
		return v.run(step, "name", "Please enter your name", nameStep{Name: strings.TrimSpace(f.Name)})
	case 2:
		return v.run(step, "email", "Please enter a valid email address", emailStep{Email: strings.TrimSpace(f.Email)})
	case 4:
		return v.run(step, "skills", "Please enter at least one skill", skillsStep{Skills: strings.TrimSpace(f.Skills)})
	}
	return nil
}

// CheckAll validates every step in order and returns the first failure.
func (v *Validator) CheckAll(f profile.Fields) error {
	for step := FirstStep; step <= LastStep; step++ {
		if err := v.Check(step, f); err != nil {
			return err
		}
	}
	return nil
}

func (v *Validator) run(step int, field, message string, s any) error {
	err := v.v.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating step %d: %w", step, err)
	}
	return &ValidationError{Step: step, Field: field, Message: message}
}
