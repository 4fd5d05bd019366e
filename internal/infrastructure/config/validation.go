package config

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Validator is a wrapper around go-playground/validator
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their config key
// and knows the "positive" duration rule
func NewValidator() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	// A zero or negative pacing interval would spin or stall the host
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		if d, ok := fl.Field().Interface().(time.Duration); ok {
			return d > 0
		}
		return false
	})

	return &Validator{
		validate: v,
	}
}

// Validate validates a struct using validation tags
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

// formatValidationError lists each failing key as section.key
func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		key := e.Namespace()
		if i := strings.Index(key, "."); i >= 0 {
			key = key[i+1:]
		}
		messages = append(messages, fmt.Sprintf("%s: failed %q (value: '%v')", key, e.Tag(), e.Value()))
	}
	return fmt.Errorf("invalid configuration:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
