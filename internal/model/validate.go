package model

import (
	"fmt"
	"unicode/utf8"
)

// Validation rules.
const (
	RuleRequired = "required"
	RuleEmpty    = "empty"
	RuleMin      = "min"
)

// ValidationError names the first field that failed validation.
type ValidationError struct {
	Field string
	Rule  string
	Min   int
}

func (e *ValidationError) Error() string {
	switch e.Rule {
	case RuleRequired:
		return fmt.Sprintf("%q is required", e.Field)
	case RuleEmpty:
		return fmt.Sprintf("%q is not allowed to be empty", e.Field)
	default:
		return fmt.Sprintf("%q length must be at least %d characters long", e.Field, e.Min)
	}
}

// CraftInput is a candidate craft as received from a client. A nil field was
// not supplied at all.
type CraftInput struct {
	Name        *string
	Image       *string
	Description *string
	Supplies    []string
}

// Validate checks name, image and description in that order and returns the
// first violation. Supplies are not checked.
func (in CraftInput) Validate() error {
	fields := []struct {
		name  string
		value *string
		min   int
	}{
		{"name", in.Name, 3},
		{"image", in.Image, 5},
		{"description", in.Description, 1},
	}

	for _, f := range fields {
		switch {
		case f.value == nil:
			return &ValidationError{Field: f.name, Rule: RuleRequired}
		case *f.value == "":
			return &ValidationError{Field: f.name, Rule: RuleEmpty}
		case utf8.RuneCountInString(*f.value) < f.min:
			return &ValidationError{Field: f.name, Rule: RuleMin, Min: f.min}
		}
	}
	return nil
}

// Craft builds the record to persist. Call Validate first.
func (in CraftInput) Craft() Craft {
	c := Craft{Supplies: in.Supplies}
	if in.Name != nil {
		c.Name = *in.Name
	}
	if in.Image != nil {
		c.Image = *in.Image
	}
	if in.Description != nil {
		c.Description = *in.Description
	}
	if c.Supplies == nil {
		c.Supplies = []string{}
	}
	return c
}
