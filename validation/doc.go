// Package validation provides input validation for onionkit configuration
// and pipeline definitions.
//
// It supports both struct tag validation (using the validator library) and
// programmatic validation with error collection. Struct tag validation is
// used for pipeline definition files and library configuration.
//
// # Struct Tag Validation
//
//	type Definition struct {
//	    Name   string   `validate:"required"`
//	    Stages []string `validate:"required,min=1"`
//	}
//	err := validation.Validate(def)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.Required("label", label).Pattern("label", label, `^[a-z][a-z0-9_-]*$`)
//	err := v.Validate()
package validation
