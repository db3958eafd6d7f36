// Package validation checks configuration and request structs against
// `validate` struct tags (go-playground/validator) and reports failures as
// INVALID_INPUT AppErrors listing every offending field.
//
//	type Config struct {
//	    BaseURL string `json:"base_url" validate:"required,url"`
//	}
//	if err := validation.Validate(cfg); err != nil { ... }
package validation
