// Package validation checks configuration structs against `validate` tags
// using go-playground/validator.
//
//	type Config struct {
//	    Port int `mapstructure:"port" validate:"gte=1,lte=65535"`
//	}
//	err := validation.Validate(cfg)
//
// Errors are *errors.AppError values with code INVALID_INPUT. Field names in
// messages follow mapstructure tags, so they match the config file keys.
package validation
