// Package validation provides enhanced validation with go-playground/validator integration
package validation

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Enhanced validator instance with custom validations
var (
	// Validate is the main validator instance
	Validate *validator.Validate
)

var (
	templateIDPattern = regexp.MustCompile(`^tmpl_[a-z0-9_]+$`)
	nodeIDPattern     = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	nodeListPattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]+(\s*,\s*[a-zA-Z0-9_-]+)*$`)
)

func init() {
	Validate = validator.New()

	// Register custom validation functions
	Validate.RegisterValidation("template_id", validateTemplateID)
	Validate.RegisterValidation("node_id", validateNodeID)
	Validate.RegisterValidation("node_list", validateNodeList)
	Validate.RegisterValidation("flow_name", validateFlowName)

	// Register tag name function to use JSON tags for field names
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
}

// ValidateWithPlayground validates using go-playground/validator
func ValidateWithPlayground(s interface{}) error {
	err := Validate.Struct(s)
	if err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors converts validator errors to our custom format
func formatValidationErrors(err error) ValidationErrors {
	var errors ValidationErrors

	if validationErrors, ok := err.(validator.ValidationErrors); ok {
		for _, fieldError := range validationErrors {
			errors = append(errors, ValidationError{
				Field:   fieldError.Field(),
				Value:   fieldError.Value(),
				Message: getErrorMessage(fieldError),
			})
		}
	}

	return errors
}

// getErrorMessage returns a human-readable error message
func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("minimum value/length is %s", fe.Param())
	case "max":
		return fmt.Sprintf("maximum value/length is %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "template_id":
		return "must be a valid template identifier (tmpl_ prefix, lowercase alphanumeric and underscore)"
	case "node_id":
		return "must be a valid node identifier (alphanumeric, underscore, hyphen)"
	case "node_list":
		return "must be a comma-separated list of node names"
	case "flow_name":
		return "must be a valid flow name"
	default:
		return fmt.Sprintf("validation failed: %s", fe.Tag())
	}
}

// Custom validation functions for FluentMind-specific rules

// validateTemplateID validates template identifier format
func validateTemplateID(fl validator.FieldLevel) bool {
	return templateIDPattern.MatchString(fl.Field().String())
}

// validateNodeID validates node identifier format
func validateNodeID(fl validator.FieldLevel) bool {
	nodeID := fl.Field().String()
	return nodeIDPattern.MatchString(nodeID) && len(nodeID) <= 100
}

// validateNodeList validates a comma-separated node name list
func validateNodeList(fl validator.FieldLevel) bool {
	return nodeListPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// validateFlowName validates flow display names
func validateFlowName(fl validator.FieldLevel) bool {
	name := strings.TrimSpace(fl.Field().String())
	return len(name) >= 1 && len(name) <= 200
}

// ValidationConfig holds validation configuration
type ValidationConfig struct {
	StrictMode  bool `json:"strict_mode"`
	SkipMissing bool `json:"skip_missing"`
	MaxErrors   int  `json:"max_errors"`
}

// DefaultValidationConfig returns default validation configuration
func DefaultValidationConfig() *ValidationConfig {
	return &ValidationConfig{
		StrictMode:  true,
		SkipMissing: false,
		MaxErrors:   10,
	}
}

// ValidateWithConfig validates with specific configuration
func ValidateWithConfig(s interface{}, config *ValidationConfig) error {
	if config == nil {
		config = DefaultValidationConfig()
	}

	err := ValidateWithPlayground(s)
	if err != nil {
		if validationErrors, ok := err.(ValidationErrors); ok {
			if config.MaxErrors > 0 && len(validationErrors) > config.MaxErrors {
				return ValidationErrors(validationErrors[:config.MaxErrors])
			}
		}
		return err
	}

	return nil
}

// MarshalValidationErrors marshals validation errors to JSON
func MarshalValidationErrors(errors ValidationErrors) ([]byte, error) {
	type ErrorResponse struct {
		Errors []ValidationError `json:"errors"`
		Count  int               `json:"count"`
	}

	response := ErrorResponse{
		Errors: errors,
		Count:  len(errors),
	}

	return json.Marshal(response)
}
