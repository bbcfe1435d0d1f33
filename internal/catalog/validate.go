package catalog

import (
	"fmt"
	"strings"

	"github.com/conduit-lang/catalog/internal/validation"
)

// TypeSet answers whether a type tag is known. A nil TypeSet skips the
// membership check.
type TypeSet interface {
	Contains(tag string) bool
}

// Validate checks the fields that are mandatory at submission time and,
// when types is non-nil, that ParamType is a registered tag.
func (p Parameter) Validate(types TypeSet) *validation.ValidationErrors {
	errs := validation.NewValidationErrors()

	if strings.TrimSpace(p.Name) == "" {
		errs.Add("name", "is required")
	}
	if strings.TrimSpace(p.Description) == "" {
		errs.Add("description", "is required")
	}
	if strings.TrimSpace(p.ParamType) == "" {
		errs.Add("param_type", "must be selected")
	} else if types != nil && !types.Contains(p.ParamType) {
		errs.Add("param_type", fmt.Sprintf("unknown type %q", p.ParamType))
	}
	if p.PositionInSignature != nil && *p.PositionInSignature < 0 {
		errs.Add("position_in_signature", "must not be negative")
	}

	return errs
}

// ValidateFunctionName checks that a function name is present.
func ValidateFunctionName(name string) *validation.ValidationErrors {
	errs := validation.NewValidationErrors()
	if strings.TrimSpace(name) == "" {
		errs.Add("name", "is required")
	}
	return errs
}

// ValidateSubmission validates a function name and a parameter list as one
// request body. Parameter errors are keyed as parameters[i].field.
func ValidateSubmission(name string, params []Parameter, types TypeSet) error {
	errs := ValidateFunctionName(name)
	for i, p := range params {
		errs.Merge(fmt.Sprintf("parameters[%d]", i), p.Validate(types))
	}
	return errs.Err()
}

// Validate checks the writable component fields.
func (c ComponentInput) Validate() error {
	errs := validation.NewValidationErrors()
	if strings.TrimSpace(c.Name) == "" {
		errs.Add("name", "is required")
	}
	return errs.Err()
}
