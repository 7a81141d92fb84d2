package resolve

import (
	"errors"
	"fmt"
)

// UnresolvedFieldError reports a column rule whose source column is not
// present in the prospect record.
type UnresolvedFieldError struct {
	Column string
}

func (e *UnresolvedFieldError) Error() string {
	return fmt.Sprintf("resolve: column %q missing from prospect record", e.Column)
}

// IsUnresolvedFieldError reports whether err is an UnresolvedFieldError.
func IsUnresolvedFieldError(err error) bool {
	var e *UnresolvedFieldError
	return errors.As(err, &e)
}

// UnsupportedRuleTypeError reports a rule whose input type is outside the
// known set. Creation rejects such rules, so this guards legacy rows only.
type UnsupportedRuleTypeError struct {
	InputType string
}

func (e *UnsupportedRuleTypeError) Error() string {
	return fmt.Sprintf("resolve: unsupported input type %q", e.InputType)
}

// IsUnsupportedRuleTypeError reports whether err is an
// UnsupportedRuleTypeError.
func IsUnsupportedRuleTypeError(err error) bool {
	var e *UnsupportedRuleTypeError
	return errors.As(err, &e)
}
