package rule

import (
	"errors"
	"fmt"
)

// ValidationError reports a rule that failed creation-time checks.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("rule: %s %s", e.Field, e.Reason)
}

// NotFoundError reports a rule id, or a (device, stage) pair, with no
// stored rule. Deletion surfaces it on every miss, so deleting twice
// reports it the second time as well.
type NotFoundError struct {
	ID       uint
	DeviceID string
	Stage    string
}

func (e *NotFoundError) Error() string {
	if e.ID != 0 {
		return fmt.Sprintf("rule: not found: %d", e.ID)
	}
	return fmt.Sprintf("rule: not found for device %q stage %q", e.DeviceID, e.Stage)
}

// DuplicateRuleError reports an attempt to create a second rule for a
// (device, stage) pair that already has one.
type DuplicateRuleError struct {
	DeviceID string
	Stage    string
}

func (e *DuplicateRuleError) Error() string {
	return fmt.Sprintf("rule: duplicate rule for device %q stage %q", e.DeviceID, e.Stage)
}

// StoreUnavailableError reports a transport or storage failure. An empty
// result is success; only a failed fetch produces this error.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("rule: %s: store unavailable: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error { return e.Err }

// IsValidationError reports whether err is a ValidationError.
func IsValidationError(err error) bool {
	var e *ValidationError
	return errors.As(err, &e)
}

// IsNotFoundError reports whether err is a NotFoundError.
func IsNotFoundError(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

// IsDuplicateRuleError reports whether err is a DuplicateRuleError.
func IsDuplicateRuleError(err error) bool {
	var e *DuplicateRuleError
	return errors.As(err, &e)
}

// IsStoreUnavailableError reports whether err is a StoreUnavailableError.
func IsStoreUnavailableError(err error) bool {
	var e *StoreUnavailableError
	return errors.As(err, &e)
}
