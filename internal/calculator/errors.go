package calculator

import "fmt"

// ValidationError reports a malformed or out-of-range argument: a negative or
// non-finite amount, an empty participant set, a percentage outside 0-100.
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("validation failed: %s: %v", e.Reason, e.Err)
	}
	return "validation failed: " + e.Reason
}

func (e *ValidationError) Unwrap() error { return e.Err }

// SplitMismatchError reports shares that cannot be reconciled with the
// expense total. Amounts are minor units, except for percentage splits where
// Expected and Actual are hundredths of a percent.
type SplitMismatchError struct {
	Expected int64
	Actual   int64
	Reason   string
}

func (e *SplitMismatchError) Error() string {
	return fmt.Sprintf("split mismatch: %s (expected %d, got %d)", e.Reason, e.Expected, e.Actual)
}

// InvalidInputError reports structurally inconsistent input, such as a split
// that names a participant missing from the supplied list.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}

func validationf(err error, format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...), Err: err}
}

func invalidf(format string, args ...any) error {
	return &InvalidInputError{Reason: fmt.Sprintf(format, args...)}
}
