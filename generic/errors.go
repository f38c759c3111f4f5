/*
errors.go - Shared sentinel errors

PURPOSE:
  Errors raised by the generic primitives. Domain packages wrap these with
  their own context and callers match with errors.Is().

SEE ALSO:
  - payroll/errors.go: per-employee batch failures
*/
package generic

import "errors"

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDate is returned when a date is missing or cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrInvalidMonth is returned for a salary month outside 0001-01..9999-12.
	ErrInvalidMonth = errors.New("invalid salary month")
)

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidDate) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidMonth)
}
