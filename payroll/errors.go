package payroll

import (
	"errors"
	"fmt"

	"github.com/warp/payroll-engine/generic"
)

var (
	ErrBatchNotFound        = errors.New("batch not found")
	ErrCompensationNotFound = errors.New("compensation record not found")
	ErrInvalidCompensation  = errors.New("invalid compensation record")
	ErrInvalidEmployee      = errors.New("invalid employee id")
	ErrSimulationPanic      = errors.New("simulation panicked")
	ErrStoreRequired        = errors.New("result store not configured")
)

// EmployeeError is a failure confined to one employee of a batch.
type EmployeeError struct {
	EmployeeID generic.EmployeeID
	Err        error
}

func (e *EmployeeError) Error() string {
	return fmt.Sprintf("employee %q: %v", e.EmployeeID, e.Err)
}

func (e *EmployeeError) Unwrap() error {
	return e.Err
}
