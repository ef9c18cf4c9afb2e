package annual

import "errors"

var (
	ErrHistoryNotFound    = errors.New("annual payroll history not found")
	ErrEmployeeRequired   = errors.New("employee is required")
	ErrFiscalYearRequired = errors.New("fiscal year is required")
	ErrNothingToSync      = errors.New("no monthly results, summary, or error state to sync")
)
