package response

import (
	"errors"
	"net/http"

	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/annual"
	"github.com/dannyaudian/payroll-indonesia-go/internal/domain/tax"
	"github.com/dannyaudian/payroll-indonesia-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Tax domain errors
	case errors.Is(err, tax.ErrSettingsNotFound):
		NotFound(w, "Tax settings not found")
	case errors.Is(err, tax.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, tax.ErrUnknownTaxStatus):
		BadRequest(w, "Unknown tax status", nil)
	case errors.Is(err, tax.ErrInvalidBracketConfig):
		InternalServerError(w, "Tax bracket configuration is invalid")

	// Annual history domain errors
	case errors.Is(err, annual.ErrHistoryNotFound):
		NotFound(w, "Annual payroll history not found")
	case errors.Is(err, annual.ErrEmployeeRequired):
		BadRequest(w, "Employee is required", nil)
	case errors.Is(err, annual.ErrFiscalYearRequired):
		BadRequest(w, "Fiscal year is required", nil)
	case errors.Is(err, annual.ErrNothingToSync):
		BadRequest(w, "Nothing to sync", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
