package payrollrunerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrRunNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payroll run not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrEntryNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payroll entry not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrInvalidRunID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid payroll run id",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidPeriod = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "period start must not be after period end",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidPayDate = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "pay date must not precede period end",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidDateFormat = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid date, expected YYYY-MM-DD",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrRunAlreadyProcessed = &apperror.AppError{
		Code:       apperror.CodeTerminalState,
		Message:    "payroll run has been approved and can no longer be recalculated",
		HTTPStatus: http.StatusConflict,
	}
	ErrInvalidTransition = &apperror.AppError{
		Code:       apperror.CodeTerminalState,
		Message:    "payroll run status does not permit this transition",
		HTTPStatus: http.StatusConflict,
	}
	ErrCorrectionNotAllowed = &apperror.AppError{
		Code:       apperror.CodeTerminalState,
		Message:    "corrections are not accepted on a completed run",
		HTTPStatus: http.StatusConflict,
	}
	ErrCorrectionOnFailedEntry = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "failed entries cannot be corrected, recalculate the run instead",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrMissingCorrectionReason = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "correction reason is required",
		HTTPStatus: http.StatusBadRequest,
	}
)
