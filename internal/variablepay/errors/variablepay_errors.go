package variablepayerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrInvalidEmployeeID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid employee id",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidDateFormat = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid date, expected YYYY-MM-DD",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidHours = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "overtime hours must be greater than zero",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidMultiplier = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "overtime multiplier must be one of 1.5, 2.0, 2.5",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidAmount = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "amount must be greater than zero",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrMissingCategory = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "category is required",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrAmountOrPercentage = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "exactly one of amount or percentage must be provided",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidPercentage = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "percentage must be between 0 and 100",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrOvertimeNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "overtime record not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrDeductionNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "deduction not found",
		HTTPStatus: http.StatusNotFound,
	}
)
