package distributionerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrDistributionNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "distribution not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrInvalidRunID = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "invalid payroll run id",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidMethod = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "distribution method must be email, portal or both",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrNoPayslips = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "run has no current payslips to distribute",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
	ErrDispatchFailed = &apperror.AppError{
		Code:       apperror.CodeDispatchFailed,
		Message:    "payslip dispatch failed",
		HTTPStatus: http.StatusBadGateway,
	}
)
