package paysliperrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrPayslipNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payslip not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrTemplateNotFound = &apperror.AppError{
		Code:       apperror.CodeNotFound,
		Message:    "payslip template not found",
		HTTPStatus: http.StatusNotFound,
	}
	ErrDuplicateTemplateCode = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "a template with this code already exists",
		HTTPStatus: http.StatusConflict,
	}
	ErrEntryNotPayable = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "failed payroll entries cannot produce a payslip",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
	ErrEntryNeedsReview = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "entry is pending review and cannot produce a payslip",
		HTTPStatus: http.StatusUnprocessableEntity,
	}
	ErrRunNotApproved = &apperror.AppError{
		Code:       apperror.CodeTerminalState,
		Message:    "payroll run must be approved before payslips are issued",
		HTTPStatus: http.StatusConflict,
	}
	ErrInvalidStatus = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "unknown payslip status",
		HTTPStatus: http.StatusBadRequest,
	}
	ErrInvalidEmailStatus = &apperror.AppError{
		Code:       apperror.CodeInvalidInput,
		Message:    "unknown payslip email status",
		HTTPStatus: http.StatusBadRequest,
	}
)
