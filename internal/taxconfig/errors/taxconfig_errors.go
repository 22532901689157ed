package taxconfigerrors

import (
	"net/http"

	"go-payroll/internal/shared/apperror"
)

var (
	ErrMissingConfiguration = apperror.New(
		apperror.CodeMissingConfiguration,
		"no active tax configuration covers the evaluation date",
		http.StatusNotFound,
	)
	ErrAmbiguousConfiguration = apperror.New(
		apperror.CodeAmbiguousConfiguration,
		"two tax configurations share the same effective_from date",
		http.StatusConflict,
	)
	ErrConfigurationNotFound = apperror.New(
		apperror.CodeNotFound,
		"tax configuration not found",
		http.StatusNotFound,
	)
	ErrInvalidConfigurationID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid tax configuration id",
		http.StatusBadRequest,
	)
	ErrInvalidRate = apperror.New(
		apperror.CodeInvalidInput,
		"rate must not be negative",
		http.StatusBadRequest,
	)
	ErrInvalidThresholds = apperror.New(
		apperror.CodeInvalidInput,
		"min threshold must not exceed max threshold",
		http.StatusBadRequest,
	)
	ErrInvalidDateFormat = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEffectiveRange = apperror.New(
		apperror.CodeInvalidInput,
		"effective_from must be before or equal effective_to",
		http.StatusBadRequest,
	)
)
