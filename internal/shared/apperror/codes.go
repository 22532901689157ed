package apperror

const (
	// Client errors (4xx)
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"

	// Payroll engine taxonomy
	CodeMissingConfiguration   = "MISSING_CONFIGURATION"
	CodeAmbiguousConfiguration = "AMBIGUOUS_CONFIGURATION"
	CodeCalculationFailed      = "CALCULATION_FAILED"
	CodeTerminalState          = "TERMINAL_STATE"
	CodeDispatchFailed         = "DISPATCH_FAILED"

	// Server errors (5xx)
	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)
