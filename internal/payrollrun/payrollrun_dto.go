package payrollrun

import (
	"encoding/json"

	"go-payroll/internal/salary"

	"github.com/shopspring/decimal"
)

type CreateRunRequest struct {
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	PayDate     string `json:"pay_date" binding:"required"`
	Frequency   string `json:"frequency" binding:"required,oneof=monthly biweekly weekly"`
}

type PreviewRequest struct {
	EmployeeID  string `json:"employee_id" binding:"required,uuid"`
	PeriodStart string `json:"period_start" binding:"required"`
	PeriodEnd   string `json:"period_end" binding:"required"`
	PayDate     string `json:"pay_date" binding:"required"`
}

type PreviewResponse struct {
	EmployeeID  string           `json:"employee_id"`
	PeriodStart string           `json:"period_start"`
	PeriodEnd   string           `json:"period_end"`
	PayDate     string           `json:"pay_date"`
	Breakdown   salary.Breakdown `json:"breakdown"`
}

type CorrectionRequest struct {
	Reason string          `json:"reason" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

type RunResponse struct {
	ID              string `json:"id"`
	RunNumber       string `json:"run_number"`
	PeriodStart     string `json:"period_start"`
	PeriodEnd       string `json:"period_end"`
	PayDate         string `json:"pay_date"`
	Frequency       string `json:"frequency"`
	Status          string `json:"status"`
	EmployeeCount   int    `json:"employee_count"`
	FailedCount     int    `json:"failed_count"`
	TotalGross      string `json:"total_gross"`
	TotalDeductions string `json:"total_deductions"`
	TotalNet        string `json:"total_net"`
}

type EntryResponse struct {
	ID              string          `json:"id"`
	RunID           string          `json:"run_id"`
	EmployeeID      string          `json:"employee_id"`
	Status          string          `json:"status"`
	GrossSalary     string          `json:"gross_salary"`
	TotalDeductions string          `json:"total_deductions"`
	NetSalary       string          `json:"net_salary"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	Breakdown       json.RawMessage `json:"breakdown,omitempty"`
	Corrections     []Correction    `json:"corrections,omitempty"`

	RunStatus   string `json:"run_status"`
	PeriodStart string `json:"period_start"`
	PeriodEnd   string `json:"period_end"`
	PayDate     string `json:"pay_date"`
}

type RunDetailResponse struct {
	RunResponse
	Entries []EntryResponse `json:"entries"`
}
