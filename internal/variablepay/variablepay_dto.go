package variablepay

import "github.com/shopspring/decimal"

type SubmitOvertimeRequest struct {
	EmployeeID string          `json:"employee_id" binding:"required,uuid"`
	Date       string          `json:"date" binding:"required"`
	Hours      decimal.Decimal `json:"hours" binding:"required"`
	Multiplier decimal.Decimal `json:"multiplier" binding:"required"`
}

type SubmitBonusRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Category    string          `json:"category" binding:"required"`
	Description string          `json:"description"`
}

type SubmitCommissionRequest struct {
	EmployeeID  string          `json:"employee_id" binding:"required,uuid"`
	Date        string          `json:"date" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Description string          `json:"description"`
}

type SubmitDeductionRequest struct {
	EmployeeID  string           `json:"employee_id" binding:"required,uuid"`
	Category    string           `json:"category" binding:"required"`
	Amount      *decimal.Decimal `json:"amount"`
	Percentage  *decimal.Decimal `json:"percentage"`
	Mandatory   bool             `json:"mandatory"`
	Description string           `json:"description"`
}

type OvertimeResponse struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"`
	Hours      string  `json:"hours"`
	Multiplier string  `json:"multiplier"`
	Approved   bool    `json:"approved"`
	ApprovedAt *string `json:"approved_at,omitempty"`
}

type EarningResponse struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	Date        string `json:"date"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
	Description string `json:"description,omitempty"`
}

type DeductionResponse struct {
	ID          string  `json:"id"`
	EmployeeID  string  `json:"employee_id"`
	Category    string  `json:"category"`
	Amount      *string `json:"amount,omitempty"`
	Percentage  *string `json:"percentage,omitempty"`
	Mandatory   bool    `json:"mandatory"`
	Description string  `json:"description,omitempty"`
	IsActive    bool    `json:"is_active"`
}
