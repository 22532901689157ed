package employee

import "github.com/shopspring/decimal"

type CreateEmployeeRequest struct {
	EmployeeNumber string           `json:"employee_number"`
	FullName       string           `json:"full_name" binding:"required"`
	Department     string           `json:"department" binding:"required"`
	Position       string           `json:"position" binding:"required"`
	BasicSalary    decimal.Decimal  `json:"basic_salary" binding:"required"`
	HourlyRate     *decimal.Decimal `json:"hourly_rate"`
}

type UpdateEmployeeRequest struct {
	FullName    string           `json:"full_name" binding:"required"`
	Department  string           `json:"department" binding:"required"`
	Position    string           `json:"position" binding:"required"`
	BasicSalary decimal.Decimal  `json:"basic_salary" binding:"required"`
	HourlyRate  *decimal.Decimal `json:"hourly_rate"`
	IsActive    *bool            `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string  `json:"id"`
	EmployeeNumber string  `json:"employee_number"`
	FullName       string  `json:"full_name"`
	Department     string  `json:"department"`
	Position       string  `json:"position"`
	BasicSalary    string  `json:"basic_salary"`
	HourlyRate     *string `json:"hourly_rate,omitempty"`
	IsActive       bool    `json:"is_active"`
}
