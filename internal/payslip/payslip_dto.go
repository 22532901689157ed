package payslip

import "encoding/json"

type CreateTemplateRequest struct {
	Code string `json:"code" binding:"required,max=40"`
	Name string `json:"name"`
}

type TemplateResponse struct {
	ID       string `json:"id"`
	Code     string `json:"code"`
	Name     string `json:"name"`
	Version  int    `json:"version"`
	IsActive bool   `json:"is_active"`
}

type GeneratePayslipRequest struct {
	EntryID      string `json:"entry_id" binding:"required,uuid"`
	TemplateCode string `json:"template_code" binding:"required"`
}

type GenerateRunRequest struct {
	RunID        string `json:"run_id" binding:"required,uuid"`
	TemplateCode string `json:"template_code" binding:"required"`
}

type SkippedEntryResponse struct {
	EntryID string `json:"entry_id"`
	Status  string `json:"status"`
	Reason  string `json:"reason"`
}

type RunGenerationResponse struct {
	RunID     string                 `json:"run_id"`
	Generated []PayslipResponse      `json:"generated"`
	Skipped   []SkippedEntryResponse `json:"skipped,omitempty"`
}

type PayslipResponse struct {
	ID            string          `json:"id"`
	PayslipNumber string          `json:"payslip_number"`
	EntryID       string          `json:"entry_id"`
	TemplateID    string          `json:"template_id"`
	Version       int             `json:"version"`
	EmployeeID    string          `json:"employee_id"`
	RunID         string          `json:"run_id"`
	Status        string          `json:"status"`
	EmailStatus   string          `json:"email_status"`
	Superseded    bool            `json:"superseded"`
	Content       json.RawMessage `json:"content,omitempty"`
	GeneratedAt   string          `json:"generated_at"`
}
