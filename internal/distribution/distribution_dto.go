package distribution

type DistributeRequest struct {
	RunID  string `json:"run_id" binding:"required,uuid"`
	Method string `json:"method" binding:"required,oneof=email portal both"`
}

type DistributionResponse struct {
	ID          string  `json:"id"`
	RunID       string  `json:"run_id"`
	Method      string  `json:"method"`
	Status      string  `json:"status"`
	Total       int     `json:"total"`
	Sent        int     `json:"sent"`
	Failed      int     `json:"failed"`
	CompletedAt *string `json:"completed_at,omitempty"`
}

type DistributionItemResponse struct {
	ID           string `json:"id"`
	PayslipID    string `json:"payslip_id"`
	Channel      string `json:"channel"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type DistributionDetailResponse struct {
	DistributionResponse
	Items []DistributionItemResponse `json:"items"`
}
