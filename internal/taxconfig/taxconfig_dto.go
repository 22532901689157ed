package taxconfig

import "github.com/shopspring/decimal"

type CreateTaxConfigurationRequest struct {
	TaxType       string           `json:"tax_type" binding:"required"`
	Rate          decimal.Decimal  `json:"rate" binding:"required"`
	IsPercentage  bool             `json:"is_percentage"`
	MinThreshold  *decimal.Decimal `json:"min_threshold"`
	MaxThreshold  *decimal.Decimal `json:"max_threshold"`
	EffectiveFrom string           `json:"effective_from" binding:"required"`
	EffectiveTo   *string          `json:"effective_to"`
	Description   string           `json:"description"`
}

type TaxConfigurationResponse struct {
	ID            string  `json:"id"`
	TaxType       string  `json:"tax_type"`
	Rate          string  `json:"rate"`
	IsPercentage  bool    `json:"is_percentage"`
	MinThreshold  *string `json:"min_threshold,omitempty"`
	MaxThreshold  *string `json:"max_threshold,omitempty"`
	EffectiveFrom string  `json:"effective_from"`
	EffectiveTo   *string `json:"effective_to,omitempty"`
	IsActive      bool    `json:"is_active"`
	Description   string  `json:"description,omitempty"`
}
