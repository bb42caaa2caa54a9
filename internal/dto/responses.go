package dto

import "github.com/anyulbade/agency-platform/internal/model"

type EligibilityResponse struct {
	OrderValue float64                 `json:"order_value"`
	Methods    []model.AvailableMethod `json:"methods"`
}

type UsageLogListResponse struct {
	Data       []model.APIUsageLog `json:"data"`
	Pagination Pagination          `json:"pagination"`
}

type IntegrationStatusResponse struct {
	Provider  string `json:"provider"`
	Connected bool   `json:"connected"`
}

type ValidationError struct {
	Index   int    `json:"index,omitempty"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ErrorListResponse struct {
	Error  string            `json:"error"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalItems int `json:"total_items"`
	TotalPages int `json:"total_pages"`
}
