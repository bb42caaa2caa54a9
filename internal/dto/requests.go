package dto

type InlineClient struct {
	Country      string   `json:"country" binding:"required,oneof=Brasil Portugal"`
	PaymentScore *float64 `json:"payment_score" binding:"omitempty,gte=0,lte=100"`
}

type EligibilityRequest struct {
	OrderValue float64       `json:"order_value"`
	ClientID   string        `json:"client_id" binding:"omitempty,uuid"`
	Client     *InlineClient `json:"client"`
}

type QuoteRequest struct {
	MethodID  string        `json:"method_id" binding:"required,oneof=pix mbway credit_card"`
	BaseValue float64       `json:"base_value" binding:"gte=0"`
	ClientID  string        `json:"client_id" binding:"omitempty,uuid"`
	Client    *InlineClient `json:"client"`
}

type TrafficAnalysisQuery struct {
	Domain      string `form:"domain" binding:"required,hostname_rfc1123"`
	Country     string `form:"country" binding:"required"`
	Competitors string `form:"competitors"`
	TimeRange   string `form:"time_range"`
}

type ClientURI struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// PaymentScoreRequest clears the score when payment_score is null or omitted.
type PaymentScoreRequest struct {
	PaymentScore *float64 `json:"payment_score" binding:"omitempty,gte=0,lte=100"`
}
