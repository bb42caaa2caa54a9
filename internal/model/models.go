package model

import (
	"strings"
	"time"
)

// Country is the closed set of markets a client can belong to.
type Country int

const (
	CountryBrazil Country = iota
	CountryPortugal
)

// ParseCountry maps a stored country name or ISO code to a Country.
// Anything that is not Portugal is served as Brazil, which is the
// platform's home market.
func ParseCountry(s string) Country {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "portugal", "pt", "prt":
		return CountryPortugal
	default:
		return CountryBrazil
	}
}

func (c Country) String() string {
	switch c {
	case CountryPortugal:
		return "Portugal"
	default:
		return "Brasil"
	}
}

func (c Country) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

func (c *Country) UnmarshalText(b []byte) error {
	*c = ParseCountry(string(b))
	return nil
}

type PaymentMethodID string

const (
	MethodPix        PaymentMethodID = "pix"
	MethodMBWay      PaymentMethodID = "mbway"
	MethodCreditCard PaymentMethodID = "credit_card"
)

type InterestMode string

const (
	InterestAbsorbed       InterestMode = "absorbed"
	InterestPassedToClient InterestMode = "passed_to_client"
)

type InstantMethodConfig struct {
	Enabled            bool    `json:"enabled"`
	DiscountPercentage float64 `json:"discount_percentage"`
}

type CreditCardConfig struct {
	Enabled             bool         `json:"enabled"`
	MinInstallmentValue float64      `json:"min_installment_value"`
	InterestMode        InterestMode `json:"interest_mode"`
}

// PaymentMethodsState is the admin-maintained configuration stored under
// the "payment_methods" settings key.
type PaymentMethodsState struct {
	Pix        InstantMethodConfig `json:"pix"`
	MBWay      InstantMethodConfig `json:"mbway"`
	CreditCard CreditCardConfig    `json:"credit_card"`
}

// GlobalPaymentSettings is stored under "payment_global_settings".
type GlobalPaymentSettings struct {
	ManualApprovalEnabled bool `json:"manual_approval_enabled"`
}

type Client struct {
	ID      string  `json:"id,omitempty"`
	Name    string  `json:"name,omitempty"`
	Email   string  `json:"email,omitempty"`
	Country Country `json:"country"`
	// PaymentScore is nil when no score was ever recorded.
	PaymentScore *float64  `json:"payment_score,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

type AvailableMethod struct {
	ID                 PaymentMethodID `json:"id"`
	Name               string          `json:"name"`
	Enabled            bool            `json:"enabled"`
	Priority           int             `json:"priority"`
	Reason             string          `json:"reason,omitempty"`
	DiscountPercentage *float64        `json:"discount_percentage,omitempty"`
}

type APIUsageLog struct {
	ID            string    `json:"id,omitempty"`
	ServiceName   string    `json:"service_name"`
	Endpoint      string    `json:"endpoint"`
	CostEstimated float64   `json:"cost_estimated"`
	StatusCode    int       `json:"status_code"`
	CreatedAt     time.Time `json:"created_at,omitempty"`
}
