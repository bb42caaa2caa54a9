package service

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/anyulbade/agency-platform/internal/model"
)

const (
	PixOperationalLimit   = 50000.0
	MBWayTransactionLimit = 750.0
	MinCreditScore        = 30.0

	// CardSurchargePercentage is charged on top of the base value when card
	// interest is passed to the client.
	CardSurchargePercentage = 3.5

	defaultPaymentScore = 100.0
)

const (
	ReasonPixLimit       = "Valor excede o limite operacional do PIX."
	ReasonMBWayLimit     = "Limite MB WAY excedido (máx 750€)."
	ReasonLowScore       = "Score de crédito insuficiente para cartão de crédito."
	ReasonMinInstallment = "Valor mínimo para parcelamento não atingido."
)

var methodNames = map[model.PaymentMethodID]string{
	model.MethodPix:        "PIX",
	model.MethodMBWay:      "MB WAY",
	model.MethodCreditCard: "Cartão de Crédito",
}

// GetAvailablePaymentMethods evaluates every configured method for the
// order and client. Methods that cannot be offered stay in the list with
// Enabled=false and a Reason. The result is stably sorted by Priority.
func GetAvailablePaymentMethods(orderValue float64, client *model.Client, cfg *model.PaymentMethodsState, global *model.GlobalPaymentSettings) []model.AvailableMethod {
	if cfg == nil {
		return []model.AvailableMethod{}
	}

	value := sanitizeOrderValue(orderValue)
	country := model.CountryBrazil
	score := defaultPaymentScore
	if client != nil {
		country = client.Country
		score = effectiveScore(client.PaymentScore)
	}

	methods := make([]model.AvailableMethod, 0, 2)

	switch country {
	case model.CountryBrazil:
		if cfg.Pix.Enabled {
			m := model.AvailableMethod{
				ID:                 model.MethodPix,
				Name:               methodNames[model.MethodPix],
				Enabled:            true,
				Priority:           1,
				DiscountPercentage: ptr(cfg.Pix.DiscountPercentage),
			}
			if value > PixOperationalLimit {
				m.Enabled = false
				m.Reason = ReasonPixLimit
			}
			methods = append(methods, m)
		}
	case model.CountryPortugal:
		if cfg.MBWay.Enabled {
			m := model.AvailableMethod{
				ID:       model.MethodMBWay,
				Name:     methodNames[model.MethodMBWay],
				Enabled:  true,
				Priority: 1,
			}
			if value > MBWayTransactionLimit {
				m.Enabled = false
				m.Reason = ReasonMBWayLimit
			}
			methods = append(methods, m)
		}
	}

	if cfg.CreditCard.Enabled {
		m := model.AvailableMethod{
			ID:       model.MethodCreditCard,
			Name:     methodNames[model.MethodCreditCard],
			Enabled:  true,
			Priority: 2,
		}
		if score < MinCreditScore {
			m.Enabled = false
			m.Reason = ReasonLowScore
		}
		// Evaluated after the score check; when both fail this reason wins.
		if value < cfg.CreditCard.MinInstallmentValue {
			m.Enabled = false
			m.Reason = ReasonMinInstallment
		}
		methods = append(methods, m)
	}

	// Hook for the manual-approval workflow; no method is gated on it yet.
	_ = global

	sort.SliceStable(methods, func(i, j int) bool {
		return methods[i].Priority < methods[j].Priority
	})
	return methods
}

// CalculateFinalValue returns the amount charged for methodID, rounded to
// cents (half away from zero).
func CalculateFinalValue(methodID model.PaymentMethodID, baseValue float64, cfg *model.PaymentMethodsState) float64 {
	base := decimal.NewFromFloat(sanitizeOrderValue(baseValue))
	if cfg == nil {
		return base.Round(2).InexactFloat64()
	}

	hundred := decimal.NewFromInt(100)
	final := base
	switch {
	case methodID == model.MethodPix:
		discount := decimal.NewFromFloat(cfg.Pix.DiscountPercentage).Div(hundred)
		final = base.Mul(decimal.NewFromInt(1).Sub(discount))
	case methodID == model.MethodCreditCard && cfg.CreditCard.InterestMode == model.InterestPassedToClient:
		surcharge := decimal.NewFromFloat(CardSurchargePercentage).Div(hundred)
		final = base.Mul(decimal.NewFromInt(1).Add(surcharge))
	}
	return final.Round(2).InexactFloat64()
}

func sanitizeOrderValue(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if math.IsInf(v, 1) {
		return math.MaxFloat64
	}
	return v
}

func effectiveScore(score *float64) float64 {
	if score == nil {
		return defaultPaymentScore
	}
	s := *score
	switch {
	case math.IsNaN(s):
		return 0
	case s < 0:
		return 0
	case s > 100:
		return 100
	}
	return s
}

func ptr[T any](v T) *T {
	return &v
}
