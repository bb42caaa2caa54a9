package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/agency-platform/internal/metrics"
	"github.com/anyulbade/agency-platform/internal/model"
)

var (
	ErrClientNotFound    = errors.New("client not found")
	ErrMethodUnavailable = errors.New("payment method not available for this order")
)

type PaymentSettingsStore interface {
	PaymentMethods(ctx context.Context) (*model.PaymentMethodsState, error)
	GlobalSettings(ctx context.Context) (*model.GlobalPaymentSettings, error)
	Put(ctx context.Context, key string, value any) error
}

type ClientStore interface {
	FindByID(ctx context.Context, id string) (*model.Client, error)
	UpdateScore(ctx context.Context, id string, score *float64) (*model.Client, error)
}

type PaymentService struct {
	settings PaymentSettingsStore
	clients  ClientStore
}

func NewPaymentService(settings PaymentSettingsStore, clients ClientStore) *PaymentService {
	return &PaymentService{settings: settings, clients: clients}
}

// ClientRef identifies the client either by stored id or inline attributes.
type ClientRef struct {
	ID     string
	Inline *model.Client
}

type Quote struct {
	MethodID   model.PaymentMethodID `json:"method_id"`
	BaseValue  float64               `json:"base_value"`
	FinalValue float64               `json:"final_value"`
	Adjustment float64               `json:"adjustment"`
}

type paymentContext struct {
	config *model.PaymentMethodsState
	global *model.GlobalPaymentSettings
	client *model.Client
}

func (s *PaymentService) load(ctx context.Context, ref ClientRef) (*paymentContext, error) {
	g, gctx := errgroup.WithContext(ctx)
	pc := &paymentContext{client: ref.Inline}

	g.Go(func() error {
		var err error
		pc.config, err = s.settings.PaymentMethods(gctx)
		return err
	})

	g.Go(func() error {
		var err error
		pc.global, err = s.settings.GlobalSettings(gctx)
		return err
	})

	if ref.ID != "" {
		g.Go(func() error {
			c, err := s.clients.FindByID(gctx, ref.ID)
			if err != nil {
				return err
			}
			if c == nil {
				return ErrClientNotFound
			}
			pc.client = c
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pc, nil
}

func (s *PaymentService) AvailableMethods(ctx context.Context, ref ClientRef, orderValue float64) ([]model.AvailableMethod, error) {
	pc, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	methods := GetAvailablePaymentMethods(orderValue, pc.client, pc.config, pc.global)
	for _, m := range methods {
		metrics.RecordEligibility(string(m.ID), m.Enabled)
	}
	return methods, nil
}

// Quote computes the charged amount for a method the client is eligible for.
func (s *PaymentService) Quote(ctx context.Context, ref ClientRef, methodID model.PaymentMethodID, baseValue float64) (*Quote, error) {
	pc, err := s.load(ctx, ref)
	if err != nil {
		return nil, err
	}

	eligible := false
	for _, m := range GetAvailablePaymentMethods(baseValue, pc.client, pc.config, pc.global) {
		if m.ID == methodID && m.Enabled {
			eligible = true
			break
		}
	}
	if !eligible {
		return nil, fmt.Errorf("%w: %s", ErrMethodUnavailable, methodID)
	}

	final := CalculateFinalValue(methodID, baseValue, pc.config)
	base := CalculateFinalValue("", baseValue, pc.config)
	return &Quote{
		MethodID:   methodID,
		BaseValue:  base,
		FinalValue: final,
		Adjustment: decimal.NewFromFloat(final).Sub(decimal.NewFromFloat(base)).Round(2).InexactFloat64(),
	}, nil
}

func (s *PaymentService) PaymentMethods(ctx context.Context) (*model.PaymentMethodsState, error) {
	return s.settings.PaymentMethods(ctx)
}

func (s *PaymentService) GlobalSettings(ctx context.Context) (*model.GlobalPaymentSettings, error) {
	return s.settings.GlobalSettings(ctx)
}

func (s *PaymentService) SavePaymentMethods(ctx context.Context, state *model.PaymentMethodsState) error {
	return s.settings.Put(ctx, "payment_methods", state)
}

func (s *PaymentService) SaveGlobalSettings(ctx context.Context, settings *model.GlobalPaymentSettings) error {
	return s.settings.Put(ctx, "payment_global_settings", settings)
}

// SetClientScore replaces the administrator-assigned score. A nil score
// clears it, which the eligibility engine reads as 100.
func (s *PaymentService) SetClientScore(ctx context.Context, id string, score *float64) (*model.Client, error) {
	c, err := s.clients.UpdateScore(ctx, id, score)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrClientNotFound
	}
	return c, nil
}
