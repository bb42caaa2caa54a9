package database

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/agency-platform/internal/model"
)

// DefaultPaymentMethods is the configuration a fresh install starts with.
var DefaultPaymentMethods = model.PaymentMethodsState{
	Pix:   model.InstantMethodConfig{Enabled: true, DiscountPercentage: 5},
	MBWay: model.InstantMethodConfig{Enabled: true, DiscountPercentage: 0},
	CreditCard: model.CreditCardConfig{
		Enabled:             true,
		MinInstallmentValue: 100,
		InterestMode:        model.InterestAbsorbed,
	},
}

var DefaultGlobalSettings = model.GlobalPaymentSettings{ManualApprovalEnabled: false}

type clientProfile struct {
	Name       string
	Email      string
	Country    model.Country
	ScoreRange [2]float64 // min, max; zero range means no score recorded
}

var demoClients = []clientProfile{
	{Name: "Padaria Pão Dourado", Email: "contato@paodourado.com.br", Country: model.CountryBrazil, ScoreRange: [2]float64{80, 100}},
	{Name: "Clínica Sorriso Vivo", Email: "financeiro@sorrisovivo.com.br", Country: model.CountryBrazil, ScoreRange: [2]float64{45, 70}},
	{Name: "Oficina Rápida SP", Email: "adm@oficinarapida.com.br", Country: model.CountryBrazil, ScoreRange: [2]float64{5, 25}},
	{Name: "Loja Legado", Email: "legado@lojalegado.com.br", Country: model.CountryBrazil},
	{Name: "Café Lisboa Antiga", Email: "geral@cafelisboa.pt", Country: model.CountryPortugal, ScoreRange: [2]float64{75, 95}},
	{Name: "Porto Surf School", Email: "hello@portosurf.pt", Country: model.CountryPortugal, ScoreRange: [2]float64{10, 28}},
}

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	rng := rand.New(rand.NewSource(42))

	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM app_settings").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	settings := map[string]any{
		"payment_methods":         DefaultPaymentMethods,
		"payment_global_settings": DefaultGlobalSettings,
	}
	for key, value := range settings {
		raw, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("encode setting %s: %w", key, err)
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO app_settings (key, value) VALUES ($1, $2)", key, raw); err != nil {
			return fmt.Errorf("insert setting %s: %w", key, err)
		}
	}
	log.Info().Int("count", len(settings)).Msg("inserted payment settings")

	for _, c := range demoClients {
		var score *float64
		if c.ScoreRange[1] > 0 {
			s := c.ScoreRange[0] + rng.Float64()*(c.ScoreRange[1]-c.ScoreRange[0])
			s = math.Round(s)
			score = &s
		}
		if _, err := tx.Exec(ctx,
			"INSERT INTO clients (name, email, country, payment_score) VALUES ($1, $2, $3, $4)",
			c.Name, c.Email, c.Country.String(), score); err != nil {
			return fmt.Errorf("insert client %s: %w", c.Email, err)
		}
	}
	log.Info().Int("count", len(demoClients)).Msg("inserted demo clients")

	return tx.Commit(ctx)
}
