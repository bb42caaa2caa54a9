package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/agency-platform/internal/model"
)

const (
	KeyPaymentMethods        = "payment_methods"
	KeyPaymentGlobalSettings = "payment_global_settings"
)

// SettingsRepository is the key/value store holding admin configuration as
// JSON documents.
type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get decodes the document stored under key into dest. It reports false
// when the key has never been written.
func (r *SettingsRepository) Get(ctx context.Context, key string, dest any) (bool, error) {
	var raw []byte
	err := r.pool.QueryRow(ctx, `SELECT value FROM app_settings WHERE key = $1`, key).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get setting %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode setting %s: %w", key, err)
	}
	return true, nil
}

func (r *SettingsRepository) Put(ctx context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode setting %s: %w", key, err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO app_settings (key, value, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		key, raw)
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}

// PaymentMethods returns nil when no configuration has been saved yet.
func (r *SettingsRepository) PaymentMethods(ctx context.Context) (*model.PaymentMethodsState, error) {
	var state model.PaymentMethodsState
	found, err := r.Get(ctx, KeyPaymentMethods, &state)
	if err != nil || !found {
		return nil, err
	}
	return &state, nil
}

func (r *SettingsRepository) GlobalSettings(ctx context.Context) (*model.GlobalPaymentSettings, error) {
	var settings model.GlobalPaymentSettings
	found, err := r.Get(ctx, KeyPaymentGlobalSettings, &settings)
	if err != nil || !found {
		return nil, err
	}
	return &settings, nil
}
