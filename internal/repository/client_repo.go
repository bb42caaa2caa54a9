package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/agency-platform/internal/model"
)

type ClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) *ClientRepository {
	return &ClientRepository{pool: pool}
}

// FindByID returns nil, nil when the client does not exist.
func (r *ClientRepository) FindByID(ctx context.Context, id string) (*model.Client, error) {
	var (
		c       model.Client
		country string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, COALESCE(email, ''), country, payment_score, created_at
		FROM clients WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Email, &country, &c.PaymentScore, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	c.Country = model.ParseCountry(country)
	return &c, nil
}

// UpdateScore sets the admin-assigned payment score; nil clears it.
// Returns nil, nil when the client does not exist.
func (r *ClientRepository) UpdateScore(ctx context.Context, id string, score *float64) (*model.Client, error) {
	var (
		c       model.Client
		country string
	)
	err := r.pool.QueryRow(ctx,
		`UPDATE clients SET payment_score = $2 WHERE id = $1
		RETURNING id, name, COALESCE(email, ''), country, payment_score, created_at`, id, score).
		Scan(&c.ID, &c.Name, &c.Email, &country, &c.PaymentScore, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update payment score: %w", err)
	}
	c.Country = model.ParseCountry(country)
	return &c, nil
}
