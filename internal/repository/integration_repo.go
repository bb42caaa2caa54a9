package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/agency-platform/internal/model"
)

type IntegrationRepository struct {
	pool *pgxpool.Pool
}

func NewIntegrationRepository(pool *pgxpool.Pool) *IntegrationRepository {
	return &IntegrationRepository{pool: pool}
}

// FindByActor returns nil, nil when the actor has not connected the provider.
func (r *IntegrationRepository) FindByActor(ctx context.Context, actorID, provider string) (*model.AnalyticsIntegration, error) {
	var i model.AnalyticsIntegration
	err := r.pool.QueryRow(ctx,
		`SELECT actor_id, provider, access_token, COALESCE(refresh_token, ''), token_type, expiry,
			COALESCE(site_url, ''), created_at
		FROM analytics_integrations WHERE actor_id = $1 AND provider = $2`, actorID, provider).
		Scan(&i.ActorID, &i.Provider, &i.AccessToken, &i.RefreshToken, &i.TokenType, &i.Expiry,
			&i.SiteURL, &i.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find integration: %w", err)
	}
	return &i, nil
}

func (r *IntegrationRepository) Upsert(ctx context.Context, i *model.AnalyticsIntegration) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO analytics_integrations (actor_id, provider, access_token, refresh_token, token_type, expiry, site_url)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, NULLIF($7, ''))
		ON CONFLICT (actor_id, provider) DO UPDATE
		SET access_token = EXCLUDED.access_token,
			refresh_token = COALESCE(EXCLUDED.refresh_token, analytics_integrations.refresh_token),
			token_type = EXCLUDED.token_type,
			expiry = EXCLUDED.expiry,
			site_url = COALESCE(EXCLUDED.site_url, analytics_integrations.site_url)`,
		i.ActorID, i.Provider, i.AccessToken, i.RefreshToken, i.TokenType, i.Expiry, i.SiteURL)
	if err != nil {
		return fmt.Errorf("upsert integration: %w", err)
	}
	return nil
}

func (r *IntegrationRepository) Delete(ctx context.Context, actorID, provider string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM analytics_integrations WHERE actor_id = $1 AND provider = $2`, actorID, provider)
	if err != nil {
		return fmt.Errorf("delete integration: %w", err)
	}
	return nil
}
