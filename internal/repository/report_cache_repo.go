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

type ReportCacheRepository struct {
	pool *pgxpool.Pool
}

func NewReportCacheRepository(pool *pgxpool.Pool) *ReportCacheRepository {
	return &ReportCacheRepository{pool: pool}
}

func (r *ReportCacheRepository) Get(ctx context.Context, domain, country string) (*model.ReportCacheEntry, error) {
	var (
		e     model.ReportCacheEntry
		raw   []byte
		trust string
	)
	err := r.pool.QueryRow(ctx,
		`SELECT domain, country, data, data_trust_level, last_updated
		FROM traffic_analysis_cache WHERE domain = $1 AND country = $2`, domain, country).
		Scan(&e.Domain, &e.Country, &raw, &trust, &e.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached report: %w", err)
	}

	e.DataTrustLevel = model.DataTrustLevel(trust)
	e.Data = &model.TrafficAnalysisReport{}
	if err := json.Unmarshal(raw, e.Data); err != nil {
		return nil, fmt.Errorf("decode cached report: %w", err)
	}
	return &e, nil
}

func (r *ReportCacheRepository) Upsert(ctx context.Context, e *model.ReportCacheEntry) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO traffic_analysis_cache (domain, country, data, data_trust_level, last_updated)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (domain, country) DO UPDATE
		SET data = EXCLUDED.data,
			data_trust_level = EXCLUDED.data_trust_level,
			last_updated = EXCLUDED.last_updated`,
		e.Domain, e.Country, raw, string(e.DataTrustLevel), e.LastUpdated)
	if err != nil {
		return fmt.Errorf("upsert cached report: %w", err)
	}
	return nil
}
