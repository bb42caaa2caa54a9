package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/agency-platform/internal/model"
)

type UsageLogRepository struct {
	pool *pgxpool.Pool
}

func NewUsageLogRepository(pool *pgxpool.Pool) *UsageLogRepository {
	return &UsageLogRepository{pool: pool}
}

func (r *UsageLogRepository) LogUsage(ctx context.Context, e *model.APIUsageLog) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO api_usage_logs (service_name, endpoint, cost_estimated, status_code)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		e.ServiceName, e.Endpoint, e.CostEstimated, e.StatusCode,
	).Scan(&e.ID, &e.CreatedAt)
}

func (r *UsageLogRepository) List(ctx context.Context, serviceName string, limit, offset int) ([]model.APIUsageLog, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM api_usage_logs WHERE ($1 = '' OR service_name = $1)`, serviceName).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count usage logs: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, service_name, endpoint, cost_estimated, status_code, created_at
		FROM api_usage_logs
		WHERE ($1 = '' OR service_name = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`, serviceName, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query usage logs: %w", err)
	}
	defer rows.Close()

	results := []model.APIUsageLog{}
	for rows.Next() {
		var l model.APIUsageLog
		if err := rows.Scan(&l.ID, &l.ServiceName, &l.Endpoint, &l.CostEstimated, &l.StatusCode, &l.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan usage log: %w", err)
		}
		results = append(results, l)
	}
	return results, total, rows.Err()
}
