package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
)

var hitColumns = []string{
	"event_id", "event_type", "event_name", "tracking_id", "client_id",
	"status", "error", "dispatched_at", "version",
}

// Repository implements HitRepository for PostgreSQL
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema creates the hits table and its time index
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS hits (
		id BIGSERIAL PRIMARY KEY,
		event_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		event_name TEXT NOT NULL,
		tracking_id TEXT NOT NULL,
		client_id TEXT NOT NULL,
		status INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		dispatched_at TIMESTAMPTZ NOT NULL,
		version BIGINT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS hits_tracking_dispatched_idx ON hits (tracking_id, dispatched_at);
	`

	if _, err := r.client.Pool().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create hits table: %w", err)
	}

	r.log.Info("PostgreSQL schema initialized successfully")
	return nil
}

// InsertBatch copies a batch of hits into PostgreSQL
func (r *Repository) InsertBatch(ctx context.Context, hits []*domain.Hit) (int, error) {
	if len(hits) == 0 {
		return 0, nil
	}

	rows := make([][]any, 0, len(hits))
	for _, hit := range hits {
		if hit.Version == 0 {
			hit.Version = uint64(time.Now().UnixNano())
		}
		rows = append(rows, []any{
			hit.EventID,
			hit.EventType,
			hit.EventName,
			hit.TrackingID,
			hit.ClientID,
			hit.Status,
			hit.Error,
			hit.DispatchedAt,
			int64(hit.Version),
		})
	}

	copied, err := r.client.Pool().CopyFrom(ctx, pgx.Identifier{"hits"}, hitColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, fmt.Errorf("failed to copy hits: %w", err)
	}

	return int(copied), nil
}

// Ping checks if the PostgreSQL connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Pool().Ping(ctx)
}

// Close closes the PostgreSQL connection pool
func (r *Repository) Close() error {
	return r.client.Close()
}

// GetMetrics retrieves aggregated hit metrics from PostgreSQL
func (r *Repository) GetMetrics(ctx context.Context, query repository.MetricsQuery) (*repository.MetricsResult, error) {
	if query.GroupBy != "" && !repository.ValidGroupBy(query.GroupBy) {
		return nil, fmt.Errorf("unsupported group_by value: %s (supported: event_type, status, hour, day)", query.GroupBy)
	}

	result := &repository.MetricsResult{
		Groups: []repository.MetricsGroupResult{},
	}

	where, args := whereClause(query)

	row := r.client.Pool().QueryRow(ctx, overallQuery(where), args...)
	var total, delivered, unique int64
	if err := row.Scan(&total, &delivered, &unique); err != nil {
		return nil, fmt.Errorf("failed to query overall metrics: %w", err)
	}
	result.TotalCount = uint64(total)
	result.DeliveredCount = uint64(delivered)
	result.UniqueClients = uint64(unique)

	if query.GroupBy == "" {
		return result, nil
	}

	rows, err := r.client.Pool().Query(ctx, groupedQuery(where, query.GroupBy), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped metrics: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			group            repository.MetricsGroupResult
			count, delivered int64
		)
		if err := rows.Scan(&group.GroupValue, &count, &delivered); err != nil {
			return nil, fmt.Errorf("failed to scan grouped metrics row: %w", err)
		}
		group.TotalCount = uint64(count)
		group.DeliveredCount = uint64(delivered)
		result.Groups = append(result.Groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped metrics rows: %w", err)
	}

	return result, nil
}

func whereClause(query repository.MetricsQuery) (string, []any) {
	conds := []string{"dispatched_at >= to_timestamp($1::bigint)", "dispatched_at <= to_timestamp($2::bigint)"}
	args := []any{query.From, query.To}

	if query.TrackingID != "" {
		args = append(args, query.TrackingID)
		conds = append(conds, fmt.Sprintf("tracking_id = $%d", len(args)))
	}
	if query.EventName != "" {
		args = append(args, query.EventName)
		conds = append(conds, fmt.Sprintf("event_name = $%d", len(args)))
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func overallQuery(where string) string {
	return fmt.Sprintf(`
SELECT
  COUNT(*)::bigint AS total_count,
  COUNT(*) FILTER (WHERE status >= 200 AND status < 300)::bigint AS delivered_count,
  COUNT(DISTINCT client_id)::bigint AS unique_clients
FROM hits
%s`, where)
}

func groupedQuery(where, groupBy string) string {
	var selectField, orderBy string

	switch groupBy {
	case repository.GroupByEventType:
		selectField = "event_type"
		orderBy = "ORDER BY total_count DESC"
	case repository.GroupByStatus:
		selectField = "status::text"
		orderBy = "ORDER BY total_count DESC"
	case repository.GroupByHour:
		selectField = "to_char(date_trunc('hour', dispatched_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD HH24:00:00')"
		orderBy = "ORDER BY group_value ASC"
	case repository.GroupByDay:
		selectField = "to_char(date_trunc('day', dispatched_at AT TIME ZONE 'UTC'), 'YYYY-MM-DD')"
		orderBy = "ORDER BY group_value ASC"
	}

	return fmt.Sprintf(`
SELECT
  %s AS group_value,
  COUNT(*)::bigint AS total_count,
  COUNT(*) FILTER (WHERE status >= 200 AND status < 300)::bigint AS delivered_count
FROM hits
%s
GROUP BY 1
%s`, selectField, where, orderBy)
}
