package clickhouse

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"go.uber.org/zap"

	"github.com/BarkinBalci/measurement-relay/internal/domain"
	"github.com/BarkinBalci/measurement-relay/internal/repository"
)

// Repository implements HitRepository for ClickHouse
type Repository struct {
	client *Client
	log    *zap.Logger
}

// NewRepository creates a new ClickHouse repository
func NewRepository(client *Client, log *zap.Logger) *Repository {
	return &Repository{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the ClickHouse schema with ReplacingMergeTree engine
func (r *Repository) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS hits (
		event_id String,
		event_type LowCardinality(String),
		event_name LowCardinality(String),
		tracking_id LowCardinality(String),
		client_id String,
		status Int32,
		error String,
		dispatched_at DateTime64(3),
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (tracking_id, event_id)
	ORDER BY (tracking_id, event_id)
	PARTITION BY toYYYYMM(dispatched_at)
	SETTINGS index_granularity = 8192
	`

	if err := r.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create hits table: %w", err)
	}

	r.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// InsertBatch inserts a batch of hits into ClickHouse
func (r *Repository) InsertBatch(ctx context.Context, hits []*domain.Hit) (int, error) {
	if len(hits) == 0 {
		return 0, nil
	}

	batch, err := r.client.Conn().PrepareBatch(ctx, "INSERT INTO hits")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare batch: %w", err)
	}

	insertedCount := 0
	for _, hit := range hits {
		if hit.Version == 0 {
			hit.Version = uint64(time.Now().UnixNano())
		}

		if err := batch.AppendStruct(hit); err != nil {
			return 0, fmt.Errorf("failed to append hit to batch: %w", err)
		}
		insertedCount++
	}

	if err := batch.Send(); err != nil {
		return 0, fmt.Errorf("failed to send batch: %w", err)
	}

	return insertedCount, nil
}

// Ping checks if the ClickHouse connection is alive
func (r *Repository) Ping(ctx context.Context) error {
	return r.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (r *Repository) Close() error {
	return r.client.Close()
}

// GetMetrics retrieves aggregated hit metrics from ClickHouse
func (r *Repository) GetMetrics(ctx context.Context, query repository.MetricsQuery) (*repository.MetricsResult, error) {
	if query.GroupBy != "" && !repository.ValidGroupBy(query.GroupBy) {
		return nil, fmt.Errorf("unsupported group_by value: %s (supported: event_type, status, hour, day)", query.GroupBy)
	}

	result := &repository.MetricsResult{
		Groups: []repository.MetricsGroupResult{},
	}

	where, args := whereClause(query)

	row := r.client.Conn().QueryRow(ctx, overallQuery(where), args...)
	if err := row.Scan(&result.TotalCount, &result.DeliveredCount, &result.UniqueClients); err != nil {
		return nil, fmt.Errorf("failed to query overall metrics: %w", err)
	}

	if query.GroupBy == "" {
		return result, nil
	}

	rows, err := r.client.Conn().Query(ctx, groupedQuery(where, query.GroupBy), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query grouped metrics: %w", err)
	}
	defer func(rows driver.Rows) {
		err := rows.Close()
		if err != nil {
			r.log.Error("Failed to close grouped metrics rows", zap.Error(err))
		}
	}(rows)

	for rows.Next() {
		var group repository.MetricsGroupResult
		if err := rows.Scan(&group.GroupValue, &group.TotalCount, &group.DeliveredCount); err != nil {
			return nil, fmt.Errorf("failed to scan grouped metrics row: %w", err)
		}
		result.Groups = append(result.Groups, group)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating grouped metrics rows: %w", err)
	}

	return result, nil
}

func whereClause(query repository.MetricsQuery) (string, []interface{}) {
	conds := []string{"dispatched_at >= fromUnixTimestamp64Milli(?)", "dispatched_at <= fromUnixTimestamp64Milli(?)"}
	args := []interface{}{query.From * 1000, query.To * 1000}

	if query.TrackingID != "" {
		conds = append(conds, "tracking_id = ?")
		args = append(args, query.TrackingID)
	}
	if query.EventName != "" {
		conds = append(conds, "event_name = ?")
		args = append(args, query.EventName)
	}

	return "WHERE " + strings.Join(conds, " AND "), args
}

func overallQuery(where string) string {
	return fmt.Sprintf(`
		SELECT
			count() as total_count,
			countIf(status >= 200 AND status < 300) as delivered_count,
			uniq(client_id) as unique_clients
		FROM hits FINAL
		%s
	`, where)
}

func groupedQuery(where, groupBy string) string {
	var selectField, groupByClause, orderBy string

	switch groupBy {
	case repository.GroupByEventType:
		selectField = "event_type"
		groupByClause = "GROUP BY event_type"
		orderBy = "ORDER BY total_count DESC"
	case repository.GroupByStatus:
		selectField = "toString(status)"
		groupByClause = "GROUP BY status"
		orderBy = "ORDER BY total_count DESC"
	case repository.GroupByHour:
		selectField = "formatDateTime(toStartOfHour(dispatched_at), '%Y-%m-%d %H:00:00')"
		groupByClause = "GROUP BY toStartOfHour(dispatched_at)"
		orderBy = "ORDER BY group_value ASC"
	case repository.GroupByDay:
		selectField = "formatDateTime(toStartOfDay(dispatched_at), '%Y-%m-%d')"
		groupByClause = "GROUP BY toStartOfDay(dispatched_at)"
		orderBy = "ORDER BY group_value ASC"
	}

	return fmt.Sprintf(`
		SELECT
			%s as group_value,
			count() as total_count,
			countIf(status >= 200 AND status < 300) as delivered_count
		FROM hits FINAL
		%s
		%s
		%s
	`, selectField, where, groupByClause, orderBy)
}
