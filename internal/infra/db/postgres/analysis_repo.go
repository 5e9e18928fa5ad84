package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	domain "github.com/commstack/letterlens/internal/domain/analysis"
)

type AnalysisRepository struct {
	db *sql.DB
}

func NewAnalysisRepository(db *sql.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// Save inserts or updates an analysis record
func (r *AnalysisRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO letter_analyses
  (id, tenant_id, customer_name, method, overall_score, ready_to_send, result_json, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
  method=EXCLUDED.method,
  overall_score=EXCLUDED.overall_score,
  ready_to_send=EXCLUDED.ready_to_send,
  result_json=EXCLUDED.result_json;
`
	resultJSON, err := json.Marshal(rec.Result)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, stringOrDash(rec.TenantID), stringOrDash(rec.CustomerName),
		stringOrDash(string(rec.Method)),
		rec.OverallScore, rec.ReadyToSend, string(resultJSON), created,
	)
	return err
}

// Get by ID + Tenant
func (r *AnalysisRepository) Get(ctx context.Context, tenant string, id domain.AnalysisID) (*domain.Record, error) {
	const q = `
SELECT id, tenant_id, customer_name, method, overall_score, ready_to_send, result_json, created_at
FROM letter_analyses
WHERE tenant_id=$1 AND id=$2
LIMIT 1;`
	row := r.db.QueryRowContext(ctx, q, tenant, id)
	return scanRecord(row.Scan)
}

// Paginate returns a page of analysis records ordered by created_at desc
func (r *AnalysisRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedRecords, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, customer_name, method, overall_score, ready_to_send, result_json, created_at
FROM letter_analyses
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedRecords{}, fmt.Errorf("querying analyses: %w", err)
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return domain.PaginatedRecords{}, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedRecords{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	const qc = `SELECT COUNT(*) FROM letter_analyses WHERE tenant_id=$1;`
	if err := r.db.QueryRowContext(ctx, qc, tenant).Scan(&total); err != nil {
		return domain.PaginatedRecords{}, fmt.Errorf("getting total count: %w", err)
	}

	return domain.PaginatedRecords{
		Data:       out,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: int(math.Ceil(float64(total) / float64(pageSize))),
	}, nil
}

// Summary counts analysis results since N days
func (r *AnalysisRepository) Summary(ctx context.Context, tenant string, sinceDays int) (domain.Summary, error) {
	if sinceDays <= 0 {
		sinceDays = 7
	}
	cut := time.Now().AddDate(0, 0, -sinceDays)

	const q = `
SELECT COUNT(*) AS total_analyses,
       COALESCE(SUM(CASE WHEN ready_to_send THEN 1 ELSE 0 END),0) AS ready_to_send,
       COALESCE(SUM(CASE WHEN method='error' THEN 1 ELSE 0 END),0) AS errors,
       COALESCE(AVG(overall_score),0) AS average_score
FROM letter_analyses
WHERE tenant_id=$1 AND created_at >= $2;`
	var s domain.Summary
	if err := r.db.QueryRowContext(ctx, q, tenant, cut).Scan(&s.TotalAnalyses, &s.ReadyToSend, &s.Errors, &s.AverageScore); err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

func scanRecord(scan func(dest ...any) error) (*domain.Record, error) {
	var rec domain.Record
	var resultJSON string
	var created time.Time
	if err := scan(
		&rec.ID, &rec.TenantID, &rec.CustomerName, &rec.Method,
		&rec.OverallScore, &rec.ReadyToSend, &resultJSON, &created,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(resultJSON), &rec.Result); err != nil {
		return nil, fmt.Errorf("decoding result: %w", err)
	}
	rec.Result.Normalize()
	rec.CreatedAt = created
	return &rec, nil
}
