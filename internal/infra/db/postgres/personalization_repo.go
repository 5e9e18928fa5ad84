package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"time"

	domain "github.com/commstack/letterlens/internal/domain/personalization"
)

type PersonalizationRepository struct {
	db *sql.DB
}

func NewPersonalizationRepository(db *sql.DB) *PersonalizationRepository {
	return &PersonalizationRepository{db: db}
}

// Save inserts or updates a personalization run
func (r *PersonalizationRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO letter_personalizations
  (id, tenant_id, customer_name, channels_json, risk_score, verified, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7)
ON CONFLICT (id) DO UPDATE SET
  channels_json=EXCLUDED.channels_json,
  risk_score=EXCLUDED.risk_score,
  verified=EXCLUDED.verified;
`
	channelsJSON, err := json.Marshal(rec.Bundle)
	if err != nil {
		return fmt.Errorf("encoding bundle: %w", err)
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	_, err = r.db.ExecContext(ctx, q,
		rec.ID, stringOrDash(rec.TenantID), stringOrDash(rec.CustomerName),
		string(channelsJSON), rec.RiskScore, rec.Verified, created,
	)
	return err
}

// Paginate returns a page of personalization runs ordered by created_at desc
func (r *PersonalizationRepository) Paginate(ctx context.Context, tenant string, page, pageSize int) (domain.PaginatedRecords, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	const q = `
SELECT id, tenant_id, customer_name, channels_json, risk_score, verified, created_at
FROM letter_personalizations
WHERE tenant_id=$1
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.QueryContext(ctx, q, tenant, pageSize, offset)
	if err != nil {
		return domain.PaginatedRecords{}, fmt.Errorf("querying personalizations: %w", err)
	}
	defer rows.Close()

	var out []*domain.Record
	for rows.Next() {
		var rec domain.Record
		var channelsJSON string
		if err := rows.Scan(
			&rec.ID, &rec.TenantID, &rec.CustomerName,
			&channelsJSON, &rec.RiskScore, &rec.Verified, &rec.CreatedAt,
		); err != nil {
			return domain.PaginatedRecords{}, fmt.Errorf("scanning row: %w", err)
		}
		if err := json.Unmarshal([]byte(channelsJSON), &rec.Bundle); err != nil {
			return domain.PaginatedRecords{}, fmt.Errorf("decoding bundle: %w", err)
		}
		out = append(out, &rec)
	}
	if err := rows.Err(); err != nil {
		return domain.PaginatedRecords{}, fmt.Errorf("iterating rows: %w", err)
	}

	var total int64
	const qc = `SELECT COUNT(*) FROM letter_personalizations WHERE tenant_id=$1;`
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
