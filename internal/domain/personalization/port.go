package personalization

import "context"

// Repository port for persisting and querying personalization runs
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedRecords, error)
}
