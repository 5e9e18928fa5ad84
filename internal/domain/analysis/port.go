package analysis

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, rec *Record) error
	Get(ctx context.Context, tenant string, id AnalysisID) (*Record, error)
	Paginate(ctx context.Context, tenant string, page, pageSize int) (PaginatedRecords, error)
	Summary(ctx context.Context, tenant string, sinceDays int) (Summary, error)
}

// ArtifactStore port (interface untuk penyimpanan artefak)
type ArtifactStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
