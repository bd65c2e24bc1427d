package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
)

// SubmissionRepository defines durable storage for settled submissions
type SubmissionRepository interface {
	// Create stores a settled submission
	Create(ctx context.Context, record *entity.SubmissionRecord) error

	// GetByID retrieves a record by its ID, or nil when absent
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SubmissionRecord, error)

	// List retrieves records newest first with pagination
	List(ctx context.Context, limit, offset int) ([]*entity.SubmissionRecord, int64, error)

	// CountByDisposition counts records per disposition kind
	CountByDisposition(ctx context.Context) (map[string]int64, error)
}

// RecentRepository keeps a short, capped feed of the latest settled submissions
type RecentRepository interface {
	// Push prepends a record and trims the feed
	Push(ctx context.Context, record *entity.SubmissionRecord) error

	// List returns up to limit records, newest first
	List(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error)
}
