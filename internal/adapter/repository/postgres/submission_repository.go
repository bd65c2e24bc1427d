package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/repository"
)

type submissionRepository struct {
	db *gorm.DB
}

// NewSubmissionRepository creates a new submission repository
func NewSubmissionRepository(db *gorm.DB) repository.SubmissionRepository {
	return &submissionRepository{db: db}
}

func (r *submissionRepository) Create(ctx context.Context, record *entity.SubmissionRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *submissionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.SubmissionRecord, error) {
	var record entity.SubmissionRecord
	err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *submissionRepository) List(ctx context.Context, limit, offset int) ([]*entity.SubmissionRecord, int64, error) {
	var records []*entity.SubmissionRecord
	var total int64

	if err := r.db.WithContext(ctx).Model(&entity.SubmissionRecord{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *submissionRepository) CountByDisposition(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Disposition string
		Count       int64
	}

	err := r.db.WithContext(ctx).
		Model(&entity.SubmissionRecord{}).
		Select("disposition, count(*) as count").
		Group("disposition").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Disposition] = row.Count
	}
	return counts, nil
}
