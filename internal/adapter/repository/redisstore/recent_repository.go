package redisstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/repository"
)

// RecentKey is the list holding the recent-results feed
const RecentKey = "checker:recent"

type recentRepository struct {
	client *redis.Client
	limit  int
	logger *zap.Logger
}

// NewRecentRepository creates a capped recent-results feed backed by a Redis list
func NewRecentRepository(client *redis.Client, limit int, logger *zap.Logger) repository.RecentRepository {
	if limit <= 0 {
		limit = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &recentRepository{client: client, limit: limit, logger: logger}
}

func (r *recentRepository) Push(ctx context.Context, record *entity.SubmissionRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, RecentKey, payload)
		pipe.LTrim(ctx, RecentKey, 0, int64(r.limit-1))
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to push recent record: %w", err)
	}
	return nil
}

func (r *recentRepository) List(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error) {
	if limit <= 0 || limit > r.limit {
		limit = r.limit
	}

	raw, err := r.client.LRange(ctx, RecentKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read recent records: %w", err)
	}

	return r.decode(raw), nil
}

// decode skips entries that are not valid records and logs each one
func (r *recentRepository) decode(raw []string) []*entity.SubmissionRecord {
	records := make([]*entity.SubmissionRecord, 0, len(raw))
	for i, item := range raw {
		var rec entity.SubmissionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			r.logger.Warn("Skipping undecodable recent record",
				zap.String("key", RecentKey),
				zap.Int("index", i),
				zap.Int("size", len(item)),
				zap.Error(err),
			)
			continue
		}
		records = append(records, &rec)
	}
	return records
}
