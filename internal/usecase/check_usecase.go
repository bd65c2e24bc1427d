package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/repository"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/metrics"
)

// Error definitions for check usecase
var (
	ErrRecordNotFound     = errors.New("submission not found")
	ErrHistoryUnavailable = errors.New("submission history is not configured")
)

const recordTimeout = 5 * time.Second

// CheckInput represents a text submission
type CheckInput struct {
	Text  string `json:"text" binding:"required"`
	Async bool   `json:"async"`
}

// CheckOutput represents the observable state of a submission
type CheckOutput struct {
	SubmissionID uint64                 `json:"submission_id"`
	Phase        string                 `json:"phase"`
	Current      bool                   `json:"current"`
	Disposition  string                 `json:"disposition,omitempty"`
	Failure      string                 `json:"failure,omitempty"`
	Message      string                 `json:"message,omitempty"`
	Reasoning    string                 `json:"reasoning,omitempty"`
	Result       *entity.ClassifyResult `json:"result,omitempty"`
	Verdict      *entity.Verdict        `json:"verdict,omitempty"`
	StartedAt    string                 `json:"started_at,omitempty"`
	LatencyMs    int64                  `json:"latency_ms"`
}

// HistoryOutput represents paginated submission history
type HistoryOutput struct {
	Records []*entity.SubmissionRecord `json:"records"`
	Total   int64                      `json:"total"`
	Limit   int                        `json:"limit"`
	Offset  int                        `json:"offset"`
	HasMore bool                       `json:"has_more"`
}

// CheckUsecase defines the interface for moderation checks
type CheckUsecase interface {
	Check(ctx context.Context, input *CheckInput) (*CheckOutput, error)
	State(ctx context.Context) *CheckOutput
	Recent(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error)
	History(ctx context.Context, limit, offset int) (*HistoryOutput, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.SubmissionRecord, error)
	Stats(ctx context.Context) (map[string]int64, error)
	// Wait blocks until every async submission has settled and been recorded,
	// or until ctx is done.
	Wait(ctx context.Context) error
}

type checkUsecase struct {
	controller     *Controller
	submissionRepo repository.SubmissionRepository
	recentRepo     repository.RecentRepository
	metrics        *metrics.Metrics
	logger         *zap.Logger

	inflight sync.WaitGroup
}

// NewCheckUsecase creates a new check usecase. Either repository may be nil.
func NewCheckUsecase(
	controller *Controller,
	submissionRepo repository.SubmissionRepository,
	recentRepo repository.RecentRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) CheckUsecase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &checkUsecase{
		controller:     controller,
		submissionRepo: submissionRepo,
		recentRepo:     recentRepo,
		metrics:        m,
		logger:         logger,
	}
}

func (u *checkUsecase) Check(ctx context.Context, input *CheckInput) (*CheckOutput, error) {
	// Only the deadline may cancel a submission, not the caller going away.
	detached := context.WithoutCancel(ctx)

	if input.Async {
		pending, done, err := u.controller.SubmitAsync(detached, input.Text)
		if err != nil {
			return nil, err
		}
		u.inflight.Add(1)
		go func() {
			defer u.inflight.Done()
			for s := range done {
				u.finish(s)
			}
		}()
		return toCheckOutput(pending, true), nil
	}

	settlement, err := u.controller.SubmitAndWait(detached, input.Text)
	if err != nil {
		return nil, err
	}
	return u.finish(settlement), nil
}

func (u *checkUsecase) State(_ context.Context) *CheckOutput {
	return toCheckOutput(u.controller.State(), true)
}

func (u *checkUsecase) Recent(ctx context.Context, limit int) ([]*entity.SubmissionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	if u.recentRepo != nil {
		records, err := u.recentRepo.List(ctx, limit)
		if err == nil {
			return records, nil
		}
		u.logger.Warn("Recent feed unavailable, falling back to history", zap.Error(err))
	}

	if u.submissionRepo == nil {
		return nil, ErrHistoryUnavailable
	}
	records, _, err := u.submissionRepo.List(ctx, limit, 0)
	return records, err
}

func (u *checkUsecase) History(ctx context.Context, limit, offset int) (*HistoryOutput, error) {
	if u.submissionRepo == nil {
		return nil, ErrHistoryUnavailable
	}
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	records, total, err := u.submissionRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

func (u *checkUsecase) GetByID(ctx context.Context, id uuid.UUID) (*entity.SubmissionRecord, error) {
	if u.submissionRepo == nil {
		return nil, ErrHistoryUnavailable
	}
	record, err := u.submissionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrRecordNotFound
	}
	return record, nil
}

func (u *checkUsecase) Stats(ctx context.Context) (map[string]int64, error) {
	if u.submissionRepo == nil {
		return nil, ErrHistoryUnavailable
	}
	return u.submissionRepo.CountByDisposition(ctx)
}

func (u *checkUsecase) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		u.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// finish interprets and records a settled submission
func (u *checkUsecase) finish(s Settlement) *CheckOutput {
	output := toCheckOutput(s.State, s.Current)
	if output.Verdict != nil {
		u.metrics.ObserveVerdict(string(output.Verdict.Kind), string(output.Result.ClassificationType), output.Verdict.Flagged)
	}
	u.record(s.State, output.Verdict)
	return output
}

// record stores the submission; failures are logged and never change the outcome
func (u *checkUsecase) record(state entity.SubmissionState, verdict *entity.Verdict) {
	if u.submissionRepo == nil && u.recentRepo == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	rec := entity.NewSubmissionRecord(state, verdict)
	if u.submissionRepo != nil {
		if err := u.submissionRepo.Create(ctx, rec); err != nil {
			u.logger.Error("Failed to save submission", zap.Uint64("submission_id", state.ID), zap.Error(err))
		}
	}
	if u.recentRepo != nil {
		if err := u.recentRepo.Push(ctx, rec); err != nil {
			u.logger.Warn("Failed to update recent feed", zap.Uint64("submission_id", state.ID), zap.Error(err))
		}
	}
}

func toCheckOutput(state entity.SubmissionState, current bool) *CheckOutput {
	output := &CheckOutput{
		SubmissionID: state.ID,
		Phase:        string(state.Phase),
		Current:      current,
	}
	if !state.StartedAt.IsZero() {
		output.StartedAt = state.StartedAt.UTC().Format(time.RFC3339)
	}
	if state.Phase == entity.PhaseSettled {
		output.LatencyMs = state.Elapsed(state.SettledAt).Milliseconds()
	}

	d := state.Outcome
	if d == nil {
		return output
	}

	output.Disposition = string(d.Kind)
	output.Failure = string(d.Failure)
	output.Message = d.Message
	if d.IsSuccess() {
		verdict := service.Interpret(*d.Result)
		output.Result = d.Result
		output.Reasoning = d.Result.Reasoning
		output.Verdict = &verdict
	}
	return output
}
