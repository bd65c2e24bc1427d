package usecase

import (
	"context"
	"errors"
	"net"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/alimomennasab/hate-speech-agent/internal/domain/entity"
	"github.com/alimomennasab/hate-speech-agent/internal/domain/service"
	"github.com/alimomennasab/hate-speech-agent/internal/infrastructure/metrics"
)

// DefaultDeadline bounds how long a submission may stay pending
const DefaultDeadline = 60 * time.Second

// ErrEmptyText is returned when a submission has no non-whitespace text
var ErrEmptyText = errors.New("text must not be empty")

// errDeadline is the cancel cause set by the deadline timer
var errDeadline = errors.New("classification deadline elapsed")

const messageCancelled = "Request cancelled"

// Settlement is the settled state of one submission. Current is false when a
// newer submission superseded it before it settled.
type Settlement struct {
	State   entity.SubmissionState
	Current bool
}

// ControllerOption configures a Controller
type ControllerOption func(*Controller)

// WithDeadline overrides the default deadline
func WithDeadline(d time.Duration) ControllerOption {
	return func(c *Controller) {
		if d > 0 {
			c.deadline = d
		}
	}
}

// WithMetrics attaches Prometheus collectors
func WithMetrics(m *metrics.Metrics) ControllerOption {
	return func(c *Controller) { c.metrics = m }
}

// WithClock overrides the time source used for state timestamps
func WithClock(now func() time.Time) ControllerOption {
	return func(c *Controller) { c.now = now }
}

// Controller drives classification submissions through idle, pending and settled.
// Only the most recent submission's outcome is reflected in State.
type Controller struct {
	classifier service.Classifier
	logger     *zap.Logger
	metrics    *metrics.Metrics
	deadline   time.Duration
	now        func() time.Time

	mu    sync.Mutex
	seq   uint64
	state entity.SubmissionState
}

// NewController creates a controller in the idle phase
func NewController(classifier service.Classifier, logger *zap.Logger, opts ...ControllerOption) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{
		classifier: classifier,
		logger:     logger,
		deadline:   DefaultDeadline,
		now:        time.Now,
		state:      entity.SubmissionState{Phase: entity.PhaseIdle},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Deadline returns the configured deadline
func (c *Controller) Deadline() time.Duration {
	return c.deadline
}

// State returns a snapshot of the current submission state
func (c *Controller) State() entity.SubmissionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return snapshot(c.state)
}

// Submit runs one classification and blocks until it settles.
// The state is pending before any network activity starts.
func (c *Controller) Submit(ctx context.Context, text string) (entity.Disposition, error) {
	s, err := c.SubmitAndWait(ctx, text)
	if err != nil {
		return entity.Disposition{}, err
	}
	return *s.State.Outcome, nil
}

// SubmitAndWait is Submit returning the full settlement
func (c *Controller) SubmitAndWait(ctx context.Context, text string) (Settlement, error) {
	pending, err := c.begin(text)
	if err != nil {
		return Settlement{}, err
	}
	return c.run(ctx, pending), nil
}

// SubmitAsync moves to pending and returns immediately. The channel receives
// exactly one settlement and is then closed.
func (c *Controller) SubmitAsync(ctx context.Context, text string) (entity.SubmissionState, <-chan Settlement, error) {
	pending, err := c.begin(text)
	if err != nil {
		return entity.SubmissionState{}, nil, err
	}

	ch := make(chan Settlement, 1)
	go func() {
		defer close(ch)
		ch <- c.run(ctx, pending)
	}()

	return pending, ch, nil
}

func (c *Controller) begin(text string) (entity.SubmissionState, error) {
	if strings.TrimSpace(text) == "" {
		return entity.SubmissionState{}, ErrEmptyText
	}

	c.mu.Lock()
	c.seq++
	c.state = entity.SubmissionState{
		ID:        c.seq,
		Phase:     entity.PhasePending,
		Text:      text,
		StartedAt: c.now(),
	}
	pending := c.state
	c.mu.Unlock()

	c.logger.Info("Submission started",
		zap.Uint64("submission_id", pending.ID),
		zap.Int("text_length", len(text)),
		zap.Duration("deadline", c.deadline),
	)
	return pending, nil
}

func (c *Controller) run(parent context.Context, pending entity.SubmissionState) Settlement {
	ctx, cancel := context.WithCancelCause(parent)
	defer cancel(nil)

	var fired atomic.Bool
	timer := time.AfterFunc(c.deadline, func() {
		fired.Store(true)
		cancel(errDeadline)
	})
	defer timer.Stop()

	c.metrics.RequestStarted()
	result, err := c.classifier.Classify(ctx, pending.Text)
	disposition := c.dispose(ctx, pending.ID, result, err, fired.Load())

	return c.settle(pending, disposition)
}

// dispose maps the classifier outcome to exactly one disposition
func (c *Controller) dispose(ctx context.Context, id uint64, result *entity.ClassifyResult, err error, deadlineFired bool) entity.Disposition {
	log := c.logger.With(zap.Uint64("submission_id", id))

	if err == nil {
		if result == nil {
			log.Error("Classifier returned no result and no error")
			return entity.Failed(entity.FailureMalformedPayload, entity.MessageMalformed)
		}
		return entity.Success(result)
	}

	if deadlineFired || errors.Is(context.Cause(ctx), errDeadline) {
		log.Warn("Classification timed out, request cancelled", zap.Duration("deadline", c.deadline))
		return entity.TimedOut()
	}

	var svcErr *service.ServiceError
	if errors.As(err, &svcErr) {
		log.Warn("Moderation service returned an error",
			zap.Int("status", svcErr.StatusCode),
			zap.String("detail", svcErr.Detail),
		)
		return entity.Failed(entity.FailureApplication, svcErr.Detail)
	}

	if errors.Is(err, service.ErrMalformedResponse) {
		log.Error("Malformed classification response", zap.Error(err))
		return entity.Failed(entity.FailureMalformedPayload, entity.MessageMalformed)
	}

	if parentErr := context.Cause(ctx); parentErr != nil {
		log.Warn("Submission cancelled by caller", zap.Error(parentErr))
		return entity.Failed(entity.FailureTransport, messageCancelled)
	}

	if looksLikeTimeout(err) {
		log.Warn("Transport reported a timeout", zap.Error(err))
		return entity.TimedOut()
	}

	log.Warn("Classification request failed", zap.Error(err))
	return entity.Failed(entity.FailureTransport, transportMessage(err))
}

func (c *Controller) settle(pending entity.SubmissionState, d entity.Disposition) Settlement {
	settled := pending
	settled.Phase = entity.PhaseSettled
	settled.SettledAt = c.now()
	settled.Outcome = &d

	elapsed := settled.SettledAt.Sub(settled.StartedAt)
	c.metrics.ObserveSettlement(string(d.Kind), string(d.Failure), elapsed)

	c.mu.Lock()
	current := c.state.ID == pending.ID
	if current {
		c.state = settled
	}
	c.mu.Unlock()

	if !current {
		c.metrics.ObserveStale()
		c.logger.Debug("Discarding superseded disposition",
			zap.Uint64("submission_id", pending.ID),
			zap.String("disposition", string(d.Kind)),
		)
	} else {
		c.logger.Info("Submission settled",
			zap.Uint64("submission_id", pending.ID),
			zap.String("disposition", string(d.Kind)),
			zap.Duration("elapsed", elapsed),
		)
	}

	return Settlement{State: snapshot(settled), Current: current}
}

func snapshot(s entity.SubmissionState) entity.SubmissionState {
	if s.Outcome != nil {
		outcome := *s.Outcome
		s.Outcome = &outcome
	}
	return s
}

// looksLikeTimeout is an approximate fallback for transports that time out on
// their own. Deadline-initiated cancellation is detected before this runs.
func looksLikeTimeout(err error) bool {
	// A dial that times out never reached the service.
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") || strings.Contains(msg, "deadline exceeded")
}

// transportMessage returns the innermost transport error text
func transportMessage(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err.Error()
	}
	return err.Error()
}
