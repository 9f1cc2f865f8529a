package analysis

import (
	"context"
	"fmt"
	"time"

	"github.com/aescanero/analysis-api/pkg/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"

	// defaultPublishTimeout bounds event publishing after the request is answered
	defaultPublishTimeout = 2 * time.Second
)

// Notifier publishes analysis events
type Notifier interface {
	Publish(ctx context.Context, topic string, event domain.Event) error
}

// MetricsRecorder records analysis metrics
type MetricsRecorder interface {
	RecordAnalysis(outcome string, duration time.Duration)
	RecordEventPublished(topic, outcome string)
}

// Service handles analysis requests
type Service struct {
	analyzer Analyzer
	notifier Notifier
	metrics  MetricsRecorder
	logger   *zap.Logger
	now      func() time.Time

	publishTimeout time.Duration
}

// NewService creates a new analysis service.
// notifier may be nil, in which case no events are published.
func NewService(
	analyzer Analyzer,
	notifier Notifier,
	metrics MetricsRecorder,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		analyzer: analyzer,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		now:      time.Now,

		publishTimeout: defaultPublishTimeout,
	}
}

// Analyze runs the analyzer and builds the response.
// repo and path are echoed unchanged.
func (s *Service) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResponse, error) {
	start := s.now()

	insights, err := s.analyzer.Analyze(ctx, req)
	duration := s.now().Sub(start)
	if err != nil {
		s.recordAnalysis(outcomeError, duration)
		s.logger.Error("analysis failed",
			zap.String("repo", req.Repo),
			zap.String("path", req.Path),
			zap.Error(err))
		return nil, fmt.Errorf("failed to analyze %s: %w", req.Path, err)
	}
	s.recordAnalysis(outcomeSuccess, duration)

	resp := &domain.AnalysisResponse{
		Repo:     req.Repo,
		Path:     req.Path,
		Insights: insights,
	}

	s.logger.Debug("analysis completed",
		zap.String("repo", req.Repo),
		zap.String("path", req.Path),
		zap.Int("content_bytes", len(req.Content)),
		zap.Int("insights", len(insights)))

	s.notify(ctx, resp)

	return resp, nil
}

// notify publishes an analysis.completed event. Failures are logged only.
// The event outlives a cancelled request but not publishTimeout.
func (s *Service) notify(ctx context.Context, resp *domain.AnalysisResponse) {
	if s.notifier == nil {
		return
	}

	event := domain.Event{
		ID:        uuid.New().String(),
		Type:      domain.EventTypeAnalysisCompleted,
		Timestamp: s.now().UTC(),
		Data: map[string]interface{}{
			"repo":          resp.Repo,
			"path":          resp.Path,
			"insight_count": len(resp.Insights),
		},
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.publishTimeout)
	defer cancel()

	if err := s.notifier.Publish(pubCtx, domain.TopicAnalysisEvents, event); err != nil {
		s.recordEvent(outcomeError)
		s.logger.Warn("failed to publish analysis event",
			zap.String("event_id", event.ID),
			zap.String("repo", resp.Repo),
			zap.String("path", resp.Path),
			zap.Error(err))
		return
	}
	s.recordEvent(outcomeSuccess)
}

func (s *Service) recordAnalysis(outcome string, duration time.Duration) {
	if s.metrics != nil {
		s.metrics.RecordAnalysis(outcome, duration)
	}
}

func (s *Service) recordEvent(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordEventPublished(domain.TopicAnalysisEvents, outcome)
	}
}
