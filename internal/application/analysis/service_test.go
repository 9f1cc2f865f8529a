package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aescanero/analysis-api/pkg/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type mockAnalyzer struct {
	mock.Mock
}

func (m *mockAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]string, error) {
	args := m.Called(ctx, req)
	insights, _ := args.Get(0).([]string)
	return insights, args.Error(1)
}

type mockNotifier struct {
	mock.Mock
}

func (m *mockNotifier) Publish(ctx context.Context, topic string, event domain.Event) error {
	args := m.Called(ctx, topic, event)
	return args.Error(0)
}

type mockMetrics struct {
	mock.Mock
}

func (m *mockMetrics) RecordAnalysis(outcome string, duration time.Duration) {
	m.Called(outcome, duration)
}

func (m *mockMetrics) RecordEventPublished(topic, outcome string) {
	m.Called(topic, outcome)
}

var widgetsRequest = domain.AnalysisRequest{
	Repo:    "acme/widgets",
	Path:    "src/main.py",
	Content: "print(1)",
}

func TestStaticAnalyzer_Analyze(t *testing.T) {
	a := NewStaticAnalyzer()

	inputs := []domain.AnalysisRequest{
		widgetsRequest,
		{},
		{Repo: "r", Path: "p", Content: "a much longer body\nwith several lines\n"},
	}
	for _, req := range inputs {
		insights, err := a.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, []string{"Dependency graph updated.", "No architectural drift detected."}, insights)
	}
}

func TestStaticAnalyzer_ReturnsIndependentCopies(t *testing.T) {
	a := NewStaticAnalyzer()

	first, err := a.Analyze(context.Background(), widgetsRequest)
	require.NoError(t, err)
	first[0] = "mutated"

	second, err := a.Analyze(context.Background(), widgetsRequest)
	require.NoError(t, err)
	assert.Equal(t, InsightDependencyGraph, second[0])
}

func TestService_Analyze(t *testing.T) {
	metrics := new(mockMetrics)
	metrics.On("RecordAnalysis", "success", mock.AnythingOfType("time.Duration")).Once()

	svc := NewService(NewStaticAnalyzer(), nil, metrics, nil)

	resp, err := svc.Analyze(context.Background(), widgetsRequest)
	require.NoError(t, err)

	assert.Equal(t, &domain.AnalysisResponse{
		Repo:     "acme/widgets",
		Path:     "src/main.py",
		Insights: []string{"Dependency graph updated.", "No architectural drift detected."},
	}, resp)
	metrics.AssertExpectations(t)
}

func TestService_AnalyzeEchoesRepoAndPathVerbatim(t *testing.T) {
	svc := NewService(NewStaticAnalyzer(), nil, nil, nil)

	tests := []domain.AnalysisRequest{
		{Repo: "", Path: "", Content: ""},
		{Repo: "  spaced  ", Path: "../../etc/passwd", Content: "x"},
		{Repo: "ünïcødé/репо", Path: "路径/文件.go", Content: "package main"},
	}
	for _, req := range tests {
		resp, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, req.Repo, resp.Repo)
		assert.Equal(t, req.Path, resp.Path)
	}
}

func TestService_AnalyzePublishesEvent(t *testing.T) {
	notifier := new(mockNotifier)
	metrics := new(mockMetrics)
	metrics.On("RecordAnalysis", "success", mock.Anything).Once()
	metrics.On("RecordEventPublished", domain.TopicAnalysisEvents, "success").Once()

	var published domain.Event
	notifier.On("Publish", mock.Anything, domain.TopicAnalysisEvents, mock.AnythingOfType("domain.Event")).
		Run(func(args mock.Arguments) { published = args.Get(2).(domain.Event) }).
		Return(nil).Once()

	svc := NewService(NewStaticAnalyzer(), notifier, metrics, nil)
	fixed := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	_, err := svc.Analyze(context.Background(), widgetsRequest)
	require.NoError(t, err)

	notifier.AssertExpectations(t)
	metrics.AssertExpectations(t)

	_, err = uuid.Parse(published.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.EventTypeAnalysisCompleted, published.Type)
	assert.Equal(t, fixed, published.Timestamp)
	assert.Equal(t, map[string]interface{}{
		"repo":          "acme/widgets",
		"path":          "src/main.py",
		"insight_count": 2,
	}, published.Data)
	assert.NotContains(t, published.Data, "content")
}

func TestService_AnalyzePublishesAfterRequestCancelled(t *testing.T) {
	notifier := new(mockNotifier)

	var pubCtx context.Context
	var pubErr error
	notifier.On("Publish", mock.Anything, domain.TopicAnalysisEvents, mock.Anything).
		Run(func(args mock.Arguments) {
			pubCtx = args.Get(0).(context.Context)
			pubErr = pubCtx.Err()
		}).
		Return(nil).Once()

	svc := NewService(NewStaticAnalyzer(), notifier, nil, nil)
	svc.publishTimeout = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.Analyze(ctx, widgetsRequest)
	require.NoError(t, err)
	notifier.AssertExpectations(t)

	assert.NoError(t, pubErr)
	deadline, ok := pubCtx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now(), deadline, time.Second)
	assert.Error(t, pubCtx.Err(), "publish context is released after publishing")
}

func TestService_AnalyzeNotifierFailureIsNotFatal(t *testing.T) {
	notifier := new(mockNotifier)
	notifier.On("Publish", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("redis down"))
	metrics := new(mockMetrics)
	metrics.On("RecordAnalysis", "success", mock.Anything).Once()
	metrics.On("RecordEventPublished", domain.TopicAnalysisEvents, "error").Once()

	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(NewStaticAnalyzer(), notifier, metrics, zap.New(core))

	resp, err := svc.Analyze(context.Background(), widgetsRequest)
	require.NoError(t, err)
	assert.Len(t, resp.Insights, 2)

	metrics.AssertExpectations(t)
	assert.Equal(t, 1, logs.FilterMessage("failed to publish analysis event").Len())
}

func TestService_AnalyzeAnalyzerError(t *testing.T) {
	analyzer := new(mockAnalyzer)
	analyzer.On("Analyze", mock.Anything, widgetsRequest).Return(nil, errors.New("engine unavailable"))
	notifier := new(mockNotifier)
	metrics := new(mockMetrics)
	metrics.On("RecordAnalysis", "error", mock.Anything).Once()

	svc := NewService(analyzer, notifier, metrics, nil)

	resp, err := svc.Analyze(context.Background(), widgetsRequest)
	require.Error(t, err)
	assert.Nil(t, resp)
	assert.Contains(t, err.Error(), "engine unavailable")

	notifier.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	metrics.AssertExpectations(t)
}
