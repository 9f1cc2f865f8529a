package analysis

import (
	"context"

	"github.com/aescanero/analysis-api/pkg/domain"
)

// Insights returned by StaticAnalyzer, in order
const (
	InsightDependencyGraph = "Dependency graph updated."
	InsightNoDrift         = "No architectural drift detected."
)

// Analyzer produces insights for a single file
type Analyzer interface {
	Analyze(ctx context.Context, req domain.AnalysisRequest) ([]string, error)
}

// StaticAnalyzer returns the same insights for every file.
// It stands in for a real analysis engine.
type StaticAnalyzer struct {
	insights []string
}

// NewStaticAnalyzer creates an analyzer reporting the default insights
func NewStaticAnalyzer() *StaticAnalyzer {
	return &StaticAnalyzer{
		insights: []string{InsightDependencyGraph, InsightNoDrift},
	}
}

// Analyze returns a copy of the fixed insights; req is not inspected
func (a *StaticAnalyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) ([]string, error) {
	out := make([]string, len(a.insights))
	copy(out, a.insights)
	return out, nil
}
