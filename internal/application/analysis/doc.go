// Package analysis implements the application logic behind POST /analyze.
//
// The service:
//   - Runs an Analyzer over the submitted file
//   - Builds the response, echoing repo and path
//   - Records analysis metrics
//   - Publishes an analysis.completed event when a notifier is configured
//
// StaticAnalyzer is the only Analyzer shipped; it reports fixed insights.
package analysis
