package domain

import (
	"context"
	"time"
)

// EventType identifies what happened
type EventType string

const (
	EventTypeAnalysisCompleted EventType = "analysis.completed"
)

// TopicAnalysisEvents is the topic analysis events are published on
const TopicAnalysisEvents = "analysis.events"

// Event is a notification emitted by the service
type Event struct {
	ID        string                 `json:"id"`
	Type      EventType              `json:"type"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

// EventHandler processes a received event
type EventHandler func(ctx context.Context, event Event) error
