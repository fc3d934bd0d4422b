// Package storage publishes finished corpora into dataset repositories.
package storage

import (
	"context"
)

// PublishRequest describes one finished corpus to publish
type PublishRequest struct {
	CorpusPath    string // local path of the finalized corpus file
	Conversations int
	RunID         string // generated when empty
}

// Publisher stores a finalized corpus and returns a revision identifier
type Publisher interface {
	Publish(ctx context.Context, req PublishRequest) (string, error)
	Health(ctx context.Context) error
}

// StorageMetrics provides telemetry for storage operations
type StorageMetrics struct {
	OperationType string
	Duration      int64 // nanoseconds
	Success       bool
	Backend       string
	Error         error
}

// MetricsCollector receives storage operation metrics
type MetricsCollector interface {
	RecordMetric(metric StorageMetrics)
}
