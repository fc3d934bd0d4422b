package storage

import (
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// SimpleMetricsCollector keeps storage operation metrics in memory
type SimpleMetricsCollector struct {
	metrics []StorageMetrics
	logger  zerolog.Logger
	mutex   sync.RWMutex
}

// NewSimpleMetricsCollector creates a collector that also debug-logs every metric
func NewSimpleMetricsCollector(logger zerolog.Logger) *SimpleMetricsCollector {
	return &SimpleMetricsCollector{logger: logger}
}

// RecordMetric records a storage operation metric
func (s *SimpleMetricsCollector) RecordMetric(metric StorageMetrics) {
	s.mutex.Lock()
	s.metrics = append(s.metrics, metric)
	s.mutex.Unlock()

	event := s.logger.Debug().
		Str("operation", metric.OperationType).
		Str("backend", metric.Backend).
		Int64("duration_ns", metric.Duration).
		Bool("success", metric.Success)
	if metric.Error != nil {
		event = event.Err(metric.Error)
	}
	event.Msg("Storage operation metric recorded")
}

// GetMetrics returns a copy of all collected metrics
func (s *SimpleMetricsCollector) GetMetrics() []StorageMetrics {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make([]StorageMetrics, len(s.metrics))
	copy(result, s.metrics)
	return result
}

// Summary groups collected metrics by backend, then operation
func (s *SimpleMetricsCollector) Summary() map[string]map[string]*OperationStats {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	byBackend := make(map[string]map[string]*OperationStats)
	for _, metric := range s.metrics {
		if byBackend[metric.Backend] == nil {
			byBackend[metric.Backend] = make(map[string]*OperationStats)
		}
		stats := byBackend[metric.Backend][metric.OperationType]
		if stats == nil {
			stats = &OperationStats{MinDuration: metric.Duration, MaxDuration: metric.Duration}
			byBackend[metric.Backend][metric.OperationType] = stats
		}
		stats.add(metric)
	}
	return byBackend
}

// OperationStats holds statistics for a specific operation type
type OperationStats struct {
	Count         int   `json:"count"`
	SuccessCount  int   `json:"success_count"`
	FailureCount  int   `json:"failure_count"`
	TotalDuration int64 `json:"total_duration_ns"`
	MinDuration   int64 `json:"min_duration_ns"`
	MaxDuration   int64 `json:"max_duration_ns"`
}

func (o *OperationStats) add(metric StorageMetrics) {
	o.Count++
	o.TotalDuration += metric.Duration
	if metric.Success {
		o.SuccessCount++
	} else {
		o.FailureCount++
	}
	o.MinDuration = min(o.MinDuration, metric.Duration)
	o.MaxDuration = max(o.MaxDuration, metric.Duration)
}

// SuccessRate returns the success rate as a percentage
func (o *OperationStats) SuccessRate() float64 {
	if o.Count == 0 {
		return 0.0
	}
	return float64(o.SuccessCount) / float64(o.Count) * 100.0
}

// AvgDurationMs returns the average duration in milliseconds
func (o *OperationStats) AvgDurationMs() float64 {
	if o.Count == 0 {
		return 0.0
	}
	return float64(o.TotalDuration) / float64(o.Count) / float64(time.Millisecond)
}
