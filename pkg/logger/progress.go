package logger

import (
	"fmt"
	"sync"
	"time"
)

// ProgressTracker reports progress across a batch of statement files.
// It is safe for concurrent use by pool workers.
type ProgressTracker struct {
	logger    Logger
	operation string
	total     int
	succeeded int
	failed    int
	startTime time.Time
	mutex     sync.Mutex
	now       func() time.Time
}

// NewProgressTracker creates a tracker for total items
func NewProgressTracker(operation string, total int, logger Logger) *ProgressTracker {
	if logger == nil {
		logger = GetGlobalLogger()
	}

	tracker := &ProgressTracker{
		logger:    logger.WithComponent("progress"),
		operation: operation,
		total:     total,
		now:       time.Now,
	}
	tracker.startTime = tracker.now()

	tracker.logger.WithFields(Fields{
		"operation": operation,
		"total":     total,
	}).Info("Starting batch")

	return tracker
}

// Done records the outcome of one item and logs a progress line
func (p *ProgressTracker) Done(item string, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if err != nil {
		p.failed++
	} else {
		p.succeeded++
	}

	fields := Fields{
		"operation": p.operation,
		"item":      item,
		"processed": p.succeeded + p.failed,
		"total":     p.total,
	}
	if p.total > 0 {
		fields["percentage"] = fmt.Sprintf("%.1f%%", float64(p.succeeded+p.failed)/float64(p.total)*100)
	}

	if err != nil {
		p.logger.WithError(err).WithFields(fields).Warn("Item failed")
		return
	}
	p.logger.WithFields(fields).Info("Item processed")
}

// Complete logs final batch statistics and returns them
func (p *ProgressTracker) Complete() ProgressStats {
	stats := p.Stats()

	entry := p.logger.WithFields(Fields{
		"operation": p.operation,
		"succeeded": stats.Succeeded,
		"failed":    stats.Failed,
		"duration":  stats.Duration.String(),
	})
	if stats.Failed > 0 {
		entry.Warn("Batch completed with failures")
	} else {
		entry.Info("Batch completed")
	}

	return stats
}

// Stats returns current progress statistics
func (p *ProgressTracker) Stats() ProgressStats {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	return ProgressStats{
		Operation: p.operation,
		Total:     p.total,
		Succeeded: p.succeeded,
		Failed:    p.failed,
		Duration:  p.now().Sub(p.startTime),
	}
}

// ProgressStats contains progress statistics
type ProgressStats struct {
	Operation string        `json:"operation"`
	Total     int           `json:"total"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

func (ps ProgressStats) String() string {
	return fmt.Sprintf("%s: %d/%d processed (%d failed) in %v",
		ps.Operation, ps.Succeeded+ps.Failed, ps.Total, ps.Failed, ps.Duration)
}

// OperationLogger provides structured logging for one timed operation
type OperationLogger struct {
	logger    Logger
	operation string
	fields    Fields
	startTime time.Time
}

// NewOperationLogger creates a new operation logger
func NewOperationLogger(operation string, logger Logger) *OperationLogger {
	if logger == nil {
		logger = GetGlobalLogger()
	}

	ol := &OperationLogger{
		logger:    logger,
		operation: operation,
		fields:    Fields{"operation": operation},
		startTime: time.Now(),
	}

	ol.logger.WithFields(ol.fields).Debug("Starting operation")
	return ol
}

// WithField adds a field to the operation context
func (ol *OperationLogger) WithField(key string, value interface{}) *OperationLogger {
	ol.fields[key] = value
	return ol
}

// Success completes the operation successfully
func (ol *OperationLogger) Success(message string) {
	ol.logger.WithFields(ol.fields).WithFields(Fields{
		"duration": time.Since(ol.startTime).String(),
		"status":   "success",
	}).Info(message)
}

// Error completes the operation with an error
func (ol *OperationLogger) Error(err error, message string) {
	ol.logger.WithError(err).WithFields(ol.fields).WithFields(Fields{
		"duration": time.Since(ol.startTime).String(),
		"status":   "error",
	}).Error(message)
}

// TimedOperation executes fn and logs its duration and outcome
func TimedOperation(operation string, logger Logger, fn func() error) error {
	ol := NewOperationLogger(operation, logger)

	if err := fn(); err != nil {
		ol.Error(err, "Operation failed")
		return err
	}

	ol.Success("Operation completed")
	return nil
}
