package audit

import (
	"go.uber.org/zap"

	"purgeall/internal/model"
)

// Recorder writes deletion attempt/success events, honoring the
// audit_deletions switch. IO failures are logged and swallowed: auditing
// must never block a deletion.
type Recorder struct {
	log     *Log
	logger  *zap.Logger
	enabled bool
}

// NewRecorder opens the audit log at path. When disabled, both Attempt
// and Success are no-ops. An unopenable log degrades to structured
// logging only; NewRecorder itself never fails.
func NewRecorder(path string, enabled bool, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{logger: logger, enabled: enabled}
	if !enabled || path == "" {
		return r
	}

	log, err := Open(path)
	if err != nil {
		logger.Warn("audit log unavailable, falling back to structured logging",
			zap.String("path", path), zap.Error(err))
		return r
	}
	r.log = log
	return r
}

// Attempt records a deletion attempt for (identifier, count) by actor.
func (r *Recorder) Attempt(id model.Identifier, count int64, actor string) {
	r.record(EventAttempt, id, count, actor)
}

// Success records a completed deletion of deletedCount records by actor.
func (r *Recorder) Success(id model.Identifier, deletedCount int64, actor string) {
	r.record(EventSuccess, id, deletedCount, actor)
}

func (r *Recorder) record(event string, id model.Identifier, count int64, actor string) {
	if !r.enabled {
		return
	}

	r.logger.Info("deletion "+event,
		zap.String("namespace", id.Namespace),
		zap.String("model", id.Name),
		zap.Int64("count", count),
		zap.String("actor", actor))

	if r.log == nil {
		return
	}
	err := r.log.Record(Entry{
		Event:     event,
		Namespace: id.Namespace,
		Model:     id.Name,
		Count:     count,
		Actor:     actor,
	})
	if err != nil {
		r.logger.Warn("audit write failed", zap.Error(err))
	}
}

// Close closes the underlying log file, if any.
func (r *Recorder) Close() error {
	if r.log == nil {
		return nil
	}
	return r.log.Close()
}
