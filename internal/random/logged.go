package random

import (
	"context"

	"go.uber.org/zap"
)

// LoggedSource wraps a Source and logs every draw at debug level and every
// failure at warn level.
type LoggedSource struct {
	src    Source
	logger *zap.Logger
}

// NewLogged creates a LoggedSource.
//
// Precondition: src and logger must be non-nil.
func NewLogged(src Source, logger *zap.Logger) *LoggedSource {
	return &LoggedSource{src: src, logger: logger}
}

// Float64 draws from the wrapped source and logs the result.
func (l *LoggedSource) Float64(ctx context.Context) (float64, error) {
	v, err := l.src.Float64(ctx)
	if err != nil {
		l.logger.Warn("random draw failed", zap.Error(err))
		return 0, err
	}
	l.logger.Debug("random draw", zap.Float64("value", v))
	return v, nil
}
