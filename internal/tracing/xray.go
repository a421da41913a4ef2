// Package tracing provides AWS X-Ray distributed tracing integration.
package tracing

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-xray-sdk-go/strategy/ctxmissing"
	"github.com/aws/aws-xray-sdk-go/strategy/sampling"
	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/race-advisor/internal/config"
)

var enabled atomic.Bool

// Logger adapter for X-Ray SDK.
type xrayLoggerAdapter struct {
	logger *logrus.Entry
}

func (l *xrayLoggerAdapter) Log(level xraylog.LogLevel, msg fmt.Stringer) {
	switch level {
	case xraylog.LogLevelDebug:
		l.logger.Debug(msg.String())
	case xraylog.LogLevelInfo:
		l.logger.Info(msg.String())
	case xraylog.LogLevelWarn:
		l.logger.Warn(msg.String())
	case xraylog.LogLevelError:
		l.logger.Error(msg.String())
	}
}

// Initialize configures AWS X-Ray. Tracing stays off unless cfg.Enabled.
func Initialize(cfg config.TracingConfig, logger *logrus.Logger) error {
	if !cfg.Enabled {
		enabled.Store(false)
		return nil
	}

	strategy, err := sampling.NewLocalizedStrategyFromJSONBytes(samplingRules(cfg.SamplingRate))
	if err != nil {
		return fmt.Errorf("failed to build sampling strategy: %w", err)
	}

	xray.SetLogger(&xrayLoggerAdapter{logger: logger.WithField("component", "xray")})

	if err := xray.Configure(xray.Config{
		DaemonAddr:             cfg.DaemonAddr,
		ServiceVersion:         cfg.ServiceVersion,
		SamplingStrategy:       strategy,
		ContextMissingStrategy: ctxmissing.NewDefaultIgnoreErrorStrategy(),
	}); err != nil {
		return fmt.Errorf("failed to configure X-Ray: %w", err)
	}
	enabled.Store(true)

	logger.WithFields(logrus.Fields{
		"daemon_addr":   cfg.DaemonAddr,
		"sampling_rate": cfg.SamplingRate,
	}).Info("AWS X-Ray initialized")

	return nil
}

// Enabled reports whether segments are being recorded
func Enabled() bool {
	return enabled.Load()
}

func samplingRules(rate float64) []byte {
	return []byte(fmt.Sprintf(`{"version":2,"default":{"fixed_target":1,"rate":%g},"rules":[]}`, rate))
}

// StartSegment starts a new X-Ray segment. The returned func closes it,
// recording err when non-nil. Both are no-ops while tracing is disabled.
func StartSegment(ctx context.Context, segmentName string) (context.Context, func(error)) {
	if !Enabled() {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSegment(ctx, segmentName)
	return ctx, closer(seg)
}

// StartSubsegment starts a new X-Ray subsegment under the segment in ctx.
func StartSubsegment(ctx context.Context, subsegmentName string) (context.Context, func(error)) {
	if !Enabled() {
		return ctx, func(error) {}
	}
	ctx, seg := xray.BeginSubsegment(ctx, subsegmentName)
	return ctx, closer(seg)
}

func closer(seg *xray.Segment) func(error) {
	return func(err error) {
		if seg == nil {
			return
		}
		if err != nil {
			_ = seg.AddError(err)
		}
		seg.Close(err)
	}
}

// AddAnnotation adds an annotation to the current segment.
func AddAnnotation(ctx context.Context, key string, value interface{}) {
	if !Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddAnnotation(key, value)
	}
}

// AddMetadata adds metadata to the current segment.
func AddMetadata(ctx context.Context, key string, value interface{}) {
	if !Enabled() {
		return
	}
	if seg := xray.GetSegment(ctx); seg != nil {
		_ = seg.AddMetadata(key, value)
	}
}
