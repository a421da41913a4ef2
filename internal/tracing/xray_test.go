package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-xray-sdk-go/xraylog"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/race-advisor/internal/config"
)

type text string

func (t text) String() string { return string(t) }

func TestInitializeDisabled(t *testing.T) {
	require.NoError(t, Initialize(config.TracingConfig{Enabled: false}, logrus.New()))
	assert.False(t, Enabled())
}

func TestSegmentsAreNoopsWhenDisabled(t *testing.T) {
	ctx := context.Background()

	segCtx, end := StartSegment(ctx, "sync")
	assert.Equal(t, ctx, segCtx)
	assert.NotPanics(t, func() { end(errors.New("boom")) })

	subCtx, endSub := StartSubsegment(ctx, "fetch")
	assert.Equal(t, ctx, subCtx)
	assert.NotPanics(t, func() { endSub(nil) })

	assert.NotPanics(t, func() {
		AddAnnotation(ctx, "races", 3)
		AddMetadata(ctx, "source", "file")
	})
}

func TestSamplingRules(t *testing.T) {
	var rules struct {
		Version int `json:"version"`
		Default struct {
			FixedTarget int     `json:"fixed_target"`
			Rate        float64 `json:"rate"`
		} `json:"default"`
	}
	require.NoError(t, json.Unmarshal(samplingRules(0.05), &rules))
	assert.Equal(t, 2, rules.Version)
	assert.Equal(t, 1, rules.Default.FixedTarget)
	assert.InDelta(t, 0.05, rules.Default.Rate, 1e-9)
}

func TestLoggerAdapterLevels(t *testing.T) {
	var buf bytes.Buffer
	base := logrus.New()
	base.SetOutput(&buf)
	base.SetLevel(logrus.DebugLevel)
	base.SetFormatter(&logrus.JSONFormatter{})

	adapter := &xrayLoggerAdapter{logger: base.WithField("component", "xray")}
	adapter.Log(xraylog.LogLevelWarn, text("daemon unreachable"))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "daemon unreachable", entry["msg"])
	assert.Equal(t, "xray", entry["component"])
}
