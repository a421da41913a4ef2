package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
	assert.Same(t, registry, InitRegistry())
}

func TestRecordRaceSummarized(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(RacesSummarizedTotal)

	RecordRaceSummarized()

	assert.Equal(t, before+1, testutil.ToFloat64(RacesSummarizedTotal))
}

func TestRecordRecommendation(t *testing.T) {
	InitRegistry()
	before := testutil.ToFloat64(RecommendationsTotal.WithLabelValues("Win"))

	assert.NotPanics(t, func() {
		RecordRecommendation("Win", 0.81)
	})
	assert.Equal(t, before+1, testutil.ToFloat64(RecommendationsTotal.WithLabelValues("Win")))
}

func TestRecordSourceFetch(t *testing.T) {
	InitRegistry()
	RecordSourceFetch("hkjc", "access_denied")

	assert.GreaterOrEqual(t, testutil.ToFloat64(SourceFetchTotal.WithLabelValues("hkjc", "access_denied")), 1.0)
}

func TestUpdateCorpusSize(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name  string
		races int
	}{
		{name: "empty corpus", races: 0},
		{name: "populated corpus", races: 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			UpdateCorpusSize(tt.races)
			assert.Equal(t, float64(tt.races), testutil.ToFloat64(CorpusSize))
		})
	}
}

func TestHandler(t *testing.T) {
	InitRegistry()
	RecordMalformedEntry("advise")
	RecordConfidenceCache(true)

	recorder := httptest.NewRecorder()
	Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "race_advisor_malformed_entries_total")
	assert.Contains(t, recorder.Body.String(), "race_advisor_confidence_cache_total")
}
