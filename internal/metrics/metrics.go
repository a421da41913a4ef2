// Package metrics provides the centralized Prometheus metrics registry for the race advisor.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RacesSummarizedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "race_advisor",
		Name:      "races_summarized_total",
		Help:      "Total number of races summarized",
	})
	RecommendationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "race_advisor",
		Name:      "recommendations_total",
		Help:      "Total number of recommendations by bet type",
	}, []string{"bet"})
	MalformedEntriesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "race_advisor",
		Name:      "malformed_entries_total",
		Help:      "Total number of races skipped for malformed entries",
	}, []string{"stage"})
	SourceFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "race_advisor",
		Name:      "source_fetch_total",
		Help:      "Total number of data source fetches by outcome",
	}, []string{"source", "status"})
	ConfidenceCacheTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "race_advisor",
		Name:      "confidence_cache_total",
		Help:      "Confidence model cache lookups by result",
	}, []string{"result"})
)

// Gauge metrics
var (
	CorpusSize = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "race_advisor",
		Name:      "corpus_races",
		Help:      "Number of races in the most recently loaded corpus",
	})
)

// Histogram metrics
var (
	AdvisorConfidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "race_advisor",
		Name:      "advisor_confidence",
		Help:      "Distribution of recommendation confidence values",
		Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
	})
	AnalysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "race_advisor",
		Name:      "analysis_duration_seconds",
		Help:      "Duration of advisory runs in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	ConfidenceLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "race_advisor",
		Name:      "confidence_latency_seconds",
		Help:      "Latency of remote confidence model requests in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RacesSummarizedTotal)
		registry.MustRegister(RecommendationsTotal)
		registry.MustRegister(MalformedEntriesTotal)
		registry.MustRegister(SourceFetchTotal)
		registry.MustRegister(ConfidenceCacheTotal)

		registry.MustRegister(CorpusSize)

		registry.MustRegister(AdvisorConfidence)
		registry.MustRegister(AnalysisDuration)
		registry.MustRegister(ConfidenceLatency)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRaceSummarized records a race summary.
func RecordRaceSummarized() {
	RacesSummarizedTotal.Inc()
}

// RecordRecommendation records a recommendation and its confidence.
func RecordRecommendation(bet string, confidence float64) {
	RecommendationsTotal.WithLabelValues(bet).Inc()
	AdvisorConfidence.Observe(confidence)
}

// RecordMalformedEntry records a race skipped at a pipeline stage.
func RecordMalformedEntry(stage string) {
	MalformedEntriesTotal.WithLabelValues(stage).Inc()
}

// RecordSourceFetch records a data source fetch outcome.
func RecordSourceFetch(source, status string) {
	SourceFetchTotal.WithLabelValues(source, status).Inc()
}

// RecordConfidenceCache records a confidence cache lookup.
func RecordConfidenceCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	ConfidenceCacheTotal.WithLabelValues(result).Inc()
}

// RecordConfidenceLatency records a remote confidence request latency.
func RecordConfidenceLatency(durationSeconds float64) {
	ConfidenceLatency.Observe(durationSeconds)
}

// RecordAnalysisRun records an advisory run duration.
func RecordAnalysisRun(durationSeconds float64) {
	AnalysisDuration.Observe(durationSeconds)
}

// UpdateCorpusSize updates the corpus size gauge.
func UpdateCorpusSize(races int) {
	CorpusSize.Set(float64(races))
}
