package metrics

import (
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_turns_total",
			Help: "Chat turns by outcome (success/invalid/locked/failure).",
		},
		[]string{"outcome"},
	)

	moodsClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moods_classified_total",
			Help: "Messages classified per mood label.",
		},
		[]string{"mood"},
	)

	dominantMoodUpdates = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dominant_mood_updates_total",
			Help: "Mood profile upserts per resulting dominant mood.",
		},
		[]string{"mood"},
	)

	aiTokensIn = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_in",
			Help: "Sum of prompt (input) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiTokensOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_tokens_out",
			Help: "Sum of completion (output) tokens per provider.",
		},
		[]string{"provider"},
	)

	aiCallsLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ai_calls_latency_ms",
			Help:    "Generation call latency distribution in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000, 10000},
		},
		[]string{"provider", "success"},
	)

	semanticHits = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "semantic_retrieval_results",
			Help:    "Number of entries returned per similarity retrieval.",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		},
	)

	sessionsEvicted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "conversation_sessions_evicted_total",
			Help: "Conversation buffers evicted by TTL or LRU pressure.",
		},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			turnsTotal, moodsClassified, dominantMoodUpdates,
			aiTokensIn, aiTokensOut, aiCallsLatencyMs,
			semanticHits, sessionsEvicted,
		)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// -------- Turn helpers --------

func IncTurn(outcome string)           { turnsTotal.WithLabelValues(norm(outcome)).Inc() }
func IncMood(mood string)              { moodsClassified.WithLabelValues(norm(mood)).Inc() }
func IncDominantUpdate(mood string)    { dominantMoodUpdates.WithLabelValues(norm(mood)).Inc() }
func ObserveRetrieval(results int)     { semanticHits.Observe(float64(results)) }
func AddSessionsEvicted(n int)         { sessionsEvicted.Add(float64(n)) }

// -------- Generation helpers --------

func ObserveGeneration(provider string, tokensIn, tokensOut, latencyMs int, success bool) {
	aiTokensIn.WithLabelValues(norm(provider)).Add(float64(tokensIn))
	aiTokensOut.WithLabelValues(norm(provider)).Add(float64(tokensOut))
	aiCallsLatencyMs.WithLabelValues(norm(provider), strconv.FormatBool(success)).
		Observe(float64(latencyMs))
}
