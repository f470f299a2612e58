package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	turnsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_turns_total",
			Help: "Processed conversation turns by outcome.",
		},
		[]string{"outcome"},
	)

	turnLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bot_turn_latency_ms",
			Help:    "End-to-end turn processing latency in milliseconds.",
			Buckets: []float64{10, 25, 50, 100, 200, 400, 800, 1600, 3000, 5000},
		},
		[]string{"outcome"},
	)

	intentHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_intent_hits_total",
			Help: "Dispatch route matches by route name.",
		},
		[]string{"route"},
	)

	searchOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_search_outcomes_total",
			Help: "Catalog search resolutions by layer (exact_name, exact_tag, scored, scored_unfiltered, scored_keywords, no_match).",
		},
		[]string{"layer"},
	)

	translationFallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_translation_fallbacks_total",
			Help: "Translation pipeline fallbacks by stage (word_by_word, translit_dict, identity).",
		},
		[]string{"stage"},
	)

	cartOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_cart_ops_total",
			Help: "Cart mutations by operation (add, clear, checkout).",
		},
		[]string{"op"},
	)
)

func init() {
	register(turnsTotal, turnLatencyMs, intentHits, searchOutcomes, translationFallbacks, cartOps)
}

func IncTurn(outcome string) { turnsTotal.WithLabelValues(outcome).Inc() }

func ObserveTurnLatency(outcome string, ms float64) {
	turnLatencyMs.WithLabelValues(outcome).Observe(ms)
}

func IncIntentHit(route string) { intentHits.WithLabelValues(route).Inc() }

func IncSearchOutcome(layer string) { searchOutcomes.WithLabelValues(layer).Inc() }

func IncTranslationFallback(stage string) { translationFallbacks.WithLabelValues(stage).Inc() }

func IncCartOp(op string) { cartOps.WithLabelValues(op).Inc() }
