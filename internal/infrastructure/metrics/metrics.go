package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Thread-API Metrics
var (
	// Request counters
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	// Request duration histogram
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Threads
	ThreadsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "threads_created_total",
			Help:      "Total threads created",
		},
	)

	ThreadsDeletedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "threads_deleted_total",
			Help:      "Total threads deleted",
		},
	)

	// Messages
	MessagesCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "messages_created_total",
			Help:      "Total messages created",
		},
		[]string{"role"},
	)

	MessagesDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "messages_deleted_total",
			Help:      "Total messages deleted",
		},
		[]string{"mode"},
	)

	// Generations
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "generations_total",
			Help:      "Generation runs by terminal status",
		},
		[]string{"model", "status"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "generation_duration_seconds",
			Help:      "Generation run duration in seconds",
			Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120},
		},
		[]string{"model"},
	)

	// Active generation runs gauge
	ActiveGenerations = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "active_generations",
			Help:      "Currently active generation runs",
		},
		[]string{"model"},
	)

	// Token counters
	TokensPromptTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "tokens_prompt_total",
			Help:      "Total prompt tokens consumed",
		},
		[]string{"model"},
	)

	TokensCompletionTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "tokens_completion_total",
			Help:      "Total completion tokens generated",
		},
		[]string{"model"},
	)

	// Usage cost in USD, accumulated from per-generation audit records
	UsageCostTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "usage_cost_usd_total",
			Help:      "Accumulated estimated generation cost in USD",
		},
		[]string{"model"},
	)

	// Sharing metrics
	SharesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "shares_total",
			Help:      "Share create/revoke attempts",
		},
		[]string{"action", "status"},
	)

	PublicShareRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "public_share_requests_total",
			Help:      "Public share fetch requests",
		},
		[]string{"method", "status"},
	)

	// User agent metrics (normalized to keep low cardinality)
	UserAgentsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "user_agents_total",
			Help:      "Requests by normalized user agent",
		},
		[]string{"user_agent"},
	)

	UserAgentFamilyTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jan",
			Subsystem: "thread_api",
			Name:      "user_agent_family_total",
			Help:      "Requests by user agent family (browser/cli/sdk/unknown)",
		},
		[]string{"family"},
	)
)

// RecordRequest records an HTTP request with all relevant labels
func RecordRequest(method, endpoint, status string, durationSec float64) {
	RequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	RequestDuration.WithLabelValues(method, endpoint, status).Observe(durationSec)
}

// RecordThreadCreated records a thread creation
func RecordThreadCreated() {
	ThreadsCreatedTotal.Inc()
}

// RecordThreadDeleted records a thread deletion
func RecordThreadDeleted() {
	ThreadsDeletedTotal.Inc()
}

// RecordMessageCreated records a message creation by role
func RecordMessageCreated(role string) {
	if role == "" {
		role = "unknown"
	}
	MessagesCreatedTotal.WithLabelValues(role).Inc()
}

// RecordMessagesDeleted records message deletions. Mode is "single",
// "trailing" or "inclusive_trailing".
func RecordMessagesDeleted(mode string, count int) {
	if count <= 0 {
		return
	}
	MessagesDeletedTotal.WithLabelValues(mode).Add(float64(count))
}

// RecordGeneration records a generation run reaching a terminal status
func RecordGeneration(model, status string, durationSec float64) {
	GenerationsTotal.WithLabelValues(model, status).Inc()
	GenerationDuration.WithLabelValues(model).Observe(durationSec)
}

// IncrementActiveGenerations increments the active generations gauge
func IncrementActiveGenerations(model string) {
	ActiveGenerations.WithLabelValues(model).Inc()
}

// DecrementActiveGenerations decrements the active generations gauge
func DecrementActiveGenerations(model string) {
	ActiveGenerations.WithLabelValues(model).Dec()
}

// RecordTokens records token usage for a generation run
func RecordTokens(model string, promptTokens, completionTokens int) {
	TokensPromptTotal.WithLabelValues(model).Add(float64(promptTokens))
	TokensCompletionTotal.WithLabelValues(model).Add(float64(completionTokens))
}

// RecordUsageCost accumulates the estimated cost of a generation run
func RecordUsageCost(model string, costUSD float64) {
	if costUSD <= 0 {
		return
	}
	UsageCostTotal.WithLabelValues(model).Add(costUSD)
}

// RecordShare records a share create/revoke attempt
func RecordShare(action, status string) {
	if action == "" {
		action = "unknown"
	}
	if status == "" {
		status = "unknown"
	}
	SharesTotal.WithLabelValues(action, status).Inc()
}

// RecordPublicShareRequest records a public share GET/HEAD
func RecordPublicShareRequest(method, status string) {
	if method == "" {
		method = "UNKNOWN"
	}
	if status == "" {
		status = "unknown"
	}
	PublicShareRequestsTotal.WithLabelValues(method, status).Inc()
}

// RecordUserAgent records UA metrics with normalization and family bucketing
func RecordUserAgent(ua string) {
	norm := normalizeUserAgent(ua)
	family := userAgentFamily(norm)
	UserAgentsTotal.WithLabelValues(norm).Inc()
	UserAgentFamilyTotal.WithLabelValues(family).Inc()
}

func normalizeUserAgent(ua string) string {
	ua = strings.TrimSpace(strings.ToLower(ua))
	if ua == "" {
		return "unknown"
	}
	parts := strings.Fields(ua)
	norm := parts[0]
	if len(norm) > 60 {
		norm = norm[:60]
	}
	return norm
}

func userAgentFamily(normUA string) string {
	switch {
	case strings.Contains(normUA, "mozilla") || strings.Contains(normUA, "chrome") || strings.Contains(normUA, "safari") || strings.Contains(normUA, "firefox") || strings.Contains(normUA, "edge"):
		return "browser"
	case strings.Contains(normUA, "curl") || strings.Contains(normUA, "wget") || strings.Contains(normUA, "httpie"):
		return "cli"
	case strings.Contains(normUA, "postman") || strings.Contains(normUA, "insomnia"):
		return "api_client"
	case strings.Contains(normUA, "okhttp") || strings.Contains(normUA, "cfnetwork"):
		return "mobile"
	case strings.Contains(normUA, "axios") || strings.Contains(normUA, "fetch") || strings.Contains(normUA, "python-requests") || strings.Contains(normUA, "go-http-client") || strings.Contains(normUA, "java"):
		return "sdk"
	default:
		return "unknown"
	}
}
