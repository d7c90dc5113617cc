package observability

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records database query latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "projecthub_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// NotificationFanout counts notification deliveries by event type and outcome.
	NotificationFanout = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "projecthub_notification_fanout_total",
		Help: "Total notification fan-out deliveries by event type and outcome",
	}, []string{"event", "outcome"})

	// MessagesSent counts direct messages accepted for delivery.
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecthub_messages_sent_total",
		Help: "Total direct messages sent",
	})

	// SearchQueries counts project search executions.
	SearchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "projecthub_search_queries_total",
		Help: "Total project search queries executed",
	})
)

// RecordFanout records a single notification delivery outcome.
func RecordFanout(event string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	NotificationFanout.WithLabelValues(event, outcome).Inc()
}

// ObserveQuery records one query's latency, labelling it with the operation
// and target table derived from the SQL text.
func ObserveQuery(sql string, elapsed time.Duration) {
	operation, table := classifyQuery(sql)
	DatabaseQueryLatency.WithLabelValues(operation, table).Observe(elapsed.Seconds())
}

// classifyQuery extracts the statement verb and the table it targets. GORM
// generates plain statements, so a token scan is enough; anything it cannot
// place is bucketed as "other"/"unknown" to keep label cardinality bounded.
func classifyQuery(sql string) (operation, table string) {
	tokens := strings.Fields(sql)
	if len(tokens) == 0 {
		return "other", "unknown"
	}

	operation = strings.ToLower(tokens[0])
	var after string
	switch operation {
	case "select", "delete":
		after = "from"
	case "insert":
		after = "into"
	case "update":
		if len(tokens) > 1 {
			return operation, trimIdentifier(tokens[1])
		}
	default:
		return "other", "unknown"
	}

	for i, tok := range tokens {
		if strings.EqualFold(tok, after) && i+1 < len(tokens) {
			return operation, trimIdentifier(tokens[i+1])
		}
	}
	return operation, "unknown"
}

func trimIdentifier(tok string) string {
	tok = strings.Trim(tok, "\"`'(),;")
	if tok == "" {
		return "unknown"
	}
	return tok
}
