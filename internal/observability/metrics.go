package observability

import (
	"context"
	"database/sql"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/edusmart-backend/internal/platform/envutil"
	"github.com/yungbote/edusmart-backend/internal/platform/logger"
)

// AI call outcomes.
const (
	AIOutcomeOK       = "ok"
	AIOutcomeSkipped  = "skipped"
	AIOutcomeError    = "error"
	AIOutcomeRejected = "rejected"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge

	aiRequests *CounterVec
	aiLatency  *HistogramVec

	pathsGenerated   *CounterVec
	topicCompletions *CounterVec
	quizResults      *Counter

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current is nil until Init ran with metrics enabled. All methods accept a nil
// receiver.
func Current() *Metrics {
	return instance
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = newMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func newMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("edu_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"edu_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		),
		apiInflight: NewGauge("edu_api_inflight_requests", "In-flight API requests."),
		aiRequests:  NewCounterVec("edu_ai_requests_total", "Text generation attempts by feature/outcome.", []string{"feature", "outcome"}),
		aiLatency: NewHistogramVec(
			"edu_ai_request_duration_seconds",
			"Text generation latency in seconds by feature.",
			[]string{"feature"},
			[]float64{0.25, 0.5, 1, 2, 5, 10, 20, 30, 60},
		),
		pathsGenerated:   NewCounterVec("edu_paths_generated_total", "Learning paths created by source.", []string{"source"}),
		topicCompletions: NewCounterVec("edu_topic_completions_total", "Topic completion changes by state.", []string{"state"}),
		quizResults:      NewCounter("edu_quiz_results_total", "Quiz results saved."),
		dbStats:          NewGaugeVec("edu_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:          NewGauge("edu_redis_up", "1 when the last Redis ping succeeded."),
		redisPing:        NewGauge("edu_redis_ping_seconds", "Last Redis ping latency."),
	}
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range []collector{
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.aiRequests,
		m.aiLatency,
		m.pathsGenerated,
		m.topicCompletions,
		m.quizResults,
		m.dbStats,
		m.redisUp,
		m.redisPing,
	} {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

// ObserveAIRequest records one text generation attempt. dur is ignored for
// skipped attempts.
func (m *Metrics) ObserveAIRequest(feature, outcome string, dur time.Duration) {
	if m == nil {
		return
	}
	m.aiRequests.Inc(feature, outcome)
	if outcome != AIOutcomeSkipped {
		m.aiLatency.Observe(dur.Seconds(), feature)
	}
}

func (m *Metrics) IncPathGenerated(source string) {
	if m == nil {
		return
	}
	m.pathsGenerated.Inc(source)
}

func (m *Metrics) IncTopicCompletion(done bool) {
	if m == nil {
		return
	}
	state := "reopened"
	if done {
		state = "completed"
	}
	m.topicCompletions.Inc(state)
}

func (m *Metrics) IncQuizResult() {
	if m == nil {
		return
	}
	m.quizResults.Inc()
}

func scrapeInterval() time.Duration {
	return envutil.Seconds("METRICS_SCRAPE_INTERVAL_SECONDS", 15)
}

// StartDBCollector samples the sql.DB pool until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				m.recordDBStats(sqlDB.Stats())
			}
		}
	}()
}

func (m *Metrics) recordDBStats(stats sql.DBStats) {
	m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
	m.dbStats.Set(float64(stats.InUse), "in_use")
	m.dbStats.Set(float64(stats.Idle), "idle")
	m.dbStats.Set(float64(stats.WaitCount), "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
}

// StartRedisCollector pings client until ctx is done. The caller owns client.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, client *redis.Client) {
	if m == nil || client == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := client.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
