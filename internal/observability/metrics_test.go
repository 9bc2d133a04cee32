package observability

import (
	"bytes"
	"database/sql"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ApiInflightDec()
	m.ObserveAIRequest("tutor", AIOutcomeOK, time.Second)
	m.IncPathGenerated("template")
	m.IncTopicCompletion(true)
	m.IncQuizResult()
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("WritePrometheus on nil: %v", err)
	}
}

func TestWritePrometheus(t *testing.T) {
	m := newMetrics()
	m.ObserveAPI("GET", "/api/me/stats", "200", 30*time.Millisecond)
	m.ObserveAPI("", "", "", time.Millisecond)
	m.ObserveAIRequest("pathgen", AIOutcomeError, 2*time.Second)
	m.ObserveAIRequest("pathgen", AIOutcomeSkipped, 0)
	m.IncPathGenerated("template")
	m.IncTopicCompletion(true)
	m.IncTopicCompletion(false)
	m.IncQuizResult()
	m.recordDBStats(sql.DBStats{OpenConnections: 3, InUse: 1, Idle: 2})

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("WritePrometheus: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`edu_api_requests_total{method="GET",route="/api/me/stats",status="200"} 1`,
		`edu_api_requests_total{method="UNKNOWN",route="unknown",status="0"} 1`,
		`edu_api_request_duration_seconds_bucket{method="GET",route="/api/me/stats",status="200",le="0.05"} 1`,
		`edu_api_request_duration_seconds_bucket{method="GET",route="/api/me/stats",status="200",le="0.025"} 0`,
		`edu_ai_requests_total{feature="pathgen",outcome="error"} 1`,
		`edu_ai_requests_total{feature="pathgen",outcome="skipped"} 1`,
		`edu_ai_request_duration_seconds_count{feature="pathgen"} 1`,
		`edu_paths_generated_total{source="template"} 1`,
		`edu_topic_completions_total{state="completed"} 1`,
		`edu_topic_completions_total{state="reopened"} 1`,
		`edu_quiz_results_total 1`,
		`edu_db_pool{stat="open_connections"} 3`,
		"# TYPE edu_api_inflight_requests gauge",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("exposition missing %q\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"route"}, []string{"a\"b\\c\nd"})
	want := `{route="a\"b\\c\nd"}`
	if got != want {
		t.Fatalf("labelString=%s, want %s", got, want)
	}
	if withLe("", "+Inf") != `{le="+Inf"}` {
		t.Fatalf("withLe without labels=%s", withLe("", "+Inf"))
	}
}

func TestInitDisabledByDefault(t *testing.T) {
	t.Setenv("METRICS_ENABLED", "")
	if Init(nil) != nil {
		t.Fatalf("Init should return nil when METRICS_ENABLED is unset")
	}
}
