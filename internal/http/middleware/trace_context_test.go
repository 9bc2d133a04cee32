package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/edusmart-backend/internal/platform/ctxutil"
)

func TestSanitizeRequestID(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  abc-123  ", "abc-123"},
		{"req_1.2", "req_1.2"},
		{"has space", ""},
		{"new\nline", ""},
		{strings.Repeat("a", maxRequestIDLength), strings.Repeat("a", maxRequestIDLength)},
		{strings.Repeat("a", maxRequestIDLength+1), ""},
	}
	for _, tc := range cases {
		if got := sanitizeRequestID(tc.in); got != tc.want {
			t.Fatalf("sanitizeRequestID(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestAttachTraceContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var seen *ctxutil.TraceData
	r := gin.New()
	r.Use(AttachTraceContext())
	r.GET("/x", func(c *gin.Context) {
		seen = ctxutil.GetTraceData(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "client-req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen == nil || seen.RequestID != "client-req-1" {
		t.Fatalf("trace data=%+v, want client request id", seen)
	}
	if got := rec.Header().Get(headerRequestID); got != "client-req-1" {
		t.Fatalf("echoed request id=%q", got)
	}
	if rec.Header().Get(headerTraceID) == "" {
		t.Fatalf("missing trace id header")
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(headerRequestID, "<script>")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(headerRequestID); got == "<script>" || got == "" {
		t.Fatalf("unsafe request id not replaced: %q", got)
	}
}
