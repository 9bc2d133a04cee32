package observability

import (
	"reflect"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := parseHeaders(" a=1, bad ,b = 2,c=")
	want := map[string]string{"a": "1", "b": "2"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parseHeaders=%v, want %v", got, want)
	}
	if parseHeaders("") != nil {
		t.Fatalf("expected nil for empty header string")
	}
}

func TestSampleRatioClamps(t *testing.T) {
	t.Setenv("OTEL_SAMPLER_RATIO", "4")
	if got := sampleRatio(); got != 1 {
		t.Fatalf("sampleRatio=%v, want 1", got)
	}
	t.Setenv("OTEL_SAMPLER_RATIO", "junk")
	if got := sampleRatio(); got != 0.1 {
		t.Fatalf("sampleRatio=%v, want 0.1", got)
	}
}
