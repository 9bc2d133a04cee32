package ctxutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestRequestDataRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithRequestData(context.Background(), &RequestData{UserID: id, TokenString: "tok"})
	rd := GetRequestData(ctx)
	if rd == nil || rd.UserID != id {
		t.Fatalf("GetRequestData=%+v, want user %s", rd, id)
	}
	if GetRequestData(context.Background()) != nil {
		t.Fatalf("expected nil request data on bare context")
	}
	ctx = WithTraceData(ctx, &TraceData{TraceID: "t1", RequestID: "r1"})
	if td := GetTraceData(ctx); td == nil || td.RequestID != "r1" {
		t.Fatalf("GetTraceData=%+v", td)
	}
}
