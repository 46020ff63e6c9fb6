package diag

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/mickamy/ora-ttc/tnsproto"
)

type fakeSource struct {
	caps         tnsproto.Capabilities
	cleanupDepth int
}

func (f fakeSource) Capabilities() tnsproto.Capabilities { return f.caps }
func (f fakeSource) CleanupDepth() int                   { return f.cleanupDepth }

func TestHandleStatusReportsCapabilitiesAndCleanupDepth(t *testing.T) {
	t.Parallel()
	src := fakeSource{
		caps:         tnsproto.Capabilities{ProtocolVersion: 20, ServerBanner: "test banner", CharsetID: 873, SDU: 8192},
		cleanupDepth: 3,
	}
	srv := New(src, nil, nil)

	req := httptest.NewRequest("GET", "/status", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("got status %d, want 200", rec.Code)
	}

	var resp statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if resp.ProtocolVersion != 20 || resp.ServerBanner != "test banner" {
		t.Fatalf("got %+v, want protocol version 20 and banner 'test banner'", resp)
	}
	if resp.CleanupQueueDepth != 3 {
		t.Fatalf("got cleanup depth %d, want 3", resp.CleanupQueueDepth)
	}
	if resp.TCPInfo != nil || resp.TCPInfoUnavailable != "" {
		t.Fatalf("expected no tcp_info fields when conn is nil, got %+v", resp)
	}
}

func TestNewWithoutCollectorOmitsMetricsEndpoint(t *testing.T) {
	t.Parallel()
	srv := New(fakeSource{}, nil, nil)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != 404 {
		t.Fatalf("got status %d, want 404 when no collector registered", rec.Code)
	}
}
