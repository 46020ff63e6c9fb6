package diag

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/xid"

	"github.com/mickamy/ora-ttc/tnsproto"
)

// StatusSource is the subset of oraconn.Connection diag needs: the
// negotiated capability set and the cleanup queue's current depth.
type StatusSource interface {
	Capabilities() tnsproto.Capabilities
	CleanupDepth() int
}

// Server serves a JSON status endpoint and, when a prometheus.Collector
// was registered, a /metrics endpoint for one connection instance.
type Server struct {
	httpServer *http.Server
	instanceID xid.ID
	source     StatusSource
	conn       net.Conn // optional; nil disables the tcp_info field
}

// New creates a Server reporting on source. conn, if non-nil, is probed
// for live TCP_INFO statistics on platforms that support it. collector,
// if non-nil, is registered and served at /metrics.
func New(source StatusSource, conn net.Conn, collector prometheus.Collector) *Server {
	s := &Server{
		instanceID: xid.New(),
		source:     source,
		conn:       conn,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /status", s.handleStatus)
	if collector != nil {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collector)
		mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Serve starts the HTTP server on lis, blocking until it is shut down.
func (s *Server) Serve(lis net.Listener) error {
	if err := s.httpServer.Serve(lis); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("diag: serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("diag: shutdown: %w", err)
	}
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type statusResponse struct {
	InstanceID         string   `json:"instance_id"`
	ProtocolVersion    uint8    `json:"protocol_version"`
	ServerBanner       string   `json:"server_banner"`
	CharsetID          uint16   `json:"charset_id"`
	SDU                uint32   `json:"sdu"`
	LargeSDU           bool     `json:"large_sdu"`
	CleanupQueueDepth  int      `json:"cleanup_queue_depth"`
	TCPInfo            *TCPInfo `json:"tcp_info,omitempty"`
	TCPInfoUnavailable string   `json:"tcp_info_unavailable,omitempty"`
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	caps := s.source.Capabilities()
	resp := statusResponse{
		InstanceID:        s.instanceID.String(),
		ProtocolVersion:   caps.ProtocolVersion,
		ServerBanner:      caps.ServerBanner,
		CharsetID:         caps.CharsetID,
		SDU:               caps.SDU,
		LargeSDU:          caps.LargeSDU,
		CleanupQueueDepth: s.source.CleanupDepth(),
	}

	if s.conn != nil {
		if info, err := ReadTCPInfo(s.conn); err != nil {
			resp.TCPInfoUnavailable = err.Error()
		} else {
			resp.TCPInfo = &info
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
