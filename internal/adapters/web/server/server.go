package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lcalzada-xor/apcaps/internal/adapters/web/handlers"
	"github.com/lcalzada-xor/apcaps/internal/adapters/web/middleware"
	"github.com/lcalzada-xor/apcaps/internal/core/ports"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Options tunes the HTTP API.
type Options struct {
	RateLimit    float64 // analyze requests per second per client
	RateBurst    int
	MaxBodyBytes int64
}

// Server exposes the analysis service over HTTP.
type Server struct {
	Addr            string
	Service         ports.AnalysisService
	AnalysisHandler *handlers.AnalysisHandler
	ReportHandler   *handlers.ReportHandler
	Limiter         *middleware.RateLimiter

	srv *http.Server
}

// NewServer creates a new web server.
func NewServer(addr string, service ports.AnalysisService, exporters map[string]ports.Exporter, opts Options) *Server {
	return &Server{
		Addr:            addr,
		Service:         service,
		AnalysisHandler: handlers.NewAnalysisHandler(service, opts.MaxBodyBytes),
		ReportHandler:   handlers.NewReportHandler(service, exporters),
		Limiter:         middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst),
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	handler := SetupRoutes(s)

	// Instrument with OpenTelemetry
	instrumentedHandler := otelhttp.NewHandler(handler, "apcaps-server")

	s.srv = &http.Server{
		Handler:           instrumentedHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// stop also fires when Serve fails, so the shutdown goroutine never outlives it
	stopCtx, stop := context.WithCancel(ctx)
	defer stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-stopCtx.Done()
		slog.Info("Web server shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Web server shutdown error", "error", err)
		}
	}()

	slog.Info("Web server listening", "addr", ln.Addr().String())
	err := s.srv.Serve(ln)
	stop()
	<-done
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
