package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/lcalzada-xor/apcaps/internal/adapters/web/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SetupRoutes builds the API router.
func SetupRoutes(s *Server) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Handle("/analyze", middleware.RateLimitMiddleware(s.Limiter)(http.HandlerFunc(s.AnalysisHandler.HandleAnalyze))).
		Methods(http.MethodPost)
	api.HandleFunc("/reports", s.ReportHandler.HandleList).Methods(http.MethodGet)
	api.HandleFunc("/reports/{id}", s.ReportHandler.HandleGet).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	return r
}
