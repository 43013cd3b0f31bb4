// Package server exposes the portfolio analysis over HTTP: the rendered
// dashboard, the analyze endpoint, the growth chart and health checks.
package server

import (
	"context"
	"embed"
	"html/template"
	"net/http"
	"time"

	"portfolioTracker/internal/chart"
	"portfolioTracker/internal/common"
	"portfolioTracker/internal/portfolio"
)

//go:embed templates/index.html
var templateFS embed.FS

// InsightGenerator produces the optional AI commentary.
type InsightGenerator interface {
	PortfolioInsight(ctx context.Context, a *portfolio.Analysis) (string, error)
}

type Server struct {
	log     *common.Logger
	cache   *portfolio.Cache
	insight InsightGenerator // nil when not configured
	tmpl    *template.Template
}

func New(logger *common.Logger, cache *portfolio.Cache) *Server {
	return &Server{
		log:   logger,
		cache: cache,
		tmpl:  template.Must(template.ParseFS(templateFS, "templates/index.html")),
	}
}

// SetInsightGenerator enables the /api/insight endpoint.
func (s *Server) SetInsightGenerator(g InsightGenerator) { s.insight = g }

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/ping", s.handlePing)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.HandleFunc("/api/analyze-portfolio", s.handleAnalyze)
	mux.HandleFunc("/api/insight", s.handleInsight)
	mux.HandleFunc("/plot.png", s.handleChart)
	return applyMiddleware(mux, s.log)
}

func ListenAndServe(addr string, h http.Handler) error {
	return http.ListenAndServe(addr, h)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// dashboardData is the template payload: the analysis plus a server timestamp
// used to cache-bust the chart image.
type dashboardData struct {
	*portfolio.Analysis
	Timestamp int64
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.cache.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("dashboard computation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to compute portfolio: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tmpl.Execute(w, dashboardData{Analysis: analysis, Timestamp: time.Now().Unix()}); err != nil {
		s.log.Error().Err(err).Msg("template rendering failed")
	}
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodPost) {
		return
	}

	var inputs []portfolio.LotInput
	if !DecodeJSON(w, r, &inputs) {
		return
	}

	// The analyze endpoint runs in simulated-quote mode; see
	// portfolio.AnalyzeSimulated. A processing failure returns a structured
	// error, never a partial success body.
	WriteJSON(w, http.StatusOK, portfolio.AnalyzeSimulated(inputs))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	analysis, err := s.cache.Get(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("chart computation failed")
		WriteError(w, http.StatusInternalServerError, "Failed to compute portfolio: "+err.Error())
		return
	}
	img, err := chart.Render(analysis)
	if err != nil {
		s.log.Error().Err(err).Msg("chart rendering failed")
		WriteError(w, http.StatusInternalServerError, "Failed to render chart: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(img)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}
	if s.insight == nil {
		WriteError(w, http.StatusServiceUnavailable, "Insight generation is not configured")
		return
	}

	analysis, err := s.cache.Get(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to compute portfolio: "+err.Error())
		return
	}
	text, err := s.insight.PortfolioInsight(r.Context(), analysis)
	if err != nil {
		s.log.Error().Err(err).Msg("insight generation failed")
		WriteError(w, http.StatusBadGateway, "Failed to generate insight: "+err.Error())
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"insight": text})
}
