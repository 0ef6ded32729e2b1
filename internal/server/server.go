package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"influencers/internal/analysis"
	"influencers/internal/chart"
	"influencers/internal/config"
	"influencers/internal/dataset"
	"influencers/internal/fetcher"
	"influencers/internal/ratelimit"
	"influencers/internal/sheets"
	"influencers/internal/store"
	"influencers/internal/ui"
)

// Reports hands out the current report. *cache.TTL[analysis.Report]
// satisfies it.
type Reports interface {
	Get(ctx context.Context) (analysis.Report, error)
	Invalidate()
}

type SnapshotLister interface {
	ListSnapshots(ctx context.Context, limit int) ([]store.Snapshot, error)
}

type Server struct {
	cfg       config.Config
	reports   Reports
	snapshots SnapshotLister
	limiter   *ratelimit.Limiter
	logger    *slog.Logger
	renderer  *ui.Renderer
}

// New wires the dashboard. snapshots may be nil when no database is
// configured.
func New(cfg config.Config, reports Reports, snapshots SnapshotLister, limiter *ratelimit.Limiter, log *slog.Logger, renderer *ui.Renderer) *Server {
	return &Server{
		cfg:       cfg,
		reports:   reports,
		snapshots: snapshots,
		limiter:   limiter,
		logger:    log,
		renderer:  renderer,
	}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(RequestID)
	r.Use(AccessLog(s.logger))
	r.Use(Recover(s.logger))

	r.Get("/healthz", s.handleHealth)
	r.Get("/", s.handleDashboard)
	r.Get("/charts/platforms", s.handlePlatformCharts)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Post("/refresh", s.handleRefresh)
		r.Get("/snapshots", s.handleSnapshots)
	})
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{
		"Title":      "AI Influencer Dashboard",
		"SourceName": s.sourceName(),
		"TopN":       s.cfg.TopN,
		"Report":     (*analysis.Report)(nil),
		"Errors":     []string{},
	}
	rep, err := s.reports.Get(r.Context())
	switch {
	case err != nil:
		s.logLoadFailure(r, err)
		data["Errors"] = s.loadErrorMessages(err)
	case rep.Summary.TotalInfluencers == 0:
		// A sheet with only a header, or whose rows were all dropped,
		// has nothing to chart.
	default:
		data["Report"] = &rep
	}

	if err := s.renderer.Render(w, "dashboard", data); err != nil {
		s.logger.Error("render_failed", slog.String("error", err.Error()), slog.String("request_id", requestIDFromContext(r.Context())))
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

func (s *Server) handlePlatformCharts(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Get(r.Context())
	if err != nil {
		s.logLoadFailure(r, err)
		http.Error(w, "data unavailable", http.StatusServiceUnavailable)
		return
	}
	if rep.Missing(dataset.ColumnPlatform) {
		http.Error(w, "Column 'Platform' not found.", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := chart.RenderPage(w, "Influencer Analysis", chart.PlatformCharts(rep)...); err != nil {
		s.logger.Error("chart_render_failed", slog.String("error", err.Error()), slog.String("request_id", requestIDFromContext(r.Context())))
	}
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	rep, err := s.reports.Get(r.Context())
	if err != nil {
		s.logLoadFailure(r, err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": errorCode(err)})
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if ok, wait := s.limiter.Take(clientKey(r)); !ok {
		w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		writeJSON(w, http.StatusTooManyRequests, map[string]string{"error": "rate_limited"})
		return
	}
	s.reports.Invalidate()
	s.logger.Info("refresh_requested", slog.String("request_id", requestIDFromContext(r.Context())))

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "refresh_queued"})
}

func (s *Server) handleSnapshots(w http.ResponseWriter, r *http.Request) {
	if s.snapshots == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "snapshots_disabled"})
		return
	}
	limit := parseInt(r.URL.Query().Get("limit"), 100)
	snaps, err := s.snapshots.ListSnapshots(r.Context(), limit)
	if err != nil {
		s.logger.Error("snapshots_list_failed", slog.String("error", err.Error()), slog.String("request_id", requestIDFromContext(r.Context())))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "db_error"})
		return
	}
	if snaps == nil {
		snaps = []store.Snapshot{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"snapshots": snaps})
}

func (s *Server) sourceName() string {
	switch s.cfg.SourceKind() {
	case config.SourceCSVURL:
		return "published CSV sheet"
	case config.SourceFile:
		return s.cfg.DataFile
	default:
		return "Google Sheet"
	}
}

func (s *Server) logLoadFailure(r *http.Request, err error) {
	s.logger.Error("report_load_failed", slog.String("error", err.Error()), slog.String("request_id", requestIDFromContext(r.Context())))
}

// loadErrorMessages explains a failed load in terms the sheet owner can act on.
func (s *Server) loadErrorMessages(err error) []string {
	switch {
	case errors.Is(err, sheets.ErrSpreadsheetNotFound):
		return []string{
			fmt.Sprintf("Google Sheet '%s' not found.", s.cfg.GoogleSheet),
			"Make sure the name is correct and you shared it with the service account email.",
		}
	case errors.Is(err, sheets.ErrWorksheetNotFound):
		return []string{fmt.Sprintf("Worksheet tab '%s' not found in your Google Sheet.", s.cfg.GoogleWorksheet)}
	case errors.Is(err, dataset.ErrMissingColumn):
		return []string{fmt.Sprintf("Column '%s' not found in Google Sheet.", dataset.ColumnFollowers)}
	case errors.Is(err, fetcher.ErrNotCSV):
		return []string{"The sheet link returned a web page instead of CSV data. Publish the sheet to the web as CSV."}
	default:
		return []string{fmt.Sprintf("An error occurred while loading data: %v", err)}
	}
}

var loadErrors = []error{
	sheets.ErrSpreadsheetNotFound,
	sheets.ErrWorksheetNotFound,
	dataset.ErrMissingColumn,
	dataset.ErrEmptyTable,
	dataset.ErrFileNotFound,
	fetcher.ErrNotCSV,
	fetcher.ErrBadStatus,
	fetcher.ErrTooLarge,
	fetcher.ErrTooManyRedir,
}

func errorCode(err error) string {
	for _, target := range loadErrors {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return "load_failed"
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(v string, fallback int) int {
	if v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}
