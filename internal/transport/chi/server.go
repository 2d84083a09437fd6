// Package chi exposes the resumatch HTTP API.
package chi

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/resumatch/internal/domain"
	healthuc "github.com/kailas-cloud/resumatch/internal/usecase/health"
	queryuc "github.com/kailas-cloud/resumatch/internal/usecase/query"
)

// QueryService runs the end-to-end search flow.
type QueryService interface {
	Query(ctx context.Context, text, prevRequirement string, prevPage, prevPageSize int) (queryuc.Response, error)
}

// Syncer pushes unindexed résumés into the similarity index.
type Syncer interface {
	Sync(ctx context.Context) (int, error)
}

// RecordLister pages through stored résumé metadata.
type RecordLister interface {
	List(ctx context.Context, page, pageSize int) ([]domain.RecordMeta, int, error)
}

// HealthService aggregates component health checks.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// Server wires the use cases into HTTP handlers.
type Server struct {
	queries QueryService
	syncer  Syncer
	records RecordLister
	health  HealthService
	logger  *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(
	queries QueryService,
	syncer Syncer,
	records RecordLister,
	health HealthService,
	logger *zap.Logger,
) *Server {
	return &Server{
		queries: queries,
		syncer:  syncer,
		records: records,
		health:  health,
		logger:  logger,
	}
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/search", s.handleSearch)
	r.Post("/api/v1/sync", s.handleSync)
	r.Get("/api/v1/records", s.handleRecords)
	r.Get("/health", s.handleHealth)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
}

type searchRequest struct {
	Query           string `json:"query"`
	PrevRequirement string `json:"prev_requirement"`
	PrevPage        int    `json:"prev_page"`
	PrevPageSize    int    `json:"prev_page_size"`
}

type candidateResponse struct {
	ID              string  `json:"id"`
	FileName        string  `json:"filename"`
	ExperienceYears float64 `json:"experience_years"`
	LastUpdated     *string `json:"last_updated"`
}

type searchResponse struct {
	Candidates  []candidateResponse `json:"candidates"`
	TotalCount  int                 `json:"total_count"`
	Summary     string              `json:"summary"`
	Requirement string              `json:"requirement"`
	Page        int                 `json:"page"`
	PageSize    int                 `json:"page_size"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	resp, err := s.queries.Query(r.Context(), req.Query, req.PrevRequirement, req.PrevPage, req.PrevPageSize)
	if err != nil {
		s.logger.Error("Search failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "search failed")
		return
	}

	candidates := make([]candidateResponse, len(resp.Candidates))
	for i, c := range resp.Candidates {
		candidates[i] = candidateResponse{
			ID:              c.ID,
			FileName:        c.FileName,
			ExperienceYears: c.ExperienceYears,
			LastUpdated:     formatDate(c.LastUpdated),
		}
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Candidates:  candidates,
		TotalCount:  resp.TotalCount,
		Summary:     resp.Summary,
		Requirement: resp.Requirement,
		Page:        resp.Page,
		PageSize:    resp.PageSize,
	})
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	added, err := s.syncer.Sync(r.Context())
	if err != nil {
		s.logger.Error("Sync failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "sync failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"chunks_added": added})
}

type recordResponse struct {
	ID          string `json:"id"`
	FileName    string `json:"filename"`
	UpdatedAt   string `json:"updated_at"`
	HasFilePath bool   `json:"has_file_path"`
}

type recordListResponse struct {
	Records    []recordResponse `json:"records"`
	TotalCount int              `json:"total_count"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", domain.DefaultPageSize)
	if page < 1 || pageSize < 1 {
		writeError(w, http.StatusBadRequest, "page and page_size must be positive")
		return
	}

	metas, total, err := s.records.List(r.Context(), page, pageSize)
	if err != nil {
		s.logger.Error("Record listing failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "record listing failed")
		return
	}

	records := make([]recordResponse, len(metas))
	for i, m := range metas {
		records[i] = recordResponse{
			ID:          m.ID,
			FileName:    m.FileName,
			UpdatedAt:   m.UpdatedAt.UTC().Format(time.RFC3339),
			HasFilePath: m.HasFilePath,
		}
	}

	writeJSON(w, http.StatusOK, recordListResponse{
		Records:    records,
		TotalCount: total,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}

	writeJSON(w, status, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// formatDate renders a timestamp as a date string, nil for the zero time so
// the client sees an explicit null.
func formatDate(t time.Time) *string {
	if t.IsZero() {
		return nil
	}
	formatted := t.UTC().Format("2006-01-02")
	return &formatted
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
