package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"profilemcp/profile"
)

// ToolRequest is the JSON body accepted by POST /tools/{name}. Every
// field is optional; tools ignore arguments they do not take.
type ToolRequest struct {
	Query    string   `json:"query,omitempty"`
	Sources  []string `json:"sources,omitempty"`
	Platform string   `json:"platform,omitempty"`
	Format   string   `json:"format,omitempty"`
}

type ToolResponse struct {
	Result string `json:"result"`
}

// Server exposes the profile tools over HTTP alongside health and
// metrics endpoints.
type Server struct {
	svc    *profile.Service
	addr   string
	logger *zap.Logger
}

func NewServer(svc *profile.Service, addr string, logger *zap.Logger) *Server {
	return &Server{svc: svc, addr: addr, logger: logger}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.addr))
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /tools/{name}", s.handleTool)
	mux.HandleFunc("POST /cache/refresh/{name}", s.handleRefresh)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return mux
}

func (s *Server) handleTool(w http.ResponseWriter, r *http.Request) {
	var req ToolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	ctx := r.Context()
	format := profile.Format(req.Format)

	var result string
	switch name := r.PathValue("name"); name {
	case "get_profile_overview":
		result = s.svc.ProfileOverview(ctx, format)
	case "get_experience":
		result = s.svc.Experience(ctx, format)
	case "get_publications":
		result = s.svc.Publications(ctx, format)
	case "get_career_timeline":
		result = s.svc.CareerTimeline(ctx, format)
	case "get_social_links":
		result = s.svc.SocialLinks(req.Platform)
	case "search_profile_content":
		result = s.svc.SearchContent(ctx, req.Query, req.Sources)
	default:
		http.Error(w, "unknown tool: "+name, http.StatusNotFound)
		return
	}

	writeJSON(w, ToolResponse{Result: result})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	result := s.svc.RefreshSection(r.Context(), r.PathValue("name"))
	writeJSON(w, ToolResponse{Result: result})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}
