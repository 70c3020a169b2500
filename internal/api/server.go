// Package api exposes the query-facing HTTP surface: a single retrieval
// endpoint plus corpus statistics, method discovery, and a health check.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	tlerrors "github.com/tasteline/tasteline/internal/errors"
	"github.com/tasteline/tasteline/internal/search"
)

// Server handles query-facing HTTP requests. It does not own the engine;
// the caller closes it.
type Server struct {
	engine *search.Engine
	logger *slog.Logger
}

// New creates an API server over the given search engine.
func New(engine *search.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{engine: engine, logger: logger}
}

// Handler builds the routed HTTP handler with request-id, logging, and
// panic-recovery middleware.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/search", s.handleSearch)
	r.Get("/corpus-info", s.handleCorpusInfo)
	r.Get("/methods", s.handleMethods)
	r.Get("/healthz", s.handleHealthz)

	return r
}

// handleSearch serves GET /search?query=...&method=...&limit=...&include_scores=...
//
// Invalid method or limit values are the caller's fault and return 400.
// A retriever whose backing artifact or model is unavailable returns 503
// with the error-tagged response body, so clients can retry with another
// method.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	method, err := search.ParseMethod(q.Get("method"))
	if err != nil {
		writeError(w, http.StatusBadRequest, tlerrors.GetCode(err), err.Error())
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			writeError(w, http.StatusBadRequest, tlerrors.ErrCodeLimitOutOfRange,
				"limit must be a positive integer")
			return
		}
	}

	includeScores, _ := strconv.ParseBool(q.Get("include_scores"))

	resp, err := s.engine.Search(r.Context(), q.Get("query"), search.Options{
		Method:        method,
		Limit:         limit,
		IncludeScores: includeScores,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, tlerrors.GetCode(err), err.Error())
		return
	}

	writeJSON(w, statusForResponse(resp), resp)
}

func (s *Server) handleCorpusInfo(w http.ResponseWriter, r *http.Request) {
	info, err := s.engine.CorpusInfo(r.Context())
	if err != nil {
		s.logger.Error("corpus info failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, tlerrors.ErrCodeInternal, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleMethods(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"methods": search.Methods(),
		"default": search.MethodLexical,
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusForResponse maps an error-tagged search response to an HTTP
// status. Missing artifacts and unavailable models mean the method is
// temporarily unserviceable; everything else tagged is an internal
// failure the orchestrator already contained.
func statusForResponse(resp *search.Response) int {
	switch resp.ErrorCode {
	case "":
		return http.StatusOK
	case tlerrors.ErrCodeIndexMissing, tlerrors.ErrCodeModelUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}
