package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	appanalysis "github.com/bryanwahyu/agro-inteligente/internal/application/analysis"
	domain "github.com/bryanwahyu/agro-inteligente/internal/domain/analysis"
	"github.com/bryanwahyu/agro-inteligente/internal/middleware"
)

// MaxBodyBytes bounds the analysis request; a 1280x720 JPEG data URI fits easily.
const MaxBodyBytes = 16 << 20

// corsHeaders are the request headers browsers may send to the analysis endpoint.
var corsHeaders = []string{"authorization", "x-client-info", "apikey", "content-type"}

type Router struct {
	svc *appanalysis.Service
	// writes, when set, persists every successful analysis in the background.
	writes *appanalysis.Detached
}

func NewRouter(svc *appanalysis.Service, writes *appanalysis.Detached, checkers map[string]middleware.HealthChecker) http.Handler {
	r := &Router{svc: svc, writes: writes}
	mux := chi.NewRouter()

	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.MetricsMiddleware)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: corsHeaders,
	}))

	mux.Get("/health", middleware.HealthHandler(checkers))
	mux.Get("/ready", middleware.ReadinessHandler)
	mux.Get("/live", middleware.LivenessHandler)
	mux.Get("/metrics", middleware.MetricsHandler)

	mux.Options("/analyze-plant", r.handlePreflight)
	mux.Post("/analyze-plant", r.wrap(r.handleAnalyze))

	mux.Get("/v1/analyses", r.wrap(r.handleHistory))
	mux.Post("/v1/analyses", r.wrap(r.handleRecord))

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

// wrap flattens every failure to 500 {error: message}; the message carries the kind.
func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"path": req.URL.Path,
				"kind": domain.KindOf(err),
			}).Error("request failed")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": domain.Message(err)})
		}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

// OPTIONS /analyze-plant without preflight headers
func (r *Router) handlePreflight(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
}

// POST /analyze-plant
// Body: {"imageBase64": "data:image/jpeg;base64,..."}
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ImageBase64 string `json:"imageBase64"`
	}
	req.Body = http.MaxBytesReader(w, req.Body, MaxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("imagen demasiado grande (máximo %d bytes)", tooLarge.Limit)
		}
		return fmt.Errorf("cuerpo de solicitud inválido: %w", err)
	}
	if err := middleware.ValidateImage(body.ImageBase64); err != nil {
		return err
	}

	done := middleware.AnalysisStarted()
	res, err := r.svc.Analyze(req.Context(), body.ImageBase64)
	done(err, errors.Is(err, domain.ErrRateLimited))
	if err != nil {
		return err
	}

	if r.writes != nil {
		r.writes.Go(body.ImageBase64, res)
	}
	return writeJSON(w, http.StatusOK, res)
}

// GET /v1/analyses?limit=10
func (r *Router) handleHistory(w http.ResponseWriter, req *http.Request) error {
	limit := middleware.ValidateLimit(req.URL.Query().Get("limit"))
	list, err := r.svc.Recent(req.Context(), limit)
	if err != nil {
		return err
	}
	if list == nil {
		list = []*domain.Record{}
	}
	return writeJSON(w, http.StatusOK, list)
}

// POST /v1/analyses
// Body: {"image_url": "<data uri>", "analysis": {...}}
func (r *Router) handleRecord(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ImageURL string         `json:"image_url"`
		Analysis *domain.Result `json:"analysis"`
	}
	req.Body = http.MaxBytesReader(w, req.Body, MaxBodyBytes)
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return fmt.Errorf("cuerpo de solicitud inválido: %w", err)
	}
	if body.Analysis == nil {
		return errors.New("analysis is required")
	}

	rec, err := r.svc.Record(req.Context(), body.ImageURL, *body.Analysis)
	if err != nil {
		middleware.IncrementStoreFailures()
		return err
	}
	middleware.IncrementRecordsStored()
	return writeJSON(w, http.StatusCreated, rec)
}
