package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
	api "github.com/mohitkumar/screenflow/api/v1"
	"github.com/mohitkumar/screenflow/assignment"
	"github.com/mohitkumar/screenflow/auth"
	"github.com/mohitkumar/screenflow/logger"
	"github.com/mohitkumar/screenflow/metrics"
	"github.com/mohitkumar/screenflow/persistence"
	"github.com/mohitkumar/screenflow/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	http.Server
	Port              int
	authenticator     *auth.Authenticator
	assignmentService *assignment.Service
	experiments       persistence.ExperimentStorage
	renderer          *render.Renderer
	metrics           *metrics.Metrics
}

func NewServer(httpPort int, authenticator *auth.Authenticator, assignmentService *assignment.Service, experiments persistence.ExperimentStorage, renderer *render.Renderer) (*Server, error) {
	s := &Server{
		Server: http.Server{
			Addr:              fmt.Sprintf(":%d", httpPort),
			ReadHeaderTimeout: 5 * time.Second,
		},
		Port:              httpPort,
		authenticator:     authenticator,
		assignmentService: assignmentService,
		experiments:       experiments,
		renderer:          renderer,
		metrics:           metrics.Get(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/v1/assign", s.HandleAssign).Methods(http.MethodPost)
	router.HandleFunc("/v1/experiments", s.HandleCreateExperiment).Methods(http.MethodPost)
	router.HandleFunc("/v1/experiments", s.HandleListExperiments).Methods(http.MethodGet)
	router.HandleFunc("/v1/experiments/{id}", s.HandleGetExperiment).Methods(http.MethodGet)
	router.HandleFunc("/v1/experiments/{id}", s.HandleDeleteExperiment).Methods(http.MethodDelete)
	router.HandleFunc("/v1/experiments/{id}/status", s.HandleUpdateExperimentStatus).Methods(http.MethodPut)
	router.HandleFunc("/v1/render", s.HandleRender).Methods(http.MethodPost)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondOK(w, "ok")
	}).Methods(http.MethodGet)

	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, api.MethodNotAllowed(r.Method))
	})
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, api.NotFound("route not found"))
	})
	router.Use(s.loggingMiddleware)
	s.Handler = router
	return s, nil
}

func (s *Server) Start() error {
	logger.Info("starting http server on", zap.Int("port", s.Port))
	if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Stop() error {
	logger.Info("stopping http server")
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		logger.Error("error shutting down http server", zap.Error(err))
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tpl, err := current.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		elapsed := time.Since(start)
		s.metrics.RecordRequest(route, strconv.Itoa(rec.status), elapsed)
		logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("latency", elapsed))
	})
}

// apiKey reads the key from X-API-Key, falling back to a bearer token.
func apiKey(r *http.Request) string {
	if key := r.Header.Get("X-API-Key"); key != "" {
		return key
	}
	if token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		return token
	}
	return ""
}

func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (auth.Principal, bool) {
	p, err := s.authenticator.Authenticate(r.Context(), apiKey(r))
	if err != nil {
		respondWithError(w, err)
		return auth.Principal{}, false
	}
	return p, true
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		logger.Error("error encoding response", zap.Error(err))
		code = http.StatusInternalServerError
		response, _ = json.Marshal(api.ErrorResponse{Error: "internal server error"})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondOK(w http.ResponseWriter, message string) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": message})
}

// respondWithError writes err with the status of its class. Errors without
// a class are internal; their text is logged but never sent.
func respondWithError(w http.ResponseWriter, err error) {
	var reqErr api.RequestError
	if errors.As(err, &reqErr) {
		respondWithJSON(w, reqErr.HTTPStatus(), api.ErrorResponse{Error: reqErr.Message})
		return
	}
	var internal api.InternalError
	if !errors.As(err, &internal) {
		internal = api.InternalError{Cause: err}
	}
	logger.Error("internal error", zap.Error(internal.Cause))
	respondWithJSON(w, internal.HTTPStatus(), api.ErrorResponse{Error: internal.Error()})
}
