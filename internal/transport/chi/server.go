package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/palmrag/internal/domain"
	domanswer "github.com/kailas-cloud/palmrag/internal/domain/answer"
	"github.com/kailas-cloud/palmrag/internal/domain/search/mode"
	"github.com/kailas-cloud/palmrag/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/palmrag/internal/usecase/health"
	"github.com/kailas-cloud/palmrag/internal/usecase/stats"
)

// maxBodyBytes bounds the decoded request body.
const maxBodyBytes = 64 << 10

// AnswerService runs the query pipeline.
type AnswerService interface {
	Answer(ctx context.Context, req *request.Request) domanswer.Answer
	IsReady() bool
}

// StatsReader exposes the aggregated counters.
type StatsReader interface {
	Snapshot() stats.Snapshot
}

// Defaults are applied to optional request fields.
type Defaults struct {
	K          int
	Similarity mode.Mode
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server implements the HTTP API.
type Server struct {
	answers       AnswerService
	stats         StatsReader
	health        *healthuc.Service
	defaults      Defaults
	validate      *validator.Validate
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	answers AnswerService,
	statsReader StatsReader,
	health *healthuc.Service,
	defaults Defaults,
	logger *zap.Logger,
) *Server {
	if defaults.K <= 0 {
		defaults.K = request.DefaultK
	}
	if !defaults.Similarity.IsValid() {
		defaults.Similarity = mode.Default
	}
	s := &Server{
		answers:  answers,
		stats:    statsReader,
		health:   health,
		defaults: defaults,
		validate: newValidator(),
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeInvalidRequest),
		sentinelHandler(domain.ErrIndexNotReady, http.StatusServiceUnavailable, CodeNotReady),
	}
	return s
}

// customValidations are the request tags not built into validator.
var customValidations = map[string]validator.Func{
	"nonblank": func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	},
	// maxbytes bounds the UTF-8 length, matching request.MaxQueryLength.
	"maxbytes": func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	},
}

// newValidator builds the request validator with custom tags.
// Panics if a tag cannot be registered.
func newValidator() *validator.Validate {
	v := validator.New()
	if err := registerValidations(v, customValidations); err != nil {
		panic(err)
	}
	return v
}

func registerValidations(v *validator.Validate, fns map[string]validator.Func) error {
	for tag, fn := range fns {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register validation %q: %w", tag, err)
		}
	}
	return nil
}

// Answer handles POST /answer.
func (s *Server) Answer(w http.ResponseWriter, r *http.Request) {
	var body AnswerRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	req, err := s.requestFromBody(&body)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	if !s.answers.IsReady() {
		s.handleDomainError(w, domain.ErrIndexNotReady)
		return
	}

	ans := s.answers.Answer(r.Context(), &req)
	writeJSON(w, http.StatusOK, answerToResponse(&ans))
}

// requestFromBody validates the body and applies defaults.
func (s *Server) requestFromBody(body *AnswerRequest) (request.Request, error) {
	if err := s.validate.Struct(body); err != nil {
		return request.Request{}, fmt.Errorf("%w: %s", domain.ErrInvalidRequest, validationMessage(err))
	}

	k := s.defaults.K
	if body.K != nil {
		k = *body.K
	}

	m := s.defaults.Similarity
	if body.Similarity != nil {
		parsed, err := mode.Parse(*body.Similarity)
		if err != nil {
			return request.Request{}, err
		}
		m = parsed
	}

	return request.New(body.Query, k, m)
}

// Stats handles GET /stats.
func (s *Server) Stats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, snapshotToResponse(s.stats.Snapshot()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status:    string(report.Status),
		Checks:    checks,
		Documents: report.Documents,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// validationMessage flattens validator errors into a client-facing message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required", "nonblank":
			parts = append(parts, field+" is required")
		case "oneof":
			parts = append(parts, fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "maxbytes":
			parts = append(parts, fmt.Sprintf("%s exceeds %s bytes", field, fe.Param()))
		default:
			parts = append(parts, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
// The wrapped message is returned to the client; domain errors carry no internals.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, err.Error())
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Debug("request rejected", zap.Error(err))
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
