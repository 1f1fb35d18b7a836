// Package api serves the tangent finder over HTTP.
//
//	POST /calculate  find dy/dx and the tangent lines through a point
//	GET  /health     liveness check
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	tangent "github.com/njchilds90/gotangent"
)

const DefaultMaxBody = 1 << 20

type Server struct {
	Finder *tangent.Finder
	// Budget bounds the computation of one request; zero means no limit.
	Budget  time.Duration
	MaxBody int64
	// Limiter, when set, guards /calculate.
	Limiter        *RateLimiter
	TrustForwarded bool
	CORSOrigins    []string
	Logger         *slog.Logger
}

type calculateRequest struct {
	Fcn    *string `json:"fcn"`
	X      *string `json:"x"`
	Y      *string `json:"y"`
	Output *string `json:"output"`
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
	DyDx  string `json:"dy_dx,omitempty"`
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Handler returns the routed handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	var calc http.Handler = http.HandlerFunc(s.handleCalculate)
	if s.Limiter != nil {
		calc = s.Limiter.Middleware(s.TrustForwarded, calc)
	}
	mux.Handle("POST /calculate", calc)
	mux.HandleFunc("GET /health", s.handleHealth)

	logger := s.logger()
	var h http.Handler = mux
	h = cors(s.CORSOrigins, h)
	h = recoverer(logger, h)
	h = accessLog(logger, h)
	h = requestID(logger, h)
	return h
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	q, status, err := s.decode(w, r)
	if err != nil {
		writeError(w, status, errorBody{Error: err.Error(), Kind: "validation"})
		return
	}

	ctx := r.Context()
	if s.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Budget)
		defer cancel()
	}
	finder := s.Finder
	if finder == nil {
		finder = &tangent.Finder{}
	}
	res, err := finder.FindQuery(ctx, q)
	if err != nil {
		body := errorBody{Error: err.Error(), Kind: tangent.KindOf(err).String()}
		if res != nil {
			body.DyDx = res.Derivative.String()
		}
		status := statusOf(err)
		if status == http.StatusInternalServerError {
			body.Kind = "internal"
		}
		loggerFrom(r.Context(), s.logger()).Warn("calculate failed", "fcn", q.Fcn, "x", q.X, "y", q.Y, "status", status, "error", err)
		writeError(w, status, body)
		return
	}
	writeJSON(w, http.StatusOK, res.Report())
}

// decode reads a calculate request, returning the status to report when it
// is malformed.
func (s *Server) decode(w http.ResponseWriter, r *http.Request) (tangent.Query, int, error) {
	limit := s.MaxBody
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	var req calculateRequest
	if err := dec.Decode(&req); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return tangent.Query{}, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooBig.Limit)
		}
		return tangent.Query{}, http.StatusBadRequest, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return tangent.Query{}, http.StatusBadRequest, errors.New("invalid JSON: trailing data")
	}

	fields := []struct {
		name string
		val  *string
	}{{"fcn", req.Fcn}, {"x", req.X}, {"y", req.Y}, {"output", req.Output}}
	for _, f := range fields {
		if f.val == nil {
			return tangent.Query{}, http.StatusBadRequest, fmt.Errorf("missing field %q", f.name)
		}
	}
	return tangent.Query{Fcn: *req.Fcn, X: *req.X, Y: *req.Y, Output: *req.Output}, 0, nil
}

func statusOf(err error) int {
	switch tangent.KindOf(err) {
	case tangent.KindValidation, tangent.KindParse:
		return http.StatusBadRequest
	case tangent.KindComputation:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	writeJSON(w, status, body)
}
