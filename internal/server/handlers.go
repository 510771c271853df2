package server

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/hyperkey/pkg/buildinfo"
	errs "github.com/matzehuels/hyperkey/pkg/errors"
	hio "github.com/matzehuels/hyperkey/pkg/io"
	"github.com/matzehuels/hyperkey/pkg/observability"
	"github.com/matzehuels/hyperkey/pkg/pipeline"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// RealizeRequest is the body of POST /v1/realizations.
type RealizeRequest struct {
	Degrees  []int  `json:"degrees" validate:"required,min=1,max=64,dive,min=0"`
	K        int    `json:"k" validate:"min=2"`
	Strategy string `json:"strategy,omitempty" validate:"omitempty,oneof=recursive iterative"`
	Limit    int    `json:"limit,omitempty" validate:"min=0"`
}

// RealizationLine is one NDJSON line of a realization stream. The last
// line carries Error instead when the search fails part way.
type RealizationLine struct {
	Index      int           `json:"index"`
	Hypergraph *hio.Document `json:"hypergraph,omitempty"`
	Error      *ErrorBody    `json:"error,omitempty"`
}

// KeyRequest is the body of POST /v1/keys.
type KeyRequest struct {
	N      int    `json:"n" validate:"min=2"`
	K      int    `json:"k" validate:"min=2,ltefield=N"`
	Secret string `json:"secret" validate:"required,hexadecimal"` // hex-encoded
	Stream string `json:"stream,omitempty" validate:"omitempty,oneof=lcg jsf chacha8"`
}

// KeyResponse is the body returned by POST /v1/keys.
type KeyResponse struct {
	Key               hio.Document `json:"key"`
	Seed              string       `json:"seed"`
	Sampled           int          `json:"sampled"`
	InitialComponents int          `json:"initial_components"`
	Added             [][]int      `json:"added"`
}

// ErrorBody describes a failure.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error ErrorBody `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleRealizations(w http.ResponseWriter, r *http.Request) {
	var req RealizeRequest
	if !s.decode(w, r, &req) {
		return
	}
	if req.Limit > s.cfg.Server.MaxLimit {
		s.fail(w, r, errs.New(errs.ErrCodeInvalidInput, "limit %d exceeds server maximum %d", req.Limit, s.cfg.Server.MaxLimit))
		return
	}
	limit := req.Limit
	if limit == 0 {
		limit = min(s.cfg.Realize.Limit, s.cfg.Server.MaxLimit)
	}
	strategy := req.Strategy
	if strategy == "" {
		strategy = s.cfg.Realize.Strategy
	}

	ctx := r.Context()
	if t := s.cfg.Realize.Timeout; t > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t)
		defer cancel()
	}

	seq, err := s.runner.Stream(ctx, pipeline.RealizeOptions{
		Degrees:  req.Degrees,
		K:        req.K,
		Strategy: strategy,
		Limit:    limit,
		Logger:   loggerFrom(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	rc := http.NewResponseController(w)
	enc := json.NewEncoder(w)

	i := 0
	for h, err := range seq {
		line := RealizationLine{Index: i}
		if err != nil {
			if r.Context().Err() != nil {
				// Client went away; nobody is reading.
				loggerFrom(r.Context()).Debug("client disconnected", "sent", i)
				return
			}
			line.Error = errorBody(err)
		} else {
			doc := hio.NewDocument(h)
			line.Hypergraph = &doc
		}
		if enc.Encode(line) != nil {
			return
		}
		_ = rc.Flush()
		i++
	}
	loggerFrom(r.Context()).Debug("stream complete", "sent", i)
}

func (s *Server) handleKeys(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if !s.decode(w, r, &req) {
		return
	}
	secret, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(req.Secret, "0x"), "0X"))
	if err != nil {
		s.fail(w, r, errs.Wrap(errs.ErrCodeInvalidInput, err, "secret is not valid hex"))
		return
	}
	stream := req.Stream
	if stream == "" {
		stream = s.cfg.Keygen.Stream
	}

	res, err := s.runner.GenerateKey(r.Context(), pipeline.KeyOptions{
		N:      req.N,
		K:      req.K,
		Stream: stream,
		Secret: secret,
		Logger: loggerFrom(r.Context()),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	added := make([][]int, len(res.Added))
	for i, e := range res.Added {
		added[i] = e
	}
	writeJSON(w, http.StatusOK, KeyResponse{
		Key:               hio.NewDocument(res.Key),
		Seed:              res.Seed.String(),
		Sampled:           res.Sampled,
		InitialComponents: res.InitialComponents,
		Added:             added,
	})
}

// decode reads and validates a JSON body, writing a 400 on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		s.fail(w, r, errs.Wrap(errs.ErrCodeInvalidFormat, err, "malformed request body"))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		msg := err.Error()
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			msg = strings.ToLower(fe.Field()) + " failed " + fe.Tag()
			if fe.Param() != "" {
				msg += "=" + fe.Param()
			}
		}
		s.fail(w, r, errs.New(errs.ErrCodeInvalidInput, "%s", msg))
		return false
	}
	return true
}

// fail writes err as a JSON error response with a status derived from
// its code.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context()).Error("request failed", "error", err)
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: *errorBody(err)})
}

func errorBody(err error) *ErrorBody {
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	return &ErrorBody{Code: string(code), Message: errs.UserMessage(err)}
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch code := errs.GetCode(err); {
	case code == errs.ErrCodeNotFound:
		return http.StatusNotFound
	case code == errs.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case code == errs.ErrCodeTooLarge:
		return http.StatusRequestEntityTooLarge
	}
	switch errs.CategoryOf(err) {
	case errs.CategoryPrecondition:
		return http.StatusBadRequest
	case errs.CategoryInfeasible:
		return http.StatusUnprocessableEntity
	case errs.CategoryCancelled:
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
