package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	errs "github.com/matzehuels/meltgauge/pkg/errors"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// statusFor maps error codes to HTTP statuses.
func statusFor(err error) int {
	switch {
	case errs.IsNotFound(err):
		return http.StatusNotFound
	case errs.IsInvalid(err):
		return http.StatusBadRequest
	case errs.Is(err, errs.ErrCodeUnsupported):
		return http.StatusNotImplemented
	case errs.Is(err, errs.ErrCodeTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errs.GetCode(err)
	if code == "" {
		code = errs.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("Handler error", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, errorResponse{Code: string(code), Message: errs.UserMessage(err)})
}

// intParam parses an optional integer query parameter.
func intParam(r *http.Request, name string) (int, bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, errs.New(errs.ErrCodeInvalidInput, "%s must be an integer, got %q", name, raw)
	}
	return v, true, nil
}

// boolParam treats "1", "true" and "yes" as true.
func boolParam(r *http.Request, name string) bool {
	switch r.URL.Query().Get(name) {
	case "1", "true", "yes":
		return true
	}
	return false
}

// cursorParam reads x and y together; one without the other is an error.
func cursorParam(r *http.Request) (*[2]int, error) {
	x, hasX, err := intParam(r, "x")
	if err != nil {
		return nil, err
	}
	y, hasY, err := intParam(r, "y")
	if err != nil {
		return nil, err
	}
	if hasX != hasY {
		return nil, errs.New(errs.ErrCodeInvalidInput, "x and y must be given together")
	}
	if !hasX {
		return nil, nil
	}
	return &[2]int{x, y}, nil
}
