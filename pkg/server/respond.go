package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/telemetry/logging"
)

// jsonOverhead allows for the JSON envelope around the source text.
const jsonOverhead = 64 << 10

// errSourceTooLarge is reported when a source exceeds max_source_bytes.
var errSourceTooLarge = errors.New("source exceeds the maximum size")

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg, suggestion string) {
	writeJSON(w, code, ErrorResponse{
		Error:      msg,
		Suggestion: suggestion,
		RequestID:  logging.GetRequestID(r.Context()),
	})
}

// writeVersionError answers 422 for unknown grammar versions and 500 for
// anything else.
func writeVersionError(w http.ResponseWriter, r *http.Request, err error) {
	var uve *grammar.UnknownVersionError
	if errors.As(err, &uve) {
		writeError(w, r, http.StatusUnprocessableEntity,
			fmt.Sprintf("unknown grammar version %q", uve.Version), uve.Suggestion())
		return
	}
	if errors.Is(err, grammar.ErrUnknownVersion) {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), "")
		return
	}
	writeError(w, r, http.StatusInternalServerError, "internal error", "")
}

// decode reads a JSON body into dst and validates it. It writes the error
// response and returns false on failure.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	limit := s.config.Analyzer.MaxSourceBytes*6 + jsonOverhead
	body := http.MaxBytesReader(w, r.Body, limit)

	if err := json.NewDecoder(body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeError(w, r, http.StatusRequestEntityTooLarge, errSourceTooLarge.Error(), "")
		case errors.Is(err, io.EOF):
			writeError(w, r, http.StatusBadRequest, "request body is empty", "")
		default:
			writeError(w, r, http.StatusBadRequest, "invalid JSON: "+err.Error(), "")
		}
		return false
	}

	if err := s.validate.Struct(dst); err != nil {
		writeError(w, r, http.StatusBadRequest, describeValidation(err), "")
		return false
	}
	return true
}

// checkSource rejects sources larger than max_source_bytes.
func (s *Server) checkSource(w http.ResponseWriter, r *http.Request, src string) bool {
	if int64(len(src)) > s.config.Analyzer.MaxSourceBytes {
		writeError(w, r, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s (%d bytes)", errSourceTooLarge, s.config.Analyzer.MaxSourceBytes), "")
		return false
	}
	return true
}

func describeValidation(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, field+" is required")
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return "invalid request: " + strings.Join(msgs, "; ")
}
