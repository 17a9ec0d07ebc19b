package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"

	"mercator-hq/saturn/pkg/cql/versions"
	"mercator-hq/saturn/pkg/telemetry/logging"
	"mercator-hq/saturn/pkg/telemetry/tracing"
)

type sessionKey struct{}

// binding resolves the grammar version of a stateless request, falling
// back to the configured default.
func (s *Server) binding(version string) (*versions.Binding, error) {
	if version == "" {
		version = s.config.Analyzer.DefaultVersion
	}
	return s.cache.Binding(version)
}

func (s *Server) handleVersions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, VersionsResponse{
		Versions: s.registry.SupportedVersions(),
		Default:  s.config.Analyzer.DefaultVersion,
	})
}

func (s *Server) handleTokenize(w http.ResponseWriter, r *http.Request) {
	var req TokenizeRequest
	if !s.decode(w, r, &req) || !s.checkSource(w, r, req.Source) {
		return
	}
	b, err := s.binding(req.Version)
	if err != nil {
		writeVersionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TokenizeResponse{
		Version: b.Version(),
		Tokens:  s.tokenize(r.Context(), b, req.Source),
	})
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !s.decode(w, r, &req) || !s.checkSource(w, r, req.Source) {
		return
	}
	b, err := s.binding(req.Version)
	if err != nil {
		writeVersionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.validateSource(r.Context(), b, req.Source))
}

func (s *Server) handleCompletions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	b, err := s.binding(q.Get("version"))
	if err != nil {
		writeVersionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.complete(r.Context(), b, q.Get("prefix")))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 && !s.decode(w, r, &req) {
		return
	}
	version := req.Version
	if version == "" {
		version = s.config.Analyzer.DefaultVersion
	}

	opts := append(s.analyzerOptions(), versions.WithSwitchHook(func(from, to string) {
		s.metrics.RecordVersionSwitch(from, to, true)
	}))
	mgr, err := versions.NewManager(s.registry, version, opts...)
	if err != nil {
		writeVersionError(w, r, err)
		return
	}

	sess, err := s.sessions.Create(mgr)
	if errors.Is(err, ErrSessionLimit) {
		writeError(w, r, http.StatusTooManyRequests, err.Error(), "close an idle editor session")
		return
	}
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "internal error", "")
		return
	}

	s.logger.InfoContext(r.Context(), "session created",
		append(logging.Fields(r.Context()), "session_id", sess.ID, "version", mgr.Version())...)
	writeJSON(w, http.StatusCreated, SessionResponse{ID: sess.ID, Version: mgr.Version()})
}

// withSession loads the session named by the {id} URL parameter.
func (s *Server) withSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		sess, err := s.sessions.Get(id)
		if err != nil {
			writeError(w, r, http.StatusNotFound, err.Error(), "")
			return
		}
		tracing.SetSessionAttribute(trace.SpanFromContext(r.Context()), sess.ID)
		ctx := logging.WithSessionID(r.Context(), sess.ID)
		ctx = logging.WithGrammarVersion(ctx, sess.Manager.Version())
		ctx = context.WithValue(ctx, sessionKey{}, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *Session {
	return r.Context().Value(sessionKey{}).(*Session)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r)
	writeJSON(w, http.StatusOK, SessionResponse{ID: sess.ID, Version: sess.Manager.Version()})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	s.sessions.Delete(sessionFrom(r).ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetVersion(w http.ResponseWriter, r *http.Request) {
	var req SetVersionRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess := sessionFrom(r)
	from := sess.Manager.Version()
	b, err := sess.Manager.SetVersion(req.Version)
	if err != nil {
		s.metrics.RecordVersionSwitch(from, req.Version, false)
		writeVersionError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SessionResponse{ID: sess.ID, Version: b.Version()})
}

func (s *Server) handleSessionTokenize(w http.ResponseWriter, r *http.Request) {
	var req TokenizeRequest
	if !s.decode(w, r, &req) || !s.checkSource(w, r, req.Source) {
		return
	}
	b := sessionFrom(r).Manager.Current()
	writeJSON(w, http.StatusOK, TokenizeResponse{
		Version: b.Version(),
		Tokens:  s.tokenize(r.Context(), b, req.Source),
	})
}

func (s *Server) handleSessionValidate(w http.ResponseWriter, r *http.Request) {
	var req ValidateRequest
	if !s.decode(w, r, &req) || !s.checkSource(w, r, req.Source) {
		return
	}
	b := sessionFrom(r).Manager.Current()
	writeJSON(w, http.StatusOK, s.validateSource(r.Context(), b, req.Source))
}

func (s *Server) handleSessionCompletions(w http.ResponseWriter, r *http.Request) {
	b := sessionFrom(r).Manager.Current()
	writeJSON(w, http.StatusOK, s.complete(r.Context(), b, r.URL.Query().Get("prefix")))
}
