package server

import (
	"mercator-hq/saturn/pkg/cql/completion"
	"mercator-hq/saturn/pkg/cql/lexer"
)

// TokenizeRequest is the body of POST /v1/tokenize.
type TokenizeRequest struct {
	Version string `json:"version" validate:"omitempty,max=64"`
	Source  string `json:"source"`
}

// TokenizeResponse lists the tokens of the source in order.
type TokenizeResponse struct {
	Version string        `json:"version"`
	Tokens  []lexer.Token `json:"tokens"`
}

// ValidateRequest is the body of POST /v1/validate.
type ValidateRequest struct {
	Version string `json:"version" validate:"omitempty,max=64"`
	Source  string `json:"source"`
}

// Problem is one entry of the editor's problems list.
type Problem struct {
	Message string `json:"message"`
	Offset  int    `json:"offset"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Char    string `json:"char"`
	Kind    string `json:"kind"`
}

// ValidateResponse is the outcome of structural validation. Errors holds
// the bare messages; Problems adds their positions.
type ValidateResponse struct {
	IsValid  bool      `json:"isValid"`
	Errors   []string  `json:"errors"`
	Problems []Problem `json:"problems"`
}

// CompletionsResponse lists autocomplete suggestions.
// Suggestion names the closest vocabulary word when nothing matches the
// prefix.
type CompletionsResponse struct {
	Version    string            `json:"version"`
	Items      []completion.Item `json:"items"`
	Suggestion string            `json:"suggestion,omitempty"`
}

// VersionsResponse lists the registered grammar versions.
type VersionsResponse struct {
	Versions []string `json:"versions"`
	Default  string   `json:"default"`
}

// CreateSessionRequest is the body of POST /v1/sessions.
type CreateSessionRequest struct {
	Version string `json:"version" validate:"omitempty,max=64"`
}

// SetVersionRequest is the body of PUT /v1/sessions/{id}/version.
type SetVersionRequest struct {
	Version string `json:"version" validate:"required,max=64"`
}

// SessionResponse describes an editor session.
type SessionResponse struct {
	ID      string `json:"id"`
	Version string `json:"version"`
}

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}
