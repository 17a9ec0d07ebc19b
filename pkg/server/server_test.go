package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"mercator-hq/saturn/pkg/config"
	"mercator-hq/saturn/pkg/cql/grammar"
	"mercator-hq/saturn/pkg/cql/lexer"
	"mercator-hq/saturn/pkg/telemetry/metrics"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *httptest.Server) {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(cfg)
	}
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, prometheus.NewRegistry())
	s, err := NewServer(cfg, grammar.Default(),
		WithLogger(slog.New(slog.DiscardHandler)),
		WithMetrics(collector),
	)
	if err != nil {
		t.Fatalf("NewServer() error = %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func doJSON(t *testing.T, ts *httptest.Server, method, path string, body any, out any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, ts.URL+path, rdr)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode %s %s: %v", method, path, err)
		}
	}
	return resp
}

func TestNewServer(t *testing.T) {
	cfg := config.Default()
	if _, err := NewServer(nil, grammar.Default()); err == nil {
		t.Error("nil config should fail")
	}
	if _, err := NewServer(cfg, nil); err == nil {
		t.Error("nil registry should fail")
	}
	cfg.Analyzer.DefaultVersion = "0.9"
	if _, err := NewServer(cfg, grammar.Default()); err == nil {
		t.Error("unknown default version should fail")
	}
}

func TestVersions(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var got VersionsResponse
	resp := doJSON(t, ts, http.MethodGet, "/v1/versions", nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got.Default != "1.5.3" {
		t.Errorf("default = %q", got.Default)
	}
	want := []string{"1.3.0", "1.4.0", "1.5.3", "2.0.0-ballot"}
	if strings.Join(got.Versions, ",") != strings.Join(want, ",") {
		t.Errorf("versions = %v, want %v", got.Versions, want)
	}
}

func TestTokenize(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var got TokenizeResponse
	resp := doJSON(t, ts, http.MethodPost, "/v1/tokenize",
		TokenizeRequest{Version: "1.5.3", Source: "define X: 3 + 4"}, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	want := []lexer.Category{
		lexer.CategoryKeyword, lexer.CategoryIdentifier, lexer.CategoryPunctuation,
		lexer.CategoryNumber, lexer.CategoryOperator, lexer.CategoryNumber,
	}
	if len(got.Tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got.Tokens), len(want), got.Tokens)
	}
	for i, tok := range got.Tokens {
		if tok.Category != want[i] {
			t.Errorf("token %d category = %s, want %s", i, tok.Category, want[i])
		}
	}
	if got.Tokens[1].Start != 7 || got.Tokens[1].End != 8 {
		t.Errorf("identifier span = [%d,%d), want [7,8)", got.Tokens[1].Start, got.Tokens[1].End)
	}
}

func TestTokenize_DefaultVersion(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var got TokenizeResponse
	doJSON(t, ts, http.MethodPost, "/v1/tokenize", TokenizeRequest{Source: ""}, &got)
	if got.Version != "1.5.3" {
		t.Errorf("version = %q, want default", got.Version)
	}
	if got.Tokens == nil || len(got.Tokens) != 0 {
		t.Errorf("tokens = %v, want empty list", got.Tokens)
	}
}

func TestRequestErrors(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) {
		c.Analyzer.MaxSourceBytes = 8
	})

	tests := []struct {
		name           string
		path           string
		body           any
		wantStatus     int
		wantSuggestion string
	}{
		{
			name:           "unknown version",
			path:           "/v1/tokenize",
			body:           TokenizeRequest{Version: "1.5.2", Source: "x"},
			wantStatus:     http.StatusUnprocessableEntity,
			wantSuggestion: "Did you mean '1.5.3'?",
		},
		{
			name:       "source too large",
			path:       "/v1/validate",
			body:       ValidateRequest{Source: "123456789"},
			wantStatus: http.StatusRequestEntityTooLarge,
		},
		{
			name:       "version too long",
			path:       "/v1/tokenize",
			body:       TokenizeRequest{Version: strings.Repeat("9", 65)},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "wrong body shape",
			path:       "/v1/validate",
			body:       []int{1, 2},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ErrorResponse
			resp := doJSON(t, ts, http.MethodPost, tt.path, tt.body, &got)
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d (%s)", resp.StatusCode, tt.wantStatus, got.Error)
			}
			if got.Error == "" {
				t.Error("error message is empty")
			}
			if got.Suggestion != tt.wantSuggestion {
				t.Errorf("suggestion = %q, want %q", got.Suggestion, tt.wantSuggestion)
			}
			if got.RequestID == "" {
				t.Error("request_id missing from error body")
			}
		})
	}
}

func TestRequestErrors_ContentType(t *testing.T) {
	_, ts := newTestServer(t, nil)

	resp, err := ts.Client().Post(ts.URL+"/v1/tokenize", "text/plain", strings.NewReader(`{"source":"x"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("status = %d, want 415", resp.StatusCode)
	}

	resp, err = ts.Client().Post(ts.URL+"/v1/tokenize", "application/json", strings.NewReader(`{"source":`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("truncated JSON status = %d, want 400", resp.StatusCode)
	}
}

func TestValidate(t *testing.T) {
	_, ts := newTestServer(t, nil)

	tests := []struct {
		name       string
		source     string
		wantValid  bool
		wantOffset []int
	}{
		{"empty", "", true, nil},
		{"balanced", "define X: ({[1]})", true, nil},
		{"stray closer", "{ [ ) ] }", false, []int{4}},
		{"unclosed", "{ {", false, []int{0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got ValidateResponse
			doJSON(t, ts, http.MethodPost, "/v1/validate", ValidateRequest{Source: tt.source}, &got)
			if got.IsValid != tt.wantValid {
				t.Errorf("isValid = %v, want %v", got.IsValid, tt.wantValid)
			}
			if len(got.Problems) != len(tt.wantOffset) || len(got.Errors) != len(tt.wantOffset) {
				t.Fatalf("problems = %+v, want offsets %v", got.Problems, tt.wantOffset)
			}
			for i, p := range got.Problems {
				if p.Offset != tt.wantOffset[i] {
					t.Errorf("problem %d offset = %d, want %d", i, p.Offset, tt.wantOffset[i])
				}
				if p.Line != 1 || p.Column != tt.wantOffset[i]+1 {
					t.Errorf("problem %d at %d:%d", i, p.Line, p.Column)
				}
			}
		})
	}
}

func TestValidate_ContextAwareConfig(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) {
		c.Analyzer.ContextAwareValidation = true
	})

	var got ValidateResponse
	doJSON(t, ts, http.MethodPost, "/v1/validate", ValidateRequest{Source: "define X: '}'"}, &got)
	if !got.IsValid {
		t.Errorf("bracket in string should be ignored, got %v", got.Errors)
	}
}

func TestCompletions(t *testing.T) {
	_, ts := newTestServer(t, nil)

	var got CompletionsResponse
	resp := doJSON(t, ts, http.MethodGet, "/v1/completions?prefix=def", nil, &got)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if len(got.Items) < 2 || got.Items[0].Label != "default" || got.Items[1].Label != "define" {
		t.Errorf("items = %+v", got.Items)
	}

	if got.Suggestion != "" {
		t.Errorf("suggestion = %q, want none when items match", got.Suggestion)
	}

	var miss CompletionsResponse
	doJSON(t, ts, http.MethodGet, "/v1/completions?prefix=defien", nil, &miss)
	if len(miss.Items) != 0 || miss.Suggestion != "define" {
		t.Errorf("misspelled prefix = %+v, want no items and suggestion define", miss)
	}

	var errResp ErrorResponse
	resp = doJSON(t, ts, http.MethodGet, "/v1/completions?version=3.0", nil, &errResp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unknown version status = %d", resp.StatusCode)
	}
}

func TestSessionLifecycle(t *testing.T) {
	s, ts := newTestServer(t, nil)

	var created SessionResponse
	resp := doJSON(t, ts, http.MethodPost, "/v1/sessions", CreateSessionRequest{Version: "1.4.0"}, &created)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	if created.ID == "" || created.Version != "1.4.0" {
		t.Fatalf("created = %+v", created)
	}
	if s.Sessions().Len() != 1 {
		t.Errorf("store has %d sessions", s.Sessions().Len())
	}
	base := "/v1/sessions/" + created.ID

	var errResp ErrorResponse
	resp = doJSON(t, ts, http.MethodPut, base+"/version", SetVersionRequest{Version: "7.0"}, &errResp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unknown version status = %d", resp.StatusCode)
	}

	var got SessionResponse
	doJSON(t, ts, http.MethodGet, base, nil, &got)
	if got.Version != "1.4.0" {
		t.Errorf("version after failed switch = %q, want 1.4.0", got.Version)
	}

	resp = doJSON(t, ts, http.MethodPut, base+"/version", SetVersionRequest{Version: "1.5.3"}, &got)
	if resp.StatusCode != http.StatusOK || got.Version != "1.5.3" {
		t.Errorf("switch status = %d, version = %q", resp.StatusCode, got.Version)
	}

	var tokens TokenizeResponse
	doJSON(t, ts, http.MethodPost, base+"/tokenize", TokenizeRequest{Source: "define X: 1"}, &tokens)
	if tokens.Version != "1.5.3" || len(tokens.Tokens) != 4 {
		t.Errorf("session tokenize = %+v", tokens)
	}

	var valid ValidateResponse
	doJSON(t, ts, http.MethodPost, base+"/validate", ValidateRequest{Source: "("}, &valid)
	if valid.IsValid {
		t.Error("session validate should report the unclosed paren")
	}

	var items CompletionsResponse
	doJSON(t, ts, http.MethodGet, base+"/completions?prefix=Sum", nil, &items)
	if len(items.Items) == 0 || items.Version != "1.5.3" {
		t.Errorf("session completions = %+v", items)
	}

	resp = doJSON(t, ts, http.MethodDelete, base, nil, nil)
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
	resp = doJSON(t, ts, http.MethodGet, base, nil, &errResp)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete status = %d", resp.StatusCode)
	}
}

func TestSessionCreate_Errors(t *testing.T) {
	_, ts := newTestServer(t, func(c *config.Config) {
		c.Server.MaxSessions = 1
	})

	var errResp ErrorResponse
	resp := doJSON(t, ts, http.MethodPost, "/v1/sessions", CreateSessionRequest{Version: "0.1"}, &errResp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("unknown version status = %d", resp.StatusCode)
	}

	var created SessionResponse
	resp = doJSON(t, ts, http.MethodPost, "/v1/sessions", nil, &created)
	if resp.StatusCode != http.StatusCreated || created.Version != "1.5.3" {
		t.Fatalf("create without body: status = %d, %+v", resp.StatusCode, created)
	}

	resp = doJSON(t, ts, http.MethodPost, "/v1/sessions", nil, &errResp)
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Errorf("over limit status = %d", resp.StatusCode)
	}
}

func TestProbesAndHeaders(t *testing.T) {
	_, ts := newTestServer(t, nil)

	for _, path := range []string{"/health", "/ready", "/version"} {
		resp, err := ts.Client().Get(ts.URL + path)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s status = %d", path, resp.StatusCode)
		}
		if resp.Header.Get(RequestIDHeader) == "" {
			t.Errorf("%s missing %s", path, RequestIDHeader)
		}
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/v1/versions", nil)
	req.Header.Set(RequestIDHeader, "editor-42")
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "editor-42" {
		t.Errorf("request id = %q, want client value", got)
	}

	resp, err = ts.Client().Get(ts.URL + "/nope")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route status = %d", resp.StatusCode)
	}
}

func TestCORSPreflight(t *testing.T) {
	_, ts := newTestServer(t, nil)

	req, _ := http.NewRequest(http.MethodOptions, ts.URL+"/v1/tokenize", nil)
	req.Header.Set("Origin", "http://ide.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.Header.Get("Access-Control-Allow-Origin") == "" {
		t.Error("preflight missing Access-Control-Allow-Origin")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	_, ts := newTestServer(t, nil)

	doJSON(t, ts, http.MethodPost, "/v1/tokenize", TokenizeRequest{Source: "define X: 1"}, &TokenizeResponse{})

	resp, err := ts.Client().Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`saturn_analyzer_http_requests_total{method="POST",route="/v1/tokenize",status="200"} 1`,
		`saturn_analyzer_tokenize_total{version="1.5.3"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRecoverer(t *testing.T) {
	s, _ := newTestServer(t, nil)

	h := s.recoverer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
}

func TestStart_ShutdownOnCancel(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Server.ListenAddress = "127.0.0.1:0"
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("Start() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
