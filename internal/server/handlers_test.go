package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"claimflow-rag/internal/assistant"
	"claimflow-rag/internal/config"
	"claimflow-rag/internal/rag"
	"claimflow-rag/internal/savings"
)

type mockAnswerer struct {
	query string
	opts  assistant.Options
}

func (m *mockAnswerer) Respond(_ context.Context, query string, opts assistant.Options) assistant.Response {
	m.query, m.opts = query, opts
	return assistant.Response{Text: "Claims move through filing and assessment.", State: assistant.StateDone}
}

type mockSearcher struct {
	err  error
	opts rag.Options
}

func (m *mockSearcher) Search(_ context.Context, _ string, opts rag.Options) (*rag.Context, error) {
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	return &rag.Context{Passages: []rag.Passage{{ID: "claims.txt-regular-0", Similarity: 0.8, Text: "Report the claim."}}}, nil
}

func newTestServer(a Answerer, s Searcher) http.Handler {
	return NewServer(a, s, &config.ServerConfig{Host: "localhost", Port: 8080, TimeoutSeconds: 5}).Router()
}

func post(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	if err != nil {
		t.Fatal(err)
	}
	r := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	return w
}

func TestHandleAnswer(t *testing.T) {
	a := &mockAnswerer{}
	h := newTestServer(a, &mockSearcher{})
	w := post(t, h, "/api/v1/answer", answerRequest{Query: "How do claims work?", K: 2, Language: "hindi"})
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d", w.Code)
	}
	var out assistant.Response
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Text == "" || out.State != assistant.StateDone {
		t.Errorf("unexpected response %+v", out)
	}
	if a.query != "How do claims work?" || a.opts.K != 2 || a.opts.Language != "hindi" {
		t.Errorf("request not forwarded: %q %+v", a.query, a.opts)
	}
}

func TestHandleAnswer_badBody(t *testing.T) {
	h := newTestServer(&mockAnswerer{}, &mockSearcher{})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/answer", bytes.NewBufferString("{"))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d", w.Code)
	}
}

func TestHandleRetrieve(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{rag.ErrEmptyQuery, http.StatusBadRequest},
		{fmt.Errorf("%w: collection missing", rag.ErrIndexUnavailable), http.StatusServiceUnavailable},
		{fmt.Errorf("embed failed"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		h := newTestServer(&mockAnswerer{}, &mockSearcher{err: tt.err})
		w := post(t, h, "/api/v1/retrieve", answerRequest{Query: "claim documents"})
		if w.Code != tt.want {
			t.Errorf("err %v: status %d, want %d", tt.err, w.Code, tt.want)
		}
	}
}

func TestHandleRetrieve_defaults(t *testing.T) {
	s := &mockSearcher{}
	h := NewServer(&mockAnswerer{}, s, &config.ServerConfig{TimeoutSeconds: 5}, WithRetrievalDefaults(4, 0.3)).Router()

	if w := post(t, h, "/api/v1/retrieve", map[string]any{"query": "claim documents"}); w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
	if s.opts.K != 4 || s.opts.MinSimilarity != 0.3 {
		t.Errorf("configured defaults not applied: %+v", s.opts)
	}

	post(t, h, "/api/v1/retrieve", map[string]any{"query": "claim documents", "k": 2, "min_similarity": 0})
	if s.opts.K != 2 || s.opts.MinSimilarity != 0 {
		t.Errorf("request values not applied: %+v", s.opts)
	}
}

func TestHandleSavings(t *testing.T) {
	h := newTestServer(&mockAnswerer{}, &mockSearcher{})

	w := post(t, h, "/api/v1/savings/sip", sipRequest{Monthly: 1000, Rate: 12, Years: 1})
	if w.Code != http.StatusOK {
		t.Fatalf("sip status %d", w.Code)
	}
	var sip savings.SIPResult
	if err := json.NewDecoder(w.Body).Decode(&sip); err != nil {
		t.Fatal(err)
	}
	if sip.TotalInvested != 12000 {
		t.Errorf("sip = %+v", sip)
	}

	if w := post(t, h, "/api/v1/savings/compound", compoundRequest{Principal: 10000, Rate: 8, Years: 5}); w.Code != http.StatusOK {
		t.Errorf("compound status %d", w.Code)
	}
	if w := post(t, h, "/api/v1/savings/compare", compoundRequest{Principal: 10000, Years: 5}); w.Code != http.StatusOK {
		t.Errorf("compare status %d", w.Code)
	}
	if w := post(t, h, "/api/v1/savings/compound", compoundRequest{Principal: -1, Rate: 8, Years: 5}); w.Code != http.StatusBadRequest {
		t.Errorf("invalid compound status %d", w.Code)
	}
}

func TestHandleHealth(t *testing.T) {
	h := newTestServer(&mockAnswerer{}, &mockSearcher{})
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
}
