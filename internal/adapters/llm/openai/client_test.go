package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	llm "github.com/randomtoy/gifmood-go/internal/adapters/llm/openai"
	"github.com/randomtoy/gifmood-go/internal/domain"
	"github.com/randomtoy/gifmood-go/internal/ports"
)

// fakeCompletions serves a chat completions endpoint that replies with the
// given content strings, one per call, and records request bodies.
func fakeCompletions(t *testing.T, contents ...string) (*httptest.Server, *[]map[string]any) {
	t.Helper()
	var requests []map[string]any
	call := 0

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		body, _ := io.ReadAll(r.Body)
		var req map[string]any
		_ = json.Unmarshal(body, &req)
		requests = append(requests, req)

		content := contents[len(contents)-1]
		if call < len(contents) {
			content = contents[call]
		}
		call++

		resp := map[string]any{
			"id":     "chatcmpl-test",
			"object": "chat.completion",
			"choices": []map[string]any{
				{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))

	return srv, &requests
}

func newClient(srv *httptest.Server) *llm.Client {
	return llm.NewClient("test-key", srv.URL, "strategy-model", "rank-model", 5*time.Second)
}

func TestDeriveStrategy_Success(t *testing.T) {
	srv, requests := fakeCompletions(t,
		`{"keywords": ["facepalm", "cringe"], "topic": "coding", "reasoning": "classic reaction"}`)
	defer srv.Close()

	client := newClient(srv)
	strategy, err := client.DeriveStrategy(context.Background(), "my code broke again")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(strategy.Keywords) != 2 || strategy.Keywords[0] != "facepalm" {
		t.Errorf("unexpected keywords: %v", strategy.Keywords)
	}
	if strategy.Topic != "coding" {
		t.Errorf("unexpected topic: %s", strategy.Topic)
	}
	if strategy.Perspective != "" {
		t.Errorf("single strategy should carry no perspective, got %q", strategy.Perspective)
	}

	req := (*requests)[0]
	if req["model"] != "strategy-model" {
		t.Errorf("request model: %v", req["model"])
	}
}

func TestDeriveStrategy_TruncatesExcessKeywords(t *testing.T) {
	srv, _ := fakeCompletions(t,
		`{"keywords": ["a", "b", "c", "d", "e"], "topic": "", "reasoning": "too many"}`)
	defer srv.Close()

	strategy, err := newClient(srv).DeriveStrategy(context.Background(), "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(strategy.Keywords) != domain.MaxKeywords {
		t.Errorf("expected %d keywords, got %d", domain.MaxKeywords, len(strategy.Keywords))
	}
}

func TestDeriveStrategy_InvalidJSON(t *testing.T) {
	srv, _ := fakeCompletions(t, "sure! here are some keywords: facepalm, cringe")
	defer srv.Close()

	_, err := newClient(srv).DeriveStrategy(context.Background(), "text")
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}

func TestDeriveStrategy_NoKeywords(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"keywords": [], "topic": "", "reasoning": "none"}`)
	defer srv.Close()

	_, err := newClient(srv).DeriveStrategy(context.Background(), "text")
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}

func TestDeriveStrategies_ReordersByPerspective(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"strategies": [
		{"perspective": "sarcastic", "keywords": ["this is fine"], "topic": "", "reasoning": "irony"},
		{"perspective": "emotional", "keywords": ["overwhelmed"], "topic": "", "reasoning": "feeling"},
		{"perspective": "literal", "keywords": ["deadline", "typing"], "topic": "office", "reasoning": "scene"}
	]}`)
	defer srv.Close()

	strategies, err := newClient(srv).DeriveStrategies(context.Background(), "deadline is tomorrow")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(strategies) != 3 {
		t.Fatalf("expected 3 strategies, got %d", len(strategies))
	}

	want := []domain.Perspective{domain.PerspectiveEmotional, domain.PerspectiveLiteral, domain.PerspectiveSarcastic}
	for i, s := range strategies {
		if s.Perspective != want[i] {
			t.Errorf("strategy %d: expected perspective %q, got %q", i, want[i], s.Perspective)
		}
	}
	if strategies[1].Topic != "office" {
		t.Errorf("unexpected literal topic: %s", strategies[1].Topic)
	}
}

func TestDeriveStrategies_WrongCount(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"strategies": [
		{"perspective": "emotional", "keywords": ["overwhelmed"], "topic": "", "reasoning": "feeling"}
	]}`)
	defer srv.Close()

	_, err := newClient(srv).DeriveStrategies(context.Background(), "text")
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}

func TestDeriveStrategies_UnknownPerspective(t *testing.T) {
	srv, _ := fakeCompletions(t, `{"strategies": [
		{"perspective": "cheerful", "keywords": ["yay"], "topic": "", "reasoning": "r"},
		{"perspective": "literal", "keywords": ["a"], "topic": "", "reasoning": "r"},
		{"perspective": "sarcastic", "keywords": ["b"], "topic": "", "reasoning": "r"}
	]}`)
	defer srv.Close()

	_, err := newClient(srv).DeriveStrategies(context.Background(), "text")
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}

func TestSelectBest_Success(t *testing.T) {
	srv, requests := fakeCompletions(t, `{"selected_index": 2, "reasoning": "best match"}`)
	defer srv.Close()

	in := ports.RankInput{
		Text:     "my code broke again",
		Guidance: domain.PerspectiveSarcastic.Guidance(),
		Candidates: []ports.RankCandidate{
			{Index: 0, Title: "Facepalm"},
			{Index: 1, Title: "Cringe", AltText: "awkward face"},
			{Index: 2, Title: "This Is Fine"},
		},
	}

	selection, err := newClient(srv).SelectBest(context.Background(), in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if selection.SelectedIndex != 2 {
		t.Errorf("unexpected index: %d", selection.SelectedIndex)
	}

	req := (*requests)[0]
	if req["model"] != "rank-model" {
		t.Errorf("request model: %v", req["model"])
	}
	raw, _ := json.Marshal(req["messages"])
	messages := string(raw)
	if !strings.Contains(messages, "ironic or deadpan") {
		t.Error("system message should carry the perspective guidance")
	}
	if !strings.Contains(messages, "awkward face") {
		t.Error("user message should include candidate alt text")
	}
}

func TestSelectBest_InvalidJSON(t *testing.T) {
	srv, _ := fakeCompletions(t, "I would pick number 2")
	defer srv.Close()

	_, err := newClient(srv).SelectBest(context.Background(), ports.RankInput{
		Text:       "text",
		Candidates: []ports.RankCandidate{{Index: 0, Title: "Only"}},
	})
	if !errors.Is(err, domain.ErrInvalidLLMJSON) {
		t.Fatalf("expected ErrInvalidLLMJSON, got %v", err)
	}
}
