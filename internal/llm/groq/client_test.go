package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := NewClient(srv.URL, "test-key", "test-model", srv.Client())
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func chatReply(content string) []byte {
	reply := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": content}},
		},
	}
	data, _ := json.Marshal(reply)
	return data
}

func TestNewClientRequiresKey(t *testing.T) {
	if _, err := NewClient("", "", "test-model", nil); !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestAskBuildsDeterministicSingleTurnRequest(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Write(chatReply("  the answer \n"))
	})

	answer, err := client.Ask(context.Background(), "Summarize this:", "resume text", 300)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "the answer" {
		t.Fatalf("expected trimmed answer, got %q", answer)
	}
	if got.Temperature != 0 {
		t.Fatalf("expected temperature 0, got %v", got.Temperature)
	}
	if got.MaxTokens != 300 {
		t.Fatalf("expected max_tokens 300, got %d", got.MaxTokens)
	}
	if len(got.Messages) != 1 || got.Messages[0].Role != "user" {
		t.Fatalf("expected single user message, got %+v", got.Messages)
	}
	if got.Messages[0].Content != "Summarize this:\n\nresume text" {
		t.Fatalf("unexpected prompt: %q", got.Messages[0].Content)
	}
}

func TestAskDefaultsMaxTokens(t *testing.T) {
	var got chatRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Write(chatReply("ok"))
	})

	if _, err := client.Ask(context.Background(), "q", "c", 0); err != nil {
		t.Fatalf("ask: %v", err)
	}
	if got.MaxTokens != 500 {
		t.Fatalf("expected default max_tokens 500, got %d", got.MaxTokens)
	}
}

func TestAskRetriesTransientThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			http.Error(w, "upstream blew up", http.StatusInternalServerError)
			return
		}
		w.Write(chatReply("recovered"))
	})

	answer, err := client.Ask(context.Background(), "q", "c", 100)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if answer != "recovered" {
		t.Fatalf("expected recovered, got %q", answer)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 calls, got %d", calls.Load())
	}
}

func TestAskDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad request", http.StatusBadRequest)
	})

	_, err := client.Ask(context.Background(), "q", "c", 100)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected HTTPError 400, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected 1 call, got %d", calls.Load())
	}
}

func TestAskGivesUpAfterBoundedRetries(t *testing.T) {
	var calls atomic.Int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "still down", http.StatusServiceUnavailable)
	})

	_, err := client.Ask(context.Background(), "q", "c", 100)
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", calls.Load())
	}
}

func TestAskIdempotentForIdenticalInput(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		// Deterministic stub: answer is a pure function of the prompt.
		w.Write(chatReply("echo: " + req.Messages[0].Content))
	})

	first, err := client.Ask(context.Background(), "q", "same text", 100)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	second, err := client.Ask(context.Background(), "q", "same text", 100)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if first != second {
		t.Fatalf("expected identical answers, got %q vs %q", first, second)
	}
}
