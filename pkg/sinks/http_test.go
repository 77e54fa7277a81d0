package sinks

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestHTTPSink(t *testing.T, url string, headers map[string]string) Sink {
	t.Helper()
	s, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{
			URL:            url,
			Method:         http.MethodPost,
			Headers:        headers,
			TimeoutSeconds: 2,
		},
	}, nil)
	if err != nil {
		t.Fatalf("newHTTPSink: %v", err)
	}
	t.Cleanup(func() { _ = s.(*httpSink).Close() })
	return s
}

func TestHTTPSinkPostsOutcome(t *testing.T) {
	var received Outcome
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if got := r.Header.Get("X-Test"); got != "1" {
			t.Errorf("missing header, got %q", got)
		}
		raw, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(raw, &received); err != nil {
			t.Errorf("decode outcome: %v", err)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"accepted":true}`))
	}))
	defer srv.Close()

	s := newTestHTTPSink(t, srv.URL, map[string]string{"X-Test": "1"})
	if err := s.Publish(context.Background(), Outcome{Request: "list-users", Status: "success"}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if received.Request != "list-users" || received.Status != "success" {
		t.Fatalf("unexpected outcome received %+v", received)
	}
}

func TestHTTPSinkAcceptsEmptyAndPlainTextResponses(t *testing.T) {
	for name, handler := range map[string]http.HandlerFunc{
		"no content": func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNoContent) },
		"plain text": func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) },
	} {
		srv := httptest.NewServer(handler)
		s := newTestHTTPSink(t, srv.URL, nil)
		if err := s.Publish(context.Background(), Outcome{Request: "r"}); err != nil {
			t.Errorf("%s: Publish: %v", name, err)
		}
		srv.Close()
	}
}

func TestHTTPSinkErrorOnNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := newTestHTTPSink(t, srv.URL, nil)
	if err := s.Publish(context.Background(), Outcome{}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}

func TestHTTPSinkRespectsContext(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-block
	}))
	defer srv.Close()
	defer close(block)

	s := newTestHTTPSink(t, srv.URL, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Publish(ctx, Outcome{}); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestNewHTTPSinkRejectsGET(t *testing.T) {
	_, err := newHTTPSink(context.Background(), SinkConfig{
		ID:   "hook",
		Type: TypeHTTP,
		HTTP: &HTTPSinkConfig{URL: "http://127.0.0.1:1", Method: http.MethodGet},
	}, nil)
	if err == nil {
		t.Fatalf("expected GET sink to be rejected")
	}
}
