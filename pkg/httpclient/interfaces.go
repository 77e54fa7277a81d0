package httpclient

import (
	"context"
	"net/http"
)

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
}

// WireRequest is a fully assembled request ready for a Transport.
type WireRequest struct {
	Method string
	URL    string
	Header http.Header
	Body   []byte
}

// Transport executes wire requests so callers can inject mocks or different clients.
type Transport interface {
	Do(ctx context.Context, req WireRequest) (Response, error)
}
