package sinks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/wiredispatch/pkg/dispatcher"
	"github.com/samvad-hq/wiredispatch/pkg/httpclient"
	"github.com/samvad-hq/wiredispatch/pkg/request"
	"github.com/samvad-hq/wiredispatch/pkg/status"
)

// httpSink posts outcomes to a webhook through a strict dispatcher, so every
// delivery attempt completes.
type httpSink struct {
	id         string
	typ        string
	desc       request.Descriptor
	dispatcher *dispatcher.Dispatcher
	log        Logger
}

func newHTTPSink(_ context.Context, cfg SinkConfig, log Logger) (Sink, error) {
	if cfg.HTTP == nil {
		return nil, fmt.Errorf("sink %q missing http configuration", cfg.ID)
	}
	method, err := request.ParseMethod(cfg.HTTP.Method)
	if err != nil {
		return nil, fmt.Errorf("sink %q: %w", cfg.ID, err)
	}
	if !method.CarriesBody() {
		return nil, fmt.Errorf("sink %q: method %s cannot carry the outcome body", cfg.ID, method)
	}

	header := make(map[string]any, len(cfg.HTTP.Headers))
	for k, v := range cfg.HTTP.Headers {
		header[k] = v
	}

	log = ensureLogger(log)
	client := httpclient.NewRestyClient(time.Duration(cfg.HTTP.TimeoutSeconds) * time.Second)

	return &httpSink{
		id:  cfg.ID,
		typ: TypeHTTP,
		desc: request.Descriptor{
			Host:   cfg.HTTP.URL,
			Method: method,
			Header: header,
		},
		dispatcher: dispatcher.New(client, dispatcher.Options{Logger: log, Strict: true, QueueSize: 1}),
		log:        log,
	}, nil
}

func (h *httpSink) ID() string   { return h.id }
func (h *httpSink) Type() string { return h.typ }

// Publish sends o as the JSON body and waits for the delivery result. A 2xx
// response is a delivery whether or not its body is JSON.
func (h *httpSink) Publish(ctx context.Context, o Outcome) error {
	desc := h.desc.Clone()
	desc.Body = o

	done := make(chan error, 1)
	dispatcher.Execute(h.dispatcher, desc, false, func(_ json.RawMessage, err error) {
		done <- err
	})

	select {
	case err := <-done:
		if err == nil || errors.Is(err, status.EmptyData) || dispatcher.IsDecodeError(err) {
			h.log.DebugObj("http sink delivered outcome", "sink_http_delivery", map[string]any{
				"sink_id": h.id,
				"request": o.Request,
			})
			return nil
		}
		return fmt.Errorf("http delivery: %w", err)
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the sink's dispatcher.
func (h *httpSink) Close() error {
	h.dispatcher.Close()
	return nil
}
