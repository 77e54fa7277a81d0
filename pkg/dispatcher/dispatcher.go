package dispatcher

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/samvad-hq/wiredispatch/pkg/httpclient"
	"github.com/samvad-hq/wiredispatch/pkg/request"
	"github.com/samvad-hq/wiredispatch/pkg/status"
)

const defaultTimeout = 30 * time.Second

// Options tunes a Dispatcher.
type Options struct {
	Logger Logger
	// Queue receives every completion. When nil the dispatcher starts and
	// owns a Queue of QueueSize.
	Queue     CallbackQueue
	QueueSize int
	// Strict turns the two silent paths (missing host, empty 2xx body) into
	// ErrMissingHost and status.EmptyData completions.
	Strict bool
}

// Dispatcher sends descriptors through a Transport and delivers typed results.
// It keeps no per-call state, so one instance can serve concurrent calls.
type Dispatcher struct {
	transport httpclient.Transport
	queue     CallbackQueue
	ownQueue  *Queue
	log       Logger
	strict    bool
}

// New builds a dispatcher. A nil transport falls back to a resty client.
func New(transport httpclient.Transport, opts Options) *Dispatcher {
	if transport == nil {
		transport = httpclient.NewRestyClient(defaultTimeout)
	}
	d := &Dispatcher{
		transport: transport,
		queue:     opts.Queue,
		log:       ensureLogger(opts.Logger),
		strict:    opts.Strict,
	}
	if d.queue == nil {
		d.ownQueue = NewQueue(opts.QueueSize)
		d.queue = d.ownQueue
	}
	return d
}

// Strict reports whether silent paths are surfaced as errors.
func (d *Dispatcher) Strict() bool { return d != nil && d.strict }

// Close stops the callback queue if the dispatcher owns it. Completions still
// in flight afterwards are dropped.
func (d *Dispatcher) Close() {
	if d == nil || d.ownQueue == nil {
		return
	}
	d.ownQueue.Close()
}

// Execute sends req and decodes a successful response body into T.
//
// completion is called at most once and never before Execute returns. It is
// not called at all when req has no host or a 2xx response has an empty body,
// unless the dispatcher is strict.
func Execute[T any](d *Dispatcher, req request.Descriptor, debug bool, completion func(T, error)) {
	if d == nil {
		return
	}
	if completion == nil {
		completion = func(T, error) {}
	}

	wire, err := BuildWireRequest(req)
	if err != nil {
		if errors.Is(err, ErrMissingHost) && !d.strict {
			if debug {
				d.log.InfoObj("dispatch skipped", "request", map[string]any{
					"path":   req.Path,
					"method": req.Method.String(),
					"reason": err.Error(),
				})
			}
			return
		}
		go d.deliver(wire, func() { completion(zeroValue[T](), err) })
		return
	}

	go roundTrip(d, wire, debug, completion)
}

func roundTrip[T any](d *Dispatcher, wire httpclient.WireRequest, debug bool, completion func(T, error)) {
	if debug {
		d.traceRequest(wire)
	}

	resp, err := d.transport.Do(context.Background(), wire)
	if err != nil {
		if debug {
			d.traceFailure(wire, err)
		}
		d.deliver(wire, func() { completion(zeroValue[T](), err) })
		return
	}

	code := resp.StatusCode()
	body := resp.Body()
	if debug {
		d.traceResponse(wire, code, body)
	}

	if st := status.Classify(code); !st.IsSuccess() {
		d.deliver(wire, func() { completion(zeroValue[T](), st) })
		return
	}

	if len(body) == 0 {
		if d.strict {
			d.deliver(wire, func() { completion(zeroValue[T](), status.EmptyData) })
		}
		return
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		d.deliver(wire, func() { completion(zeroValue[T](), err) })
		return
	}
	d.deliver(wire, func() { completion(out, nil) })
}

func (d *Dispatcher) deliver(wire httpclient.WireRequest, fn func()) {
	if !d.queue.Post(fn) {
		d.log.WarnObj("completion dropped", "dispatch", map[string]any{
			"method": wire.Method,
			"url":    wire.URL,
			"reason": "callback queue closed",
		})
	}
}

func zeroValue[T any]() T {
	var zero T
	return zero
}

// IsDecodeError reports whether err came from decoding a response body.
func IsDecodeError(err error) bool {
	var (
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		invalid   *json.InvalidUnmarshalError
	)
	return errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.As(err, &invalid)
}
