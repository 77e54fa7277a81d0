package sinks

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/samvad-hq/wiredispatch/pkg/dispatcher"
	"github.com/samvad-hq/wiredispatch/pkg/status"
)

// Outcome labels for results that are not a status taxonomy value.
const (
	OutcomeTransportError = "transport_error"
	OutcomeDecodeError    = "decode_error"
	OutcomeEncodeError    = "encode_error"
	OutcomeMissingHost    = "missing_host"
	OutcomeNoCompletion   = "no_completion"
)

// Outcome is the payload published for every dispatched request.
type Outcome struct {
	Request     string          `json:"request"`
	Method      string          `json:"method"`
	URL         string          `json:"url"`
	Status      string          `json:"status"`
	Error       string          `json:"error,omitempty"`
	Body        json.RawMessage `json:"body,omitempty"`
	CompletedAt time.Time       `json:"completed_at"`
}

// NewOutcome builds the Outcome for a completed dispatch.
func NewOutcome(name, method, url string, body json.RawMessage, err error) Outcome {
	o := Outcome{
		Request:     name,
		Method:      method,
		URL:         url,
		Status:      Label(err),
		CompletedAt: time.Now().UTC(),
	}
	if err != nil {
		o.Error = err.Error()
	} else {
		o.Body = body
	}
	return o
}

// NoCompletion builds the Outcome for a dispatch whose callback never fired.
func NoCompletion(name, method, url string) Outcome {
	return Outcome{
		Request:     name,
		Method:      method,
		URL:         url,
		Status:      OutcomeNoCompletion,
		CompletedAt: time.Now().UTC(),
	}
}

// Label names the kind of result err represents.
func Label(err error) string {
	if err == nil {
		return status.Success.String()
	}
	var st status.Status
	switch {
	case errors.As(err, &st):
		return st.String()
	case errors.Is(err, dispatcher.ErrMissingHost):
		return OutcomeMissingHost
	case errors.Is(err, dispatcher.ErrEncodeBody):
		return OutcomeEncodeError
	case dispatcher.IsDecodeError(err):
		return OutcomeDecodeError
	default:
		return OutcomeTransportError
	}
}
