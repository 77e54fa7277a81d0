package sinks

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/samvad-hq/wiredispatch/pkg/dispatcher"
	"github.com/samvad-hq/wiredispatch/pkg/status"
)

func TestLabel(t *testing.T) {
	var syntaxErr error = json.Unmarshal([]byte("{"), &struct{}{})
	cases := []struct {
		err  error
		want string
	}{
		{nil, "success"},
		{status.NotFound, "not_found"},
		{fmt.Errorf("wrapped: %w", status.GatewayTimeout), "gateway_timeout"},
		{status.EmptyData, "empty_data"},
		{dispatcher.ErrMissingHost, OutcomeMissingHost},
		{fmt.Errorf("%w: x", dispatcher.ErrEncodeBody), OutcomeEncodeError},
		{syntaxErr, OutcomeDecodeError},
		{errors.New("dial tcp: connection refused"), OutcomeTransportError},
	}
	for _, c := range cases {
		if got := Label(c.err); got != c.want {
			t.Errorf("Label(%v) = %q, want %q", c.err, got, c.want)
		}
	}
}

func TestNewOutcomeKeepsBodyOnlyOnSuccess(t *testing.T) {
	ok := NewOutcome("r", "GET", "http://h", json.RawMessage(`{"a":1}`), nil)
	if ok.Status != "success" || string(ok.Body) != `{"a":1}` || ok.Error != "" {
		t.Fatalf("unexpected success outcome %+v", ok)
	}

	failed := NewOutcome("r", "GET", "http://h", json.RawMessage(`{"a":1}`), status.Forbidden)
	if failed.Status != "forbidden" || failed.Body != nil || failed.Error == "" {
		t.Fatalf("unexpected failed outcome %+v", failed)
	}

	silent := NoCompletion("r", "GET", "http://h")
	if silent.Status != OutcomeNoCompletion {
		t.Fatalf("unexpected silent outcome %+v", silent)
	}
}
