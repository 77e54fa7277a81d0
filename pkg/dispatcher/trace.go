package dispatcher

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/samvad-hq/wiredispatch/pkg/httpclient"
)

// traceRequest and traceResponse are the debug hook. They only log.

func (d *Dispatcher) traceRequest(w httpclient.WireRequest) {
	d.log.InfoObj("dispatch request", "request", map[string]any{
		"method": w.Method,
		"url":    w.URL,
		"header": w.Header,
		"body":   string(w.Body),
	})
}

func (d *Dispatcher) traceResponse(w httpclient.WireRequest, code int, body []byte) {
	d.log.InfoObj("dispatch response", "response", map[string]any{
		"method":      w.Method,
		"url":         w.URL,
		"status_code": code,
		"body":        prettyBody(body),
	})
}

func (d *Dispatcher) traceFailure(w httpclient.WireRequest, err error) {
	d.log.InfoObj("dispatch transport failure", "response", map[string]any{
		"method": w.Method,
		"url":    w.URL,
		"error":  err.Error(),
	})
}

func prettyBody(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return strings.TrimSpace(string(body))
	}
	return buf.String()
}
