package request

import (
	"fmt"
	"strings"
)

// Method is the closed set of HTTP verbs a Descriptor may carry.
type Method string

const (
	GET    Method = "GET"
	POST   Method = "POST"
	PUT    Method = "PUT"
	DELETE Method = "DELETE"
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case GET, POST, PUT, DELETE:
		return true
	}
	return false
}

// CarriesBody reports whether requests using m serialize a body.
func (m Method) CarriesBody() bool {
	return m == POST || m == PUT || m == DELETE
}

func (m Method) String() string { return string(m) }

// ParseMethod converts a verb name (any case) into a Method.
func ParseMethod(s string) (Method, error) {
	m := Method(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported method %q", s)
	}
	return m, nil
}

// Descriptor describes a single HTTP call. An empty Host means the host is
// absent. Descriptors are passed by value and never mutated by the dispatcher.
type Descriptor struct {
	Host   string         `json:"host" yaml:"host"`
	Path   string         `json:"path" yaml:"path"`
	Method Method         `json:"method" yaml:"method"`
	Body   any            `json:"body,omitempty" yaml:"body"`
	Params map[string]any `json:"params,omitempty" yaml:"params"`
	Header map[string]any `json:"header,omitempty" yaml:"header"`
}

// Clone returns a copy of d with its own Params and Header maps.
// Body is shared.
func (d Descriptor) Clone() Descriptor {
	out := d
	out.Params = cloneMap(d.Params)
	out.Header = cloneMap(d.Header)
	return out
}

func cloneMap(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
