package dispatcher

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/samvad-hq/wiredispatch/pkg/httpclient"
	"github.com/samvad-hq/wiredispatch/pkg/request"
	"github.com/spf13/cast"
)

// ErrMissingHost is reported when a descriptor has no host. Outside strict
// mode it never reaches the completion callback.
var ErrMissingHost = errors.New("request host is missing")

// ErrEncodeBody wraps failures to serialize a descriptor body.
var ErrEncodeBody = errors.New("encode request body")

const contentTypeJSON = "application/json"

// BuildWireRequest translates a descriptor into a wire request. The URL is
// Host+Path, with params appended as a naive query string for GET only.
// Params are written in key order and are not escaped.
func BuildWireRequest(req request.Descriptor) (httpclient.WireRequest, error) {
	if strings.TrimSpace(req.Host) == "" {
		return httpclient.WireRequest{}, ErrMissingHost
	}

	method := req.Method
	if method == "" {
		method = request.GET
	}
	if !method.Valid() {
		return httpclient.WireRequest{}, fmt.Errorf("unsupported method %q", req.Method)
	}

	url := req.Host + req.Path
	if method == request.GET {
		if q := queryString(req.Params); q != "" {
			url += "?" + q
		}
	}

	header := make(http.Header, len(req.Header))
	for k, v := range req.Header {
		header.Add(k, stringify(v))
	}

	var body []byte
	if method.CarriesBody() && req.Body != nil {
		raw, err := json.Marshal(req.Body)
		if err != nil {
			return httpclient.WireRequest{}, fmt.Errorf("%w for %s: %w", ErrEncodeBody, method, err)
		}
		body = raw
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", contentTypeJSON)
		}
	}

	return httpclient.WireRequest{
		Method: method.String(),
		URL:    url,
		Header: header,
		Body:   body,
	}, nil
}

func queryString(params map[string]any) string {
	if len(params) == 0 {
		return ""
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+stringify(params[k]))
	}
	return strings.Join(pairs, "&")
}

func stringify(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
