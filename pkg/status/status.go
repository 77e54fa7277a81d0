package status

import "strings"

// Status is the closed outcome taxonomy for an HTTP response. It doubles as an
// error value so non-2xx responses can be handed to callers directly.
type Status int

const (
	Unknown Status = iota
	Success
	EmptyData
	NotFound
	Unprocessable
	TooManyRequests
	Unauthorized
	Forbidden
	Conflict
	InternalServerError
	ServiceUnavailable
	GatewayTimeout
	Timeout
)

var names = map[Status]string{
	Unknown:             "unknown",
	Success:             "success",
	EmptyData:           "empty_data",
	NotFound:            "not_found",
	Unprocessable:       "unprocessable",
	TooManyRequests:     "too_many_requests",
	Unauthorized:        "unauthorized",
	Forbidden:           "forbidden",
	Conflict:            "conflict",
	InternalServerError: "internal_server_error",
	ServiceUnavailable:  "service_unavailable",
	GatewayTimeout:      "gateway_timeout",
	Timeout:             "timeout",
}

// Classify maps a numeric HTTP status code onto the taxonomy. A zero code
// stands for an absent status and classifies as Unknown.
func Classify(code int) Status {
	switch {
	case code >= 200 && code < 300:
		return Success
	}

	switch code {
	case 401:
		return Unauthorized
	case 403:
		return Forbidden
	case 404:
		return NotFound
	case 408:
		return Timeout
	case 409:
		return Conflict
	case 422:
		return Unprocessable
	case 429:
		return TooManyRequests
	case 500:
		return InternalServerError
	case 503:
		return ServiceUnavailable
	case 504:
		return GatewayTimeout
	default:
		return Unknown
	}
}

// Parse returns the Status whose String form matches name (case-insensitive).
func Parse(name string) (Status, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range names {
		if n == name {
			return s, true
		}
	}
	return Unknown, false
}

// IsSuccess reports whether s is the Success value.
func (s Status) IsSuccess() bool { return s == Success }

func (s Status) String() string {
	if n, ok := names[s]; ok {
		return n
	}
	return names[Unknown]
}

// Error implements the error interface.
func (s Status) Error() string {
	return "http status: " + s.String()
}
