package status

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifySuccessRange(t *testing.T) {
	for code := 200; code < 300; code++ {
		if got := Classify(code); got != Success {
			t.Fatalf("Classify(%d) = %s, want success", code, got)
		}
	}
}

func TestClassifyExplicitCodes(t *testing.T) {
	cases := map[int]Status{
		401: Unauthorized,
		403: Forbidden,
		404: NotFound,
		408: Timeout,
		409: Conflict,
		422: Unprocessable,
		429: TooManyRequests,
		500: InternalServerError,
		503: ServiceUnavailable,
		504: GatewayTimeout,
	}
	for code, want := range cases {
		if got := Classify(code); got != want {
			t.Errorf("Classify(%d) = %s, want %s", code, got, want)
		}
	}
}

func TestClassifyEverythingElseIsUnknown(t *testing.T) {
	for _, code := range []int{0, -1, 100, 199, 300, 301, 400, 402, 405, 410, 418, 501, 502, 505, 599, 1000} {
		if got := Classify(code); got != Unknown {
			t.Errorf("Classify(%d) = %s, want unknown", code, got)
		}
	}
}

func TestStatusIsUsableAsError(t *testing.T) {
	var err error = fmt.Errorf("call failed: %w", NotFound)

	var st Status
	if !errors.As(err, &st) {
		t.Fatalf("expected errors.As to find a Status in %v", err)
	}
	if st != NotFound {
		t.Fatalf("unwrapped status = %s, want not_found", st)
	}
	if !errors.Is(err, NotFound) {
		t.Fatalf("errors.Is should match NotFound")
	}
	if NotFound.Error() != "http status: not_found" {
		t.Fatalf("unexpected error text %q", NotFound.Error())
	}
}

func TestParseRoundTripsNames(t *testing.T) {
	for s := Unknown; s <= Timeout; s++ {
		got, ok := Parse(s.String())
		if !ok || got != s {
			t.Errorf("Parse(%q) = %s,%v", s.String(), got, ok)
		}
	}
	if _, ok := Parse("teapot"); ok {
		t.Fatalf("expected unknown name to fail parsing")
	}
	if got, _ := Parse(" Too_Many_Requests "); got != TooManyRequests {
		t.Fatalf("Parse should ignore case and spaces, got %s", got)
	}
}
