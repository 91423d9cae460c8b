package fetcher

import "fmt"

type ErrorKind string

const (
	KindNetworkFailure  ErrorKind = "network_failure"
	KindTimeout         ErrorKind = "timeout"
	KindHTTPStatus      ErrorKind = "http_status"
	KindParseFailure    ErrorKind = "parse_failure"
	KindInvalidArgument ErrorKind = "invalid_argument"
)

// Error is the typed failure returned by the fetcher. Nothing above this
// layer sees a raw transport error.
type Error struct {
	Kind       ErrorKind
	URL        string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	if e.Kind == KindHTTPStatus {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %s: %s", e.URL, e.Kind, e.Message)
}

// Retryable reports whether the failure is transient. 4xx responses and
// malformed input are not worth a second attempt.
func (e *Error) Retryable() bool {
	switch e.Kind {
	case KindNetworkFailure, KindTimeout:
		return true
	case KindHTTPStatus:
		return e.StatusCode >= 500
	}
	return false
}
