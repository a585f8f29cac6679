package llm

import "fmt"

// RemoteServiceError is a non-2xx reply from the model endpoint. The
// transport retries the retryable subset; everything else is fatal for
// the call.
type RemoteServiceError struct {
	Status int
	Body   string
}

func (e *RemoteServiceError) Error() string {
	return fmt.Sprintf("remote service status %d: %s", e.Status, truncate(e.Body, 200))
}

// Retryable reports whether the status is in the transient set.
func (e *RemoteServiceError) Retryable() bool {
	switch e.Status {
	case 429, 500, 502, 503, 504:
		return true
	}
	return false
}

// TransportError is a network-level failure before any HTTP status was
// received.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
