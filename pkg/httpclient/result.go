package httpclient

import (
	"encoding/json"
	"fmt"
)

// Kind classifies a failed call.
type Kind string

const (
	// KindServer: the server answered with a non-2xx status.
	KindServer Kind = "SERVER_ERROR"
	// KindNetwork: the request was sent but no response arrived.
	KindNetwork Kind = "NO_INTERNET"
	// KindRequest: the request could not be built or dispatched.
	KindRequest Kind = "REQUEST_ERROR"
	// KindLocal: a service-side fault wrapped by a domain service.
	KindLocal Kind = "LOCAL_ERROR"
)

const (
	CodeNoInternet   = "NO_INTERNET"
	CodeRequestError = "REQUEST_ERROR"

	MessageNoInternet = "No internet connection"
)

// Error is the normalized failure carried by a Result.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Status  int    `json:"status"`
	Kind    Kind   `json:"kind"`
	Cause   error  `json:"-"`
}

func (e *Error) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s (status %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Result is the uniform outcome of every client call. On success Error is nil;
// on failure Data is the zero value and Error is set.
type Result[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Status  int    `json:"status,omitempty"`
	Error   *Error `json:"error,omitempty"`
}

// OK builds a successful Result.
func OK[T any](data T, status int) Result[T] {
	return Result[T]{Success: true, Data: data, Status: status}
}

// Fail builds a failed Result.
func Fail[T any](e *Error) Result[T] {
	return Result[T]{Success: false, Error: e}
}

// Err returns the failure as an error, or nil for successful results.
func (r Result[T]) Err() error {
	if r.Error == nil {
		return nil
	}
	return r.Error
}

// Decode converts a raw successful result into a typed one. Failed results
// pass through unchanged; an undecodable body is returned as an error so the
// caller can decide how to report it.
func Decode[T any](res Result[json.RawMessage]) (Result[T], error) {
	if !res.Success {
		return Fail[T](res.Error), nil
	}

	var out T
	if len(res.Data) == 0 {
		return OK(out, res.Status), nil
	}
	if err := json.Unmarshal(res.Data, &out); err != nil {
		return Result[T]{}, fmt.Errorf("decode response body: %w", err)
	}
	return OK(out, res.Status), nil
}
