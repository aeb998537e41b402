package catalog

import (
	"context"
	"encoding/json"

	"github.com/madang-hq/madang-menu/pkg/httpclient"
)

// API is the subset of the transport client the catalog services use.
type API interface {
	Get(ctx context.Context, endpoint string, params map[string]string, opts ...httpclient.RequestOption) httpclient.Result[json.RawMessage]
}

// Logger aliases the shared httpclient.Logger interface for clarity within catalog.
type Logger = httpclient.Logger

type noopLogger struct{}

func (noopLogger) InfoObj(string, string, interface{})  {}
func (noopLogger) DebugObj(string, string, interface{}) {}
func (noopLogger) WarnObj(string, string, interface{})  {}
func (noopLogger) ErrorObj(string, string, interface{}) {}

func ensureLogger(log Logger) Logger {
	if log == nil {
		return noopLogger{}
	}
	return log
}

// localFailure wraps a service-side fault as a failed Result.
func localFailure[T any](code, message string, cause error) httpclient.Result[T] {
	return httpclient.Fail[T](&httpclient.Error{
		Message: message,
		Code:    code,
		Status:  0,
		Kind:    httpclient.KindLocal,
		Cause:   cause,
	})
}
