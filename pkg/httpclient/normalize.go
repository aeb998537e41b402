package httpclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
)

// normalize maps a resty outcome onto a Result.
//
// resty reports three distinct shapes: no Response at all when the request
// failed before dispatch, a Response without RawResponse when the round trip
// failed, and a populated Response once the server answered.
func normalize(resp *resty.Response, err error) Result[json.RawMessage] {
	switch {
	case resp != nil && resp.RawResponse != nil:
		status := resp.StatusCode()
		if status < http.StatusOK || status >= http.StatusMultipleChoices {
			return serverFailure(status, resp.Body(), err)
		}
		if err != nil {
			// the server answered but the body never arrived intact
			return networkFailure(err)
		}
		return OK(json.RawMessage(resp.Body()), status)
	case resp != nil:
		return networkFailure(err)
	default:
		if err == nil {
			err = errors.New("request produced no response")
		}
		return requestFailure(err)
	}
}

func serverFailure(status int, body []byte, cause error) Result[json.RawMessage] {
	message := bodyField(body, "message", "error")
	if message == "" {
		message = fmt.Sprintf("Error %d", status)
	}
	code := bodyField(body, "code")
	if code == "" {
		code = fmt.Sprintf("HTTP_%d", status)
	}
	return Fail[json.RawMessage](&Error{
		Message: message,
		Code:    code,
		Status:  status,
		Kind:    KindServer,
		Cause:   cause,
	})
}

func networkFailure(cause error) Result[json.RawMessage] {
	return Fail[json.RawMessage](&Error{
		Message: MessageNoInternet,
		Code:    CodeNoInternet,
		Status:  0,
		Kind:    KindNetwork,
		Cause:   cause,
	})
}

func requestFailure(cause error) Result[json.RawMessage] {
	return Fail[json.RawMessage](&Error{
		Message: cause.Error(),
		Code:    CodeRequestError,
		Status:  0,
		Kind:    KindRequest,
		Cause:   cause,
	})
}

// bodyField returns the first present, non-empty value among paths in a JSON
// object body. false, 0 and null count as empty.
func bodyField(body []byte, paths ...string) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range paths {
		v := gjson.GetBytes(body, path)
		if truthy(v) {
			return v.String()
		}
	}
	return ""
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return false
	case gjson.Number:
		return v.Num != 0
	case gjson.String:
		return v.Str != ""
	default:
		return v.Exists()
	}
}
