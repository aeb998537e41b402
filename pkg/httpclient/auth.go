package httpclient

import (
	"net/http"

	"github.com/go-resty/resty/v2"
)

// TokenKey is the storage key holding the bearer token.
const TokenKey = "authToken"

// injectAuthToken attaches the stored bearer token to the outgoing request.
// A failed read is logged and the request goes out unauthenticated.
func (c *Client) injectAuthToken(_ *resty.Client, req *resty.Request) error {
	if c.tokens == nil {
		return nil
	}

	token, err := c.tokens.Get(TokenKey)
	if err != nil {
		c.log.WarnObj("auth token read failed", "auth_error", map[string]any{
			"url":   req.URL,
			"error": err.Error(),
		})
		return nil
	}
	if token != "" {
		req.SetHeader(headerAuthorization, "Bearer "+token)
	}
	return nil
}

// discardTokenOnUnauthorized drops the stored token when the server rejects
// the credentials. Re-authentication is left to the caller.
func (c *Client) discardTokenOnUnauthorized(_ *resty.Client, resp *resty.Response) error {
	if c.tokens == nil || resp == nil || resp.StatusCode() != http.StatusUnauthorized {
		return nil
	}

	if err := c.tokens.Delete(TokenKey); err != nil {
		c.log.ErrorObj("auth token cleanup failed", "auth_error", map[string]any{
			"error": err.Error(),
		})
		return nil
	}
	c.log.InfoObj("auth token discarded", "auth_event", map[string]any{
		"reason": "unauthorized response",
		"url":    resp.Request.URL,
	})
	return nil
}
