package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeTokenStore holds a single token and can inject read/delete errors.
type fakeTokenStore struct {
	mu      sync.Mutex
	values  map[string]string
	getErr  error
	delErr  error
	deletes int
}

func newFakeTokenStore(token string) *fakeTokenStore {
	s := &fakeTokenStore{values: map[string]string{}}
	if token != "" {
		s.values[TokenKey] = token
	}
	return s
}

func (s *fakeTokenStore) Get(key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return "", s.getErr
	}
	return s.values[key], nil
}

func (s *fakeTokenStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.values, key)
	return nil
}

func authEchoServer(t *testing.T, status int, seen *string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = r.Header.Get("Authorization")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{}`))
	}))
}

func TestStoredTokenIsSentAsBearer(t *testing.T) {
	var seen string
	srv := authEchoServer(t, http.StatusOK, &seen)
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTokenStore(newFakeTokenStore("abc123")))
	if res := c.Get(context.Background(), "/", nil); !res.Success {
		t.Fatalf("unexpected failure %+v", res.Error)
	}
	if seen != "Bearer abc123" {
		t.Fatalf("expected bearer header, got %q", seen)
	}
}

func TestNoStoredTokenSendsNoAuthorization(t *testing.T) {
	var seen string
	srv := authEchoServer(t, http.StatusOK, &seen)
	defer srv.Close()

	c := newTestClient(t, srv.URL, WithTokenStore(newFakeTokenStore("")))
	c.Post(context.Background(), "/", map[string]any{"a": 1})
	if seen != "" {
		t.Fatalf("expected no authorization header, got %q", seen)
	}
}

func TestTokenReadFailureFailsOpen(t *testing.T) {
	var seen string
	srv := authEchoServer(t, http.StatusOK, &seen)
	defer srv.Close()

	store := newFakeTokenStore("abc123")
	store.getErr = errors.New("disk unavailable")

	c := newTestClient(t, srv.URL, WithTokenStore(store))
	res := c.Get(context.Background(), "/", nil)
	if !res.Success {
		t.Fatalf("request should proceed without token, got %+v", res.Error)
	}
	if seen != "" {
		t.Fatalf("expected no authorization header, got %q", seen)
	}
}

func TestUnauthorizedResponseDiscardsToken(t *testing.T) {
	var seen string
	srv := authEchoServer(t, http.StatusUnauthorized, &seen)
	defer srv.Close()

	store := newFakeTokenStore("abc123")
	c := newTestClient(t, srv.URL, WithTokenStore(store))

	res := c.Get(context.Background(), "/", nil)
	assertFailure(t, res, KindServer, "HTTP_401", http.StatusUnauthorized)
	if seen != "Bearer abc123" {
		t.Fatalf("expected token on the rejected request, got %q", seen)
	}
	if got, _ := store.Get(TokenKey); got != "" {
		t.Fatalf("expected token removed after 401, still have %q", got)
	}

	c.Get(context.Background(), "/", nil)
	if seen != "" {
		t.Fatalf("follow-up request should carry no token, got %q", seen)
	}
}

func TestTokenDeleteFailureStillReturnsResult(t *testing.T) {
	var seen string
	srv := authEchoServer(t, http.StatusUnauthorized, &seen)
	defer srv.Close()

	store := newFakeTokenStore("abc123")
	store.delErr = errors.New("read-only")

	res := newTestClient(t, srv.URL, WithTokenStore(store)).Get(context.Background(), "/", nil)
	assertFailure(t, res, KindServer, "HTTP_401", http.StatusUnauthorized)
	if store.deletes != 1 {
		t.Fatalf("expected one delete attempt, got %d", store.deletes)
	}
}

func TestOtherErrorStatusesKeepToken(t *testing.T) {
	var seen string
	srv := authEchoServer(t, http.StatusForbidden, &seen)
	defer srv.Close()

	store := newFakeTokenStore("abc123")
	newTestClient(t, srv.URL, WithTokenStore(store)).Get(context.Background(), "/", nil)

	if got, _ := store.Get(TokenKey); got != "abc123" {
		t.Fatalf("token should survive a 403, got %q", got)
	}
	if store.deletes != 0 {
		t.Fatalf("unexpected delete calls: %d", store.deletes)
	}
}
