package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seenRequest struct {
	method        string
	path          string
	rawPath       string
	authorization []string
	requestID     string
	contentType   string
	body          []byte
}

// recordingServer answers every request with status/body and records it
func recordingServer(t *testing.T, status int, body string) (*httptest.Server, func() []seenRequest) {
	t.Helper()

	var mu sync.Mutex
	var seen []seenRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw json.RawMessage
		_ = json.NewDecoder(r.Body).Decode(&raw)
		mu.Lock()
		seen = append(seen, seenRequest{
			method:        r.Method,
			path:          r.URL.Path,
			rawPath:       r.URL.EscapedPath(),
			authorization: r.Header.Values("Authorization"),
			requestID:     r.Header.Get("X-Request-ID"),
			contentType:   r.Header.Get("Content-Type"),
			body:          raw,
		})
		mu.Unlock()
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, func() []seenRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]seenRequest(nil), seen...)
	}
}

func TestClient_NoAuthorizer(t *testing.T) {
	server, seen := recordingServer(t, http.StatusOK, `{}`)
	c := New(server.URL)

	_, err := c.Get(context.Background(), "/recipes", nil)
	require.NoError(t, err)

	reqs := seen()
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].authorization, "no header without a token")
	assert.NotEmpty(t, reqs[0].requestID)
}

func TestClient_SingleAuthorizer(t *testing.T) {
	server, seen := recordingServer(t, http.StatusOK, `{}`)
	c := New(server.URL)

	token := "first"
	c.SetAuthorizer(func() string { return token })
	_, err := c.Get(context.Background(), "/recipes", nil)
	require.NoError(t, err)

	// The provider is read on every request
	token = "second"
	_, err = c.Get(context.Background(), "/recipes", nil)
	require.NoError(t, err)

	// Replacing the provider does not stack headers
	c.SetAuthorizer(func() string { return "third" })
	c.SetAuthorizer(func() string { return "fourth" })
	_, err = c.Get(context.Background(), "/recipes", nil)
	require.NoError(t, err)

	c.SetAuthorizer(nil)
	_, err = c.Get(context.Background(), "/recipes", nil)
	require.NoError(t, err)

	reqs := seen()
	require.Len(t, reqs, 4)
	assert.Equal(t, []string{"Bearer first"}, reqs[0].authorization)
	assert.Equal(t, []string{"Bearer second"}, reqs[1].authorization)
	assert.Equal(t, []string{"Bearer fourth"}, reqs[2].authorization)
	assert.Empty(t, reqs[3].authorization)

	assert.NotEqual(t, reqs[0].requestID, reqs[1].requestID, "request IDs are unique")
}

func TestClient_JSONBody(t *testing.T) {
	server, seen := recordingServer(t, http.StatusCreated, `{"recipeId": 7, "title": "Soup"}`)
	c := New(server.URL + "/")

	var out Recipe
	status, err := c.Post(context.Background(), "/recipes", Recipe{Title: "Soup"}, &out)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 7, out.RecipeID)

	reqs := seen()
	require.Len(t, reqs, 1)
	assert.Equal(t, "/recipes", reqs[0].path, "trailing slash on the base URL is trimmed")
	assert.Equal(t, "application/json", reqs[0].contentType)
	assert.JSONEq(t, `{"title":"Soup","description":"","instructions":""}`, string(reqs[0].body))
}

func TestClient_StatusError(t *testing.T) {
	server, _ := recordingServer(t, http.StatusUnauthorized, `{"error":"invalid token"}`+"\n")
	c := New(server.URL)

	status, err := c.Delete(context.Background(), "/recipes/3", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusUnauthorized, status)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.MethodDelete, statusErr.Method)
	assert.Equal(t, "/recipes/3", statusErr.Path)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, `{"error":"invalid token"}`, statusErr.Body)
	assert.Equal(t, `DELETE /recipes/3 failed (status 401): {"error":"invalid token"}`, err.Error())
}

func TestClient_NetworkError(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `{}`)
	server.Close()

	_, err := New(server.URL).Get(context.Background(), "/recipes", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send request")
}

func TestClient_DecodeError(t *testing.T) {
	server, _ := recordingServer(t, http.StatusOK, `not json`)

	var out Recipe
	_, err := New(server.URL).Get(context.Background(), "/recipes/1", &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode response")
}

func TestClient_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(server.Close)

	c := New(server.URL, WithTimeout(20*time.Millisecond), WithUserAgent("test-agent"))
	_, err := c.Get(context.Background(), "/slow", nil)
	assert.Error(t, err)
}

func TestClient_ContextCancelled(t *testing.T) {
	server, seen := recordingServer(t, http.StatusOK, `{}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(server.URL).Get(ctx, "/recipes", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, seen())
}

func TestPathf_Escapes(t *testing.T) {
	assert.Equal(t, "/users/a@b.com", pathf("users", "a@b.com"))
	assert.Equal(t, "/myingredients/a@b.com/brown%20sugar", pathf("myingredients", "a@b.com", "brown sugar"))
	assert.Equal(t, "/recipes/12/ingredients", pathf("recipes", 12, "ingredients"))
	assert.Equal(t, "/recipes/ratings/9/update", pathf("recipes", "ratings", int64(9), "update"))
	assert.Equal(t, "/users/a%2Fb", pathf("users", "a/b"))
}
