package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockToolkit(t *testing.T, handler http.HandlerFunc) *Toolkit {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewToolkit(server.URL+"/v1", "test-key")
}

func TestToolkit_SignIn(t *testing.T) {
	tk := mockToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var req passwordRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)
		assert.Equal(t, "secret", req.Password)
		assert.True(t, req.ReturnSecureToken)

		json.NewEncoder(w).Encode(map[string]string{"idToken": "tok-1", "email": "a@b.com"})
	})

	cred, err := tk.SignIn(context.Background(), "a@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, &Credential{Token: "tok-1", Username: "a@b.com"}, cred)
}

func TestToolkit_SignUp(t *testing.T) {
	tk := mockToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/accounts:signUp", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"idToken": "tok-2"})
	})

	cred, err := tk.SignUp(context.Background(), "new@b.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "new@b.com", cred.Username, "falls back to the submitted email")
	assert.Equal(t, "tok-2", cred.Token)
}

func TestToolkit_Errors(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    error
	}{
		{name: "wrong password", message: "INVALID_PASSWORD", want: ErrInvalidCredentials},
		{name: "unknown email", message: "EMAIL_NOT_FOUND", want: ErrInvalidCredentials},
		{name: "invalid login", message: "INVALID_LOGIN_CREDENTIALS", want: ErrInvalidCredentials},
		{name: "duplicate", message: "EMAIL_EXISTS", want: ErrEmailExists},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := mockToolkit(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]any{
					"error": map[string]any{"code": 400, "message": tt.message},
				})
			})

			_, err := tk.SignIn(context.Background(), "a@b.com", "x")
			assert.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("other provider message", func(t *testing.T) {
		tk := mockToolkit(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"code":400,"message":"WEAK_PASSWORD : Password should be at least 6 characters"}}`))
		})

		_, err := tk.SignUp(context.Background(), "a@b.com", "x")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "WEAK_PASSWORD")
	})
}

func TestToolkit_NotConfigured(t *testing.T) {
	tk := NewToolkit("http://127.0.0.1:1", "")
	_, err := tk.SignIn(context.Background(), "a@b.com", "x")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestToolkit_SignOut(t *testing.T) {
	tk := NewToolkit("http://127.0.0.1:1", "k")
	assert.NoError(t, tk.SignOut(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, tk.SignOut(ctx), context.Canceled)
}
