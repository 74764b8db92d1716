package common

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/futig/partner-backend/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testHTTPConfig(url, token string) config.HTTPClientConfig {
	return config.HTTPClientConfig{
		RequestTimeout:        5 * time.Second,
		ConnTimeout:           time.Second,
		KeepAlive:             time.Second,
		IdleConnTimeout:       time.Second,
		ResponseHeaderTimeout: 5 * time.Second,
		TLSHandshakeTimeout:   time.Second,
		Token:                 token,
		Url:                   url,
	}
}

func TestNewBaseConnector_Authorization(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{name: "with token", token: "sk-test", want: "Bearer sk-test"},
		{name: "without token", token: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Values("Authorization")
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			conn := NewBaseConnector(testHTTPConfig(server.URL, tt.token), zap.NewNop())
			require.NoError(t, conn.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))

			if tt.want == "" {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, []string{tt.want}, got)
		})
	}
}

func TestNewBaseClient_Headers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Chat with Partner", r.Header.Get("X-Title"))
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewBaseClient(testHTTPConfig(server.URL, "ignored"), map[string]string{"X-Title": "Chat with Partner"})

	resp, err := client.Get(server.URL)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
