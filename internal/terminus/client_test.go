package terminus

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clientFor(t *testing.T, server *httptest.Server) *Client {
	t.Helper()
	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	host, portStr, err := net.SplitHostPort(u.Host)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return New(host, port)
}

func doubleEncoded(t *testing.T, payload any) string {
	t.Helper()
	inner, err := json.Marshal(payload)
	require.NoError(t, err)
	outer, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      0,
		"result":  string(inner),
	})
	require.NoError(t, err)
	return string(outer)
}

func TestCallRequestEnvelope(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(doubleEncoded(t, map[string]any{"success": true})))
	}))
	defer server.Close()

	client := clientFor(t, server)
	payload, err := client.Call(context.Background(), "connect", "acct-1", "beacon1xyz")
	require.NoError(t, err)

	assert.Equal(t, "connect", got["method"])
	assert.Equal(t, []any{"acct-1", "beacon1xyz"}, got["params"])
	assert.Equal(t, "2.0", got["jsonrpc"])
	assert.Equal(t, float64(0), got["id"])
	assert.Equal(t, true, payload["success"])
}

func TestCallNoArgsSendsEmptyParams(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(doubleEncoded(t, map[string]any{"accounts": []any{}})))
	}))
	defer server.Close()

	_, err := clientFor(t, server).Call(context.Background(), "getaccountinfo")
	require.NoError(t, err)
	assert.Equal(t, []any{}, got["params"])
}

func TestCallNonJSONResultIsAbsent(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"inner_not_json", `{"jsonrpc":"2.0","id":0,"result":"not json at all"}`},
		{"result_null", `{"jsonrpc":"2.0","id":0,"result":null}`},
		{"result_not_string", `{"jsonrpc":"2.0","id":0,"result":{"a":1}}`},
		{"inner_json_not_object", `{"jsonrpc":"2.0","id":0,"result":"[1,2,3]"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tc.body))
			}))
			defer server.Close()

			payload, err := clientFor(t, server).Call(context.Background(), "getinfo")
			require.NoError(t, err)
			assert.Nil(t, payload)
		})
	}
}

func TestCallTransportFailures(t *testing.T) {
	t.Run("connection_refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		_, err := clientFor(t, server).Call(context.Background(), "getinfo")
		require.Error(t, err)
	})

	t.Run("http_error_status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}))
		defer server.Close()

		_, err := clientFor(t, server).Call(context.Background(), "getinfo")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status 500")
	})

	t.Run("malformed_envelope", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>nope</html>"))
		}))
		defer server.Close()

		_, err := clientFor(t, server).Call(context.Background(), "getinfo")
		require.Error(t, err)
	})

	t.Run("rpc_error_object", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"jsonrpc":"2.0","id":0,"error":{"code":-32601,"message":"method not found"}}`))
		}))
		defer server.Close()

		_, err := clientFor(t, server).Call(context.Background(), "bogus")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "method not found")
	})
}
