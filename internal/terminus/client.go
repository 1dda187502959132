// Package terminus implements the JSON-RPC 2.0 client for the remote
// terminus ledger service, which holds the actual account balances and caps.
package terminus

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const requestTimeout = 30 * time.Second

// request is the JSON-RPC 2.0 envelope terminus accepts. The id is always 0:
// calls are strictly sequential within a request and responses are never
// correlated out of order.
type request struct {
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// Client issues JSON-RPC calls to a single configured terminus endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

// New builds a client for the terminus endpoint at host:port.
func New(host string, port int) *Client {
	return &Client{
		url:        fmt.Sprintf("http://%s:%d", host, port),
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Call posts one JSON-RPC request and returns the decoded payload.
//
// Terminus double-encodes its payload: the envelope result field is itself a
// JSON-encoded string. The inner document is decoded a second time here;
// when that decode fails the call returns (nil, nil), mirroring the remote
// service's convention for empty results. Transport faults, non-2xx
// statuses, malformed envelopes, and JSON-RPC error objects are returned as
// errors.
func (c *Client) Call(ctx context.Context, method string, params ...any) (map[string]any, error) {
	if params == nil {
		params = []any{}
	}
	body, err := json.Marshal(request{
		Method:  method,
		Params:  params,
		JSONRPC: "2.0",
		ID:      0,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody)
	}

	var envelope response
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if envelope.Error != nil {
		return nil, envelope.Error
	}

	if len(envelope.Result) == 0 {
		return nil, fmt.Errorf("missing result field")
	}

	// The result is a JSON-encoded string that must be decoded a second
	// time. Anything that fails either decode step is an empty result, not
	// an error. That includes an inner document that is valid JSON but not
	// an object (a list, a bare number): no terminus command returns one,
	// and an unexpected shape collapses to absence the same way.
	var inner string
	if err := json.Unmarshal(envelope.Result, &inner); err != nil {
		return nil, nil
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(inner), &payload); err != nil {
		return nil, nil
	}
	return payload, nil
}
