// Package gateway exposes the fixed set of terminus operations the front end
// uses. Every method wraps exactly one RPC call and reports its outcome as a
// tagged Result instead of a Go error: transport faults flatten to a uniform
// message, remote-reported failures pass through verbatim.
package gateway

import (
	"context"
	"log/slog"
	"time"

	"github.com/custodia-pay/custodia/internal/metrics"
)

// ErrRPCException is the uniform message shown for any fault in the RPC
// round trip, regardless of whether it was a refused connection, an HTTP
// error status, or a malformed payload.
const ErrRPCException = "RPC exception"

// FailureKind classifies why a Result is not OK.
type FailureKind int

const (
	// FailNone marks a successful result.
	FailNone FailureKind = iota
	// FailTransport marks a fault raised during the RPC round trip.
	FailTransport
	// FailRemote marks a failure reported by terminus itself.
	FailRemote
)

// Caller issues a single JSON-RPC call. *terminus.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params ...any) (map[string]any, error)
}

// Result is the tagged outcome of one gateway operation.
type Result struct {
	OK      bool
	Err     string
	Kind    FailureKind
	Payload map[string]any
}

// Gateway is the command surface against terminus.
type Gateway struct {
	rpc    Caller
	logger *slog.Logger
}

// New builds a gateway over the given RPC caller.
func New(rpc Caller, logger *slog.Logger) *Gateway {
	return &Gateway{rpc: rpc, logger: logger}
}

// GetAccountInfo fetches balances and caps for the named accounts. The
// payload carries the raw `accounts` list.
func (g *Gateway) GetAccountInfo(ctx context.Context, ownedNames []string) Result {
	params := make([]any, 0, len(ownedNames))
	for _, name := range ownedNames {
		params = append(params, name)
	}
	return g.call(ctx, "getaccountinfo", params...)
}

// GetAccountReceipts fetches the receipt history for one account.
func (g *Gateway) GetAccountReceipts(ctx context.Context, name string) Result {
	return g.call(ctx, "getaccountreceipts", name)
}

// Connect registers a beacon with an account so a wallet can pair with it.
func (g *Gateway) Connect(ctx context.Context, name, beacon string) Result {
	return g.call(ctx, "connect", name, beacon)
}

// Clear disconnects all beacons from an account.
func (g *Gateway) Clear(ctx context.Context, name string) Result {
	return g.call(ctx, "clear", name)
}

// Remove deletes an account on terminus. The wire verb is "rm".
func (g *Gateway) Remove(ctx context.Context, name string) Result {
	return g.call(ctx, "rm", name)
}

// Create provisions a new account with the given cap and starting balance,
// both in msats. The payload's `name` field is the remote account name.
func (g *Gateway) Create(ctx context.Context, name string, capMsats, startMsats int64) Result {
	return g.call(ctx, "create", name, capMsats, startMsats)
}

func (g *Gateway) call(ctx context.Context, method string, params ...any) Result {
	start := time.Now()
	payload, err := g.rpc.Call(ctx, method, params...)
	metrics.RPCDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.RPCCallsTotal.WithLabelValues(method, "transport_error").Inc()
		g.logger.Warn("terminus call failed", "method", method, "error", err)
		return Result{Err: ErrRPCException, Kind: FailTransport}
	}

	if payload != nil {
		if ok, present := payload["success"].(bool); present && !ok {
			msg, _ := payload["error"].(string)
			metrics.RPCCallsTotal.WithLabelValues(method, "remote_error").Inc()
			return Result{Err: msg, Kind: FailRemote, Payload: payload}
		}
	}

	metrics.RPCCallsTotal.WithLabelValues(method, "ok").Inc()
	return Result{OK: true, Payload: payload}
}
