// Package node talks JSON-RPC to a Bitcoin Core compatible full node.
package node

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/rpc"

	"nodeboard/internal/config"
)

var (
	// ErrUnavailable means the node could not be reached.
	ErrUnavailable = errors.New("node unavailable")
	// ErrRPC means the node was reached but answered with an error.
	ErrRPC = errors.New("node rpc error")
)

// RPCError is an application level error reported by the node.
type RPCError struct {
	Method  string
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("%s: %s (code %d)", e.Method, e.Message, e.Code)
}

func (e *RPCError) Is(target error) bool { return target == ErrRPC }

type ChainStatus struct {
	Height uint64
}

type ReceivingAddress struct {
	Address string
}

// Observer receives one call per RPC round-trip. Outcome is "ok",
// "unavailable" or "rpc_error".
type Observer interface {
	ObserveRPC(method, outcome string, d time.Duration)
}

type Option func(*Client)

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client is stateless: every call dials a fresh connection and closes it.
type Client struct {
	endpoint       string
	walletEndpoint string
	authHeader     string
	observer       Observer
}

func New(cfg config.NodeConfig, opts ...Option) *Client {
	creds := base64.StdEncoding.EncodeToString([]byte(cfg.User + ":" + cfg.Password))
	c := &Client{
		endpoint:       cfg.Endpoint(),
		walletEndpoint: cfg.WalletEndpoint(),
		authHeader:     "Basic " + creds,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type blockchainInfo struct {
	Chain  string `json:"chain"`
	Blocks uint64 `json:"blocks"`
}

// Status returns the node's current block count.
func (c *Client) Status(ctx context.Context) (ChainStatus, error) {
	var info blockchainInfo
	if err := c.call(ctx, c.endpoint, &info, "getblockchaininfo"); err != nil {
		return ChainStatus{}, err
	}
	return ChainStatus{Height: info.Blocks}, nil
}

// NewAddress draws a fresh address from the node's keypool using the default
// label and address type. Each call consumes a key.
func (c *Client) NewAddress(ctx context.Context) (ReceivingAddress, error) {
	var addr string
	if err := c.call(ctx, c.walletEndpoint, &addr, "getnewaddress"); err != nil {
		return ReceivingAddress{}, err
	}
	if addr == "" {
		return ReceivingAddress{}, &RPCError{Method: "getnewaddress", Message: "empty address"}
	}
	return ReceivingAddress{Address: addr}, nil
}

func (c *Client) call(ctx context.Context, endpoint string, result any, method string, args ...any) (err error) {
	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRPC(method, outcome(err), time.Since(start))
		}
	}()

	hc := &http.Client{Transport: &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	}}
	rc, err := rpc.DialOptions(ctx, endpoint,
		rpc.WithHTTPClient(hc),
		rpc.WithHeader("Authorization", c.authHeader),
	)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, method, err)
	}
	defer rc.Close()

	if err := rc.CallContext(ctx, result, method, args...); err != nil {
		return classify(method, err)
	}
	return nil
}

// classify sorts a go-ethereum rpc error into ErrRPC or ErrUnavailable.
func classify(method string, err error) error {
	var httpErr rpc.HTTPError
	if errors.As(err, &httpErr) {
		// Bitcoin Core before v28 answers RPC errors with HTTP 500 and a JSON body.
		var body struct {
			Error *struct {
				Code    int    `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(httpErr.Body, &body) == nil && body.Error != nil {
			return &RPCError{Method: method, Code: body.Error.Code, Message: body.Error.Message}
		}
		return &RPCError{Method: method, Code: httpErr.StatusCode, Message: httpErr.Status}
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		return &RPCError{Method: method, Code: rpcErr.ErrorCode(), Message: rpcErr.Error()}
	}

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) || errors.Is(err, rpc.ErrNoResult) {
		return &RPCError{Method: method, Code: -1, Message: "malformed response: " + err.Error()}
	}

	return fmt.Errorf("%w: %s: %w", ErrUnavailable, method, err)
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrRPC):
		return "rpc_error"
	default:
		return "unavailable"
	}
}
