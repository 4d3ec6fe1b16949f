package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"mangrove-addresses/internal/domain/entity"
	domainService "mangrove-addresses/internal/domain/service"
	"mangrove-addresses/internal/pkg/apperrors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gorilla/websocket"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainService.CodeChecker = (*Checker)(nil)

// Checker implements the domainService.CodeChecker interface with eth_getCode.
type Checker struct {
	client *fasthttp.Client
	logger *zap.Logger
}

// NewChecker creates a new code checker instance.
func NewChecker(logger *zap.Logger) *Checker {
	return &Checker{
		client: &fasthttp.Client{
			ReadTimeout: 10 * time.Second,
		},
		logger: logger.Named("CodeCheckerAdapter"),
	}
}

// JSONRPCRequest defines the structure for a JSON-RPC request.
type JSONRPCRequest struct {
	Jsonrpc string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

// JSONRPCResponse defines the basic structure for a JSON-RPC response.
type JSONRPCResponse struct {
	ID      any             `json:"id"`
	Jsonrpc string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError defines the structure for a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func getCodePayload(address string) ([]byte, error) {
	return json.Marshal(JSONRPCRequest{
		Jsonrpc: "2.0",
		Method:  "eth_getCode",
		Params:  []any{address, "latest"},
		ID:      1,
	})
}

// CheckCode reports whether the address holds contract code at the latest block.
func (c *Checker) CheckCode(
	ctx context.Context,
	rpcURL entity.RPCURL,
	address string,
) (deployed bool, latency time.Duration, err error) {
	if !common.IsHexAddress(address) {
		return false, 0, fmt.Errorf("%w: '%s' is not a hex address", apperrors.ErrInvalidInput, address)
	}
	payload, err := getCodePayload(common.HexToAddress(address).Hex())
	if err != nil {
		return false, 0, fmt.Errorf("%w: encoding eth_getCode request: %v", apperrors.ErrInternal, err)
	}

	startTime := time.Now()
	rawURL := rpcURL.String()

	switch rpcURL.Protocol() {
	case entity.ProtocolWS, entity.ProtocolWSS:
		return c.checkWS(ctx, rawURL, payload, startTime)
	case entity.ProtocolHTTP, entity.ProtocolHTTPS:
		return c.checkHTTP(ctx, rawURL, payload, startTime)
	}

	c.logger.Warn("Skipping check for unsupported protocol", zap.String("url", rawURL))
	return false, 0, fmt.Errorf("%w: unsupported protocol in URL %s", apperrors.ErrInvalidInput, rawURL)
}

// checkHTTP performs eth_getCode over HTTP/HTTPS.
func (c *Checker) checkHTTP(
	ctx context.Context,
	rpcURL string,
	payload []byte,
	startTime time.Time,
) (bool, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(rpcURL)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(payload)

	deadline, hasDeadline := ctx.Deadline()
	timeout := c.client.ReadTimeout
	if hasDeadline {
		requestTimeout := time.Until(deadline)
		if requestTimeout > 0 && (timeout <= 0 || requestTimeout < timeout) {
			timeout = requestTimeout
		}
	}

	var requestErr error
	if timeout <= 0 {
		requestErr = c.client.Do(req, resp)
	} else {
		requestErr = c.client.DoTimeout(req, resp, timeout)
	}

	latency := time.Since(startTime)

	if requestErr != nil {
		if errors.Is(requestErr, fasthttp.ErrTimeout) {
			c.logger.Debug("HTTP code check timed out",
				zap.String("url", rpcURL), zap.Duration("timeout", timeout), zap.Error(requestErr),
			)
			return false, latency, fmt.Errorf("%w: http request to %s timed out after %v: %v",
				apperrors.ErrTimeout, rpcURL, timeout, requestErr,
			)
		}
		c.logger.Debug("HTTP code check request failed", zap.String("url", rpcURL), zap.Error(requestErr))
		return false, latency, fmt.Errorf("%w: http request to %s failed: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, requestErr,
		)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		c.logger.Debug("HTTP code check returned non-OK status",
			zap.String("url", rpcURL), zap.Int("statusCode", resp.StatusCode()),
		)
		return false, latency, fmt.Errorf("%w: rpc %s returned non-OK http status: %d",
			apperrors.ErrExternalServiceFailure, rpcURL, resp.StatusCode(),
		)
	}

	deployed, err := c.decodeGetCodeResponse(rpcURL, resp.Body())
	return deployed, latency, err
}

// checkWS performs eth_getCode over WS/WSS.
func (c *Checker) checkWS(
	ctx context.Context,
	rpcURL string,
	payload []byte,
	startTime time.Time,
) (bool, time.Duration, error) {
	handshakeTimeout := c.client.ReadTimeout
	if handshakeTimeout <= 0 {
		handshakeTimeout = 10 * time.Second
	}

	dialer := websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: handshakeTimeout,
	}

	conn, _, err := dialer.DialContext(ctx, rpcURL, nil)
	if err != nil {
		c.logger.Debug("WS dial failed", zap.String("url", rpcURL), zap.Error(err))
		return false, time.Since(startTime), wsError(ctx, "dial", rpcURL, err)
	}
	defer conn.Close()

	operationTimeout := handshakeTimeout
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < operationTimeout {
		operationTimeout = time.Until(deadline)
	}
	if operationTimeout <= 0 {
		operationTimeout = 2 * time.Second
	}

	_ = conn.SetWriteDeadline(time.Now().Add(operationTimeout))
	_ = conn.SetReadDeadline(time.Now().Add(operationTimeout))

	if wErr := conn.WriteMessage(websocket.TextMessage, payload); wErr != nil {
		c.logger.Debug("WS write message failed", zap.String("url", rpcURL), zap.Error(wErr))
		return false, time.Since(startTime), wsError(ctx, "write to", rpcURL, wErr)
	}

	_, message, rErr := conn.ReadMessage()
	latency := time.Since(startTime)
	if rErr != nil {
		c.logger.Debug("WS read message failed", zap.String("url", rpcURL), zap.Error(rErr))
		return false, latency, wsError(ctx, "read from", rpcURL, rErr)
	}

	deployed, err := c.decodeGetCodeResponse(rpcURL, message)
	return deployed, latency, err
}

// wsError classifies a websocket failure as a timeout or an external service failure.
func wsError(ctx context.Context, op, rpcURL string, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: ws %s %s timed out: %v", apperrors.ErrTimeout, op, rpcURL, err)
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: ws %s %s timed out: %v", apperrors.ErrTimeout, op, rpcURL, err)
	}
	return fmt.Errorf("%w: ws %s %s failed: %v", apperrors.ErrExternalServiceFailure, op, rpcURL, err)
}

// decodeGetCodeResponse validates a JSON-RPC response and reports whether the returned code is non-empty.
func (c *Checker) decodeGetCodeResponse(rpcURL string, body []byte) (bool, error) {
	var rpcResp JSONRPCResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		c.logger.Debug("Code check failed to unmarshal JSON response",
			zap.String("url", rpcURL), zap.ByteString("body", body), zap.Error(err),
		)
		return false, fmt.Errorf("%w: rpc %s returned invalid JSON response: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, err,
		)
	}

	if rpcResp.Error != nil {
		return false, fmt.Errorf("%w: rpc %s returned json-rpc error: %d %s",
			apperrors.ErrExternalServiceFailure, rpcURL, rpcResp.Error.Code, rpcResp.Error.Message,
		)
	}

	if rpcResp.Jsonrpc != "2.0" || rpcResp.Result == nil {
		return false, fmt.Errorf("%w: rpc %s returned invalid JSON-RPC structure",
			apperrors.ErrExternalServiceFailure, rpcURL,
		)
	}

	var code hexutil.Bytes
	if err := json.Unmarshal(rpcResp.Result, &code); err != nil {
		return false, fmt.Errorf("%w: rpc %s returned invalid code: %v",
			apperrors.ErrExternalServiceFailure, rpcURL, err,
		)
	}
	return len(code) > 0, nil
}
