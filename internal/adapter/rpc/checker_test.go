package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mangrove-addresses/internal/domain/entity"
	"mangrove-addresses/internal/pkg/apperrors"
)

const (
	deployedAddress = "0x1111111111111111111111111111111111111111"
	emptyAddress    = "0x2222222222222222222222222222222222222222"
)

// codeResponse answers eth_getCode with code for deployedAddress and "0x" for anything else.
func codeResponse(t *testing.T, body []byte) []byte {
	t.Helper()
	var req JSONRPCRequest
	require.NoError(t, json.Unmarshal(body, &req))
	require.Equal(t, "eth_getCode", req.Method)
	require.Len(t, req.Params, 2)
	assert.Equal(t, "latest", req.Params[1])

	code := "0x"
	if strings.EqualFold(req.Params[0].(string), deployedAddress) {
		code = "0x6080604052"
	}
	resp, err := json.Marshal(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": code})
	require.NoError(t, err)
	return resp
}

func TestCheckCodeHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(codeResponse(t, body))
	}))
	defer srv.Close()

	checker := NewChecker(zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deployed, _, err := checker.CheckCode(ctx, entity.RPCURL(srv.URL), deployedAddress)
	require.NoError(t, err)
	assert.True(t, deployed)

	deployed, _, err = checker.CheckCode(ctx, entity.RPCURL(srv.URL), emptyAddress)
	require.NoError(t, err)
	assert.False(t, deployed)
}

func TestCheckCodeHTTPErrors(t *testing.T) {
	checker := NewChecker(zap.NewNop())
	ctx := context.Background()

	t.Run("invalid address", func(t *testing.T) {
		_, _, err := checker.CheckCode(ctx, "http://127.0.0.1:1", "0xAA")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	})

	t.Run("json-rpc error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"error":{"code":-32000,"message":"header not found"}}`))
		}))
		defer srv.Close()

		_, _, err := checker.CheckCode(ctx, entity.RPCURL(srv.URL), deployedAddress)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure))
		assert.Contains(t, err.Error(), "header not found")
	})

	t.Run("non-OK status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer srv.Close()

		_, _, err := checker.CheckCode(ctx, entity.RPCURL(srv.URL), deployedAddress)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure))
	})

	t.Run("unsupported protocol", func(t *testing.T) {
		_, _, err := checker.CheckCode(ctx, "ipc:///tmp/geth.ipc", deployedAddress)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrInvalidInput))
	})
}

func TestCheckCodeWS(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.WriteMessage(websocket.TextMessage, codeResponse(t, msg))
	}))
	defer srv.Close()

	wsURL := entity.RPCURL("ws" + strings.TrimPrefix(srv.URL, "http"))
	checker := NewChecker(zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	deployed, latency, err := checker.CheckCode(ctx, wsURL, deployedAddress)
	require.NoError(t, err)
	assert.True(t, deployed)
	assert.Greater(t, latency, time.Duration(0))

	deployed, _, err = checker.CheckCode(ctx, wsURL, emptyAddress)
	require.NoError(t, err)
	assert.False(t, deployed)
}
