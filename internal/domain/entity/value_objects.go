package entity

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ChainID is an EVM chain id.
type ChainID uint64

// ParseChainID parses a decimal chain id as found in deployments documents.
func ParseChainID(raw string) (ChainID, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id '%s': %w", raw, err)
	}
	return ChainID(id), nil
}

// RPCURL represents a typed URL for an RPC endpoint.
type RPCURL string

// NewRPCURL creates a new RPCURL instance.
func NewRPCURL(rawURL string) (RPCURL, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", fmt.Errorf("rpc url cannot be empty")
	}

	u, err := url.ParseRequestURI(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid rpc url format '%s': %w", rawURL, err)
	}

	switch strings.ToLower(u.Scheme) {
	case "http", "https", "ws", "wss":
	default:
		return "", fmt.Errorf("rpc url '%s' has unsupported scheme: '%s'", rawURL, u.Scheme)
	}

	return RPCURL(rawURL), nil
}

// Protocol returns the transport protocol of the URL.
func (r RPCURL) Protocol() Protocol {
	scheme, _, _ := strings.Cut(string(r), "://")
	switch strings.ToLower(scheme) {
	case "http":
		return ProtocolHTTP
	case "https":
		return ProtocolHTTPS
	case "ws":
		return ProtocolWS
	case "wss":
		return ProtocolWSS
	default:
		return ProtocolUnknown
	}
}

// String returns the string representation of the RPCURL.
func (r RPCURL) String() string {
	return string(r)
}
