package entity

// Protocol defines the type for RPC protocols.
type Protocol string

// Constants for known protocols.
const (
	ProtocolHTTP    Protocol = "http"
	ProtocolHTTPS   Protocol = "https"
	ProtocolWS      Protocol = "ws"
	ProtocolWSS     Protocol = "wss"
	ProtocolUnknown Protocol = "unknown"
)

// CodeCheck holds the outcome of checking that an aggregated address holds contract code.
type CodeCheck struct {
	Network   NetworkName
	Record    NetworkAddress
	RPC       RPCURL
	Protocol  Protocol
	Deployed  *bool
	LatencyMs *int64
	Err       error
}
