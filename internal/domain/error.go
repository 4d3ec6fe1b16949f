package domain

import "errors"

var (
	// ErrUnknownNetwork means a deployment refers to a chain id outside the network table.
	ErrUnknownNetwork = errors.New("unknown network id")

	// ErrNetworkNotFound means the requested network has no aggregated addresses.
	ErrNetworkNotFound = errors.New("network not found")

	// ErrInvalidDeploymentFilter means the configured version range pattern cannot be parsed.
	ErrInvalidDeploymentFilter = errors.New("invalid deployment filter")

	// ErrMalformedDeployments means a deployments document could not be decoded or holds invalid data.
	ErrMalformedDeployments = errors.New("malformed deployments data")

	// ErrAddressNotDeployed means the on-chain check found no code at an aggregated address.
	ErrAddressNotDeployed = errors.New("no contract code at address")
)
