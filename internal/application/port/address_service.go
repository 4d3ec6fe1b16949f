package port

import (
	"context"

	"mangrove-addresses/internal/domain/entity"
)

// AddressAggregator groups the configured deployments by network and publishes them.
type AddressAggregator interface {
	// Run writes one address list per network through the sink, unless copying is disabled.
	Run(ctx context.Context) error

	// Collect queries the deployments and groups their addresses by network without writing anything.
	Collect(ctx context.Context) (*entity.AddressBook, error)
}

// AddressService serves the aggregated address book to delivery layers.
type AddressService interface {
	// ListNetworks returns the networks that have aggregated addresses.
	ListNetworks(ctx context.Context) ([]entity.NetworkName, error)

	// GetNetworkAddresses returns the aggregated records of one network.
	GetNetworkAddresses(ctx context.Context, network entity.NetworkName) ([]entity.NetworkAddress, error)

	// Refresh re-aggregates the deployments and replaces the cached address book.
	Refresh(ctx context.Context) error
}
