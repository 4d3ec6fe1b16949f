package repository

import (
	"context"

	"mangrove-addresses/internal/domain/entity"
)

// AddressSink receives the aggregated records of one network, replacing whatever it held for that network.
type AddressSink interface {
	WriteNetworkAddresses(ctx context.Context, network entity.NetworkName, records []entity.NetworkAddress) error
}
