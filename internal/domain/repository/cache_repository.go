package repository

import (
	"context"
	"time"

	"mangrove-addresses/internal/domain/entity"
)

// CacheRepository defines the interface for caching the aggregated address book.
type CacheRepository interface {
	// GetAddressBook retrieves the cached address book.
	GetAddressBook(ctx context.Context) (*entity.AddressBook, bool, error)

	// SetAddressBook stores the address book in the cache with a specified TTL.
	SetAddressBook(ctx context.Context, book *entity.AddressBook, ttl time.Duration) error

	// GetNetworkAddresses retrieves the cached records of one network.
	GetNetworkAddresses(ctx context.Context, network entity.NetworkName) ([]entity.NetworkAddress, bool, error)
}
