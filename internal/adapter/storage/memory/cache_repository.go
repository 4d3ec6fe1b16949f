package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"mangrove-addresses/internal/config"
	"mangrove-addresses/internal/domain/entity"
	domainRepo "mangrove-addresses/internal/domain/repository"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.CacheRepository = (*CacheRepository)(nil)

const addressBookKey = "address_book_v1"

// CacheRepository keeps the aggregated address book in a go-cache in-memory store.
type CacheRepository struct {
	cache   *cache.Cache
	logger  *zap.Logger
	cfg     config.CacheConfig
	writeMu sync.Mutex
}

// NewCacheRepository creates a new in-memory cache repository instance.
func NewCacheRepository(cfg config.CacheConfig, logger *zap.Logger) *CacheRepository {
	defaultExpiration := cfg.GetDefaultExpiration()
	cleanupInterval := cfg.GetCleanupInterval()

	c := cache.New(defaultExpiration, cleanupInterval)
	logger.Info(
		"Initialized go-cache for memory storage",
		zap.Duration("defaultExpiration", defaultExpiration),
		zap.Duration("cleanupInterval", cleanupInterval),
	)

	return &CacheRepository{
		cache:  c,
		logger: logger.Named("MemoryCacheStorage"),
		cfg:    cfg,
	}
}

// GetAddressBook retrieves a copy of the cached address book, returning found status.
func (r *CacheRepository) GetAddressBook(_ context.Context) (*entity.AddressBook, bool, error) {
	book, found := r.addressBook()
	if !found {
		return nil, false, nil
	}
	return book.Clone(), true, nil
}

// SetAddressBook caches the address book, replacing any previous one as a whole.
func (r *CacheRepository) SetAddressBook(_ context.Context, book *entity.AddressBook, ttl time.Duration) error {
	if book == nil {
		return fmt.Errorf("address book cannot be nil")
	}
	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	r.set(book.Clone(), ttl)
	return nil
}

// GetNetworkAddresses retrieves the cached records of one network, returning found status.
func (r *CacheRepository) GetNetworkAddresses(
	_ context.Context,
	network entity.NetworkName,
) ([]entity.NetworkAddress, bool, error) {
	book, found := r.addressBook()
	if !found {
		return nil, false, nil
	}
	records, ok := book.Addresses(network)
	return records, ok, nil
}

// addressBook returns the cached book itself. Cached books are never mutated in place.
func (r *CacheRepository) addressBook() (*entity.AddressBook, bool) {
	if x, found := r.cache.Get(addressBookKey); found {
		if book, ok := x.(*entity.AddressBook); ok {
			r.logger.Debug("Memory cache hit", zap.String("key", addressBookKey))
			return book, true
		}
		r.logger.Warn(
			"Memory cache data type mismatch for key",
			zap.String("key", addressBookKey), zap.String("type", fmt.Sprintf("%T", x)),
		)
	}
	r.logger.Debug("Memory cache miss", zap.String("key", addressBookKey))
	return nil, false
}

func (r *CacheRepository) set(book *entity.AddressBook, ttl time.Duration) {
	if ttl <= 0 {
		ttl = r.cfg.GetDefaultExpiration()
		if ttl <= 0 {
			ttl = cache.NoExpiration
		}
	}
	r.cache.Set(addressBookKey, book, ttl)
	r.logger.Debug("Memory cache set",
		zap.String("key", addressBookKey),
		zap.Int("networks", book.Len()),
		zap.Duration("ttl", ttl),
	)
}
