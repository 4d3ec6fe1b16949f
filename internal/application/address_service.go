package application

import (
	"context"
	"fmt"
	"time"

	"mangrove-addresses/internal/application/port"
	"mangrove-addresses/internal/config"
	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
	domainRepo "mangrove-addresses/internal/domain/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Compile-time check to ensure addressService implements AddressService
var _ port.AddressService = (*addressService)(nil)

// addressService keeps the aggregated address book cached and refreshed for the address API.
type addressService struct {
	aggregator port.AddressAggregator
	cacheRepo  domainRepo.CacheRepository
	logger     *zap.Logger
	cfg        config.Config
	rootCtx    context.Context
	refreshes  singleflight.Group
}

// NewAddressService creates the service and starts its background refresher.
func NewAddressService(
	rootCtx context.Context,
	aggregator port.AddressAggregator,
	cacheRepo domainRepo.CacheRepository,
	logger *zap.Logger,
	cfg config.Config,
) port.AddressService {
	s := &addressService{
		aggregator: aggregator,
		cacheRepo:  cacheRepo,
		logger:     logger.Named("AddressService"),
		cfg:        cfg,
		rootCtx:    rootCtx,
	}

	go s.startBackgroundRefresher()

	return s
}

// ListNetworks returns the networks of the cached address book, aggregating on a cache miss.
func (s *addressService) ListNetworks(ctx context.Context) ([]entity.NetworkName, error) {
	book, err := s.addressBook(ctx)
	if err != nil {
		return nil, err
	}
	return book.Networks(), nil
}

// GetNetworkAddresses returns the cached records of a network, aggregating on a cache miss.
func (s *addressService) GetNetworkAddresses(
	ctx context.Context,
	network entity.NetworkName,
) ([]entity.NetworkAddress, error) {
	records, found, err := s.cacheRepo.GetNetworkAddresses(ctx, network)
	if err != nil {
		s.logger.Warn("Cache error when getting network addresses", zap.String("network", network.String()), zap.Error(err))
	}
	if found {
		return records, nil
	}

	book, err := s.addressBook(ctx)
	if err != nil {
		return nil, err
	}
	records, ok := book.Addresses(network)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNetworkNotFound, network)
	}
	return records, nil
}

// Refresh re-aggregates the deployments into the cache. Concurrent calls share one aggregation.
func (s *addressService) Refresh(ctx context.Context) error {
	_, err, shared := s.refreshes.Do("refresh", func() (any, error) {
		book, err := s.aggregator.Collect(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to aggregate deployment addresses: %w", err)
		}
		if err := s.cacheRepo.SetAddressBook(ctx, book, s.cfg.Cache.GetDefaultExpiration()); err != nil {
			return nil, fmt.Errorf("failed to cache address book: %w", err)
		}
		s.logger.Info("Address book refreshed", zap.Int("networks", book.Len()))
		return nil, nil
	})
	if shared {
		s.logger.Debug("Joined in-flight address book refresh")
	}
	return err
}

func (s *addressService) addressBook(ctx context.Context) (*entity.AddressBook, error) {
	book, found, err := s.cacheRepo.GetAddressBook(ctx)
	if err != nil {
		s.logger.Warn("Cache error when getting address book", zap.Error(err))
	}
	if found {
		return book, nil
	}

	s.logger.Debug("Cache miss for address book, aggregating...")
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	book, found, err = s.cacheRepo.GetAddressBook(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read refreshed address book: %w", err)
	}
	if !found {
		return entity.NewAddressBook(), nil
	}
	return book, nil
}

// startBackgroundRefresher periodically re-aggregates the address book until the root context ends.
func (s *addressService) startBackgroundRefresher() {
	interval := s.cfg.Server.GetRefreshInterval()
	if interval <= 0 {
		s.logger.Info("Background refresher disabled (interval <= 0)")
		return
	}

	s.logger.Info("Starting background refresher", zap.Duration("interval", interval))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := s.Refresh(s.rootCtx); err != nil {
				if s.rootCtx.Err() != nil {
					s.logger.Warn("Periodic refresh cancelled due to application shutdown")
					return
				}
				s.logger.Error("Error during periodic address book refresh", zap.Error(err))
			}
		case <-s.rootCtx.Done():
			s.logger.Info("Background refresher stopping due to context cancellation.")
			return
		}
	}
}
