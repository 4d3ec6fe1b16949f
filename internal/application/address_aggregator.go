package application

import (
	"context"
	"fmt"

	"mangrove-addresses/internal/application/port"
	"mangrove-addresses/internal/config"
	"mangrove-addresses/internal/domain/entity"
	domainRepo "mangrove-addresses/internal/domain/repository"
	domainService "mangrove-addresses/internal/domain/service"
	"mangrove-addresses/internal/pkg/apperrors"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Compile-time check to ensure addressAggregator implements AddressAggregator
var _ port.AddressAggregator = (*addressAggregator)(nil)

// addressAggregator copies deployment addresses into per-network address lists.
type addressAggregator struct {
	deploymentRepo domainRepo.DeploymentRepository
	sink           domainRepo.AddressSink
	codeChecker    domainService.CodeChecker
	logger         *zap.Logger
	cfg            config.Config
}

// queryResult is the outcome of querying one contract. found is false when no version matched.
type queryResult struct {
	contract   entity.Contract
	collection entity.DeploymentCollection
	found      bool
}

// NewAddressAggregator creates a new aggregator. codeChecker may be nil when verification is disabled;
// sink may be nil when only Collect is used.
func NewAddressAggregator(
	deploymentRepo domainRepo.DeploymentRepository,
	sink domainRepo.AddressSink,
	codeChecker domainService.CodeChecker,
	logger *zap.Logger,
	cfg config.Config,
) port.AddressAggregator {
	return &addressAggregator{
		deploymentRepo: deploymentRepo,
		sink:           sink,
		codeChecker:    codeChecker,
		logger:         logger.Named("AddressAggregator"),
		cfg:            cfg,
	}
}

// Run copies the deployment addresses through the sink, or does nothing when copying is disabled.
func (a *addressAggregator) Run(ctx context.Context) error {
	if !a.cfg.Deployments.CopyDeployments {
		a.logger.Info("Skipping copying deployments from the mangrove-deployments data set")
		a.logger.Info("Set deployments.copy_deployments = true in config.yaml to enable copying")
		a.logger.Info("Using addresses/deployed/*.json files as-is instead")
		return nil
	}

	if a.sink == nil {
		return fmt.Errorf("%w: copying enabled without an address sink", apperrors.ErrInternal)
	}

	a.logger.Info("Copying deployment addresses...")

	book, err := a.Collect(ctx)
	if err != nil {
		return err
	}

	if a.cfg.Verify.Enabled {
		if err := a.verifyAddresses(ctx, book); err != nil {
			return err
		}
	}

	for _, network := range book.Networks() {
		records, _ := book.Addresses(network)
		if err := a.sink.WriteNetworkAddresses(ctx, network, records); err != nil {
			return fmt.Errorf("failed to write %s addresses: %w", network, err)
		}
		a.logger.Info("Wrote network addresses", zap.String("network", network.String()), zap.Int("count", len(records)))
	}

	a.logger.Info("...Done copying deployment addresses", zap.Int("networks", book.Len()))
	return nil
}

// Collect queries every copied contract in order and groups the selected addresses by network.
func (a *addressAggregator) Collect(ctx context.Context) (*entity.AddressBook, error) {
	results := make([]queryResult, 0, len(entity.Contracts))
	for _, contract := range entity.Contracts {
		filter, err := a.filterFor(contract)
		if err != nil {
			return nil, err
		}

		collection, found, err := a.deploymentRepo.QueryDeployments(ctx, contract, filter)
		if err != nil {
			return nil, fmt.Errorf("failed to query %s deployments: %w", contract.Name, err)
		}
		if !found {
			a.logger.Debug("No matching deployments",
				zap.String("contract", contract.Name),
				zap.String("versionRange", filter.VersionRangePattern),
			)
		}
		results = append(results, queryResult{contract: contract, collection: collection, found: found})
	}

	collections := lo.FilterMap(results, func(r queryResult, _ int) (entity.DeploymentCollection, bool) {
		return r.collection, r.found
	})

	book := entity.NewAddressBook()
	for _, collection := range collections {
		name := collection.RecordName()
		for _, chainID := range collection.ChainIDs() {
			network, err := entity.NetworkNameForChain(chainID)
			if err != nil {
				return nil, fmt.Errorf("%s@%s: %w", name, collection.Version, err)
			}
			book.Add(network, entity.NetworkAddress{
				Name:    name,
				Address: collection.NetworkAddresses[chainID].PrimaryAddress,
			})
		}
		a.logger.Debug("Collected deployments",
			zap.String("name", name),
			zap.String("version", collection.Version),
			zap.Int("networks", len(collection.NetworkAddresses)),
		)
	}
	return book, nil
}

// filterFor returns the configured deployment filter of the contract's category.
func (a *addressAggregator) filterFor(contract entity.Contract) (entity.DeploymentFilter, error) {
	var fc config.FilterConfig
	switch contract.Category {
	case entity.CategoryCore:
		fc = a.cfg.Deployments.Core
	case entity.CategoryStrats:
		fc = a.cfg.Deployments.Strats
	default:
		return entity.DeploymentFilter{}, fmt.Errorf("%w: contract %s has unknown category '%s'",
			apperrors.ErrInternal, contract.Name, contract.Category,
		)
	}
	return entity.DeploymentFilter{
		VersionRangePattern: fc.VersionRangePattern,
		Released:            fc.Released,
	}, nil
}
