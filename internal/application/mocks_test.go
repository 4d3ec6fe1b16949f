package application_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"mangrove-addresses/internal/config"
	"mangrove-addresses/internal/domain/entity"
)

// MockDeploymentRepository is a mock implementation of DeploymentRepository
type MockDeploymentRepository struct {
	mock.Mock
}

func (m *MockDeploymentRepository) QueryDeployments(
	ctx context.Context,
	contract entity.Contract,
	filter entity.DeploymentFilter,
) (entity.DeploymentCollection, bool, error) {
	args := m.Called(ctx, contract, filter)
	return args.Get(0).(entity.DeploymentCollection), args.Bool(1), args.Error(2)
}

// expectCollections sets up one query expectation per copied contract.
// Contracts missing from found are reported as having no matching deployments.
func (m *MockDeploymentRepository) expectCollections(found map[string]entity.DeploymentCollection) {
	for _, c := range entity.Contracts {
		contractName := c.Name
		collection, ok := found[contractName]
		m.On("QueryDeployments", mock.Anything, mock.MatchedBy(func(c entity.Contract) bool {
			return c.Name == contractName
		}), mock.Anything).Return(collection, ok, nil).Once()
	}
}

// MockAddressSink is a mock implementation of AddressSink
type MockAddressSink struct {
	mock.Mock
}

func (m *MockAddressSink) WriteNetworkAddresses(
	ctx context.Context,
	network entity.NetworkName,
	records []entity.NetworkAddress,
) error {
	args := m.Called(ctx, network, records)
	return args.Error(0)
}

// recordingSink keeps every write in order, the last write per network winning.
type recordingSink struct {
	book *entity.AddressBook
}

func newRecordingSink() *recordingSink {
	return &recordingSink{book: entity.NewAddressBook()}
}

func (s *recordingSink) WriteNetworkAddresses(
	_ context.Context,
	network entity.NetworkName,
	records []entity.NetworkAddress,
) error {
	s.book.Set(network, records)
	return nil
}

// MockCodeChecker is a mock implementation of CodeChecker
type MockCodeChecker struct {
	mock.Mock
}

func (m *MockCodeChecker) CheckCode(ctx context.Context, rpcURL entity.RPCURL, address string) (bool, time.Duration, error) {
	args := m.Called(ctx, rpcURL, address)
	return args.Bool(0), args.Get(1).(time.Duration), args.Error(2)
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func collection(contractName string, deploymentName *string, addresses map[entity.ChainID]string) entity.DeploymentCollection {
	networkAddresses := make(map[entity.ChainID]entity.NetworkDeployment, len(addresses))
	for id, addr := range addresses {
		networkAddresses[id] = entity.NetworkDeployment{PrimaryAddress: addr}
	}
	return entity.DeploymentCollection{
		ContractName:     contractName,
		DeploymentName:   deploymentName,
		Version:          "2.0.0",
		Released:         true,
		NetworkAddresses: networkAddresses,
	}
}

func copyConfig() config.Config {
	return config.Config{
		Deployments: config.DeploymentsConfig{
			CopyDeployments: true,
			Core:            config.FilterConfig{VersionRangePattern: "^2.0.0", Released: boolPtr(true)},
			Strats:          config.FilterConfig{VersionRangePattern: "^2.1.0"},
		},
		Cache: config.CacheConfig{DefaultExpiration: time.Minute, CleanupInterval: time.Minute},
	}
}
