package application_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mangrove-addresses/internal/adapter/storage/addressfile"
	"mangrove-addresses/internal/adapter/storage/deployments"
	"mangrove-addresses/internal/application"
	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
	"mangrove-addresses/internal/pkg/apperrors"
)

func TestAddressAggregatorRun(t *testing.T) {
	ctx := context.Background()

	t.Run("copying disabled does nothing", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		sink := &MockAddressSink{}
		cfg := copyConfig()
		cfg.Deployments.CopyDeployments = false

		agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), cfg)
		require.NoError(t, agg.Run(ctx))

		repo.AssertNotCalled(t, "QueryDeployments", mock.Anything, mock.Anything, mock.Anything)
		sink.AssertNotCalled(t, "WriteNetworkAddresses", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("single core deployment on mainnet", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		repo.expectCollections(map[string]entity.DeploymentCollection{
			"Mangrove": collection("Mangrove", strPtr("Mangrove"), map[entity.ChainID]string{1: "0xAA"}),
		})
		sink := &MockAddressSink{}
		sink.On("WriteNetworkAddresses", mock.Anything, entity.NetworkMainnet,
			[]entity.NetworkAddress{{Name: "Mangrove", Address: "0xAA"}}).Return(nil).Once()

		agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), copyConfig())
		require.NoError(t, agg.Run(ctx))

		repo.AssertExpectations(t)
		sink.AssertExpectations(t)
		sink.AssertNumberOfCalls(t, "WriteNetworkAddresses", 1)
	})

	t.Run("records follow query order within a network", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		repo.expectCollections(map[string]entity.DeploymentCollection{
			"Mangrove":     collection("Mangrove", nil, map[entity.ChainID]string{137: "0x01", 1: "0x02"}),
			"MgvReader":    collection("MgvReader", nil, map[entity.ChainID]string{137: "0x03"}),
			"KandelSeeder": collection("KandelSeeder", nil, map[entity.ChainID]string{137: "0x04"}),
			"MangroveOrder": collection("MangroveOrder", strPtr("MangroveOrder-Router"),
				map[entity.ChainID]string{42161: "0x05"}),
		})
		sink := newRecordingSink()

		agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), copyConfig())
		require.NoError(t, agg.Run(ctx))

		book := sink.book
		assert.Equal(t, []entity.NetworkName{entity.NetworkMainnet, entity.NetworkMatic, entity.NetworkArbitrum},
			book.Networks())

		matic, _ := book.Addresses(entity.NetworkMatic)
		assert.Equal(t, []entity.NetworkAddress{
			{Name: "Mangrove", Address: "0x01"},
			{Name: "MgvReader", Address: "0x03"},
			{Name: "KandelSeeder", Address: "0x04"},
		}, matic)

		arbitrum, _ := book.Addresses(entity.NetworkArbitrum)
		assert.Equal(t, []entity.NetworkAddress{{Name: "MangroveOrder-Router", Address: "0x05"}}, arbitrum)
	})

	t.Run("unknown network fails before writing", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		repo.expectCollections(map[string]entity.DeploymentCollection{
			"Mangrove":  collection("Mangrove", nil, map[entity.ChainID]string{1: "0x01"}),
			"MgvOracle": collection("MgvOracle", nil, map[entity.ChainID]string{10: "0x02"}),
		})
		sink := &MockAddressSink{}

		agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), copyConfig())
		err := agg.Run(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnknownNetwork))
		sink.AssertNotCalled(t, "WriteNetworkAddresses", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("query failure propagates", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		repo.On("QueryDeployments", mock.Anything, mock.Anything, mock.Anything).
			Return(entity.DeploymentCollection{}, false, apperrors.ErrExternalServiceFailure).Once()
		sink := &MockAddressSink{}

		agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), copyConfig())
		err := agg.Run(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrExternalServiceFailure))
		assert.Contains(t, err.Error(), "Mangrove")
		repo.AssertNumberOfCalls(t, "QueryDeployments", 1)
		sink.AssertNotCalled(t, "WriteNetworkAddresses", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("write failure aborts remaining writes", func(t *testing.T) {
		repo := &MockDeploymentRepository{}
		repo.expectCollections(map[string]entity.DeploymentCollection{
			"Mangrove": collection("Mangrove", nil, map[entity.ChainID]string{1: "0x01", 5: "0x02"}),
		})
		writeErr := errors.New("disk full")
		sink := &MockAddressSink{}
		sink.On("WriteNetworkAddresses", mock.Anything, entity.NetworkMainnet, mock.Anything).Return(writeErr).Once()

		agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), copyConfig())
		err := agg.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, writeErr)
		sink.AssertNumberOfCalls(t, "WriteNetworkAddresses", 1)
	})

	t.Run("copying without a sink is an internal error", func(t *testing.T) {
		repo := &MockDeploymentRepository{}

		agg := application.NewAddressAggregator(repo, nil, nil, zap.NewNop(), copyConfig())
		err := agg.Run(ctx)
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrInternal)
		repo.AssertNotCalled(t, "QueryDeployments", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAddressAggregatorCollectFilters(t *testing.T) {
	ctx := context.Background()
	cfg := copyConfig()

	repo := &MockDeploymentRepository{}
	for _, c := range entity.Contracts {
		want := entity.DeploymentFilter{
			VersionRangePattern: cfg.Deployments.Core.VersionRangePattern,
			Released:            cfg.Deployments.Core.Released,
		}
		if c.Category == entity.CategoryStrats {
			want = entity.DeploymentFilter{VersionRangePattern: cfg.Deployments.Strats.VersionRangePattern}
		}
		repo.On("QueryDeployments", mock.Anything, c, want).Return(entity.DeploymentCollection{}, false, nil).Once()
	}

	agg := application.NewAddressAggregator(repo, &MockAddressSink{}, nil, zap.NewNop(), cfg)
	book, err := agg.Collect(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Len())

	repo.AssertExpectations(t)
	var queried []string
	for _, call := range repo.Calls {
		queried = append(queried, call.Arguments.Get(1).(entity.Contract).Name)
	}
	assert.Equal(t, []string{
		"Mangrove", "MgvOracle", "MgvReader",
		"MangroveOrder", "MangroveOrderRouter", "KandelSeeder", "AaveKandelSeeder", "AavePooledRouter",
	}, queried)
}

// TestCopyDeploymentsToFiles runs the aggregator over real documents and the file sink.
func TestCopyDeploymentsToFiles(t *testing.T) {
	ctx := context.Background()
	dataDir := t.TempDir()
	baseDir := t.TempDir()

	writeDoc := func(document, content string) {
		path := filepath.Join(dataDir, filepath.FromSlash(document))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	for _, c := range entity.Contracts {
		writeDoc(c.Document, `[]`)
	}
	writeDoc("core/mangrove.json", `[
		{"contractName": "Mangrove", "deploymentName": "Mangrove", "version": "2.0.0", "released": true,
		 "networkAddresses": {"1": {"primaryAddress": "0xAA"}}},
		{"contractName": "Mangrove", "version": "1.0.0", "released": true,
		 "networkAddresses": {"137": {"primaryAddress": "0x99"}}}
	]`)

	cfg := copyConfig()
	repo := deployments.NewFileRepository(dataDir, zap.NewNop())
	sink := addressfile.NewSink(baseDir, zap.NewNop())
	agg := application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), cfg)

	require.NoError(t, agg.Run(ctx))

	deployedDir := filepath.Join(baseDir, "addresses", "deployed")
	entries, err := os.ReadDir(deployedDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "mainnet.json", entries[0].Name())

	first, err := os.ReadFile(filepath.Join(deployedDir, "mainnet.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Mangrove","address":"0xAA"}]`, string(first))

	require.NoError(t, agg.Run(ctx))
	second, err := os.ReadFile(filepath.Join(deployedDir, "mainnet.json"))
	require.NoError(t, err)
	assert.Equal(t, first, second)

	t.Run("opt-out leaves files untouched", func(t *testing.T) {
		stale := filepath.Join(deployedDir, "goerli.json")
		require.NoError(t, os.WriteFile(stale, []byte("committed"), 0o644))

		optOut := cfg
		optOut.Deployments.CopyDeployments = false
		require.NoError(t, application.NewAddressAggregator(repo, sink, nil, zap.NewNop(), optOut).Run(ctx))

		got, err := os.ReadFile(stale)
		require.NoError(t, err)
		assert.Equal(t, "committed", string(got))
	})
}
