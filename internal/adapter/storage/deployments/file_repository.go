package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	dto "mangrove-addresses/internal/adapter/storage/deployments/dto"
	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
	domainRepo "mangrove-addresses/internal/domain/repository"
	"mangrove-addresses/internal/pkg/apperrors"

	"go.uber.org/zap"
)

// Compile-time check
var _ domainRepo.DeploymentRepository = (*FileRepository)(nil)

// FileRepository implements DeploymentRepository for a deployments data set unpacked on disk.
type FileRepository struct {
	rootDir string
	logger  *zap.Logger
}

// NewFileRepository creates a repository reading documents below rootDir.
func NewFileRepository(rootDir string, logger *zap.Logger) *FileRepository {
	return &FileRepository{
		rootDir: rootDir,
		logger:  logger.Named("DeploymentsFileStorage"),
	}
}

// QueryDeployments reads the contract's document and selects the latest collection matching the filter.
func (r *FileRepository) QueryDeployments(
	ctx context.Context,
	contract entity.Contract,
	filter entity.DeploymentFilter,
) (entity.DeploymentCollection, bool, error) {
	if err := ctx.Err(); err != nil {
		return entity.DeploymentCollection{}, false, err
	}

	path := filepath.Join(r.rootDir, filepath.FromSlash(contract.Document))
	r.logger.Debug("Reading deployments document", zap.String("contract", contract.Name), zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return entity.DeploymentCollection{}, false, fmt.Errorf("%w: deployments document %s", apperrors.ErrNotFound, path)
		}
		return entity.DeploymentCollection{}, false, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var rawCollections []dto.CollectionRaw
	if err := json.Unmarshal(data, &rawCollections); err != nil {
		return entity.DeploymentCollection{}, false, fmt.Errorf("%w: %s: %v", domain.ErrMalformedDeployments, path, err)
	}

	collections, err := toDomainCollections(contract.Document, rawCollections)
	if err != nil {
		return entity.DeploymentCollection{}, false, err
	}
	return selectLatest(collections, filter)
}
