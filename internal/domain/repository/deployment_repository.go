package repository

import (
	"context"

	"mangrove-addresses/internal/domain/entity"
)

// DeploymentRepository defines the interface for querying the deployments data set.
type DeploymentRepository interface {
	// QueryDeployments returns the latest deployment collection of the contract matching the filter.
	// The boolean is false when no version matches; absence is not an error.
	QueryDeployments(
		ctx context.Context,
		contract entity.Contract,
		filter entity.DeploymentFilter,
	) (entity.DeploymentCollection, bool, error)
}
