package deployments

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
)

// selectLatest picks the highest version among the collections that pass the filter.
// An empty range pattern accepts every version.
func selectLatest(
	collections []entity.DeploymentCollection,
	filter entity.DeploymentFilter,
) (entity.DeploymentCollection, bool, error) {
	var constraint *semver.Constraints
	if pattern := strings.TrimSpace(filter.VersionRangePattern); pattern != "" {
		c, err := semver.NewConstraint(pattern)
		if err != nil {
			return entity.DeploymentCollection{}, false, fmt.Errorf("%w: version range pattern '%s': %v",
				domain.ErrInvalidDeploymentFilter, filter.VersionRangePattern, err,
			)
		}
		constraint = c
	}

	var (
		latest    *semver.Version
		latestIdx = -1
	)
	for i, c := range collections {
		if !filter.AcceptsRelease(c.Released) {
			continue
		}
		v, err := semver.NewVersion(c.Version)
		if err != nil {
			return entity.DeploymentCollection{}, false, fmt.Errorf("%w: %s has invalid version '%s': %v",
				domain.ErrMalformedDeployments, c.ContractName, c.Version, err,
			)
		}
		if constraint != nil && !constraint.Check(v) {
			continue
		}
		if latest == nil || v.GreaterThan(latest) {
			latest = v
			latestIdx = i
		}
	}

	if latestIdx < 0 {
		return entity.DeploymentCollection{}, false, nil
	}
	return collections[latestIdx], true, nil
}
