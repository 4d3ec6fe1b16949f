package entity

import (
	"slices"

	"github.com/samber/lo"
)

// DeploymentCollection holds the deployments of one version of one logical contract across networks.
type DeploymentCollection struct {
	ContractName string
	// DeploymentName is nil when the deployment is published under its contract name.
	DeploymentName   *string
	Version          string
	Released         bool
	NetworkAddresses map[ChainID]NetworkDeployment
}

// NetworkDeployment is the deployment of a contract on one network.
type NetworkDeployment struct {
	PrimaryAddress string
	AllAddresses   []AddressDeployment
}

// AddressDeployment is one address a contract version was deployed at.
type AddressDeployment struct {
	Address  string
	Released bool
}

// RecordName is the name published in address files: the deployment name when set, the contract name otherwise.
func (c DeploymentCollection) RecordName() string {
	if c.DeploymentName != nil {
		return *c.DeploymentName
	}
	return c.ContractName
}

// ChainIDs returns the networks the collection is deployed on, in ascending order.
func (c DeploymentCollection) ChainIDs() []ChainID {
	ids := lo.Keys(c.NetworkAddresses)
	slices.Sort(ids)
	return ids
}

// DeploymentFilter selects deployment versions by semver range and release status.
type DeploymentFilter struct {
	VersionRangePattern string
	// Released is nil when released and unreleased versions are both accepted.
	Released *bool
}

// AcceptsRelease reports whether a version with the given release status passes the filter.
func (f DeploymentFilter) AcceptsRelease(released bool) bool {
	return f.Released == nil || *f.Released == released
}
