package deployments_dto

// CollectionRaw represents one version of a contract's deployments as stored in a deployments document.
type CollectionRaw struct {
	ContractName     string                          `json:"contractName"`
	DeploymentName   *string                         `json:"deploymentName,omitempty"`
	Version          string                          `json:"version"`
	Released         bool                            `json:"released"`
	NetworkAddresses map[string]NetworkDeploymentRaw `json:"networkAddresses"`
}

// NetworkDeploymentRaw defines the deployment of a contract version on one network from raw data.
type NetworkDeploymentRaw struct {
	PrimaryAddress string                 `json:"primaryAddress"`
	AllAddresses   []AddressDeploymentRaw `json:"allAddresses,omitempty"`
}

// AddressDeploymentRaw defines one deployed address from raw data.
type AddressDeploymentRaw struct {
	Address  string `json:"address"`
	Released bool   `json:"released"`
}
