package deployments

import (
	"fmt"
	"strings"

	dto "mangrove-addresses/internal/adapter/storage/deployments/dto"
	"mangrove-addresses/internal/domain"
	"mangrove-addresses/internal/domain/entity"
)

// toDomainCollections converts the raw collections of a deployments document to domain entities.
func toDomainCollections(document string, rawCollections []dto.CollectionRaw) ([]entity.DeploymentCollection, error) {
	if rawCollections == nil {
		return nil, nil
	}
	collections := make([]entity.DeploymentCollection, 0, len(rawCollections))
	for i, raw := range rawCollections {
		if strings.TrimSpace(raw.ContractName) == "" {
			return nil, fmt.Errorf("%w: %s: entry %d has no contract name",
				domain.ErrMalformedDeployments, document, i,
			)
		}

		networkAddresses := make(map[entity.ChainID]entity.NetworkDeployment, len(raw.NetworkAddresses))
		for rawChainID, rawDeployment := range raw.NetworkAddresses {
			chainID, err := entity.ParseChainID(rawChainID)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: %s@%s: %v",
					domain.ErrMalformedDeployments, document, raw.ContractName, raw.Version, err,
				)
			}
			if rawDeployment.PrimaryAddress == "" {
				return nil, fmt.Errorf("%w: %s: %s@%s has no primary address on chain %d",
					domain.ErrMalformedDeployments, document, raw.ContractName, raw.Version, chainID,
				)
			}

			var allAddresses []entity.AddressDeployment
			if rawDeployment.AllAddresses != nil {
				allAddresses = make([]entity.AddressDeployment, len(rawDeployment.AllAddresses))
				for j, a := range rawDeployment.AllAddresses {
					allAddresses[j] = entity.AddressDeployment{Address: a.Address, Released: a.Released}
				}
			}

			networkAddresses[chainID] = entity.NetworkDeployment{
				PrimaryAddress: rawDeployment.PrimaryAddress,
				AllAddresses:   allAddresses,
			}
		}

		collections = append(collections, entity.DeploymentCollection{
			ContractName:     raw.ContractName,
			DeploymentName:   raw.DeploymentName,
			Version:          raw.Version,
			Released:         raw.Released,
			NetworkAddresses: networkAddresses,
		})
	}
	return collections, nil
}
