package entity

import (
	"fmt"

	"mangrove-addresses/internal/domain"
)

// NetworkName is the network name used for address file names.
type NetworkName string

// Address files use the ethers.js network names, not the canonical ones.
const (
	NetworkMainnet  NetworkName = "mainnet"
	NetworkGoerli   NetworkName = "goerli"
	NetworkMatic    NetworkName = "matic"
	NetworkArbitrum NetworkName = "arbitrum"
	NetworkMaticmum NetworkName = "maticmum"
)

var networkNames = map[ChainID]NetworkName{
	1:     NetworkMainnet,
	5:     NetworkGoerli,
	137:   NetworkMatic,
	42161: NetworkArbitrum,
	80001: NetworkMaticmum,
}

// NetworkNameForChain resolves a chain id to its network name.
func NetworkNameForChain(chainID ChainID) (NetworkName, error) {
	name, ok := networkNames[chainID]
	if !ok {
		return "", fmt.Errorf("%w: %d", domain.ErrUnknownNetwork, chainID)
	}
	return name, nil
}

// String returns the string representation of the NetworkName.
func (n NetworkName) String() string {
	return string(n)
}
