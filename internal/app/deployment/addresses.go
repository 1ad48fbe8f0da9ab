package deployment

import (
	"securevote/internal/shared/chain"

	"github.com/ethereum/go-ethereum/common"
)

// Addresses are the contract addresses of one deployment, derived from the
// deployer in deployment order.
type Addresses struct {
	Deployer common.Address
	Token    common.Address
	Engine   common.Address
	Treasury common.Address
	Faucet   common.Address
}

func DeriveAddresses(deployer common.Address) Addresses {
	return Addresses{
		Deployer: deployer,
		Token:    chain.ContractAddress(deployer, 0),
		Engine:   chain.ContractAddress(deployer, 1),
		Treasury: chain.ContractAddress(deployer, 2),
		Faucet:   chain.ContractAddress(deployer, 3),
	}
}
