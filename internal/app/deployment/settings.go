package deployment

import (
	votingentities "securevote/contexts/governance/voting-engine/domain/entities"
	"securevote/internal/shared/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// DefaultDeployer is the first well-known development account.
var DefaultDeployer = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

// Settings configure one deployment. FaucetFunding is moved from the deployer
// to the faucet at genesis.
type Settings struct {
	Deployer          common.Address
	TokenName         string
	TokenSymbol       string
	ExchangeRate      uint64
	InitialSupply     uint256.Int
	FaucetClaimAmount uint256.Int
	FaucetFunding     uint256.Int
	Governance        votingentities.Params
	RelayBatchSize    int
}

func DefaultSettings() Settings {
	return Settings{
		Deployer:          DefaultDeployer,
		TokenName:         "Governance Token",
		TokenSymbol:       "GT",
		ExchangeRate:      1000,
		InitialSupply:     units.MustParseUnits("1000000"),
		FaucetClaimAmount: units.MustParseUnits("1000"),
		FaucetFunding:     units.MustParseUnits("100000"),
		Governance:        votingentities.DefaultParams(),
		RelayBatchSize:    100,
	}
}
