package chain

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAddress(t *testing.T) {
	got, err := ParseAddress(" 0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266 ")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0xf39fd6e51aad88f6f4ce6ab8827279cfffb92266"), got)

	_, err = ParseAddress("0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = ParseAddress("")
	assert.ErrorIs(t, err, ErrInvalidAddress)
}

func TestContractAddressIsDeterministic(t *testing.T) {
	deployer := common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")

	// First contract deployed by the default local development account.
	assert.Equal(t,
		common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3"),
		ContractAddress(deployer, 0),
	)
	assert.NotEqual(t, ContractAddress(deployer, 0), ContractAddress(deployer, 1))
}
