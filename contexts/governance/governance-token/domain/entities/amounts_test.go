package entities

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredit(t *testing.T) {
	t.Run("adds", func(t *testing.T) {
		got, ok := Credit(*uint256.NewInt(40), *uint256.NewInt(2))
		require.True(t, ok)
		assert.Equal(t, uint64(42), got.Uint64())
	})

	t.Run("rejects overflow", func(t *testing.T) {
		ceiling := new(uint256.Int).SetAllOne()
		_, ok := Credit(*ceiling, *uint256.NewInt(1))
		assert.False(t, ok)
	})
}

func TestDebit(t *testing.T) {
	got, ok := Debit(*uint256.NewInt(10), *uint256.NewInt(10))
	require.True(t, ok)
	assert.True(t, got.IsZero())

	_, ok = Debit(*uint256.NewInt(9), *uint256.NewInt(10))
	assert.False(t, ok)
}

func TestMintAmount(t *testing.T) {
	oneEther := new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(18))

	got, ok := MintAmount(*oneEther, 1000)
	require.True(t, ok)
	want := new(uint256.Int).Mul(oneEther, uint256.NewInt(1000))
	assert.True(t, got.Eq(want))

	ceiling := new(uint256.Int).SetAllOne()
	_, ok = MintAmount(*ceiling, 2)
	assert.False(t, ok)
}

func TestIsUnlimited(t *testing.T) {
	assert.True(t, IsUnlimited(*new(uint256.Int).SetAllOne()))
	assert.False(t, IsUnlimited(*uint256.NewInt(1)))
}

func TestTransferIsMint(t *testing.T) {
	assert.True(t, Transfer{To: common.HexToAddress("0x01")}.IsMint())
	assert.False(t, Transfer{From: common.HexToAddress("0x01")}.IsMint())
}
