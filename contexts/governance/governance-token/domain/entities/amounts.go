package entities

import "github.com/holiman/uint256"

// Credit returns balance+amount, or false when the sum would not fit in 256 bits.
func Credit(balance uint256.Int, amount uint256.Int) (uint256.Int, bool) {
	var out uint256.Int
	if _, overflow := out.AddOverflow(&balance, &amount); overflow {
		return uint256.Int{}, false
	}
	return out, true
}

// Debit returns balance-amount, or false when amount exceeds balance.
func Debit(balance uint256.Int, amount uint256.Int) (uint256.Int, bool) {
	if balance.Lt(&amount) {
		return uint256.Int{}, false
	}
	var out uint256.Int
	out.Sub(&balance, &amount)
	return out, true
}

// MintAmount converts a native payment into tokens at a fixed rate.
func MintAmount(paid uint256.Int, rate uint64) (uint256.Int, bool) {
	var out uint256.Int
	if _, overflow := out.MulOverflow(&paid, uint256.NewInt(rate)); overflow {
		return uint256.Int{}, false
	}
	return out, true
}

// IsUnlimited reports whether an allowance is the max-uint sentinel that is
// never decremented by delegated transfers.
func IsUnlimited(allowance uint256.Int) bool {
	ceiling := new(uint256.Int).SetAllOne()
	return allowance.Eq(ceiling)
}
