// Package tokenfaucet implements the one-shot governance token faucet.
//
// Each address may claim the fixed amount once, paid by a ledger transfer out
// of the faucet's own pre-funded token balance.
package tokenfaucet
