// Package treasury custodies native-asset proposal fees. Deposits arrive
// passively from the voting engine; withdrawals are owner-gated.
package treasury
