// Package governancetoken implements the governance token ledger inside the
// governance context.
//
// The module owns balances, allowances and total supply, fixed-rate token
// purchases against the native asset, and the Transfer/Approval notifications
// written to the shared outbox. Voting weight elsewhere is read from this
// ledger through ports; nothing outside the module mutates balances directly.
package governancetoken
