// Package votingengine implements token-weighted proposal governance.
//
// Proposals are created against a fee forwarded to the linked treasury, voted
// on once per address with the voter's live token balance as weight, and
// executed after the deadline when quorum and a strict yes majority hold.
// Low turnout near the deadline extends voting in bounded steps. The module
// also carries the outbox relay and the execution keeper workers.
package votingengine
