package errors

import "errors"

var (
	ErrUnknownProposal    = errors.New("unknown proposal")
	ErrVotingClosed       = errors.New("voting is closed")
	ErrAlreadyVoted       = errors.New("address has already voted on this proposal")
	ErrFeeRequired        = errors.New("attached value is below the proposal creation fee")
	ErrInsufficientTokens = errors.New("proposer balance is below the proposal threshold")
	ErrVotingStillOpen    = errors.New("voting is still open")
	ErrAlreadyExecuted    = errors.New("proposal has already been executed")
	ErrQuorumNotMet       = errors.New("quorum not met")
	ErrProposalRejected   = errors.New("proposal rejected")
	ErrTreasuryNotSet     = errors.New("treasury is not linked")
	ErrTreasuryLocked     = errors.New("treasury cannot be re-linked once proposals exist")
	ErrInvalidTreasury    = errors.New("address is not a treasury deployment")
	ErrUnauthorized       = errors.New("caller is not the engine owner")
	ErrInsufficientGas    = errors.New("declared gas is below the execution minimum")
	ErrTallyOverflow      = errors.New("vote tally would overflow")
	ErrInvalidInput       = errors.New("invalid governance input")
	ErrConflict           = errors.New("governance state conflict")
)
