package httpserver

import (
	"errors"
	"net/http"

	tokenerrors "securevote/contexts/governance/governance-token/domain/errors"
	tokenhttp "securevote/contexts/governance/governance-token/transport/http"
	faucetdomainerrors "securevote/contexts/governance/token-faucet/domain/errors"
	faucethttp "securevote/contexts/governance/token-faucet/transport/http"
	treasuryerrors "securevote/contexts/governance/treasury/domain/errors"
	treasuryhttp "securevote/contexts/governance/treasury/transport/http"
	votingerrors "securevote/contexts/governance/voting-engine/domain/errors"
	votinghttp "securevote/contexts/governance/voting-engine/transport/http"
	"securevote/internal/shared/chain"
	"securevote/internal/shared/units"
)

type errorMapping struct {
	target error
	status int
	code   string
}

// errorTable maps a module's sentinels onto HTTP statuses and writes the
// module's own error DTO.
type errorTable struct {
	module   string
	mappings []errorMapping
	write    func(w http.ResponseWriter, status int, code string, message string)
}

// Shared input errors come first so every module reports them the same way.
var inputMappings = []errorMapping{
	{target: chain.ErrInvalidAddress, status: http.StatusBadRequest, code: "invalid_address"},
	{target: units.ErrInvalidAmount, status: http.StatusBadRequest, code: "invalid_amount"},
	{target: units.ErrAmountOverflow, status: http.StatusBadRequest, code: "invalid_amount"},
}

var tokenErrorTable = errorTable{
	module: "governance/governance-token",
	mappings: []errorMapping{
		{target: tokenerrors.ErrInvalidInput, status: http.StatusBadRequest, code: "invalid_request"},
		{target: tokenerrors.ErrInvalidReceiver, status: http.StatusBadRequest, code: "invalid_receiver"},
		{target: tokenerrors.ErrInvalidSpender, status: http.StatusBadRequest, code: "invalid_spender"},
		{target: tokenerrors.ErrZeroPayment, status: http.StatusPaymentRequired, code: "payment_required"},
		{target: tokenerrors.ErrInsufficientBalance, status: http.StatusUnprocessableEntity, code: "insufficient_balance"},
		{target: tokenerrors.ErrInsufficientAllowance, status: http.StatusUnprocessableEntity, code: "insufficient_allowance"},
		{target: tokenerrors.ErrSupplyOverflow, status: http.StatusUnprocessableEntity, code: "supply_overflow"},
	},
	write: func(w http.ResponseWriter, status int, code string, message string) {
		writeJSON(w, status, tokenhttp.ErrorResponse{Code: code, Message: message})
	},
}

var faucetErrorTable = errorTable{
	module: "governance/token-faucet",
	mappings: []errorMapping{
		{target: faucetdomainerrors.ErrInvalidClaimer, status: http.StatusBadRequest, code: "invalid_claimer"},
		{target: faucetdomainerrors.ErrAlreadyClaimed, status: http.StatusConflict, code: "already_claimed"},
		{target: faucetdomainerrors.ErrClaimConflict, status: http.StatusConflict, code: "already_claimed"},
		{target: faucetdomainerrors.ErrFaucetDepleted, status: http.StatusUnprocessableEntity, code: "faucet_depleted"},
	},
	write: func(w http.ResponseWriter, status int, code string, message string) {
		writeJSON(w, status, faucethttp.ErrorResponse{Code: code, Message: message})
	},
}

var treasuryErrorTable = errorTable{
	module: "governance/treasury",
	mappings: []errorMapping{
		{target: treasuryerrors.ErrInvalidReceiver, status: http.StatusBadRequest, code: "invalid_receiver"},
		{target: treasuryerrors.ErrInvalidAmount, status: http.StatusBadRequest, code: "invalid_amount"},
		{target: treasuryerrors.ErrUnauthorized, status: http.StatusForbidden, code: "unauthorized"},
		{target: treasuryerrors.ErrInsufficientFunds, status: http.StatusUnprocessableEntity, code: "insufficient_funds"},
		{target: treasuryerrors.ErrBalanceOverflow, status: http.StatusUnprocessableEntity, code: "balance_overflow"},
	},
	write: func(w http.ResponseWriter, status int, code string, message string) {
		writeJSON(w, status, treasuryhttp.ErrorResponse{Code: code, Message: message})
	},
}

var governanceErrorTable = errorTable{
	module: "governance/voting-engine",
	mappings: []errorMapping{
		{target: votingerrors.ErrInvalidInput, status: http.StatusBadRequest, code: "invalid_request"},
		{target: votingerrors.ErrInvalidTreasury, status: http.StatusBadRequest, code: "invalid_treasury"},
		{target: votingerrors.ErrFeeRequired, status: http.StatusPaymentRequired, code: "fee_required"},
		{target: votingerrors.ErrInsufficientTokens, status: http.StatusUnprocessableEntity, code: "insufficient_tokens"},
		{target: votingerrors.ErrTreasuryNotSet, status: http.StatusUnprocessableEntity, code: "treasury_not_set"},
		{target: votingerrors.ErrInsufficientGas, status: http.StatusUnprocessableEntity, code: "insufficient_gas"},
		{target: votingerrors.ErrTallyOverflow, status: http.StatusUnprocessableEntity, code: "tally_overflow"},
		{target: votingerrors.ErrUnauthorized, status: http.StatusForbidden, code: "unauthorized"},
		{target: votingerrors.ErrUnknownProposal, status: http.StatusNotFound, code: "unknown_proposal"},
		{target: votingerrors.ErrAlreadyVoted, status: http.StatusConflict, code: "already_voted"},
		{target: votingerrors.ErrVotingClosed, status: http.StatusConflict, code: "voting_closed"},
		{target: votingerrors.ErrVotingStillOpen, status: http.StatusConflict, code: "voting_still_open"},
		{target: votingerrors.ErrAlreadyExecuted, status: http.StatusConflict, code: "already_executed"},
		{target: votingerrors.ErrQuorumNotMet, status: http.StatusConflict, code: "quorum_not_met"},
		{target: votingerrors.ErrProposalRejected, status: http.StatusConflict, code: "proposal_rejected"},
		{target: votingerrors.ErrTreasuryLocked, status: http.StatusConflict, code: "treasury_locked"},
		{target: votingerrors.ErrConflict, status: http.StatusConflict, code: "conflict"},
	},
	write: func(w http.ResponseWriter, status int, code string, message string) {
		writeJSON(w, status, votinghttp.ErrorResponse{Code: code, Message: message})
	},
}

func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, table errorTable, err error) {
	for _, mappings := range [][]errorMapping{inputMappings, table.mappings} {
		for _, mapping := range mappings {
			if errors.Is(err, mapping.target) {
				table.write(w, mapping.status, mapping.code, err.Error())
				return
			}
		}
	}
	s.logger.Error("request failed",
		"event", "http_request_failed",
		"module", table.module,
		"layer", "adapter",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err.Error(),
	)
	table.write(w, http.StatusInternalServerError, "internal_error", "internal server error")
}

// errorResponse is the platform-level rejection body; it has the same shape
// as every module's ErrorResponse.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}
