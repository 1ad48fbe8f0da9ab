package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ParamsResponse struct {
	EngineAddress       string `json:"engine_address"`
	Owner               string `json:"owner"`
	Treasury            string `json:"treasury"`
	CreationFeeWei      string `json:"creation_fee_wei"`
	ProposalThreshold   string `json:"proposal_threshold"`
	MinQuorum           string `json:"min_quorum"`
	VotingPeriodSeconds int64  `json:"voting_period_seconds"`
	ExtensionWindowSecs int64  `json:"extension_window_seconds"`
	ExtensionPeriodSecs int64  `json:"extension_period_seconds"`
	MaxExtensionSeconds int64  `json:"max_extension_seconds"`
	MinGasExecute       uint64 `json:"min_gas_execute"`
}

type SetTreasuryRequest struct {
	Treasury string `json:"treasury"`
}

type TreasuryLinkResponse struct {
	Treasury string `json:"treasury"`
}

type CreateProposalRequest struct {
	Description string `json:"description"`
	ValueWei    string `json:"value_wei"`
}

type ProposalResponse struct {
	ID          uint64    `json:"id"`
	Proposer    string    `json:"proposer"`
	Description string    `json:"description"`
	Deadline    time.Time `json:"deadline"`
	MaxDeadline time.Time `json:"max_deadline"`
	YesVotes    string    `json:"yes_votes"`
	NoVotes     string    `json:"no_votes"`
	Executed    bool      `json:"executed"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	StatusAsOf  time.Time `json:"status_as_of"`
}

type ProposalListResponse struct {
	Items         []ProposalResponse `json:"items"`
	ProposalCount uint64             `json:"proposal_count"`
	Offset        int                `json:"offset"`
	Limit         int                `json:"limit"`
}

type ProposalStatusResponse struct {
	ID     uint64 `json:"id"`
	Status string `json:"status"`
}

type VoteRequest struct {
	Support *bool `json:"support"`
}

type VoteResponse struct {
	ProposalID uint64    `json:"proposal_id"`
	Voter      string    `json:"voter"`
	Support    bool      `json:"support"`
	Weight     string    `json:"weight"`
	CastAt     time.Time `json:"cast_at"`
	YesVotes   string    `json:"yes_votes"`
	NoVotes    string    `json:"no_votes"`
	Deadline   time.Time `json:"deadline"`
	Extended   bool      `json:"deadline_extended"`
}

type VoteStatusResponse struct {
	ProposalID uint64     `json:"proposal_id"`
	Voter      string     `json:"voter"`
	HasVoted   bool       `json:"has_voted"`
	Support    *bool      `json:"support,omitempty"`
	Weight     string     `json:"weight,omitempty"`
	CastAt     *time.Time `json:"cast_at,omitempty"`
}

type ExecuteProposalRequest struct {
	Gas uint64 `json:"gas,omitempty"`
}
