package httpserver

import (
	"net/http"

	votinghttp "securevote/contexts/governance/voting-engine/transport/http"
)

func (s *Server) handleGovernanceParams(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Governance.Handler.ParamsHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGovernanceSetTreasury(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req votinghttp.SetTreasuryRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Governance.Handler.SetTreasuryHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListProposals(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.modules.Governance.Handler.ListProposalsHandler(r.Context(), query.Get("offset"), query.Get("limit"))
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCreateProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req votinghttp.CreateProposalRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Governance.Handler.CreateProposalHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleGetProposal(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Governance.Handler.GetProposalHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleProposalStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Governance.Handler.ProposalStatusHandler(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req votinghttp.VoteRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Governance.Handler.VoteHandler(r.Context(), caller, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVoteStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Governance.Handler.VoteStatusHandler(r.Context(), r.PathValue("id"), r.PathValue("address"))
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Execution is open to any caller; the body only carries an optional gas budget.
func (s *Server) handleExecuteProposal(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req votinghttp.ExecuteProposalRequest
	if !decodeJSON(w, r, &req, true) {
		return
	}
	resp, err := s.modules.Governance.Handler.ExecuteProposalHandler(r.Context(), caller, r.PathValue("id"), req)
	if err != nil {
		s.writeDomainError(w, r, governanceErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
