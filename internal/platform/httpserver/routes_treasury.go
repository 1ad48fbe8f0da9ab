package httpserver

import (
	"net/http"

	treasuryhttp "securevote/contexts/governance/treasury/transport/http"
)

func (s *Server) handleTreasury(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Treasury.Handler.TreasuryHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, treasuryErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTreasuryWithdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req treasuryhttp.WithdrawRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Treasury.Handler.WithdrawHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, treasuryErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
