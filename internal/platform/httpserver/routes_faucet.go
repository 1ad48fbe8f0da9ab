package httpserver

import "net/http"

func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Faucet.Handler.FaucetHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, faucetErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFaucetClaimStatus(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Faucet.Handler.ClaimStatusHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		s.writeDomainError(w, r, faucetErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFaucetClaim(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	resp, err := s.modules.Faucet.Handler.ClaimHandler(r.Context(), caller)
	if err != nil {
		s.writeDomainError(w, r, faucetErrorTable, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
