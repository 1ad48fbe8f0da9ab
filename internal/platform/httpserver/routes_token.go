package httpserver

import (
	"net/http"

	tokenhttp "securevote/contexts/governance/governance-token/transport/http"
)

func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Token.Handler.TokenHandler(r.Context())
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenBalance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Token.Handler.BalanceHandler(r.Context(), r.PathValue("address"))
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenTransfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req tokenhttp.TransferRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Token.Handler.TransferHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenTransferFrom(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req tokenhttp.TransferFromRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Token.Handler.TransferFromHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenApprove(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req tokenhttp.ApproveRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Token.Handler.ApproveHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenAllowance(w http.ResponseWriter, r *http.Request) {
	resp, err := s.modules.Token.Handler.AllowanceHandler(r.Context(), r.PathValue("owner"), r.PathValue("spender"))
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenPurchase(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	var req tokenhttp.PurchaseRequest
	if !decodeJSON(w, r, &req, false) {
		return
	}
	resp, err := s.modules.Token.Handler.PurchaseHandler(r.Context(), caller, req)
	if err != nil {
		s.writeDomainError(w, r, tokenErrorTable, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}
