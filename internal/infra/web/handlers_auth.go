package web

import (
	"encoding/json"
	"net/http"

	"interview-prep-backend/internal/usecase"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req usecase.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	user, err := s.userUC.Register(r.Context(), req)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondCreated(w, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	user, err := s.userUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	token, err := s.tokens.Mint(user.ID)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	s.tokens.SetCookie(w, token)
	respondJSON(w, user)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.tokens.ClearCookie(w)
	respondJSON(w, map[string]string{"status": "logged out"})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	user, err := s.userUC.Profile(r.Context(), uid)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, user)
}

func (s *Server) handleOTPRequest(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	if err := s.userUC.RequestOTP(r.Context(), uid); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"status": "code sent"})
}

func (s *Server) handleOTPVerify(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	if err := s.userUC.VerifyOTP(r.Context(), uid, req.Code); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"status": "email verified"})
}
