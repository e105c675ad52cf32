package web

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/usecase"
)

func (s *Server) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	session, err := s.sessionUC.Create(r.Context(), uid, req)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondCreated(w, session)
}

func (s *Server) handleSessionList(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	sessions, err := s.sessionUC.ListMine(r.Context(), uid)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if sessions == nil {
		sessions = []*model.Session{}
	}
	respondJSON(w, sessions)
}

func (s *Server) handleSessionGet(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	session, err := s.sessionUC.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, session)
}

func (s *Server) handleSessionUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status model.SessionStatus `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	id := chi.URLParam(r, "id")
	if err := s.sessionUC.UpdateStatus(r.Context(), uid, id, req.Status); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"id": id, "status": string(req.Status)})
}

func (s *Server) handleSessionDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	id := chi.URLParam(r, "id")
	if err := s.sessionUC.Delete(r.Context(), uid, id); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"id": id, "status": "deleted"})
}
