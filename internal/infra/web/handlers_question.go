package web

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/usecase"
)

// handleGenerate is the producer endpoint. A cache hit answers immediately
// with 201 and the materialized questions; a miss answers 202 with a job
// handle and the URL to poll.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req usecase.GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	outcome, err := s.generationUC.Generate(r.Context(), uid, req)
	if err != nil {
		respondError(w, s.log, err)
		return
	}

	if outcome.Cached {
		respondCreated(w, map[string]any{
			"cached":    true,
			"questions": outcome.Questions,
		})
		return
	}
	respondAccepted(w, map[string]any{
		"jobId":          outcome.Job.ID,
		"checkStatusUrl": fmt.Sprintf("/api/v1/queue/question/%s", outcome.Job.ID),
	})
}

func (s *Server) handleGenerationStatus(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	view, err := s.generationUC.Status(r.Context(), uid, chi.URLParam(r, "jobId"))
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, statusPayload(view))
}

func (s *Server) handleQuestionAdd(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	question, err := s.questionUC.Add(r.Context(), uid, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondCreated(w, question)
}

func (s *Server) handleQuestionList(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	questions, err := s.questionUC.List(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if questions == nil {
		questions = []*model.Question{}
	}
	respondJSON(w, questions)
}

func (s *Server) handleQuestionSearch(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	query := r.URL.Query()
	questions, err := s.questionUC.Search(r.Context(), uid, query.Get("sessionId"), query.Get("q"))
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if questions == nil {
		questions = []*model.Question{}
	}
	respondJSON(w, questions)
}

func (s *Server) handleQuestionPin(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	question, err := s.questionUC.TogglePin(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, question)
}

func (s *Server) handleQuestionUpdate(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	question, err := s.questionUC.Update(r.Context(), uid, chi.URLParam(r, "id"), req)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, question)
}

func (s *Server) handleQuestionDelete(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	id := chi.URLParam(r, "id")
	if err := s.questionUC.Delete(r.Context(), uid, id); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"id": id, "status": "deleted"})
}

// statusPayload is the wire shape shared by the generation and export status
// endpoints.
func statusPayload(view *usecase.JobStatusView) map[string]any {
	payload := map[string]any{
		"jobId":    view.JobID,
		"state":    view.State,
		"progress": view.Progress,
	}
	if view.Result != nil {
		payload["result"] = view.Result
	}
	if view.FailureReason != "" {
		payload["failureReason"] = view.FailureReason
	}
	return payload
}
