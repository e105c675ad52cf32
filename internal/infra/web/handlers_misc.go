package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"interview-prep-backend/internal/domain/model"
)

func (s *Server) handleNotificationList(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	events, err := s.notificationUC.List(r.Context(), uid, limit)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if events == nil {
		events = []*model.NotificationEvent{}
	}
	respondJSON(w, events)
}

func (s *Server) handleNotificationRead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorWith(w, http.StatusBadRequest, "BAD_JSON", "Invalid request body", nil)
		return
	}

	uid, _ := userID(r)
	if err := s.notificationUC.MarkRead(r.Context(), uid, req.IDs); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"status": "marked read"})
}

func (s *Server) handleNotificationClear(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	if err := s.notificationUC.Clear(r.Context(), uid); err != nil {
		respondError(w, s.log, err)
		return
	}
	respondJSON(w, map[string]string{"status": "cleared"})
}

func (s *Server) handleAnalyticsTopics(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	topics, err := s.analyticsUC.PopularTopics(r.Context(), limit)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if topics == nil {
		topics = []model.TopicCount{}
	}
	respondJSON(w, topics)
}

func (s *Server) handleAnalyticsActivity(w http.ResponseWriter, r *http.Request) {
	uid, _ := userID(r)
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	activity, err := s.analyticsUC.RecentActivity(r.Context(), uid, limit)
	if err != nil {
		respondError(w, s.log, err)
		return
	}
	if activity == nil {
		activity = []model.ActivityEvent{}
	}
	respondJSON(w, activity)
}
