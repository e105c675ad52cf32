package web

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"interview-prep-backend/internal/infra/export"
	"interview-prep-backend/internal/infra/redis"
	"interview-prep-backend/internal/usecase"
)

// Pinger is the health-check view of the database pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	tokens *TokenManager

	userUC         usecase.UserUseCase
	sessionUC      usecase.SessionUseCase
	questionUC     usecase.QuestionUseCase
	generationUC   usecase.GenerationUseCase
	exportUC       usecase.ExportUseCase
	notificationUC usecase.NotificationUseCase
	analyticsUC    usecase.AnalyticsUseCase

	exporter *export.Service
	db       Pinger
	rdb      redis.Client
	log      *zerolog.Logger
}

func NewServer(
	tokens *TokenManager,
	userUC usecase.UserUseCase,
	sessionUC usecase.SessionUseCase,
	questionUC usecase.QuestionUseCase,
	generationUC usecase.GenerationUseCase,
	exportUC usecase.ExportUseCase,
	notificationUC usecase.NotificationUseCase,
	analyticsUC usecase.AnalyticsUseCase,
	exporter *export.Service,
	db Pinger,
	rdb redis.Client,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		tokens:         tokens,
		userUC:         userUC,
		sessionUC:      sessionUC,
		questionUC:     questionUC,
		generationUC:   generationUC,
		exportUC:       exportUC,
		notificationUC: notificationUC,
		analyticsUC:    analyticsUC,
		exporter:       exporter,
		db:             db,
		rdb:            rdb,
		log:            logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(Recovery(s.log))
	r.Use(RequestLogger(s.log))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/register", s.handleRegister)
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/logout", s.handleLogout)

		r.Group(func(r chi.Router) {
			r.Use(s.tokens.Authenticate)

			r.Get("/auth/profile", s.handleProfile)
			r.Post("/auth/otp/request", s.handleOTPRequest)
			r.Post("/auth/otp/verify", s.handleOTPVerify)

			r.Post("/sessions", s.handleSessionCreate)
			r.Get("/sessions", s.handleSessionList)
			r.Get("/sessions/{id}", s.handleSessionGet)
			r.Patch("/sessions/{id}", s.handleSessionUpdateStatus)
			r.Delete("/sessions/{id}", s.handleSessionDelete)
			r.Post("/sessions/{id}/questions", s.handleQuestionAdd)
			r.Get("/sessions/{id}/questions", s.handleQuestionList)

			r.Post("/question/generate", s.handleGenerate)
			r.Get("/question/search", s.handleQuestionSearch)
			r.Get("/queue/question/{jobId}", s.handleGenerationStatus)

			r.Post("/questions/{id}/pin", s.handleQuestionPin)
			r.Put("/questions/{id}", s.handleQuestionUpdate)
			r.Delete("/questions/{id}", s.handleQuestionDelete)

			r.Post("/export/export/{sessionId}", s.handleExportRequest)
			r.Get("/export/status/{jobId}", s.handleExportStatus)
			r.Get("/export/download/{filename}", s.handleExportDownload)

			r.Get("/notifications", s.handleNotificationList)
			r.Post("/notifications/read", s.handleNotificationRead)
			r.Delete("/notifications/clear", s.handleNotificationClear)

			r.Get("/analytics/topics", s.handleAnalyticsTopics)
			r.Get("/analytics/activity", s.handleAnalyticsActivity)
		})
	})

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := map[string]string{"postgres": "ok", "redis": "ok"}
	healthy := true
	if err := s.db.Ping(ctx); err != nil {
		status["postgres"] = err.Error()
		healthy = false
	}
	if err := s.rdb.Ping(ctx); err != nil {
		status["redis"] = err.Error()
		healthy = false
	}

	if !healthy {
		writeJSON(w, http.StatusServiceUnavailable, envelope{Data: status})
		return
	}
	respondJSON(w, status)
}
