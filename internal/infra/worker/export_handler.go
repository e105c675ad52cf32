package worker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
	"interview-prep-backend/internal/infra/export"
)

var _ Handler = (*ExportHandler)(nil)

// ExportHandler renders one session's questions into a downloadable file.
type ExportHandler struct {
	sessions  repository.SessionRepository
	questions repository.QuestionRepository
	exporter  *export.Service
	analytics repository.AnalyticsTracker
	log       *zerolog.Logger
}

func NewExportHandler(
	sessions repository.SessionRepository,
	questions repository.QuestionRepository,
	exporter *export.Service,
	analytics repository.AnalyticsTracker,
	logger *zerolog.Logger,
) *ExportHandler {
	return &ExportHandler{sessions: sessions, questions: questions, exporter: exporter, analytics: analytics, log: logger}
}

func (h *ExportHandler) Handle(ctx context.Context, job *model.Job, progress func(int)) (any, error) {
	p := job.Payload.Export
	if p == nil {
		return nil, fmt.Errorf("%w: export job without export payload", domain.ErrInvalidArgument)
	}
	progress(progressStarted)

	session, err := h.sessions.FindByID(ctx, p.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	questions, err := h.questions.FindBySession(ctx, p.SessionID)
	if err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}
	progress(progressGenerated)

	filename, err := h.exporter.Export(ctx, p.Format, session, questions)
	if err != nil {
		return nil, err
	}
	progress(progressParsed)

	if err := h.analytics.TrackActivity(ctx, p.UserID, "session_exported", map[string]any{
		"session_id": p.SessionID,
		"format":     string(p.Format),
	}); err != nil {
		h.log.Warn().Err(err).Str("job_id", job.ID).Msg("analytics tracking failed")
	}

	return model.ExportResult{Filename: filename, Format: p.Format}, nil
}
