package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"interview-prep-backend/internal/domain"
	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

type ExportUseCase interface {
	// Request enqueues an export job for one of the caller's sessions.
	Request(ctx context.Context, userID, sessionID string, format model.ExportFormat) (*model.Job, error)
	Status(ctx context.Context, userID, jobID string) (*JobStatusView, error)
}

var _ ExportUseCase = (*exportUseCase)(nil)

type exportUseCase struct {
	sessions repository.SessionRepository
	queue    repository.JobQueue
	log      *zerolog.Logger
}

func NewExportUseCase(sessions repository.SessionRepository, queue repository.JobQueue, logger *zerolog.Logger) ExportUseCase {
	return &exportUseCase{sessions: sessions, queue: queue, log: logger}
}

func (uc *exportUseCase) Request(ctx context.Context, userID, sessionID string, format model.ExportFormat) (*model.Job, error) {
	if !model.ValidExportFormat(format) {
		return nil, fmt.Errorf("%w: format must be one of pdf, csv, docx", domain.ErrInvalidArgument)
	}

	session, err := uc.sessions.FindByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, domain.ErrForbidden
	}

	return uc.queue.Enqueue(ctx, model.JobPayload{
		Type: model.JobTypeExport,
		Export: &model.ExportPayload{
			SessionID: sessionID,
			UserID:    userID,
			Format:    format,
		},
	})
}

func (uc *exportUseCase) Status(ctx context.Context, userID, jobID string) (*JobStatusView, error) {
	job, err := uc.queue.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if job.Payload.UserID() != userID {
		return nil, domain.ErrForbidden
	}
	return jobStatusView(job), nil
}
