package usecase

import (
	"context"

	"interview-prep-backend/internal/domain/model"
	"interview-prep-backend/internal/domain/ports/repository"
)

type NotificationUseCase interface {
	List(ctx context.Context, userID string, limit int) ([]*model.NotificationEvent, error)
	MarkRead(ctx context.Context, userID string, ids []string) error
	Clear(ctx context.Context, userID string) error
}

var _ NotificationUseCase = (*notificationUseCase)(nil)

type notificationUseCase struct {
	hub repository.NotificationHub
}

func NewNotificationUseCase(hub repository.NotificationHub) NotificationUseCase {
	return &notificationUseCase{hub: hub}
}

func (uc *notificationUseCase) List(ctx context.Context, userID string, limit int) ([]*model.NotificationEvent, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.hub.List(ctx, userID, limit)
}

func (uc *notificationUseCase) MarkRead(ctx context.Context, userID string, ids []string) error {
	return uc.hub.MarkRead(ctx, userID, ids)
}

func (uc *notificationUseCase) Clear(ctx context.Context, userID string) error {
	return uc.hub.Clear(ctx, userID)
}
