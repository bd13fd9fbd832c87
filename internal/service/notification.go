package service

import (
	"context"

	"github.com/medroute/medroute/internal/api/dto"
	"github.com/medroute/medroute/internal/notification"
)

// NotificationService sends push notifications to rider devices
type NotificationService interface {
	SendNotification(ctx context.Context, req dto.SendNotificationRequest) (*dto.SendNotificationResponse, error)
}

type notificationService struct {
	ServiceParams
	push notification.Service
}

func NewNotificationService(params ServiceParams) NotificationService {
	return &notificationService{
		ServiceParams: params,
		push:          notification.NewService(params.Config, params.HTTPClient, params.Logger),
	}
}

func (s *notificationService) SendNotification(ctx context.Context, req dto.SendNotificationRequest) (*dto.SendNotificationResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	results, err := s.push.SendToTokens(ctx, req.RecipientTokens, &notification.Message{
		Title: req.Title,
		Body:  req.Body,
		Data:  req.Data,
	})
	if err != nil {
		return nil, err
	}

	return &dto.SendNotificationResponse{Results: results}, nil
}
