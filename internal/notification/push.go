package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/medroute/medroute/internal/config"
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/httpclient"
	"github.com/medroute/medroute/internal/logger"
)

// Message is one push notification payload
type Message struct {
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

// DeliveryResult reports the outcome for a single device token
type DeliveryResult struct {
	Token   string `json:"token"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Service delivers push notifications. A batch send always reports per-token
// outcomes; one bad token never fails the rest of the batch.
type Service interface {
	SendToTokens(ctx context.Context, tokens []string, msg *Message) ([]DeliveryResult, error)
}

type pushService struct {
	cfg    config.NotificationConfig
	client httpclient.Client
	logger *logger.Logger
}

func NewService(cfg *config.Configuration, client httpclient.Client, logger *logger.Logger) Service {
	return &pushService{
		cfg:    cfg.Notification,
		client: client,
		logger: logger,
	}
}

type pushRequest struct {
	Token string            `json:"to"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

func (s *pushService) SendToTokens(ctx context.Context, tokens []string, msg *Message) ([]DeliveryResult, error) {
	if s.cfg.Endpoint == "" {
		return nil, ierr.NewError("notification delivery is not configured").
			Mark(ierr.ErrInvalidOperation)
	}
	if len(tokens) == 0 {
		return nil, nil
	}

	results := make([]DeliveryResult, 0, len(tokens))
	for _, token := range tokens {
		result := DeliveryResult{Token: token}
		if err := s.sendOne(ctx, token, msg); err != nil {
			result.Error = err.Error()
			s.logger.Warnw("push delivery failed",
				"token", token,
				"error", err,
			)
		} else {
			result.Success = true
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *pushService) sendOne(ctx context.Context, token string, msg *Message) error {
	body, err := json.Marshal(pushRequest{
		Token: token,
		Title: msg.Title,
		Body:  msg.Body,
		Data:  msg.Data,
	})
	if err != nil {
		return err
	}

	resp, err := s.client.Send(ctx, &httpclient.Request{
		Method: http.MethodPost,
		URL:    s.cfg.Endpoint,
		Headers: map[string]string{
			"Authorization": "key=" + s.cfg.ServerKey,
		},
		Body: body,
	})
	if err != nil {
		return err
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
