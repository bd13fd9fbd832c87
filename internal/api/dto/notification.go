package dto

import (
	ierr "github.com/medroute/medroute/internal/errors"
	"github.com/medroute/medroute/internal/notification"
)

type SendNotificationRequest struct {
	RecipientTokens []string          `json:"recipientTokens"`
	Title           string            `json:"title"`
	Body            string            `json:"body"`
	Data            map[string]string `json:"data,omitempty"`
}

func (r *SendNotificationRequest) Validate() error {
	if len(r.RecipientTokens) == 0 {
		return ierr.NewError("recipientTokens is required").
			Mark(ierr.ErrValidation)
	}
	if r.Title == "" && r.Body == "" {
		return ierr.NewError("notification needs a title or body").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type SendNotificationResponse struct {
	Results []notification.DeliveryResult `json:"results"`
}
