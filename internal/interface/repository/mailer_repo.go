package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"farewatch-service/internal/domain/entity"
	"farewatch-service/internal/domain/repository"
	"farewatch-service/pkg/logger"
)

// MailerRepository hands rendered notifications to the mailer service.
// The mailer owns the SMTP side; this client only speaks its HTTP API.
type MailerRepository struct {
	logger      logger.Logger
	baseURL     string
	bearerToken string
	client      *http.Client
}

// NewMailerRepository creates a new mailer service client
func NewMailerRepository(baseURL, bearerToken string, logger logger.Logger) repository.MailerRepository {
	return &MailerRepository{
		logger:      logger,
		baseURL:     baseURL,
		bearerToken: bearerToken,
		client:      &http.Client{Timeout: 30 * time.Second},
	}
}

type sendAlertMessage struct {
	EventID   string  `json:"eventId"`
	Recipient string  `json:"recipient"`
	Subject   string  `json:"subject"`
	Body      string  `json:"body"`
	Type      string  `json:"type"`
	OldPrice  float64 `json:"oldPrice"`
	NewPrice  float64 `json:"newPrice"`
}

// SendAlert delivers one notification event through the mailer service
func (r *MailerRepository) SendAlert(ctx context.Context, event *entity.NotificationEvent) error {
	msg := sendAlertMessage{
		EventID:   event.ID,
		Recipient: event.Recipient,
		Subject:   event.Subject,
		Body:      event.Message,
		Type:      string(event.Type),
		OldPrice:  event.OldPrice,
		NewPrice:  event.NewPrice,
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to marshal alert payload: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/alerts/send", r.baseURL)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+r.bearerToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var errorBody map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&errorBody)
		return fmt.Errorf("mailer service returned status %d: %v", resp.StatusCode, errorBody)
	}

	var response struct {
		Success bool `json:"success"`
		Error   struct {
			Message string `json:"message"`
			Code    string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !response.Success {
		return fmt.Errorf("mailer service rejected alert: %s (code: %s)", response.Error.Message, response.Error.Code)
	}

	r.logger.Info("Alert delivered",
		"eventId", event.ID,
		"type", event.Type,
		"recipient", event.Recipient)

	return nil
}
