package services

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"customerapi/internal/models"
)

// CustomerEventLogger returns a message handler that decodes customer
// created events and records them in the log. Undecodable messages are
// reported as errors so the consumer can reject them.
func CustomerEventLogger(logger *slog.Logger) func(body []byte) error {
	if logger == nil {
		logger = slog.Default()
	}
	return func(body []byte) error {
		var event models.CustomerCreatedEvent
		if err := json.Unmarshal(body, &event); err != nil {
			return fmt.Errorf("failed to decode customer event: %w", err)
		}
		logger.Info("Received customer created event",
			"event_id", event.EventID,
			"customer_id", event.CustomerID,
			"api_version", event.Version,
			"occurred_at", event.OccurredAt,
		)
		return nil
	}
}
