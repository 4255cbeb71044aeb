package amqp

import (
	"encoding/json"
	"time"

	"denguedash/internal/core"
)

// RecordAddedMessage announces a row appended through the dashboard form.
// Sessions are not durable, so the message carries the full record.
type RecordAddedMessage struct {
	Region    string    `json:"region"`
	Year      int       `json:"year"`
	Month     string    `json:"month"`
	Cases     int       `json:"cases"`
	Deaths    int       `json:"deaths"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// NewRecordAddedMessage builds a message from an appended record.
func NewRecordAddedMessage(r core.Record, sessionID string) *RecordAddedMessage {
	return &RecordAddedMessage{
		Region:    r.Region,
		Year:      r.Year,
		Month:     r.Month,
		Cases:     r.Cases,
		Deaths:    r.Deaths,
		SessionID: sessionID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *RecordAddedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordAddedMessageFromJSON creates a message from JSON bytes
func RecordAddedMessageFromJSON(data []byte) (*RecordAddedMessage, error) {
	var msg RecordAddedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
