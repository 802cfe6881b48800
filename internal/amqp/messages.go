package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReportKind identifies the payload carried by a ReportMessage.
type ReportKind string

const (
	KindDashboard ReportKind = "dashboard"
	KindForecast  ReportKind = "forecast"
)

// ReportMessage carries one fully computed report to the rendering
// collaborator. The payload is the finished numeric series; consumers never
// need to touch the store.
type ReportMessage struct {
	ID          string          `json:"id"`
	Kind        ReportKind      `json:"kind"`
	GeneratedAt time.Time       `json:"generated_at"`
	Payload     json.RawMessage `json:"payload"`
}

// NewReportMessage wraps a report payload into a message with a fresh ID.
func NewReportMessage(kind ReportKind, payload any) (*ReportMessage, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &ReportMessage{
		ID:          uuid.NewString(),
		Kind:        kind,
		GeneratedAt: time.Now().UTC(),
		Payload:     body,
	}, nil
}

// ToJSON serializes the message for publishing.
func (m *ReportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReportMessageFromJSON deserializes a message received from the queue.
func ReportMessageFromJSON(data []byte) (*ReportMessage, error) {
	var m ReportMessage
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
