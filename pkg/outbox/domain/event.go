package domain

import (
	"encoding/json"
	"time"
)

type OutboxEvent struct {
	Id            int64
	AggregateType string
	AggregateID   string
	EventType     string
	Payload       json.RawMessage
	CreatedAt     time.Time
	Attempts      int64
	LastError     *string
	Topic         string
}
