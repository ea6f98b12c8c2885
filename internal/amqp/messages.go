package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionUpsert = "upsert"
	ActionDelete = "delete"
)

// TransactionEvent is the lightweight sync message published on every
// transaction mutation. It carries only the id and action; the sync
// worker fetches the full record from storage when handling an upsert.
type TransactionEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEvent(id, action string) *TransactionEvent {
	return &TransactionEvent{
		ID:        id,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
}

func (e *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var e TransactionEvent
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
