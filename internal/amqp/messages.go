package amqp

import (
	"encoding/json"
	"time"
)

// TransactionCreatedMessage is a lightweight event emitted after a transaction
// is stored. It carries only identifiers; consumers fetch the full records
// from the database.
type TransactionCreatedMessage struct {
	UserID        string    `json:"user_id"`
	TransactionID string    `json:"transaction_id"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewTransactionCreatedMessage creates an event for a freshly stored transaction
func NewTransactionCreatedMessage(userID, transactionID string) *TransactionCreatedMessage {
	return &TransactionCreatedMessage{
		UserID:        userID,
		TransactionID: transactionID,
		Timestamp:     time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *TransactionCreatedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// TransactionCreatedMessageFromJSON creates a message from JSON bytes
func TransactionCreatedMessageFromJSON(data []byte) (*TransactionCreatedMessage, error) {
	var msg TransactionCreatedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
