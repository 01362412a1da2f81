package amqp

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Reasons carried by DatasetSavedMessage.
const (
	ReasonUpload = "upload"
	ReasonAppend = "append"
	ReasonImport = "import"
	ReasonSeed   = "seed"
)

// DatasetSavedMessage announces that the primary dataset was rewritten.
// It carries no rows; the worker reloads the dataset from the primary backend.
type DatasetSavedMessage struct {
	ID        uuid.UUID `json:"id"`
	Rows      int       `json:"rows"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDatasetSavedMessage(rows int, reason string) *DatasetSavedMessage {
	return &DatasetSavedMessage{
		ID:        uuid.New(),
		Rows:      rows,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *DatasetSavedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DatasetSavedMessageFromJSON(data []byte) (*DatasetSavedMessage, error) {
	var msg DatasetSavedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
