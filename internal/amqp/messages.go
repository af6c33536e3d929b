package amqp

import (
	"encoding/json"
	"time"
)

// ReceiptCleanupMessage asks the receipt worker to delete files no entry
// references anymore.
type ReceiptCleanupMessage struct {
	DriveIDs  []string  `json:"drive_ids"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReceiptCleanupMessage(driveIDs []string) *ReceiptCleanupMessage {
	return &ReceiptCleanupMessage{DriveIDs: driveIDs, Timestamp: time.Now()}
}

func (m *ReceiptCleanupMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReceiptCleanupMessageFromJSON(data []byte) (*ReceiptCleanupMessage, error) {
	var msg ReceiptCleanupMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}

	return &msg, nil
}
