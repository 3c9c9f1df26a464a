package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	ports "expensetracker/internal/sheets"

	"github.com/google/uuid"
)

// RowSyncMessage asks the worker to copy one stored row to the spreadsheet.
// It carries only the row identity; the worker reads the row from SQLite.
type RowSyncMessage struct {
	MessageID string      `json:"message_id"`
	Table     ports.Table `json:"table"`
	ID        int64       `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
}

func NewRowSyncMessage(table ports.Table, id int64) *RowSyncMessage {
	return &RowSyncMessage{
		MessageID: uuid.NewString(),
		Table:     table,
		ID:        id,
		Timestamp: time.Now(),
	}
}

func (m *RowSyncMessage) Validate() error {
	if !m.Table.Valid() {
		return fmt.Errorf("unknown table %q", m.Table)
	}
	if m.ID <= 0 {
		return fmt.Errorf("invalid row id %d", m.ID)
	}
	return nil
}

// ToJSON converts the message to JSON bytes
func (m *RowSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RowSyncMessageFromJSON decodes and validates a message body.
func RowSyncMessageFromJSON(data []byte) (*RowSyncMessage, error) {
	var msg RowSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
