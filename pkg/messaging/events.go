package messaging

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event types
const (
	// Inventory events
	EventLowStockDetected = "inventory.low_stock.detected"
	EventLowStockCleared  = "inventory.low_stock.cleared"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// LowStockEvent is published when a batch crosses its stock alert threshold
// in either direction.
type LowStockEvent struct {
	BatchID           string `json:"batch_id"`
	BatchCode         string `json:"batch_code"`
	BatchName         string `json:"batch_name"`
	Category          string `json:"category"`
	RemainingQuantity int    `json:"remaining_quantity"`
	MinStockAlert     int    `json:"min_stock_alert"`
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return fmt.Sprintf("%d-%d", time.Now().UnixNano(), time.Now().Nanosecond()%10000)
}
