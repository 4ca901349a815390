package orders

import (
	"encoding/json"
	"time"
)

const (
	EventOrderConfirmed = "OrderConfirmed"
)

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "kantin-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // kode pesanan
	Payload       json.RawMessage `json:"payload"`
}

type ItemQty struct {
	ID        ItemID `json:"id"`
	Name      string `json:"name"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unit_price"`
}

type OrderConfirmedPayload struct {
	Code          string        `json:"code"`
	SessionID     string        `json:"session_id"`
	Items         []ItemQty     `json:"items"`
	Total         int64         `json:"total"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PickupTime    PickupTime    `json:"pickup_time"`
	CreatedAt     time.Time     `json:"created_at"`
}

func NewOrderConfirmedPayload(sessionID string, o Order) OrderConfirmedPayload {
	items := make([]ItemQty, 0, len(o.Items))
	for _, l := range o.Items {
		items = append(items, ItemQty{ID: l.ID, Name: l.Name, Qty: l.Quantity, UnitPrice: l.UnitPrice()})
	}
	return OrderConfirmedPayload{
		Code:          o.Code,
		SessionID:     sessionID,
		Items:         items,
		Total:         o.Total,
		PaymentMethod: o.PaymentMethod,
		PickupTime:    o.PickupTime,
		CreatedAt:     o.CreatedAt,
	}
}

// NewOrderConfirmedEvent wraps the payload in a v1 envelope.
func NewOrderConfirmedEvent(eventID, producer, sessionID string, o Order) (Envelope, error) {
	payload, err := json.Marshal(NewOrderConfirmedPayload(sessionID, o))
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{
		EventID:       eventID,
		EventType:     EventOrderConfirmed,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: o.Code,
		Payload:       payload,
	}, nil
}
