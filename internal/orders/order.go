package orders

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusShipped    Status = "SHIPPED"
	StatusDelivered  Status = "DELIVERED"
	StatusCancelled  Status = "CANCELLED"
)

// validTransitions encodes the order lifecycle: Pending -> Processing ->
// Shipped -> Delivered, with cancellation allowed until shipping.
var validTransitions = map[Status][]Status{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered},
}

// CanTransitionTo reports whether the order status may move to next.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}

// Item is a price snapshot of one cart line at checkout time. UnitPrice is
// copied from the cart, never re-read from the catalog, so later price changes
// do not affect past orders.
type Item struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// Order is an immutable record of a successful checkout. Only Status ever
// changes after creation.
type Order struct {
	ID        uuid.UUID
	UserID    string
	Items     []Item
	Subtotal  float64
	Tax       float64
	Shipping  float64
	Total     float64
	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}
