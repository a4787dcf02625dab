package orders

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
)

// Credentials holds connection settings for the Postgres repository.
type Credentials struct {
	Host              string
	Port              int
	User              string
	Password          string
	DBName            string
	MigrationsDirPath string
}

// OutboxEvent is a pending domain event written in the same transaction as
// the order it describes.
type OutboxEvent struct {
	ID          int64
	AggregateID string
	EventType   string
	Payload     []byte
	CreatedAt   time.Time
}

// Repository defines order storage. Consumers define this interface, not the
// Postgres implementation.
type Repository interface {
	CreateOrder(ctx context.Context, order *Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*Order, error)

	// UpdateStatus applies a lifecycle transition, failing with
	// ErrInvalidTransition when the move is not allowed from the current
	// status.
	UpdateStatus(ctx context.Context, id uuid.UUID, next Status) error
}

// OutboxSource is the slice of the repository the outbox poller needs.
type OutboxSource interface {
	GetUnprocessedEvents(ctx context.Context, limit int) ([]*OutboxEvent, error)
	MarkEventAsProcessed(ctx context.Context, eventID int64) error
}
