package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository implements Repository and OutboxSource in memory. Used by
// tests and by dev mode when no Postgres DSN is configured.
type MemoryRepository struct {
	mu         sync.Mutex
	orders     map[uuid.UUID]*Order
	events     []*OutboxEvent
	nextEvent  int64
	failCreate error // when set, CreateOrder returns this error
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		orders:    make(map[uuid.UUID]*Order),
		nextEvent: 1,
	}
}

// FailNextCreates makes every subsequent CreateOrder fail with err. Pass nil
// to restore normal behavior.
func (r *MemoryRepository) FailNextCreates(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failCreate = err
}

func (r *MemoryRepository) CreateOrder(_ context.Context, order *Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.failCreate != nil {
		return r.failCreate
	}

	stored := *order
	stored.Items = append([]Item(nil), order.Items...)
	r.orders[order.ID] = &stored

	payload, err := json.Marshal(map[string]interface{}{
		"order_id": order.ID,
		"user_id":  order.UserID,
		"total":    order.Total,
		"items":    order.Items,
	})
	if err != nil {
		return fmt.Errorf("marshal outbox payload: %w", err)
	}
	r.events = append(r.events, &OutboxEvent{
		ID:          r.nextEvent,
		AggregateID: order.ID.String(),
		EventType:   eventTypeOrderPlaced,
		Payload:     payload,
		CreatedAt:   time.Now(),
	})
	r.nextEvent++
	return nil
}

func (r *MemoryRepository) GetOrderByID(_ context.Context, id uuid.UUID) (*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[id]
	if !exists {
		return nil, ErrOrderNotFound
	}
	copied := *order
	copied.Items = append([]Item(nil), order.Items...)
	return &copied, nil
}

func (r *MemoryRepository) ListOrdersByUserID(_ context.Context, userID string) ([]*Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var result []*Order
	for _, order := range r.orders {
		if order.UserID != userID {
			continue
		}
		copied := *order
		copied.Items = append([]Item(nil), order.Items...)
		result = append(result, &copied)
	}

	// Newest first, matching the Postgres ORDER BY created_at DESC.
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *MemoryRepository) UpdateStatus(_ context.Context, id uuid.UUID, next Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[id]
	if !exists {
		return ErrOrderNotFound
	}
	if !order.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, next)
	}
	order.Status = next
	order.UpdatedAt = time.Now()
	return nil
}

func (r *MemoryRepository) GetUnprocessedEvents(_ context.Context, limit int) ([]*OutboxEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []*OutboxEvent
	for _, ev := range r.events {
		if len(events) == limit {
			break
		}
		events = append(events, ev)
	}
	return events, nil
}

func (r *MemoryRepository) MarkEventAsProcessed(_ context.Context, eventID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, ev := range r.events {
		if ev.ID == eventID {
			r.events = append(r.events[:i], r.events[i+1:]...)
			return nil
		}
	}
	return nil
}
