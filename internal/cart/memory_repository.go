package cart

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository implements Repository in memory. Used by tests and by dev
// mode when no Mongo URI is configured.
type MemoryRepository struct {
	mu    sync.Mutex
	carts map[string]*Cart
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{carts: make(map[string]*Cart)}
}

func (r *MemoryRepository) GetCart(_ context.Context, userID string) (*Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.carts[userID]
	if !exists {
		return nil, ErrCartNotFound
	}
	copied := *c
	copied.Items = append([]Item(nil), c.Items...)
	return &copied, nil
}

func (r *MemoryRepository) AddItem(_ context.Context, userID string, item Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	item.AddedAt = now

	c, exists := r.carts[userID]
	if !exists {
		r.carts[userID] = &Cart{
			UserID:    userID,
			Items:     []Item{item},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return nil
	}

	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID {
			c.Items[i].Quantity += item.Quantity
			c.UpdatedAt = now
			return nil
		}
	}

	c.Items = append(c.Items, item)
	c.UpdatedAt = now
	return nil
}

func (r *MemoryRepository) UpdateItemQuantity(_ context.Context, userID string, productID int64, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.carts[userID]
	if !exists {
		return ErrItemNotFound
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity = quantity
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return ErrItemNotFound
}

func (r *MemoryRepository) RemoveItem(_ context.Context, userID string, productID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.carts[userID]
	if !exists {
		return nil
	}

	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			c.UpdatedAt = time.Now()
			return nil
		}
	}
	return nil
}

func (r *MemoryRepository) ClearCart(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, exists := r.carts[userID]
	if !exists {
		return nil
	}
	c.Items = []Item{}
	c.UpdatedAt = time.Now()
	return nil
}
