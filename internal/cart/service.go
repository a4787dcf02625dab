package cart

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"
)

// ErrInvalidQuantity is returned for quantities below 1. Quantity validation
// happens here, at the cart boundary; it never reaches checkout.
var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Service wraps the repository with validation and a read cache.
type Service struct {
	repo  Repository
	cache Cache
	sfg   singleflight.Group // Prevents cache stampede
}

// NewService builds a cart service. cache may be nil when no Redis is
// configured; reads then go straight to the repository.
func NewService(repo Repository, cache Cache) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
	}
}

// GetCart returns the user's cart, lazily creating an empty one for users who
// have never touched theirs.
func (s *Service) GetCart(ctx context.Context, userID string) (*Cart, error) {
	// Use singleflight to prevent multiple concurrent cache misses for same key
	v, err, _ := s.sfg.Do(userID, func() (interface{}, error) {
		if s.cache != nil {
			c, err := s.cache.Get(ctx, userID)
			if err == nil {
				return c, nil // cart is in cache
			}
			if !errors.Is(err, ErrCacheMiss) {
				log.Printf("cache get error: %v", err) // log cache error but continue
			}
		}

		c, errGet := s.repo.GetCart(ctx, userID)
		if errors.Is(errGet, ErrCartNotFound) {
			return &Cart{
				UserID:    userID,
				Items:     nil,
				CreatedAt: time.Now(),
				UpdatedAt: time.Now(),
			}, nil
		}
		if errGet != nil {
			return nil, errGet
		}

		if s.cache != nil {
			go func() {
				if errSet := s.cache.Set(context.Background(), userID, c); errSet != nil {
					log.Printf("cache set error: %v", errSet)
				}
			}()
		}

		return c, nil
	})

	if err != nil {
		return nil, err
	}

	return v.(*Cart), nil
}

func (s *Service) AddItem(ctx context.Context, userID string, item Item) error {
	if item.Quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.repo.AddItem(ctx, userID, item); err != nil {
		log.Printf("repo add item error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// UpdateQuantity replaces the quantity of an existing line. Quantity 0 is not
// a removal here; use RemoveItem for that.
func (s *Service) UpdateQuantity(ctx context.Context, userID string, productID int64, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	if err := s.repo.UpdateItemQuantity(ctx, userID, productID, quantity); err != nil {
		if !errors.Is(err, ErrItemNotFound) {
			log.Printf("repo update item quantity error: %v", err)
		}
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *Service) RemoveItem(ctx context.Context, userID string, productID int64) error {
	if err := s.repo.RemoveItem(ctx, userID, productID); err != nil {
		log.Printf("repo remove item error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

// Snapshot returns the cart lines in insertion order, the order checkout
// reserves stock in.
func (s *Service) Snapshot(ctx context.Context, userID string) ([]Item, error) {
	c, err := s.GetCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	return c.Items, nil
}

// Clear empties the cart. Called by a successful checkout.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := s.repo.ClearCart(ctx, userID); err != nil {
		log.Printf("repo clear cart error: %v", err)
		return err
	}

	s.invalidateCache(userID)
	return nil
}

func (s *Service) invalidateCache(userID string) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Delete(ctx, userID); err != nil {
		log.Printf("cache invalidate error: %v", err)
	}
}
