package cart

import "time"

// Cart is the per-user basket. There is exactly one cart per user, keyed by
// user id, created lazily on first access. Items keep insertion order.
type Cart struct {
	ID        string    `bson:"_id,omitempty" json:"-"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Items     []Item    `bson:"items" json:"items"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Item is one product line. PriceAtAdd is the catalog unit price captured the
// moment the line was added; checkout honors it even if the catalog price has
// since changed.
type Item struct {
	ProductID  int64     `bson:"product_id" json:"product_id"`
	Title      string    `bson:"title" json:"title"`
	Quantity   int       `bson:"quantity" json:"quantity"`
	PriceAtAdd float64   `bson:"price_at_add" json:"price_at_add"`
	AddedAt    time.Time `bson:"added_at" json:"added_at"`
}
