package catalog

import "time"

// Product is catalog metadata: title and price for display and for the
// price snapshot taken at cart-add time. Stock lives in the inventory
// ledger; the catalog only carries the seed value.
type Product struct {
	ID          int64
	Title       string
	Description string
	Price       float64
	Category    string
	Thumbnail   string
	Stock       int
	CreatedAt   time.Time
}
