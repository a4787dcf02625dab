package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// PostgresLedger implements Ledger on top of a product_stock table. Atomicity
// of Reserve comes from a single conditional UPDATE: the row-level lock taken
// by Postgres makes the check-and-decrement indivisible, so no two concurrent
// reservations can both observe stock >= quantity and both decrement past zero.
type PostgresLedger struct {
	db *sql.DB
}

// NewPostgresLedger wraps an already-open database handle. The caller owns the
// handle's lifecycle and migrations.
func NewPostgresLedger(db *sql.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) Reserve(ctx context.Context, productID int64, quantity int) error {
	query := `UPDATE product_stock SET stock = stock - $2, updated_at = NOW()
	          WHERE product_id = $1 AND stock >= $2`

	res, err := l.db.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reserve stock rows affected: %w", err)
	}
	if affected > 0 {
		return nil
	}

	// The conditional update matched no row: either the product is unknown
	// or the stock ran out. Read back to tell the two apart and report the
	// shortfall.
	available, err := l.Stock(ctx, productID)
	if err != nil {
		return err
	}
	return &InsufficientStockError{
		ProductID: productID,
		Requested: quantity,
		Available: available,
	}
}

func (l *PostgresLedger) Release(ctx context.Context, productID int64, quantity int) error {
	query := `UPDATE product_stock SET stock = stock + $2, updated_at = NOW()
	          WHERE product_id = $1`

	res, err := l.db.ExecContext(ctx, query, productID, quantity)
	if err != nil {
		return fmt.Errorf("release stock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("release stock rows affected: %w", err)
	}
	if affected == 0 {
		return ErrProductNotFound
	}
	return nil
}

func (l *PostgresLedger) Stock(ctx context.Context, productID int64) (int, error) {
	var stock int
	err := l.db.QueryRowContext(ctx,
		`SELECT stock FROM product_stock WHERE product_id = $1`, productID).Scan(&stock)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrProductNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("query stock: %w", err)
	}
	return stock, nil
}

func (l *PostgresLedger) SetStock(ctx context.Context, productID int64, quantity int) error {
	query := `INSERT INTO product_stock (product_id, stock, updated_at)
	          VALUES ($1, $2, NOW())
	          ON CONFLICT (product_id) DO UPDATE SET stock = $2, updated_at = NOW()`

	if _, err := l.db.ExecContext(ctx, query, productID, quantity); err != nil {
		return fmt.Errorf("set stock: %w", err)
	}
	return nil
}
