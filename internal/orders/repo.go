package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Create(ctx context.Context, userID, product string, price float64) (Order, error) {
	o := Order{
		ID:        uuid.NewString(),
		UserID:    userID,
		Product:   product,
		Price:     price,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, user_id, product, price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.UserID, o.Product, o.Price, o.Status, o.CreatedAt,
	)
	if err != nil {
		return Order{}, fmt.Errorf("insert order: %w", err)
	}
	return o, nil
}

func (r *Repo) FindByUserID(ctx context.Context, userID string) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, user_id, product, price, status, created_at
		FROM orders WHERE user_id=$1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.Product, &o.Price, &o.Status, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("orders rows: %w", err)
	}
	return out, nil
}
