package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/repository"
)

var _ repository.CustomerRepository = (*PostgresCustomerRepo)(nil)

// PostgresCustomerRepo stores one row per customer keyed by phone. The
// conversation state and cart are JSONB columns; they change shape often and
// nothing queries into them server-side.
type PostgresCustomerRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCustomerRepo(pool *pgxpool.Pool) *PostgresCustomerRepo {
	return &PostgresCustomerRepo{pool: pool}
}

func (r *PostgresCustomerRepo) Save(ctx context.Context, c *model.Customer) error {
	state, err := json.Marshal(c.State)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	cart, err := json.Marshal(c.Cart)
	if err != nil {
		return fmt.Errorf("marshal cart: %w", err)
	}
	const q = `
INSERT INTO customers (
  phone, name, state, cart, delivery_address, latitude, longitude, created_at, updated_at
) VALUES (
  $1,$2,$3,$4,$5,$6,$7,$8,$9
) ON CONFLICT (phone) DO UPDATE SET
  name=$2, state=$3, cart=$4, delivery_address=$5, latitude=$6, longitude=$7, updated_at=$9;
`
	_, err = r.pool.Exec(ctx, q, c.Phone, c.Name, state, cart, c.DeliveryAddress, c.Latitude, c.Longitude, c.CreatedAt, c.UpdatedAt)
	return err
}

func (r *PostgresCustomerRepo) FindByPhone(ctx context.Context, phone string) (*model.Customer, error) {
	const q = `
SELECT phone, name, state, cart, delivery_address, latitude, longitude, created_at, updated_at
  FROM customers WHERE phone=$1;
`
	row := r.pool.QueryRow(ctx, q, phone)
	var (
		c           model.Customer
		state, cart []byte
	)
	if err := row.Scan(&c.Phone, &c.Name, &state, &cart, &c.DeliveryAddress, &c.Latitude, &c.Longitude, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(state, &c.State); err != nil {
		return nil, fmt.Errorf("unmarshal state: %w", err)
	}
	if err := json.Unmarshal(cart, &c.Cart); err != nil {
		return nil, fmt.Errorf("unmarshal cart: %w", err)
	}
	return &c, nil
}
