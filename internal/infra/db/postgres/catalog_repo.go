package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/repository"
)

var _ repository.CatalogRepository = (*PostgresCatalogRepo)(nil)

// PostgresCatalogRepo reads the menu the restaurant staff manage out of band.
// Listings exclude unavailable items at the query level; paused categories
// come back separately so the snapshot builder can apply them per turn.
type PostgresCatalogRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresCatalogRepo(pool *pgxpool.Pool) *PostgresCatalogRepo {
	return &PostgresCatalogRepo{pool: pool}
}

func (r *PostgresCatalogRepo) ListAvailableItems(ctx context.Context) ([]model.MenuItem, error) {
	const q = `
SELECT id, name, price, categories, tags, food_type, unit, unit_quantity, image_url, available
  FROM menu_items WHERE available ORDER BY name;
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list menu items: %w", err)
	}
	defer rows.Close()

	var items []model.MenuItem
	for rows.Next() {
		var (
			it       model.MenuItem
			foodType string
		)
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Categories, &it.Tags, &foodType, &it.Unit, &it.UnitQuantity, &it.ImageURL, &it.Available); err != nil {
			return nil, err
		}
		it.FoodType = model.FoodType(foodType)
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PostgresCatalogRepo) ListPausedCategories(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM paused_categories;`)
	if err != nil {
		return nil, fmt.Errorf("list paused categories: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}
