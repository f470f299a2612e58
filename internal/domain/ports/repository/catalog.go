package repository

import (
	"context"

	"restaurant-order-bot/internal/domain/model"
)

// CatalogRepository reads the administratively-managed menu. Fetched fresh
// every turn so paused categories and availability changes apply immediately.
type CatalogRepository interface {
	ListAvailableItems(ctx context.Context) ([]model.MenuItem, error)
	ListPausedCategories(ctx context.Context) ([]string, error)
}
