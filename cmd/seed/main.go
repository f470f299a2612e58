// Applies the schema and loads a demo menu. Safe to run repeatedly: DDL is
// idempotent and seeding is skipped when menu items already exist.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"restaurant-order-bot/internal/config"
	"restaurant-order-bot/internal/domain/model"
	pg "restaurant-order-bot/internal/infra/db/postgres"
)

const schema = `
CREATE TABLE IF NOT EXISTS customers (
  phone            TEXT PRIMARY KEY,
  name             TEXT NOT NULL DEFAULT '',
  state            JSONB NOT NULL DEFAULT '{}',
  cart             JSONB NOT NULL DEFAULT '{}',
  delivery_address TEXT NOT NULL DEFAULT '',
  latitude         DOUBLE PRECISION NOT NULL DEFAULT 0,
  longitude        DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at       TIMESTAMPTZ NOT NULL,
  updated_at       TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS menu_items (
  id            TEXT PRIMARY KEY,
  name          TEXT NOT NULL,
  price         BIGINT NOT NULL,
  categories    TEXT[] NOT NULL DEFAULT '{}',
  tags          TEXT[] NOT NULL DEFAULT '{}',
  food_type     TEXT NOT NULL DEFAULT 'veg',
  unit          TEXT NOT NULL DEFAULT '',
  unit_quantity INT NOT NULL DEFAULT 1,
  image_url     TEXT NOT NULL DEFAULT '',
  available     BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS paused_categories (
  name TEXT PRIMARY KEY
);

CREATE TABLE IF NOT EXISTS orders (
  id               TEXT PRIMARY KEY,
  phone            TEXT NOT NULL,
  lines            JSONB NOT NULL,
  total            BIGINT NOT NULL,
  service_type     TEXT NOT NULL,
  payment_method   TEXT NOT NULL,
  payment_url      TEXT NOT NULL DEFAULT '',
  status           TEXT NOT NULL,
  delivery_address TEXT NOT NULL DEFAULT '',
  delivery_lat     DOUBLE PRECISION NOT NULL DEFAULT 0,
  delivery_lon     DOUBLE PRECISION NOT NULL DEFAULT 0,
  created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS orders_phone_created_idx ON orders (phone, created_at DESC);
`

type seedItem struct {
	ID         string
	Name       string
	Price      int64 // minor units
	Categories []string
	Tags       []string
	FoodType   model.FoodType
	Unit       string
	UnitQty    int
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool := pg.MustConnect(cfg.Database.URL)
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("apply schema: %v", err)
	}
	fmt.Println("schema applied")

	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM menu_items;`).Scan(&count); err != nil {
		log.Fatalf("count menu items: %v", err)
	}
	if count > 0 {
		fmt.Printf("%d menu items already present. No changes.\n", count)
		return
	}

	seed := []seedItem{
		{"it-idli", "Idli", 4000, []string{"Breakfast", "South Indian"}, []string{"steamed", "rice"}, model.FoodTypeVeg, "pieces", 2},
		{"it-dosa", "Masala Dosa", 7000, []string{"Breakfast", "South Indian"}, []string{"crispy", "potato"}, model.FoodTypeVeg, "piece", 1},
		{"it-poori", "Poori", 6000, []string{"Breakfast"}, []string{"fried", "potato"}, model.FoodTypeVeg, "pieces", 2},
		{"it-vegbir", "Veg Biryani", 15000, []string{"Biryani", "Lunch"}, []string{"rice", "spicy"}, model.FoodTypeVeg, "plate", 1},
		{"it-chkbir", "Chicken Biryani", 22000, []string{"Biryani", "Lunch"}, []string{"rice", "spicy", "chicken"}, model.FoodTypeNonVeg, "plate", 1},
		{"it-mutbir", "Mutton Biryani", 28000, []string{"Biryani", "Lunch"}, []string{"rice", "spicy", "mutton"}, model.FoodTypeNonVeg, "plate", 1},
		{"it-eggbir", "Egg Biryani", 16000, []string{"Biryani", "Lunch"}, []string{"rice", "egg"}, model.FoodTypeEgg, "plate", 1},
		{"it-chkcur", "Chicken Curry", 18000, []string{"Curries", "Lunch"}, []string{"gravy", "chicken", "spicy"}, model.FoodTypeNonVeg, "bowl", 1},
		{"it-dalfry", "Dal Fry", 10000, []string{"Curries", "Lunch"}, []string{"gravy", "lentil"}, model.FoodTypeVeg, "bowl", 1},
		{"it-paneer", "Paneer Butter Masala", 16000, []string{"Curries"}, []string{"gravy", "paneer", "creamy"}, model.FoodTypeVeg, "bowl", 1},
		{"it-kurma", "Veg Kurma", 12000, []string{"Curries"}, []string{"gravy", "kurma", "coconut"}, model.FoodTypeVeg, "bowl", 1},
		{"it-chk65", "Chicken 65", 17000, []string{"Starters"}, []string{"fried", "chicken", "spicy"}, model.FoodTypeNonVeg, "plate", 1},
		{"it-gobi", "Gobi Manchurian", 12000, []string{"Starters"}, []string{"fried", "cauliflower"}, model.FoodTypeVeg, "plate", 1},
		{"it-eggom", "Egg Omelette", 5000, []string{"Starters", "Breakfast"}, []string{"egg"}, model.FoodTypeEgg, "piece", 1},
		{"it-chapati", "Chapati", 3000, []string{"Breads"}, []string{"wheat"}, model.FoodTypeVeg, "piece", 1},
		{"it-naan", "Butter Naan", 4500, []string{"Breads"}, []string{"butter"}, model.FoodTypeVeg, "piece", 1},
		{"it-tea", "Tea", 2000, []string{"Beverages"}, []string{"hot", "chai"}, model.FoodTypeVeg, "cup", 1},
		{"it-coffee", "Filter Coffee", 3000, []string{"Beverages"}, []string{"hot"}, model.FoodTypeVeg, "cup", 1},
		{"it-lassi", "Sweet Lassi", 6000, []string{"Beverages"}, []string{"cold", "yogurt"}, model.FoodTypeVeg, "glass", 1},
		{"it-gulab", "Gulab Jamun", 6000, []string{"Desserts"}, []string{"sweet"}, model.FoodTypeVeg, "pieces", 2},
	}

	const q = `
INSERT INTO menu_items (id, name, price, categories, tags, food_type, unit, unit_quantity, image_url, available)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'',TRUE);
`
	for _, s := range seed {
		if _, err := pool.Exec(ctx, q, s.ID, s.Name, s.Price, s.Categories, s.Tags, string(s.FoodType), s.Unit, s.UnitQty); err != nil {
			log.Fatalf("seed %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (%s)\n", s.Name, s.ID)
	}

	fmt.Println("✅ Seeding complete.")
}
