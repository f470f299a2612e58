package usecase

import (
	"context"
	"errors"
	"testing"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
)

func cartCatalog() model.Catalog {
	return model.BuildSnapshot([]model.MenuItem{
		{ID: "vb", Name: "Veg Biryani", Price: 15000, FoodType: model.FoodTypeVeg, Available: true},
		{ID: "te", Name: "Tea", Price: 2000, FoodType: model.FoodTypeVeg, Available: true},
	}, nil)
}

func TestAddItem(t *testing.T) {
	t.Run("adds and persists", func(t *testing.T) {
		repo := newMemCustomerRepo()
		uc := NewCartUseCase(repo)
		cust := model.NewCustomer("p1", "")
		repo.customers["p1"] = *cust

		item, err := uc.AddItem(context.Background(), cust, cartCatalog(), "vb", 2)
		if err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if item.Name != "Veg Biryani" {
			t.Fatalf("item = %+v", item)
		}
		stored, _ := repo.FindByPhone(context.Background(), "p1")
		if len(stored.Cart.Lines) != 1 || stored.Cart.Lines[0].Quantity != 2 {
			t.Fatalf("stored cart = %+v", stored.Cart.Lines)
		}
	})

	t.Run("unknown item is unavailable", func(t *testing.T) {
		repo := newMemCustomerRepo()
		uc := NewCartUseCase(repo)
		cust := model.NewCustomer("p1", "")

		if _, err := uc.AddItem(context.Background(), cust, cartCatalog(), "ghost", 1); !errors.Is(err, domain.ErrItemUnavailable) {
			t.Fatalf("err = %v, want ErrItemUnavailable", err)
		}
		if repo.saves != 0 {
			t.Fatal("nothing should be persisted for an unavailable item")
		}
	})

	t.Run("merges with the authoritative cart", func(t *testing.T) {
		repo := newMemCustomerRepo()
		uc := NewCartUseCase(repo)

		// A concurrent turn already stored one line.
		stored := model.NewCustomer("p1", "")
		stored.Cart.Add("te", 1)
		repo.customers["p1"] = *stored

		cust := model.NewCustomer("p1", "") // stale in-memory copy
		if _, err := uc.AddItem(context.Background(), cust, cartCatalog(), "vb", 1); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
		if len(cust.Cart.Lines) != 2 {
			t.Fatalf("cart = %+v, want the stored line preserved", cust.Cart.Lines)
		}
	})
}

func TestClear(t *testing.T) {
	repo := newMemCustomerRepo()
	uc := NewCartUseCase(repo)
	cust := model.NewCustomer("p1", "")
	cust.Cart.Add("vb", 2)
	repo.customers["p1"] = *cust

	if err := uc.Clear(context.Background(), cust); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if !cust.Cart.IsEmpty() {
		t.Fatalf("cart = %+v, want empty", cust.Cart.Lines)
	}
	stored, _ := repo.FindByPhone(context.Background(), "p1")
	if !stored.Cart.IsEmpty() {
		t.Fatal("cleared cart not persisted")
	}
}

func TestPlaceOrder(t *testing.T) {
	t.Run("creates the order and clears the cart", func(t *testing.T) {
		repo := newMemCustomerRepo()
		orders := &fakeOrderSvc{}
		uc := NewCheckoutUseCase(repo, orders)

		cust := model.NewCustomer("p1", "")
		cust.DeliveryAddress = "12 Test Street"
		cust.Cart.Add("vb", 2)
		repo.customers["p1"] = *cust

		order, err := uc.PlaceOrder(context.Background(), cust, model.ServiceDelivery, model.PayCOD)
		if err != nil {
			t.Fatalf("PlaceOrder: %v", err)
		}
		if order.ID != "ord1" {
			t.Fatalf("order = %+v", order)
		}
		if len(orders.lastLines) != 1 || orders.lastLines[0].ItemID != "vb" {
			t.Fatalf("lines = %+v", orders.lastLines)
		}
		if orders.created.Delivery.Address != "12 Test Street" {
			t.Fatalf("delivery = %+v", orders.created.Delivery)
		}
		if !cust.Cart.IsEmpty() {
			t.Fatal("cart not cleared after checkout")
		}
	})

	t.Run("empty cart is rejected", func(t *testing.T) {
		uc := NewCheckoutUseCase(newMemCustomerRepo(), &fakeOrderSvc{})
		cust := model.NewCustomer("p1", "")

		if _, err := uc.PlaceOrder(context.Background(), cust, model.ServiceDelivery, model.PayCOD); !errors.Is(err, domain.ErrEmptyCart) {
			t.Fatalf("err = %v, want ErrEmptyCart", err)
		}
	})

	t.Run("orchestrator failure keeps the cart", func(t *testing.T) {
		orders := &fakeOrderSvc{createErr: errors.New("orders down")}
		uc := NewCheckoutUseCase(newMemCustomerRepo(), orders)

		cust := model.NewCustomer("p1", "")
		cust.Cart.Add("vb", 1)
		if _, err := uc.PlaceOrder(context.Background(), cust, model.ServiceDelivery, model.PayUPI); err == nil {
			t.Fatal("expected an error")
		}
		if cust.Cart.IsEmpty() {
			t.Fatal("cart must survive a failed checkout")
		}
	})
}
