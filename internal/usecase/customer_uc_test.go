package usecase

import (
	"context"
	"errors"
	"testing"

	"restaurant-order-bot/internal/domain/model"
)

func TestGetOrCreate(t *testing.T) {
	t.Run("creates a first-contact customer", func(t *testing.T) {
		repo := newMemCustomerRepo()
		uc := NewCustomerUseCase(repo, nil)

		c, err := uc.GetOrCreate(context.Background(), "p1", "Asha")
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		if c.Phone != "p1" || c.Name != "Asha" {
			t.Fatalf("got %+v", c)
		}
		if c.State.Step != model.StepWelcome {
			t.Fatalf("step = %s, want welcome", c.State.Step)
		}
		if _, err := repo.FindByPhone(context.Background(), "p1"); err != nil {
			t.Fatalf("new customer not persisted: %v", err)
		}
	})

	t.Run("returns the existing record", func(t *testing.T) {
		repo := newMemCustomerRepo()
		repo.customers["p1"] = model.Customer{Phone: "p1", Name: "Asha", State: model.ConversationState{Step: model.StepMainMenu}}
		uc := NewCustomerUseCase(repo, nil)

		c, err := uc.GetOrCreate(context.Background(), "p1", "")
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		if c.Name != "Asha" || c.State.Step != model.StepMainMenu {
			t.Fatalf("got %+v", c)
		}
	})

	t.Run("fills a missing name from the event", func(t *testing.T) {
		repo := newMemCustomerRepo()
		repo.customers["p1"] = model.Customer{Phone: "p1"}
		uc := NewCustomerUseCase(repo, nil)

		c, _ := uc.GetOrCreate(context.Background(), "p1", "Asha")
		if c.Name != "Asha" {
			t.Fatalf("name = %q, want Asha", c.Name)
		}
	})

	t.Run("warm cache overlays the stored state", func(t *testing.T) {
		repo := newMemCustomerRepo()
		repo.customers["p1"] = model.Customer{Phone: "p1", State: model.ConversationState{Step: model.StepMainMenu}}
		cache := newMemStateCache()
		cache.states["p1"] = model.ConversationState{Step: model.StepViewingCart}
		uc := NewCustomerUseCase(repo, cache)

		c, err := uc.GetOrCreate(context.Background(), "p1", "")
		if err != nil {
			t.Fatalf("GetOrCreate: %v", err)
		}
		if c.State.Step != model.StepViewingCart {
			t.Fatalf("step = %s, want the cached step", c.State.Step)
		}
	})

	t.Run("repository failure propagates", func(t *testing.T) {
		repo := newMemCustomerRepo()
		repo.findErr = errors.New("db down")
		uc := NewCustomerUseCase(repo, nil)

		if _, err := uc.GetOrCreate(context.Background(), "p1", ""); err == nil {
			t.Fatal("expected an error")
		}
	})
}

func TestCustomerSave(t *testing.T) {
	repo := newMemCustomerRepo()
	cache := newMemStateCache()
	uc := NewCustomerUseCase(repo, cache)

	c := model.NewCustomer("p1", "Asha")
	c.State.Step = model.StepViewingCart
	if err := uc.Save(context.Background(), c); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stored, err := repo.FindByPhone(context.Background(), "p1")
	if err != nil {
		t.Fatalf("customer not persisted: %v", err)
	}
	if stored.State.Step != model.StepViewingCart {
		t.Fatalf("stored step = %s, want viewing_cart", stored.State.Step)
	}
	if cached, err := cache.GetState(context.Background(), "p1"); err != nil || cached.Step != model.StepViewingCart {
		t.Fatalf("cache mirror stale: %+v, %v", cached, err)
	}
}
