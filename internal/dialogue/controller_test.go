package dialogue

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/intent"
	"restaurant-order-bot/internal/lexicon"
	"restaurant-order-bot/internal/search"
	"restaurant-order-bot/internal/translate"
	"restaurant-order-bot/internal/usecase"
)

type testEnv struct {
	ctrl    *Controller
	repo    *memCustomerRepo
	catalog *memCatalogRepo
	orders  *fakeOrderSvc
}

func menuFixture() []model.MenuItem {
	return []model.MenuItem{
		{ID: "vb", Name: "Veg Biryani", Price: 15000, Categories: []string{"Biryani"}, FoodType: model.FoodTypeVeg, Unit: "plate", UnitQuantity: 1, Available: true},
		{ID: "cb", Name: "Chicken Biryani", Price: 22000, Categories: []string{"Biryani"}, FoodType: model.FoodTypeNonVeg, Unit: "plate", UnitQuantity: 1, Available: true},
		{ID: "pt", Name: "Paneer Tikka", Price: 18000, Categories: []string{"Starters"}, Tags: []string{"starter", "tikka"}, FoodType: model.FoodTypeVeg, Unit: "plate", UnitQuantity: 1, Available: true},
		{ID: "te", Name: "Tea", Price: 2000, Categories: []string{"Beverages"}, FoodType: model.FoodTypeVeg, Unit: "cup", UnitQuantity: 1, Available: true},
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	lex := lexicon.MustLoad()
	log := zerolog.Nop()
	cls := intent.NewClassifier(lex)
	pipeline := translate.NewPipeline(nil, lex, &log)
	eng := search.NewEngine(pipeline, cls, lex, &log)

	repo := newMemCustomerRepo()
	catalog := &memCatalogRepo{items: menuFixture()}
	orders := &fakeOrderSvc{}

	customerUC := usecase.NewCustomerUseCase(repo, nil)
	cartUC := usecase.NewCartUseCase(repo)
	checkoutUC := usecase.NewCheckoutUseCase(repo, orders)

	ctrl := NewController(
		Config{RestaurantName: "Test Kitchen", Currency: "₹", ServiceType: model.ServiceDelivery},
		customerUC, cartUC, checkoutUC, catalog, eng, cls, stubGeocoder{address: "12 Test Street"}, orders, &log,
	)
	return &testEnv{ctrl: ctrl, repo: repo, catalog: catalog, orders: orders}
}

func (e *testEnv) handle(t *testing.T, in model.Inbound) (*model.Customer, []Reply) {
	t.Helper()
	if in.Type == "" {
		in.Type = model.MessageText
	}
	cust, replies, err := e.ctrl.Handle(context.Background(), in)
	if err != nil {
		t.Fatalf("Handle(%+v): %v", in, err)
	}
	if len(replies) == 0 {
		t.Fatalf("Handle(%+v) produced no replies", in)
	}
	// The turn processor persists the mutated customer after every turn.
	if err := e.repo.Save(context.Background(), cust); err != nil {
		t.Fatalf("persist customer: %v", err)
	}
	return cust, replies
}

func (e *testEnv) tap(t *testing.T, phone, id string) (*model.Customer, []Reply) {
	t.Helper()
	return e.handle(t, model.Inbound{Phone: phone, SelectedID: id})
}

func (e *testEnv) say(t *testing.T, phone, text string) (*model.Customer, []Reply) {
	t.Helper()
	return e.handle(t, model.Inbound{Phone: phone, Text: text})
}

func TestWelcomeFlow(t *testing.T) {
	env := newTestEnv(t)

	t.Run("greeting creates the customer and shows the main menu", func(t *testing.T) {
		cust, replies := env.say(t, "100", "hi")
		if cust.State.Step != model.StepMainMenu {
			t.Fatalf("step = %s, want main_menu", cust.State.Step)
		}
		if replies[0].Kind != ReplyList {
			t.Fatalf("kind = %d, want list", replies[0].Kind)
		}
		if !hasID(rowIDs(replies[0]), "view_menu") {
			t.Fatal("main menu missing the browse entry")
		}
		if _, err := env.repo.FindByPhone(context.Background(), "100"); err != nil {
			t.Fatalf("customer not created: %v", err)
		}
	})

	t.Run("native script greeting", func(t *testing.T) {
		cust, _ := env.say(t, "101", "नमस्ते")
		if cust.State.Step != model.StepMainMenu {
			t.Fatalf("step = %s, want main_menu", cust.State.Step)
		}
	})

	t.Run("home resets mid-flow state", func(t *testing.T) {
		env.tap(t, "100", "view_menu")
		cust, _ := env.tap(t, "100", "home")
		if cust.State.Step != model.StepMainMenu || cust.State.SelectedCategory != "" {
			t.Fatalf("state not reset: %+v", cust.State)
		}
	})
}

func TestBrowseFlow(t *testing.T) {
	env := newTestEnv(t)
	env.say(t, "200", "hi")

	t.Run("view menu lists categories", func(t *testing.T) {
		cust, replies := env.tap(t, "200", "view_menu")
		if cust.State.Step != model.StepSelectCategory {
			t.Fatalf("step = %s, want select_category", cust.State.Step)
		}
		ids := rowIDs(replies[0])
		for _, want := range []string{"cat_biryani", "cat_starters", "cat_beverages", "cat_all"} {
			if !hasID(ids, want) {
				t.Fatalf("rows %v missing %s", ids, want)
			}
		}
	})

	t.Run("picking a category lists its items", func(t *testing.T) {
		cust, replies := env.tap(t, "200", "cat_biryani")
		if cust.State.Step != model.StepViewingItems {
			t.Fatalf("step = %s, want viewing_items", cust.State.Step)
		}
		ids := rowIDs(replies[0])
		if !hasID(ids, "view_vb") || !hasID(ids, "view_cb") {
			t.Fatalf("rows %v missing biryani items", ids)
		}
		if hasID(ids, "view_te") {
			t.Fatal("beverage leaked into the biryani category")
		}
	})

	t.Run("item details show price and add button", func(t *testing.T) {
		cust, replies := env.tap(t, "200", "view_vb")
		if cust.State.Step != model.StepViewingItemDetails {
			t.Fatalf("step = %s, want viewing_item_details", cust.State.Step)
		}
		if !strings.Contains(replies[0].Text, "Veg Biryani") || !strings.Contains(replies[0].Text, "₹150.00") {
			t.Fatalf("details text %q missing name or price", replies[0].Text)
		}
		if !hasID(buttonIDs(replies[0]), "add_vb") {
			t.Fatal("details missing the add button")
		}
	})

	t.Run("stale item id prompts reselection", func(t *testing.T) {
		cust, replies := env.tap(t, "200", "view_ghost")
		if cust.State.Step != model.StepBrowsingMenu {
			t.Fatalf("step = %s, want browsing_menu", cust.State.Step)
		}
		if !hasID(buttonIDs(replies[0]), "view_menu") {
			t.Fatal("recovery reply missing the menu button")
		}
	})

	t.Run("food type filter", func(t *testing.T) {
		env.tap(t, "200", "select_food_type")
		cust, replies := env.tap(t, "200", "food_veg")
		if cust.State.FoodTypePreference != model.FoodTypeVeg {
			t.Fatalf("preference = %s, want veg", cust.State.FoodTypePreference)
		}
		if hasID(rowIDs(replies[0]), "view_cb") {
			t.Fatal("non-veg item shown under the veg filter")
		}
	})

	t.Run("paused category disappears", func(t *testing.T) {
		env.catalog.paused = []string{"Biryani"}
		defer func() { env.catalog.paused = nil }()
		_, replies := env.tap(t, "200", "home")
		_, replies = env.tap(t, "200", "view_menu")
		if hasID(rowIDs(replies[0]), "cat_biryani") {
			t.Fatal("paused category still listed")
		}
	})
}

func TestCartFlow(t *testing.T) {
	env := newTestEnv(t)
	env.say(t, "300", "hi")

	t.Run("add then quantity", func(t *testing.T) {
		cust, replies := env.tap(t, "300", "add_vb")
		if cust.State.Step != model.StepSelectQuantity {
			t.Fatalf("step = %s, want select_quantity", cust.State.Step)
		}
		if !hasID(buttonIDs(replies[0]), "qty_2") {
			t.Fatal("quantity prompt missing preset buttons")
		}

		cust, replies = env.tap(t, "300", "qty_2")
		if cust.State.Step != model.StepItemAdded {
			t.Fatalf("step = %s, want item_added", cust.State.Step)
		}
		if len(cust.Cart.Lines) != 1 || cust.Cart.Lines[0].Quantity != 2 {
			t.Fatalf("cart = %+v, want one line of two", cust.Cart.Lines)
		}
	})

	t.Run("typed number works as quantity", func(t *testing.T) {
		env.tap(t, "300", "add_pt")
		cust, _ := env.say(t, "300", "4")
		if got := cust.Cart.Lines; len(got) != 2 || got[1].Quantity != 4 {
			t.Fatalf("cart = %+v, want paneer tikka times four", got)
		}
	})

	t.Run("view cart totals the lines", func(t *testing.T) {
		cust, replies := env.tap(t, "300", "view_cart")
		if cust.State.Step != model.StepViewingCart {
			t.Fatalf("step = %s, want viewing_cart", cust.State.Step)
		}
		// 2 x 150.00 + 4 x 180.00
		if !strings.Contains(replies[0].Text, "₹1020.00") {
			t.Fatalf("cart text %q missing total", replies[0].Text)
		}
	})

	t.Run("clear cart wins over view cart phrasing", func(t *testing.T) {
		cust, replies := env.say(t, "300", "clear my cart")
		if !cust.Cart.IsEmpty() {
			t.Fatalf("cart = %+v, want empty", cust.Cart.Lines)
		}
		if !strings.Contains(replies[0].Text, "empty") {
			t.Fatalf("unexpected reply %q", replies[0].Text)
		}
	})

	t.Run("empty cart view offers the menu", func(t *testing.T) {
		_, replies := env.tap(t, "300", "view_cart")
		if !hasID(buttonIDs(replies[0]), "view_menu") {
			t.Fatal("empty cart reply missing the menu button")
		}
	})
}

func TestCheckoutFlow(t *testing.T) {
	t.Run("empty cart is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.say(t, "400", "hi")
		_, replies := env.tap(t, "400", "review_pay")
		if !strings.Contains(replies[0].Text, "empty") {
			t.Fatalf("unexpected reply %q", replies[0].Text)
		}
	})

	t.Run("delivery without address asks for location", func(t *testing.T) {
		env := newTestEnv(t)
		env.say(t, "401", "hi")
		env.tap(t, "401", "add_vb")
		env.tap(t, "401", "qty_1")
		cust, replies := env.tap(t, "401", "review_pay")
		if cust.State.Step != model.StepAwaitingLocation {
			t.Fatalf("step = %s, want awaiting_location", cust.State.Step)
		}
		if replies[0].Kind != ReplyLocationRequest {
			t.Fatalf("kind = %d, want location request", replies[0].Kind)
		}
	})

	t.Run("shared location reverse-geocodes and moves to payment", func(t *testing.T) {
		env := newTestEnv(t)
		env.say(t, "402", "hi")
		env.tap(t, "402", "add_vb")
		env.tap(t, "402", "qty_1")
		env.tap(t, "402", "review_pay")

		cust, replies := env.handle(t, model.Inbound{
			Phone: "402", Type: model.MessageLocation,
			Location: &model.Location{Latitude: 17.4, Longitude: 78.5},
		})
		if cust.DeliveryAddress != "12 Test Street" {
			t.Fatalf("address = %q, want the geocoded street", cust.DeliveryAddress)
		}
		if cust.State.Step != model.StepSelectPayment {
			t.Fatalf("step = %s, want select_payment_method", cust.State.Step)
		}
		if !hasID(buttonIDs(replies[0]), "pay_upi") || !hasID(buttonIDs(replies[0]), "pay_cod") {
			t.Fatal("payment prompt missing methods")
		}
	})

	t.Run("cash on delivery confirms and clears the cart", func(t *testing.T) {
		env := newTestEnv(t)
		env.say(t, "403", "hi")
		env.tap(t, "403", "add_vb")
		env.tap(t, "403", "qty_1")
		env.tap(t, "403", "review_pay")
		env.handle(t, model.Inbound{Phone: "403", Type: model.MessageLocation, Location: &model.Location{Latitude: 1, Longitude: 1}})

		cust, replies := env.tap(t, "403", "pay_cod")
		if cust.State.Step != model.StepOrderConfirmed {
			t.Fatalf("step = %s, want order_confirmed", cust.State.Step)
		}
		if !cust.Cart.IsEmpty() {
			t.Fatal("cart not cleared after checkout")
		}
		if env.orders.lastMethod != model.PayCOD {
			t.Fatalf("method = %q, want cod", env.orders.lastMethod)
		}
		if !strings.Contains(replies[0].Text, "#ord1") {
			t.Fatalf("confirmation %q missing order id", replies[0].Text)
		}
	})

	t.Run("upi returns a payment link", func(t *testing.T) {
		env := newTestEnv(t)
		env.say(t, "404", "hi")
		env.tap(t, "404", "add_cb")
		env.tap(t, "404", "qty_1")
		env.tap(t, "404", "review_pay")
		env.handle(t, model.Inbound{Phone: "404", Type: model.MessageLocation, Location: &model.Location{Latitude: 1, Longitude: 1}})

		cust, replies := env.tap(t, "404", "pay_upi")
		if cust.State.Step != model.StepAwaitingPayment {
			t.Fatalf("step = %s, want awaiting_payment", cust.State.Step)
		}
		if replies[0].Kind != ReplyCtaURL || !strings.HasPrefix(replies[0].URL, "upi://pay") {
			t.Fatalf("reply = %+v, want a upi deep link", replies[0])
		}
	})
}

func TestFreeTextSearch(t *testing.T) {
	env := newTestEnv(t)
	env.say(t, "500", "hi")

	t.Run("exact dish name opens details", func(t *testing.T) {
		cust, replies := env.say(t, "500", "veg biryani")
		if cust.State.Step != model.StepViewingItemDetails {
			t.Fatalf("step = %s, want viewing_item_details", cust.State.Step)
		}
		if !strings.Contains(replies[0].Text, "Veg Biryani") {
			t.Fatalf("details %q missing item name", replies[0].Text)
		}
	})

	t.Run("broader query lists results", func(t *testing.T) {
		cust, replies := env.say(t, "500", "biryani")
		if cust.State.Step != model.StepViewingTagResults {
			t.Fatalf("step = %s, want viewing_tag_results", cust.State.Step)
		}
		ids := rowIDs(replies[0])
		if !hasID(ids, "view_vb") || !hasID(ids, "view_cb") {
			t.Fatalf("rows %v missing biryani items", ids)
		}
	})

	t.Run("category name in free text opens the category", func(t *testing.T) {
		cust, _ := env.say(t, "500", "beverages")
		if cust.State.Step != model.StepViewingItems && cust.State.Step != model.StepViewingTagResults {
			t.Fatalf("step = %s, want an item listing", cust.State.Step)
		}
	})

	t.Run("gibberish falls back to the bounded menu", func(t *testing.T) {
		_, replies := env.say(t, "500", "xyzzy qwerty")
		ids := buttonIDs(replies[0])
		if !hasID(ids, "home") || !hasID(ids, "view_cart") || !hasID(ids, "help") {
			t.Fatalf("fallback buttons = %v, want home/cart/help", ids)
		}
	})
}

func TestOrderManagementFlow(t *testing.T) {
	recent := []model.Order{
		{ID: "o1", Phone: "600", Total: 30000, Status: model.OrderConfirmed, CreatedAt: time.Now()},
		{ID: "o2", Phone: "600", Total: 12000, Status: model.OrderDelivered, CreatedAt: time.Now().Add(-24 * time.Hour)},
	}

	t.Run("cancel pick list then cancel", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.recent = recent
		env.say(t, "600", "hi")

		cust, replies := env.say(t, "600", "cancel my order")
		if cust.State.Step != model.StepSelectCancel {
			t.Fatalf("step = %s, want select_cancel", cust.State.Step)
		}
		if !hasID(rowIDs(replies[0]), "cancel_ord_o1") {
			t.Fatal("pick list missing the recent order")
		}

		_, replies = env.tap(t, "600", "cancel_ord_o1")
		if len(env.orders.cancelled) != 1 || env.orders.cancelled[0] != "o1" {
			t.Fatalf("cancelled = %v, want [o1]", env.orders.cancelled)
		}
		if !strings.Contains(replies[0].Text, "cancelled") {
			t.Fatalf("unexpected reply %q", replies[0].Text)
		}
	})

	t.Run("cancel failure degrades politely", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.recent = recent
		env.orders.cancelErr = errors.New("already out for delivery")
		env.say(t, "600", "hi")

		_, replies := env.tap(t, "600", "cancel_ord_o1")
		if !strings.Contains(replies[0].Text, "couldn't cancel") {
			t.Fatalf("unexpected reply %q", replies[0].Text)
		}
	})

	t.Run("refund flow", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.recent = recent
		env.say(t, "600", "hi")

		cust, _ := env.say(t, "600", "i want my money back")
		if cust.State.Step != model.StepSelectRefund {
			t.Fatalf("step = %s, want select_refund", cust.State.Step)
		}
		env.tap(t, "600", "refund_ord_o2")
		if len(env.orders.refunded) != 1 || env.orders.refunded[0] != "o2" {
			t.Fatalf("refunded = %v, want [o2]", env.orders.refunded)
		}
	})

	t.Run("track reports status", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.recent = recent
		env.say(t, "600", "hi")

		cust, _ := env.say(t, "600", "where is my order")
		if cust.State.Step != model.StepSelectTrack {
			t.Fatalf("step = %s, want select_track", cust.State.Step)
		}
		_, replies := env.tap(t, "600", "track_ord_o1")
		if !strings.Contains(replies[0].Text, "confirmed") {
			t.Fatalf("track reply %q missing status", replies[0].Text)
		}
	})

	t.Run("order status lists recent, yielding to track phrasing", func(t *testing.T) {
		env := newTestEnv(t)
		env.orders.recent = recent
		env.say(t, "600", "hi")

		cust, replies := env.say(t, "600", "my orders")
		if cust.State.Step != model.StepMainMenu {
			t.Fatalf("step = %s, want main_menu", cust.State.Step)
		}
		if !hasID(rowIDs(replies[0]), "track_ord_o1") {
			t.Fatal("status list rows should link to tracking")
		}
	})

	t.Run("no recent orders", func(t *testing.T) {
		env := newTestEnv(t)
		env.say(t, "601", "hi")
		_, replies := env.say(t, "601", "cancel my order")
		if !strings.Contains(replies[0].Text, "recent orders") {
			t.Fatalf("unexpected reply %q", replies[0].Text)
		}
	})
}

func TestNumericIndexSelection(t *testing.T) {
	env := newTestEnv(t)
	env.say(t, "700", "hi")
	env.tap(t, "700", "view_menu")

	t.Run("digit picks the nth category", func(t *testing.T) {
		cust, _ := env.say(t, "700", "1")
		if cust.State.Step != model.StepViewingItems {
			t.Fatalf("step = %s, want viewing_items", cust.State.Step)
		}
	})

	t.Run("digit picks the nth item", func(t *testing.T) {
		cust, _ := env.say(t, "700", "1")
		if cust.State.Step != model.StepViewingItemDetails {
			t.Fatalf("step = %s, want viewing_item_details", cust.State.Step)
		}
	})

	t.Run("out of range falls back", func(t *testing.T) {
		_, replies := env.say(t, "700", "99")
		if !hasID(buttonIDs(replies[0]), "home") {
			t.Fatal("out-of-range index should fall back to the bounded menu")
		}
	})
}

func TestStaleCategoryPageTokenClamps(t *testing.T) {
	env := newTestEnv(t)
	env.say(t, "750", "hi")
	env.tap(t, "750", "view_menu")

	// A page token minted before the catalog shrank must land on a real page.
	cust, replies := env.tap(t, "750", "cat_page_7")
	if cust.State.CategoryPage != 0 {
		t.Fatalf("category page = %d, want clamped to 0", cust.State.CategoryPage)
	}
	if replies[0].Kind != ReplyList {
		t.Fatalf("kind = %v, want the category list", replies[0].Kind)
	}

	cust, _ = env.say(t, "750", "1")
	if cust.State.Step != model.StepViewingItems {
		t.Fatalf("step = %s, want viewing_items after picking a listed category", cust.State.Step)
	}
}

func TestCatalogFailurePropagates(t *testing.T) {
	env := newTestEnv(t)
	env.say(t, "800", "hi")
	env.catalog.err = errors.New("db down")

	_, _, err := env.ctrl.Handle(context.Background(), model.Inbound{Phone: "800", Text: "hi", Type: model.MessageText})
	if err == nil {
		t.Fatal("catalog failure should surface to the caller")
	}
}
