// Package dialogue owns the per-customer conversation state machine.
// Dispatch is an explicit ordered list of (match, handle) routes evaluated
// top to bottom, first match wins, so priority invariants like
// clear-cart-before-view-cart live in data rather than control flow.
package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
	"restaurant-order-bot/internal/domain/ports/repository"
	"restaurant-order-bot/internal/infra/metrics"
	"restaurant-order-bot/internal/intent"
	"restaurant-order-bot/internal/search"
	"restaurant-order-bot/internal/usecase"
)

// Config carries restaurant-level presentation settings.
type Config struct {
	RestaurantName string
	Currency       string // display symbol, e.g. "₹"
	ServiceType    model.ServiceType
}

// Controller interprets one inbound event per turn, mutates conversation
// state and produces response descriptors. It never raises recoverable
// domain conditions to the caller; those terminate in a reply.
type Controller struct {
	cfg       Config
	customers *usecase.CustomerUseCase
	cart      *usecase.CartUseCase
	checkout  *usecase.CheckoutUseCase
	catalog   repository.CatalogRepository
	search    *search.Engine
	cls       *intent.Classifier
	geo       adapter.Geocoder
	orders    adapter.OrderService
	log       *zerolog.Logger
	routes    []route
}

func NewController(
	cfg Config,
	customers *usecase.CustomerUseCase,
	cart *usecase.CartUseCase,
	checkout *usecase.CheckoutUseCase,
	catalog repository.CatalogRepository,
	eng *search.Engine,
	cls *intent.Classifier,
	geo adapter.Geocoder,
	orders adapter.OrderService,
	log *zerolog.Logger,
) *Controller {
	if cfg.Currency == "" {
		cfg.Currency = "₹"
	}
	if cfg.ServiceType == "" {
		cfg.ServiceType = model.ServiceDelivery
	}
	c := &Controller{
		cfg:       cfg,
		customers: customers,
		cart:      cart,
		checkout:  checkout,
		catalog:   catalog,
		search:    eng,
		cls:       cls,
		geo:       geo,
		orders:    orders,
		log:       log,
	}
	c.routes = c.buildRoutes()
	return c
}

// turn bundles everything one dispatch needs. The catalog snapshot is
// read-only for the duration of the turn.
type turn struct {
	in      model.Inbound
	cust    *model.Customer
	catalog model.Catalog
	sel     string // dispatch key: tapped id, else trimmed text
	text    string // free text only
}

type route struct {
	name   string
	match  func(t *turn) bool
	handle func(ctx context.Context, t *turn) ([]Reply, error)
}

// Handle processes one inbound event to completion. The returned customer
// carries the mutated state for the caller to persist; replies are the
// planned outbound responses.
func (c *Controller) Handle(ctx context.Context, in model.Inbound) (*model.Customer, []Reply, error) {
	cust, err := c.customers.GetOrCreate(ctx, in.Phone, in.SenderName)
	if err != nil {
		return nil, nil, fmt.Errorf("load customer: %w", err)
	}

	items, err := c.catalog.ListAvailableItems(ctx)
	if err != nil {
		return cust, nil, fmt.Errorf("load catalog: %w", err)
	}
	paused, err := c.catalog.ListPausedCategories(ctx)
	if err != nil {
		return cust, nil, fmt.Errorf("load paused categories: %w", err)
	}

	t := &turn{
		in:      in,
		cust:    cust,
		catalog: model.BuildSnapshot(items, paused),
		sel:     strings.TrimSpace(strings.ToLower(in.Selection())),
		text:    strings.TrimSpace(in.Text),
	}

	for _, r := range c.routes {
		if !r.match(t) {
			continue
		}
		metrics.IncIntentHit(r.name)
		c.log.Debug().Str("route", r.name).Str("step", string(cust.State.Step)).Msg("dispatch")
		replies, err := r.handle(ctx, t)
		return cust, replies, err
	}
	// buildRoutes ends with a catch-all, so this is unreachable.
	return cust, c.fallbackMenu(), nil
}

// buildRoutes assembles the priority-ordered dispatch table. Ordering here is
// load-bearing: clear-cart is evaluated before view-cart because clear
// phrases contain the word "cart", and cancel/refund/track run before the
// generic order-status route.
func (c *Controller) buildRoutes() []route {
	return []route{
		{"location", func(t *turn) bool { return t.in.Type == model.MessageLocation && t.in.Location != nil }, c.handleLocation},

		{"global_home", func(t *turn) bool {
			return t.sel == "home" || t.sel == "hi" || t.sel == "menu" || c.cls.IsGreeting(t.sel) || c.cls.IsMainMenu(t.sel)
		}, c.handleWelcome},
		{"global_back", func(t *turn) bool { return t.sel == "back" || c.cls.IsBack(t.sel) }, c.handleBack},

		{"clear_cart", func(t *turn) bool { return t.sel == "clear_cart" || c.cls.IsClearCart(t.sel) }, c.handleClearCart},
		{"view_cart", func(t *turn) bool { return t.sel == "view_cart" || c.cls.IsViewCart(t.sel) }, c.handleViewCart},

		{"view_menu", eq("view_menu"), c.handleCategoryListStart},
		{"select_food_type", eq("select_food_type"), c.handleFoodTypePrompt},
		{"order_now", eq("order_now"), c.handleFoodTypeOrderPrompt},
		{"food_type", prefix("food_"), c.handleFoodTypeChoice},
		{"order_food_type", prefix("order_food_"), c.handleFoodTypeOrderChoice},
		{"cat_page", prefix("cat_page_"), c.handleCategoryPage},
		{"order_cat", prefix("order_cat_"), c.handleOrderCategoryChoice},
		{"cat", prefix("cat_"), c.handleCategoryChoice},
		{"item_page", prefix("item_page_"), c.handleItemPage},
		{"confirm_add", prefix("confirm_add_"), c.handleAddSelection},
		{"add", prefix("add_"), c.handleAddSelection},
		{"qty", prefix("qty_"), c.handleQuantity},
		{"view_item", prefix("view_"), c.handleItemDetails},
		{"review_pay", func(t *turn) bool { return t.sel == "review_pay" || t.sel == "checkout" }, c.handleCheckout},
		{"pay_method", func(t *turn) bool { return t.sel == model.PayUPI || t.sel == model.PayCOD || t.sel == "pay_upi" || t.sel == "pay_cod" }, c.handlePayMethod},
		{"cancel_order", prefix("cancel_ord_"), c.handleCancelOrder},
		{"refund_order", prefix("refund_ord_"), c.handleRefundOrder},
		{"track_order", prefix("track_ord_"), c.handleTrackOrder},
		{"help_button", eq("help"), c.handleHelp},
		{"order_status_button", eq("order_status"), c.handleOrderStatus},
		{"track_prompt_button", eq("track_order_prompt"), c.handleTrackPrompt},

		{"intent_checkout", func(t *turn) bool { return c.cls.IsCheckout(t.text) }, c.handleCheckout},
		{"intent_cancel", func(t *turn) bool { return c.cls.IsCancel(t.text) }, c.handleCancelPrompt},
		{"intent_refund", func(t *turn) bool { return c.cls.IsRefund(t.text) }, c.handleRefundPrompt},
		{"intent_track", func(t *turn) bool { return c.cls.IsTrack(t.text) }, c.handleTrackPrompt},
		{"intent_order_status", func(t *turn) bool { return c.cls.IsOrderStatus(t.text) }, c.handleOrderStatus},
		{"intent_help", func(t *turn) bool { return c.cls.IsHelp(t.text) }, c.handleHelp},

		{"numeric_index", func(t *turn) bool {
			return isDigits(t.sel) && (t.cust.State.IsBrowsing() || t.cust.State.Step == model.StepSelectQuantity)
		}, c.handleNumericInput},

		{"free_text", func(t *turn) bool { return true }, c.handleFreeText},
	}
}

func eq(id string) func(*turn) bool {
	return func(t *turn) bool { return t.sel == id }
}

func prefix(p string) func(*turn) bool {
	return func(t *turn) bool { return strings.HasPrefix(t.sel, p) }
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func (c *Controller) price(p int64) string {
	return fmt.Sprintf("%s%.2f", c.cfg.Currency, float64(p)/100)
}

// fallbackMenu is the bounded "didn't understand" response: always the same
// three actionable choices, never raw error text.
func (c *Controller) fallbackMenu() []Reply {
	return []Reply{buttonsReply(
		"Sorry, I didn't get that. You can browse the menu, check your cart, or ask for help.",
		[]adapter.Button{
			{ID: "home", Title: "🏠 Home"},
			{ID: "view_cart", Title: "🛒 View Cart"},
			{ID: "help", Title: "💬 Help"},
		}, "")}
}
