package dialogue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"restaurant-order-bot/internal/domain"
	"restaurant-order-bot/internal/domain/model"
	"restaurant-order-bot/internal/domain/ports/adapter"
)

func (c *Controller) handleClearCart(ctx context.Context, t *turn) ([]Reply, error) {
	if err := c.cart.Clear(ctx, t.cust); err != nil {
		return nil, err
	}
	t.cust.State.Step = model.StepMainMenu
	return []Reply{buttonsReply("🗑 Done! Your cart is empty now.", []adapter.Button{
		{ID: "view_menu", Title: "📖 Browse Menu"},
		{ID: "home", Title: "🏠 Home"},
	}, "")}, nil
}

func (c *Controller) handleViewCart(ctx context.Context, t *turn) ([]Reply, error) {
	st := &t.cust.State
	if t.cust.Cart.IsEmpty() {
		st.Step = model.StepMainMenu
		return []Reply{buttonsReply("🛒 Your cart is empty. Let's fix that!", []adapter.Button{
			{ID: "view_menu", Title: "📖 Browse Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	st.Step = model.StepViewingCart

	var b strings.Builder
	b.WriteString("🛒 *Your Cart*\n\n")
	for _, line := range t.cust.Cart.Lines {
		item, ok := t.catalog.ItemByID(line.ItemID)
		if !ok {
			b.WriteString(fmt.Sprintf("• (unavailable item) ×%d\n", line.Quantity))
			continue
		}
		b.WriteString(fmt.Sprintf("• %s ×%d — %s\n", item.Name, line.Quantity, c.price(item.Price*int64(line.Quantity))))
	}
	b.WriteString(fmt.Sprintf("\n💰 Total: %s", c.price(t.cust.Cart.Total(t.catalog))))

	return []Reply{buttonsReply(b.String(), []adapter.Button{
		{ID: "review_pay", Title: "✅ Checkout"},
		{ID: "clear_cart", Title: "🗑 Clear Cart"},
		{ID: "view_menu", Title: "➕ Add More"},
	}, "")}, nil
}

// handleAddSelection moves to quantity selection. The selected item id is
// persisted to storage right away: quantity confirmation arrives as a
// separate turn and the in-memory record may not survive a restart between
// the two.
func (c *Controller) handleAddSelection(ctx context.Context, t *turn) ([]Reply, error) {
	id := strings.TrimPrefix(strings.TrimPrefix(t.sel, "confirm_"), "add_")
	item, ok := t.catalog.ItemByID(id)
	if !ok {
		return c.itemUnavailable(t), nil
	}
	st := &t.cust.State
	st.Step = model.StepSelectQuantity
	st.SelectedItemID = item.ID
	if err := c.customers.Save(ctx, t.cust); err != nil {
		return nil, err
	}
	return []Reply{buttonsReply(
		fmt.Sprintf("How many *%s* would you like?", item.Name),
		[]adapter.Button{
			{ID: "qty_1", Title: "1"},
			{ID: "qty_2", Title: "2"},
			{ID: "qty_3", Title: "3"},
		}, "Or just type any number")}, nil
}

func (c *Controller) handleQuantity(ctx context.Context, t *turn) ([]Reply, error) {
	n, err := strconv.Atoi(strings.TrimPrefix(t.sel, "qty_"))
	if err != nil || n < 1 {
		return c.fallbackMenu(), nil
	}
	return c.addQuantity(ctx, t, n)
}

func (c *Controller) addQuantity(ctx context.Context, t *turn, qty int) ([]Reply, error) {
	id, ok := t.cust.State.ItemAwaitingQuantity()
	if !ok {
		return c.fallbackMenu(), nil
	}
	item, err := c.cart.AddItem(ctx, t.cust, t.catalog, id, qty)
	if errors.Is(err, domain.ErrItemUnavailable) {
		return c.itemUnavailable(t), nil
	}
	if err != nil {
		return nil, err
	}
	st := &t.cust.State
	st.Step = model.StepItemAdded
	st.SelectedItemID = ""
	return []Reply{buttonsReply(
		fmt.Sprintf("✅ Added %d × %s to your cart.", qty, item.Name),
		[]adapter.Button{
			{ID: "view_menu", Title: "➕ Add More"},
			{ID: "view_cart", Title: "🛒 View Cart"},
			{ID: "review_pay", Title: "✅ Checkout"},
		}, "")}, nil
}

// handleCheckout walks the checkout preconditions: an item still awaiting
// quantity is added implicitly as one, the cart must be non-empty, and for
// delivery a location must be captured before payment methods are offered.
func (c *Controller) handleCheckout(ctx context.Context, t *turn) ([]Reply, error) {
	st := &t.cust.State
	if id, ok := st.ItemAwaitingQuantity(); ok {
		if _, err := c.cart.AddItem(ctx, t.cust, t.catalog, id, 1); err != nil && !errors.Is(err, domain.ErrItemUnavailable) {
			return nil, err
		}
		st.SelectedItemID = ""
	}
	if t.cust.Cart.IsEmpty() {
		st.Step = model.StepMainMenu
		return []Reply{buttonsReply("🛒 Your cart is empty — add something first!", []adapter.Button{
			{ID: "view_menu", Title: "📖 Browse Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	if c.cfg.ServiceType == model.ServiceDelivery && t.cust.DeliveryAddress == "" {
		st.Step = model.StepAwaitingLocation
		return []Reply{locationRequestReply("📍 Share your delivery location so we know where to send the food.")}, nil
	}
	return c.paymentPrompt(t), nil
}

func (c *Controller) handleLocation(ctx context.Context, t *turn) ([]Reply, error) {
	loc := t.in.Location
	t.cust.Latitude = loc.Latitude
	t.cust.Longitude = loc.Longitude
	address := strings.TrimSpace(loc.Address)
	if address == "" {
		address = c.geo.ReverseGeocode(ctx, loc.Latitude, loc.Longitude)
	}
	t.cust.DeliveryAddress = address

	if t.cust.Cart.IsEmpty() {
		t.cust.State.Step = model.StepMainMenu
		return []Reply{buttonsReply("📍 Got it, delivery address saved!", []adapter.Button{
			{ID: "view_menu", Title: "📖 Browse Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	return c.paymentPrompt(t), nil
}

func (c *Controller) paymentPrompt(t *turn) []Reply {
	st := &t.cust.State
	st.Step = model.StepSelectPayment
	text := fmt.Sprintf("💰 Total: %s\n📍 Deliver to: %s\n\nHow would you like to pay?",
		c.price(t.cust.Cart.Total(t.catalog)), deliverTo(t.cust))
	return []Reply{buttonsReply(text, []adapter.Button{
		{ID: "pay_upi", Title: "📱 UPI"},
		{ID: "pay_cod", Title: "💵 Cash on Delivery"},
	}, "")}
}

func deliverTo(cust *model.Customer) string {
	if cust.DeliveryAddress == "" {
		return "we'll confirm on call"
	}
	return cust.DeliveryAddress
}

func (c *Controller) handlePayMethod(ctx context.Context, t *turn) ([]Reply, error) {
	method := model.PayCOD
	if t.sel == "pay_upi" || t.sel == model.PayUPI {
		method = model.PayUPI
	}
	st := &t.cust.State
	st.PaymentMethod = method

	order, err := c.checkout.PlaceOrder(ctx, t.cust, c.cfg.ServiceType, method)
	if errors.Is(err, domain.ErrEmptyCart) {
		st.Step = model.StepMainMenu
		return []Reply{buttonsReply("🛒 Your cart is empty — add something first!", []adapter.Button{
			{ID: "view_menu", Title: "📖 Browse Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	if err != nil {
		return nil, err
	}
	st.PendingOrderID = order.ID

	if method == model.PayUPI && order.PaymentURL != "" {
		st.Step = model.StepAwaitingPayment
		return []Reply{ctaURLReply(
			fmt.Sprintf("🧾 Order #%s placed!\n💰 Amount: %s\n\nComplete the payment to confirm your order.", order.ID, c.price(order.Total)),
			"Pay Now", order.PaymentURL, c.cfg.RestaurantName)}, nil
	}
	st.Step = model.StepOrderConfirmed
	return []Reply{buttonsReply(
		fmt.Sprintf("🎉 Order #%s confirmed!\n💰 %s — pay on delivery.\n📍 %s", order.ID, c.price(order.Total), deliverTo(t.cust)),
		[]adapter.Button{
			{ID: "track_ord_" + order.ID, Title: "🛵 Track"},
			{ID: "home", Title: "🏠 Home"},
		}, "Thank you for ordering!")}, nil
}

// --- cancel / refund / track ---

func (c *Controller) handleCancelPrompt(ctx context.Context, t *turn) ([]Reply, error) {
	return c.orderPickList(ctx, t, model.StepSelectCancel, "cancel_ord_", "Which order do you want to cancel?")
}

func (c *Controller) handleRefundPrompt(ctx context.Context, t *turn) ([]Reply, error) {
	return c.orderPickList(ctx, t, model.StepSelectRefund, "refund_ord_", "Which order is the refund for?")
}

func (c *Controller) handleTrackPrompt(ctx context.Context, t *turn) ([]Reply, error) {
	return c.orderPickList(ctx, t, model.StepSelectTrack, "track_ord_", "Which order do you want to track?")
}

func (c *Controller) orderPickList(ctx context.Context, t *turn, step model.Step, idPrefix, prompt string) ([]Reply, error) {
	orders, err := c.orders.ListRecentOrders(ctx, t.cust.Phone, 5)
	if err != nil {
		c.log.Warn().Err(err).Msg("list recent orders")
	}
	if len(orders) == 0 {
		t.cust.State.Step = model.StepMainMenu
		return []Reply{buttonsReply("You don't have any recent orders.", []adapter.Button{
			{ID: "view_menu", Title: "📖 Browse Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	t.cust.State.Step = step

	rows := make([]adapter.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, adapter.Row{
			ID:          idPrefix + o.ID,
			Title:       fmt.Sprintf("#%s · %s", o.ID, c.price(o.Total)),
			Description: fmt.Sprintf("%s · %s", o.Status, o.CreatedAt.Format("Jan 2, 3:04 PM")),
		})
	}
	sections := []adapter.Section{{Title: "Recent orders", Rows: rows}}
	return []Reply{listReply(prompt, "Pick one of your recent orders.", "Orders", sections, "")}, nil
}

func (c *Controller) handleCancelOrder(ctx context.Context, t *turn) ([]Reply, error) {
	id := strings.TrimPrefix(t.sel, "cancel_ord_")
	t.cust.State.Step = model.StepMainMenu
	if err := c.orders.CancelOrder(ctx, t.cust.Phone, id); err != nil {
		c.log.Warn().Err(err).Str("order_id", id).Msg("cancel order")
		return []Reply{buttonsReply(fmt.Sprintf("We couldn't cancel order #%s — it may already be on its way. Our team will reach out.", id), []adapter.Button{
			{ID: "home", Title: "🏠 Home"},
			{ID: "help", Title: "💬 Help"},
		}, "")}, nil
	}
	return []Reply{buttonsReply(fmt.Sprintf("✅ Order #%s cancelled. Any payment will be refunded automatically.", id), []adapter.Button{
		{ID: "view_menu", Title: "📖 Browse Menu"},
		{ID: "home", Title: "🏠 Home"},
	}, "")}, nil
}

func (c *Controller) handleRefundOrder(ctx context.Context, t *turn) ([]Reply, error) {
	id := strings.TrimPrefix(t.sel, "refund_ord_")
	t.cust.State.Step = model.StepMainMenu
	if err := c.orders.RequestRefund(ctx, t.cust.Phone, id); err != nil {
		c.log.Warn().Err(err).Str("order_id", id).Msg("request refund")
		return []Reply{buttonsReply(fmt.Sprintf("We couldn't start a refund for #%s automatically. Our team will reach out.", id), []adapter.Button{
			{ID: "home", Title: "🏠 Home"},
			{ID: "help", Title: "💬 Help"},
		}, "")}, nil
	}
	return []Reply{buttonsReply(fmt.Sprintf("💸 Refund request for order #%s received. You'll hear from us shortly.", id), []adapter.Button{
		{ID: "home", Title: "🏠 Home"},
	}, "")}, nil
}

func (c *Controller) handleTrackOrder(ctx context.Context, t *turn) ([]Reply, error) {
	id := strings.TrimPrefix(t.sel, "track_ord_")
	t.cust.State.Step = model.StepMainMenu
	order, err := c.orders.TrackOrder(ctx, t.cust.Phone, id)
	if err != nil {
		c.log.Warn().Err(err).Str("order_id", id).Msg("track order")
		return []Reply{buttonsReply(fmt.Sprintf("We couldn't find order #%s. Check your recent orders?", id), []adapter.Button{
			{ID: "order_status", Title: "📦 My Orders"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	return []Reply{buttonsReply(
		fmt.Sprintf("🛵 Order #%s is *%s*.\n💰 %s · placed %s", order.ID, order.Status, c.price(order.Total), order.CreatedAt.Format("Jan 2, 3:04 PM")),
		[]adapter.Button{
			{ID: "home", Title: "🏠 Home"},
			{ID: "help", Title: "💬 Help"},
		}, "")}, nil
}

func (c *Controller) handleOrderStatus(ctx context.Context, t *turn) ([]Reply, error) {
	orders, err := c.orders.ListRecentOrders(ctx, t.cust.Phone, 5)
	if err != nil {
		c.log.Warn().Err(err).Msg("list recent orders")
	}
	t.cust.State.Step = model.StepMainMenu
	if len(orders) == 0 {
		return []Reply{buttonsReply("You haven't placed any orders yet.", []adapter.Button{
			{ID: "view_menu", Title: "📖 Browse Menu"},
			{ID: "home", Title: "🏠 Home"},
		}, "")}, nil
	}
	rows := make([]adapter.Row, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, adapter.Row{
			ID:          "track_ord_" + o.ID,
			Title:       fmt.Sprintf("#%s · %s", o.ID, c.price(o.Total)),
			Description: fmt.Sprintf("%s · %s", o.Status, o.CreatedAt.Format("Jan 2, 3:04 PM")),
		})
	}
	sections := []adapter.Section{{Title: "Recent orders", Rows: rows}}
	return []Reply{listReply("📦 Your Orders", "Tap one to track it.", "Orders", sections, "")}, nil
}
