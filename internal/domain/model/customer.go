package model

import "time"

// Step enumerates where a customer is in the conversation.
type Step string

const (
	StepWelcome             Step = "welcome"
	StepMainMenu            Step = "main_menu"
	StepSelectFoodType      Step = "select_food_type"
	StepSelectFoodTypeOrder Step = "select_food_type_order"
	StepSelectCategory      Step = "select_category"
	StepViewingItems        Step = "viewing_items"
	StepBrowsingMenu        Step = "browsing_menu"
	StepSelectingItem       Step = "selecting_item"
	StepViewingItemDetails  Step = "viewing_item_details"
	StepSelectQuantity      Step = "select_quantity"
	StepItemAdded           Step = "item_added"
	StepViewingCart         Step = "viewing_cart"
	StepAwaitingLocation    Step = "awaiting_location"
	StepSelectPayment       Step = "select_payment_method"
	StepAwaitingPayment     Step = "awaiting_payment"
	StepOrderConfirmed      Step = "order_confirmed"
	StepSelectCancel        Step = "select_cancel"
	StepSelectRefund        Step = "select_refund"
	StepSelectTrack         Step = "select_track"
	StepViewingTagResults   Step = "viewing_tag_results"
)

// browsingSteps are the steps where a bare numeric reply is read as a list index.
var browsingSteps = map[Step]struct{}{
	StepSelectCategory:      {},
	StepViewingItems:        {},
	StepBrowsingMenu:        {},
	StepSelectingItem:       {},
	StepViewingTagResults:   {},
	StepSelectFoodType:      {},
	StepSelectFoodTypeOrder: {},
}

// ConversationState tracks a customer's progress through the dialogue.
// Contextual fields are only meaningful for the steps that set them; the
// accessors below gate reads on the current step so stale values from earlier
// steps are never trusted.
type ConversationState struct {
	Step               Step      `json:"step"`
	SelectedCategory   string    `json:"selected_category,omitempty"`
	SelectedItemID     string    `json:"selected_item_id,omitempty"`
	FoodTypePreference FoodType  `json:"food_type_preference,omitempty"`
	PaymentMethod      string    `json:"payment_method,omitempty"`
	PendingOrderID     string    `json:"pending_order_id,omitempty"`
	SearchTag          string    `json:"search_tag,omitempty"`
	CategoryPage       int       `json:"category_page,omitempty"`
	CurrentPage        int       `json:"current_page,omitempty"`
	LastInteraction    time.Time `json:"last_interaction,omitempty"`
}

// NewConversationState returns the initial state for a first-contact customer.
func NewConversationState() ConversationState {
	return ConversationState{Step: StepWelcome}
}

// IsBrowsing reports whether the current step interprets bare digits as a
// menu or category index.
func (s ConversationState) IsBrowsing() bool {
	_, ok := browsingSteps[s.Step]
	return ok
}

// ItemAwaitingQuantity returns the pending item id, but only while quantity
// selection is actually in progress.
func (s ConversationState) ItemAwaitingQuantity() (string, bool) {
	if s.Step != StepSelectQuantity || s.SelectedItemID == "" {
		return "", false
	}
	return s.SelectedItemID, true
}

// CategoryInView returns the category being browsed, gated on a browsing step.
func (s ConversationState) CategoryInView() (string, bool) {
	if !s.IsBrowsing() || s.SelectedCategory == "" {
		return "", false
	}
	return s.SelectedCategory, true
}

// CartLine holds one item reference with its quantity. At most one line per
// menu item; repeated adds increment the quantity.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// Cart is the customer's in-progress order.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Add merges qty into an existing line for itemID or appends a new one.
func (c *Cart) Add(itemID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines[i].Quantity += qty
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ItemID: itemID, Quantity: qty})
}

// Remove drops the line for itemID, if present.
func (c *Cart) Remove(itemID string) {
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() { c.Lines = nil }

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// Total prices the cart against the given catalog snapshot. Lines whose item
// no longer resolves are skipped.
func (c *Cart) Total(catalog Catalog) int64 {
	var total int64
	for _, l := range c.Lines {
		if it, ok := catalog.ItemByID(l.ItemID); ok {
			total += it.Price * int64(l.Quantity)
		}
	}
	return total
}

// Customer owns exactly one conversation state and one cart, keyed by phone.
type Customer struct {
	Phone           string            `json:"phone"`
	Name            string            `json:"name"`
	State           ConversationState `json:"state"`
	Cart            Cart              `json:"cart"`
	DeliveryAddress string            `json:"delivery_address"`
	Latitude        float64           `json:"latitude,omitempty"`
	Longitude       float64           `json:"longitude,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// NewCustomer creates a first-contact customer in the initial step.
func NewCustomer(phone, name string) *Customer {
	now := time.Now()
	return &Customer{
		Phone:     phone,
		Name:      name,
		State:     NewConversationState(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Touch records interaction time on both the customer and its state.
func (c *Customer) Touch() {
	now := time.Now()
	c.UpdatedAt = now
	c.State.LastInteraction = now
}
