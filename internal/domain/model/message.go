package model

// MessageType of an inbound event.
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageLocation MessageType = "location"
)

// Location payload shared by the customer.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
}

// Inbound is one event consumed by the dialogue controller. SelectedID is set
// when the customer tapped a button or list row and takes precedence over the
// free text as the dispatch key.
type Inbound struct {
	Phone      string      `json:"phone"`
	Text       string      `json:"message"`
	Location   *Location   `json:"location,omitempty"`
	Type       MessageType `json:"message_type"`
	SelectedID string      `json:"selected_id,omitempty"`
	SenderName string      `json:"sender_name,omitempty"`
}

// Selection is the dispatch key for the turn: the tapped id when present,
// otherwise the trimmed free text.
func (in Inbound) Selection() string {
	if in.SelectedID != "" {
		return in.SelectedID
	}
	return in.Text
}
