package adapter

import "context"

// Button is one tappable reply option. At most 3 per message.
type Button struct {
	ID    string
	Title string
}

// Row is one entry in a list message. At most 10 per section.
type Row struct {
	ID          string
	Title       string
	Description string
}

// Section groups list rows under a title.
type Section struct {
	Title string
	Rows  []Row
}

// Messenger is the outbound gateway port. The dialogue core only decides what
// to say; implementations own platform payloads and delivery.
type Messenger interface {
	SendMessage(ctx context.Context, phone, text string) error
	SendButtons(ctx context.Context, phone, text string, buttons []Button, footer string) error
	SendList(ctx context.Context, phone, title, description, buttonLabel string, sections []Section, footer string) error
	SendImageWithButtons(ctx context.Context, phone, imageURL, text string, buttons []Button) error
	SendLocationRequest(ctx context.Context, phone, text string) error
	SendCtaURL(ctx context.Context, phone, text, buttonLabel, url, footer string) error
}
