package dialogue

import (
	"context"

	"restaurant-order-bot/internal/domain/ports/adapter"
)

// ReplyKind discriminates the abstract response descriptors.
type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyButtons
	ReplyList
	ReplyImageButtons
	ReplyLocationRequest
	ReplyCtaURL
)

// Reply is an abstract outbound response descriptor. The core only decides
// what should be said; the messaging gateway renders platform payloads.
type Reply struct {
	Kind        ReplyKind
	Text        string
	Footer      string
	Buttons     []adapter.Button
	Title       string
	Description string
	ButtonLabel string
	Sections    []adapter.Section
	ImageURL    string
	URL         string
}

func buttonsReply(text string, buttons []adapter.Button, footer string) Reply {
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}
	return Reply{Kind: ReplyButtons, Text: text, Buttons: buttons, Footer: footer}
}

func listReply(title, description, buttonLabel string, sections []adapter.Section, footer string) Reply {
	return Reply{Kind: ReplyList, Title: title, Description: description, ButtonLabel: buttonLabel, Sections: sections, Footer: footer}
}

func imageButtonsReply(imageURL, text string, buttons []adapter.Button) Reply {
	if len(buttons) > 3 {
		buttons = buttons[:3]
	}
	return Reply{Kind: ReplyImageButtons, ImageURL: imageURL, Text: text, Buttons: buttons}
}

func locationRequestReply(text string) Reply {
	return Reply{Kind: ReplyLocationRequest, Text: text}
}

func ctaURLReply(text, buttonLabel, url, footer string) Reply {
	return Reply{Kind: ReplyCtaURL, Text: text, ButtonLabel: buttonLabel, URL: url, Footer: footer}
}

// Send forwards each descriptor to the messenger. Delivery stops on the first
// gateway error; the caller decides how to degrade.
func Send(ctx context.Context, m adapter.Messenger, phone string, replies []Reply) error {
	for _, r := range replies {
		var err error
		switch r.Kind {
		case ReplyText:
			err = m.SendMessage(ctx, phone, r.Text)
		case ReplyButtons:
			err = m.SendButtons(ctx, phone, r.Text, r.Buttons, r.Footer)
		case ReplyList:
			err = m.SendList(ctx, phone, r.Title, r.Description, r.ButtonLabel, r.Sections, r.Footer)
		case ReplyImageButtons:
			err = m.SendImageWithButtons(ctx, phone, r.ImageURL, r.Text, r.Buttons)
		case ReplyLocationRequest:
			err = m.SendLocationRequest(ctx, phone, r.Text)
		case ReplyCtaURL:
			err = m.SendCtaURL(ctx, phone, r.Text, r.ButtonLabel, r.URL, r.Footer)
		}
		if err != nil {
			return err
		}
	}
	return nil
}
