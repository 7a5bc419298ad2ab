package notify

import (
	"errors"
	"fmt"
	"strings"

	"assistec/internal/domain/entities"
)

var ErrEmptyMessage = errors.New("rendered message is empty")

// Message is a rendered notification for one recipient.
type Message struct {
	Template entities.TemplateKey
	Body     string
	// Link opens the external messaging app with Body prefilled; empty when the
	// recipient has no phone number.
	Link string
}

// HasContact reports whether Link could be built.
func (m Message) HasContact() bool {
	return m.Link != ""
}

// ComposeClient renders key for the order's client. ok is false when no
// template is configured for key.
func ComposeClient(key entities.TemplateKey, ctx Context) (msg Message, ok bool, err error) {
	tpl, ok := ctx.Settings.Template(key)
	if !ok {
		return Message{}, false, nil
	}
	body := Render(tpl, BuildVars(ctx))
	if strings.TrimSpace(body) == "" {
		return Message{}, true, fmt.Errorf("%w: template %s", ErrEmptyMessage, key)
	}
	link, _ := WhatsAppLink(ctx.Client.Phone, body)
	return Message{Template: key, Body: body, Link: link}, true, nil
}
