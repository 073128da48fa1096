package messages

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

const notifyTimeout = 5 * time.Second

// Notifier pushes a short notification to a webhook when a message arrives.
// Delivery is best effort; failures are logged and never surface to the
// visitor who submitted the form.
type Notifier struct {
	url    string
	logger *slog.Logger
}

func NewNotifier(url string, logger *slog.Logger) *Notifier {
	return &Notifier{url: url, logger: logger}
}

type notifyPayload struct {
	Text string `json:"text"`
}

// Notify posts a summary of the message to the configured webhook. A zero
// URL disables notifications entirely.
func (n *Notifier) Notify(message *Message) {
	if n.url == "" {
		return
	}

	agent := fiber.Post(n.url)
	agent.Timeout(notifyTimeout)
	agent.JSON(notifyPayload{
		Text: "New message from " + message.Name + " <" + message.Email + ">",
	})

	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		n.logger.Warn("Message notification failed",
			slog.String("message_id", message.ID),
			slog.Any("error", errs[0]))
		return
	}
	if code < 200 || code >= 300 {
		n.logger.Warn("Message notification rejected",
			slog.String("message_id", message.ID),
			slog.Int("status", code))
	}
}
