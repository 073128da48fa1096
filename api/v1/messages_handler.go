package v1

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/config"
	"portfolio/internal/messages"
)

type createMessageParams struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Body  string `json:"body"`
}

// CreateMessagePublicAPIHandler accepts a contact-form submission and kicks
// off the webhook notification without blocking the response.
func CreateMessagePublicAPIHandler(ctx *cartridge.Context) error {
	var params createMessageParams
	if err := ctx.BodyParser(&params); err != nil {
		return ctx.Status(http.StatusBadRequest).JSON(fiber.Map{
			"error": errInvalidRequest,
		})
	}

	message, err := messages.CreateMessage(ctx.DB(), ctx.Logger, params.Name, params.Email, params.Body)
	if err != nil {
		var validationErr *messages.ValidationError
		if errors.As(err, &validationErr) {
			return ctx.Status(http.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": validationErr.Error(),
			})
		}
		ctx.Logger.Error("Failed to store message", slog.Any("error", err))
		return ctx.Status(http.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to store message",
		})
	}

	notifier := messages.NewNotifier(config.GetConfig().NotifyWebhookURL, ctx.Logger)
	go notifier.Notify(message)

	return ctx.Status(http.StatusCreated).JSON(fiber.Map{"id": message.ID})
}
