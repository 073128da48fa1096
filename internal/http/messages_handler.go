package http

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"

	"portfolio/internal/messages"
)

// MessagesIndexAction lists contact-form messages, newest first. Pass
// ?unread=true for just the unread ones.
func MessagesIndexAction(ctx *cartridge.Context) error {
	unreadOnly := ctx.Query("unread", "") == "true"

	list, err := messages.GetMessages(ctx.DB(), unreadOnly)
	if err != nil {
		ctx.Logger.Error("Failed to fetch messages", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	unread, err := messages.CountUnread(ctx.DB())
	if err != nil {
		ctx.Logger.Error("Failed to count unread messages", slog.Any("error", err))
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch messages",
		})
	}

	return ctx.JSON(fiber.Map{"messages": list, "unread": unread})
}

// MessageReadAction marks a message as read.
func MessageReadAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")
	if err := messages.MarkRead(ctx.DB(), ctx.Logger, id); err != nil {
		return messageError(ctx, id, err)
	}
	return ctx.JSON(fiber.Map{"read": id})
}

// MessageDeleteAction removes a message.
func MessageDeleteAction(ctx *cartridge.Context) error {
	id := ctx.Params("id")
	if err := messages.DeleteMessage(ctx.DB(), ctx.Logger, id); err != nil {
		return messageError(ctx, id, err)
	}
	return ctx.JSON(fiber.Map{"deleted": id})
}

func messageError(ctx *cartridge.Context, id string, err error) error {
	var notFound *messages.MessageNotFoundError
	if errors.As(err, &notFound) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Message not found",
		})
	}
	ctx.Logger.Error("Message operation failed",
		slog.String("id", id),
		slog.Any("error", err))
	return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "Message operation failed",
	})
}
