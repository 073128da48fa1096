package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/flash"
	"github.com/karloscodes/cartridge/inertia"
	"log/slog"

	"portfolio/internal/users"
)

// RenderLoginAction renders the login page
func RenderLoginAction(ctx *cartridge.Context) error {
	if ctx.Session.IsAuthenticated(ctx.Ctx) {
		return ctx.Redirect("/admin")
	}

	// csrfToken and flash auto-injected by inertia.RenderPage
	return inertia.RenderPage(ctx.Ctx, "Login", inertia.Props{})
}

// ProcessLoginAction handles the login form submission
func ProcessLoginAction(ctx *cartridge.Context) error {
	email := ctx.FormValue("email")
	password := ctx.FormValue("password")

	// Inertia submits JSON rather than form fields
	if email == "" && password == "" {
		var jsonBody struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		if err := ctx.BodyParser(&jsonBody); err == nil {
			email = jsonBody.Email
			password = jsonBody.Password
		}
	}

	if email == "" || password == "" {
		flash.SetFlash(ctx.Ctx, "error", "Email and password are required")
		return ctx.Redirect("/login", fiber.StatusFound)
	}

	user, err := users.Authenticate(ctx.DB(), ctx.Logger, email, password)
	if err != nil {
		if !errors.Is(err, users.ErrInvalidCredentials) {
			ctx.Logger.Error("Login lookup failed", slog.Any("error", err))
		}
		// Generic message; don't reveal whether the email exists
		flash.SetFlash(ctx.Ctx, "error", "Invalid email or password")
		return ctx.Redirect("/login", fiber.StatusFound)
	}

	if err := ctx.Session.SetSession(ctx.Ctx, user.ID); err != nil {
		ctx.Logger.Error("Failed to set session", slog.Any("error", err))
		flash.SetFlash(ctx.Ctx, "error", "Login failed")
		return ctx.Redirect("/login", fiber.StatusFound)
	}

	ctx.Logger.Debug("Login successful",
		slog.String("email", email),
		slog.Int("userId", int(user.ID)))

	return ctx.Redirect("/admin", fiber.StatusFound)
}

// LogoutAction handles user logout
func LogoutAction(ctx *cartridge.Context) error {
	ctx.Session.ClearSession(ctx.Ctx)
	flash.SetFlash(ctx.Ctx, "success", "You have been successfully logged out")
	return ctx.Redirect("/login", fiber.StatusFound)
}
