package handlers

import (
	"hostelhub/internal/app"
	"hostelhub/internal/handlers/middleware"

	cleaningController "hostelhub/internal/controllers/cleaning"
	washingController "hostelhub/internal/controllers/washing"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	setupWebSocketRoute(router, app)

	api := router.Group("/api")
	HealthHandler(api, app.Config)

	handler := Handler{
		middleware: app.Middleware,
		log:        logger.New("handlers"),
		router:     api,
	}
	NewFacilityRequestHandler[
		cleaningController.CreateCleaningRequest,
		cleaningController.CleaningRequestResponse,
	](handler, "/cleaning-requests", app.Controllers.Cleaning).Register()
	NewFacilityRequestHandler[
		washingController.CreateWashingRequest,
		washingController.WashingRequestResponse,
	](handler, "/washing-requests", app.Controllers.Washing).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
