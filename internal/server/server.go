package server

import (
	"fmt"
	"time"

	"hostelhub/internal/app"
	"hostelhub/internal/handlers"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberLogs "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/helmet/v2"
)

const (
	BODY_LIMIT    = 1024 * 1024
	READ_TIMEOUT  = 15 * time.Second
	WRITE_TIMEOUT = 15 * time.Second
	IDLE_TIMEOUT  = 120 * time.Second
)

type AppServer struct {
	FiberApp *fiber.App
	log      logger.Logger
}

func New(app *app.App) (*AppServer, error) {
	log := logger.New("server").Function("New")
	log.Info("Initializing server")

	config := fiber.Config{
		ServerHeader:          fmt.Sprintf("HostelHub/%s", app.Config.GeneralVersion),
		AppName:               "hostelhub_api",
		BodyLimit:             BODY_LIMIT,
		ReadTimeout:           READ_TIMEOUT,
		WriteTimeout:          WRITE_TIMEOUT,
		IdleTimeout:           IDLE_TIMEOUT,
		DisableStartupMessage: true,
	}

	if app.Config.Environment == "development" {
		log.Info("Enabling development mode")
		config.DisableStartupMessage = false
		config.EnablePrintRoutes = true
	}

	server := fiber.New(config)

	server.Use(recover.New())
	server.Use(app.Middleware.TraceID())
	server.Use(cors.New(cors.Config{
		AllowOrigins:  app.Config.CorsAllowOrigins,
		AllowMethods:  "GET, POST, PATCH, OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Trace-ID, Upgrade, Connection",
		MaxAge:        300,
		ExposeHeaders: "X-Trace-ID",
	}))
	server.Use(fiberLogs.New(fiberLogs.Config{
		Format: "${time} ${status} ${method} ${path} ${latency} trace=${respHeader:X-Trace-ID}\n",
	}))
	server.Use(compress.New())
	server.Use(helmet.New(helmet.Config{
		XSSProtection:             "1; mode=block",
		ContentTypeNosniff:        "nosniff",
		XFrameOptions:             "DENY",
		ReferrerPolicy:            "no-referrer",
		CrossOriginOpenerPolicy:   "same-origin",
		CrossOriginResourcePolicy: "same-origin",
		XPermittedCrossDomain:     "none",
	}))

	if err := handlers.Router(server, app); err != nil {
		return &AppServer{}, log.Err("failed to initialize handlers", err)
	}

	return &AppServer{
		FiberApp: server,
		log:      log,
	}, nil
}

func (s *AppServer) Listen(port int) error {
	log := s.log.Function("Listen")

	if port == 0 {
		return log.Error("Fatal error: invalid port", "port", port)
	}

	log.Info("Starting server", "port", port)
	return s.FiberApp.Listen(fmt.Sprintf(":%d", port))
}
