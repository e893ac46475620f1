package app

import (
	"hostelhub/config"
	"hostelhub/internal/controllers"
	"hostelhub/internal/database"
	"hostelhub/internal/events"
	"hostelhub/internal/handlers/middleware"
	"hostelhub/internal/repositories"
	"hostelhub/internal/services"
	"hostelhub/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events, config)
	transactionService := services.NewTransactionService(db)
	repos := repositories.New(db, transactionService)
	service := services.New(config, eventBus, transactionService, repos)
	controllers := controllers.New(service)
	middleware := middleware.New(config, service.Token, repos.User)

	websocket, err := websockets.New(eventBus, middleware)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    service,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]any{
		"websocket":        a.Websocket,
		"eventBus":         a.EventBus,
		"transaction":      a.Services.Transaction,
		"token":            a.Services.Token,
		"requestLifecycle": a.Services.RequestLifecycle,
		"cleaning":         a.Controllers.Cleaning,
		"washing":          a.Controllers.Washing,
		"userRepo":         a.Repos.User,
		"serviceRequests":  a.Repos.ServiceRequest,
	}

	for name, check := range nilChecks {
		if check == nil {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
