package controllers

import (
	"hostelhub/internal/services"

	cleaningController "hostelhub/internal/controllers/cleaning"
	washingController "hostelhub/internal/controllers/washing"
)

type Controllers struct {
	Cleaning cleaningController.Controller
	Washing  washingController.Controller
}

func New(services services.Service) Controllers {
	return Controllers{
		Cleaning: cleaningController.New(services.RequestLifecycle),
		Washing:  washingController.New(services.RequestLifecycle),
	}
}
