package handlers

import (
	"context"

	facilityRequestController "hostelhub/internal/controllers/facilityRequest"
	"hostelhub/internal/handlers/middleware"
	"hostelhub/internal/models"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// RequestFacade is the category facade a FacilityRequestHandler serves.
type RequestFacade[C any, R any] interface {
	Create(ctx context.Context, user *models.User, request *C) (R, error)
	Get(ctx context.Context, user *models.User, requestID uuid.UUID) (R, error)
	ListMine(ctx context.Context, user *models.User, query facilityRequestController.ListQuery) ([]R, error)
	ListAssigned(ctx context.Context, user *models.User, query facilityRequestController.ListQuery) ([]R, error)
	UpdateStatus(
		ctx context.Context,
		user *models.User,
		requestID uuid.UUID,
		request *facilityRequestController.UpdateStatusRequest,
	) (R, error)
	Cancel(ctx context.Context, user *models.User, requestID uuid.UUID) (R, error)
	AttachFeedback(
		ctx context.Context,
		user *models.User,
		requestID uuid.UUID,
		request *facilityRequestController.FeedbackRequest,
	) (R, error)
}

type FacilityRequestHandler[C any, R any] struct {
	Handler
	path   string
	facade RequestFacade[C, R]
}

func NewFacilityRequestHandler[C any, R any](
	handler Handler,
	path string,
	facade RequestFacade[C, R],
) *FacilityRequestHandler[C, R] {
	return &FacilityRequestHandler[C, R]{
		Handler: handler,
		path:    path,
		facade:  facade,
	}
}

func (h *FacilityRequestHandler[C, R]) Register() {
	requests := h.router.Group(h.path, h.middleware.RequireAuth())

	requests.Post("", h.create)
	requests.Get("/mine", h.listMine)
	requests.Get("/assigned", h.listAssigned)
	requests.Get("/:id", h.get)
	requests.Patch("/:id/status", h.updateStatus)
	requests.Post("/:id/cancel", h.cancel)
	requests.Post("/:id/feedback", h.attachFeedback)
}

func (h *FacilityRequestHandler[C, R]) logFor(c *fiber.Ctx, function string) logger.Logger {
	return h.log.TraceFromContext(c.UserContext()).Function(function)
}

func (h *FacilityRequestHandler[C, R]) create(c *fiber.Ctx) error {
	log := h.logFor(c, "create")
	user := middleware.GetUser(c)

	var req C
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	response, err := h.facade.Create(c.UserContext(), user, &req)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.Status(fiber.StatusCreated).JSON(response)
}

func (h *FacilityRequestHandler[C, R]) get(c *fiber.Ctx) error {
	log := h.logFor(c, "get")
	user := middleware.GetUser(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	response, err := h.facade.Get(c.UserContext(), user, requestID)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(response)
}

func (h *FacilityRequestHandler[C, R]) listMine(c *fiber.Ctx) error {
	log := h.logFor(c, "listMine")
	user := middleware.GetUser(c)

	var query facilityRequestController.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	responses, err := h.facade.ListMine(c.UserContext(), user, query)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(fiber.Map{"requests": responses})
}

func (h *FacilityRequestHandler[C, R]) listAssigned(c *fiber.Ctx) error {
	log := h.logFor(c, "listAssigned")
	user := middleware.GetUser(c)

	var query facilityRequestController.ListQuery
	if err := c.QueryParser(&query); err != nil {
		return badRequest(c, "Invalid query parameters")
	}

	responses, err := h.facade.ListAssigned(c.UserContext(), user, query)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(fiber.Map{"requests": responses})
}

func (h *FacilityRequestHandler[C, R]) updateStatus(c *fiber.Ctx) error {
	log := h.logFor(c, "updateStatus")
	user := middleware.GetUser(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	var req facilityRequestController.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	response, err := h.facade.UpdateStatus(c.UserContext(), user, requestID, &req)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(response)
}

func (h *FacilityRequestHandler[C, R]) cancel(c *fiber.Ctx) error {
	log := h.logFor(c, "cancel")
	user := middleware.GetUser(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	response, err := h.facade.Cancel(c.UserContext(), user, requestID)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(response)
}

func (h *FacilityRequestHandler[C, R]) attachFeedback(c *fiber.Ctx) error {
	log := h.logFor(c, "attachFeedback")
	user := middleware.GetUser(c)

	requestID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid request ID")
	}

	var req facilityRequestController.FeedbackRequest
	if err := c.BodyParser(&req); err != nil {
		log.Warn("Invalid request body", "error", err)
		return badRequest(c, "Invalid request body")
	}

	response, err := h.facade.AttachFeedback(c.UserContext(), user, requestID, &req)
	if err != nil {
		return writeError(c, log, err)
	}

	return c.JSON(response)
}
