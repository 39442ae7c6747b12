package controller

import (
	"errors"
	"time"

	"faq-agentic-be/internal/dto"
	"faq-agentic-be/internal/pkg/serverutils"
	"faq-agentic-be/internal/service"
	"faq-agentic-be/pkg/faq/workflow"

	"github.com/gofiber/fiber/v2"
)

const serviceVersion = "1.0.0"

type IFaqController interface {
	RegisterRoutes(r fiber.Router)
	Query(ctx *fiber.Ctx) error
	SessionHistory(ctx *fiber.Ctx) error
	SessionStats(ctx *fiber.Ctx) error
	UserStats(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
	Status(ctx *fiber.Ctx) error
}

type faqController struct {
	faqService service.IFaqService
}

func NewFaqController(faqService service.IFaqService) IFaqController {
	return &faqController{
		faqService: faqService,
	}
}

func (c *faqController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/faq/v1")
	h.Post("query", c.Query)
	h.Get("session/:id/history", c.SessionHistory)
	h.Get("session/:id/stats", c.SessionStats)
	h.Get("users/:id/stats", c.UserStats)
	h.Get("health", c.Health)
	h.Get("status", c.Status)
}

func (c *faqController) Query(ctx *fiber.Ctx) error {
	var req dto.FaqQueryRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	// 1. Sanitize before validating: a query that is only markup must fail
	// the length check, not slip through as an empty prompt.
	req.Query = serverutils.SanitizeInput(req.Query)
	if !serverutils.ValidateQueryLength(req.Query) {
		return fiber.NewError(fiber.StatusBadRequest, "query must be 1-500 characters")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// 2. Run the workflow.
	res, err := c.faqService.Query(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, workflow.ErrRunTimeout) {
			return fiber.NewError(fiber.StatusGatewayTimeout, "query processing timed out")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success process query", res))
}

func (c *faqController) SessionHistory(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	if !serverutils.ValidateSessionId(sessionId) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	limit := ctx.QueryInt("limit", 10)
	if limit < 1 || limit > 50 {
		return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 50")
	}

	res, err := c.faqService.History(ctx.Context(), sessionId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session history", res))
}

func (c *faqController) SessionStats(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")
	if !serverutils.ValidateSessionId(sessionId) {
		return fiber.NewError(fiber.StatusBadRequest, "invalid session id")
	}

	res, err := c.faqService.SessionStats(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show session stats", res))
}

func (c *faqController) UserStats(ctx *fiber.Ctx) error {
	userId := ctx.Params("id")
	if userId == "" {
		return fiber.NewError(fiber.StatusBadRequest, "user id is required")
	}

	res, err := c.faqService.UserStats(ctx.Context(), userId)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "user not found")
		}
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success show user stats", res))
}

func (c *faqController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Service healthy", dto.HealthResponse{
		Status:    "ok",
		Service:   "faq-agentic-be",
		Version:   serviceVersion,
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}

func (c *faqController) Status(ctx *fiber.Ctx) error {
	res, err := c.faqService.Status(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success show system status", res))
}
