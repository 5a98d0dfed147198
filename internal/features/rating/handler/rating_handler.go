package handler

import (
	"errors"
	"strings"

	"freight-rating/internal/core/logger"
	"freight-rating/internal/features/rating/domain"
	"freight-rating/internal/features/rating/expression"
	"freight-rating/internal/features/rating/ports"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RatingHandler handles HTTP requests for rating operations.
type RatingHandler struct {
	service ports.RatingService
}

// NewRatingHandler creates a new RatingHandler.
func NewRatingHandler(service ports.RatingService) *RatingHandler {
	return &RatingHandler{
		service: service,
	}
}

// Register mounts the rating routes on router.
func (h *RatingHandler) Register(router fiber.Router) {
	router.Post("/rating/quote", h.Quote)
	router.Post("/rating/validate", h.Validate)
	router.Post("/rating/batch", h.QuoteBatch)
	router.Post("/rating/estimate", h.Estimate)
	router.Post("/rating/expressions/evaluate", h.EvaluateExpression)
	router.Delete("/channels/:id/cache", h.InvalidateChannel)
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
	// Violations lists every failed constraint when a shipment is rejected.
	Violations []string `json:"violations,omitempty"`
}

// QuoteRequest is the body of /rating/quote and /rating/validate.
type QuoteRequest struct {
	ChannelID string          `json:"channel_id"`
	Shipment  domain.Shipment `json:"shipment"`
}

// BatchRequest is the body of /rating/batch.
type BatchRequest struct {
	ChannelID string            `json:"channel_id"`
	Shipments []domain.Shipment `json:"shipments"`
}

// BatchResponse holds one item per submitted shipment, in submission order.
type BatchResponse struct {
	Items []domain.BatchItem `json:"items"`
}

// EstimateRequest is the body of /rating/estimate.
type EstimateRequest struct {
	Shipment domain.Shipment `json:"shipment"`
	domain.Route
}

// EstimateResponse lists the quotes of every applicable channel, cheapest first.
type EstimateResponse struct {
	Quotes []*domain.Quote `json:"quotes"`
}

// ValidationResponse is the result of /rating/validate.
type ValidationResponse struct {
	Valid      bool     `json:"valid"`
	Violations []string `json:"violations"`
}

// EvaluateRequest is the body of /rating/expressions/evaluate.
type EvaluateRequest struct {
	Expression []expression.Node   `json:"expression"`
	Context    map[string]float64 `json:"context"`
}

// EvaluateResponse reports an expression's value.
type EvaluateResponse struct {
	// Result is a boolean for conditions and a number for arithmetic.
	Result      any    `json:"result"`
	Truthy      bool   `json:"truthy"`
	Description string `json:"description"`
}

// Quote godoc
// @Summary Quote a shipment on a channel
// @Description Validates the shipment against the channel, then computes charge weight, base freight and extra fees.
// @Tags rating
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Channel and shipment"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /rating/quote [post]
func (h *RatingHandler) Quote(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.ChannelID) == "" {
		return badRequest(c, "channel_id is required")
	}

	quote, err := h.service.Quote(c.UserContext(), req.ChannelID, &req.Shipment)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(quote)
}

// Validate godoc
// @Summary Validate a shipment against a channel
// @Description Runs every channel constraint check without pricing the shipment.
// @Tags rating
// @Accept json
// @Produce json
// @Param request body QuoteRequest true "Channel and shipment"
// @Success 200 {object} ValidationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rating/validate [post]
func (h *RatingHandler) Validate(c *fiber.Ctx) error {
	var req QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.ChannelID) == "" {
		return badRequest(c, "channel_id is required")
	}

	violations, err := h.service.Validate(c.UserContext(), req.ChannelID, &req.Shipment)
	if err != nil {
		return respondError(c, err)
	}
	if violations == nil {
		violations = []string{}
	}

	return c.JSON(ValidationResponse{Valid: len(violations) == 0, Violations: violations})
}

// QuoteBatch godoc
// @Summary Quote many shipments on one channel
// @Description Rates each shipment independently; a failed shipment is reported on its own item.
// @Tags rating
// @Accept json
// @Produce json
// @Param request body BatchRequest true "Channel and shipments"
// @Success 200 {object} BatchResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /rating/batch [post]
func (h *RatingHandler) QuoteBatch(c *fiber.Ctx) error {
	var req BatchRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	if strings.TrimSpace(req.ChannelID) == "" {
		return badRequest(c, "channel_id is required")
	}
	if len(req.Shipments) == 0 {
		return badRequest(c, "shipments must not be empty")
	}

	items, err := h.service.QuoteBatch(c.UserContext(), req.ChannelID, req.Shipments)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(BatchResponse{Items: items})
}

// Estimate godoc
// @Summary Estimate a shipment across channels
// @Description Quotes the shipment on every channel serving the route and returns them cheapest first.
// @Tags rating
// @Accept json
// @Produce json
// @Param request body EstimateRequest true "Shipment and optional route"
// @Success 200 {object} EstimateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /rating/estimate [post]
func (h *RatingHandler) Estimate(c *fiber.Ctx) error {
	var req EstimateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	quotes, err := h.service.Estimate(c.UserContext(), &req.Shipment, req.Route)
	if err != nil {
		return respondError(c, err)
	}
	if quotes == nil {
		quotes = []*domain.Quote{}
	}

	return c.JSON(EstimateResponse{Quotes: quotes})
}

// EvaluateExpression godoc
// @Summary Evaluate a fee expression
// @Description Evaluates a rule expression against a field context, for previewing rules while authoring them.
// @Tags rating
// @Accept json
// @Produce json
// @Param request body EvaluateRequest true "Expression and context"
// @Success 200 {object} EvaluateResponse
// @Failure 400 {object} ErrorResponse
// @Router /rating/expressions/evaluate [post]
func (h *RatingHandler) EvaluateExpression(c *fiber.Ctx) error {
	var req EvaluateRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}

	result, err := h.service.EvaluateExpression(c.UserContext(), req.Expression, req.Context)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(EvaluateResponse{
		Result:      result.Interface(),
		Truthy:      result.Truthy(),
		Description: expression.Describe(req.Expression),
	})
}

// InvalidateChannel godoc
// @Summary Drop a cached channel snapshot
// @Description Forces the next rating on the channel to reload it from the configuration API.
// @Tags channels
// @Produce json
// @Param id path string true "Channel ID"
// @Success 204
// @Failure 500 {object} ErrorResponse
// @Router /channels/{id}/cache [delete]
func (h *RatingHandler) InvalidateChannel(c *fiber.Ctx) error {
	if err := h.service.InvalidateChannel(c.UserContext(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
			Message:    "shipment violates channel constraints",
			RayID:      rayID(c),
			Violations: verr.Violations,
		})
	case errors.Is(err, domain.ErrChannelNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	case errors.Is(err, domain.ErrInvalidChannel), errors.Is(err, domain.ErrNoApplicablePrice):
		return c.Status(fiber.StatusConflict).JSON(ErrorResponse{Message: err.Error(), RayID: rayID(c)})
	case errors.Is(err, expression.ErrMalformed), errors.Is(err, expression.ErrEmptyExpression):
		return badRequest(c, err.Error())
	}

	logger.Get().Error("Rating request failed", zap.String("path", c.Path()), zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Message: "internal server error",
		RayID:   rayID(c),
	})
}

func badRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Message: message, RayID: rayID(c)})
}

func rayID(c *fiber.Ctx) string {
	id, _ := c.Locals("requestid").(string)
	return id
}
