package handler

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/repository"
	"github.com/dcastrillonv/parqueadero/internal/service"
)

// Billing is the slice of the billing service the handler needs
type Billing interface {
	Quote(ctx context.Context, req service.QuoteRequest) (*service.Quote, error)
	Settle(ctx context.Context, req service.SettleRequest) (*domain.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error)
	ListPayments(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, int, error)
	Refund(ctx context.Context, id uuid.UUID, reason string) (*domain.Payment, error)
}

// PaymentStatsSource produces the dashboard summary
type PaymentStatsSource interface {
	PaymentStats(ctx context.Context) (*repository.PaymentStats, error)
}

type PaymentHandler struct {
	billing Billing
	stats   PaymentStatsSource
	logger  *slog.Logger
}

func NewPaymentHandler(billing Billing, stats PaymentStatsSource, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{
		billing: billing,
		stats:   stats,
		logger:  logger,
	}
}

// Quote POST /v1/payments/quote - price the stay without closing it
func (h *PaymentHandler) Quote(c *fiber.Ctx) error {
	var req service.QuoteRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	quote, err := h.billing.Quote(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(quote)
}

// Settle POST /v1/payments - charge and close the stay
func (h *PaymentHandler) Settle(c *fiber.Ctx) error {
	var req service.SettleRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	payment, err := h.billing.Settle(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(payment)
}

// List GET /v1/payments?status=&method=&from=&to=&limit=&offset=
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	filter := repository.PaymentFilter{
		Status: strings.ToUpper(strings.TrimSpace(c.Query("status"))),
		Method: strings.ToUpper(strings.TrimSpace(c.Query("method"))),
		Limit:  50,
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > 500 {
			return domain.ErrValidationFailed.WithMessage("limit must be between 1 and 500")
		}
		filter.Limit = limit
	}
	if raw := c.Query("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return domain.ErrValidationFailed.WithMessage("offset must be >= 0")
		}
		filter.Offset = offset
	}

	var err error
	if filter.StartDate, err = parseDateQuery(c, "from"); err != nil {
		return err
	}
	if filter.EndDate, err = parseDateQuery(c, "to"); err != nil {
		return err
	}

	payments, total, err := h.billing.ListPayments(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"payments": payments,
		"count":    len(payments),
		"total":    total,
	})
}

// Get GET /v1/payments/:id
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.billing.GetPayment(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(payment)
}

// RefundRequest carries the mandatory refund justification
type RefundRequest struct {
	Reason string `json:"reason"`
}

// Refund POST /v1/payments/:id/refund
func (h *PaymentHandler) Refund(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req RefundRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if strings.TrimSpace(req.Reason) == "" {
		return domain.ErrValidationFailed.WithMessage("reason is required")
	}

	payment, err := h.billing.Refund(c.Context(), id, req.Reason)
	if err != nil {
		return err
	}

	return c.JSON(payment)
}

// Stats GET /v1/payments/stats/summary
func (h *PaymentHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.stats.PaymentStats(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(stats)
}

func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, domain.ErrValidationFailed.WithMessage(name + " must be YYYY-MM-DD")
	}
	return &t, nil
}
