package handler

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/repository"
)

// RateCatalog is the slice of the rate service the handler needs
type RateCatalog interface {
	Create(ctx context.Context, rate *domain.Rate) (*domain.Rate, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error)
	List(ctx context.Context, filter repository.RateFilter) ([]domain.Rate, error)
	Update(ctx context.Context, id uuid.UUID, rate *domain.Rate) (*domain.Rate, error)
	Deactivate(ctx context.Context, id uuid.UUID) (*domain.Rate, error)
}

type RateHandler struct {
	rates  RateCatalog
	logger *slog.Logger
}

func NewRateHandler(rates RateCatalog, logger *slog.Logger) *RateHandler {
	return &RateHandler{rates: rates, logger: logger}
}

// Create POST /v1/rates
func (h *RateHandler) Create(c *fiber.Ctx) error {
	var rate domain.Rate
	if err := c.BodyParser(&rate); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	created, err := h.rates.Create(c.Context(), &rate)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// List GET /v1/rates?class=CAR&active=true
func (h *RateHandler) List(c *fiber.Ctx) error {
	var filter repository.RateFilter

	if raw := strings.TrimSpace(c.Query("class")); raw != "" {
		class := domain.VehicleClass(strings.ToUpper(raw))
		if !class.Valid() {
			return domain.ErrValidationFailed.WithMessage("unknown vehicle class " + raw)
		}
		filter.VehicleClass = &class
	}
	if raw := c.Query("active"); raw != "" {
		active := raw == "true"
		filter.IsActive = &active
	}

	rates, err := h.rates.List(c.Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"rates": rates,
		"count": len(rates),
	})
}

// ListActiveByClass GET /v1/rates/active/:class - rates selectable right now
func (h *RateHandler) ListActiveByClass(c *fiber.Ctx) error {
	class := domain.VehicleClass(strings.ToUpper(strings.TrimSpace(c.Params("class"))))
	if !class.Valid() {
		return domain.ErrValidationFailed.WithMessage("unknown vehicle class " + c.Params("class"))
	}

	active := true
	rates, err := h.rates.List(c.Context(), repository.RateFilter{
		VehicleClass: &class,
		IsActive:     &active,
	})
	if err != nil {
		return err
	}

	now := time.Now()
	applicable := make([]domain.Rate, 0, len(rates))
	for _, rate := range rates {
		if rate.ApplicableAt(class, now) {
			applicable = append(applicable, rate)
		}
	}

	return c.JSON(fiber.Map{
		"rates": applicable,
		"count": len(applicable),
	})
}

// Get GET /v1/rates/:id
func (h *RateHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	rate, err := h.rates.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(rate)
}

// Update PUT /v1/rates/:id
func (h *RateHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var rate domain.Rate
	if err := c.BodyParser(&rate); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	updated, err := h.rates.Update(c.Context(), id, &rate)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

// Deactivate DELETE /v1/rates/:id - soft delete, history keeps resolving
func (h *RateHandler) Deactivate(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if _, err := h.rates.Deactivate(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
