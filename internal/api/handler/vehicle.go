package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/service"
)

// VehicleRegistry is the slice of the vehicle service the handler needs
type VehicleRegistry interface {
	RegisterEntry(ctx context.Context, req service.EntryRequest) (*domain.Vehicle, error)
	GetActive(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error)
	SearchActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error)
	ListActive(ctx context.Context) ([]domain.Vehicle, error)
}

// Settler closes a stay; exit-by-plate delegates to it
type Settler interface {
	Settle(ctx context.Context, req service.SettleRequest) (*domain.Payment, error)
}

type VehicleHandler struct {
	vehicles VehicleRegistry
	billing  Settler
	logger   *slog.Logger
}

func NewVehicleHandler(vehicles VehicleRegistry, billing Settler, logger *slog.Logger) *VehicleHandler {
	return &VehicleHandler{
		vehicles: vehicles,
		billing:  billing,
		logger:   logger,
	}
}

// Entry POST /v1/vehicles/entry - register a vehicle entering the lot
func (h *VehicleHandler) Entry(c *fiber.Ctx) error {
	var req service.EntryRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	vehicle, err := h.vehicles.RegisterEntry(c.Context(), req)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(vehicle)
}

// ExitRequest is the settle payload for the exit-by-plate shortcut
type ExitRequest struct {
	Method       string `json:"method"`
	Discount     string `json:"discount,omitempty"`
	IsPercentage bool   `json:"is_percentage,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// Exit POST /v1/vehicles/exit/:plate - settle and close the stay for a plate
func (h *VehicleHandler) Exit(c *fiber.Ctx) error {
	plate := strings.TrimSpace(c.Params("plate"))
	if plate == "" {
		return domain.ErrValidationFailed.WithMessage("plate is required")
	}

	var body ExitRequest
	if err := c.BodyParser(&body); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	req := service.SettleRequest{
		QuoteRequest: service.QuoteRequest{
			Plate:        plate,
			IsPercentage: body.IsPercentage,
		},
		Method: body.Method,
		Notes:  body.Notes,
	}
	if body.Discount != "" {
		discount, err := parseDecimal(body.Discount)
		if err != nil {
			return domain.ErrValidationFailed.WithMessage("discount is not a valid number")
		}
		req.Discount = discount
	}

	payment, err := h.billing.Settle(c.Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(payment)
}

// ListActive GET /v1/vehicles/active - vehicles currently inside
func (h *VehicleHandler) ListActive(c *fiber.Ctx) error {
	vehicles, err := h.vehicles.ListActive(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"vehicles": vehicles,
		"count":    len(vehicles),
	})
}

// Search GET /v1/vehicles/search/:plate - active stay for a plate
func (h *VehicleHandler) Search(c *fiber.Ctx) error {
	plate := strings.TrimSpace(c.Params("plate"))
	if plate == "" {
		return domain.ErrValidationFailed.WithMessage("plate is required")
	}

	vehicle, err := h.vehicles.SearchActiveByPlate(c.Context(), plate)
	if err != nil {
		return err
	}

	return c.JSON(vehicle)
}
