package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/dcastrillonv/parqueadero/internal/domain"
)

// SpaceGrid is the slice of the space service the handler needs
type SpaceGrid interface {
	Create(ctx context.Context, space *domain.ParkingSpace) (*domain.ParkingSpace, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error)
	List(ctx context.Context) ([]domain.ParkingSpace, error)
	SetState(ctx context.Context, id uuid.UUID, state string) (*domain.ParkingSpace, error)
	Assign(ctx context.Context, id, vehicleID uuid.UUID) (*domain.ParkingSpace, error)
	AutoAssign(ctx context.Context) (*domain.ParkingSpace, error)
	Release(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type SpaceHandler struct {
	spaces SpaceGrid
	logger *slog.Logger
}

func NewSpaceHandler(spaces SpaceGrid, logger *slog.Logger) *SpaceHandler {
	return &SpaceHandler{spaces: spaces, logger: logger}
}

// Create POST /v1/spaces
func (h *SpaceHandler) Create(c *fiber.Ctx) error {
	var space domain.ParkingSpace
	if err := c.BodyParser(&space); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	created, err := h.spaces.Create(c.Context(), &space)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

// List GET /v1/spaces - full grid in row/col order
func (h *SpaceHandler) List(c *fiber.Ctx) error {
	spaces, err := h.spaces.List(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"spaces": spaces,
		"count":  len(spaces),
	})
}

// Get GET /v1/spaces/:id
func (h *SpaceHandler) Get(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	space, err := h.spaces.GetByID(c.Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(space)
}

// UpdateStateRequest moves a space between operator-managed states
type UpdateStateRequest struct {
	State string `json:"state"`
}

// Update PUT /v1/spaces/:id
func (h *SpaceHandler) Update(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req UpdateStateRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}

	space, err := h.spaces.SetState(c.Context(), id, req.State)
	if err != nil {
		return err
	}

	return c.JSON(space)
}

// AssignRequest places a vehicle on a space
type AssignRequest struct {
	VehicleID uuid.UUID `json:"vehicle_id"`
}

// Assign POST /v1/spaces/:id/assign
func (h *SpaceHandler) Assign(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if req.VehicleID == uuid.Nil {
		return domain.ErrValidationFailed.WithMessage("vehicle_id is required")
	}

	space, err := h.spaces.Assign(c.Context(), id, req.VehicleID)
	if err != nil {
		return err
	}

	return c.JSON(space)
}

// AutoAssign POST /v1/spaces/auto-assign - suggest the next free space
func (h *SpaceHandler) AutoAssign(c *fiber.Ctx) error {
	space, err := h.spaces.AutoAssign(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(space)
}

// Release POST /v1/spaces/:id/release - operator correction
func (h *SpaceHandler) Release(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.spaces.Release(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete DELETE /v1/spaces/:id
func (h *SpaceHandler) Delete(c *fiber.Ctx) error {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.spaces.Delete(c.Context(), id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
