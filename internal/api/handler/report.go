package handler

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/dcastrillonv/parqueadero/internal/repository"
)

// Reporting is the slice of the report service the handler needs
type Reporting interface {
	RevenueByDay(ctx context.Context, from, to *time.Time) ([]repository.RevenueRow, error)
	Occupancy(ctx context.Context) (*repository.OccupancySummary, error)
}

type ReportHandler struct {
	reports Reporting
	logger  *slog.Logger
}

func NewReportHandler(reports Reporting, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// Revenue GET /v1/reports/revenue?from=&to= - settled revenue per day
func (h *ReportHandler) Revenue(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return err
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return err
	}

	rows, err := h.reports.RevenueByDay(c.Context(), from, to)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"days":  rows,
		"count": len(rows),
	})
}

// Occupancy GET /v1/reports/occupancy - grid slot counts by state
func (h *ReportHandler) Occupancy(c *fiber.Ctx) error {
	summary, err := h.reports.Occupancy(c.Context())
	if err != nil {
		return err
	}

	return c.JSON(summary)
}
