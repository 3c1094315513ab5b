package handler

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/service"
)

const maxImageSize = 10 * 1024 * 1024 // 10MB

var validImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// PlateReader runs OCR on a camera frame
type PlateReader interface {
	Recognize(ctx context.Context, image []byte) (*service.RecognitionResult, error)
}

// ExitValidator is the barrier-gate check
type ExitValidator interface {
	ValidateExit(ctx context.Context, plate string) (*service.ExitAuthorization, error)
}

// RecognitionLimiter bounds OCR calls per gate camera. Recognition hits a
// paid provider, so a looping camera must not burn through the quota.
type RecognitionLimiter interface {
	CheckRecognitionLimit(ctx context.Context, clientIP string, limit int) error
}

type PlateHandler struct {
	plates   PlateReader
	vehicles ExitValidator
	limiter  RecognitionLimiter
	limit    int
	logger   *slog.Logger
}

func NewPlateHandler(plates PlateReader, vehicles ExitValidator, logger *slog.Logger) *PlateHandler {
	return &PlateHandler{
		plates:   plates,
		vehicles: vehicles,
		logger:   logger,
	}
}

// WithRateLimit bounds recognition requests per client per window
func (h *PlateHandler) WithRateLimit(limiter RecognitionLimiter, limit int) *PlateHandler {
	h.limiter = limiter
	h.limit = limit
	return h
}

// Recognize POST /v1/plates/recognize - OCR a camera frame and look the
// plate up in the lot
func (h *PlateHandler) Recognize(c *fiber.Ctx) error {
	if h.limiter != nil {
		if err := h.limiter.CheckRecognitionLimit(c.Context(), c.IP(), h.limit); err != nil {
			return err
		}
	}

	imageBytes, err := extractAndValidateImage(c)
	if err != nil {
		return err
	}

	result, err := h.plates.Recognize(c.Context(), imageBytes)
	if err != nil {
		return err
	}

	return c.JSON(result)
}

// ValidateExitRequest identifies the plate at the exit barrier. The plate
// may come from OCR upstream or be typed by the operator.
type ValidateExitRequest struct {
	Plate string `json:"plate"`
}

// ValidateExit POST /v1/plates/validate-exit
func (h *PlateHandler) ValidateExit(c *fiber.Ctx) error {
	var req ValidateExitRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ErrBadRequest.WithError(err)
	}
	if strings.TrimSpace(req.Plate) == "" {
		return domain.ErrValidationFailed.WithMessage("plate is required")
	}

	auth, err := h.vehicles.ValidateExit(c.Context(), req.Plate)
	if err != nil {
		return err
	}

	return c.JSON(auth)
}

// extractAndValidateImage pulls the image out of the multipart form
func extractAndValidateImage(c *fiber.Ctx) ([]byte, error) {
	file, err := c.FormFile("image")
	if err != nil {
		return nil, domain.ErrValidationFailed.WithError(err)
	}

	if file.Size == 0 || file.Size > maxImageSize {
		return nil, domain.ErrInvalidImage
	}

	contentType := file.Header.Get("Content-Type")
	if !validImageTypes[contentType] {
		return nil, domain.ErrInvalidImage
	}

	f, err := file.Open()
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}
	defer func() {
		_ = f.Close()
	}()

	imageBytes, err := io.ReadAll(f)
	if err != nil {
		return nil, domain.ErrInvalidImage.WithError(err)
	}

	return imageBytes, nil
}
