package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// WithMessage returns a copy with a more specific message, keeping code and status
func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrValidationFailed = &AppError{
		Code:       "VALIDATION_FAILED",
		Message:    "Request validation failed",
		StatusCode: 422,
	}

	// Pricing errors. None of these are retryable: each one requires an
	// operator configuration or data fix before billing can proceed.
	ErrNoRate = &AppError{
		Code:       "NO_RATE",
		Message:    "No rate supplied for amount calculation",
		StatusCode: 422,
	}

	ErrUnsupportedBillingScheme = &AppError{
		Code:       "UNSUPPORTED_BILLING_SCHEME",
		Message:    "Rate catalog contains an unknown billing scheme",
		StatusCode: 422,
	}

	ErrNoApplicableRate = &AppError{
		Code:       "NO_APPLICABLE_RATE",
		Message:    "No active rate matches this vehicle class",
		StatusCode: 422,
	}

	ErrInvalidDuration = &AppError{
		Code:       "INVALID_DURATION",
		Message:    "Exit time precedes entry time",
		StatusCode: 422,
	}

	// Vehicle errors
	ErrVehicleNotFound = &AppError{
		Code:       "VEHICLE_NOT_FOUND",
		Message:    "No active vehicle found for this plate",
		StatusCode: 404,
	}

	ErrVehicleAlreadyParked = &AppError{
		Code:       "VEHICLE_ALREADY_PARKED",
		Message:    "This vehicle is already inside the parking lot",
		StatusCode: 409,
	}

	// Rate catalog errors
	ErrRateNotFound = &AppError{
		Code:       "RATE_NOT_FOUND",
		Message:    "Rate not found",
		StatusCode: 404,
	}

	// Space errors
	ErrSpaceNotFound = &AppError{
		Code:       "SPACE_NOT_FOUND",
		Message:    "Parking space not found",
		StatusCode: 404,
	}

	ErrSpaceNotAvailable = &AppError{
		Code:       "SPACE_NOT_AVAILABLE",
		Message:    "Parking space is not available for assignment",
		StatusCode: 409,
	}

	ErrNoSpaceAvailable = &AppError{
		Code:       "NO_SPACE_AVAILABLE",
		Message:    "No available parking space",
		StatusCode: 404,
	}

	ErrSpaceCodeExists = &AppError{
		Code:       "SPACE_CODE_EXISTS",
		Message:    "A parking space with this code already exists",
		StatusCode: 409,
	}

	// Payment errors
	ErrInvalidPaymentMethod = &AppError{
		Code:       "INVALID_PAYMENT_METHOD",
		Message:    "Payment method must be CASH, CARD or TRANSFER",
		StatusCode: 422,
	}

	ErrPaymentNotFound = &AppError{
		Code:       "PAYMENT_NOT_FOUND",
		Message:    "Payment not found",
		StatusCode: 404,
	}

	ErrVehicleAlreadyPaid = &AppError{
		Code:       "VEHICLE_ALREADY_PAID",
		Message:    "This vehicle already has a registered payment",
		StatusCode: 409,
	}

	ErrPaymentAlreadyRefunded = &AppError{
		Code:       "PAYMENT_ALREADY_REFUNDED",
		Message:    "This payment was already refunded",
		StatusCode: 409,
	}

	ErrReceiptConflict = &AppError{
		Code:       "RECEIPT_CONFLICT",
		Message:    "Receipt number already exists",
		StatusCode: 409,
	}

	// Plate recognition errors
	ErrNoPlateDetected = &AppError{
		Code:       "NO_PLATE_DETECTED",
		Message:    "No license plate detected in the image",
		StatusCode: 422,
	}

	ErrLowPlateConfidence = &AppError{
		Code:       "LOW_PLATE_CONFIDENCE",
		Message:    "Plate recognition confidence too low, please retry",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrExitNotAllowed = &AppError{
		Code:       "EXIT_NOT_ALLOWED",
		Message:    "Exit not authorized, payment pending",
		StatusCode: 403,
	}

	ErrRateLimitExceeded = &AppError{
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Too many recognition requests, slow down",
		StatusCode: 429,
	}
)
