package rekognition

import "errors"

var (
	// ErrInvalidCredentials indicates that AWS credentials are invalid or missing
	ErrInvalidCredentials = errors.New("invalid or missing AWS credentials")

	// ErrInvalidImage indicates that Rekognition rejected the image payload
	ErrInvalidImage = errors.New("rekognition rejected the image")

	// ErrNoTextDetected indicates that no plate-like text was found in the image
	ErrNoTextDetected = errors.New("no plate text detected in image")
)
