package platerecognizer

import "errors"

var (
	ErrServiceUnavailable = errors.New("plate recognizer service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from plate recognizer")
	ErrNoPlateInResponse  = errors.New("no plate data in plate recognizer response")
	ErrUnauthorized       = errors.New("plate recognizer rejected the API token")
)
