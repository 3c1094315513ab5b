package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/service"
)

type MockPlateReader struct {
	mock.Mock
}

func (m *MockPlateReader) Recognize(ctx context.Context, image []byte) (*service.RecognitionResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RecognitionResult), args.Error(1)
}

type MockExitValidator struct {
	mock.Mock
}

func (m *MockExitValidator) ValidateExit(ctx context.Context, plate string) (*service.ExitAuthorization, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExitAuthorization), args.Error(1)
}

func buildImageForm(t *testing.T, content []byte, contentType string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="image"; filename="frame.jpg"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestPlateHandler_Recognize(t *testing.T) {
	image := make([]byte, 4096)

	plates := &MockPlateReader{}
	plates.On("Recognize", mock.Anything, image).Return(&service.RecognitionResult{
		Plate:      "ABC123",
		Confidence: 0.93,
	}, nil)

	app := newTestApp()
	h := NewPlateHandler(plates, &MockExitValidator{}, discardLogger())
	app.Post("/v1/plates/recognize", h.Recognize)

	body, contentType := buildImageForm(t, image, "image/jpeg")
	req := httptest.NewRequest("POST", "/v1/plates/recognize", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got service.RecognitionResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.Equal(t, "ABC123", got.Plate)
	plates.AssertExpectations(t)
}

func TestPlateHandler_Recognize_RejectsPDF(t *testing.T) {
	app := newTestApp()
	h := NewPlateHandler(&MockPlateReader{}, &MockExitValidator{}, discardLogger())
	app.Post("/v1/plates/recognize", h.Recognize)

	body, contentType := buildImageForm(t, make([]byte, 100), "application/pdf")
	req := httptest.NewRequest("POST", "/v1/plates/recognize", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

type MockRecognitionLimiter struct {
	mock.Mock
}

func (m *MockRecognitionLimiter) CheckRecognitionLimit(ctx context.Context, clientIP string, limit int) error {
	args := m.Called(ctx, clientIP, limit)
	return args.Error(0)
}

func TestPlateHandler_Recognize_RateLimited(t *testing.T) {
	limiter := &MockRecognitionLimiter{}
	limiter.On("CheckRecognitionLimit", mock.Anything, mock.Anything, 30).
		Return(domain.ErrRateLimitExceeded)

	plates := &MockPlateReader{}

	app := newTestApp()
	h := NewPlateHandler(plates, &MockExitValidator{}, discardLogger()).
		WithRateLimit(limiter, 30)
	app.Post("/v1/plates/recognize", h.Recognize)

	body, contentType := buildImageForm(t, make([]byte, 100), "image/jpeg")
	req := httptest.NewRequest("POST", "/v1/plates/recognize", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 429, resp.StatusCode)
	plates.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestPlateHandler_Recognize_NoPlate(t *testing.T) {
	plates := &MockPlateReader{}
	plates.On("Recognize", mock.Anything, mock.Anything).
		Return(nil, domain.ErrNoPlateDetected)

	app := newTestApp()
	h := NewPlateHandler(plates, &MockExitValidator{}, discardLogger())
	app.Post("/v1/plates/recognize", h.Recognize)

	body, contentType := buildImageForm(t, make([]byte, 100), "image/png")
	req := httptest.NewRequest("POST", "/v1/plates/recognize", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}

func TestPlateHandler_ValidateExit(t *testing.T) {
	vehicles := &MockExitValidator{}
	vehicles.On("ValidateExit", mock.Anything, "ABC123").Return(&service.ExitAuthorization{
		Plate:      "ABC123",
		Authorized: true,
	}, nil)

	app := newTestApp()
	h := NewPlateHandler(&MockPlateReader{}, vehicles, discardLogger())
	app.Post("/v1/plates/validate-exit", h.ValidateExit)

	payload, _ := json.Marshal(map[string]any{"plate": "ABC123"})
	req := httptest.NewRequest("POST", "/v1/plates/validate-exit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var got service.ExitAuthorization
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
	assert.True(t, got.Authorized)
}

func TestPlateHandler_ValidateExit_MissingPlate(t *testing.T) {
	app := newTestApp()
	h := NewPlateHandler(&MockPlateReader{}, &MockExitValidator{}, discardLogger())
	app.Post("/v1/plates/validate-exit", h.ValidateExit)

	payload, _ := json.Marshal(map[string]any{})
	req := httptest.NewRequest("POST", "/v1/plates/validate-exit", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 422, resp.StatusCode)
}
