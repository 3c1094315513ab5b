package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogLogger_Log(t *testing.T) {
	tests := []struct {
		name          string
		event         Event
		wantEventType string
		wantHasError  bool
	}{
		{
			name: "vehicle entry event",
			event: Event{
				EventType: EventVehicleEntry,
				Plate:     "ABC123",
				SpaceCode: "A-01",
				Success:   true,
				Metadata: map[string]string{
					"vehicle_class": "CAR",
				},
			},
			wantEventType: string(EventVehicleEntry),
		},
		{
			name: "payment settled event",
			event: Event{
				EventType:     EventPaymentSettled,
				Plate:         "ABC123",
				ReceiptNumber: "REC-20250704-00042",
				Success:       true,
			},
			wantEventType: string(EventPaymentSettled),
		},
		{
			name: "failed refund event",
			event: Event{
				EventType: EventPaymentRefunded,
				Success:   false,
				Error:     "payment already refunded",
			},
			wantEventType: string(EventPaymentRefunded),
			wantHasError:  true,
		},
		{
			name: "manual space release event",
			event: Event{
				EventType: EventSpaceReleased,
				SpaceCode: "B-07",
				Success:   true,
			},
			wantEventType: string(EventSpaceReleased),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			handler := slog.NewJSONHandler(&buf, nil)
			logger := slog.New(handler)

			auditLogger := NewSlogLogger(logger)
			err := auditLogger.Log(context.Background(), tt.event)

			require.NoError(t, err)

			output := buf.String()
			assert.Contains(t, output, tt.wantEventType)
			assert.Contains(t, output, "audit_event")
			assert.Contains(t, output, "audit")

			if tt.wantHasError {
				assert.Contains(t, output, tt.event.Error)
			}
		})
	}
}

func TestSlogLogger_Log_GeneratesIDAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)

	auditLogger := NewSlogLogger(logger)
	event := Event{
		EventType: EventVehicleEntry,
		Plate:     "XYZ789",
		Success:   true,
	}

	err := auditLogger.Log(context.Background(), event)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "event_id")

	var logEntry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(output), "\n")
	require.NotEmpty(t, lines)

	err = json.Unmarshal([]byte(lines[0]), &logEntry)
	require.NoError(t, err)

	eventID, ok := logEntry["event_id"].(string)
	assert.True(t, ok)
	assert.NotEmpty(t, eventID)

	_, err = uuid.Parse(eventID)
	assert.NoError(t, err)
}

func TestSlogLogger_Log_UsesProvidedIDAndTimestamp(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)

	auditLogger := NewSlogLogger(logger)
	expectedID := uuid.New()
	expectedTimestamp := time.Date(2025, 7, 4, 10, 30, 0, 0, time.UTC)

	event := Event{
		ID:        expectedID,
		Timestamp: expectedTimestamp,
		EventType: EventVehicleExit,
		Plate:     "ABC123",
		Success:   true,
	}

	err := auditLogger.Log(context.Background(), event)
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, expectedID.String())
}

func TestNoOpLogger_Log(t *testing.T) {
	logger := &NoOpLogger{}

	event := Event{
		ID:        uuid.New(),
		Timestamp: time.Now(),
		EventType: EventPlateRecognized,
		Plate:     "ABC123",
		Success:   true,
		Metadata: map[string]string{
			"confidence": "0.93",
		},
	}

	err := logger.Log(context.Background(), event)

	assert.NoError(t, err)
}

func TestLoggerInterface_Compliance(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
	var _ Logger = (*NoOpLogger)(nil)
}

func TestEvent_JSONSerialization_OmitsEmptyFields(t *testing.T) {
	event := Event{
		EventType: EventVehicleEntry,
		Plate:     "ABC123",
		Success:   true,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	jsonStr := string(data)
	assert.NotContains(t, jsonStr, "receipt_number")
	assert.NotContains(t, jsonStr, "space_code")
	assert.NotContains(t, jsonStr, "error")
}
