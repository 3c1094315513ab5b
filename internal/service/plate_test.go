package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/provider"
)

func TestPlateService_Recognize(t *testing.T) {
	image := make([]byte, 5000)

	tests := []struct {
		name       string
		setupMocks func(*MockPlateProvider, *MockVehicleRepository)
		wantErr    error
		check      func(*testing.T, *RecognitionResult)
	}{
		{
			name: "recognized plate with an active stay",
			setupMocks: func(p *MockPlateProvider, v *MockVehicleRepository) {
				p.On("RecognizePlate", mock.Anything, image).Return(&provider.PlateResult{
					Plate:      "ABC123",
					Confidence: 0.93,
				}, nil)
				v.On("GetActiveByPlate", mock.Anything, "ABC123").Return(activeCar(), nil)
			},
			check: func(t *testing.T, r *RecognitionResult) {
				assert.Equal(t, "ABC123", r.Plate)
				assert.InDelta(t, 0.93, r.Confidence, 1e-9)
				require.NotNil(t, r.ActiveVehicle)
			},
		},
		{
			name: "recognized plate not in the lot",
			setupMocks: func(p *MockPlateProvider, v *MockVehicleRepository) {
				p.On("RecognizePlate", mock.Anything, image).Return(&provider.PlateResult{
					Plate:      "XYZ789",
					Confidence: 0.88,
				}, nil)
				v.On("GetActiveByPlate", mock.Anything, "XYZ789").
					Return(nil, domain.ErrVehicleNotFound)
			},
			check: func(t *testing.T, r *RecognitionResult) {
				assert.Equal(t, "XYZ789", r.Plate)
				assert.Nil(t, r.ActiveVehicle)
			},
		},
		{
			name: "confidence below the floor",
			setupMocks: func(p *MockPlateProvider, v *MockVehicleRepository) {
				p.On("RecognizePlate", mock.Anything, image).Return(&provider.PlateResult{
					Plate:      "ABC123",
					Confidence: 0.41,
				}, nil)
			},
			wantErr: domain.ErrLowPlateConfidence,
		},
		{
			name: "no plate in the image",
			setupMocks: func(p *MockPlateProvider, v *MockVehicleRepository) {
				p.On("RecognizePlate", mock.Anything, image).
					Return(nil, domain.ErrNoPlateDetected)
			},
			wantErr: domain.ErrNoPlateDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prov := &MockPlateProvider{}
			vehicles := &MockVehicleRepository{}
			tt.setupMocks(prov, vehicles)

			svc := NewPlateService(prov, vehicles, 0.7, testLogger())
			result, err := svc.Recognize(context.Background(), image)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.check(t, result)
			prov.AssertExpectations(t)
			vehicles.AssertExpectations(t)
		})
	}
}
