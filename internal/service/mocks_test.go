package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/provider"
	"github.com/dcastrillonv/parqueadero/internal/repository"
)

type MockRateRepository struct {
	mock.Mock
}

func (m *MockRateRepository) Create(ctx context.Context, rate *domain.Rate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

func (m *MockRateRepository) List(ctx context.Context, filter repository.RateFilter) ([]domain.Rate, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateRepository) ListActiveByClass(ctx context.Context, class domain.VehicleClass, now time.Time) ([]domain.Rate, error) {
	args := m.Called(ctx, class, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Rate), args.Error(1)
}

func (m *MockRateRepository) Update(ctx context.Context, rate *domain.Rate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockRateRepository) Deactivate(ctx context.Context, id uuid.UUID) (*domain.Rate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rate), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, vehicle *domain.Vehicle) error {
	args := m.Called(ctx, vehicle)
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetActiveByID(ctx context.Context, id uuid.UUID) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetActiveByPlate(ctx context.Context, plate string) (*domain.Vehicle, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) ListActive(ctx context.Context) ([]domain.Vehicle, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) MarkExited(ctx context.Context, id uuid.UUID, exitTime time.Time, observations string) (*domain.Vehicle, error) {
	args := m.Called(ctx, id, exitTime, observations)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

type MockSpaceRepository struct {
	mock.Mock
}

func (m *MockSpaceRepository) Create(ctx context.Context, space *domain.ParkingSpace) error {
	args := m.Called(ctx, space)
	return args.Error(0)
}

func (m *MockSpaceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.ParkingSpace, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSpace), args.Error(1)
}

func (m *MockSpaceRepository) List(ctx context.Context) ([]domain.ParkingSpace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ParkingSpace), args.Error(1)
}

func (m *MockSpaceRepository) FirstAvailable(ctx context.Context) (*domain.ParkingSpace, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ParkingSpace), args.Error(1)
}

func (m *MockSpaceRepository) Update(ctx context.Context, space *domain.ParkingSpace) error {
	args := m.Called(ctx, space)
	return args.Error(0)
}

func (m *MockSpaceRepository) Occupy(ctx context.Context, id, vehicleID uuid.UUID) error {
	args := m.Called(ctx, id, vehicleID)
	return args.Error(0)
}

func (m *MockSpaceRepository) Release(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSpaceRepository) ReleaseByVehicle(ctx context.Context, vehicleID uuid.UUID) error {
	args := m.Called(ctx, vehicleID)
	return args.Error(0)
}

func (m *MockSpaceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) GetLatestByVehicle(ctx context.Context, vehicleID uuid.UUID) (*domain.Payment, error) {
	args := m.Called(ctx, vehicleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

func (m *MockPaymentRepository) List(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Payment), args.Int(1), args.Error(2)
}

func (m *MockPaymentRepository) Refund(ctx context.Context, id uuid.UUID, reason string, at time.Time) (*domain.Payment, error) {
	args := m.Called(ctx, id, reason, at)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockPlateProvider struct {
	mock.Mock
}

func (m *MockPlateProvider) RecognizePlate(ctx context.Context, image []byte) (*provider.PlateResult, error) {
	args := m.Called(ctx, image)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.PlateResult), args.Error(1)
}

type MockMailEnqueuer struct {
	mock.Mock
}

func (m *MockMailEnqueuer) Enqueue(ctx context.Context, recipient, subject, body string) error {
	args := m.Called(ctx, recipient, subject, body)
	return args.Error(0)
}

// mockRepos bundles one mock of each repository plus a factory that hands
// them back regardless of whether the service asked for pool or tx repos.
type mockRepos struct {
	rates    *MockRateRepository
	vehicles *MockVehicleRepository
	spaces   *MockSpaceRepository
	payments *MockPaymentRepository
}

func newMockRepos() *mockRepos {
	return &mockRepos{
		rates:    &MockRateRepository{},
		vehicles: &MockVehicleRepository{},
		spaces:   &MockSpaceRepository{},
		payments: &MockPaymentRepository{},
	}
}

func (m *mockRepos) factory(_ repository.PgxPool) Repos {
	return Repos{
		Rates:    m.rates,
		Vehicles: m.vehicles,
		Spaces:   m.spaces,
		Payments: m.payments,
	}
}

func (m *mockRepos) assertExpectations(t mock.TestingT) {
	m.rates.AssertExpectations(t)
	m.vehicles.AssertExpectations(t)
	m.spaces.AssertExpectations(t)
	m.payments.AssertExpectations(t)
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
