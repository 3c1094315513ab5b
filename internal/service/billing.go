package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/dcastrillonv/parqueadero/internal/audit"
	"github.com/dcastrillonv/parqueadero/internal/domain"
	"github.com/dcastrillonv/parqueadero/internal/mailer"
	"github.com/dcastrillonv/parqueadero/internal/pricing"
	"github.com/dcastrillonv/parqueadero/internal/repository"
	"github.com/dcastrillonv/parqueadero/internal/ws"
)

// DB is what the billing service needs from pgxpool.Pool: plain queries for
// quotes plus transactions for settlement. pgxmock satisfies it in tests.
type DB interface {
	repository.PgxPool
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repos bundles the repositories the billing flow touches. The factory
// indirection lets the same service code run repositories over the pool
// (quotes) or over one transaction (settlement).
type Repos struct {
	Rates    repository.RateRepositoryInterface
	Vehicles repository.VehicleRepositoryInterface
	Spaces   repository.SpaceRepositoryInterface
	Payments repository.PaymentRepositoryInterface
}

// ReposFactory builds the repository set over a pool or transaction
type ReposFactory func(db repository.PgxPool) Repos

// NewRepos is the production factory
func NewRepos(db repository.PgxPool) Repos {
	return Repos{
		Rates:    repository.NewRateRepository(db),
		Vehicles: repository.NewVehicleRepository(db),
		Spaces:   repository.NewSpaceRepository(db),
		Payments: repository.NewPaymentRepository(db),
	}
}

// MailEnqueuer queues a receipt email for asynchronous delivery
type MailEnqueuer interface {
	Enqueue(ctx context.Context, recipient, subject, body string) error
}

// EventPublisher pushes lot events to connected operator consoles.
// Publishing never blocks and never fails the operation that emits it.
type EventPublisher interface {
	Publish(event string, data interface{})
}

// QuoteRequest asks how much an active stay would cost right now.
// Either VehicleID or Plate identifies the stay.
type QuoteRequest struct {
	VehicleID    *uuid.UUID      `json:"vehicle_id,omitempty"`
	Plate        string          `json:"plate,omitempty"`
	ExitTime     *time.Time      `json:"exit_time,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	IsPercentage bool            `json:"is_percentage"`
}

// Quote is the priced but unsettled outcome of a stay
type Quote struct {
	Vehicle        *domain.Vehicle    `json:"vehicle"`
	ExitTime       time.Time          `json:"exit_time"`
	DurationHours  decimal.Decimal    `json:"duration_hours"`
	BilledHours    decimal.Decimal    `json:"billed_hours"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	DiscountAmount decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	RateApplied    domain.AppliedRate `json:"rate_applied"`
}

// SettleRequest closes a stay: charges it, records the payment and frees
// the assigned space, all in one transaction.
type SettleRequest struct {
	QuoteRequest
	Method string `json:"method"`
	Notes  string `json:"notes,omitempty"`
}

type BillingService struct {
	db       DB
	newRepos ReposFactory
	mail     MailEnqueuer
	receipts *pricing.ReceiptGenerator
	opts     pricing.Options
	events   EventPublisher
	audits   audit.Logger
	now      func() time.Time
	logger   *slog.Logger
}

func NewBillingService(db DB, mail MailEnqueuer, logger *slog.Logger) *BillingService {
	return &BillingService{
		db:       db,
		newRepos: NewRepos,
		mail:     mail,
		receipts: pricing.NewReceiptGenerator(),
		audits:   &audit.NoOpLogger{},
		now:      time.Now,
		logger:   logger,
	}
}

// WithBackdatedExit allows exit timestamps earlier than the entry, billing
// the stay as zero hours instead of rejecting it.
func (s *BillingService) WithBackdatedExit() *BillingService {
	s.opts.AllowNegativeDuration = true
	return s
}

// WithReposFactory overrides repository construction, used by tests
func (s *BillingService) WithReposFactory(f ReposFactory) *BillingService {
	s.newRepos = f
	return s
}

// WithClock overrides the time source, used by tests
func (s *BillingService) WithClock(now func() time.Time) *BillingService {
	s.now = now
	return s
}

// WithEvents broadcasts settlements to connected operator consoles
func (s *BillingService) WithEvents(events EventPublisher) *BillingService {
	s.events = events
	return s
}

// WithAudit records settlements and refunds in the audit trail
func (s *BillingService) WithAudit(audits audit.Logger) *BillingService {
	s.audits = audits
	return s
}

// Quote prices an active stay without closing it
func (s *BillingService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	repos := s.newRepos(s.db)

	vehicle, err := s.findActiveVehicle(ctx, repos, req)
	if err != nil {
		return nil, err
	}

	return s.price(ctx, repos, vehicle, req)
}

// Settle charges the stay and closes it atomically: the payment row, the
// vehicle exit and the space release commit together or not at all.
func (s *BillingService) Settle(ctx context.Context, req SettleRequest) (*domain.Payment, error) {
	if !domain.ValidPaymentMethod(req.Method) {
		return nil, domain.ErrInvalidPaymentMethod
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin settle: %w", err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	repos := s.newRepos(tx)

	vehicle, err := s.findActiveVehicle(ctx, repos, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	quote, err := s.price(ctx, repos, vehicle, req.QuoteRequest)
	if err != nil {
		return nil, err
	}

	payment := &domain.Payment{
		VehicleID:      vehicle.ID,
		Method:         req.Method,
		DurationHours:  quote.DurationHours,
		BilledHours:    quote.BilledHours,
		Subtotal:       quote.Subtotal,
		DiscountAmount: quote.DiscountAmount,
		Total:          quote.Total,
		RateApplied:    quote.RateApplied,
		Notes:          req.Notes,
		PaidAt:         quote.ExitTime,
	}

	if err := s.createWithReceipt(ctx, repos, payment); err != nil {
		return nil, err
	}

	exited, err := repos.Vehicles.MarkExited(ctx, vehicle.ID, quote.ExitTime, "")
	if err != nil {
		return nil, err
	}

	if err := repos.Spaces.ReleaseByVehicle(ctx, vehicle.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit settle: %w", err)
	}

	s.sendReceipt(ctx, payment, exited)

	s.publish(ws.EventPaymentSettled, map[string]interface{}{
		"plate":   exited.Plate,
		"receipt": payment.ReceiptNumber,
		"total":   payment.Total,
	})
	s.publish(ws.EventVehicleExited, map[string]interface{}{
		"plate":      exited.Plate,
		"vehicle_id": exited.ID,
	})
	s.auditLog(ctx, audit.Event{
		EventType:     audit.EventPaymentSettled,
		Plate:         exited.Plate,
		ReceiptNumber: payment.ReceiptNumber,
		Success:       true,
		Metadata: map[string]string{
			"method": payment.Method,
			"total":  payment.Total.String(),
		},
	})

	return payment, nil
}

func (s *BillingService) publish(event ws.EventType, data interface{}) {
	if s.events != nil {
		s.events.Publish(string(event), data)
	}
}

func (s *BillingService) auditLog(ctx context.Context, event audit.Event) {
	if s.audits != nil {
		_ = s.audits.Log(ctx, event)
	}
}

// createWithReceipt inserts the payment, regenerating the receipt number
// once if the random suffix collides with an existing one.
func (s *BillingService) createWithReceipt(ctx context.Context, repos Repos, payment *domain.Payment) error {
	payment.ReceiptNumber = s.receipts.Generate()

	err := repos.Payments.Create(ctx, payment)
	if errors.Is(err, domain.ErrReceiptConflict) {
		payment.ID = uuid.Nil
		payment.ReceiptNumber = s.receipts.Generate()
		err = repos.Payments.Create(ctx, payment)
	}
	if err != nil {
		return err
	}

	return nil
}

// sendReceipt enqueues the receipt email. Delivery is best effort: the
// settlement already committed, a mail failure must not undo it.
func (s *BillingService) sendReceipt(ctx context.Context, payment *domain.Payment, vehicle *domain.Vehicle) {
	if s.mail == nil || vehicle.OwnerEmail == "" {
		return
	}

	subject, body, err := mailer.BuildReceiptEmail(payment, vehicle)
	if err != nil {
		s.logger.Error("failed to render receipt email", "receipt", payment.ReceiptNumber, "error", err)
		return
	}

	if err := s.mail.Enqueue(ctx, vehicle.OwnerEmail, subject, body); err != nil {
		s.logger.Error("failed to enqueue receipt email", "receipt", payment.ReceiptNumber, "error", err)
	}
}

func (s *BillingService) findActiveVehicle(ctx context.Context, repos Repos, req QuoteRequest) (*domain.Vehicle, error) {
	if req.VehicleID != nil {
		return repos.Vehicles.GetActiveByID(ctx, *req.VehicleID)
	}
	if req.Plate != "" {
		return repos.Vehicles.GetActiveByPlate(ctx, req.Plate)
	}
	return nil, domain.ErrVehicleNotFound
}

// price is the single computation path shared by Quote and Settle, so a
// settlement always charges exactly what the preceding quote showed.
func (s *BillingService) price(ctx context.Context, repos Repos, vehicle *domain.Vehicle, req QuoteRequest) (*Quote, error) {
	exitTime := s.now()
	if req.ExitTime != nil {
		exitTime = *req.ExitTime
	}

	hours, err := pricing.ComputeDuration(vehicle.EntryTime, exitTime, s.opts)
	if err != nil {
		return nil, err
	}

	rates, err := repos.Rates.ListActiveByClass(ctx, vehicle.Class, exitTime)
	if err != nil {
		return nil, err
	}

	rate, err := pricing.SelectBestRate(vehicle.Class, hours, rates, exitTime)
	if err != nil {
		return nil, err
	}

	charge, err := pricing.CalculateAmount(hours, rate)
	if err != nil {
		return nil, err
	}

	discounted := pricing.ApplyDiscount(charge.Subtotal, req.Discount, req.IsPercentage)

	return &Quote{
		Vehicle:        vehicle,
		ExitTime:       exitTime,
		DurationHours:  hours,
		BilledHours:    charge.BilledHours,
		Subtotal:       discounted.Subtotal,
		DiscountAmount: discounted.DiscountAmount,
		Total:          discounted.Total,
		RateApplied:    charge.Rate,
	}, nil
}

// GetPayment returns one settled payment
func (s *BillingService) GetPayment(ctx context.Context, id uuid.UUID) (*domain.Payment, error) {
	return s.newRepos(s.db).Payments.GetByID(ctx, id)
}

// ListPayments returns settled payments with the total row count for paging
func (s *BillingService) ListPayments(ctx context.Context, filter repository.PaymentFilter) ([]domain.Payment, int, error) {
	return s.newRepos(s.db).Payments.List(ctx, filter)
}

// Refund marks a payment as refunded. The stay itself stays closed.
func (s *BillingService) Refund(ctx context.Context, id uuid.UUID, reason string) (*domain.Payment, error) {
	payment, err := s.newRepos(s.db).Payments.Refund(ctx, id, reason, s.now())
	if err != nil {
		s.auditLog(ctx, audit.Event{
			EventType: audit.EventPaymentRefunded,
			Success:   false,
			Error:     err.Error(),
			Metadata:  map[string]string{"payment_id": id.String()},
		})
		return nil, err
	}

	s.auditLog(ctx, audit.Event{
		EventType:     audit.EventPaymentRefunded,
		ReceiptNumber: payment.ReceiptNumber,
		Success:       true,
		Metadata:      map[string]string{"reason": reason},
	})

	return payment, nil
}
