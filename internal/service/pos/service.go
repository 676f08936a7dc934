// Package pos rings up sales, takes payments, settles Pay Later balances and
// records stock purchases. All money arithmetic goes through the billing
// engine in paise; rupee floats only appear at the storage boundary.
package pos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/billing"
	"github.com/mamadbah2/salonpos/internal/config"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

var (
	ErrValidation      = errors.New("invalid request")
	ErrOrderNotFound   = errors.New("order not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrOrderClosed     = errors.New("order is cancelled")
	ErrExceedsPending  = errors.New("Payment amount exceeds pending amount")
	ErrInvalidSplit    = errors.New("invalid split payment")
	ErrAlreadySettled  = errors.New("order is already fully paid")
	ErrAppointmentPaid = errors.New("appointment is already paid")
)

// Store is the persistence the POS needs.
type Store interface {
	InsertOrder(ctx context.Context, o models.PosOrder) error
	GetOrder(ctx context.Context, id string) (models.PosOrder, error)
	UpdateOrder(ctx context.Context, o models.PosOrder) error
	ListOrders(ctx context.Context, from, to time.Time) ([]models.PosOrder, error)

	GetAppointment(ctx context.Context, id string) (models.Appointment, error)
	UpdateAppointment(ctx context.Context, a models.Appointment) error

	GetClient(ctx context.Context, id string) (models.Client, error)
	ApplyOrderToClient(ctx context.Context, clientID string, spent, pending int64, visit time.Time) error
	AdjustClientBalance(ctx context.Context, clientID string, spent, pending int64) error
	SettlePending(ctx context.Context, clientID string, amount int64) error
	InsertPendingPayment(ctx context.Context, rec models.PendingPaymentRecord) error
	ListPendingPayments(ctx context.Context, clientID string) ([]models.PendingPaymentRecord, error)

	GetService(ctx context.Context, id string) (models.Service, error)
	GetProduct(ctx context.Context, id string) (models.Product, error)
	AdjustStock(ctx context.Context, productID string, delta int) error
	InsertPurchase(ctx context.Context, p models.PurchaseRecord) error
	ListPurchases(ctx context.Context, from, to time.Time) ([]models.PurchaseRecord, error)
}

// Service implements the till.
type Service struct {
	store   Store
	salon   config.SalonConfig
	gstRate float64
	limits  billing.Limits
	loc     *time.Location
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires the POS service.
func NewService(store Store, salon config.SalonConfig, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc, err := salon.Location()
	if err != nil {
		loc = time.UTC
	}
	rate := salon.GSTRate
	if rate <= 0 {
		rate = billing.DefaultGSTRate
	}
	return &Service{
		store:   store,
		salon:   salon,
		gstRate: rate,
		limits:  billing.DefaultLimits,
		loc:     loc,
		logger:  logger,
		now:     time.Now,
	}
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func (s *Service) loadOrder(ctx context.Context, id string) (models.PosOrder, error) {
	o, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return o, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	return o, err
}

func (s *Service) loadClient(ctx context.Context, id string) (models.Client, error) {
	c, err := s.store.GetClient(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return c, fmt.Errorf("%w: %s", ErrClientNotFound, id)
	}
	return c, err
}

// GetOrder loads one order.
func (s *Service) GetOrder(ctx context.Context, id string) (models.PosOrder, error) {
	return s.loadOrder(ctx, id)
}

// ListOrders returns orders created in [from, to).
func (s *Service) ListOrders(ctx context.Context, from, to time.Time) ([]models.PosOrder, error) {
	if !to.After(from) {
		return nil, validationError("to must be after from")
	}
	return s.store.ListOrders(ctx, from, to)
}

// Location returns the salon time zone.
func (s *Service) Location() *time.Location { return s.loc }
