package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/billing"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

// ProcessPendingPayment settles part or all of a client's Pay Later balance.
func (s *Service) ProcessPendingPayment(ctx context.Context, clientID string, req models.PendingPaymentRequest) (models.PendingPaymentRecord, error) {
	amount := billing.FromRupees(req.Amount)
	if amount <= 0 {
		return models.PendingPaymentRecord{}, validationError("Payment amount must be positive")
	}
	if !req.PaymentMethod.Valid() || req.PaymentMethod == models.PaymentBNPL {
		return models.PendingPaymentRecord{}, validationError("invalid settlement method %q", req.PaymentMethod)
	}

	client, err := s.loadClient(ctx, clientID)
	if err != nil {
		return models.PendingPaymentRecord{}, err
	}
	if amount > billing.Paise(client.PendingPaise) {
		return models.PendingPaymentRecord{}, ErrExceedsPending
	}

	// The store re-checks the balance so a concurrent settlement cannot
	// push it below zero.
	if err := s.store.SettlePending(ctx, clientID, int64(amount)); err != nil {
		switch {
		case errors.Is(err, repository.ErrInsufficientPending):
			return models.PendingPaymentRecord{}, ErrExceedsPending
		case errors.Is(err, repository.ErrNotFound):
			return models.PendingPaymentRecord{}, fmt.Errorf("%w: %s", ErrClientNotFound, clientID)
		}
		return models.PendingPaymentRecord{}, fmt.Errorf("settle pending: %w", err)
	}

	rec := models.PendingPaymentRecord{
		ID:            uuid.NewString(),
		ClientID:      clientID,
		Amount:        amount.Rupees(),
		PaymentMethod: req.PaymentMethod,
		PaymentDate:   s.now(),
		Notes:         strings.TrimSpace(req.Notes),
	}
	if err := s.store.InsertPendingPayment(ctx, rec); err != nil {
		s.logger.Error("settlement applied but history not recorded",
			zap.String("client_id", clientID),
			zap.Float64("amount", rec.Amount),
			zap.Error(err))
		return rec, nil
	}

	s.logger.Info("pending payment settled",
		zap.String("client_id", clientID),
		zap.Float64("amount", rec.Amount),
		zap.String("method", string(rec.PaymentMethod)))
	return rec, nil
}

// PendingPayments lists a client's settlements, newest first.
func (s *Service) PendingPayments(ctx context.Context, clientID string) ([]models.PendingPaymentRecord, error) {
	if _, err := s.loadClient(ctx, clientID); err != nil {
		return nil, err
	}
	return s.store.ListPendingPayments(ctx, clientID)
}

// SplitRequest asks whether a set of per-method amounts can settle total.
type SplitRequest struct {
	Total             float64                          `json:"total" binding:"required"`
	Amounts           map[models.PaymentMethod]float64 `json:"amounts" binding:"required"`
	MembershipBalance *float64                         `json:"membership_balance"`
}

// SplitResult is the rupee form of a split validation.
type SplitResult struct {
	Valid          bool                   `json:"valid"`
	Errors         []string               `json:"errors"`
	Warnings       []string               `json:"warnings"`
	TotalPaid      float64                `json:"total_paid"`
	Remaining      float64                `json:"remaining"`
	ProcessingFees float64                `json:"processing_fees"`
	NeedsCheck     []models.PaymentMethod `json:"requires_verification"`
}

// ValidateSplit checks a proposed split against the payment limits.
func (s *Service) ValidateSplit(req SplitRequest) (SplitResult, error) {
	amounts := make(map[models.PaymentMethod]billing.Paise, len(req.Amounts))
	for m, v := range req.Amounts {
		if !m.Valid() {
			return SplitResult{}, validationError("unknown payment method %q", m)
		}
		amounts[m] = billing.FromRupees(v)
	}

	var balance *billing.Paise
	if req.MembershipBalance != nil {
		b := billing.FromRupees(*req.MembershipBalance)
		balance = &b
	}

	v := billing.ValidateSplit(amounts, billing.FromRupees(req.Total), balance, s.limits)
	res := SplitResult{
		Valid:          v.Valid,
		Errors:         nonNil(v.Errors),
		Warnings:       nonNil(v.Warnings),
		TotalPaid:      v.TotalPaid.Rupees(),
		Remaining:      v.Remaining.Rupees(),
		ProcessingFees: v.ProcessingFees.Rupees(),
		NeedsCheck:     []models.PaymentMethod{},
	}
	for _, m := range billing.MethodOrder {
		if amounts[m] > 0 && billing.RequiresVerification(m, amounts[m], s.limits) {
			res.NeedsCheck = append(res.NeedsCheck, m)
		}
	}
	return res, nil
}

// DistributeRequest asks for a suggested split of total.
type DistributeRequest struct {
	Total             float64                          `json:"total" binding:"required"`
	Methods           []models.PaymentMethod           `json:"methods" binding:"required"`
	MembershipBalance float64                          `json:"membership_balance"`
	Preferences       map[models.PaymentMethod]float64 `json:"preferences"`
}

// Distribute suggests how to spread total over the chosen methods.
func (s *Service) Distribute(req DistributeRequest) (map[models.PaymentMethod]float64, error) {
	for _, m := range req.Methods {
		if !m.Valid() {
			return nil, validationError("unknown payment method %q", m)
		}
	}
	prefs := make(map[models.PaymentMethod]billing.Paise, len(req.Preferences))
	for m, v := range req.Preferences {
		prefs[m] = billing.FromRupees(v)
	}

	dist := billing.OptimalDistribution(billing.FromRupees(req.Total), req.Methods, billing.FromRupees(req.MembershipBalance), prefs, s.limits)
	out := make(map[models.PaymentMethod]float64, len(dist))
	for m, v := range dist {
		out[m] = v.Rupees()
	}
	return out, nil
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
