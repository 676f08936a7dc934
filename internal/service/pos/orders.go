package pos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/billing"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

const walkInName = "Walk-in Customer"

// Quote is the priced form of an order request, before anything is stored.
type Quote struct {
	Items         []models.OrderLineItem   `json:"items"`
	Subtotal      float64                  `json:"subtotal"`
	Tax           float64                  `json:"tax"`
	Discount      float64                  `json:"discount"`
	Total         float64                  `json:"total"`
	PaymentMethod models.PaymentMethod     `json:"payment_method"`
	Split         *billing.SplitValidation `json:"split,omitempty"`
}

type pricedOrder struct {
	cart       billing.Cart
	method     models.PaymentMethod
	legs       []billing.Leg
	split      bool
	totals     billing.Totals
	validation *billing.SplitValidation
}

func (p pricedOrder) quote() Quote {
	return Quote{
		Items:         p.cart.Lines(),
		Subtotal:      p.totals.Subtotal.Rupees(),
		Tax:           p.totals.Tax.Rupees(),
		Discount:      p.totals.Discount.Rupees(),
		Total:         p.totals.Total.Rupees(),
		PaymentMethod: p.method,
		Split:         p.validation,
	}
}

// price validates the line items and payment legs and computes totals.
func (s *Service) price(ctx context.Context, req models.OrderRequest) (pricedOrder, error) {
	if len(req.Items) == 0 {
		return pricedOrder{}, validationError("Order must contain at least one item")
	}

	items := make([]models.OrderLineItem, 0, len(req.Items))
	for _, item := range req.Items {
		resolved, err := s.resolveItem(ctx, item)
		if err != nil {
			return pricedOrder{}, err
		}
		items = append(items, resolved)
	}

	cart := billing.Reduce(billing.NewCart(items), billing.SetDiscount{Amount: billing.FromRupees(req.Discount)})
	lines := cart.Lines()

	var legs []billing.Leg
	for _, p := range req.Payments {
		amount := billing.FromRupees(p.Amount)
		if amount <= 0 {
			continue
		}
		if !p.PaymentMethod.Valid() {
			return pricedOrder{}, validationError("unknown payment method %q", p.PaymentMethod)
		}
		legs = append(legs, billing.Leg{Method: p.PaymentMethod, Amount: amount})
	}

	out := pricedOrder{cart: cart, legs: legs}
	switch {
	case len(legs) > 1:
		out.split = true
		out.method = models.PaymentSplit
		out.totals = billing.SplitTotals(lines, legs, cart.Discount, s.gstRate)

		amounts := make(map[models.PaymentMethod]billing.Paise, len(legs))
		for _, leg := range legs {
			amounts[leg.Method] += leg.Amount
		}
		var balance *billing.Paise
		if req.MembershipBalance != nil {
			b := billing.FromRupees(*req.MembershipBalance)
			balance = &b
		}
		v := billing.ValidateSplit(amounts, out.totals.Total, balance, s.limits)
		out.validation = &v
		if !v.Valid {
			return out, fmt.Errorf("%w: %s", ErrInvalidSplit, strings.Join(v.Errors, "; "))
		}
	case len(legs) == 1:
		out.method = legs[0].Method
		out.totals = billing.OrderTotals(lines, out.method, cart.Discount, s.gstRate)
	default:
		out.method = req.PaymentMethod
		if out.method == "" {
			out.method = models.PaymentCash
		}
		if !out.method.Valid() {
			return pricedOrder{}, validationError("unknown payment method %q", out.method)
		}
		out.totals = billing.OrderTotals(lines, out.method, cart.Discount, s.gstRate)
	}

	if req.ClientID == "" && out.usesBNPL() {
		return out, validationError("Pay Later requires a registered client")
	}
	return out, nil
}

func (p pricedOrder) usesBNPL() bool {
	if p.method == models.PaymentBNPL {
		return true
	}
	for _, leg := range p.legs {
		if leg.Method == models.PaymentBNPL {
			return true
		}
	}
	return false
}

// resolveItem checks a line against the catalogue and fills in its name.
func (s *Service) resolveItem(ctx context.Context, item models.OrderLineItem) (models.OrderLineItem, error) {
	if !item.Kind.Valid() {
		return item, validationError("unknown line item kind %q", item.Kind)
	}
	if strings.TrimSpace(item.ItemID) == "" {
		return item, validationError("item_id is required")
	}

	switch item.Kind {
	case models.LineProduct:
		p, err := s.store.GetProduct(ctx, item.ItemID)
		if errors.Is(err, repository.ErrNotFound) {
			return item, validationError("unknown product %s", item.ItemID)
		}
		if err != nil {
			return item, err
		}
		if item.Name == "" {
			item.Name = p.Name
		}
	case models.LineService:
		if item.Name != "" {
			break
		}
		svc, err := s.store.GetService(ctx, item.ItemID)
		if errors.Is(err, repository.ErrNotFound) {
			return item, validationError("unknown service %s", item.ItemID)
		}
		if err != nil {
			return item, err
		}
		item.Name = svc.Name
	case models.LineMembership:
		if item.Name == "" {
			item.Name = "Membership"
		}
	}
	return item, nil
}

// Quote prices an order request without storing anything.
func (s *Service) Quote(ctx context.Context, req models.OrderRequest) (Quote, error) {
	p, err := s.price(ctx, req)
	if err != nil && !errors.Is(err, ErrInvalidSplit) {
		return Quote{}, err
	}
	return p.quote(), nil
}

func (s *Service) paymentDetail(m models.PaymentMethod, amount billing.Paise, now time.Time) models.PaymentDetail {
	return models.PaymentDetail{
		ID:            uuid.NewString(),
		Amount:        amount.Rupees(),
		PaymentMethod: m,
		PaymentDate:   now,
		TransactionID: billing.TransactionID(m, now),
		ProcessingFee: billing.ProcessingFee(m, amount, s.limits).Rupees(),
	}
}

// CreateOrder rings up a walk-in sale or bills an appointment.
func (s *Service) CreateOrder(ctx context.Context, req models.OrderRequest) (models.PosOrder, error) {
	var appt *models.Appointment
	if req.AppointmentID != "" {
		a, err := s.store.GetAppointment(ctx, req.AppointmentID)
		if errors.Is(err, repository.ErrNotFound) {
			return models.PosOrder{}, validationError("unknown appointment %s", req.AppointmentID)
		}
		if err != nil {
			return models.PosOrder{}, err
		}
		switch {
		case a.Paid:
			return models.PosOrder{}, fmt.Errorf("%w: %s", ErrAppointmentPaid, a.ID)
		case a.Status == models.AppointmentCancelled:
			return models.PosOrder{}, validationError("cannot bill a cancelled appointment")
		}
		if req.ClientID == "" {
			req.ClientID = a.ClientID
		}
		if req.StylistID == "" {
			req.StylistID = a.StylistID
		}
		appt = &a
	}

	p, err := s.price(ctx, req)
	if err != nil {
		return models.PosOrder{}, err
	}

	clientName := strings.TrimSpace(req.ClientName)
	if req.ClientID != "" {
		c, err := s.loadClient(ctx, req.ClientID)
		if err != nil {
			return models.PosOrder{}, err
		}
		if clientName == "" {
			clientName = c.FullName
		}
	} else if clientName == "" {
		clientName = walkInName
	}

	now := s.now()
	payments := make([]models.PaymentDetail, 0, len(p.legs))
	switch {
	case len(p.legs) > 0:
		for _, leg := range p.legs {
			payments = append(payments, s.paymentDetail(leg.Method, leg.Amount, now))
		}
	default:
		amount := p.totals.Total
		if req.AmountPaid != nil {
			amount = billing.FromRupees(*req.AmountPaid)
			if amount < 0 {
				amount = 0
			}
			if amount > p.totals.Total {
				amount = p.totals.Total
			}
		}
		if amount > 0 {
			payments = append(payments, s.paymentDetail(p.method, amount, now))
		}
	}

	rec := billing.Reconcile(p.totals.Total, p.totals.Subtotal, billing.PaymentAmounts(payments), models.OrderPending)

	order := models.PosOrder{
		ID:             uuid.NewString(),
		ClientID:       req.ClientID,
		ClientName:     clientName,
		StylistID:      req.StylistID,
		AppointmentID:  req.AppointmentID,
		IsWalkIn:       req.AppointmentID == "",
		Services:       p.cart.Lines(),
		Subtotal:       p.totals.Subtotal.Rupees(),
		Tax:            p.totals.Tax.Rupees(),
		Discount:       p.totals.Discount.Rupees(),
		Total:          p.totals.Total.Rupees(),
		PaymentMethod:  p.method,
		Payments:       payments,
		PendingAmount:  rec.Pending.Rupees(),
		IsSplitPayment: p.split,
		Status:         rec.Status,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertOrder(ctx, order); err != nil {
		return models.PosOrder{}, fmt.Errorf("insert order: %w", err)
	}

	s.applyOrderEffects(ctx, order, appt)

	s.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.String("client_id", order.ClientID),
		zap.Float64("total", order.Total),
		zap.Float64("pending", order.PendingAmount),
		zap.String("status", string(order.Status)))
	return order, nil
}

// applyOrderEffects updates stock, the billed appointment and the client.
// The order is already stored, so failures are logged rather than returned.
func (s *Service) applyOrderEffects(ctx context.Context, order models.PosOrder, appt *models.Appointment) {
	s.adjustStock(ctx, order, -1)

	if appt != nil {
		appt.Paid = true
		if appt.Status.CanTransitionTo(models.AppointmentCompleted) {
			appt.Status = models.AppointmentCompleted
		}
		appt.UpdatedAt = order.CreatedAt
		if err := s.store.UpdateAppointment(ctx, *appt); err != nil {
			s.logger.Error("failed to mark appointment paid",
				zap.String("appointment_id", appt.ID),
				zap.String("order_id", order.ID),
				zap.Error(err))
		}
	}

	if err := s.updateClientFromOrder(ctx, order); err != nil {
		s.logger.Error("failed to update client from order",
			zap.String("client_id", order.ClientID),
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}

// adjustStock moves product stock by sign*quantity for every product line.
func (s *Service) adjustStock(ctx context.Context, order models.PosOrder, sign int) {
	for _, item := range order.Services {
		if item.Kind != models.LineProduct {
			continue
		}
		qty := item.Quantity
		if qty <= 0 {
			qty = 1
		}
		if err := s.store.AdjustStock(ctx, item.ItemID, sign*qty); err != nil {
			s.logger.Error("failed to adjust stock",
				zap.String("product_id", item.ItemID),
				zap.Int("delta", sign*qty),
				zap.Error(err))
		}
	}
}

// clientDeltas splits payments into money received and Pay Later debt.
func clientDeltas(payments []models.PaymentDetail) (spent, pending billing.Paise) {
	for _, p := range payments {
		amount := billing.FromRupees(p.Amount)
		if p.PaymentMethod == models.PaymentBNPL {
			pending += amount
		} else {
			spent += amount
		}
	}
	return spent, pending
}

func (s *Service) updateClientFromOrder(ctx context.Context, order models.PosOrder) error {
	if order.ClientID == "" {
		return nil
	}
	spent, pending := clientDeltas(order.Payments)
	return s.store.ApplyOrderToClient(ctx, order.ClientID, int64(spent), int64(pending), order.CreatedAt)
}

// AddPayment applies another payment leg to an order with a balance due.
func (s *Service) AddPayment(ctx context.Context, orderID string, req models.AddPaymentRequest) (models.PosOrder, error) {
	amount := billing.FromRupees(req.Amount)
	if amount <= 0 {
		return models.PosOrder{}, validationError("Payment amount must be positive")
	}
	if !req.PaymentMethod.Valid() {
		return models.PosOrder{}, validationError("unknown payment method %q", req.PaymentMethod)
	}

	order, err := s.loadOrder(ctx, orderID)
	if err != nil {
		return order, err
	}
	if order.Status == models.OrderCancelled {
		return order, fmt.Errorf("%w: %s", ErrOrderClosed, order.ID)
	}
	if order.PendingAmount <= 0 {
		return order, fmt.Errorf("%w: %s", ErrAlreadySettled, order.ID)
	}
	if req.PaymentMethod == models.PaymentBNPL && order.ClientID == "" {
		return order, validationError("Pay Later requires a registered client")
	}

	now := s.now()
	detail := s.paymentDetail(req.PaymentMethod, amount, now)
	order.Payments = append(order.Payments, detail)
	if order.PaymentMethod != req.PaymentMethod {
		order.PaymentMethod = models.PaymentSplit
		order.IsSplitPayment = true
	}

	rec := billing.Reconcile(billing.FromRupees(order.Total), billing.FromRupees(order.Subtotal), billing.PaymentAmounts(order.Payments), order.Status)
	order.PendingAmount = rec.Pending.Rupees()
	order.Status = rec.Status
	order.UpdatedAt = now

	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return order, fmt.Errorf("update order: %w", err)
	}

	if order.ClientID != "" {
		spent, pending := clientDeltas([]models.PaymentDetail{detail})
		if err := s.store.AdjustClientBalance(ctx, order.ClientID, int64(spent), int64(pending)); err != nil {
			s.logger.Error("failed to update client balance", zap.String("client_id", order.ClientID), zap.Error(err))
		}
	}

	s.logger.Info("payment added",
		zap.String("order_id", order.ID),
		zap.String("method", string(req.PaymentMethod)),
		zap.Float64("amount", detail.Amount),
		zap.String("status", string(order.Status)))
	return order, nil
}

// CancelOrder voids an order, restocks its products and reverses its effect
// on the client's balances.
func (s *Service) CancelOrder(ctx context.Context, id string) (models.PosOrder, error) {
	order, err := s.loadOrder(ctx, id)
	if err != nil {
		return order, err
	}
	if order.Status == models.OrderCancelled {
		return order, fmt.Errorf("%w: %s", ErrOrderClosed, order.ID)
	}

	order.Status = models.OrderCancelled
	order.UpdatedAt = s.now()
	if err := s.store.UpdateOrder(ctx, order); err != nil {
		return order, fmt.Errorf("update order: %w", err)
	}

	s.adjustStock(ctx, order, 1)
	if order.ClientID != "" {
		spent, pending := clientDeltas(order.Payments)
		if err := s.store.AdjustClientBalance(ctx, order.ClientID, -int64(spent), -int64(pending)); err != nil {
			s.logger.Error("failed to reverse client balance", zap.String("client_id", order.ClientID), zap.Error(err))
		}
	}

	s.logger.Info("order cancelled", zap.String("order_id", order.ID))
	return order, nil
}
