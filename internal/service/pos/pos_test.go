package pos

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/salonpos/internal/config"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository/memory"
)

var fixedNow = time.Date(2025, 3, 10, 11, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InsertClient(ctx, models.Client{ID: "c1", FullName: "Asha", Phone: "9021264696"}))
	require.NoError(t, store.InsertService(ctx, models.Service{ID: "cut", Name: "Haircut", Price: 600}))
	require.NoError(t, store.InsertService(ctx, models.Service{ID: "wash", Name: "Hair Wash", Price: 200}))
	require.NoError(t, store.InsertProduct(ctx, models.Product{ID: "p1", Name: "Shampoo", HSNCode: "3305", Price: 350, StockQuantity: 10}))

	svc := NewService(store, config.SalonConfig{Name: "RG Salon", Timezone: "UTC", GSTRate: 0.18}, nil)
	svc.now = func() time.Time { return fixedNow }
	return svc, store
}

func basket() []models.OrderLineItem {
	return []models.OrderLineItem{
		{Kind: models.LineService, ItemID: "cut", Price: 600, Quantity: 1},
		{Kind: models.LineService, ItemID: "wash", Price: 200, Quantity: 2},
	}
}

func ptr(v float64) *float64 { return &v }

func TestService_CreateOrderWalkInCash(t *testing.T) {
	svc, _ := newTestService(t)

	order, err := svc.CreateOrder(context.Background(), models.OrderRequest{Items: basket(), PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	assert.True(t, order.IsWalkIn)
	assert.Equal(t, walkInName, order.ClientName)
	assert.Equal(t, 1000.0, order.Subtotal)
	assert.Equal(t, 0.0, order.Tax)
	assert.Equal(t, 1000.0, order.Total)
	assert.Equal(t, models.OrderCompleted, order.Status)
	require.Len(t, order.Payments, 1)
	assert.Equal(t, 1000.0, order.Payments[0].Amount)
	assert.Contains(t, order.Payments[0].TransactionID, "CASH")
	assert.Equal(t, "Haircut", order.Services[0].Name, "names are filled from the catalogue")
}

func TestService_CreateOrderTaxAndClientTotals(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.OrderRequest{ClientID: "c1", Items: basket(), PaymentMethod: models.PaymentUPI})
	require.NoError(t, err)
	assert.Equal(t, 153.0, order.Tax)
	assert.Equal(t, 1153.0, order.Total)
	assert.Equal(t, "Asha", order.ClientName)
	assert.Equal(t, models.OrderCompleted, order.Status)

	c, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1153.0, c.TotalSpent())
	assert.Equal(t, 0.0, c.PendingPayment())
	assert.Equal(t, 1, c.AppointmentCount)
	require.NotNil(t, c.LastVisit)
	assert.Equal(t, fixedNow, *c.LastVisit)
}

func TestService_CreateOrderBNPL(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateOrder(ctx, models.OrderRequest{Items: basket(), PaymentMethod: models.PaymentBNPL})
	assert.ErrorIs(t, err, ErrValidation, "walk-ins cannot pay later")

	order, err := svc.CreateOrder(ctx, models.OrderRequest{ClientID: "c1", Items: basket(), PaymentMethod: models.PaymentBNPL})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, order.Status)

	c, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1153.0, c.PendingPayment())
	assert.Equal(t, 0.0, c.TotalSpent())
}

func TestService_PartialPaymentThenAddPayment(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.OrderRequest{ClientID: "c1", Items: basket(), PaymentMethod: models.PaymentUPI, AmountPaid: ptr(500)})
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.Equal(t, 653.0, order.PendingAmount)

	order, err = svc.AddPayment(ctx, order.ID, models.AddPaymentRequest{Amount: 653, PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, order.Status)
	assert.Equal(t, 0.0, order.PendingAmount)
	assert.Equal(t, models.PaymentSplit, order.PaymentMethod)
	assert.True(t, order.IsSplitPayment)
	assert.Len(t, order.Payments, 2)

	c, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, 1153.0, c.TotalSpent())
	assert.Equal(t, 1, c.AppointmentCount, "a later payment is not a new visit")

	_, err = svc.AddPayment(ctx, order.ID, models.AddPaymentRequest{Amount: 1, PaymentMethod: models.PaymentCash})
	assert.ErrorIs(t, err, ErrAlreadySettled)
	_, err = svc.AddPayment(ctx, "missing", models.AddPaymentRequest{Amount: 1, PaymentMethod: models.PaymentCash})
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_CreateOrderSplit(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.OrderRequest{
		Items: basket(),
		Payments: []models.PaymentLeg{
			{PaymentMethod: models.PaymentCash, Amount: 600},
			{PaymentMethod: models.PaymentUPI, Amount: 400},
		},
	})
	require.NoError(t, err)
	assert.True(t, order.IsSplitPayment)
	assert.Equal(t, models.PaymentSplit, order.PaymentMethod)
	assert.Equal(t, 153.0, order.Tax)
	assert.Equal(t, 1153.0, order.Total)
	assert.Equal(t, models.OrderCompleted, order.Status, "paying the subtotal is within tolerance")
	assert.Equal(t, 0.0, order.PendingAmount)

	_, err = svc.CreateOrder(ctx, models.OrderRequest{
		Items: basket(),
		Payments: []models.PaymentLeg{
			{PaymentMethod: models.PaymentCash, Amount: 900},
			{PaymentMethod: models.PaymentBNPL, Amount: 100},
		},
		ClientID: "c1",
	})
	require.ErrorIs(t, err, ErrInvalidSplit)
	assert.Contains(t, err.Error(), "Pay Later minimum")
}

func TestService_Quote(t *testing.T) {
	svc, store := newTestService(t)
	q, err := svc.Quote(context.Background(), models.OrderRequest{Items: basket(), PaymentMethod: models.PaymentCreditCard, Discount: 100})
	require.NoError(t, err)
	assert.Equal(t, 1053.0, q.Total)

	orders, err := store.ListOrders(context.Background(), fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestService_CreateOrderValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  models.OrderRequest
	}{
		{"no items", models.OrderRequest{}},
		{"unknown kind", models.OrderRequest{Items: []models.OrderLineItem{{Kind: "gift", ItemID: "x", Price: 10}}}},
		{"missing item id", models.OrderRequest{Items: []models.OrderLineItem{{Kind: models.LineService, Price: 10}}}},
		{"unknown product", models.OrderRequest{Items: []models.OrderLineItem{{Kind: models.LineProduct, ItemID: "nope", Price: 10}}}},
		{"unknown method", models.OrderRequest{Items: basket(), PaymentMethod: "cheque"}},
		{"unknown appointment", models.OrderRequest{Items: basket(), AppointmentID: "nope"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateOrder(ctx, tt.req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := svc.CreateOrder(ctx, models.OrderRequest{ClientID: "ghost", Items: basket()})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestService_ProductStockAndCancel(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.OrderRequest{
		ClientID:      "c1",
		PaymentMethod: models.PaymentCash,
		Items:         []models.OrderLineItem{{Kind: models.LineProduct, ItemID: "p1", Price: 350, Quantity: 3}},
	})
	require.NoError(t, err)
	p, _ := store.GetProduct(ctx, "p1")
	assert.Equal(t, 7, p.StockQuantity)

	cancelled, err := svc.CancelOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCancelled, cancelled.Status)

	p, _ = store.GetProduct(ctx, "p1")
	assert.Equal(t, 10, p.StockQuantity)
	c, _ := store.GetClient(ctx, "c1")
	assert.Equal(t, 0.0, c.TotalSpent())

	_, err = svc.CancelOrder(ctx, order.ID)
	assert.ErrorIs(t, err, ErrOrderClosed)
	_, err = svc.AddPayment(ctx, order.ID, models.AddPaymentRequest{Amount: 1, PaymentMethod: models.PaymentCash})
	assert.ErrorIs(t, err, ErrOrderClosed)
}

func TestService_CreateOrderForAppointment(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.InsertAppointment(ctx, models.Appointment{
		ID: "a1", ClientID: "c1", StylistID: "s1", Status: models.AppointmentScheduled,
		StartTime: fixedNow.Add(-time.Hour), EndTime: fixedNow,
	}))

	order, err := svc.CreateOrder(ctx, models.OrderRequest{AppointmentID: "a1", Items: basket(), PaymentMethod: models.PaymentCash})
	require.NoError(t, err)
	assert.False(t, order.IsWalkIn)
	assert.Equal(t, "c1", order.ClientID)
	assert.Equal(t, "s1", order.StylistID)

	appt, err := store.GetAppointment(ctx, "a1")
	require.NoError(t, err)
	assert.True(t, appt.Paid)
	assert.Equal(t, models.AppointmentCompleted, appt.Status)

	_, err = svc.CreateOrder(ctx, models.OrderRequest{AppointmentID: "a1", Items: basket()})
	assert.ErrorIs(t, err, ErrAppointmentPaid)
}

func TestService_ProcessPendingPayment(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.InsertClient(ctx, models.Client{ID: "c2", FullName: "Dev", PendingPaise: 100000}))

	_, err := svc.ProcessPendingPayment(ctx, "c2", models.PendingPaymentRequest{Amount: 1500, PaymentMethod: models.PaymentCash})
	require.ErrorIs(t, err, ErrExceedsPending)
	assert.Equal(t, "Payment amount exceeds pending amount", err.Error())

	c, _ := store.GetClient(ctx, "c2")
	assert.Equal(t, 1000.0, c.PendingPayment(), "a rejected settlement writes nothing")

	rec, err := svc.ProcessPendingPayment(ctx, "c2", models.PendingPaymentRequest{Amount: 400, PaymentMethod: models.PaymentUPI, Notes: "part"})
	require.NoError(t, err)
	assert.Equal(t, 400.0, rec.Amount)

	c, _ = store.GetClient(ctx, "c2")
	assert.Equal(t, 600.0, c.PendingPayment())
	assert.Equal(t, 400.0, c.TotalSpent())

	history, err := svc.PendingPayments(ctx, "c2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "part", history[0].Notes)

	_, err = svc.ProcessPendingPayment(ctx, "c2", models.PendingPaymentRequest{Amount: 10, PaymentMethod: models.PaymentBNPL})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.ProcessPendingPayment(ctx, "ghost", models.PendingPaymentRequest{Amount: 10, PaymentMethod: models.PaymentCash})
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestService_SettleFullBalanceAfterSeveralBNPLOrders(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, store.InsertService(ctx, models.Service{ID: "thread", Name: "Threading", Price: 10.10}))
	require.NoError(t, store.InsertService(ctx, models.Service{ID: "tint", Name: "Brow Tint", Price: 12.59}))

	var due float64
	for _, item := range []models.OrderLineItem{
		{Kind: models.LineService, ItemID: "thread", Price: 10.10, Quantity: 1},
		{Kind: models.LineService, ItemID: "tint", Price: 12.59, Quantity: 1},
	} {
		order, err := svc.CreateOrder(ctx, models.OrderRequest{ClientID: "c1", Items: []models.OrderLineItem{item}, PaymentMethod: models.PaymentBNPL})
		require.NoError(t, err)
		due += order.Total
	}

	c, err := store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, int64(2669), c.PendingPaise)
	assert.Equal(t, 26.69, c.PendingPayment())

	_, err = svc.ProcessPendingPayment(ctx, "c1", models.PendingPaymentRequest{Amount: c.PendingPayment(), PaymentMethod: models.PaymentCash})
	require.NoError(t, err)

	c, err = store.GetClient(ctx, "c1")
	require.NoError(t, err)
	assert.Zero(t, c.PendingPaise)
	assert.Equal(t, int64(2669), c.TotalSpentPaise)
	assert.InDelta(t, 26.69, due, 0.001)
}

func TestService_RecordPurchase(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()

	rec, err := svc.RecordPurchase(ctx, models.PurchaseInput{
		ProductID: "p1", ProductName: "Shampoo", PurchaseQty: 5, MRPInclGST: 118, GSTPercentage: 18, DiscountOnPurchasePercentage: 10,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "3305", rec.HSNCode)
	assert.Equal(t, fixedNow, rec.Date)
	assert.Equal(t, 90.0, rec.PurchaseCostPerUnitExGST)
	assert.Equal(t, 450.0, rec.TaxableValue)
	assert.Equal(t, 40.5, rec.CGST)
	assert.Equal(t, 531.0, rec.InvoiceValue)

	p, _ := store.GetProduct(ctx, "p1")
	assert.Equal(t, 15, p.StockQuantity)

	_, err = svc.RecordPurchase(ctx, models.PurchaseInput{ProductName: "X", PurchaseQty: 0})
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.RecordPurchase(ctx, models.PurchaseInput{ProductID: "nope", ProductName: "X", PurchaseQty: 1})
	assert.ErrorIs(t, err, ErrValidation)

	preview, err := svc.PreviewPurchase(models.PurchaseInput{ProductName: "Oil", PurchaseQty: 1, MRPInclGST: 118, GSTPercentage: 18})
	require.NoError(t, err)
	assert.Equal(t, 118.0, preview.InvoiceValue)
}

func TestService_Receipt(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	order, err := svc.CreateOrder(ctx, models.OrderRequest{ClientID: "c1", Items: basket(), PaymentMethod: models.PaymentUPI, AmountPaid: ptr(1000)})
	require.NoError(t, err)

	pdf, err := svc.Receipt(ctx, order.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))

	_, err = svc.Receipt(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestService_ValidateSplitAndDistribute(t *testing.T) {
	svc, _ := newTestService(t)

	res, err := svc.ValidateSplit(SplitRequest{Total: 20000, Amounts: map[models.PaymentMethod]float64{
		models.PaymentUPI:        15000,
		models.PaymentCreditCard: 5000,
	}})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Equal(t, 125.0, res.ProcessingFees)
	assert.Equal(t, []models.PaymentMethod{models.PaymentUPI}, res.NeedsCheck)

	_, err = svc.ValidateSplit(SplitRequest{Total: 10, Amounts: map[models.PaymentMethod]float64{"cheque": 10}})
	assert.ErrorIs(t, err, ErrValidation)

	dist, err := svc.Distribute(DistributeRequest{
		Total:             1000,
		Methods:           []models.PaymentMethod{models.PaymentMembership, models.PaymentCash},
		MembershipBalance: 300,
	})
	require.NoError(t, err)
	assert.Equal(t, 300.0, dist[models.PaymentMembership])
	assert.Equal(t, 700.0, dist[models.PaymentCash])
}
