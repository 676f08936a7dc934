package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository/memory"
)

type fakeSheet struct {
	appended  [][]interface{}
	ranges    []string
	existing  [][]interface{}
	appendErr error
}

func (f *fakeSheet) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.ranges = append(f.ranges, sheetRange)
	f.appended = append(f.appended, rows...)
	return nil
}

func (f *fakeSheet) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	f.ranges = append(f.ranges, sheetRange)
	return f.existing, nil
}

var day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

func seed(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InsertStylist(ctx, models.Stylist{ID: "s1", Name: "Ravi", Available: true}))

	orders := []models.PosOrder{
		{
			ID: "o1", ClientName: "Asha", StylistID: "s1", Status: models.OrderCompleted,
			Services: []models.OrderLineItem{{Kind: models.LineService, ItemID: "cut", Name: "Haircut", Price: 500, Quantity: 1}},
			Subtotal: 500, Tax: 90, Total: 590, PaymentMethod: models.PaymentCash,
			Payments:  []models.PaymentDetail{{Amount: 590, PaymentMethod: models.PaymentCash}},
			CreatedAt: day.Add(10 * time.Hour),
		},
		{
			ID: "o2", ClientName: "Walk-in Customer", Status: models.OrderPending,
			Services: []models.OrderLineItem{{Kind: models.LineProduct, ItemID: "gel", Name: "Gel", Price: 100, Quantity: 2}},
			Subtotal: 200, Tax: 36, Discount: 10.5, Total: 225.5, PaymentMethod: models.PaymentSplit,
			Payments: []models.PaymentDetail{
				{Amount: 100.25, PaymentMethod: models.PaymentUPI},
				{Amount: 25.25, PaymentMethod: models.PaymentBNPL},
			},
			PendingAmount: 100,
			CreatedAt:     day.Add(15 * time.Hour),
		},
		{
			ID: "o3", ClientName: "Asha", Status: models.OrderCancelled,
			Subtotal: 1000, Total: 1180, CreatedAt: day.Add(16 * time.Hour),
		},
		{
			ID: "o4", ClientName: "Tomorrow", Status: models.OrderCompleted,
			Total: 50, CreatedAt: day.Add(25 * time.Hour),
		},
	}
	for _, o := range orders {
		require.NoError(t, store.InsertOrder(ctx, o))
	}
	return store
}

func TestService_DailySummary(t *testing.T) {
	store := seed(t)
	svc := NewService(store, nil, "Sales!A:K", time.UTC, nil)

	report, err := svc.DailySummary(context.Background(), day.Add(12*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, day, report.Date)
	assert.Equal(t, 2, report.OrderCount)
	assert.Equal(t, 1, report.Cancelled)
	assert.InDelta(t, 815.5, report.GrossSales, 0.001)
	assert.InDelta(t, 126, report.Tax, 0.001)
	assert.InDelta(t, 10.5, report.Discount, 0.001)
	assert.InDelta(t, 690.25, report.Collected, 0.001)
	assert.InDelta(t, 100, report.Pending, 0.001)
	assert.Equal(t, map[string]float64{"cash": 590, "upi": 100.25, "bnpl": 25.25}, report.ByMethod)

	stored, ok := store.DailyReport(day)
	require.True(t, ok)
	assert.Equal(t, report.OrderCount, stored.OrderCount)
}

func TestService_SyncSalesHistory(t *testing.T) {
	store := seed(t)
	sheet := &fakeSheet{existing: [][]interface{}{{"Order ID"}, {"o3"}}}
	svc := NewService(store, sheet, "Sales!A:K", time.UTC, nil)

	n, err := svc.SyncSalesHistory(context.Background(), day)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"Sales!B:B", "Sales!A:K"}, sheet.ranges)

	require.Len(t, sheet.appended, 2)
	assert.Equal(t, []interface{}{
		"2025-03-10 10:00", "o1", "Asha", "Ravi", "Haircut x1",
		500.0, 90.0, 0.0, 590.0, "cash", "completed",
	}, sheet.appended[0])
	assert.Equal(t, "", sheet.appended[1][3])
	assert.Equal(t, "Gel x2", sheet.appended[1][4])
	assert.Equal(t, "split", sheet.appended[1][9])
}

func TestService_SyncSalesHistoryDisabled(t *testing.T) {
	svc := NewService(seed(t), nil, "Sales!A:K", time.UTC, nil)
	n, err := svc.SyncSalesHistory(context.Background(), day)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestService_CloseDay(t *testing.T) {
	t.Run("records synced rows", func(t *testing.T) {
		store := seed(t)
		svc := NewService(store, &fakeSheet{}, "Sales!A:K", time.UTC, nil)

		report, err := svc.CloseDay(context.Background(), day)
		require.NoError(t, err)
		assert.Equal(t, 3, report.SyncedRows)
	})

	t.Run("summary survives a failed sync", func(t *testing.T) {
		store := seed(t)
		svc := NewService(store, &fakeSheet{appendErr: errors.New("quota")}, "Sales!A:K", time.UTC, nil)

		report, err := svc.CloseDay(context.Background(), day)
		require.NoError(t, err)
		assert.Zero(t, report.SyncedRows)
		assert.Equal(t, 2, report.OrderCount)
	})
}

func TestIDColumn(t *testing.T) {
	col, err := idColumn("Sales!A:K")
	require.NoError(t, err)
	assert.Equal(t, "Sales!B:B", col)

	_, err = idColumn("A:K")
	assert.Error(t, err)
}

func TestService_ParseDay(t *testing.T) {
	svc := NewService(memory.NewStore(), nil, "Sales!A:K", time.UTC, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 10, 18, 30, 0, 0, time.UTC) }

	d, err := svc.ParseDay("")
	require.NoError(t, err)
	assert.Equal(t, day, d)

	d, err = svc.ParseDay("2025-03-10")
	require.NoError(t, err)
	assert.Equal(t, day, d)

	_, err = svc.ParseDay("10/03/2025")
	assert.Error(t, err)
}
