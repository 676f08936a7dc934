package reporting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/salonpos/internal/billing"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	repo "github.com/mamadbah2/salonpos/internal/repository/sheets"
)

const (
	dateLayout = "2006-01-02"
	rowLayout  = "2006-01-02 15:04"
)

// Store is the persistence the reporting service reads and writes.
type Store interface {
	ListOrders(ctx context.Context, from, to time.Time) ([]models.PosOrder, error)
	GetStylist(ctx context.Context, id string) (models.Stylist, error)
	SaveDailyReport(ctx context.Context, r models.DailySalesReport) error
}

// Service aggregates POS activity and mirrors it to the sales sheet.
type Service struct {
	store      Store
	sheet      repo.Repository
	salesRange string
	loc        *time.Location
	logger     *zap.Logger
	now        func() time.Time
}

// NewService wires a new reporting service instance. sheet may be nil when
// the Google Sheets export is disabled.
func NewService(store Store, sheet repo.Repository, salesRange string, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		store:      store,
		sheet:      sheet,
		salesRange: salesRange,
		loc:        loc,
		logger:     logger,
		now:        time.Now,
	}
}

// ParseDay reads a yyyy-mm-dd date in the salon time zone. An empty value means today.
func (s *Service) ParseDay(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		n := s.now().In(s.loc)
		return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.loc), nil
	}
	return time.ParseInLocation(dateLayout, strings.TrimSpace(value), s.loc)
}

func (s *Service) dayOrders(ctx context.Context, day time.Time) (time.Time, []models.PosOrder, error) {
	d := day.In(s.loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, s.loc)
	orders, err := s.store.ListOrders(ctx, start, start.AddDate(0, 0, 1))
	if err != nil {
		return start, nil, fmt.Errorf("load orders for %s: %w", start.Format(dateLayout), err)
	}
	return start, orders, nil
}

// DailySummary aggregates the day's orders and stores the result.
// Cancelled orders are counted but add nothing to the totals.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (models.DailySalesReport, error) {
	return s.summarize(ctx, day, 0)
}

func (s *Service) summarize(ctx context.Context, day time.Time, synced int) (models.DailySalesReport, error) {
	start, orders, err := s.dayOrders(ctx, day)
	if err != nil {
		return models.DailySalesReport{}, err
	}

	var gross, tax, discount, collected, pending billing.Paise
	byMethod := make(map[models.PaymentMethod]billing.Paise)
	report := models.DailySalesReport{Date: start, SyncedRows: synced}

	for _, o := range orders {
		if o.Status == models.OrderCancelled {
			report.Cancelled++
			continue
		}
		report.OrderCount++
		gross += billing.FromRupees(o.Total)
		tax += billing.FromRupees(o.Tax)
		discount += billing.FromRupees(o.Discount)
		pending += billing.FromRupees(o.PendingAmount)
		for _, p := range o.Payments {
			amt := billing.FromRupees(p.Amount)
			byMethod[p.PaymentMethod] += amt
			if p.PaymentMethod != models.PaymentBNPL {
				collected += amt
			}
		}
	}

	report.GrossSales = gross.Rupees()
	report.Tax = tax.Rupees()
	report.Discount = discount.Rupees()
	report.Collected = collected.Rupees()
	report.Pending = pending.Rupees()
	report.ByMethod = make(map[string]float64, len(byMethod))
	for m, v := range byMethod {
		report.ByMethod[string(m)] = v.Rupees()
	}
	report.GeneratedAt = s.now()

	if err := s.store.SaveDailyReport(ctx, report); err != nil {
		return models.DailySalesReport{}, fmt.Errorf("save daily report: %w", err)
	}

	s.logger.Info("daily summary generated",
		zap.String("date", start.Format(dateLayout)),
		zap.Int("orders", report.OrderCount),
		zap.Float64("gross_sales", report.GrossSales),
		zap.Float64("collected", report.Collected))
	return report, nil
}

// SyncSalesHistory appends one sheet row per order of the day. Orders whose
// id already appears in the sheet are skipped, so a rerun does not duplicate rows.
func (s *Service) SyncSalesHistory(ctx context.Context, day time.Time) (int, error) {
	if s.sheet == nil {
		s.logger.Debug("sales sheet disabled, skipping sync")
		return 0, nil
	}

	start, orders, err := s.dayOrders(ctx, day)
	if err != nil {
		return 0, err
	}

	existing, err := s.syncedOrderIDs(ctx)
	if err != nil {
		return 0, err
	}

	stylists := make(map[string]string)
	rows := make([][]interface{}, 0, len(orders))
	for _, o := range orders {
		if _, ok := existing[o.ID]; ok {
			continue
		}
		rows = append(rows, s.orderRow(ctx, o, stylists))
	}

	if err := s.sheet.AppendRows(ctx, s.salesRange, rows); err != nil {
		return 0, fmt.Errorf("append sales rows: %w", err)
	}

	s.logger.Info("sales history synced",
		zap.String("date", start.Format(dateLayout)),
		zap.Int("rows", len(rows)),
		zap.Int("already_synced", len(orders)-len(rows)))
	return len(rows), nil
}

// CloseDay syncs the sales sheet and then stores the summary with the synced row count.
// A failed sync is logged and does not block the summary.
func (s *Service) CloseDay(ctx context.Context, day time.Time) (models.DailySalesReport, error) {
	synced, err := s.SyncSalesHistory(ctx, day)
	if err != nil {
		s.logger.Error("sales history sync failed", zap.Time("day", day), zap.Error(err))
	}
	return s.summarize(ctx, day, synced)
}

func (s *Service) syncedOrderIDs(ctx context.Context) (map[string]struct{}, error) {
	col, err := idColumn(s.salesRange)
	if err != nil {
		return nil, err
	}
	values, err := s.sheet.ReadRange(ctx, col)
	if err != nil {
		return nil, fmt.Errorf("load synced order ids: %w", err)
	}
	ids := make(map[string]struct{}, len(values))
	for _, row := range values {
		if len(row) == 0 {
			continue
		}
		if id := strings.TrimSpace(fmt.Sprint(row[0])); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}

// idColumn maps "Sales!A:K" to "Sales!B:B", the order id column.
func idColumn(salesRange string) (string, error) {
	sheet, _, ok := strings.Cut(salesRange, "!")
	if !ok || sheet == "" {
		return "", errors.New("sales range must name a sheet, e.g. Sales!A:K")
	}
	return sheet + "!B:B", nil
}

func (s *Service) orderRow(ctx context.Context, o models.PosOrder, stylists map[string]string) []interface{} {
	items := make([]string, 0, len(o.Services))
	for _, it := range o.Services {
		qty := it.Quantity
		if qty <= 0 {
			qty = 1
		}
		items = append(items, fmt.Sprintf("%s x%d", it.Name, qty))
	}

	return []interface{}{
		o.CreatedAt.In(s.loc).Format(rowLayout),
		o.ID,
		o.ClientName,
		s.stylistName(ctx, o.StylistID, stylists),
		strings.Join(items, ", "),
		o.Subtotal,
		o.Tax,
		o.Discount,
		o.Total,
		string(o.PaymentMethod),
		string(o.Status),
	}
}

func (s *Service) stylistName(ctx context.Context, id string, cache map[string]string) string {
	if id == "" {
		return ""
	}
	if name, ok := cache[id]; ok {
		return name
	}
	name := id
	if st, err := s.store.GetStylist(ctx, id); err == nil {
		name = st.Name
	} else {
		s.logger.Debug("stylist lookup failed for sales row", zap.String("stylist_id", id), zap.Error(err))
	}
	cache[id] = name
	return name
}
