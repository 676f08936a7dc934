// Package memory is an in-process storage backend with the same surface as
// the MongoDB repository. It backs local runs and service tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository"
)

// Store keeps every collection in maps guarded by one RWMutex.
type Store struct {
	mu              sync.RWMutex
	appointments    map[string]models.Appointment
	stylists        map[string]models.Stylist
	clients         map[string]models.Client
	services        map[string]models.Service
	products        map[string]models.Product
	orders          map[string]models.PosOrder
	purchases       map[string]models.PurchaseRecord
	pendingPayments []models.PendingPaymentRecord
	reminders       map[string]models.ReminderLog
	reports         map[string]models.DailySalesReport
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		appointments: make(map[string]models.Appointment),
		stylists:     make(map[string]models.Stylist),
		clients:      make(map[string]models.Client),
		services:     make(map[string]models.Service),
		products:     make(map[string]models.Product),
		orders:       make(map[string]models.PosOrder),
		purchases:    make(map[string]models.PurchaseRecord),
		reminders:    make(map[string]models.ReminderLog),
		reports:      make(map[string]models.DailySalesReport),
	}
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

// InsertAppointment stores a new appointment.
func (s *Store) InsertAppointment(_ context.Context, a models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[a.ID]; ok {
		return repository.ErrDuplicate
	}
	s.appointments[a.ID] = a
	return nil
}

// UpdateAppointment replaces a stored appointment.
func (s *Store) UpdateAppointment(_ context.Context, a models.Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.appointments[a.ID]; !ok {
		return repository.ErrNotFound
	}
	s.appointments[a.ID] = a
	return nil
}

// GetAppointment loads one appointment.
func (s *Store) GetAppointment(_ context.Context, id string) (models.Appointment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.appointments[id]
	if !ok {
		return models.Appointment{}, repository.ErrNotFound
	}
	return a, nil
}

// ListAppointments returns appointments starting in [from, to).
func (s *Store) ListAppointments(_ context.Context, from, to time.Time) ([]models.Appointment, error) {
	return s.filterAppointments(func(a models.Appointment) bool { return inRange(a.StartTime, from, to) }), nil
}

// ListStylistAppointments returns the stylist's appointments starting in [from, to).
func (s *Store) ListStylistAppointments(_ context.Context, stylistID string, from, to time.Time) ([]models.Appointment, error) {
	return s.filterAppointments(func(a models.Appointment) bool {
		return inRange(a.StartTime, from, to) && a.InvolvesStylist(stylistID)
	}), nil
}

func (s *Store) filterAppointments(keep func(models.Appointment) bool) []models.Appointment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Appointment, 0)
	for _, a := range s.appointments {
		if keep(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// InsertStylist stores a new stylist.
func (s *Store) InsertStylist(_ context.Context, st models.Stylist) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.stylists[st.ID]; ok {
		return repository.ErrDuplicate
	}
	s.stylists[st.ID] = st
	return nil
}

// GetStylist loads one stylist.
func (s *Store) GetStylist(_ context.Context, id string) (models.Stylist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stylists[id]
	if !ok {
		return models.Stylist{}, repository.ErrNotFound
	}
	return st, nil
}

// ListStylists returns all stylists ordered by name.
func (s *Store) ListStylists(_ context.Context) ([]models.Stylist, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Stylist, 0, len(s.stylists))
	for _, st := range s.stylists {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) mutateStylist(id string, fn func(*models.Stylist)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.stylists[id]
	if !ok {
		return repository.ErrNotFound
	}
	fn(&st)
	s.stylists[id] = st
	return nil
}

// SaveBreaks replaces the stylist's break list.
func (s *Store) SaveBreaks(_ context.Context, stylistID string, breaks []models.Break) error {
	cp := append([]models.Break(nil), breaks...)
	return s.mutateStylist(stylistID, func(st *models.Stylist) { st.Breaks = cp })
}

// AddHoliday records a day off, replacing any entry for the same date.
func (s *Store) AddHoliday(_ context.Context, stylistID string, h models.Holiday) error {
	return s.mutateStylist(stylistID, func(st *models.Stylist) {
		st.Holidays = append(withoutHoliday(st.Holidays, h.Date), h)
	})
}

// RemoveHoliday deletes the day off for date.
func (s *Store) RemoveHoliday(_ context.Context, stylistID, date string) error {
	return s.mutateStylist(stylistID, func(st *models.Stylist) {
		st.Holidays = withoutHoliday(st.Holidays, date)
	})
}

func withoutHoliday(in []models.Holiday, date string) []models.Holiday {
	out := make([]models.Holiday, 0, len(in))
	for _, h := range in {
		if h.Date != date {
			out = append(out, h)
		}
	}
	return out
}

// SetStylistAvailability toggles whether the stylist can be booked.
func (s *Store) SetStylistAvailability(_ context.Context, stylistID string, available bool) error {
	return s.mutateStylist(stylistID, func(st *models.Stylist) { st.Available = available })
}

// InsertClient stores a new client.
func (s *Store) InsertClient(_ context.Context, c models.Client) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c.ID]; ok {
		return repository.ErrDuplicate
	}
	s.clients[c.ID] = c
	return nil
}

// GetClient loads one client.
func (s *Store) GetClient(_ context.Context, id string) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.clients[id]
	if !ok {
		return models.Client{}, repository.ErrNotFound
	}
	return c, nil
}

// FindClientByPhone looks a client up by phone number.
func (s *Store) FindClientByPhone(_ context.Context, phone string) (models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.Phone == phone {
			return c, nil
		}
	}
	return models.Client{}, repository.ErrNotFound
}

// ListClients returns clients whose name or phone contains search.
func (s *Store) ListClients(_ context.Context, search string, limit int) ([]models.Client, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	needle := strings.ToLower(search)
	out := make([]models.Client, 0)
	for _, c := range s.clients {
		if needle == "" || strings.Contains(strings.ToLower(c.FullName), needle) || strings.Contains(c.Phone, needle) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ApplyOrderToClient adds an order's effect to the client's running totals.
func (s *Store) ApplyOrderToClient(_ context.Context, clientID string, spent, pending int64, visit time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TotalSpentPaise += spent
	c.PendingPaise += pending
	c.AppointmentCount++
	v := visit
	c.LastVisit = &v
	s.clients[clientID] = c
	return nil
}

// AdjustClientBalance shifts the client's running totals without counting a visit.
func (s *Store) AdjustClientBalance(_ context.Context, clientID string, spent, pending int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	c.TotalSpentPaise += spent
	c.PendingPaise += pending
	s.clients[clientID] = c
	return nil
}

// SettlePending moves amount paise from the client's pending balance to total spent.
func (s *Store) SettlePending(_ context.Context, clientID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.clients[clientID]
	if !ok {
		return repository.ErrNotFound
	}
	if c.PendingPaise < amount {
		return repository.ErrInsufficientPending
	}
	c.PendingPaise -= amount
	c.TotalSpentPaise += amount
	s.clients[clientID] = c
	return nil
}

// InsertPendingPayment records a BNPL settlement.
func (s *Store) InsertPendingPayment(_ context.Context, rec models.PendingPaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pendingPayments = append(s.pendingPayments, rec)
	return nil
}

// ListPendingPayments returns a client's settlements, newest first.
func (s *Store) ListPendingPayments(_ context.Context, clientID string) ([]models.PendingPaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PendingPaymentRecord, 0)
	for _, p := range s.pendingPayments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentDate.After(out[j].PaymentDate) })
	return out, nil
}

// InsertService stores a bookable service.
func (s *Store) InsertService(_ context.Context, svc models.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[svc.ID] = svc
	return nil
}

// GetService loads one service.
func (s *Store) GetService(_ context.Context, id string) (models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[id]
	if !ok {
		return models.Service{}, repository.ErrNotFound
	}
	return svc, nil
}

// ListServices returns the service catalogue.
func (s *Store) ListServices(_ context.Context) ([]models.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Service, 0, len(s.services))
	for _, svc := range s.services {
		out = append(out, svc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// InsertProduct stores a stock item.
func (s *Store) InsertProduct(_ context.Context, p models.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[p.ID] = p
	return nil
}

// GetProduct loads one product.
func (s *Store) GetProduct(_ context.Context, id string) (models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	if !ok {
		return models.Product{}, repository.ErrNotFound
	}
	return p, nil
}

// ListProducts returns every product.
func (s *Store) ListProducts(_ context.Context) ([]models.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// AdjustStock adds delta to the product's stock.
func (s *Store) AdjustStock(_ context.Context, productID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return repository.ErrNotFound
	}
	p.StockQuantity += delta
	s.products[productID] = p
	return nil
}

// InsertOrder stores a new POS order.
func (s *Store) InsertOrder(_ context.Context, o models.PosOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; ok {
		return repository.ErrDuplicate
	}
	s.orders[o.ID] = o
	return nil
}

// GetOrder loads one order.
func (s *Store) GetOrder(_ context.Context, id string) (models.PosOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.orders[id]
	if !ok {
		return models.PosOrder{}, repository.ErrNotFound
	}
	return o, nil
}

// UpdateOrder replaces a stored order.
func (s *Store) UpdateOrder(_ context.Context, o models.PosOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.orders[o.ID]; !ok {
		return repository.ErrNotFound
	}
	s.orders[o.ID] = o
	return nil
}

// ListOrders returns orders created in [from, to), oldest first.
func (s *Store) ListOrders(_ context.Context, from, to time.Time) ([]models.PosOrder, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PosOrder, 0)
	for _, o := range s.orders {
		if inRange(o.CreatedAt, from, to) {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// InsertPurchase stores a stock purchase.
func (s *Store) InsertPurchase(_ context.Context, p models.PurchaseRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.purchases[p.ID] = p
	return nil
}

// ListPurchases returns purchases dated in [from, to).
func (s *Store) ListPurchases(_ context.Context, from, to time.Time) ([]models.PurchaseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.PurchaseRecord, 0)
	for _, p := range s.purchases {
		if inRange(p.Date, from, to) {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

// reportKey is the calendar date of day in its own location.
func reportKey(day time.Time) string {
	return day.Format(models.HolidayLayout)
}

// SaveDailyReport stores the day's summary, replacing an earlier one for the same date.
func (s *Store) SaveDailyReport(_ context.Context, r models.DailySalesReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reports[reportKey(r.Date)] = r
	return nil
}

// DailyReport returns a stored summary.
func (s *Store) DailyReport(day time.Time) (models.DailySalesReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reports[reportKey(day)]
	return r, ok
}

func reminderKey(appointmentID, clientID string, kind models.ReminderType) string {
	return appointmentID + "|" + clientID + "|" + string(kind)
}

// HasReminder reports whether the client already got a reminder of the given type.
func (s *Store) HasReminder(_ context.Context, appointmentID, clientID string, kind models.ReminderType) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.reminders[reminderKey(appointmentID, clientID, kind)]
	return ok, nil
}

// InsertReminderLog records a sent reminder.
func (s *Store) InsertReminderLog(_ context.Context, log models.ReminderLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := reminderKey(log.AppointmentID, log.ClientID, log.ReminderType)
	if _, ok := s.reminders[key]; ok {
		return repository.ErrDuplicate
	}
	s.reminders[key] = log
	return nil
}
