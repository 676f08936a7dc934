package router

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/salonpos/internal/config"
	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository/memory"
	"github.com/mamadbah2/salonpos/internal/scheduling"
	"github.com/mamadbah2/salonpos/internal/server/handlers"
	"github.com/mamadbah2/salonpos/internal/service/booking"
	"github.com/mamadbah2/salonpos/internal/service/clients"
	"github.com/mamadbah2/salonpos/internal/service/notifications"
	"github.com/mamadbah2/salonpos/internal/service/pos"
	"github.com/mamadbah2/salonpos/internal/service/reporting"
)

type testServer struct {
	t      *testing.T
	engine http.Handler
	store  *memory.Store
}

func newTestServer(t *testing.T) testServer {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InsertStylist(ctx, models.Stylist{ID: "s1", Name: "Ravi", Available: true}))
	require.NoError(t, store.InsertService(ctx, models.Service{ID: "cut", Name: "Haircut", Price: 500, DurationMinutes: 30}))
	require.NoError(t, store.InsertClient(ctx, models.Client{ID: "c1", FullName: "Asha", Phone: "9021264696"}))

	salon := config.SalonConfig{Name: "RG Salon", Timezone: "UTC", GSTRate: 0.18}
	settings := scheduling.DefaultSettings()
	settings.Location = time.UTC

	messaging := notifications.NewMetaWhatsAppService(
		config.WhatsAppConfig{VerifyToken: "secret", CountryCode: "91"}, salon, notifications.NewLogClient(nil), nil)

	bookingSvc := booking.NewService(store, memory.NewLocker(time.Second), messaging, settings, nil)
	posSvc := pos.NewService(store, salon, nil)
	reportingSvc := reporting.NewService(store, nil, "Sales!A:K", time.UTC, nil)

	engine := New(Handlers{
		Webhook: handlers.NewWebhookHandler(messaging, nil),
		Booking: handlers.NewBookingHandler(bookingSvc, time.UTC, nil),
		POS:     handlers.NewPOSHandler(posSvc, nil),
		Clients: handlers.NewClientHandler(clients.NewService(store, nil), nil),
		Reports: handlers.NewReportHandler(reportingSvc, nil),
	}, nil)
	return testServer{t: t, engine: engine, store: store}
}

func (s testServer) do(method, path string, body any) *httptest.ResponseRecorder {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func appointmentBody(start, end string) obj {
	return obj{
		"client_entries": []obj{{
			"entry_id":    "e1",
			"client_id":   "c1",
			"client_name": "Asha",
			"service_ids": []string{"cut"},
			"stylist_ids": []string{"s1"},
		}},
		"start_time": start,
		"end_time":   end,
	}
}

type obj = map[string]any

func TestRouter_Health(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRouter_WebhookVerify(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=secret&hub.challenge=42", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())

	rec = s.do(http.MethodGet, "/webhook?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=42", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRouter_Appointments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/appointments", appointmentBody("2030-03-10T10:00:00Z", "2030-03-10T11:00:00Z"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	appt := decode[models.Appointment](t, rec)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)

	t.Run("overlap is a conflict", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/appointments", appointmentBody("2030-03-10T10:30:00Z", "2030-03-10T11:30:00Z"))
		assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	})

	t.Run("validation message is returned verbatim", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/appointments", appointmentBody("2030-03-10T12:00:00Z", "2030-03-10T12:00:00Z"))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.JSONEq(t, `{"error":"End time must be after start time"}`, rec.Body.String())
	})

	t.Run("day view", func(t *testing.T) {
		rec := s.do(http.MethodGet, "/api/day-view?date=2030-03-10", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		view := decode[booking.DayView](t, rec)
		require.Len(t, view.Stylists, 1)
		assert.Len(t, view.Stylists[0].Appointments, 1)

		rec = s.do(http.MethodGet, "/api/day-view?date=10-03-2030", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("complete then cancel is rejected", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/appointments/"+appt.ID+"/complete", nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = s.do(http.MethodPost, "/api/appointments/"+appt.ID+"/cancel", obj{"reason": "client asked"})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown appointment", func(t *testing.T) {
		rec := s.do(http.MethodPost, "/api/appointments/missing/complete", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestRouter_StylistBreaksAndHolidays(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/stylists/s1/breaks", obj{
		"start_time": "2030-03-10T13:00:00Z",
		"end_time":   "2030-03-10T13:30:00Z",
		"reason":     "lunch",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	br := decode[models.Break](t, rec)

	rec = s.do(http.MethodDelete, "/api/stylists/s1/breaks/"+br.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/stylists/s1/holidays", obj{"date": "2030-03-11"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/appointments", appointmentBody("2030-03-11T10:00:00Z", "2030-03-11T11:00:00Z"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = s.do(http.MethodDelete, "/api/stylists/s1/holidays/2030-03-11", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodPost, "/api/stylists", obj{"name": "Meena"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(http.MethodGet, "/api/stylists", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Stylist](t, rec), 2)
}

func TestRouter_OrdersAndPayments(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/orders", obj{
		"client_id":      "c1",
		"items":          []obj{{"kind": "service", "item_id": "cut", "price": 500, "quantity": 1}},
		"payment_method": "bnpl",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	order := decode[models.PosOrder](t, rec)
	assert.Equal(t, 576.0, order.Total)

	rec = s.do(http.MethodGet, "/api/orders/"+order.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/orders", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.PosOrder](t, rec), 1)

	rec = s.do(http.MethodGet, "/api/orders/"+order.ID+"/receipt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = s.do(http.MethodPost, "/api/clients/c1/pending-payments", obj{"amount": 1000, "payment_method": "cash"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"Payment amount exceeds pending amount"}`, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/clients/c1/pending-payments", obj{"amount": 576, "payment_method": "cash"})
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/api/clients/c1/pending-payments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.PendingPaymentRecord](t, rec), 1)

	rec = s.do(http.MethodPost, "/api/orders/"+order.ID+"/cancel", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(http.MethodGet, "/api/orders/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPost, "/api/orders", obj{"items": "nope"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_SplitAndPurchases(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/payments/split/validate", obj{
		"total":   1000,
		"amounts": obj{"cash": 400, "upi": 600},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[pos.SplitResult](t, rec).Valid)

	rec = s.do(http.MethodPost, "/api/purchases/preview", obj{
		"product_name":                    "Shampoo",
		"purchase_qty":                    10,
		"mrp_incl_gst":                    100,
		"discount_on_purchase_percentage": 10,
		"gst_percentage":                  18,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/purchases/preview", obj{"product_name": "Shampoo", "purchase_qty": 0})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Purchase quantity must be positive"}`, rec.Body.String())
}

func TestRouter_ClientImport(t *testing.T) {
	s := newTestServer(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"Name", "Phone"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Kiran", "9876543210"}))
	xlsx, err := f.WriteToBuffer()
	require.NoError(t, err)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", "clients.xlsx")
	require.NoError(t, err)
	_, err = part.Write(xlsx.Bytes())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/clients/import", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.engine.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decode[models.ImportResult](t, rec).Imported)

	rec = s.do(http.MethodGet, "/api/clients?search=kiran", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Client](t, rec), 1)

	rec = s.do(http.MethodPost, "/api/clients", obj{"full_name": "Kiran", "phone": "9876543210"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRouter_DailyReport(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodPost, "/api/reports/daily", obj{"date": "2030-03-10"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	report := decode[models.DailySalesReport](t, rec)
	assert.Zero(t, report.OrderCount)

	rec = s.do(http.MethodPost, "/api/reports/daily", obj{"date": "March 10"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
