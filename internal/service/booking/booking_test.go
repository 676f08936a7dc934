package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/salonpos/internal/domain/models"
	"github.com/mamadbah2/salonpos/internal/repository/memory"
	"github.com/mamadbah2/salonpos/internal/scheduling"
)

type recordingNotifier struct {
	kinds   []models.NotificationKind
	notices []models.AppointmentNotice
	err     error
}

func (r *recordingNotifier) NotifyAppointment(_ context.Context, kind models.NotificationKind, n models.AppointmentNotice) error {
	r.kinds = append(r.kinds, kind)
	r.notices = append(r.notices, n)
	return r.err
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	notifier *recordingNotifier
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.InsertStylist(ctx, models.Stylist{ID: "s1", Name: "Ravi", Available: true}))
	require.NoError(t, store.InsertStylist(ctx, models.Stylist{ID: "s2", Name: "Meena", Available: true}))
	require.NoError(t, store.InsertService(ctx, models.Service{ID: "cut", Name: "Haircut", Price: 500, DurationMinutes: 30}))
	require.NoError(t, store.InsertClient(ctx, models.Client{ID: "c1", FullName: "Asha", Phone: "9021264696"}))

	settings := scheduling.DefaultSettings()
	settings.Location = time.UTC

	n := &recordingNotifier{}
	svc := NewService(store, memory.NewLocker(time.Second), n, settings, nil)
	svc.now = func() time.Time { return time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC) }
	return fixture{svc: svc, store: store, notifier: n}
}

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2025-03-10 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func request(from, to string, stylists ...string) models.AppointmentRequest {
	return models.AppointmentRequest{
		Entries: []models.ClientEntry{{
			EntryID:    "e1",
			ClientID:   "c1",
			ClientName: "Asha",
			ServiceIDs: []string{"cut"},
			StylistIDs: stylists,
		}},
		StartTime: at(from),
		EndTime:   at(to),
	}
}

func TestService_CreateAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.CreateAppointment(ctx, request("10:00", "10:30", "s1"))
	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentScheduled, appt.Status)
	assert.Equal(t, "c1", appt.ClientID)
	assert.Equal(t, "s1", appt.StylistID)
	assert.Equal(t, []string{"cut"}, appt.ServiceIDs)

	stored, err := f.store.GetAppointment(ctx, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, appt.StartTime, stored.StartTime)

	require.Len(t, f.notifier.kinds, 1)
	assert.Equal(t, models.NotifyConfirmation, f.notifier.kinds[0])
	assert.Equal(t, "9021264696", f.notifier.notices[0].Phone)
	assert.Equal(t, []string{"Haircut"}, f.notifier.notices[0].Services)
}

func TestService_CreateAppointmentValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*models.AppointmentRequest)
		msg    string
	}{
		{"no entries", func(r *models.AppointmentRequest) { r.Entries = nil }, "At least one client"},
		{"missing name", func(r *models.AppointmentRequest) { r.Entries[0].ClientName = " " }, "Client name is required"},
		{"new client without phone", func(r *models.AppointmentRequest) { r.Entries[0].ClientID = "" }, "Phone number is required"},
		{"no service", func(r *models.AppointmentRequest) { r.Entries[0].ServiceIDs = nil }, "service"},
		{"no stylist", func(r *models.AppointmentRequest) { r.Entries[0].StylistIDs = nil }, "stylist"},
		{"zero length", func(r *models.AppointmentRequest) { r.EndTime = r.StartTime }, "End time must be after start time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("10:00", "10:30", "s1")
			tt.mutate(&req)
			_, err := f.svc.CreateAppointment(ctx, req)
			require.ErrorIs(t, err, ErrValidation)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestService_CreateAppointmentOvernightWraps(t *testing.T) {
	f := newFixture(t)
	appt, err := f.svc.CreateAppointment(context.Background(), request("21:30", "00:30", "s1"))
	require.NoError(t, err)
	assert.Equal(t, 3*time.Hour, appt.EndTime.Sub(appt.StartTime))
}

func TestService_CreateAppointmentConflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddBreak(ctx, "s1", models.BreakRequest{StartTime: at("13:00"), EndTime: at("14:00"), Reason: "Lunch"})
	require.NoError(t, err)
	_, err = f.svc.CreateAppointment(ctx, request("10:00", "11:00", "s1"))
	require.NoError(t, err)

	tests := []struct {
		name     string
		req      models.AppointmentRequest
		expected error
	}{
		{"start inside booking", request("10:30", "11:30", "s1"), ErrSlotBooked},
		{"overlaps break", request("12:30", "13:15", "s1"), ErrBreakConflict},
		{"inside break", request("13:15", "13:45", "s1"), ErrBreakConflict},
		{"second stylist busy", request("10:15", "10:45", "s2", "s1"), ErrSlotBooked},
		{"unknown stylist", request("15:00", "15:30", "ghost"), ErrStylistNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateAppointment(ctx, tt.req)
			assert.ErrorIs(t, err, tt.expected)
		})
	}

	_, err = f.svc.CreateAppointment(ctx, request("11:00", "11:30", "s1"))
	assert.NoError(t, err, "touching the previous booking is allowed")
	_, err = f.svc.CreateAppointment(ctx, request("14:00", "14:30", "s1"))
	assert.NoError(t, err, "starting when the break ends is allowed")
}

func TestService_CreateAppointmentHoliday(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SetHoliday(ctx, "s1", models.HolidayRequest{Date: "2025-03-10"}))
	_, err := f.svc.CreateAppointment(ctx, request("10:00", "10:30", "s1"))
	assert.ErrorIs(t, err, ErrStylistUnavailable)

	require.NoError(t, f.svc.RemoveHoliday(ctx, "s1", "2025-03-10"))
	require.NoError(t, f.svc.SetAvailability(ctx, "s1", false))
	_, err = f.svc.CreateAppointment(ctx, request("10:00", "10:30", "s1"))
	assert.ErrorIs(t, err, ErrStylistUnavailable)

	assert.ErrorIs(t, f.svc.SetHoliday(ctx, "s1", models.HolidayRequest{Date: "10/03/2025"}), ErrValidation)
}

func TestService_CreateAppointmentCreatesOrReusesClient(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	req := request("10:00", "10:30", "s1")
	req.Entries[0] = models.ClientEntry{EntryID: "e1", ClientName: "Kiran", Phone: "9000000001", ServiceIDs: []string{"cut"}, StylistIDs: []string{"s1"}}
	first, err := f.svc.CreateAppointment(ctx, req)
	require.NoError(t, err)

	created, err := f.store.FindClientByPhone(ctx, "9000000001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, first.ClientID)
	assert.Equal(t, "Kiran", created.FullName)

	req.StartTime, req.EndTime = at("11:00"), at("11:30")
	second, err := f.svc.CreateAppointment(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, first.ClientID, second.ClientID)
}

func TestService_NotificationFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("whatsapp down")
	_, err := f.svc.CreateAppointment(context.Background(), request("10:00", "10:30", "s1"))
	assert.NoError(t, err)
}

func TestService_UpdateAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.CreateAppointment(ctx, request("10:00", "10:30", "s1"))
	require.NoError(t, err)

	updated, err := f.svc.UpdateAppointment(ctx, appt.ID, request("10:15", "11:00", "s1"))
	require.NoError(t, err, "the appointment does not conflict with itself")
	assert.Equal(t, at("10:15"), updated.StartTime)
	assert.Equal(t, models.NotifyRescheduled, f.notifier.kinds[len(f.notifier.kinds)-1])
	require.NotNil(t, f.notifier.notices[len(f.notifier.notices)-1].PreviousStart)

	_, err = f.svc.CompleteAppointment(ctx, appt.ID)
	require.NoError(t, err)
	_, err = f.svc.UpdateAppointment(ctx, appt.ID, request("12:00", "12:30", "s1"))
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.UpdateAppointment(ctx, "missing", request("12:00", "12:30", "s1"))
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestService_MoveAppointment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.CreateAppointment(ctx, request("10:00", "10:45", "s1"))
	require.NoError(t, err)
	_, err = f.svc.AddBreak(ctx, "s2", models.BreakRequest{StartTime: at("15:00"), EndTime: at("15:30")})
	require.NoError(t, err)

	_, err = f.svc.MoveAppointment(ctx, appt.ID, models.MoveRequest{StylistID: "s2", StartTime: at("14:30")})
	assert.ErrorIs(t, err, ErrBreakConflict)

	moved, err := f.svc.MoveAppointment(ctx, appt.ID, models.MoveRequest{StylistID: "s2", StartTime: at("16:00")})
	require.NoError(t, err)
	assert.Equal(t, "s2", moved.StylistID)
	assert.Equal(t, []string{"s2"}, moved.StylistIDs)
	assert.Equal(t, at("16:00"), moved.StartTime)
	assert.Equal(t, at("16:45"), moved.EndTime)
}

func TestService_CancelAndComplete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.CreateAppointment(ctx, request("10:00", "10:30", "s1"))
	require.NoError(t, err)

	cancelled, err := f.svc.CancelAppointment(ctx, appt.ID, "Stylist unwell")
	require.NoError(t, err)
	assert.Equal(t, models.AppointmentCancelled, cancelled.Status)
	assert.Equal(t, "Stylist unwell", cancelled.Reason)
	assert.Equal(t, models.NotifyCancelled, f.notifier.kinds[len(f.notifier.kinds)-1])
	assert.Equal(t, "Stylist unwell", f.notifier.notices[len(f.notifier.notices)-1].Reason)

	_, err = f.svc.CompleteAppointment(ctx, appt.ID)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = f.svc.CreateAppointment(ctx, request("10:00", "10:30", "s1"))
	assert.NoError(t, err, "a cancelled booking frees its slot")
}

func TestService_Breaks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddBreak(ctx, "s1", models.BreakRequest{StartTime: at("13:00"), EndTime: at("12:00")})
	require.ErrorIs(t, err, ErrValidation)
	assert.Contains(t, err.Error(), "End time must be after start time")

	lunch, err := f.svc.AddBreak(ctx, "s1", models.BreakRequest{StartTime: at("13:00"), EndTime: at("14:00")})
	require.NoError(t, err)

	_, err = f.svc.AddBreak(ctx, "s1", models.BreakRequest{StartTime: at("13:30"), EndTime: at("14:30")})
	assert.ErrorIs(t, err, ErrBreakConflict)

	_, err = f.svc.CreateAppointment(ctx, request("15:00", "16:00", "s1"))
	require.NoError(t, err)
	_, err = f.svc.AddBreak(ctx, "s1", models.BreakRequest{StartTime: at("15:30"), EndTime: at("16:30")})
	require.ErrorIs(t, err, ErrBreakConflict)
	assert.Contains(t, err.Error(), "an appointment")

	moved, err := f.svc.UpdateBreak(ctx, "s1", lunch.ID, models.BreakRequest{StartTime: at("13:30"), EndTime: at("14:30")})
	require.NoError(t, err, "a break does not conflict with itself")
	assert.Equal(t, at("13:30"), moved.StartTime)

	_, err = f.svc.UpdateBreak(ctx, "s1", "nope", models.BreakRequest{StartTime: at("17:00"), EndTime: at("17:30")})
	assert.ErrorIs(t, err, ErrBreakNotFound)

	require.NoError(t, f.svc.DeleteBreak(ctx, "s1", lunch.ID))
	assert.ErrorIs(t, f.svc.DeleteBreak(ctx, "s1", lunch.ID), ErrBreakNotFound)

	st, err := f.store.GetStylist(ctx, "s1")
	require.NoError(t, err)
	assert.Empty(t, st.Breaks)
}

func TestService_DayView(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	appt, err := f.svc.CreateAppointment(ctx, request("09:00", "10:00", "s1"))
	require.NoError(t, err)
	_, err = f.svc.AddBreak(ctx, "s1", models.BreakRequest{StartTime: at("13:00"), EndTime: at("13:30")})
	require.NoError(t, err)
	require.NoError(t, f.svc.SetHoliday(ctx, "s2", models.HolidayRequest{Date: "2025-03-10"}))

	view, err := f.svc.DayView(ctx, at("00:00"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", view.Date)
	assert.Len(t, view.Slots, 56)
	require.Len(t, view.Stylists, 2)

	byID := map[string]StylistColumn{}
	for _, col := range view.Stylists {
		byID[col.StylistID] = col
	}

	ravi := byID["s1"]
	assert.False(t, ravi.OnHoliday)
	require.Len(t, ravi.Appointments, 1)
	assert.Equal(t, appt.ID, ravi.Appointments[0].ID)
	assert.Equal(t, 180.0, ravi.Appointments[0].Top)
	assert.Equal(t, 120.0, ravi.Appointments[0].Height)
	require.Len(t, ravi.Breaks, 1)
	assert.Equal(t, 60.0, ravi.Breaks[0].Height)

	slots := map[string]SlotState{}
	for _, s := range ravi.Slots {
		slots[s.Start.Format("15:04")] = s
	}
	assert.True(t, slots["09:45"].Booked)
	assert.False(t, slots["10:00"].Booked)
	assert.True(t, slots["12:45"].Break, "the break window looks 30 minutes ahead")
	assert.True(t, slots["13:15"].Break)
	assert.False(t, slots["13:30"].Break)

	assert.True(t, byID["s2"].OnHoliday)
	assert.Empty(t, byID["s2"].Appointments)
}
