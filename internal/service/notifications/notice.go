package notifications

import (
	"context"
	"fmt"

	"github.com/mamadbah2/salonpos/internal/domain/models"
)

// Directory resolves the ids stored on an appointment.
type Directory interface {
	GetClient(ctx context.Context, id string) (models.Client, error)
	GetStylist(ctx context.Context, id string) (models.Stylist, error)
	GetService(ctx context.Context, id string) (models.Service, error)
}

// BuildNotice turns an appointment into the data a client message needs.
// Unknown stylists or services are skipped; a missing client is an error.
func BuildNotice(ctx context.Context, dir Directory, appt models.Appointment) (models.AppointmentNotice, error) {
	notice := models.AppointmentNotice{
		AppointmentID: appt.ID,
		ClientName:    appt.ClientName,
		Start:         appt.StartTime,
	}

	client, err := dir.GetClient(ctx, appt.ClientID)
	if err != nil {
		return notice, fmt.Errorf("load client %s: %w", appt.ClientID, err)
	}
	notice.Phone = client.Phone
	if notice.ClientName == "" {
		notice.ClientName = client.FullName
	}

	for _, id := range orPrimary(appt.ServiceIDs, appt.ServiceID) {
		svc, err := dir.GetService(ctx, id)
		if err != nil {
			continue
		}
		notice.Services = append(notice.Services, svc.Name)
		notice.Amount += svc.Price
	}

	for _, id := range orPrimary(appt.StylistIDs, appt.StylistID) {
		st, err := dir.GetStylist(ctx, id)
		if err != nil {
			continue
		}
		notice.Stylists = append(notice.Stylists, st.Name)
	}

	return notice, nil
}

func orPrimary(ids []string, primary string) []string {
	if len(ids) > 0 {
		return ids
	}
	if primary == "" {
		return nil
	}
	return []string{primary}
}
