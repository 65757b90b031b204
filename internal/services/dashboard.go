package services

import (
	"context"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

type StatusCounts map[string]int64

type DashboardStats struct {
	Users         int64        `json:"users"`
	Products      int64        `json:"products"`
	Suppliers     int64        `json:"suppliers"`
	Appointments  StatusCounts `json:"appointments"`
	Consultations StatusCounts `json:"consultations"`
}

type DashboardService struct {
	users         UserStore
	products      ProductStore
	suppliers     SupplierStore
	appointments  AppointmentStore
	consultations ConsultationStore
}

func NewDashboardService(
	users UserStore,
	products ProductStore,
	suppliers SupplierStore,
	appointments AppointmentStore,
	consultations ConsultationStore,
) *DashboardService {
	return &DashboardService{
		users:         users,
		products:      products,
		suppliers:     suppliers,
		appointments:  appointments,
		consultations: consultations,
	}
}

// Stats counts the collections one at a time; the numbers are not a
// consistent snapshot.
func (s *DashboardService) Stats(ctx context.Context) (*DashboardStats, error) {
	var (
		stats DashboardStats
		err   error
	)
	if stats.Users, err = s.users.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.Products, err = s.products.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}
	if stats.Suppliers, err = s.suppliers.Count(ctx); err != nil {
		return nil, apperr.Internal(err)
	}

	appointments, err := s.appointments.CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	stats.Appointments = fillStatuses(appointments)

	consultations, err := s.consultations.CountByStatus(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	stats.Consultations = fillStatuses(consultations)
	return &stats, nil
}

// fillStatuses reports every known status, zero when absent.
func fillStatuses(counts map[string]int64) StatusCounts {
	out := make(StatusCounts, len(models.BookingStatuses))
	for _, status := range models.BookingStatuses {
		out[status] = counts[status]
	}
	return out
}
