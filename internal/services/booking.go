package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"zaffira/internal/apperr"
	"zaffira/internal/models"
)

const dateOnlyLayout = "2006-01-02"

type AppointmentInput struct {
	GuestID       string `json:"guestId"`
	Date          string `json:"date" binding:"required"`
	Notes         string `json:"notes"`
	CustomerName  string `json:"customerName"`
	CustomerEmail string `json:"customerEmail" binding:"omitempty,email"`
	CustomerPhone string `json:"customerPhone"`
}

type StatusInput struct {
	Status string `json:"status" binding:"required"`
}

type ConsultationInput struct {
	Name          string   `json:"name" binding:"required"`
	Email         string   `json:"email" binding:"required,email"`
	Phone         string   `json:"phone" binding:"required"`
	JewelryType   string   `json:"jewelryType" binding:"required"`
	Description   string   `json:"description" binding:"required"`
	PreferredDate string   `json:"preferredDate"`
	PreferredTime string   `json:"preferredTime"`
	Images        []string `json:"images"`
}

// Requester is the authenticated caller of a read that is restricted to the
// owner or an admin.
type Requester struct {
	ID      primitive.ObjectID
	IsAdmin bool
}

func parseBookingDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, apperr.BadRequest("date is required")
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return t, nil
	}
	return time.Time{}, apperr.BadRequest("date must be RFC 3339 or YYYY-MM-DD")
}

// AppointmentService books appointments from carts. An appointment keeps
// its own copy of the cart lines; later cart edits do not reach it.
type AppointmentService struct {
	appointments AppointmentStore
	carts        CartStore
	log          *zap.Logger
	now          func() time.Time
}

func NewAppointmentService(appointments AppointmentStore, carts CartStore, log *zap.Logger) *AppointmentService {
	return &AppointmentService{
		appointments: appointments,
		carts:        carts,
		log:          log.Named("booking"),
		now:          time.Now,
	}
}

// Create books an appointment for userID, or for the guest cart named in
// the input when userID is nil. The source cart is not modified.
func (s *AppointmentService) Create(ctx context.Context, userID *primitive.ObjectID, in AppointmentInput) (*models.Appointment, error) {
	date, err := parseBookingDate(in.Date)
	if err != nil {
		return nil, err
	}

	key, err := CartKey{UserID: userID, GuestID: in.GuestID}.Normalize()
	if err != nil {
		return nil, apperr.BadRequest("cart is empty")
	}
	cart, err := s.carts.FindByOwner(ctx, key)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, apperr.BadRequest("cart is empty")
		}
		return nil, apperr.Internal(err)
	}
	if len(cart.Items) == 0 {
		return nil, apperr.BadRequest("cart is empty")
	}

	now := s.now()
	appointment := &models.Appointment{
		Cart:        cart.ID,
		CartItems:   cart.SnapshotItems(),
		TotalAmount: cart.TotalPrice,
		Date:        date,
		Notes:       strings.TrimSpace(in.Notes),
		Status:      models.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if userID != nil {
		owner := *userID
		appointment.User = &owner
	} else {
		appointment.CustomerName = strings.TrimSpace(in.CustomerName)
		appointment.CustomerEmail = models.NormalizeEmail(in.CustomerEmail)
		appointment.CustomerPhone = strings.TrimSpace(in.CustomerPhone)
		if appointment.CustomerName == "" || appointment.CustomerEmail == "" || appointment.CustomerPhone == "" {
			return nil, apperr.BadRequest("customerName, customerEmail and customerPhone are required for guest bookings")
		}
	}

	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("appointment booked",
		zap.String("appointmentId", appointment.ID.Hex()),
		zap.String("owner", key.String()),
		zap.Int("items", len(appointment.CartItems)),
	)
	return appointment, nil
}

func (s *AppointmentService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Appointment, error) {
	appointments, err := s.appointments.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	return appointments, nil
}

// ListAll returns every appointment, newest first, optionally narrowed to a
// status.
func (s *AppointmentService) ListAll(ctx context.Context, status string) ([]models.Appointment, error) {
	status = strings.TrimSpace(status)
	if status != "" && !models.ValidStatus(status) {
		return nil, apperr.BadRequest("invalid status")
	}
	appointments, err := s.appointments.List(ctx, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if appointments == nil {
		appointments = []models.Appointment{}
	}
	return appointments, nil
}

// Get hides other users' appointments behind NotFound.
func (s *AppointmentService) Get(ctx context.Context, rawID string, requester Requester) (*models.Appointment, error) {
	id, err := parseObjectID(rawID, "appointment id")
	if err != nil {
		return nil, err
	}
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "appointment not found")
	}
	if !requester.IsAdmin && (appointment.User == nil || *appointment.User != requester.ID) {
		return nil, apperr.NotFound("appointment not found")
	}
	return appointment, nil
}

// UpdateStatus allows any transition. confirmedAt is set the first time the
// appointment becomes confirmed and is not moved afterwards.
func (s *AppointmentService) UpdateStatus(ctx context.Context, rawID, status string) (*models.Appointment, error) {
	id, err := parseObjectID(rawID, "appointment id")
	if err != nil {
		return nil, err
	}
	appointment, err := s.appointments.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "appointment not found")
	}
	status = strings.TrimSpace(status)
	if !models.ValidStatus(status) {
		return nil, apperr.BadRequest("invalid status")
	}

	now := s.now()
	if status == models.StatusConfirmed && appointment.ConfirmedAt == nil {
		confirmedAt := now
		appointment.ConfirmedAt = &confirmedAt
	}
	appointment.Status = status
	appointment.UpdatedAt = now

	if err := s.appointments.Replace(ctx, appointment); err != nil {
		return nil, lookupError(err, "appointment not found")
	}
	s.log.Info("appointment status updated", zap.String("appointmentId", id.Hex()), zap.String("status", status))
	return appointment, nil
}

func (s *AppointmentService) Delete(ctx context.Context, rawID string) error {
	id, err := parseObjectID(rawID, "appointment id")
	if err != nil {
		return err
	}
	if err := s.appointments.Delete(ctx, id); err != nil {
		return lookupError(err, "appointment not found")
	}
	s.log.Info("appointment deleted", zap.String("appointmentId", id.Hex()))
	return nil
}

type ConsultationService struct {
	consultations ConsultationStore
	log           *zap.Logger
	now           func() time.Time
}

func NewConsultationService(consultations ConsultationStore, log *zap.Logger) *ConsultationService {
	return &ConsultationService{consultations: consultations, log: log.Named("consultation"), now: time.Now}
}

func (s *ConsultationService) Create(ctx context.Context, userID primitive.ObjectID, in ConsultationInput) (*models.Consultation, error) {
	consultation := &models.Consultation{
		User:          userID,
		Name:          strings.TrimSpace(in.Name),
		Email:         models.NormalizeEmail(in.Email),
		Phone:         strings.TrimSpace(in.Phone),
		JewelryType:   strings.TrimSpace(in.JewelryType),
		Description:   strings.TrimSpace(in.Description),
		PreferredDate: strings.TrimSpace(in.PreferredDate),
		PreferredTime: strings.TrimSpace(in.PreferredTime),
		Images:        in.Images,
		Status:        models.StatusPending,
	}
	if consultation.Name == "" || consultation.Email == "" || consultation.Phone == "" ||
		consultation.JewelryType == "" || consultation.Description == "" {
		return nil, apperr.BadRequest("name, email, phone, jewelryType and description are required")
	}
	if consultation.Images == nil {
		consultation.Images = []string{}
	}

	now := s.now()
	consultation.CreatedAt = now
	consultation.UpdatedAt = now
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return nil, apperr.Internal(err)
	}
	s.log.Info("consultation requested", zap.String("consultationId", consultation.ID.Hex()))
	return consultation, nil
}

func (s *ConsultationService) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Consultation, error) {
	consultations, err := s.consultations.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if consultations == nil {
		consultations = []models.Consultation{}
	}
	return consultations, nil
}

func (s *ConsultationService) ListAll(ctx context.Context, status string) ([]models.Consultation, error) {
	status = strings.TrimSpace(status)
	if status != "" && !models.ValidStatus(status) {
		return nil, apperr.BadRequest("invalid status")
	}
	consultations, err := s.consultations.List(ctx, status)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if consultations == nil {
		consultations = []models.Consultation{}
	}
	return consultations, nil
}

func (s *ConsultationService) UpdateStatus(ctx context.Context, rawID, status string) (*models.Consultation, error) {
	id, err := parseObjectID(rawID, "consultation id")
	if err != nil {
		return nil, err
	}
	consultation, err := s.consultations.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "consultation not found")
	}
	status = strings.TrimSpace(status)
	if !models.ValidStatus(status) {
		return nil, apperr.BadRequest("invalid status")
	}
	consultation.Status = status
	consultation.UpdatedAt = s.now()
	if err := s.consultations.Replace(ctx, consultation); err != nil {
		return nil, lookupError(err, "consultation not found")
	}
	return consultation, nil
}

func (s *ConsultationService) Delete(ctx context.Context, rawID string) error {
	id, err := parseObjectID(rawID, "consultation id")
	if err != nil {
		return err
	}
	if err := s.consultations.Delete(ctx, id); err != nil {
		return lookupError(err, "consultation not found")
	}
	return nil
}
