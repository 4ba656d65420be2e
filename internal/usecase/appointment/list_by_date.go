package appointment

import (
	"context"
	"time"

	domain "github.com/MarcosHerrera95/changanet-agenda/internal/domain/schedule"
	"github.com/MarcosHerrera95/changanet-agenda/internal/models"
	"github.com/MarcosHerrera95/changanet-agenda/internal/timezone"
)

type AppointmentListItem struct {
	ID               uint      `json:"id"`
	SlotID           uint      `json:"slot_id"`
	ScheduledStart   time.Time `json:"scheduled_start"`
	ScheduledEnd     time.Time `json:"scheduled_end"`
	Status           string    `json:"status"`
	Priority         string    `json:"priority"`
	Title            string    `json:"title"`
	ClientName       string    `json:"client_name"`
	ProfessionalName string    `json:"professional_name"`
}

type ListAppointmentsByDate struct {
	repo domain.Repository
}

func NewListAppointmentsByDate(repo domain.Repository) *ListAppointmentsByDate {
	return &ListAppointmentsByDate{repo: repo}
}

func (uc *ListAppointmentsByDate) Execute(
	ctx context.Context,
	userID uint,
	role string,
	tz string,
	date time.Time,
) ([]AppointmentListItem, error) {

	loc := timezone.Location(tz)

	start := time.Date(
		date.Year(), date.Month(), date.Day(),
		0, 0, 0, 0,
		loc,
	)
	end := start.AddDate(0, 0, 1)

	appointments, err := uc.repo.ListAppointmentsForUser(ctx, userID, role, start, end)
	if err != nil {
		return nil, err
	}

	return toListItems(appointments), nil
}

func toListItems(appointments []models.Appointment) []AppointmentListItem {
	out := make([]AppointmentListItem, 0, len(appointments))
	for _, ap := range appointments {
		out = append(out, AppointmentListItem{
			ID:               ap.ID,
			SlotID:           ap.SlotID,
			ScheduledStart:   ap.ScheduledStart,
			ScheduledEnd:     ap.ScheduledEnd,
			Status:           ap.Status,
			Priority:         ap.Priority,
			Title:            ap.Title,
			ClientName:       ap.Client.Name,
			ProfessionalName: ap.Professional.Name,
		})
	}
	return out
}
