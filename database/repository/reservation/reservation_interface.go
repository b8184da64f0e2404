package reservationRepo

import (
	"parkhive/models"
)

// ReservationRepository defines methods for reservation data access.
// Lookup methods return (nil, nil) when no matching record exists; the
// service layer decides whether that is an error.
type ReservationRepository interface {
	// GetByID retrieves a reservation by its unique ID.
	GetByID(id string) (*models.Reservation, error)
	// GetByOwner retrieves a reservation by ID, scoped to its owner's email.
	GetByOwner(id, email string) (*models.Reservation, error)
	// GetAll retrieves all reservations.
	GetAll() ([]models.Reservation, error)
	// GetByUser retrieves all reservations belonging to a user.
	GetByUser(email string) ([]models.Reservation, error)
	// GetBySlotDate retrieves all reservations for a slot on a date.
	GetBySlotDate(slot int, date string) ([]models.Reservation, error)
	// GetByDate retrieves all reservations on a date, across all slots.
	GetByDate(date string) ([]models.Reservation, error)
	// GetBySchedule retrieves the reservation exactly matching a slot,
	// date and interval, if any.
	GetBySchedule(slot int, date, startTime, endTime string) (*models.Reservation, error)
	// Create inserts a new reservation record.
	Create(res *models.Reservation) error
	// Update overwrites an existing reservation record.
	Update(res *models.Reservation) error
	// Delete removes a reservation record by its ID.
	Delete(id string) error
}
