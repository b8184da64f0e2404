package reservation

import (
	"time"

	reservationRepo "parkhive/database/repository/reservation"
	"parkhive/models"
	"parkhive/services/notification"
)

// ReservationService defines the reservation engine operations.
type ReservationService interface {
	// Reserve admits a new reservation after schedule, slot, window and
	// conflict validation, persists it and publishes a reservation event.
	Reserve(slot int, startTime, endTime, date, userEmail string) (*models.Reservation, error)
	// Update re-validates and overwrites the caller's reservation in place,
	// resetting the checked-in flag, and publishes an update event.
	Update(id, userEmail string, newSlot int, newStartTime, newEndTime, newDate string) (*models.Reservation, error)
	// Cancel removes the caller's reservation and publishes a cancellation event.
	Cancel(id, userEmail string) error
	// AdminDelete removes any reservation without an ownership check and
	// publishes a cancellation-admin event.
	AdminDelete(id string) error
	// Verify marks the reservation exactly matching the given schedule as
	// checked in. A missing match is an expected outcome, reported through
	// the found flag rather than an error.
	Verify(slot int, startTime, endTime, date string) (res *models.Reservation, found bool, err error)
	// GetStatus returns the reservation exactly matching the given schedule.
	GetStatus(slot int, startTime, endTime, date string) (*models.Reservation, error)
	// GetAll returns every reservation.
	GetAll() ([]models.Reservation, error)
	// GetAllForUser returns all reservations owned by a user.
	GetAllForUser(email string) ([]models.Reservation, error)
	// AvailableSlots returns the slot IDs free for the whole queried window.
	AvailableSlots(startTime, endTime, date string) ([]int, error)
}

// SlotRegistry is the slice of the slot configuration the engine depends on.
// Satisfied by config.SlotRegistry.
type SlotRegistry interface {
	IsValid(slot int) bool
	AllSlotIDs() []int
}

// DefaultReservationService implements ReservationService.
type DefaultReservationService struct {
	Repo      reservationRepo.ReservationRepository
	Registry  SlotRegistry
	Locks     Locker
	Publisher notification.Publisher

	// UTCOffsetMinutes fixes the local timezone used by the admission
	// window check. Deployment constant, not user input.
	UTCOffsetMinutes int

	// Now is stubbed in tests; defaults to time.Now.
	Now func() time.Time
}
