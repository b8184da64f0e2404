package reservation

import (
	"regexp"
	"time"

	"parkhive/models"
	"parkhive/services/notification"
	"parkhive/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var timeOfDayPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d:[0-5]\d$`)

// Reserve admits a new reservation. All validation and the conflict check pass
// before anything is written; the admission lock spans check and write so two
// concurrent reserves cannot both slip past the conflict check.
func (s *DefaultReservationService) Reserve(slot int, startTime, endTime, date, userEmail string) (*models.Reservation, error) {
	if err := s.validateSchedule(startTime, endTime); err != nil {
		return nil, err
	}
	if !s.Registry.IsValid(slot) {
		return nil, ErrInvalidSlot
	}
	if err := s.validateWindow(date, startTime); err != nil {
		return nil, err
	}

	release, err := s.Locks.Acquire(slot, date)
	if err != nil {
		return nil, err
	}
	defer release()

	conflict, err := s.hasConflict(slot, date, models.Interval{Start: startTime, End: endTime}, "")
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	res := &models.Reservation{
		ID:        uuid.New().String(),
		Slot:      slot,
		Date:      date,
		StartTime: startTime,
		EndTime:   endTime,
		UserEmail: userEmail,
		Status:    false,
	}
	if err := s.Repo.Create(res); err != nil {
		return nil, err
	}

	s.publish(models.EventReservation, res)
	return res, nil
}

// Update overwrites the caller's reservation with a new schedule. The record
// being updated is excluded from its own conflict check, so moving a
// reservation to the slot and interval it already occupies succeeds.
func (s *DefaultReservationService) Update(id, userEmail string, newSlot int, newStartTime, newEndTime, newDate string) (*models.Reservation, error) {
	if err := s.validateSchedule(newStartTime, newEndTime); err != nil {
		return nil, err
	}
	if !s.Registry.IsValid(newSlot) {
		return nil, ErrInvalidSlot
	}
	if err := s.validateWindow(newDate, newStartTime); err != nil {
		return nil, err
	}

	existing, err := s.Repo.GetByOwner(id, userEmail)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	release, err := s.Locks.Acquire(newSlot, newDate)
	if err != nil {
		return nil, err
	}
	defer release()

	conflict, err := s.hasConflict(newSlot, newDate, models.Interval{Start: newStartTime, End: newEndTime}, existing.ID)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrSlotConflict
	}

	updated := *existing
	updated.Slot = newSlot
	updated.Date = newDate
	updated.StartTime = newStartTime
	updated.EndTime = newEndTime
	// A schedule change invalidates a prior check-in.
	updated.Status = false

	if err := s.Repo.Update(&updated); err != nil {
		return nil, err
	}

	s.publish(models.EventUpdate, &updated)
	return &updated, nil
}

// Cancel removes the caller's reservation. Not idempotent: a second cancel of
// the same ID reports NotFound.
func (s *DefaultReservationService) Cancel(id, userEmail string) error {
	res, err := s.Repo.GetByOwner(id, userEmail)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}

	s.publish(models.EventCancellation, res)
	return s.Repo.Delete(id)
}

// AdminDelete removes any reservation regardless of ownership.
func (s *DefaultReservationService) AdminDelete(id string) error {
	res, err := s.Repo.GetByID(id)
	if err != nil {
		return err
	}
	if res == nil {
		return ErrNotFound
	}

	s.publish(models.EventCancellationAdmin, res)
	return s.Repo.Delete(id)
}

// Verify marks the reservation exactly matching the schedule as checked in.
// A stale or wrong code simply yields found=false; that is a frequent,
// expected outcome, not a failure.
func (s *DefaultReservationService) Verify(slot int, startTime, endTime, date string) (*models.Reservation, bool, error) {
	res, err := s.Repo.GetBySchedule(slot, date, startTime, endTime)
	if err != nil {
		return nil, false, err
	}
	if res == nil {
		return nil, false, nil
	}

	checked := *res
	checked.Status = true
	if err := s.Repo.Update(&checked); err != nil {
		return nil, false, err
	}
	return &checked, true, nil
}

// GetStatus returns the reservation exactly matching the given schedule.
func (s *DefaultReservationService) GetStatus(slot int, startTime, endTime, date string) (*models.Reservation, error) {
	res, err := s.Repo.GetBySchedule(slot, date, startTime, endTime)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return nil, ErrNotFound
	}
	return res, nil
}

// GetAll returns every reservation.
func (s *DefaultReservationService) GetAll() ([]models.Reservation, error) {
	return s.Repo.GetAll()
}

// GetAllForUser returns all reservations owned by a user.
func (s *DefaultReservationService) GetAllForUser(email string) ([]models.Reservation, error) {
	reservations, err := s.Repo.GetByUser(email)
	if err != nil {
		return nil, err
	}
	if len(reservations) == 0 {
		return nil, ErrNotFound
	}
	return reservations, nil
}

// validateSchedule checks the time-of-day format and interval ordering.
func (s *DefaultReservationService) validateSchedule(startTime, endTime string) error {
	if !timeOfDayPattern.MatchString(startTime) || !timeOfDayPattern.MatchString(endTime) {
		return ErrInvalidSchedule
	}
	if endTime <= startTime {
		return ErrInvalidSchedule
	}
	return nil
}

// validateWindow enforces the admission window: the reservation's local start
// must not be in the past and its date no more than one calendar day ahead.
func (s *DefaultReservationService) validateWindow(date, startTime string) error {
	loc := time.FixedZone("deployment", s.UTCOffsetMinutes*60)

	startAt, err := time.ParseInLocation("2006-01-02 15:04:05", date+" "+startTime, loc)
	if err != nil {
		return ErrInvalidSchedulingWindow
	}

	now := s.now().In(loc)
	if startAt.Before(now) {
		return ErrInvalidSchedulingWindow
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	limit := today.AddDate(0, 0, 2)
	if !startAt.Before(limit) {
		return ErrInvalidSchedulingWindow
	}
	return nil
}

func (s *DefaultReservationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// publish hands the event to the queue. Enqueue failures are logged and
// swallowed: reservation state and notification delivery are independent
// failure domains, and a committed write is never rolled back here.
func (s *DefaultReservationService) publish(eventType string, res *models.Reservation) {
	if s.Publisher == nil {
		return
	}
	event := notification.NewEvent(eventType, res)
	if err := s.Publisher.Publish(event); err != nil {
		utils.GetLogger().Warn("Failed to publish notification event",
			zap.String("type", eventType),
			zap.String("reservationID", res.ID),
			zap.Error(err),
		)
	}
}
