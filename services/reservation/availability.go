package reservation

import (
	"parkhive/models"
)

// AvailableSlots returns the IDs of slots with no reservation overlapping
// [startTime, endTime) on date. Output follows the slot registry's ordering,
// so repeated calls over the same state are deterministic.
func (s *DefaultReservationService) AvailableSlots(startTime, endTime, date string) ([]int, error) {
	if err := s.validateSchedule(startTime, endTime); err != nil {
		return nil, err
	}
	if err := s.validateWindow(date, startTime); err != nil {
		return nil, err
	}

	reservations, err := s.Repo.GetByDate(date)
	if err != nil {
		return nil, err
	}

	window := models.Interval{Start: startTime, End: endTime}
	reserved := make(map[int]bool)
	for _, r := range reservations {
		if Overlaps(window, r.Interval()) {
			reserved[r.Slot] = true
		}
	}

	available := make([]int, 0)
	for _, id := range s.Registry.AllSlotIDs() {
		if !reserved[id] {
			available = append(available, id)
		}
	}
	return available, nil
}
