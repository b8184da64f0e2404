package reservation

import (
	"parkhive/models"
)

// Overlaps reports whether two half-open intervals [start, end) on the same
// slot and date intersect. Intervals that only touch at an endpoint do not
// overlap. This single inequality is the canonical conflict rule; every
// conflict check in the engine goes through it.
func Overlaps(a, b models.Interval) bool {
	return a.Start < b.End && a.End > b.Start
}

// hasConflict reports whether the candidate interval collides with any stored
// reservation on (slot, date). A reservation with ID equal to excludeID is
// ignored, so an update does not conflict with its own prior interval.
func (s *DefaultReservationService) hasConflict(slot int, date string, candidate models.Interval, excludeID string) (bool, error) {
	existing, err := s.Repo.GetBySlotDate(slot, date)
	if err != nil {
		return false, err
	}
	for _, r := range existing {
		if r.ID == excludeID {
			continue
		}
		if Overlaps(candidate, r.Interval()) {
			return true, nil
		}
	}
	return false, nil
}
