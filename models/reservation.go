package models

import "time"

// Reservation represents a confirmed parking reservation record.
type Reservation struct {
	ID        string    `bson:"id" json:"id"`                // Unique reservation identifier (UUID)
	Slot      int       `bson:"slot" json:"slot"`            // Slot number drawn from the slot registry
	Date      string    `bson:"date" json:"date"`            // Reservation date in "YYYY-MM-DD" format
	StartTime string    `bson:"start_time" json:"startTime"` // Start of the interval, "HH:MM:SS"
	EndTime   string    `bson:"end_time" json:"endTime"`     // End of the interval, "HH:MM:SS" (exclusive)
	UserEmail string    `bson:"user_email" json:"userEmail"` // Owner of the reservation
	Status    bool      `bson:"status" json:"status"`        // Checked-in flag, set by verify
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}

// Interval is the half-open time range [Start, End) a reservation occupies.
type Interval struct {
	Start string
	End   string
}

// Interval returns the reservation's occupied range.
func (r Reservation) Interval() Interval {
	return Interval{Start: r.StartTime, End: r.EndTime}
}
