package reservation

import (
	"testing"

	"parkhive/models"

	"github.com/stretchr/testify/assert"
)

func iv(start, end string) models.Interval {
	return models.Interval{Start: start, End: end}
}

func TestOverlaps(t *testing.T) {
	cases := []struct {
		name string
		a, b models.Interval
		want bool
	}{
		{"Identical", iv("09:00:00", "10:00:00"), iv("09:00:00", "10:00:00"), true},
		{"LeftOverlap", iv("08:30:00", "09:30:00"), iv("09:00:00", "10:00:00"), true},
		{"RightOverlap", iv("09:30:00", "10:30:00"), iv("09:00:00", "10:00:00"), true},
		{"Containing", iv("08:00:00", "11:00:00"), iv("09:00:00", "10:00:00"), true},
		{"Contained", iv("09:15:00", "09:45:00"), iv("09:00:00", "10:00:00"), true},
		{"TouchingAtEnd", iv("08:00:00", "09:00:00"), iv("09:00:00", "10:00:00"), false},
		{"TouchingAtStart", iv("10:00:00", "11:00:00"), iv("09:00:00", "10:00:00"), false},
		{"Disjoint", iv("06:00:00", "07:00:00"), iv("09:00:00", "10:00:00"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.a, tc.b))
			// Overlap is symmetric.
			assert.Equal(t, tc.want, Overlaps(tc.b, tc.a))
		})
	}
}

func TestOverlapsSelf(t *testing.T) {
	a := iv("09:00:00", "10:00:00")
	assert.True(t, Overlaps(a, a))
}
