package models

// Slot describes a single bookable parking slot from the slot configuration file.
type Slot struct {
	ID       int    `mapstructure:"id" json:"id"`
	Label    string `mapstructure:"label" json:"label,omitempty"`
	Capacity int    `mapstructure:"capacity" json:"capacity,omitempty"`
}

// SlotConfig is the full contents of the slot configuration file.
// It is replaced wholesale on reload, never mutated in place.
type SlotConfig struct {
	Slots []Slot `mapstructure:"slots" json:"slots"`
}
