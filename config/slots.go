package config

import (
	"fmt"
	"log"
	"sort"
	"sync/atomic"

	"parkhive/models"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// SlotRegistry holds the set of valid parking slots, sourced from an external
// configuration file. The whole config is kept as an immutable snapshot that is
// swapped atomically on reload, so readers always observe either the old or
// the new slot set in full.
type SlotRegistry struct {
	v        *viper.Viper
	snapshot atomic.Pointer[models.SlotConfig]
}

// NewSlotRegistry reads the slot configuration file at path and returns a
// registry populated with its contents.
func NewSlotRegistry(path string) (*SlotRegistry, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	reg := &SlotRegistry{v: v}
	if err := reg.Reload(); err != nil {
		return nil, err
	}
	return reg, nil
}

// Reload re-reads the configuration file and swaps in the new snapshot.
func (r *SlotRegistry) Reload() error {
	if err := r.v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read slot config: %w", err)
	}

	var cfg models.SlotConfig
	if err := r.v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("failed to parse slot config: %w", err)
	}

	// Deterministic ordering for availability output.
	sort.Slice(cfg.Slots, func(i, j int) bool {
		return cfg.Slots[i].ID < cfg.Slots[j].ID
	})

	r.snapshot.Store(&cfg)
	return nil
}

// Watch re-loads the registry whenever the configuration file changes on disk.
func (r *SlotRegistry) Watch() {
	r.v.OnConfigChange(func(e fsnotify.Event) {
		log.Printf("Slot configuration file changed: %s", e.Name)
		if err := r.Reload(); err != nil {
			log.Printf("Failed to reload slot config, keeping previous snapshot: %v", err)
		}
	})
	r.v.WatchConfig()
}

// Snapshot returns the current slot configuration.
func (r *SlotRegistry) Snapshot() models.SlotConfig {
	return *r.snapshot.Load()
}

// IsValid reports whether slot is a member of the current registry.
func (r *SlotRegistry) IsValid(slot int) bool {
	for _, s := range r.snapshot.Load().Slots {
		if s.ID == slot {
			return true
		}
	}
	return false
}

// AllSlotIDs returns every slot ID in the current snapshot, ascending.
func (r *SlotRegistry) AllSlotIDs() []int {
	slots := r.snapshot.Load().Slots
	ids := make([]int, 0, len(slots))
	for _, s := range slots {
		ids = append(ids, s.ID)
	}
	return ids
}
