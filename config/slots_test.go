package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSlotFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slots.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewSlotRegistry(t *testing.T) {
	t.Run("LoadsSlots", func(t *testing.T) {
		path := writeSlotFile(t, `{"slots":[
			{"id":3,"label":"C3","capacity":1},
			{"id":1,"label":"A1","capacity":1},
			{"id":2,"label":"B2","capacity":1}
		]}`)

		reg, err := NewSlotRegistry(path)
		require.NoError(t, err)

		assert.Equal(t, []int{1, 2, 3}, reg.AllSlotIDs())
		assert.True(t, reg.IsValid(2))
		assert.False(t, reg.IsValid(4))
		assert.False(t, reg.IsValid(0))
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := NewSlotRegistry(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("MalformedFile", func(t *testing.T) {
		path := writeSlotFile(t, `{"slots":`)
		_, err := NewSlotRegistry(path)
		assert.Error(t, err)
	})
}

func TestSlotRegistryReload(t *testing.T) {
	path := writeSlotFile(t, `{"slots":[{"id":1,"label":"A1","capacity":1}]}`)

	reg, err := NewSlotRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, reg.AllSlotIDs())

	require.NoError(t, os.WriteFile(path, []byte(
		`{"slots":[{"id":1,"label":"A1","capacity":1},{"id":2,"label":"B2","capacity":1}]}`,
	), 0o644))
	require.NoError(t, reg.Reload())

	assert.Equal(t, []int{1, 2}, reg.AllSlotIDs())
	assert.True(t, reg.IsValid(2))
}

func TestSlotRegistryReloadFailureKeepsSnapshot(t *testing.T) {
	path := writeSlotFile(t, `{"slots":[{"id":1,"label":"A1","capacity":1}]}`)

	reg, err := NewSlotRegistry(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0o644))
	assert.Error(t, reg.Reload())

	// Readers keep the last good slot set.
	assert.Equal(t, []int{1}, reg.AllSlotIDs())
	assert.True(t, reg.IsValid(1))
}

func TestSlotRegistrySnapshot(t *testing.T) {
	path := writeSlotFile(t, `{"slots":[{"id":7,"label":"G7","capacity":2}]}`)

	reg, err := NewSlotRegistry(path)
	require.NoError(t, err)

	snap := reg.Snapshot()
	require.Len(t, snap.Slots, 1)
	assert.Equal(t, 7, snap.Slots[0].ID)
	assert.Equal(t, "G7", snap.Slots[0].Label)
	assert.Equal(t, 2, snap.Slots[0].Capacity)
}
