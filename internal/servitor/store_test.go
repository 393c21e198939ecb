package servitor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreCreatesLayout(t *testing.T) {
	dir := t.TempDir()
	_, err := NewStore(dir)
	require.NoError(t, err)

	for _, path := range []string{
		filepath.Join(dir, "servitors"),
		filepath.Join(dir, "sigils"),
		filepath.Join(dir, "metadata.json"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("%s not created: %v", path, err)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	sv := New("Custos Portae", "guard the gateway")
	sv.AddCharge(75, "ritual")
	sv.Tasks = append(sv.Tasks, Task{
		Name:        "greet",
		Description: "say hello",
		Type:        "reminder",
		Parameters:  map[string]string{"message": "hello"},
	})
	sv.Notes = "first of its line"
	require.NoError(t, store.Save(sv))

	loaded, err := store.Load("Custos Portae")
	require.NoError(t, err)
	assert.Equal(t, sv.Name, loaded.Name)
	assert.Equal(t, sv.Purpose, loaded.Purpose)
	assert.InDelta(t, 75.0, loaded.ChargeLevel, 0.01)
	assert.Equal(t, StatusDormant, loaded.Status)
	require.Len(t, loaded.Tasks, 1)
	assert.Equal(t, "hello", loaded.Tasks[0].Parameters["message"])
	require.Len(t, loaded.ChargingHistory, 1)
	assert.Equal(t, "ritual", loaded.ChargingHistory[0].Method)

	// Spaces become underscores in the record filename.
	if _, err := os.Stat(filepath.Join(store.dir, "servitors", "Custos_Portae.json")); err != nil {
		t.Errorf("record file missing: %v", err)
	}
}

func TestLoadAppliesDecay(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	sv := New("Custos", "guard")
	sv.ChargeLevel = 60
	charged := time.Now().Add(-5 * 24 * time.Hour)
	sv.LastCharged = &charged
	require.NoError(t, store.Save(sv))

	loaded, err := store.Load("Custos")
	require.NoError(t, err)
	assert.InDelta(t, 55.0, loaded.ChargeLevel, 0.01, "1 point per day for 5 days")

	// The decayed level is persisted.
	again, err := store.Load("Custos")
	require.NoError(t, err)
	assert.InDelta(t, 55.0, again.ChargeLevel, 0.01)
}

func TestLoadMissing(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	_, err = store.Load("Nemo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestListFiltersByStatus(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	active := New("Alpha", "one")
	active.Status = StatusActive
	require.NoError(t, store.Save(active))
	require.NoError(t, store.Save(New("Beta", "two")))

	all, err := store.List("")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, all)

	dormant, err := store.List(StatusDormant)
	require.NoError(t, err)
	assert.Equal(t, []string{"Beta"}, dormant)
}

func TestDeleteRemovesRecordAndIndex(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Save(New("Ephemera", "pass through")))
	require.NoError(t, store.Delete("Ephemera"))

	_, err = store.Load("Ephemera")
	assert.True(t, errors.Is(err, ErrNotFound))
	if _, err := os.Stat(filepath.Join(store.dir, "servitors", "Ephemera.json")); !os.IsNotExist(err) {
		t.Errorf("record file still present: %v", err)
	}

	err = store.Delete("Ephemera")
	assert.True(t, errors.Is(err, ErrNotFound))
}
