package events_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/farmsim-go/internal/domain/events"
)

var at = time.Date(2024, time.March, 1, 6, 0, 0, 0, time.UTC)

func TestBus_DeliversInRegistrationOrder(t *testing.T) {
	bus := events.NewBus(0)
	var order []string
	bus.Subscribe(func(e events.Event) { order = append(order, "first:"+string(e.Type)) })
	bus.Subscribe(func(e events.Event) { order = append(order, "second:"+string(e.Type)) })

	bus.Publish(events.New(events.WeekAdvanced, events.WeekAdvancedPayload{Week: 2}, at))

	assert.Equal(t, []string{"first:clock.week_advanced", "second:clock.week_advanced"}, order)
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := events.NewBus(0)
	calls := 0
	unsubscribe := bus.Subscribe(func(events.Event) { calls++ })

	bus.Publish(events.New(events.DayAdvanced, events.DayAdvancedPayload{}, at))
	unsubscribe()
	bus.Publish(events.New(events.DayAdvanced, events.DayAdvancedPayload{}, at))

	assert.Equal(t, 1, calls)
}

func TestBus_DrainClearsQueue(t *testing.T) {
	bus := events.NewBus(0)
	bus.Publish(events.New(events.CropPlanted, events.CropPayload{}, at))
	bus.Publish(events.New(events.CropDied, events.CropDiedPayload{Cause: "drought"}, at))

	drained := bus.Drain()

	require.Len(t, drained, 2)
	assert.Equal(t, events.CropPlanted, drained[0].Type)
	assert.Equal(t, events.SchemaVersion, drained[0].Version)
	assert.Equal(t, 0, bus.Pending())
	assert.Empty(t, bus.Drain())
}

func TestBus_FullQueueDropsOldest(t *testing.T) {
	bus := events.NewBus(2)
	for week := uint32(1); week <= 3; week++ {
		bus.Publish(events.New(events.WeekAdvanced, events.WeekAdvancedPayload{Week: week}, at))
	}

	drained := bus.Drain()

	require.Len(t, drained, 2)
	assert.Equal(t, uint32(2), drained[0].Payload.(events.WeekAdvancedPayload).Week)
	assert.Equal(t, 1, bus.Dropped())
}
