package infra

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	specs "github.com/chrisconley/retailrfm/specs"
)

func TestEventTypeEnum(t *testing.T) {
	t.Run("EventType.String() returns correct values", func(t *testing.T) {
		// Arrange & Act & Assert
		assert.Equal(t, "ExtractLoaded", ExtractLoaded.String())
		assert.Equal(t, "StageCompleted", StageCompleted.String())
		assert.Equal(t, "OutputPublished", OutputPublished.String())
		assert.Equal(t, "RunFailed", RunFailed.String())
		assert.Equal(t, "Unknown", EventType(999).String())
	})

	t.Run("events report their own type", func(t *testing.T) {
		assert.Equal(t, ExtractLoaded, ExtractLoadedEvent{}.EventType())
		assert.Equal(t, StageCompleted, StageCompletedEvent{}.EventType())
		assert.Equal(t, CleaningCompleted, CleaningCompletedEvent{}.EventType())
		assert.Equal(t, CustomersSegmented, CustomersSegmentedEvent{}.EventType())
		assert.Equal(t, OutputPublished, OutputPublishedEvent{}.EventType())
		assert.Equal(t, RunFailed, RunFailedEvent{Err: errors.New("boom")}.EventType())
	})
}

func TestBusWithEnumEventTypes(t *testing.T) {
	t.Run("delivers events to subscribers in publish order", func(t *testing.T) {
		// Arrange
		bus := NewBus()
		var received []Event
		handler := func(e Event) {
			received = append(received, e)
		}
		bus.Subscribe(StageCompleted, handler)
		bus.Subscribe(CleaningCompleted, handler)

		// Act
		bus.Publish(StageCompletedEvent{RunID: "run-1", Entry: specs.AuditEntrySpec{Stage: specs.StageIdentity}})
		bus.Publish(StageCompletedEvent{RunID: "run-1", Entry: specs.AuditEntrySpec{Stage: specs.StageDuplicates}})
		bus.Publish(CleaningCompletedEvent{RunID: "run-1"})

		// Assert
		assert.Len(t, received, 3)
		assert.Equal(t, specs.StageIdentity, received[0].(StageCompletedEvent).Entry.Stage)
		assert.Equal(t, specs.StageDuplicates, received[1].(StageCompletedEvent).Entry.Stage)
		assert.Equal(t, CleaningCompleted, received[2].EventType())
	})

	t.Run("handlers only receive events they subscribed to", func(t *testing.T) {
		// Arrange
		bus := NewBus()
		var published []Event
		var failed []Event
		bus.Subscribe(OutputPublished, func(e Event) { published = append(published, e) })
		bus.Subscribe(RunFailed, func(e Event) { failed = append(failed, e) })

		// Act
		bus.Publish(OutputPublishedEvent{RunID: "run-1", Key: "run-1/cleaned.csv", Bytes: 42})
		bus.Publish(CustomersSegmentedEvent{RunID: "run-1"})

		// Assert
		assert.Len(t, published, 1)
		assert.Empty(t, failed)
		assert.Equal(t, "run-1/cleaned.csv", published[0].(OutputPublishedEvent).Key)
	})

	t.Run("calls every handler of a type in subscription order", func(t *testing.T) {
		bus := NewBus()
		var calls []string
		bus.Subscribe(RunFailed, func(Event) { calls = append(calls, "first") })
		bus.Subscribe(RunFailed, func(Event) { calls = append(calls, "second") })

		bus.Publish(RunFailedEvent{RunID: "run-1", Err: errors.New("boom")})

		assert.Equal(t, []string{"first", "second"}, calls)
	})
}
