package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/witness-rec/witness/internal/protocol"
)

func TestBus_PublishStampsRisingSeq(t *testing.T) {
	bus := NewBus(protocol.NewSequencer())
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	bus.Publish(protocol.EventStatus, map[string]interface{}{"recording": true})
	bus.Publish(protocol.EventAction, map[string]interface{}{"kind": "tap"})
	bus.Publish(protocol.EventStopped, map[string]interface{}{})

	for want := int64(1); want <= 3; want++ {
		evt := <-sub
		assert.Equal(t, want, evt.Seq)
		assert.Equal(t, protocol.TypeEvent, evt.Type)
		assert.Greater(t, evt.Timestamp, int64(0))
	}
}

func TestBus_AllSubscribersReceiveEveryEvent(t *testing.T) {
	bus := NewBus(protocol.NewSequencer())
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer bus.Unsubscribe(a)
	defer bus.Unsubscribe(b)

	published := bus.Publish(protocol.EventSession, map[string]interface{}{"sessionId": "s1"})

	got := <-a
	assert.Equal(t, published, got)
	got = <-b
	assert.Equal(t, published, got)
}

func TestBus_UnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus(protocol.NewSequencer())
	sub := bus.Subscribe()
	bus.Unsubscribe(sub)

	_, open := <-sub
	assert.False(t, open)

	// A second unsubscribe of the same channel is a no-op.
	bus.Unsubscribe(sub)
}

func TestBus_SlowSubscriberDropsInsteadOfBlocking(t *testing.T) {
	bus := NewBus(protocol.NewSequencer())
	sub := bus.Subscribe()
	defer bus.Unsubscribe(sub)

	// Overflow the subscriber buffer; Publish must not block.
	for i := 0; i < 150; i++ {
		bus.Publish(protocol.EventLiveFrame, map[string]interface{}{})
	}

	first := <-sub
	require.Equal(t, int64(1), first.Seq)
	assert.Len(t, sub, 99)
}

func TestBus_DeliverReachesOnlyTheTarget(t *testing.T) {
	bus := NewBus(protocol.NewSequencer())
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer bus.Unsubscribe(a)
	defer bus.Unsubscribe(b)

	evt := bus.Deliver(a, protocol.EventConnected, map[string]interface{}{})
	assert.Equal(t, int64(1), evt.Seq)

	got := <-a
	assert.Equal(t, protocol.EventConnected, got.Event)
	assert.Len(t, b, 0)

	// Broadcasts still reach both, with the seq continuing past the
	// targeted delivery.
	bus.Publish(protocol.EventStatus, map[string]interface{}{})
	assert.Equal(t, int64(2), (<-a).Seq)
	assert.Equal(t, int64(2), (<-b).Seq)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(protocol.NewSequencer())
	evt := bus.Publish(protocol.EventConnected, map[string]interface{}{})
	assert.Equal(t, int64(1), evt.Seq)
}
