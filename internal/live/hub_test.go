package live_test

import (
	"testing"
	"time"

	"github.com/habitflow/userhub/internal/domain/user"
	"github.com/habitflow/userhub/internal/live"
)

func testUser(id string) user.User {
	return user.User{
		ID:        id,
		Name:      "User " + id,
		Email:     id + "@test.com",
		CreatedAt: time.Now().UTC(),
	}
}

func TestPublishReachesConnectedSubscriber(t *testing.T) {
	hub := live.NewHub(nil)

	_, events := hub.Subscribe()

	hub.Publish(testUser("1"))

	select {
	case got := <-events:
		if got.ID != "1" {
			t.Fatalf("got user %s, want 1", got.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no event delivered")
	}
}

func TestLateSubscriberSeesNoHistory(t *testing.T) {
	hub := live.NewHub(nil)

	hub.Publish(testUser("1"))

	_, events := hub.Subscribe()

	select {
	case got := <-events:
		t.Fatalf("late subscriber should receive nothing, got %s", got.ID)
	default:
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	hub := live.NewHub(nil)

	id, events := hub.Subscribe()

	hub.Unsubscribe(id)

	if _, ok := <-events; ok {
		t.Fatal("channel should be closed after unsubscribe")
	}

	// publishing after the unsubscribe must not panic
	hub.Publish(testUser("1"))

	if hub.Len() != 0 {
		t.Fatalf("got %d subscribers, want 0", hub.Len())
	}
}

func TestSlowSubscriberDoesNotBlockOthers(t *testing.T) {
	hub := live.NewHub(nil)

	_, slow := hub.Subscribe()
	_, healthy := hub.Subscribe()

	// fill the slow subscriber's buffer without draining it
	for i := 0; i < 32; i++ {
		hub.Publish(testUser("x"))

		// keep the healthy one drained
		select {
		case <-healthy:
		default:
			t.Fatal("healthy subscriber missed an event")
		}
	}

	// the slow channel holds at most its buffer; extra events were dropped
	if len(slow) >= 32 {
		t.Fatalf("slow channel holds %d events, expected drops", len(slow))
	}

	done := make(chan struct{})

	go func() {
		hub.Publish(testUser("final"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
}

func TestCloseDropsAllSubscribers(t *testing.T) {
	hub := live.NewHub(nil)

	_, a := hub.Subscribe()
	_, b := hub.Subscribe()

	hub.Close()

	if _, ok := <-a; ok {
		t.Fatal("subscriber a should be closed")
	}

	if _, ok := <-b; ok {
		t.Fatal("subscriber b should be closed")
	}

	// subscribing after close yields an already-closed channel
	_, c := hub.Subscribe()

	if _, ok := <-c; ok {
		t.Fatal("post-close subscription should be closed immediately")
	}
}

func TestCountersTrackOutcomes(t *testing.T) {
	hub := live.NewHub(nil)

	var delivered, dropped int

	hub.SetCounters(
		func() { delivered++ },
		func() { dropped++ },
	)

	_, events := hub.Subscribe()

	hub.Publish(testUser("1"))

	<-events

	// fill the buffer, then one more to force a drop
	for i := 0; i < 16; i++ {
		hub.Publish(testUser("x"))
	}

	if delivered == 0 {
		t.Fatal("expected some delivered events")
	}

	if dropped == 0 {
		t.Fatal("expected some dropped events")
	}
}
