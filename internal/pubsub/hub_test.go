package pubsub

import "testing"

func TestHub_PublishReachesSubscribers(t *testing.T) {
	hub := New[int]()
	defer hub.Close()

	a := hub.Subscribe()
	b := hub.Subscribe()

	hub.Publish(42)

	if got := <-a; got != 42 {
		t.Errorf("subscriber a received %d, want 42", got)
	}
	if got := <-b; got != 42 {
		t.Errorf("subscriber b received %d, want 42", got)
	}
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := New[int]()
	defer hub.Close()

	ch := hub.Subscribe()

	// overfill the subscriber buffer; the excess must be dropped, not
	// block the publisher
	for i := 0; i < subscriberBuffer+10; i++ {
		hub.Publish(i)
	}

	if got := <-ch; got != 0 {
		t.Errorf("first buffered value = %d, want 0", got)
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := New[int]()
	defer hub.Close()

	ch := hub.Subscribe()
	hub.Unsubscribe(ch)

	if _, ok := <-ch; ok {
		t.Error("unsubscribed channel should be closed")
	}

	// repeated and unknown unsubscribes are safe
	hub.Unsubscribe(ch)
	hub.Unsubscribe(make(chan int))
}

func TestHub_Close(t *testing.T) {
	hub := New[int]()
	ch := hub.Subscribe()

	hub.Close()
	hub.Close() // idempotent

	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed after Close")
	}

	// operations on a closed hub are no-ops
	hub.Publish(1)
	if _, ok := <-hub.Subscribe(); ok {
		t.Error("Subscribe on a closed hub should return a closed channel")
	}
}
