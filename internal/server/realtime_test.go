package server

import (
	"context"
	"testing"
	"time"
)

func TestRealtimeDispatcherPublishesToEverySubscriber(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	first, firstCleanup := dispatcher.Subscribe(ctx)
	defer firstCleanup()
	second, secondCleanup := dispatcher.Subscribe(ctx)
	defer secondCleanup()

	dispatcher.Publish(RealtimeMessage{
		EventType: RealtimeEventBookingChanged,
		Kind:      RealtimeKindCreated,
		BookingID: 7,
		Timestamp: time.Now().UTC(),
	})

	for index, stream := range []<-chan RealtimeMessage{first, second} {
		select {
		case received := <-stream:
			if received.Kind != RealtimeKindCreated || received.BookingID != 7 {
				t.Fatalf("subscriber %d received unexpected message %+v", index, received)
			}
		case <-time.After(500 * time.Millisecond):
			t.Fatalf("subscriber %d expected realtime message within deadline", index)
		}
	}
}

func TestRealtimeDispatcherIgnoresUntypedMessages(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx)
	defer cleanup()

	dispatcher.Publish(RealtimeMessage{Kind: RealtimeKindDeleted, BookingID: 3})

	select {
	case message := <-stream:
		t.Fatalf("did not expect message without event type, got %+v", message)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRealtimeDispatcherDropsMessagesForSlowSubscribers(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stream, cleanup := dispatcher.Subscribe(ctx)
	defer cleanup()

	done := make(chan struct{})
	go func() {
		for index := 0; index < dispatcher.bufferSize*4; index++ {
			dispatcher.Publish(RealtimeMessage{
				EventType: RealtimeEventBookingChanged,
				Kind:      RealtimeKindUpdated,
				BookingID: int64(index + 1),
			})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full subscriber")
	}
	if len(stream) != dispatcher.bufferSize {
		t.Fatalf("expected buffered stream to be full, got %d", len(stream))
	}
}

func TestRealtimeDispatcherUnsubscribesOnContextCancel(t *testing.T) {
	dispatcher := NewRealtimeDispatcher()
	ctx, cancel := context.WithCancel(context.Background())

	_, cleanup := dispatcher.Subscribe(ctx)
	defer cleanup()
	if dispatcher.SubscriberCount() != 1 {
		t.Fatalf("expected one subscriber, got %d", dispatcher.SubscriberCount())
	}

	cancel()
	deadline := time.Now().Add(time.Second)
	for dispatcher.SubscriberCount() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber not removed after context cancel")
		}
		time.Sleep(10 * time.Millisecond)
	}

	cleanup()
	if dispatcher.SubscriberCount() != 0 {
		t.Fatalf("expected cleanup to be idempotent")
	}
}
