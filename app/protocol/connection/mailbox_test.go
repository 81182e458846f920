package connection

import (
	"testing"

	"github.com/pkg/errors"
)

func TestMailboxControlEventsDrainFirst(t *testing.T) {
	m := newMailbox()

	post := func(ev event) {
		t.Helper()
		if err := m.post(ev); err != nil {
			t.Fatalf("post: %v", err)
		}
	}
	post(event{kind: eventIncomingBytes, chunk: []byte{1}})
	post(event{kind: eventOutboundMessage})
	post(event{kind: eventSendComplete})
	post(event{kind: eventConnectionClosed})

	wantOrder := []eventKind{
		eventSendComplete,
		eventConnectionClosed,
		eventIncomingBytes,
		eventOutboundMessage,
	}
	for i, want := range wantOrder {
		ev, err := m.next()
		if err != nil {
			t.Fatalf("next #%d: %v", i, err)
		}
		if ev.kind != want {
			t.Errorf("next #%d: got kind %d, want %d", i, ev.kind, want)
		}
	}
}

func TestMailboxClose(t *testing.T) {
	m := newMailbox()
	if err := m.post(event{kind: eventIncomingBytes}); err != nil {
		t.Fatalf("post: %v", err)
	}

	m.close()

	// The backlog is dropped on close, so next fails immediately.
	_, err := m.next()
	if !errors.Is(err, ErrMailboxClosed) {
		t.Fatalf("next after close: got %v, want ErrMailboxClosed", err)
	}
	err = m.post(event{kind: eventSendComplete})
	if !errors.Is(err, ErrMailboxClosed) {
		t.Fatalf("post after close: got %v, want ErrMailboxClosed", err)
	}

	// Closing twice must not panic.
	m.close()
}

func TestMailboxCloseReleasesBlockedReader(t *testing.T) {
	m := newMailbox()

	done := make(chan error)
	go func() {
		_, err := m.next()
		done <- err
	}()

	m.close()
	if err := <-done; !errors.Is(err, ErrMailboxClosed) {
		t.Fatalf("blocked next: got %v, want ErrMailboxClosed", err)
	}
}
