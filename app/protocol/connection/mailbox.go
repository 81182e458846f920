package connection

import (
	"sync"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/pkg/errors"
)

// ErrMailboxClosed is returned when posting to or reading from a mailbox
// whose session has been torn down.
var ErrMailboxClosed = errors.New("mailbox closed")

type eventKind uint8

const (
	eventIncomingBytes eventKind = iota
	eventOutboundMessage
	eventRelayCandidate
	eventSendComplete
	eventConnectionClosed
)

// isControl reports whether events of this kind must be processed ahead of
// the ordinary backlog. Acknowledgments keep flow control responsive and
// close notifications keep teardown responsive, so both jump the queue.
func (k eventKind) isControl() bool {
	return k == eventSendComplete || k == eventConnectionClosed
}

type event struct {
	kind    eventKind
	chunk   []byte
	message appmessage.Message
	invVect *appmessage.InvVect
}

// mailbox is the ordered inbox a session goroutine drains. It holds two
// internal queues and always serves the control queue first.
type mailbox struct {
	mutex   sync.Mutex
	cond    *sync.Cond
	control []event
	data    []event
	closed  bool
}

func newMailbox() *mailbox {
	m := &mailbox{}
	m.cond = sync.NewCond(&m.mutex)
	return m
}

func (m *mailbox) post(ev event) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if m.closed {
		return errors.WithStack(ErrMailboxClosed)
	}
	if ev.kind.isControl() {
		m.control = append(m.control, ev)
	} else {
		m.data = append(m.data, ev)
	}
	m.cond.Signal()
	return nil
}

// next blocks until an event is available or the mailbox is closed. Once
// closed it fails immediately, dropping whatever backlog remains.
func (m *mailbox) next() (event, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for !m.closed && len(m.control) == 0 && len(m.data) == 0 {
		m.cond.Wait()
	}
	if m.closed {
		return event{}, errors.WithStack(ErrMailboxClosed)
	}
	if len(m.control) > 0 {
		ev := m.control[0]
		m.control = m.control[1:]
		return ev, nil
	}
	ev := m.data[0]
	m.data = m.data[1:]
	return ev, nil
}

func (m *mailbox) close() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.closed = true
	m.control = nil
	m.data = nil
	m.cond.Broadcast()
}
