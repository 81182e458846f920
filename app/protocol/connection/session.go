package connection

import (
	"github.com/cygnusnet/cygnusd/app/appmessage"
	peerpkg "github.com/cygnusnet/cygnusd/app/protocol/peer"
	"github.com/cygnusnet/cygnusd/app/protocol/protocolerrors"
	"github.com/cygnusnet/cygnusd/util/bloom"
	"github.com/pkg/errors"
)

// ErrConnectionClosed is the teardown reason used when the remote side
// closed the underlying connection.
var ErrConnectionClosed = errors.New("connection closed by the remote peer")

// Transport is the byte-stream sink a session writes to. Send hands one
// serialized message to the underlying connection; the matching
// acknowledgment arrives later through Session.NotifySendComplete. Abort
// closes the underlying connection.
type Transport interface {
	Send(data []byte) error
	Abort()
}

// ChainHeightSource supplies the chain height advertised in the local
// version message.
type ChainHeightSource interface {
	SelectedTipHeight() int32
}

// HandshakeListener is notified exactly once per session, when the version
// handshake completes.
type HandshakeListener interface {
	OnHandshakeComplete(peer *peerpkg.Peer)
}

// PayloadDecoder receives every message the framer extracts, in the exact
// order the bytes arrived. It runs on the session goroutine and feeds
// decoded results back through the session's decoder-facing methods
// (SetPeerVersion, NotifyVerAck, InstallFilter, AddFilterData, ClearFilter).
// An error it returns tears the session down.
type PayloadDecoder interface {
	DecodePayload(session *Session, command appmessage.MessageCommand, payload []byte) error
}

// Config carries the session parameters that do not vary per peer.
type Config struct {
	Network         appmessage.CygnusNet
	ProtocolVersion uint32
	UserAgent       string
	DisableRelayTx  bool
}

type handshakeState uint8

const (
	handshakeStart handshakeState = iota
	handshakeVersionSent
	handshakeVersionReceived
	handshakeEstablished
	handshakeAborted
)

var handshakeStateStrings = map[handshakeState]string{
	handshakeStart:           "Start",
	handshakeVersionSent:     "VersionSent",
	handshakeVersionReceived: "VersionReceived",
	handshakeEstablished:     "Established",
	handshakeAborted:         "Aborted",
}

func (state handshakeState) String() string {
	if s, ok := handshakeStateStrings[state]; ok {
		return s
	}
	return "Unknown"
}

// Session is the endpoint of one peer connection. It owns the receive
// buffer, the handshake state machine, the outbound queues and the relay
// filter, and it is the only goroutine that touches them: every external
// input is posted to the session's mailbox and handled in order, with
// acknowledgment and close notifications served first.
type Session struct {
	cfg       *Config
	transport Transport
	decoder   PayloadDecoder
	registry  *peerpkg.Registry
	listener  HandshakeListener
	heights   ChainHeightSource

	mailbox *mailbox
	framer  *framer
	peer    *peerpkg.Peer

	// Owned by the session goroutine after Start.
	state        handshakeState
	localNonce   uint64
	sendInFlight bool
	highQueue    []appmessage.Message
	lowQueue     []appmessage.Message
	filter       *bloom.Filter
}

// New builds a session over a freshly established connection. decoder may be
// nil, in which case the default payload decoder is used.
func New(cfg *Config, transport Transport, registry *peerpkg.Registry,
	listener HandshakeListener, heights ChainHeightSource, decoder PayloadDecoder,
	localAddress, remoteAddress *appmessage.NetAddress) *Session {

	if decoder == nil {
		decoder = NewDefaultDecoder(nil)
	}
	return &Session{
		cfg:       cfg,
		transport: transport,
		decoder:   decoder,
		registry:  registry,
		listener:  listener,
		heights:   heights,
		mailbox:   newMailbox(),
		framer:    newFramer(cfg.Network),
		peer:      peerpkg.New(localAddress, remoteAddress),
	}
}

// Start sends the local version message and spawns the goroutine that
// drains the mailbox. The peer joins the registry only once its version
// message has arrived and its nonce is known.
func (s *Session) Start() error {
	err := s.sendVersion()
	if err != nil {
		return err
	}
	spawn("Session.run", s.run)
	return nil
}

// Peer returns this session's peer handle.
func (s *Session) Peer() *peerpkg.Peer {
	return s.peer
}

// HandleBytes posts an inbound chunk of raw connection bytes.
func (s *Session) HandleBytes(chunk []byte) error {
	return s.mailbox.post(event{kind: eventIncomingBytes, chunk: chunk})
}

// NotifySendComplete posts the transport's acknowledgment that the
// previously sent message has been fully written.
func (s *Session) NotifySendComplete() error {
	return s.mailbox.post(event{kind: eventSendComplete})
}

// NotifyConnectionClosed posts the transport's notification that the
// underlying connection has closed. The session tears itself down.
func (s *Session) NotifyConnectionClosed() error {
	return s.mailbox.post(event{kind: eventConnectionClosed})
}

// EnqueueOutbound posts a message for flow-controlled delivery to the peer.
func (s *Session) EnqueueOutbound(message appmessage.Message) error {
	return s.mailbox.post(event{kind: eventOutboundMessage, message: message})
}

// ConsiderRelay posts an inventory item as a relay candidate. Whether it is
// actually advertised depends on the peer's relay preferences and filter.
func (s *Session) ConsiderRelay(invVect *appmessage.InvVect) error {
	return s.mailbox.post(event{kind: eventRelayCandidate, invVect: invVect})
}

func (s *Session) run() {
	defer func() {
		if r := recover(); r != nil {
			log.Criticalf("Session with %s panicked: %v", s.peer, r)
			s.abort(errors.Errorf("panic while handling a session event: %v", r))
		}
	}()

	for {
		ev, err := s.mailbox.next()
		if err != nil {
			// The mailbox only closes during abort, so teardown
			// has already run.
			return
		}
		err = s.handleEvent(ev)
		if err != nil {
			s.abort(err)
			return
		}
	}
}

func (s *Session) handleEvent(ev event) error {
	switch ev.kind {
	case eventConnectionClosed:
		return errors.WithStack(ErrConnectionClosed)

	case eventSendComplete:
		s.sendInFlight = false
		return s.maybeSend()

	case eventIncomingBytes:
		messages, err := s.framer.appendChunk(ev.chunk)
		if err != nil {
			return err
		}
		for _, message := range messages {
			err := s.decoder.DecodePayload(s, message.command, message.payload)
			if err != nil {
				return err
			}
		}
		return nil

	case eventOutboundMessage:
		return s.enqueueOutbound(ev.message)

	case eventRelayCandidate:
		return s.considerRelay(ev.invVect)
	}
	return errors.Errorf("unknown event kind %d", ev.kind)
}

// abort is the single teardown path. Every fatal condition funnels here:
// the transport is aborted, queued messages are dropped, the registry entry
// is removed and the mailbox is closed so no further events are accepted.
func (s *Session) abort(err error) {
	if s.state == handshakeAborted {
		return
	}
	s.state = handshakeAborted

	if errors.Is(err, ErrConnectionClosed) {
		log.Debugf("Session with %s ended: %s", s.peer, err)
	} else if protocolerrors.IsBanningError(err) {
		log.Warnf("Aborting session with misbehaving peer %s: %s", s.peer, err)
	} else {
		log.Warnf("Aborting session with %s: %s", s.peer, err)
	}

	s.highQueue = nil
	s.lowQueue = nil
	s.sendInFlight = false
	s.mailbox.close()
	s.registry.Remove(s.peer)
	s.transport.Abort()
}

// directSend serializes and writes a message immediately, bypassing the
// dispatcher. Only the handshake uses it.
func (s *Session) directSend(message appmessage.Message) error {
	data, err := appmessage.SerializeMessage(message, s.cfg.ProtocolVersion, s.cfg.Network)
	if err != nil {
		return err
	}
	return s.transport.Send(data)
}
