package connection

import (
	"github.com/cygnusnet/cygnusd/app/appmessage"
	peerpkg "github.com/cygnusnet/cygnusd/app/protocol/peer"
	"github.com/cygnusnet/cygnusd/app/protocol/protocolerrors"
	"github.com/cygnusnet/cygnusd/util/random"
	"github.com/pkg/errors"
)

// sendVersion builds and writes the local version message. It runs before
// the session goroutine starts and is not flow-controlled.
func (s *Session) sendVersion() error {
	if s.state != handshakeStart {
		return errors.Errorf("cannot send version in handshake state %s", s.state)
	}

	nonce, err := random.Uint64()
	if err != nil {
		return err
	}
	s.localNonce = nonce

	msg := appmessage.NewMsgVersion(s.peer.LocalAddress(), s.peer.RemoteAddress(),
		nonce, s.heights.SelectedTipHeight())
	if s.cfg.UserAgent != "" {
		msg.UserAgent = s.cfg.UserAgent
	}
	msg.DisableRelayTx = s.cfg.DisableRelayTx

	err = s.directSend(msg)
	if err != nil {
		return err
	}
	s.state = handshakeVersionSent
	log.Debugf("Sent version to %s with nonce %d", s.peer, nonce)
	return nil
}

// SetPeerVersion handles the peer's decoded version message: it checks for
// self and duplicate connections, records the peer's details and replies
// with a verack. Callable only from the payload decoder.
func (s *Session) SetPeerVersion(msg *appmessage.MsgVersion) error {
	if s.state != handshakeVersionSent {
		return protocolerrors.Errorf(true, "received version in handshake state %s", s.state)
	}

	if msg.Nonce == s.localNonce {
		return protocolerrors.New(false, "disconnecting peer connected to self")
	}

	// The peer's fields must be final before it is published through the
	// registry; the registry's own lock makes the duplicate check and the
	// insert atomic.
	s.peer.UpdateFieldsFromVersionMessage(msg)
	err := s.registry.Add(s.peer)
	if errors.Is(err, peerpkg.ErrPeerWithSameNonceExists) {
		return protocolerrors.Wrap(false, err, "rejecting duplicate connection")
	}
	if err != nil {
		return err
	}

	err = s.directSend(appmessage.NewMsgVerAck())
	if err != nil {
		return err
	}
	s.state = handshakeVersionReceived
	return nil
}

// NotifyVerAck handles the peer's handshake acknowledgment: the session
// becomes established, the handshake-complete sink is notified and any
// outbound backlog starts draining. Callable only from the payload decoder.
func (s *Session) NotifyVerAck() error {
	if s.state != handshakeVersionReceived {
		return protocolerrors.Errorf(true, "received verack in handshake state %s", s.state)
	}

	s.state = handshakeEstablished
	s.peer.MarkHandshakeComplete()
	log.Infof("Completed handshake with %s (%s)", s.peer, s.peer.UserAgent())

	if s.listener != nil {
		s.listener.OnHandshakeComplete(s.peer)
	}
	return s.maybeSend()
}
