package connection

import (
	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/app/protocol/protocolerrors"
	"github.com/cygnusnet/cygnusd/util/bloom"
)

// considerRelay decides whether one inventory item is advertised to this
// peer. Inventory is dropped outright until the handshake completes and
// whenever the peer declined relay; transaction inventory additionally has
// to pass the installed filter snapshot, if any.
func (s *Session) considerRelay(invVect *appmessage.InvVect) error {
	if !s.peer.HandshakeComplete() || s.peer.DisableRelayTx() {
		return nil
	}
	if invVect.Type == appmessage.InvTypeTx && s.filter != nil &&
		!s.filter.Matches(invVect.Hash[:]) {
		log.Tracef("Not relaying tx %s to %s, filter excludes it", invVect.Hash, s.peer)
		return nil
	}

	inv := appmessage.NewMsgInvSizeHint(1)
	err := inv.AddInvVect(invVect)
	if err != nil {
		return err
	}
	return s.enqueueOutbound(inv)
}

// InstallFilter replaces the relay filter snapshot with one built from the
// peer's filterload message. Callable only from the payload decoder.
func (s *Session) InstallFilter(msg *appmessage.MsgFilterLoad) {
	s.filter = bloom.LoadFilter(msg)
	log.Debugf("Installed a relay filter for %s (%d bytes, %d hash funcs)",
		s.peer, len(msg.Filter), msg.HashFuncs)
}

// AddFilterData swaps in a copy of the current snapshot extended with the
// peer's filteradd data. Snapshots are never mutated in place. Callable
// only from the payload decoder.
func (s *Session) AddFilterData(data []byte) error {
	if s.filter == nil {
		return protocolerrors.New(true, "received filteradd with no filter installed")
	}
	updated := s.filter.Copy()
	updated.Add(data)
	s.filter = updated
	return nil
}

// ClearFilter removes the relay filter snapshot. Callable only from the
// payload decoder.
func (s *Session) ClearFilter() {
	s.filter = nil
	log.Debugf("Cleared the relay filter for %s", s.peer)
}
