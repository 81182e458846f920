package connection

import (
	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/app/protocol/protocolerrors"
)

// AddressListener consumes addresses the peer advertises, typically to feed
// an address manager.
type AddressListener interface {
	OnAddresses(addresses []*appmessage.NetAddress)
}

// defaultDecoder decodes the payloads the session core itself consumes and
// feeds the results back into the session. Commands the core has no use for
// are logged and dropped; an unknown command is never fatal.
type defaultDecoder struct {
	addressListener AddressListener
}

// NewDefaultDecoder returns the payload decoder a session uses when none is
// injected. addressListener may be nil.
func NewDefaultDecoder(addressListener AddressListener) PayloadDecoder {
	return &defaultDecoder{addressListener: addressListener}
}

func (d *defaultDecoder) DecodePayload(s *Session,
	command appmessage.MessageCommand, payload []byte) error {

	switch command {
	case appmessage.CmdVersion:
		msg := &appmessage.MsgVersion{}
		err := decodePayload(msg, payload, s)
		if err != nil {
			return err
		}
		return s.SetPeerVersion(msg)

	case appmessage.CmdVerAck:
		return s.NotifyVerAck()

	case appmessage.CmdFilterLoad:
		msg := &appmessage.MsgFilterLoad{}
		err := decodePayload(msg, payload, s)
		if err != nil {
			return err
		}
		s.InstallFilter(msg)
		return nil

	case appmessage.CmdFilterAdd:
		msg := &appmessage.MsgFilterAdd{}
		err := decodePayload(msg, payload, s)
		if err != nil {
			return err
		}
		return s.AddFilterData(msg.Data)

	case appmessage.CmdFilterClear:
		s.ClearFilter()
		return nil

	case appmessage.CmdPing:
		msg := &appmessage.MsgPing{}
		err := decodePayload(msg, payload, s)
		if err != nil {
			return err
		}
		return s.EnqueueOutbound(appmessage.NewMsgPong(msg.Nonce))

	case appmessage.CmdAddresses:
		msg := &appmessage.MsgAddresses{}
		err := decodePayload(msg, payload, s)
		if err != nil {
			return err
		}
		if d.addressListener != nil && len(msg.AddrList) > 0 {
			d.addressListener.OnAddresses(msg.AddrList)
		}
		return nil
	}

	log.Tracef("Ignoring %s message from %s", command, s.Peer())
	return nil
}

func decodePayload(msg appmessage.Message, payload []byte, s *Session) error {
	err := appmessage.DecodeMessagePayload(msg, payload, s.Peer().ProtocolVersion())
	if err != nil {
		return protocolerrors.Wrapf(true, err, "malformed %s payload", msg.Command())
	}
	return nil
}
