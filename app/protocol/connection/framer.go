package connection

import (
	"encoding/binary"

	"github.com/cygnusnet/cygnusd/app/appmessage"
	"github.com/cygnusnet/cygnusd/app/protocol/protocolerrors"
	"github.com/pkg/errors"
)

// ErrBadMagic is returned when a message header carries a network magic
// other than the session's.
var ErrBadMagic = errors.New("message magic does not match the network")

// ErrPayloadTooLarge is returned when a message header declares a payload
// length that is negative or above the protocol maximum.
var ErrPayloadTooLarge = errors.New("declared payload length is out of bounds")

// framedMessage is one complete message sliced out of the byte stream. The
// payload is an independent copy; it does not alias the framer's buffer.
type framedMessage struct {
	command appmessage.MessageCommand
	payload []byte
}

// framer turns an arbitrary sequence of byte chunks back into discrete
// messages. It holds no state beyond the unconsumed tail of the stream.
type framer struct {
	network appmessage.CygnusNet
	buffer  []byte
}

func newFramer(network appmessage.CygnusNet) *framer {
	return &framer{network: network}
}

// appendChunk adds chunk to the accumulated buffer and extracts every
// message that is now complete, in stream order. An error means the stream
// is unrecoverable and the session must be torn down.
func (f *framer) appendChunk(chunk []byte) ([]*framedMessage, error) {
	f.buffer = append(f.buffer, chunk...)

	var messages []*framedMessage
	for {
		message, ok, err := f.extractMessage()
		if err != nil {
			return nil, err
		}
		if !ok {
			return messages, nil
		}
		messages = append(messages, message)
	}
}

// extractMessage attempts to slice one complete message off the front of the
// buffer. It validates the magic as soon as four bytes are available and the
// declared payload length as soon as the header is, so a hostile stream is
// rejected without waiting for its payload.
func (f *framer) extractMessage() (*framedMessage, bool, error) {
	if len(f.buffer) < 4 {
		return nil, false, nil
	}
	magic := appmessage.CygnusNet(binary.LittleEndian.Uint32(f.buffer[:4]))
	if magic != f.network {
		return nil, false, protocolerrors.Wrapf(true, ErrBadMagic,
			"message magic 0x%08x is not the %s magic 0x%08x",
			uint32(magic), f.network, uint32(f.network))
	}

	if len(f.buffer) < appmessage.MessageHeaderSize {
		return nil, false, nil
	}
	payloadLength := int32(binary.LittleEndian.Uint32(f.buffer[16:20]))
	if payloadLength < 0 || int(payloadLength) > appmessage.MaxMessagePayload {
		return nil, false, protocolerrors.Wrapf(true, ErrPayloadTooLarge,
			"declared payload length %d is outside [0, %d]",
			payloadLength, appmessage.MaxMessagePayload)
	}

	totalLength := appmessage.MessageHeaderSize + int(payloadLength)
	if len(f.buffer) < totalLength {
		return nil, false, nil
	}

	command := appmessage.MessageCommandFromWire(f.buffer[4 : 4+appmessage.CommandSize])
	payload := make([]byte, payloadLength)
	copy(payload, f.buffer[appmessage.MessageHeaderSize:totalLength])
	f.buffer = f.buffer[totalLength:]

	return &framedMessage{command: command, payload: payload}, true, nil
}
