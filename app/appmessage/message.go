// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// MaxMessagePayload is the maximum bytes a message can be regardless of other
// individual limits imposed by messages themselves.
const MaxMessagePayload = 1024 * 1024 * 32 // 32MB

// MessageHeaderSize is the number of bytes in a message header. It is the
// magic 4 bytes + command 12 bytes + payload length 4 bytes +
// checksum 4 bytes.
const MessageHeaderSize = 24

// CommandSize is the fixed size of all commands in the common message
// header. Shorter commands must be zero padded.
const CommandSize = 12

// MessageCommand is the type of a message. On the wire it is represented by
// the NUL-padded command string in the message header; internally all
// dispatch happens over this closed set of values.
type MessageCommand uint8

// Commands used in cygnus message headers which describe the type of message.
const (
	CmdVersion MessageCommand = iota
	CmdVerAck
	CmdGetAddresses
	CmdAddresses
	CmdGetBlocks
	CmdGetHeaders
	CmdMemPool
	CmdInv
	CmdGetData
	CmdTx
	CmdBlock
	CmdNotFound
	CmdPing
	CmdPong
	CmdFilterLoad
	CmdFilterAdd
	CmdFilterClear
	CmdAlert

	// CmdUnknown represents any command string this node does not
	// recognize. Unknown messages are framed and delivered like any other;
	// deciding what to do with them is the decoder's concern.
	CmdUnknown
)

// MessageCommandToString maps all known MessageCommands to their wire
// command string.
var MessageCommandToString = map[MessageCommand]string{
	CmdVersion:      "version",
	CmdVerAck:       "verack",
	CmdGetAddresses: "getaddr",
	CmdAddresses:    "addr",
	CmdGetBlocks:    "getblocks",
	CmdGetHeaders:   "getheaders",
	CmdMemPool:      "mempool",
	CmdInv:          "inv",
	CmdGetData:      "getdata",
	CmdTx:           "tx",
	CmdBlock:        "block",
	CmdNotFound:     "notfound",
	CmdPing:         "ping",
	CmdPong:         "pong",
	CmdFilterLoad:   "filterload",
	CmdFilterAdd:    "filteradd",
	CmdFilterClear:  "filterclear",
	CmdAlert:        "alert",
}

var stringToMessageCommand = func() map[string]MessageCommand {
	m := make(map[string]MessageCommand, len(MessageCommandToString))
	for command, str := range MessageCommandToString {
		m[str] = command
	}
	return m
}()

func (cmd MessageCommand) String() string {
	cmdString, ok := MessageCommandToString[cmd]
	if !ok {
		cmdString = "unknown command"
	}
	return fmt.Sprintf("%s [code %d]", cmdString, uint8(cmd))
}

// MessageCommandFromWire converts the NUL-padded command field of a message
// header to a MessageCommand. Command strings this node does not recognize
// convert to CmdUnknown.
func MessageCommandFromWire(commandField []byte) MessageCommand {
	commandString := string(bytes.TrimRight(commandField, "\x00"))
	command, ok := stringToMessageCommand[commandString]
	if !ok {
		return CmdUnknown
	}
	return command
}

// Message is an interface that describes a cygnus message. A type that
// implements Message has complete control over the representation of its data
// and may therefore contain additional or fewer fields than those which
// are used directly in the protocol encoded message.
type Message interface {
	CygnusDecode(r io.Reader, pver uint32) error
	CygnusEncode(w io.Writer, pver uint32) error
	Command() MessageCommand
}

// checksum returns the first four bytes of the double-SHA256 of the given
// payload.
func checksum(payload []byte) [4]byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	var sum [4]byte
	copy(sum[:], second[:4])
	return sum
}

// WriteMessage writes a cygnus Message to w including the necessary header
// information: magic, NUL-padded command string, payload length in
// little-endian and the payload checksum.
func WriteMessage(w io.Writer, msg Message, pver uint32, cygnusNet CygnusNet) error {
	commandString, ok := MessageCommandToString[msg.Command()]
	if !ok {
		return errors.Errorf("message command %s cannot be written to the wire", msg.Command())
	}

	var payloadBuffer bytes.Buffer
	err := msg.CygnusEncode(&payloadBuffer, pver)
	if err != nil {
		return err
	}
	payload := payloadBuffer.Bytes()
	if len(payload) > MaxMessagePayload {
		return errors.Errorf("message payload is too large - encoded "+
			"%d bytes, but maximum message payload is %d bytes",
			len(payload), MaxMessagePayload)
	}

	var command [CommandSize]byte
	copy(command[:], commandString)

	var header bytes.Buffer
	err = WriteElements(&header, uint32(cygnusNet), command)
	if err != nil {
		return err
	}
	err = WriteElements(&header, uint32(len(payload)), checksum(payload))
	if err != nil {
		return err
	}

	_, err = w.Write(header.Bytes())
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = w.Write(payload)
	return errors.WithStack(err)
}

// SerializeMessage encodes msg, header included, into a fresh byte slice
// ready to be handed to a transport.
func SerializeMessage(msg Message, pver uint32, cygnusNet CygnusNet) ([]byte, error) {
	var buffer bytes.Buffer
	err := WriteMessage(&buffer, msg, pver, cygnusNet)
	if err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// DecodeMessagePayload deserializes the payload bytes of a framed message
// into msg, which must be the concrete message type matching the framed
// command.
func DecodeMessagePayload(msg Message, payload []byte, pver uint32) error {
	return msg.CygnusDecode(bytes.NewReader(payload), pver)
}
