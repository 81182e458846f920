// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// MaxUserAgentLen is the maximum allowed length for the user agent field in a
// version message.
const MaxUserAgentLen = 256

// DefaultUserAgent for appmessage in the stack
const DefaultUserAgent = "/cygnusd:0.1.0/"

// MsgVersion implements the Message interface and represents a cygnus
// version message. It is used for a peer to advertise itself as soon as an
// outbound connection is made. The remote peer then uses this information
// along with its own to negotiate. The remote peer must then respond with a
// version message of its own containing the negotiated values followed by a
// verack message (MsgVerAck). This exchange must take place before any
// further communication is allowed to proceed.
type MsgVersion struct {
	// Version of the protocol the node is using.
	ProtocolVersion int32

	// Bitfield which identifies the enabled services.
	Services ServiceFlag

	// Time the message was generated. This is encoded as an int64 on the
	// wire.
	Timestamp time.Time

	// Address of the remote peer.
	AddrYou NetAddress

	// Address of the local peer. The listening port the peer accepts
	// connections on lives here.
	AddrMe NetAddress

	// Unique value associated with the message that is used to detect
	// self connections.
	Nonce uint64

	// The user agent that generated the message. This is encoded as a
	// varString on the wire. This has a max length of MaxUserAgentLen.
	UserAgent string

	// Last block seen by the generator of the version message.
	StartHeight int32

	// Don't announce transactions to peer.
	DisableRelayTx bool
}

// HasService returns whether the specified service is supported by the peer
// that generated the message.
func (msg *MsgVersion) HasService(service ServiceFlag) bool {
	return msg.Services&service == service
}

// AddService adds service as a supported service by the peer generating the
// message.
func (msg *MsgVersion) AddService(service ServiceFlag) {
	msg.Services |= service
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgVersion) CygnusDecode(r io.Reader, pver uint32) error {
	var timestamp int64
	err := ReadElements(r, &msg.ProtocolVersion, &msg.Services, &timestamp)
	if err != nil {
		return err
	}
	msg.Timestamp = time.Unix(timestamp, 0)

	err = readNetAddress(r, pver, &msg.AddrYou, false)
	if err != nil {
		return err
	}
	err = readNetAddress(r, pver, &msg.AddrMe, false)
	if err != nil {
		return err
	}

	err = ReadElement(r, &msg.Nonce)
	if err != nil {
		return err
	}

	userAgent, err := ReadVarString(r)
	if err != nil {
		return err
	}
	err = validateUserAgent(userAgent)
	if err != nil {
		return err
	}
	msg.UserAgent = userAgent

	err = ReadElement(r, &msg.StartHeight)
	if err != nil {
		return err
	}

	// The relay flag was appended to the version message in a later
	// protocol revision; treat its absence as relay enabled.
	var relayTx bool
	err = ReadElement(r, &relayTx)
	if err != nil {
		if !errors.Is(errors.Cause(err), io.EOF) && !errors.Is(errors.Cause(err), io.ErrUnexpectedEOF) {
			return err
		}
		relayTx = true
	}
	msg.DisableRelayTx = !relayTx

	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVersion) CygnusEncode(w io.Writer, pver uint32) error {
	err := validateUserAgent(msg.UserAgent)
	if err != nil {
		return err
	}

	err = WriteElements(w, msg.ProtocolVersion, msg.Services, msg.Timestamp.Unix())
	if err != nil {
		return err
	}

	err = writeNetAddress(w, pver, &msg.AddrYou, false)
	if err != nil {
		return err
	}
	err = writeNetAddress(w, pver, &msg.AddrMe, false)
	if err != nil {
		return err
	}

	err = WriteElement(w, msg.Nonce)
	if err != nil {
		return err
	}

	err = WriteVarString(w, msg.UserAgent)
	if err != nil {
		return err
	}

	err = WriteElement(w, msg.StartHeight)
	if err != nil {
		return err
	}

	return WriteElement(w, !msg.DisableRelayTx)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgVersion) Command() MessageCommand {
	return CmdVersion
}

// NewMsgVersion returns a new cygnus version message that conforms to the
// Message interface using the passed parameters and defaults for the
// remaining fields.
func NewMsgVersion(me *NetAddress, you *NetAddress, nonce uint64,
	lastBlock int32) *MsgVersion {

	// Limit the timestamp to one second precision since the protocol
	// doesn't support better.
	return &MsgVersion{
		ProtocolVersion: int32(ProtocolVersion),
		Services:        0,
		Timestamp:       time.Unix(time.Now().Unix(), 0),
		AddrYou:         *you,
		AddrMe:          *me,
		Nonce:           nonce,
		UserAgent:       DefaultUserAgent,
		StartHeight:     lastBlock,
		DisableRelayTx:  false,
	}
}

// validateUserAgent checks userAgent length against MaxUserAgentLen.
func validateUserAgent(userAgent string) error {
	if len(userAgent) > MaxUserAgentLen {
		return errors.Errorf("user agent too long [len %d, max %d]",
			len(userAgent), MaxUserAgentLen)
	}
	return nil
}

// AddUserAgent adds a user agent to the user agent string for the version
// message. The version string is not defined to any strict format, although
// it is recommended to use the form "major.minor.revision" e.g. "2.6.41".
func (msg *MsgVersion) AddUserAgent(name string, version string, comments ...string) error {
	newUserAgent := name + ":" + version
	if len(comments) != 0 {
		newUserAgent += "(" + strings.Join(comments, "; ") + ")"
	}
	newUserAgent = msg.UserAgent + "/" + newUserAgent + "/"
	err := validateUserAgent(newUserAgent)
	if err != nil {
		return err
	}
	msg.UserAgent = newUserAgent
	return nil
}
