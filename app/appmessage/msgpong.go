// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgPong implements the Message interface and represents a cygnus pong
// message which is used primarily to confirm that a connection is still
// valid in response to a cygnus ping message (MsgPing).
type MsgPong struct {
	// Unique value associated with message that is used to identify
	// related ping message.
	Nonce uint64
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgPong) CygnusDecode(r io.Reader, pver uint32) error {
	return ReadElement(r, &msg.Nonce)
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgPong) CygnusEncode(w io.Writer, pver uint32) error {
	return WriteElement(w, msg.Nonce)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgPong) Command() MessageCommand {
	return CmdPong
}

// NewMsgPong returns a new cygnus pong message that conforms to the Message
// interface.
func NewMsgPong(nonce uint64) *MsgPong {
	return &MsgPong{
		Nonce: nonce,
	}
}
