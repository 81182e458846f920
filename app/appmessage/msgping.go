// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgPing implements the Message interface and represents a cygnus ping
// message.
//
// The payload for this message just consists of a nonce used for identifying
// it later.
type MsgPing struct {
	// Unique value associated with message that is used to identify
	// related pong message.
	Nonce uint64
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgPing) CygnusDecode(r io.Reader, pver uint32) error {
	return ReadElement(r, &msg.Nonce)
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgPing) CygnusEncode(w io.Writer, pver uint32) error {
	return WriteElement(w, msg.Nonce)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgPing) Command() MessageCommand {
	return CmdPing
}

// NewMsgPing returns a new cygnus ping message that conforms to the Message
// interface.
func NewMsgPing(nonce uint64) *MsgPing {
	return &MsgPing{
		Nonce: nonce,
	}
}
