// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgVerAck defines a cygnus verack message which is used for a peer to
// acknowledge a version message (MsgVersion) after it has been used to
// negotiate parameters. It implements the Message interface.
//
// This message has no payload.
type MsgVerAck struct{}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgVerAck) CygnusDecode(r io.Reader, pver uint32) error {
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgVerAck) CygnusEncode(w io.Writer, pver uint32) error {
	return nil
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgVerAck) Command() MessageCommand {
	return CmdVerAck
}

// NewMsgVerAck returns a new cygnus verack message that conforms to the
// Message interface.
func NewMsgVerAck() *MsgVerAck {
	return &MsgVerAck{}
}
