// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgGetAddresses implements the Message interface and represents a cygnus
// getaddr message. It is used to request a list of known active peers on the
// network from a peer to help identify potential nodes. The list is returned
// via one or more addr messages (MsgAddresses).
//
// This message has no payload.
type MsgGetAddresses struct{}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGetAddresses) CygnusDecode(r io.Reader, pver uint32) error {
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetAddresses) CygnusEncode(w io.Writer, pver uint32) error {
	return nil
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgGetAddresses) Command() MessageCommand {
	return CmdGetAddresses
}

// NewMsgGetAddresses returns a new cygnus getaddr message that conforms to
// the Message interface.
func NewMsgGetAddresses() *MsgGetAddresses {
	return &MsgGetAddresses{}
}
