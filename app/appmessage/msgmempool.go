// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgMemPool implements the Message interface and represents a cygnus
// mempool message. It is used to request a list of transactions still in
// the active memory pool of a relay.
//
// This message has no payload.
type MsgMemPool struct{}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgMemPool) CygnusDecode(r io.Reader, pver uint32) error {
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgMemPool) CygnusEncode(w io.Writer, pver uint32) error {
	return nil
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgMemPool) Command() MessageCommand {
	return CmdMemPool
}

// NewMsgMemPool returns a new cygnus mempool message that conforms to the
// Message interface.
func NewMsgMemPool() *MsgMemPool {
	return &MsgMemPool{}
}
