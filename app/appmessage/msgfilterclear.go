// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgFilterClear implements the Message interface and represents a cygnus
// filterclear message which is used to reset a bloom filter.
//
// This message has no payload.
type MsgFilterClear struct{}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgFilterClear) CygnusDecode(r io.Reader, pver uint32) error {
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgFilterClear) CygnusEncode(w io.Writer, pver uint32) error {
	return nil
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgFilterClear) Command() MessageCommand {
	return CmdFilterClear
}

// NewMsgFilterClear returns a new cygnus filterclear message that conforms
// to the Message interface.
func NewMsgFilterClear() *MsgFilterClear {
	return &MsgFilterClear{}
}
