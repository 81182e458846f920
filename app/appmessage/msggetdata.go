// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MsgGetData implements the Message interface and represents a cygnus
// getdata message. It is used to request data such as blocks and
// transactions from another peer. It should be used in response to the inv
// (MsgInv) message to request the actual data referenced by each inventory
// vector the receiving peer doesn't already have.
type MsgGetData struct {
	InvList []*InvVect
}

// AddInvVect adds an inventory vector to the message.
func (msg *MsgGetData) AddInvVect(iv *InvVect) error {
	if len(msg.InvList)+1 > MaxInvPerMsg {
		return errors.Errorf("too many invvect in message [max %d]",
			MaxInvPerMsg)
	}

	msg.InvList = append(msg.InvList, iv)
	return nil
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgGetData) CygnusDecode(r io.Reader, pver uint32) error {
	invList, err := readInvList(r, pver)
	if err != nil {
		return err
	}
	msg.InvList = invList
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgGetData) CygnusEncode(w io.Writer, pver uint32) error {
	return writeInvList(w, pver, msg.InvList)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgGetData) Command() MessageCommand {
	return CmdGetData
}

// NewMsgGetData returns a new cygnus getdata message that conforms to the
// Message interface.
func NewMsgGetData() *MsgGetData {
	return &MsgGetData{
		InvList: make([]*InvVect, 0, defaultInvListAlloc),
	}
}
