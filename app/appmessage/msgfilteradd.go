// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"

	"github.com/pkg/errors"
)

// MaxFilterAddDataSize is the maximum byte size of a data element to add to
// the bloom filter. It is equal to the maximum element size of a script.
const MaxFilterAddDataSize = 520

// MsgFilterAdd implements the Message interface and represents a cygnus
// filteradd message. It is used to add a data element to an existing bloom
// filter.
type MsgFilterAdd struct {
	Data []byte
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgFilterAdd) CygnusDecode(r io.Reader, pver uint32) error {
	data, err := ReadVarBytes(r, MaxFilterAddDataSize, "filteradd data")
	if err != nil {
		return err
	}
	msg.Data = data
	return nil
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgFilterAdd) CygnusEncode(w io.Writer, pver uint32) error {
	size := len(msg.Data)
	if size > MaxFilterAddDataSize {
		return errors.Errorf("filteradd size too large for message - size %d, max %d",
			size, MaxFilterAddDataSize)
	}
	return WriteVarBytes(w, msg.Data)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgFilterAdd) Command() MessageCommand {
	return CmdFilterAdd
}

// NewMsgFilterAdd returns a new cygnus filteradd message that conforms to
// the Message interface.
func NewMsgFilterAdd(data []byte) *MsgFilterAdd {
	return &MsgFilterAdd{
		Data: data,
	}
}
