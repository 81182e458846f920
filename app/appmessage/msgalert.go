// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"io"
)

// MsgAlert implements the Message interface and defines a cygnus alert
// message.
//
// This is a signed message that provides notifications that the client
// should display if the signature matches the key. Both the serialized
// payload and the signature are kept opaque here; verifying and
// interpreting the alert is done elsewhere.
type MsgAlert struct {
	// SerializedPayload is the alert payload serialized as a string so
	// that the version can change but the Alert can still be passed on by
	// older clients.
	SerializedPayload []byte

	// Signature is the ECDSA signature of the message.
	Signature []byte
}

// CygnusDecode decodes r using the cygnus protocol encoding into the
// receiver. This is part of the Message interface implementation.
func (msg *MsgAlert) CygnusDecode(r io.Reader, pver uint32) error {
	var err error
	msg.SerializedPayload, err = ReadVarBytes(r, MaxMessagePayload, "alert serialized payload")
	if err != nil {
		return err
	}

	msg.Signature, err = ReadVarBytes(r, MaxMessagePayload, "alert signature")
	return err
}

// CygnusEncode encodes the receiver to w using the cygnus protocol encoding.
// This is part of the Message interface implementation.
func (msg *MsgAlert) CygnusEncode(w io.Writer, pver uint32) error {
	err := WriteVarBytes(w, msg.SerializedPayload)
	if err != nil {
		return err
	}
	return WriteVarBytes(w, msg.Signature)
}

// Command returns the protocol command for the message. This is part of the
// Message interface implementation.
func (msg *MsgAlert) Command() MessageCommand {
	return CmdAlert
}

// NewMsgAlert returns a new cygnus alert message that conforms to the
// Message interface.
func NewMsgAlert(serializedPayload []byte, signature []byte) *MsgAlert {
	return &MsgAlert{
		SerializedPayload: serializedPayload,
		Signature:         signature,
	}
}
