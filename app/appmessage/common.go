// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package appmessage

import (
	"encoding/binary"
	"encoding/hex"
	"io"
	"math"

	"github.com/cygnusnet/cygnusd/util/binaryserializer"
	"github.com/pkg/errors"
)

// MaxInvPerMsg is the maximum number of inventory vectors that can be in any
// single inv type message.
const MaxInvPerMsg = 50000

// MaxVarIntPayload is the maximum payload size for a variable length integer.
const MaxVarIntPayload = 9

// HashSize is the size, in bytes, of a Hash.
const HashSize = 32

// Hash is the 32-byte identifier of a transaction or block. It is displayed
// byte-reversed, as is the convention for bitcoin-family chains.
type Hash [HashSize]byte

// String returns the Hash as the hexadecimal string of the byte-reversed
// hash.
func (hash Hash) String() string {
	for i := 0; i < HashSize/2; i++ {
		hash[i], hash[HashSize-1-i] = hash[HashSize-1-i], hash[i]
	}
	return hex.EncodeToString(hash[:])
}

// ReadElement reads the next sequence of bytes from r using little endian
// depending on the concrete type of element pointed to.
func ReadElement(r io.Reader, element interface{}) error {
	switch e := element.(type) {
	case *uint8:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = int32(rv)
		return nil

	case *uint32:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *int64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = int64(rv)
		return nil

	case *uint64:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = rv
		return nil

	case *bool:
		rv, err := binaryserializer.Uint8(r)
		if err != nil {
			return err
		}
		*e = rv != 0x00
		return nil

	case *ServiceFlag:
		rv, err := binaryserializer.Uint64(r)
		if err != nil {
			return err
		}
		*e = ServiceFlag(rv)
		return nil

	case *InvType:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = InvType(rv)
		return nil

	case *CygnusNet:
		rv, err := binaryserializer.Uint32(r)
		if err != nil {
			return err
		}
		*e = CygnusNet(rv)
		return nil

	case *Hash:
		_, err := io.ReadFull(r, e[:])
		return errors.WithStack(err)

	case *[4]byte:
		_, err := io.ReadFull(r, e[:])
		return errors.WithStack(err)

	case *[CommandSize]byte:
		_, err := io.ReadFull(r, e[:])
		return errors.WithStack(err)
	}

	// Fall back to the slower binary.Read if a fast path was not available
	// above.
	return errors.WithStack(binary.Read(r, binary.LittleEndian, element))
}

// ReadElements reads multiple items from r. It is equivalent to multiple
// calls to ReadElement.
func ReadElements(r io.Reader, elements ...interface{}) error {
	for _, element := range elements {
		err := ReadElement(r, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteElement writes the little endian representation of element to w.
func WriteElement(w io.Writer, element interface{}) error {
	switch e := element.(type) {
	case uint8:
		return binaryserializer.PutUint8(w, e)

	case int32:
		return binaryserializer.PutUint32(w, uint32(e))

	case uint32:
		return binaryserializer.PutUint32(w, e)

	case int64:
		return binaryserializer.PutUint64(w, uint64(e))

	case uint64:
		return binaryserializer.PutUint64(w, e)

	case bool:
		var b uint8
		if e {
			b = 0x01
		}
		return binaryserializer.PutUint8(w, b)

	case ServiceFlag:
		return binaryserializer.PutUint64(w, uint64(e))

	case InvType:
		return binaryserializer.PutUint32(w, uint32(e))

	case CygnusNet:
		return binaryserializer.PutUint32(w, uint32(e))

	case Hash:
		_, err := w.Write(e[:])
		return errors.WithStack(err)

	case [4]byte:
		_, err := w.Write(e[:])
		return errors.WithStack(err)

	case [CommandSize]byte:
		_, err := w.Write(e[:])
		return errors.WithStack(err)
	}

	// Fall back to the slower binary.Write if a fast path was not available
	// above.
	return errors.WithStack(binary.Write(w, binary.LittleEndian, element))
}

// WriteElements writes multiple items to w. It is equivalent to multiple
// calls to WriteElement.
func WriteElements(w io.Writer, elements ...interface{}) error {
	for _, element := range elements {
		err := WriteElement(w, element)
		if err != nil {
			return err
		}
	}
	return nil
}

// ReadVarInt reads a variable length integer from r and returns it as a
// uint64.
func ReadVarInt(r io.Reader) (uint64, error) {
	discriminant, err := binaryserializer.Uint8(r)
	if err != nil {
		return 0, err
	}

	var rv uint64
	switch discriminant {
	case 0xff:
		sv, err := binaryserializer.Uint64(r)
		if err != nil {
			return 0, err
		}
		rv = sv

		// The encoding is not canonical if the value could have been
		// encoded using fewer bytes.
		min := uint64(0x100000000)
		if rv < min {
			return 0, errors.Errorf("ReadVarInt: non-canonical varint %d - discriminant %x must encode a value greater than %x",
				rv, discriminant, min-1)
		}

	case 0xfe:
		sv, err := binaryserializer.Uint32(r)
		if err != nil {
			return 0, err
		}
		rv = uint64(sv)

		min := uint64(0x10000)
		if rv < min {
			return 0, errors.Errorf("ReadVarInt: non-canonical varint %d - discriminant %x must encode a value greater than %x",
				rv, discriminant, min-1)
		}

	case 0xfd:
		sv, err := binaryserializer.Uint16(r)
		if err != nil {
			return 0, err
		}
		rv = uint64(sv)

		min := uint64(0xfd)
		if rv < min {
			return 0, errors.Errorf("ReadVarInt: non-canonical varint %d - discriminant %x must encode a value greater than %x",
				rv, discriminant, min-1)
		}

	default:
		rv = uint64(discriminant)
	}

	return rv, nil
}

// WriteVarInt serializes val to w using a variable number of bytes depending
// on its value.
func WriteVarInt(w io.Writer, val uint64) error {
	if val < 0xfd {
		return binaryserializer.PutUint8(w, uint8(val))
	}

	if val <= math.MaxUint16 {
		err := binaryserializer.PutUint8(w, 0xfd)
		if err != nil {
			return err
		}
		return binaryserializer.PutUint16(w, uint16(val))
	}

	if val <= math.MaxUint32 {
		err := binaryserializer.PutUint8(w, 0xfe)
		if err != nil {
			return err
		}
		return binaryserializer.PutUint32(w, uint32(val))
	}

	err := binaryserializer.PutUint8(w, 0xff)
	if err != nil {
		return err
	}
	return binaryserializer.PutUint64(w, val)
}

// VarIntSerializeSize returns the number of bytes it would take to serialize
// val as a variable length integer.
func VarIntSerializeSize(val uint64) int {
	// The value is small enough to be represented by itself, so it's
	// just 1 byte.
	if val < 0xfd {
		return 1
	}

	// Discriminant 1 byte plus 2 bytes for the uint16.
	if val <= math.MaxUint16 {
		return 3
	}

	// Discriminant 1 byte plus 4 bytes for the uint32.
	if val <= math.MaxUint32 {
		return 5
	}

	// Discriminant 1 byte plus 8 bytes for the uint64.
	return 9
}

// ReadVarString reads a variable length string from r and returns it as a Go
// string. An error is returned if the length is greater than the maximum
// message payload since it helps protect against memory exhaustion attacks
// and forced panics through malformed messages.
func ReadVarString(r io.Reader) (string, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return "", err
	}

	if count > MaxMessagePayload {
		return "", errors.Errorf("ReadVarString: variable length string is too long - length %d, max %d",
			count, MaxMessagePayload)
	}

	buf := make([]byte, count)
	_, err = io.ReadFull(r, buf)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return string(buf), nil
}

// WriteVarString serializes str to w as a variable length integer containing
// the length of the string followed by the bytes that represent the string
// itself.
func WriteVarString(w io.Writer, str string) error {
	err := WriteVarInt(w, uint64(len(str)))
	if err != nil {
		return err
	}
	_, err = w.Write([]byte(str))
	return errors.WithStack(err)
}

// ReadVarBytes reads a variable length byte array. A byte array is encoded
// as a varInt containing the length of the array followed by the bytes
// themselves. An error is returned if the length is greater than the passed
// maxAllowed parameter which helps protect against memory exhaustion attacks
// and forced panics through malformed messages.
func ReadVarBytes(r io.Reader, maxAllowed uint32, fieldName string) ([]byte, error) {
	count, err := ReadVarInt(r)
	if err != nil {
		return nil, err
	}

	if count > uint64(maxAllowed) {
		return nil, errors.Errorf("ReadVarBytes: %s is larger than the max allowed size - count %d, max %d",
			fieldName, count, maxAllowed)
	}

	b := make([]byte, count)
	_, err = io.ReadFull(r, b)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return b, nil
}

// WriteVarBytes serializes a variable length byte array to w as a varInt
// containing the number of bytes, followed by the bytes themselves.
func WriteVarBytes(w io.Writer, bytes []byte) error {
	err := WriteVarInt(w, uint64(len(bytes)))
	if err != nil {
		return err
	}
	_, err = w.Write(bytes)
	return errors.WithStack(err)
}
