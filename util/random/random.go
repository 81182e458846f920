package random

import (
	"crypto/rand"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

// randomUint64 returns a cryptographically random uint64 value. This
// unexported version takes a reader primarily to ensure the error paths
// can be properly tested by passing a fake reader in the tests.
func randomUint64(r io.Reader) (uint64, error) {
	rv, err := binaryUint64(r)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return rv, nil
}

func binaryUint64(r io.Reader) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}

// Uint64 returns a cryptographically random uint64 value. It is used, among
// other things, for session nonces which must be unpredictable across all
// live connections.
func Uint64() (uint64, error) {
	return randomUint64(rand.Reader)
}
