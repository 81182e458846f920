// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"encoding/hex"
	"testing"

	"github.com/cygnusnet/cygnusd/app/appmessage"
)

// TestMurmurHash3 checks the MurmurHash3 implementation against the
// reference test vectors.
func TestMurmurHash3(t *testing.T) {
	tests := []struct {
		seed uint32
		data string
		out  uint32
	}{
		{0x00000000, "", 0x00000000},
		{0xfba4c795, "", 0x6a396f08},
		{0xffffffff, "", 0x81f16f39},
		{0x00000000, "00", 0x514e28b7},
		{0xfba4c795, "00", 0xea3f0b17},
		{0xffffffff, "00", 0xfd6cf10d},
		{0x00000000, "0011", 0x16c6b7ab},
		{0x00000000, "001122", 0x8eb51c3d},
		{0x00000000, "00112233", 0xb4471bf8},
		{0x00000000, "0011223344", 0xe2301fa8},
		{0x00000000, "001122334455", 0xfc2e4a15},
		{0x00000000, "00112233445566", 0xb074502c},
		{0x00000000, "0011223344556677", 0x8034d2a0},
		{0x00000000, "001122334455667788", 0xb4698def},
	}

	for i, test := range tests {
		data, err := hex.DecodeString(test.data)
		if err != nil {
			t.Fatalf("test #%d: malformed test data: %v", i, err)
		}
		result := MurmurHash3(test.seed, data)
		if result != test.out {
			t.Errorf("test #%d: got 0x%08x, want 0x%08x", i, result, test.out)
		}
	}
}

func TestFilterInsert(t *testing.T) {
	f := NewFilter(10, 0, 0.0001, appmessage.BloomUpdateAll)

	inserted := [][]byte{
		[]byte("element one"),
		[]byte("element two"),
		[]byte("element three"),
	}
	for _, data := range inserted {
		f.Add(data)
	}
	for i, data := range inserted {
		if !f.Matches(data) {
			t.Errorf("element #%d: expected a match after insert", i)
		}
	}
	if f.Matches([]byte("never inserted")) {
		t.Errorf("matched an element that was never inserted")
	}
}

func TestFilterCopy(t *testing.T) {
	original := NewFilter(10, 2305843009, 0.0001, appmessage.BloomUpdateNone)
	original.Add([]byte("shared element"))

	duplicate := original.Copy()
	duplicate.Add([]byte("copy only"))

	if !duplicate.Matches([]byte("shared element")) {
		t.Errorf("copy lost an element present in the original")
	}
	if original.Matches([]byte("copy only")) {
		t.Errorf("adding to the copy mutated the original")
	}
}

func TestFilterLoadRoundTrip(t *testing.T) {
	f := NewFilter(10, 0x12345678, 0.01, appmessage.BloomUpdateP2PubkeyOnly)
	f.Add([]byte("round trip"))

	reloaded := LoadFilter(f.MsgFilterLoad())
	if !reloaded.Matches([]byte("round trip")) {
		t.Errorf("reloaded filter lost an element")
	}
	if !reloaded.IsLoaded() {
		t.Errorf("reloaded filter reports not loaded")
	}

	var empty Filter
	if empty.IsLoaded() {
		t.Errorf("empty filter reports loaded")
	}
	if empty.Matches([]byte("anything")) {
		t.Errorf("empty filter matched data")
	}
}
