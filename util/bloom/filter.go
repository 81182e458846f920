// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package bloom

import (
	"math"

	"github.com/cygnusnet/cygnusd/app/appmessage"
)

// ln2Squared is simply the square of the natural log of 2.
const ln2Squared = math.Ln2 * math.Ln2

// minUint32 is a convenience function to return the minimum value of the two
// passed uint32 values.
func minUint32(a, b uint32) uint32 {
	if a < b {
		return a
	}
	return b
}

// Filter defines a bloom filter that provides a probabilistic membership
// test over arbitrary data elements. False positives are possible, false
// negatives are not. A Filter is not safe for concurrent use; sessions own
// their installed snapshot exclusively and replace it rather than share it.
type Filter struct {
	msgFilterLoad *appmessage.MsgFilterLoad
}

// NewFilter creates a new bloom filter instance, mainly to be used by
// lightweight clients. The tweak parameter is a random value added to the
// seed value. The false positive rate is the probability of a false
// positive where 1.0 is "match everything" and zero is unachievable. Thus,
// a typical value such as 0.001 expresses a 1 in 1000 chance of a false
// positive.
func NewFilter(elements, tweak uint32, fprate float64, flags appmessage.BloomUpdateType) *Filter {
	// Massage the false positive rate to sane values.
	if fprate > 1.0 {
		fprate = 1.0
	}
	if fprate < 1e-9 {
		fprate = 1e-9
	}

	// Calculate the size of the filter in bytes for the given number of
	// elements and false positive rate.
	dataLen := uint32(-1 * float64(elements) * math.Log(fprate) / ln2Squared / 8)
	dataLen = minUint32(dataLen, appmessage.MaxFilterLoadFilterSize)
	if dataLen < 1 {
		dataLen = 1
	}

	// Calculate the number of hash functions for the filter size and
	// number of elements.
	hashFuncs := uint32(float64(dataLen*8) / float64(elements) * math.Ln2)
	hashFuncs = minUint32(hashFuncs, appmessage.MaxFilterLoadHashFuncs)
	if hashFuncs < 1 {
		hashFuncs = 1
	}

	data := make([]byte, dataLen)
	msg := appmessage.NewMsgFilterLoad(data, hashFuncs, tweak, flags)
	return &Filter{msgFilterLoad: msg}
}

// LoadFilter creates a new Filter instance with the given underlying
// filterload message.
func LoadFilter(msg *appmessage.MsgFilterLoad) *Filter {
	return &Filter{msgFilterLoad: msg}
}

// IsLoaded returns true if a filter is loaded, otherwise false.
func (bf *Filter) IsLoaded() bool {
	return bf.msgFilterLoad != nil
}

// hash returns the bit offset in the filter which corresponds to the passed
// data for the given independent hash function number.
func (bf *Filter) hash(hashNum uint32, data []byte) uint32 {
	// 0xfba4c795 chosen as it guarantees a reasonable bit difference
	// between hashNum values.
	mm := MurmurHash3(hashNum*0xfba4c795+bf.msgFilterLoad.Tweak, data)
	return mm % (uint32(len(bf.msgFilterLoad.Filter)) * 8)
}

// Matches returns true if the bloom filter might contain the passed data and
// false if it definitely does not.
func (bf *Filter) Matches(data []byte) bool {
	if bf.msgFilterLoad == nil {
		return false
	}

	// The bloom filter does not contain the data element if any of the
	// bit offsets which derive from the hash functions are not set.
	for i := uint32(0); i < bf.msgFilterLoad.HashFuncs; i++ {
		idx := bf.hash(i, data)
		if bf.msgFilterLoad.Filter[idx>>3]&(1<<(idx&7)) == 0 {
			return false
		}
	}
	return true
}

// Add adds the passed byte slice to the bloom filter.
func (bf *Filter) Add(data []byte) {
	if bf.msgFilterLoad == nil {
		return
	}

	for i := uint32(0); i < bf.msgFilterLoad.HashFuncs; i++ {
		idx := bf.hash(i, data)
		bf.msgFilterLoad.Filter[idx>>3] |= 1 << (idx & 7)
	}
}

// Copy returns a deep copy of the filter, so the copy can be modified
// without disturbing the original.
func (bf *Filter) Copy() *Filter {
	if bf.msgFilterLoad == nil {
		return &Filter{}
	}

	filter := make([]byte, len(bf.msgFilterLoad.Filter))
	copy(filter, bf.msgFilterLoad.Filter)
	msg := appmessage.NewMsgFilterLoad(filter, bf.msgFilterLoad.HashFuncs,
		bf.msgFilterLoad.Tweak, bf.msgFilterLoad.Flags)
	return &Filter{msgFilterLoad: msg}
}

// MsgFilterLoad returns the underlying filterload message.
func (bf *Filter) MsgFilterLoad() *appmessage.MsgFilterLoad {
	return bf.msgFilterLoad
}
