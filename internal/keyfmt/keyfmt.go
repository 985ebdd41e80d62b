// Package keyfmt renders keynums to the printable keys handed to store
// adapters, and back-scrambles keynums for non-ordered ("hashed") insert
// orders.
//
// The rendering rule is fixed: "user" followed by the decimal keynum (or its
// scrambled form), left-padded with zeroes to a configured width. For a
// fixed (ordered, width) pair the mapping is total and injective — two
// different keynums never render to the same key.
package keyfmt

import (
	"strconv"
)

// keyPrefix is the literal prefix every rendered key carries.
const keyPrefix = "user"

// Hash64 deterministically scrambles a keynum into a pseudo-random 64-bit
// value, used both to spread "hashed" insert order across the key space
// (so ordered storage doesn't cluster recently-inserted keys together) and
// to spread Zipfian hot-spots across an otherwise-ordered key space (see
// internal/generator's ScrambledZipfian).
//
// This is FNV-1a, widened to 64 bits, in the same spirit as the teacher's
// own key-to-shard routing (internal/shard.Shard.OwnsKey used 32-bit
// FNV-1a over the raw key bytes); here we hash the 8-byte little-endian
// encoding of the keynum itself rather than a string, since there is no
// key string yet at the point this runs.
func Hash64(k uint64) uint64 {
	const (
		offsetBasis uint64 = 14695981039346656037
		prime       uint64 = 1099511628211
	)
	h := offsetBasis
	for i := 0; i < 8; i++ {
		h ^= k & 0xff
		h *= prime
		k >>= 8
	}
	return h
}

// Format renders keynum k to its printable key. When ordered is false, k is
// first scrambled via Hash64 so that sequential keynums do not produce
// lexicographically adjacent keys. The decimal rendering is left-padded
// with '0' to width zeroPad digits.
func Format(k uint64, ordered bool, zeroPad int) string {
	if !ordered {
		k = Hash64(k)
	}
	return render(k, zeroPad)
}

func render(k uint64, zeroPad int) string {
	digits := strconv.FormatUint(k, 10)
	if pad := zeroPad - len(digits); pad > 0 {
		buf := make([]byte, 0, len(keyPrefix)+zeroPad)
		buf = append(buf, keyPrefix...)
		for i := 0; i < pad; i++ {
			buf = append(buf, '0')
		}
		buf = append(buf, digits...)
		return string(buf)
	}
	return keyPrefix + digits
}

// UpdateInPlace overwrites the digit region of buf — a []byte previously
// produced by Format for some earlier keynum with the same (ordered,
// zeroPad) — with the rendering of the new keynum k. It saves an
// allocation on the insert hot path, where the same buffer is reused for
// every key in a batch. buf is grown if the new digits no longer fit the
// padded width; callers should prefer keeping zeroPad wide enough that
// this never happens in practice (see spec.md §6: zeropadding).
func UpdateInPlace(buf []byte, k uint64, ordered bool, zeroPad int) []byte {
	if !ordered {
		k = Hash64(k)
	}
	digits := strconv.FormatUint(k, 10)
	width := zeroPad
	if len(digits) > width {
		width = len(digits)
	}
	need := len(keyPrefix) + width
	if cap(buf) < need {
		buf = make([]byte, need)
	}
	buf = buf[:need]
	copy(buf, keyPrefix)
	pad := width - len(digits)
	for i := 0; i < pad; i++ {
		buf[len(keyPrefix)+i] = '0'
	}
	copy(buf[len(keyPrefix)+pad:], digits)
	return buf
}
