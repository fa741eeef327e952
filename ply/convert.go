package ply

import (
	"encoding/binary"
	"math"
)

// The row block and the list payload buffer both store every scalar in
// canonical little-endian form regardless of the source file's encoding, so
// a BinaryBE file and its byte-swapped BinaryLE twin decode to identical
// row bytes. putCanonical is the one place that byte order is resolved;
// everything downstream reads canonical bytes via the getInt64/getFloat64
// helpers below.

// putCanonical copies raw (itemSize bytes from the source stream, in file
// byte order) into dst as canonical little-endian.
func putCanonical(dst, raw []byte, order binary.ByteOrder) {
	if order == binary.BigEndian && len(raw) > 1 {
		n := len(raw)
		for i := 0; i < n; i++ {
			dst[i] = raw[n-1-i]
		}
		return
	}
	copy(dst, raw)
}

// getInt64 reads a canonical little-endian scalar of kind t and returns it
// sign- or zero-extended to int64.
func getInt64(b []byte, t PropertyType) int64 {
	switch t {
	case Char:
		return int64(int8(b[0]))
	case UChar:
		return int64(b[0])
	case Short:
		return int64(int16(binary.LittleEndian.Uint16(b)))
	case UShort:
		return int64(binary.LittleEndian.Uint16(b))
	case Int:
		return int64(int32(binary.LittleEndian.Uint32(b)))
	case UInt:
		return int64(binary.LittleEndian.Uint32(b))
	default:
		return 0
	}
}

// getUint64 reads a canonical little-endian scalar of kind t, treating its
// bit pattern as unsigned. Used for list counts, whose CountType is
// conventionally unsigned but need not be.
func getUint64(b []byte, t PropertyType) uint64 {
	switch t.Size() {
	case 1:
		return uint64(b[0])
	case 2:
		return uint64(binary.LittleEndian.Uint16(b))
	case 4:
		return uint64(binary.LittleEndian.Uint32(b))
	case 8:
		return binary.LittleEndian.Uint64(b)
	default:
		return 0
	}
}

// getFloat64 reads a canonical little-endian Float or Double as a float64.
func getFloat64(b []byte, t PropertyType) float64 {
	if t == Float {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// putInt writes v into dst (canonical little-endian) as kind t, truncating
// via ordinary two's-complement wraparound on overflow.
func putInt(dst []byte, t PropertyType, v int64) {
	switch t {
	case Char, UChar:
		dst[0] = byte(v)
	case Short, UShort:
		binary.LittleEndian.PutUint16(dst, uint16(v))
	case Int, UInt:
		binary.LittleEndian.PutUint32(dst, uint32(v))
	case Float:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case Double:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(float64(v)))
	}
}

// putFloat writes v into dst (canonical little-endian) as kind t. Float and
// Double cast directly; integer kinds truncate toward zero and do not
// panic on overflow (large magnitudes wrap via the same uint cast Go's
// int(float) conversion already performs).
func putFloat(dst []byte, t PropertyType, v float64) {
	switch t {
	case Float:
		binary.LittleEndian.PutUint32(dst, math.Float32bits(float32(v)))
	case Double:
		binary.LittleEndian.PutUint64(dst, math.Float64bits(v))
	default:
		putInt(dst, t, int64(v))
	}
}

// convertScalar reads a canonical little-endian value of kind src from b and
// writes its value, converted to kind dst, into out (which must be at least
// dst.Size() bytes). This is the single type-conversion rule used by every
// extraction method: int-to-int truncates, int-to-float is exact or rounds
// to nearest, float-to-int truncates toward zero, float-to-float casts.
func convertScalar(out []byte, dst PropertyType, b []byte, src PropertyType) {
	if src.IsFloat() {
		f := getFloat64(b, src)
		if dst.IsFloat() {
			putFloat(out, dst, f)
		} else {
			putInt(out, dst, int64(f))
		}
		return
	}
	i := getInt64(b, src)
	if dst.IsFloat() {
		putFloat(out, dst, float64(i))
	} else {
		putInt(out, dst, i)
	}
}
