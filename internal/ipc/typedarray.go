package ipc

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"honnef.co/go/safeish"
)

// arrayTag identifies the element type of a typed-array payload: a
// single byte preceding the raw little-endian element bytes.
type arrayTag byte

const (
	tagF32 arrayTag = 0
	tagF64 arrayTag = 1
	tagU32 arrayTag = 2
	tagI32 arrayTag = 3
)

// EncodeFloat32Array encodes v as a tagged typed-array payload: 1-byte
// tag followed by v's little-endian bytes.
func EncodeFloat32Array(v []float32) []byte {
	buf := make([]byte, 1+4*len(v))
	buf[0] = byte(tagF32)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[1+4*i:], math.Float32bits(f))
	}
	return buf
}

// EncodeFloat64Array encodes v as a tagged typed-array payload.
func EncodeFloat64Array(v []float64) []byte {
	buf := make([]byte, 1+8*len(v))
	buf[0] = byte(tagF64)
	for i, f := range v {
		binary.LittleEndian.PutUint64(buf[1+8*i:], math.Float64bits(f))
	}
	return buf
}

// EncodeUint32Array encodes v as a tagged typed-array payload.
func EncodeUint32Array(v []uint32) []byte {
	buf := make([]byte, 1+4*len(v))
	buf[0] = byte(tagU32)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[1+4*i:], x)
	}
	return buf
}

// EncodeInt32Array encodes v as a tagged typed-array payload.
func EncodeInt32Array(v []int32) []byte {
	buf := make([]byte, 1+4*len(v))
	buf[0] = byte(tagI32)
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[1+4*i:], uint32(x))
	}
	return buf
}

// DecodeTypedArray reinterprets a tagged typed-array payload's element
// bytes in place rather than copying element-by-element, the way
// wayland.go's message reader reinterprets a raw pointer with
// safeish.Cast instead of parsing byte-by-byte. The returned value is
// one of []float32, []float64, []uint32, []int32 depending on the
// payload's tag.
func DecodeTypedArray(payload []byte) (any, error) {
	if len(payload) < 1 {
		return nil, fmt.Errorf("ipc: empty typed-array payload: %w", ErrMalformedSurface)
	}
	body := payload[1:]
	switch arrayTag(payload[0]) {
	case tagF32:
		return castSlice[float32](body, 4), nil
	case tagF64:
		return castSlice[float64](body, 8), nil
	case tagU32:
		return castSlice[uint32](body, 4), nil
	case tagI32:
		return castSlice[int32](body, 4), nil
	default:
		return nil, fmt.Errorf("ipc: tag %d: %w", payload[0], ErrUnknownArrayTag)
	}
}

// castSlice reinterprets body's bytes as a []T of elemSize-byte
// little-endian elements, without copying.
func castSlice[T any](body []byte, elemSize int) []T {
	n := len(body) / elemSize
	if n == 0 {
		return nil
	}
	ptr := safeish.Cast[*T](unsafe.Pointer(&body[0]))
	return unsafe.Slice(ptr, n)
}
