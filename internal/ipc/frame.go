package ipc

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed 8-byte length of a FrameHeader on the wire.
const HeaderSize = 8

// MaxPayloadLen caps a single frame's payload, per the resource-caps
// policy (§5): oversize surface payloads should be chunked or
// rejected rather than accepted unbounded.
const MaxPayloadLen = 16 << 20 // 16 MiB

// FrameHeader is the 8-byte little-endian header preceding every
// frame's payload.
type FrameHeader struct {
	Length uint32
	Type   MessageType
	Flags  Flags
	Seq    uint16
}

// Frame is a decoded (header, payload) pair; Payload's length always
// equals Header.Length.
type Frame struct {
	Header  FrameHeader
	Payload []byte
}

// EncodeHeader writes h's 8 bytes into buf, which must have length at
// least HeaderSize.
func EncodeHeader(h FrameHeader, buf []byte) {
	binary.LittleEndian.PutUint32(buf[0:4], h.Length)
	buf[4] = byte(h.Type)
	buf[5] = byte(h.Flags)
	binary.LittleEndian.PutUint16(buf[6:8], h.Seq)
}

// DecodeHeader reads a FrameHeader from the first HeaderSize bytes of
// buf. The caller must ensure len(buf) >= HeaderSize.
func DecodeHeader(buf []byte) FrameHeader {
	return FrameHeader{
		Length: binary.LittleEndian.Uint32(buf[0:4]),
		Type:   MessageType(buf[4]),
		Flags:  Flags(buf[5]),
		Seq:    binary.LittleEndian.Uint16(buf[6:8]),
	}
}

// Encode returns the wire bytes for a frame of the given type,
// payload, flags, and seq: the 8-byte header concatenated with
// payload.
func Encode(typ MessageType, payload []byte, flags Flags, seq uint16) ([]byte, error) {
	if len(payload) > MaxPayloadLen {
		return nil, fmt.Errorf("ipc: payload of %d bytes: %w", len(payload), ErrFrameTooLarge)
	}
	buf := make([]byte, HeaderSize+len(payload))
	EncodeHeader(FrameHeader{Length: uint32(len(payload)), Type: typ, Flags: flags, Seq: seq}, buf)
	copy(buf[HeaderSize:], payload)
	return buf, nil
}

// Decode parses a single complete frame from buf, which must contain
// exactly one frame's worth of bytes (header + payload, no trailing
// data). Use FrameReader to decode a stream that may contain partial
// or multiple frames.
func Decode(buf []byte) (Frame, error) {
	if len(buf) < HeaderSize {
		return Frame{}, ErrTruncatedHeader
	}
	h := DecodeHeader(buf)
	if len(buf)-HeaderSize < int(h.Length) {
		return Frame{}, ErrTruncatedPayload
	}
	payload := make([]byte, h.Length)
	copy(payload, buf[HeaderSize:HeaderSize+int(h.Length)])
	return Frame{Header: h, Payload: payload}, nil
}
