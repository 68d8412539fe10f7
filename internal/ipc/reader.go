package ipc

// FrameReader reassembles a byte stream into Frames. The caller feeds
// it bytes as they arrive (e.g. from a worker's stdout pipe) via
// Append, then drains completed frames with Read or ReadAll. A
// half-received header or payload is preserved across calls — the
// reader never discards bytes it cannot yet parse.
type FrameReader struct {
	buf []byte
}

// NewFrameReader returns an empty FrameReader.
func NewFrameReader() *FrameReader {
	return &FrameReader{}
}

// Append concatenates b onto the reader's internal buffer.
func (r *FrameReader) Append(b []byte) {
	r.buf = append(r.buf, b...)
}

// Read returns the next complete frame in the buffer, if one exists,
// removing its bytes on success. ok is false if the buffer holds fewer
// than one complete frame — the buffer is left untouched in that case
// so a later Append can complete it.
func (r *FrameReader) Read() (frame Frame, ok bool, err error) {
	if len(r.buf) < HeaderSize {
		return Frame{}, false, nil
	}
	h := DecodeHeader(r.buf)
	if h.Length > MaxPayloadLen {
		return Frame{}, false, ErrFrameTooLarge
	}
	total := HeaderSize + int(h.Length)
	if len(r.buf) < total {
		return Frame{}, false, nil
	}

	payload := make([]byte, h.Length)
	copy(payload, r.buf[HeaderSize:total])
	r.buf = append(r.buf[:0], r.buf[total:]...)

	return Frame{Header: h, Payload: payload}, true, nil
}

// ReadAll drains every complete frame currently in the buffer, leaving
// any trailing partial frame for later Appends.
func (r *FrameReader) ReadAll() ([]Frame, error) {
	var out []Frame
	for {
		f, ok, err := r.Read()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, f)
	}
}

// Buffered reports how many bytes are currently held, counting any
// complete frames not yet returned by Read as well as a trailing
// partial frame.
func (r *FrameReader) Buffered() int {
	return len(r.buf)
}
