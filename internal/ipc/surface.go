package ipc

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/marigraph/marigraph/internal/grid"
	"github.com/marigraph/marigraph/internal/surface"
)

// surfaceMetaWire is the JSON-encoded metadata block embedded in a
// SURFACE_FULL payload. Receivers must tolerate and ignore unknown
// fields for forward compatibility, which encoding/json does by
// default when decoding into this struct.
type surfaceMetaWire struct {
	Labels    [3]string     `json:"labels"` // x, y, z
	Domains   [3][2]float64 `json:"domains"`
	Timestamp time.Time     `json:"timestamp"`
}

// EncodeSurfaceFull builds the SURFACE_FULL payload for s: nx, ny,
// JSON metadata padded to 4-byte alignment, then f32 x, y, z arrays.
func EncodeSurfaceFull(s *surface.Surface) ([]byte, error) {
	meta := surfaceMetaWire{
		Labels:    [3]string{s.Meta.XLabel, s.Meta.YLabel, s.Meta.ZLabel},
		Domains:   [3][2]float64{{s.Meta.X.Min, s.Meta.X.Max}, {s.Meta.Y.Min, s.Meta.Y.Max}, {s.Meta.Z.Min, s.Meta.Z.Max}},
		Timestamp: s.Meta.CreatedAt,
	}
	metaJSON, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("ipc: encoding surface metadata: %w", err)
	}

	metaLen := len(metaJSON)
	padded := align4(metaLen)

	headerLen := 12 + padded
	dataLen := 4*s.Nx + 4*s.Ny + 4*s.Nx*s.Ny
	buf := make([]byte, headerLen+dataLen)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(s.Nx))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(s.Ny))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(metaLen))
	copy(buf[12:12+metaLen], metaJSON)

	off := headerLen
	off = putFloat32Vec(buf, off, s.X)
	off = putFloat32Vec(buf, off, s.Y)
	putFloat32Vec(buf, off, s.Z)

	return buf, nil
}

// DecodeSurfaceFull parses a SURFACE_FULL payload into a fresh
// Surface. Unknown metadata fields are ignored.
func DecodeSurfaceFull(payload []byte) (*surface.Surface, error) {
	if len(payload) < 12 {
		return nil, fmt.Errorf("ipc: surface header: %w", ErrMalformedSurface)
	}
	nx := int(binary.LittleEndian.Uint32(payload[0:4]))
	ny := int(binary.LittleEndian.Uint32(payload[4:8]))
	metaLen := int(binary.LittleEndian.Uint32(payload[8:12]))

	headerLen := 12 + align4(metaLen)
	if len(payload) < headerLen {
		return nil, fmt.Errorf("ipc: surface metadata: %w", ErrMalformedSurface)
	}

	var meta surfaceMetaWire
	if err := json.Unmarshal(payload[12:12+metaLen], &meta); err != nil {
		return nil, fmt.Errorf("ipc: decoding surface metadata: %w", err)
	}

	wantLen := headerLen + 4*nx + 4*ny + 4*nx*ny
	if len(payload) < wantLen {
		return nil, fmt.Errorf("ipc: surface data: %w", ErrMalformedSurface)
	}

	off := headerLen
	x, off := getFloat64Vec(payload, off, nx)
	y, off := getFloat64Vec(payload, off, ny)
	z, _ := getFloat64Vec(payload, off, nx*ny)

	xLabel, yLabel, zLabel := "", "", ""
	if len(meta.Labels) == 3 {
		xLabel, yLabel, zLabel = meta.Labels[0], meta.Labels[1], meta.Labels[2]
	}
	s := surface.New(x, y, z, xLabel, yLabel, zLabel)
	s.Meta.CreatedAt = meta.Timestamp
	return s, nil
}

// SurfaceDelta is one sparse update: new_values[i] replaces
// z[flat_indices[i]] on the receiver's current surface.
type SurfaceDelta struct {
	FlatIndices []uint32
	NewValues   []float32
}

// EncodeSurfaceDelta builds the SURFACE_DELTA payload: count,
// flat_indices, new_values.
func EncodeSurfaceDelta(d SurfaceDelta) []byte {
	n := len(d.FlatIndices)
	buf := make([]byte, 4+4*n+4*n)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(n))
	off := 4
	for _, idx := range d.FlatIndices {
		binary.LittleEndian.PutUint32(buf[off:off+4], idx)
		off += 4
	}
	for _, v := range d.NewValues {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(v))
		off += 4
	}
	return buf
}

// DecodeSurfaceDelta parses a SURFACE_DELTA payload.
func DecodeSurfaceDelta(payload []byte) (SurfaceDelta, error) {
	if len(payload) < 4 {
		return SurfaceDelta{}, fmt.Errorf("ipc: delta count: %w", ErrMalformedSurface)
	}
	n := int(binary.LittleEndian.Uint32(payload[0:4]))
	want := 4 + 4*n + 4*n
	if len(payload) < want {
		return SurfaceDelta{}, fmt.Errorf("ipc: delta body: %w", ErrMalformedSurface)
	}

	idx := make([]uint32, n)
	off := 4
	for i := range idx {
		idx[i] = binary.LittleEndian.Uint32(payload[off : off+4])
		off += 4
	}
	vals := make([]float32, n)
	for i := range vals {
		vals[i] = math.Float32frombits(binary.LittleEndian.Uint32(payload[off : off+4]))
		off += 4
	}
	return SurfaceDelta{FlatIndices: idx, NewValues: vals}, nil
}

// ApplySurfaceDelta writes d's new values into s.Z at the given flat
// indices and recomputes s's cached domains.
func ApplySurfaceDelta(s *surface.Surface, d SurfaceDelta) {
	for i, idx := range d.FlatIndices {
		if int(idx) < len(s.Z) {
			s.Z[idx] = float64(d.NewValues[i])
		}
	}
	s.RecomputeDomains()
}

func align4(n int) int {
	return (n + 3) &^ 3
}

func putFloat32Vec(buf []byte, off int, v grid.Vec) int {
	for _, f := range v {
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(f)))
		off += 4
	}
	return off
}

func getFloat64Vec(payload []byte, off, n int) (grid.Vec, int) {
	v := grid.NewVec(n)
	for i := range v {
		bits := binary.LittleEndian.Uint32(payload[off : off+4])
		v[i] = float64(math.Float32frombits(bits))
		off += 4
	}
	return v, off
}
