package ipc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedArrayFloat32RoundTrip(t *testing.T) {
	v := []float32{1.5, -2.25, 0, 3.125}
	decoded, err := DecodeTypedArray(EncodeFloat32Array(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded.([]float32))
}

func TestTypedArrayFloat64RoundTrip(t *testing.T) {
	v := []float64{1.5, -2.25, 0, 3.125}
	decoded, err := DecodeTypedArray(EncodeFloat64Array(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded.([]float64))
}

func TestTypedArrayUint32RoundTrip(t *testing.T) {
	v := []uint32{1, 2, 3, 4294967295}
	decoded, err := DecodeTypedArray(EncodeUint32Array(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded.([]uint32))
}

func TestTypedArrayInt32RoundTrip(t *testing.T) {
	v := []int32{-1, 2, -3, 2147483647}
	decoded, err := DecodeTypedArray(EncodeInt32Array(v))
	require.NoError(t, err)
	assert.Equal(t, v, decoded.([]int32))
}

func TestTypedArrayUnknownTag(t *testing.T) {
	_, err := DecodeTypedArray([]byte{9, 0, 0, 0, 0})
	require.ErrorIs(t, err, ErrUnknownArrayTag)
}

func TestTypedArrayEmptyPayload(t *testing.T) {
	_, err := DecodeTypedArray(nil)
	require.Error(t, err)
}
