package dscore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFloatToSignedByteClamps(t *testing.T) {
	require.Equal(t, int8(127), FloatToSignedByte(2.0, 1.0))
	require.Equal(t, int8(-127), FloatToSignedByte(-2.0, 1.0))
	require.Equal(t, int8(0), FloatToSignedByte(0, 1.0))
}

func TestStaticIP(t *testing.T) {
	require.Equal(t, "10.37.94.2", StaticIP(10, 3794, 2))
	require.Equal(t, "10.0.1.1", StaticIP(10, 1, 1))
}

func TestCRC32(t *testing.T) {
	a := CRC32(0, []byte("hello"))
	b := CRC32(0, []byte("hello"))
	require.Equal(t, a, b)

	c := CRC32(0, []byte("hello!"))
	require.NotEqual(t, a, c)
}

func TestAppendByte(t *testing.T) {
	buf := []byte{1, 2}
	buf = AppendByte(buf, 3)
	require.Equal(t, []byte{1, 2, 3}, buf)
}
