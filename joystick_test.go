package dscore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimpleJoystickRegistry(t *testing.T) {
	j := NewSimpleJoystickRegistry()
	require.Equal(t, 0, j.Count())

	j.SetJoystick(0, []float64{0.5, -0.5}, []bool{true, false, true}, []int16{90})
	require.Equal(t, 1, j.Count())
	require.Equal(t, 2, j.NumAxes(0))
	require.Equal(t, 3, j.NumButtons(0))
	require.Equal(t, 1, j.NumHats(0))

	require.InDelta(t, 0.5, j.Axis(0, 0), 0.0001)
	require.True(t, j.Button(0, 0))
	require.False(t, j.Button(0, 1))
	require.EqualValues(t, 90, j.Hat(0, 0))
}

func TestSimpleJoystickRegistryOutOfRange(t *testing.T) {
	j := NewSimpleJoystickRegistry()
	require.Equal(t, 0, j.NumAxes(3))
	require.Equal(t, float64(0), j.Axis(3, 0))
	require.False(t, j.Button(3, 0))
	require.EqualValues(t, -1, j.Hat(3, 0))
}

func TestSimpleJoystickRegistrySparseIndex(t *testing.T) {
	j := NewSimpleJoystickRegistry()
	j.SetJoystick(2, []float64{1}, nil, nil)
	require.Equal(t, 3, j.Count())
	require.Equal(t, 0, j.NumAxes(0))
	require.Equal(t, 1, j.NumAxes(2))
}
