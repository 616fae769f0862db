package dscore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func newCodec2014(t *testing.T) (*Codec2014, *Registry) {
	t.Helper()
	cfg := NewRegistry()
	return NewCodec2014(cfg, NewSimpleJoystickRegistry()), cfg
}

// TestCodec2014IdleTeleop matches spec §8 scenario 1.
func TestCodec2014IdleTeleop(t *testing.T) {
	c, cfg := newCodec2014(t)
	cfg.SetTeamNumber(3794)
	cfg.SetAlliance(Red)
	cfg.SetPosition(Position1)
	cfg.SetEnabled(true)
	cfg.SetMode(Teleoperated)

	pkt := c.BuildRobotPacket()
	require.Len(t, pkt, 1024)
	require.Equal(t, []byte{0x00, 0x00, 0x60, 0x00, 0x0E, 0xD2, 0x52, 0x31}, pkt[:8])
	require.Equal(t, []byte("04011600"), pkt[72:80])
}

// TestCodec2014EmergencyStop matches spec §8 scenario 2: e-stop forces the
// control byte to 0x00 regardless of enabled/mode.
func TestCodec2014EmergencyStop(t *testing.T) {
	c, cfg := newCodec2014(t)
	cfg.SetEnabled(true)
	cfg.SetMode(Teleoperated)
	cfg.SetEmergencyStopped(true)

	pkt := c.BuildRobotPacket()
	require.Equal(t, byte(0x00), pkt[2])
}

// TestCodec2014RebootOverridesEStop: the reboot override is applied after
// the e-stop override and must win, per spec §4.5.
func TestCodec2014RebootOverridesEStop(t *testing.T) {
	c, cfg := newCodec2014(t)
	cfg.SetEmergencyStopped(true)
	c.RebootRobot()

	pkt := c.BuildRobotPacket()
	require.Equal(t, byte(0x80), pkt[2])
}

func TestCodec2014CounterMonotonic(t *testing.T) {
	c, _ := newCodec2014(t)
	var last uint16 = 65535
	for i := 0; i < 5; i++ {
		pkt := c.BuildRobotPacket()
		idx := uint16(pkt[0])<<8 | uint16(pkt[1])
		require.Equal(t, last+1, idx)
		last = idx
	}
}

func TestCodec2014Addresses(t *testing.T) {
	c, cfg := newCodec2014(t)
	cfg.SetTeamNumber(3794)
	require.Equal(t, "10.37.94.1", c.RadioAddress())
	require.Equal(t, "10.37.94.2", c.RobotAddress())
	require.Equal(t, "", c.FMSAddress())
}

func TestCodec2014ReadFMSPacket(t *testing.T) {
	c, cfg := newCodec2014(t)

	data := []byte{0, 0, 0x53 | 0x20, 'B', '2'}
	ok := c.ReadFMSPacket(data)
	require.True(t, ok)
	require.Equal(t, Autonomous, cfg.Mode())
	require.True(t, cfg.Enabled())
	require.Equal(t, Blue, cfg.AllianceStation())
	require.Equal(t, Position2, cfg.Position())
}

func TestCodec2014ReadFMSPacketTooShort(t *testing.T) {
	c, cfg := newCodec2014(t)
	cfg.SetMode(Autonomous)

	ok := c.ReadFMSPacket([]byte{0, 0, 0, 0})
	require.False(t, ok)
	require.Equal(t, Autonomous, cfg.Mode())
}

// TestCodec2014ReadRobotPacketVoltage matches the formula in spec §4.5;
// the narrative value in spec §8 scenario 3 (~12.0784 V) does not
// reproduce under that formula or under original_source/frc_2014.c's
// read_robot_packet (integer-truncated rule-of-three) — see DESIGN.md.
func TestCodec2014ReadRobotPacketVoltage(t *testing.T) {
	c, cfg := newCodec2014(t)

	data := make([]byte, 1024)
	data[0] = 0x01 // not e-stopped
	data[1] = 0x12
	data[2] = 0x14
	ok := c.ReadRobotPacket(data)
	require.True(t, ok)
	require.InDelta(t, 12.0+13.0/255.0, cfg.RobotVoltage(), 0.0001)
	require.False(t, cfg.EmergencyStopped())
	require.True(t, cfg.RobotCodePresent())
}

func TestCodec2014ReadRobotPacketEStop(t *testing.T) {
	c, cfg := newCodec2014(t)
	data := make([]byte, 1024)
	data[0] = 0x00
	ok := c.ReadRobotPacket(data)
	require.True(t, ok)
	require.True(t, cfg.EmergencyStopped())
}

func TestCodec2014ReadRobotPacketTooShort(t *testing.T) {
	c, _ := newCodec2014(t)
	ok := c.ReadRobotPacket(make([]byte, 1023))
	require.False(t, ok)
}

func TestCodec2014WatchdogResets(t *testing.T) {
	c, _ := newCodec2014(t)
	c.RebootRobot()
	c.RestartRobotCode()
	c.ResetRobot()
	require.False(t, c.rebootPending)
	require.False(t, c.restartCodePending)
	require.True(t, c.resyncPending)
}

func TestCodec2014Sockets(t *testing.T) {
	c, _ := newCodec2014(t)
	require.Equal(t, SocketSpec{Name: "fms", InPort: 1120, OutPort: 1160}, c.FMSSocket())
	require.True(t, c.RadioSocket().Disabled)
	require.Equal(t, SocketSpec{Name: "robot", InPort: 1150, OutPort: 1110}, c.RobotSocket())
	require.True(t, c.NetConsoleSocket().Disabled)
	require.Equal(t, 500, c.FMSInterval())
	require.Equal(t, 0, c.RadioInterval())
	require.Equal(t, 20, c.RobotInterval())
}

func TestCodec2014JoystickBlockAlwaysFourSticks(t *testing.T) {
	cfg := NewRegistry()
	sticks := NewSimpleJoystickRegistry()
	sticks.SetJoystick(0, []float64{1, -1, 0, 0, 0, 0}, []bool{true}, nil)
	c := NewCodec2014(cfg, sticks)

	pkt := c.BuildRobotPacket()
	// joystick 0: axes at [8:14], buttons at [14:16] (high byte, low byte)
	require.Equal(t, byte(127), pkt[8])
	require.Equal(t, byte(0x00), pkt[14])
	require.Equal(t, byte(0x01), pkt[15])
	// joystick 3 (unattached) must be all zero: axes [32:38], buttons [38:40]
	require.Equal(t, make([]byte, 8), pkt[8+3*8:8+4*8])
}
