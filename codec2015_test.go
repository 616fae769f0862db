package dscore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newCodec2015(t *testing.T) (*Codec2015, *Registry) {
	t.Helper()
	cfg := NewRegistry()
	c := NewCodec2015(cfg, NewSimpleJoystickRegistry())
	c.now = func() time.Time {
		return time.Date(2015, time.March, 4, 10, 30, 15, 0, time.UTC)
	}
	return c, cfg
}

// TestCodec2015IdleTeleop matches spec §8 scenario 4.
func TestCodec2015IdleTeleop(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetTeamNumber(3794)
	cfg.SetAlliance(Red)
	cfg.SetPosition(Position1)
	cfg.SetEnabled(true)
	cfg.SetMode(Teleoperated)
	cfg.SetRobotComms(true)

	pkt := c.BuildRobotPacket()
	require.Len(t, pkt, 6)
	require.Equal(t, []byte{0x00, 0x00, 0x01, 0x04, 0x80, 0x00}, pkt)
}

// TestCodec2015FMSPacket matches spec §8 scenario 5: team 3794, enabled,
// teleop, robot comms only (no radio link), voltage 12.50 V. It also
// exercises the fmsControlByte bit-decoupling documented on that method.
func TestCodec2015FMSPacket(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetTeamNumber(3794)
	cfg.SetEnabled(true)
	cfg.SetMode(Teleoperated)
	cfg.SetRadioComms(false)
	cfg.SetRobotComms(true)
	cfg.SetRobotVoltage(12.5)
	c.sendFMSCounter = 7

	pkt := c.BuildFMSPacket()
	require.Equal(t, []byte{0x00, 0x07, 0x00, 0x24, 0x0E, 0xD2, 0x0C, 0x32}, pkt)
}

func TestCodec2015FMSControlByteRadioPingTracksRadioComms(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetEnabled(true)
	cfg.SetRadioComms(true)
	cfg.SetRobotComms(false)

	b := c.fmsControlByte()
	require.Equal(t, byte(0x10|0x08|0x04), b)
}

func TestCodec2015EmergencyStop(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetEnabled(true)
	cfg.SetEmergencyStopped(true)

	b := c.controlByteRobot()
	require.NotZero(t, b&0x80)
}

func TestCodec2015StationByteRoundTrip(t *testing.T) {
	cases := []struct {
		a Alliance
		p Position
	}{
		{Red, Position1}, {Red, Position2}, {Red, Position3},
		{Blue, Position1}, {Blue, Position2}, {Blue, Position3},
	}
	for _, tc := range cases {
		b := stationByte(tc.a, tc.p)
		require.Equal(t, tc.a, allianceFromStation(b))
		require.Equal(t, tc.p, positionFromStation(b))
	}
}

func TestCodec2015VoltageRoundTripWholeVolts(t *testing.T) {
	for v := 0; v <= 13; v++ {
		upper, lower := encodeVoltage(float64(v))
		require.Equal(t, byte(v), upper)
		require.Equal(t, byte(0), lower)
		require.InDelta(t, float64(v), decodeVoltage(upper, lower), 0.001)
	}
}

func TestCodec2015EncodeVoltageFraction(t *testing.T) {
	upper, lower := encodeVoltage(12.5)
	require.Equal(t, byte(12), upper)
	require.Equal(t, byte(50), lower)
}

func TestCodec2015TimezoneVsJoystickMutualExclusivity(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetRobotComms(true)
	c.sticks.(*SimpleJoystickRegistry).SetJoystick(0, []float64{1}, nil, nil)

	c.sendTimeData = true
	pkt := c.BuildRobotPacket()
	require.Greater(t, len(pkt), 6)
	require.Equal(t, byte(ds2015TagDate), pkt[7])

	c2, cfg2 := newCodec2015(t)
	cfg2.SetRobotComms(true)
	c2.sticks.(*SimpleJoystickRegistry).SetJoystick(0, []float64{1}, nil, nil)
	for i := 0; i < 6; i++ {
		c2.BuildRobotPacket()
	}
	pkt2 := c2.BuildRobotPacket()
	require.Greater(t, len(pkt2), 6)
	require.Equal(t, byte(ds2015TagJoystick), pkt2[7])
}

func TestCodec2015ReadFMSPacketModePrecedence(t *testing.T) {
	c, cfg := newCodec2015(t)

	data := make([]byte, 22)
	data[3] = ds2015Autonomous | ds2015Enabled
	data[5] = ds2015StationBlue2
	ok := c.ReadFMSPacket(data)
	require.True(t, ok)
	require.Equal(t, Autonomous, cfg.Mode())
	require.True(t, cfg.Enabled())
	require.Equal(t, Blue, cfg.AllianceStation())
	require.Equal(t, Position2, cfg.Position())

	data[3] = 0x00
	ok = c.ReadFMSPacket(data)
	require.True(t, ok)
	require.Equal(t, Teleoperated, cfg.Mode())
}

func TestCodec2015ReadFMSPacketTooShort(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetMode(Autonomous)

	ok := c.ReadFMSPacket(make([]byte, 21))
	require.False(t, ok)
	require.Equal(t, Autonomous, cfg.Mode())
}

// TestCodec2015ReadRobotPacketScenario6 decodes the bytes from spec §8
// scenario 6 using the field mapping stated in spec §4.6 (and confirmed by
// original_source/frc_2015.c's own worked comment, same byte string): only
// the e-stop bit (false) matches the scenario's narrative. See DESIGN.md.
func TestCodec2015ReadRobotPacketScenario6(t *testing.T) {
	c, cfg := newCodec2015(t)

	data := []byte{0x00, 0x51, 0x01, 0x00, 0x31, 0x00, 0x01, 0x00}
	ok := c.ReadRobotPacket(data)
	require.True(t, ok)
	require.False(t, cfg.EmergencyStopped())
	require.True(t, cfg.RobotCodePresent())
	require.InDelta(t, 1.0/255.0, cfg.RobotVoltage(), 0.0001)
	require.False(t, c.sendTimeData)
}

func TestCodec2015ReadRobotPacketRequestsTime(t *testing.T) {
	c, _ := newCodec2015(t)

	data := make([]byte, 8)
	data[7] = ds2015RequestTime
	ok := c.ReadRobotPacket(data)
	require.True(t, ok)
	require.True(t, c.sendTimeData)
}

func TestCodec2015ReadRobotPacketTooShort(t *testing.T) {
	c, _ := newCodec2015(t)
	ok := c.ReadRobotPacket(make([]byte, 7))
	require.False(t, ok)
}

func TestCodec2015ReadRobotPacketExtendedTelemetry(t *testing.T) {
	c, cfg := newCodec2015(t)

	data := make([]byte, 12)
	data[8] = 0x02
	data[9] = ds2015TagCAN
	data[10] = 42
	ok := c.ReadRobotPacket(data)
	require.True(t, ok)
	require.EqualValues(t, 42, cfg.CANUtilization())
}

func TestCodec2015WatchdogResets(t *testing.T) {
	c, _ := newCodec2015(t)
	c.RebootRobot()
	c.RestartRobotCode()
	c.sendTimeData = true
	c.ResetRobot()
	require.False(t, c.rebootPending)
	require.False(t, c.restartCodePending)
	require.False(t, c.sendTimeData)
}

func TestCodec2015RequestByteUnconnectedWhenNoRobotComms(t *testing.T) {
	c, cfg := newCodec2015(t)
	cfg.SetRobotComms(false)
	require.Equal(t, byte(ds2015RequestUnconnected), c.requestByte())

	cfg.SetRobotComms(true)
	require.Equal(t, byte(ds2015RequestNormal), c.requestByte())

	c.RebootRobot()
	require.Equal(t, byte(ds2015RequestReboot), c.requestByte())
}

func TestCodec2015Sockets(t *testing.T) {
	c, _ := newCodec2015(t)
	require.Equal(t, "", c.FMSAddress())
	require.True(t, c.RadioSocket().Disabled)
	require.False(t, c.NetConsoleSocket().Disabled)
	require.True(t, c.NetConsoleSocket().Broadcast)
	require.Equal(t, 6, c.MaxJoysticks())
	require.Equal(t, 1, c.MaxHats())
}
