package dscore

import (
	"fmt"
	"math"
	"sync"
	"time"
)

// Codec2015 implements Descriptor for the 2015 (roboRIO) generation (spec
// §4.6). Mirrors Codec2014's single-mutex-per-codec shape.
type Codec2015 struct {
	mu sync.Mutex

	cfg    *Registry
	sticks JoystickRegistry

	sendRobotCounter uint16
	sendFMSCounter   uint16

	rebootPending      bool
	restartCodePending bool
	sendTimeData       bool

	// now lets tests inject a fixed clock for the timezone block; defaults
	// to time.Now.
	now func() time.Time
}

// NewCodec2015 wires a codec to the given configuration and joystick
// registries. Both must outlive the codec.
func NewCodec2015(cfg *Registry, sticks JoystickRegistry) *Codec2015 {
	return &Codec2015{cfg: cfg, sticks: sticks, now: time.Now}
}

const (
	ds2015Test               = 0x01
	ds2015Enabled            = 0x04
	ds2015Autonomous         = 0x02
	ds2015Teleoperated       = 0x00
	ds2015FMSAttached        = 0x08
	ds2015EmergencyStop      = 0x80
	ds2015RequestReboot      = 0x08
	ds2015RequestNormal      = 0x80
	ds2015RequestUnconnected = 0x00
	ds2015RequestRestartCode = 0x04
	ds2015FMSRadioPing       = 0x10
	ds2015FMSRobotPing       = 0x08
	ds2015FMSRobotComms      = 0x20
	ds2015FMSDSVersion       = 0x00
	ds2015TagDate            = 0x0f
	ds2015TagGeneral         = 0x01
	ds2015TagJoystick        = 0x0c
	ds2015TagTimezone        = 0x10
	ds2015RequestTime        = 0x01
	ds2015RobotHasCode       = 0x20

	ds2015TagCAN  = 0x0e
	ds2015TagCPU  = 0x05
	ds2015TagRAM  = 0x06
	ds2015TagDisk = 0x04

	ds2015StationRed1  = 0x00
	ds2015StationRed2  = 0x01
	ds2015StationRed3  = 0x02
	ds2015StationBlue1 = 0x03
	ds2015StationBlue2 = 0x04
	ds2015StationBlue3 = 0x05
)

func (c *Codec2015) FMSAddress() string   { return "" }
func (c *Codec2015) RadioAddress() string { return StaticIP(10, c.cfg.TeamNumber(), 1) }
func (c *Codec2015) RobotAddress() string {
	return fmt.Sprintf("roboRIO-%d.local", c.cfg.TeamNumber())
}

func modeByteFor(mode ControlMode) byte {
	switch mode {
	case Test:
		return ds2015Test
	case Autonomous:
		return ds2015Autonomous
	default:
		return ds2015Teleoperated
	}
}

// controlByteRobot assembles the control byte sent to the robot (spec
// §4.6).
func (c *Codec2015) controlByteRobot() byte {
	b := modeByteFor(c.cfg.Mode())
	if c.cfg.FMSComms() {
		b |= ds2015FMSAttached
	}
	if c.cfg.EmergencyStopped() {
		b |= ds2015EmergencyStop
	}
	if c.cfg.Enabled() {
		b |= ds2015Enabled
	}
	return b
}

// fmsControlByte assembles the control byte sent to the FMS (spec §4.6).
//
// The source (frc_2015.c fms_control_code) ORs cFMS_RobotPing (0x08) into
// the byte under the same condition as cFMS_RobotComms (0x20) — both gated
// solely on robot-comms. That reproduces 0x28 for "robot comms, no radio",
// which conflicts with this spec's own worked example (§8 scenario 5: team
// 3794, enabled, teleop, robot-comms-only yields control byte 0x24, i.e.
// only the 0x20 bit). We resolve the conflict in favor of the numbered test
// vector: the "ping" bit tracks the radio link (you can only ping the robot
// through the radio bridge), and "robot comms" tracks the robot link
// independently. See DESIGN.md.
func (c *Codec2015) fmsControlByte() byte {
	b := modeByteFor(c.cfg.Mode())
	if c.cfg.EmergencyStopped() {
		b |= ds2015EmergencyStop
	}
	if c.cfg.Enabled() {
		b |= ds2015Enabled
	}
	if c.cfg.RadioComms() {
		b |= ds2015FMSRadioPing | ds2015FMSRobotPing
	}
	if c.cfg.RobotComms() {
		b |= ds2015FMSRobotComms
	}
	return b
}

// requestByte assembles the request code sent to the robot (spec §4.6).
func (c *Codec2015) requestByte() byte {
	if !c.cfg.RobotComms() {
		return ds2015RequestUnconnected
	}
	if c.rebootPending {
		return ds2015RequestReboot
	}
	if c.restartCodePending {
		return ds2015RequestRestartCode
	}
	return ds2015RequestNormal
}

func stationByte(a Alliance, p Position) byte {
	switch p {
	case Position1:
		if a == Blue {
			return ds2015StationBlue1
		}
		return ds2015StationRed1
	case Position2:
		if a == Blue {
			return ds2015StationBlue2
		}
		return ds2015StationRed2
	case Position3:
		if a == Blue {
			return ds2015StationBlue3
		}
		return ds2015StationRed3
	}
	return ds2015StationRed1
}

func allianceFromStation(b byte) Alliance {
	switch b {
	case ds2015StationBlue1, ds2015StationBlue2, ds2015StationBlue3:
		return Blue
	}
	return Red
}

func positionFromStation(b byte) Position {
	switch b {
	case ds2015StationRed2, ds2015StationBlue2:
		return Position2
	case ds2015StationRed3, ds2015StationBlue3:
		return Position3
	}
	return Position1
}

// encodeVoltage implements the intended 2015 voltage encoding (spec §4.6,
// §9 open question b): the source's literal
// `(uint8_t)(voltage - (int)voltage) * 100` casts the fractional part to a
// byte before scaling it, which truncates any value in [0,1) to zero. This
// function instead rounds the fractional part to hundredths (0..100) and
// returns that as the low byte, so 12.5 encodes as (12, 50).
func encodeVoltage(v float64) (upper, lower byte) {
	whole := math.Floor(v)
	frac := v - whole
	return byte(whole), byte(math.Round(frac * 100))
}

func decodeVoltage(upper, lower byte) float64 {
	return float64(upper) + float64(lower)/255
}

// BuildFMSPacket assembles the fixed 8-byte 2015 FMS datagram (spec §4.6).
func (c *Codec2015) BuildFMSPacket() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, 8)

	idx := c.sendFMSCounter
	c.sendFMSCounter++
	buf[0] = byte(idx >> 8)
	buf[1] = byte(idx)

	buf[2] = ds2015FMSDSVersion
	buf[3] = c.fmsControlByte()

	team := c.cfg.TeamNumber()
	buf[4] = byte(team >> 8)
	buf[5] = byte(team)

	upper, lower := encodeVoltage(c.cfg.RobotVoltage())
	buf[6] = upper
	buf[7] = lower

	return buf
}

// BuildRadioPacket — the 2015 generation never sends specialized packets to
// the radio/bridge (spec §4.6).
func (c *Codec2015) BuildRadioPacket() []byte { return nil }

// BuildRobotPacket assembles the variable-length 2015 robot datagram (spec
// §4.6): a fixed 6-byte header followed by at most one block, never both:
// the timezone block when the robot has requested time, otherwise the
// joystick block once the counter is past 5. Earlier packets without a time
// request are the bare 6-byte header.
func (c *Codec2015) BuildRobotPacket() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, 6, 64)

	idx := c.sendRobotCounter
	buf[0] = byte(idx >> 8)
	buf[1] = byte(idx)
	buf[2] = ds2015TagGeneral
	buf[3] = c.controlByteRobot()
	buf[4] = c.requestByte()
	buf[5] = stationByte(c.cfg.AllianceStation(), c.cfg.Position())

	switch {
	case c.sendTimeData:
		buf = append(buf, c.timezoneBlock()...)
	case c.sendRobotCounter > 5:
		buf = append(buf, c.joystickBlock()...)
	}

	c.sendRobotCounter++
	return buf
}

// timezoneBlock builds the date/time block the robot may request at boot
// (spec §4.6).
func (c *Codec2015) timezoneBlock() []byte {
	t := c.now().Local()
	zone, _ := t.Zone()

	buf := make([]byte, 0, 12+len(zone))
	buf = append(buf,
		0x0b,
		ds2015TagDate,
		0, 0,
		byte(t.Second()),
		byte(t.Minute()),
		byte(t.Hour()),
		byte(t.YearDay()-1),
		byte(int(t.Month())-1),
		byte(t.Year()-1900),
		byte(len(zone)),
		ds2015TagTimezone,
	)
	buf = append(buf, []byte(zone)...)
	return buf
}

// joystickBlock builds one variable-size entry per attached joystick (spec
// §4.6). Unlike 2014, only attached joysticks are described — there is no
// fixed four-stick padding.
func (c *Codec2015) joystickBlock() []byte {
	if c.sticks == nil {
		return nil
	}

	var buf []byte
	for i := 0; i < c.sticks.Count(); i++ {
		axes := c.sticks.NumAxes(i)
		buttons := c.sticks.NumButtons(i)
		hats := c.sticks.NumHats(i)

		size := 2 + 3 + (axes + 1) + (hats*2 + 1)
		buf = append(buf, byte(size), ds2015TagJoystick)

		buf = append(buf, byte(axes))
		for a := 0; a < axes; a++ {
			buf = append(buf, byte(FloatToSignedByte(c.sticks.Axis(i, a), 1.0)))
		}

		var flags uint16
		for b := 0; b < buttons; b++ {
			if c.sticks.Button(i, b) {
				flags |= 1 << uint(b)
			}
		}
		buf = append(buf, byte(buttons), byte(flags>>8), byte(flags))

		buf = append(buf, byte(hats))
		for h := 0; h < hats; h++ {
			v := uint16(c.sticks.Hat(i, h))
			buf = append(buf, byte(v>>8), byte(v))
		}
	}
	return buf
}

// ReadFMSPacket parses an inbound FMS datagram (spec §4.6). Minimum 22
// bytes. Mode precedence is Teleoperated > Autonomous > Test: the source's
// literal `if (control & cTeleoperated)` is always false because
// cTeleoperated is 0, so its teleop branch never ran — here Teleoperated
// means "neither the autonomous nor the test bit is set," which is the
// only reading consistent with the stated precedence and with modes being
// exhaustive (spec §3).
func (c *Codec2015) ReadFMSPacket(data []byte) bool {
	const minLen = 22
	if len(data) < minLen {
		return false
	}

	control := data[3]
	station := data[5]

	c.cfg.withLock(func(r *Registry) {
		r.enabled = control&ds2015Enabled != 0

		switch {
		case control&(ds2015Autonomous|ds2015Test) == 0:
			r.mode = Teleoperated
		case control&ds2015Autonomous != 0:
			r.mode = Autonomous
		case control&ds2015Test != 0:
			r.mode = Test
		}

		r.alliance = allianceFromStation(station)
		r.position = positionFromStation(station)
	})
	return true
}

// ReadRadioPacket — the 2015 DS never interacts with the radio directly;
// inbound radio datagrams are ignored (spec §4.6).
func (c *Codec2015) ReadRadioPacket(data []byte) bool { return false }

// ReadRobotPacket parses an inbound robot datagram (spec §4.6). The source
// declares a 7-byte minimum but reads index 7 (the request byte); we use
// the true minimum of 8, per open question (c).
func (c *Codec2015) ReadRobotPacket(data []byte) bool {
	const minLen = 8
	if len(data) < minLen {
		return false
	}

	control := data[3]
	status := data[4]
	upper := data[5]
	lower := data[6]
	request := data[7]

	c.cfg.withLock(func(r *Registry) {
		r.codePresent = status&ds2015RobotHasCode != 0
		r.eStopped = control&ds2015EmergencyStop != 0
		r.voltage = decodeVoltage(upper, lower)
	})

	c.mu.Lock()
	c.sendTimeData = request == ds2015RequestTime
	c.mu.Unlock()

	if len(data) > 9 {
		c.readExtended(data, 8)
	}
	return true
}

// readExtended parses the first extended-telemetry block starting at
// offset k (spec §4.6). Only the first block is consumed, preserved from
// the source; an unrecognized tag is silently ignored (spec §7).
func (c *Codec2015) readExtended(data []byte, k int) {
	if k+1 >= len(data) {
		return
	}
	tag := data[k+1]

	switch tag {
	case ds2015TagCAN:
		if len(data) > 10 {
			c.cfg.SetCANUtilization(uint(data[10]))
		}
	case ds2015TagCPU:
		if len(data) > 3 {
			c.cfg.SetCPUUsage(uint(data[3]))
		}
	case ds2015TagRAM:
		if len(data) > 4 {
			c.cfg.SetRAMUsage(uint(data[4]))
		}
	case ds2015TagDisk:
		if len(data) > 4 {
			c.cfg.SetDiskUsage(uint(data[4]))
		}
	}
}

// ResetFMS — no-op in 2015 (spec §4.6).
func (c *Codec2015) ResetFMS() {}

// ResetRadio — no-op in 2015 (spec §4.6).
func (c *Codec2015) ResetRadio() {}

// ResetRobot clears reboot, restart-code, and send-time-data (spec §4.6).
func (c *Codec2015) ResetRobot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebootPending = false
	c.restartCodePending = false
	c.sendTimeData = false
}

func (c *Codec2015) RebootRobot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebootPending = true
}

func (c *Codec2015) RestartRobotCode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartCodePending = true
}

func (c *Codec2015) FMSInterval() int   { return 500 }
func (c *Codec2015) RadioInterval() int { return 0 }
func (c *Codec2015) RobotInterval() int { return 20 }

func (c *Codec2015) MaxJoysticks() int { return 6 }
func (c *Codec2015) MaxAxes() int      { return 6 }
func (c *Codec2015) MaxButtons() int   { return 10 }
func (c *Codec2015) MaxHats() int      { return 1 }

func (c *Codec2015) FMSSocket() SocketSpec {
	return SocketSpec{Name: "fms", InPort: 1120, OutPort: 1160}
}
func (c *Codec2015) RadioSocket() SocketSpec {
	return SocketSpec{Name: "radio", Disabled: true}
}
func (c *Codec2015) RobotSocket() SocketSpec {
	return SocketSpec{Name: "robot", InPort: 1150, OutPort: 1110}
}
func (c *Codec2015) NetConsoleSocket() SocketSpec {
	return SocketSpec{Name: "netconsole", InPort: 6666, OutPort: 6668, Broadcast: true}
}

var _ Descriptor = (*Codec2015)(nil)
