package dscore

import "sync"

// Codec2014 implements Descriptor for the 2014 (cRIO) generation (spec
// §4.5). State is created alongside the codec and serialized by a single
// mutex, matching the teacher's per-server mutex in protocol1.go/protocol2.go
// (Protocol1Server.mu, Protocol2Server.mu) rather than a lock per field.
type Codec2014 struct {
	mu sync.Mutex

	cfg    *Registry
	sticks JoystickRegistry

	sendCounter uint16

	rebootPending      bool
	restartCodePending bool
	resyncPending      bool
}

// NewCodec2014 wires a codec to the given configuration and joystick
// registries. Both must outlive the codec.
func NewCodec2014(cfg *Registry, sticks JoystickRegistry) *Codec2014 {
	return &Codec2014{cfg: cfg, sticks: sticks}
}

const (
	ds2014Version = "04011600"

	ds2014CtrlEStopOff = 0x40
	ds2014CtrlTest     = 0x02
	ds2014CtrlAuto     = 0x10
	ds2014CtrlTeleop   = 0x00
	ds2014CtrlEnabled  = 0x20
	ds2014CtrlResync   = 0x04
	ds2014CtrlFMS      = 0x08
	ds2014CtrlReboot   = 0x80

	ds2014AllianceRed  = 0x52
	ds2014AllianceBlue = 0x42

	ds2014PositionBase = 0x30 // + 1,2,3
)

func (c *Codec2014) FMSAddress() string   { return "" }
func (c *Codec2014) RadioAddress() string { return StaticIP(10, c.cfg.TeamNumber(), 1) }
func (c *Codec2014) RobotAddress() string { return StaticIP(10, c.cfg.TeamNumber(), 2) }

// controlByte assembles the 2014 control bitfield (spec §4.5). The reboot
// override is applied last and wins over the e-stop override: this is
// intentional, preserved from the source, and must not be reordered.
func (c *Codec2014) controlByte() byte {
	var b byte = ds2014CtrlEStopOff

	switch c.cfg.Mode() {
	case Test:
		b |= ds2014CtrlTest
	case Autonomous:
		b |= ds2014CtrlAuto
	case Teleoperated:
		b |= ds2014CtrlTeleop
	}
	if c.cfg.Enabled() {
		b |= ds2014CtrlEnabled
	}
	if c.resyncPending {
		b |= ds2014CtrlResync
	}
	if c.cfg.FMSComms() {
		b |= ds2014CtrlFMS
	}

	if c.cfg.EmergencyStopped() {
		b = 0x00
	}
	if c.rebootPending {
		b = ds2014CtrlReboot
	}
	return b
}

func allianceByte2014(a Alliance) byte {
	if a == Blue {
		return ds2014AllianceBlue
	}
	return ds2014AllianceRed
}

func positionByte2014(p Position) byte {
	if p < Position1 || p > Position3 {
		p = Position1
	}
	return ds2014PositionBase + byte(p)
}

// BuildRobotPacket assembles the fixed 1024-byte 2014 robot datagram (spec
// §4.5). The send counter advances by exactly one per call, even if the
// scheduler is late with the previous tick (spec §5).
func (c *Codec2014) BuildRobotPacket() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()

	buf := make([]byte, 1024)

	idx := c.sendCounter
	c.sendCounter++
	buf[0] = byte(idx >> 8)
	buf[1] = byte(idx)

	buf[2] = c.controlByte()
	buf[3] = 0x00 // digital inputs, always zero

	team := c.cfg.TeamNumber()
	buf[4] = byte(team >> 8)
	buf[5] = byte(team)

	buf[6] = allianceByte2014(c.cfg.AllianceStation())
	buf[7] = positionByte2014(c.cfg.Position())

	c.writeJoystickBlock(buf[8:])

	copy(buf[72:80], []byte(ds2014Version))

	crc := CRC32(0, buf[:1020])
	buf[1020] = byte(crc >> 24)
	buf[1021] = byte(crc >> 16)
	buf[1022] = byte(crc >> 8)
	buf[1023] = byte(crc)

	return buf
}

// writeJoystickBlock fills the always-four-joystick block: six signed axis
// bytes per stick (0 for a missing joystick/axis), followed by two bytes of
// button flags, bit j = button j, ten buttons maximum, big-endian (spec
// §4.5). dst must have room for 4*8=32 bytes.
func (c *Codec2014) writeJoystickBlock(dst []byte) {
	const sticksPerPacket = 4
	const axesPerStick = 6
	const maxButtons = 10

	for i := 0; i < sticksPerPacket; i++ {
		base := i * 8
		for a := 0; a < axesPerStick; a++ {
			var v int8
			if c.sticks != nil && i < c.sticks.Count() && a < c.sticks.NumAxes(i) {
				v = FloatToSignedByte(c.sticks.Axis(i, a), 1.0)
			}
			dst[base+a] = byte(v)
		}

		var flags uint16
		if c.sticks != nil && i < c.sticks.Count() {
			n := c.sticks.NumButtons(i)
			if n > maxButtons {
				n = maxButtons
			}
			for j := 0; j < n; j++ {
				if c.sticks.Button(i, j) {
					flags |= 1 << uint(j)
				}
			}
		}
		dst[base+6] = byte(flags >> 8)
		dst[base+7] = byte(flags)
	}
}

// BuildFMSPacket — the 2014 generation has no outbound FMS packet layout in
// the original protocol; the descriptor still exposes a builder (the
// contract requires one, and FMSInterval reports the 500ms cadence spec
// §4.5 names) returning an empty buffer.
func (c *Codec2014) BuildFMSPacket() []byte { return nil }

// BuildRadioPacket — radio packets are empty outbound in 2014 (spec §4.5).
func (c *Codec2014) BuildRadioPacket() []byte { return nil }

// ReadFMSPacket parses an inbound FMS datagram (spec §4.5). Minimum 5
// bytes; byte 2 carries mode+enable bits, byte 3 the alliance character,
// byte 4 the position character.
func (c *Codec2014) ReadFMSPacket(data []byte) bool {
	const minLen = 5
	if len(data) < minLen {
		return false
	}

	modeByte := data[2]
	allianceCh := data[3]
	positionCh := data[4]

	c.cfg.withLock(func(r *Registry) {
		switch {
		case modeByte&0x53 == 0x53:
			r.mode = Autonomous
		case modeByte&0x43 == 0x43:
			r.mode = Teleoperated
		}
		r.enabled = modeByte&0x20 != 0

		switch allianceCh {
		case 'R':
			r.alliance = Red
		case 'B':
			r.alliance = Blue
		}
		switch positionCh {
		case '1':
			r.position = Position1
		case '2':
			r.position = Position2
		case '3':
			r.position = Position3
		}
	})
	return true
}

// ReadRadioPacket — radio inbound is ignored in 2014 (spec §4.5).
func (c *Codec2014) ReadRadioPacket(data []byte) bool { return true }

// ReadRobotPacket parses an inbound robot datagram (spec §4.5). Minimum
// 1024 bytes. Decodes voltage with the 2014 "hex-is-decimal" convention and
// sets robot_code_present unconditionally — a deliberate workaround
// preserved from the source: any accepted reply, even one reporting
// e-stop, means the robot image booted.
func (c *Codec2014) ReadRobotPacket(data []byte) bool {
	const minLen = 1024
	if len(data) < minLen {
		return false
	}

	upperRaw := data[1]
	lowerRaw := data[2]
	upper := float64(int(upperRaw) * 12 / 0x12)
	lower := float64(int(lowerRaw) * 12 / 0x12)
	voltage := upper + lower/255

	eStopped := data[0] == 0x00

	c.cfg.withLock(func(r *Registry) {
		r.voltage = voltage
		r.eStopped = eStopped
		r.codePresent = true
	})
	return true
}

// ResetFMS — no-op in 2014 (spec §4.5).
func (c *Codec2014) ResetFMS() {}

// ResetRadio — no-op in 2014 (spec §4.5).
func (c *Codec2014) ResetRadio() {}

// ResetRobot sets resync, clears reboot and restart-code (spec §4.5).
func (c *Codec2014) ResetRobot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resyncPending = true
	c.rebootPending = false
	c.restartCodePending = false
}

func (c *Codec2014) RebootRobot() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rebootPending = true
}

func (c *Codec2014) RestartRobotCode() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restartCodePending = true
}

func (c *Codec2014) FMSInterval() int   { return 500 }
func (c *Codec2014) RadioInterval() int { return 0 }
func (c *Codec2014) RobotInterval() int { return 20 }

func (c *Codec2014) MaxJoysticks() int { return 4 }
func (c *Codec2014) MaxAxes() int      { return 6 }
func (c *Codec2014) MaxButtons() int   { return 10 }
func (c *Codec2014) MaxHats() int      { return 0 }

func (c *Codec2014) FMSSocket() SocketSpec {
	return SocketSpec{Name: "fms", InPort: 1120, OutPort: 1160}
}
func (c *Codec2014) RadioSocket() SocketSpec {
	return SocketSpec{Name: "radio", Disabled: true}
}
func (c *Codec2014) RobotSocket() SocketSpec {
	return SocketSpec{Name: "robot", InPort: 1150, OutPort: 1110}
}
func (c *Codec2014) NetConsoleSocket() SocketSpec {
	return SocketSpec{Name: "netconsole", Disabled: true}
}

var _ Descriptor = (*Codec2014)(nil)
