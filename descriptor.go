package dscore

// SocketSpec describes a UDP endpoint the core wants opened; the core never
// opens it itself (spec §1, §4.4). Port 0 with Disabled set means the peer
// has no socket in this generation (e.g. 2014's radio packets).
type SocketSpec struct {
	Name      string
	InPort    int
	OutPort   int
	Broadcast bool
	Disabled  bool
}

// Descriptor is the uniform contract a host scheduler drives, implemented
// once per protocol generation (spec §4.4). Every method is a plain
// function call — builders and parsers are CPU-bound and return promptly,
// there is no blocking I/O or async behind this interface (spec §5).
type Descriptor interface {
	// Addresses. Empty string means "accept from any source."
	FMSAddress() string
	RadioAddress() string
	RobotAddress() string

	// Builders read Config/Joysticks and codec state; they never fail.
	BuildFMSPacket() []byte
	BuildRadioPacket() []byte
	BuildRobotPacket() []byte

	// Parsers consume one datagram each. ok is false if the datagram was
	// too short for this parser's size floor; Config is left untouched in
	// that case.
	ReadFMSPacket(data []byte) (ok bool)
	ReadRadioPacket(data []byte) (ok bool)
	ReadRobotPacket(data []byte) (ok bool)

	// Watchdog-reset hooks, called by the scheduler when the corresponding
	// inbound watchdog expires. Clears one-shot pending flags.
	ResetFMS()
	ResetRadio()
	ResetRobot()

	// One-shot edge triggers. Each sets a pending flag consumed by
	// subsequent BuildRobotPacket calls until the matching ResetRobot call.
	RebootRobot()
	RestartRobotCode()

	// Send cadence in milliseconds. 0 means the peer is not sent to in
	// this generation.
	FMSInterval() int
	RadioInterval() int
	RobotInterval() int

	// Joystick capability caps the scheduler should advertise upstream.
	MaxJoysticks() int
	MaxAxes() int
	MaxButtons() int
	MaxHats() int

	// Socket descriptors for the scheduler to open.
	FMSSocket() SocketSpec
	RadioSocket() SocketSpec
	RobotSocket() SocketSpec
	NetConsoleSocket() SocketSpec
}

// InboundWatchdogMillis is the default inbound watchdog timeout both
// generations use (spec §4.4: "default 1000 ms inbound").
const InboundWatchdogMillis = 1000
