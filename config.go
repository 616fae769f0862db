package dscore

import "sync"

// ControlMode is the robot's current operating mode. The zero value is
// Teleoperated, matching the wire's "no special bits set" encoding in both
// protocol generations.
type ControlMode int

const (
	Teleoperated ControlMode = iota
	Autonomous
	Test
)

// Alliance is the team's match color.
type Alliance int

const (
	Red Alliance = iota
	Blue
)

// Position is the driver station slot, 1..3. The zero value is invalid on
// the wire; Registry defaults it to 1.
type Position int

const (
	Position1 Position = 1
	Position2 Position = 2
	Position3 Position = 3
)

// Registry is the process-wide driver-station configuration snapshot
// described in spec §3. All access goes through its methods so codecs never
// touch representation directly; every method is safe to call concurrently
// from the scheduler's transport goroutines and from parser callbacks.
//
// One mutex guards all fields, but each accessor holds it only for its own
// field: a reader calling several accessors back to back may observe a mix
// of old and new values if a writer runs concurrently between them. Codecs
// that must commit several fields from one inbound datagram atomically take
// Registry's mutex directly via withLock instead of calling the per-field
// setters.
type Registry struct {
	mu sync.RWMutex

	teamNumber uint16
	mode       ControlMode
	alliance   Alliance
	position   Position

	enabled    bool
	eStopped   bool
	fmsComms   bool
	radioComms bool
	robotComms bool

	codePresent bool
	voltage     float64

	cpuUsage  uint
	ramUsage  uint
	diskUsage uint
	canUtil   uint
}

// NewRegistry returns a Registry initialized to the sane defaults required
// by §7.3 ("a field read at builder time must always succeed"): teleop,
// red 1, disabled, not e-stopped, no comms, zero telemetry.
func NewRegistry() *Registry {
	return &Registry{
		alliance: Red,
		position: Position1,
	}
}

// withLock runs fn while holding the write lock, so a parser can commit
// several fields from one datagram atomically (spec §3: "configuration
// updates from FMS parsers are committed atomically per packet"). fn must
// only touch the unexported fields directly — calling an exported
// Registry method from inside fn would deadlock.
func (r *Registry) withLock(fn func(*Registry)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r)
}

func (r *Registry) TeamNumber() uint16 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.teamNumber
}

func (r *Registry) SetTeamNumber(team uint16) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.teamNumber = team
}

func (r *Registry) Mode() ControlMode {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.mode
}

func (r *Registry) SetMode(m ControlMode) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mode = m
}

func (r *Registry) AllianceStation() Alliance {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.alliance
}

func (r *Registry) SetAlliance(a Alliance) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alliance = a
}

func (r *Registry) Position() Position {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.position
}

func (r *Registry) SetPosition(p Position) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.position = p
}

func (r *Registry) Enabled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.enabled
}

func (r *Registry) SetEnabled(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.enabled = v
}

func (r *Registry) EmergencyStopped() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.eStopped
}

// SetEmergencyStopped sets the sticky e-stop latch. Building a packet never
// changes it; the robot-packet parsers overwrite it with the e-stop state
// each accepted robot reply reports.
func (r *Registry) SetEmergencyStopped(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.eStopped = v
}

func (r *Registry) FMSComms() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fmsComms
}

func (r *Registry) SetFMSComms(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fmsComms = v
}

func (r *Registry) RadioComms() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.radioComms
}

func (r *Registry) SetRadioComms(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.radioComms = v
}

func (r *Registry) RobotComms() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.robotComms
}

func (r *Registry) SetRobotComms(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.robotComms = v
}

func (r *Registry) RobotCodePresent() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.codePresent
}

func (r *Registry) SetRobotCodePresent(v bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codePresent = v
}

func (r *Registry) RobotVoltage() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.voltage
}

func (r *Registry) SetRobotVoltage(v float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.voltage = v
}

func (r *Registry) CPUUsage() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cpuUsage
}

func (r *Registry) SetCPUUsage(v uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cpuUsage = v
}

func (r *Registry) RAMUsage() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.ramUsage
}

func (r *Registry) SetRAMUsage(v uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ramUsage = v
}

func (r *Registry) DiskUsage() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.diskUsage
}

func (r *Registry) SetDiskUsage(v uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.diskUsage = v
}

func (r *Registry) CANUtilization() uint {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.canUtil
}

func (r *Registry) SetCANUtilization(v uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.canUtil = v
}
