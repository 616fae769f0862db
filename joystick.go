package dscore

import "sync"

// JoystickRegistry is the read-only view of currently attached joysticks
// that codecs consume when building outbound packets (spec §4.3). The core
// never enumerates HID devices itself; a scheduler-side adapter populates a
// SimpleJoystickRegistry (or supplies its own implementation) from whatever
// input library it uses.
type JoystickRegistry interface {
	Count() int
	NumAxes(i int) int
	NumButtons(i int) int
	NumHats(i int) int
	Axis(i, j int) float64 // -1..1
	Button(i, j int) bool
	Hat(i, j int) int16
}

// SimpleJoystickRegistry is a straightforward in-memory JoystickRegistry
// a scheduler can populate directly, useful for tests and for hosts that
// don't already own a joystick abstraction of their own.
type SimpleJoystickRegistry struct {
	mu    sync.RWMutex
	sticks []joystickState
}

type joystickState struct {
	axes    []float64
	buttons []bool
	hats    []int16
}

// NewSimpleJoystickRegistry returns an empty registry; use SetJoystick to
// populate it before a builder runs.
func NewSimpleJoystickRegistry() *SimpleJoystickRegistry {
	return &SimpleJoystickRegistry{}
}

// SetJoystick replaces the state of joystick index i, growing the
// registry's stick count if necessary.
func (j *SimpleJoystickRegistry) SetJoystick(i int, axes []float64, buttons []bool, hats []int16) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for len(j.sticks) <= i {
		j.sticks = append(j.sticks, joystickState{})
	}
	j.sticks[i] = joystickState{axes: axes, buttons: buttons, hats: hats}
}

func (j *SimpleJoystickRegistry) Count() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.sticks)
}

func (j *SimpleJoystickRegistry) NumAxes(i int) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i < 0 || i >= len(j.sticks) {
		return 0
	}
	return len(j.sticks[i].axes)
}

func (j *SimpleJoystickRegistry) NumButtons(i int) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i < 0 || i >= len(j.sticks) {
		return 0
	}
	return len(j.sticks[i].buttons)
}

func (j *SimpleJoystickRegistry) NumHats(i int) int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i < 0 || i >= len(j.sticks) {
		return 0
	}
	return len(j.sticks[i].hats)
}

func (j *SimpleJoystickRegistry) Axis(i, jj int) float64 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i < 0 || i >= len(j.sticks) || jj < 0 || jj >= len(j.sticks[i].axes) {
		return 0
	}
	return j.sticks[i].axes[jj]
}

func (j *SimpleJoystickRegistry) Button(i, jj int) bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i < 0 || i >= len(j.sticks) || jj < 0 || jj >= len(j.sticks[i].buttons) {
		return false
	}
	return j.sticks[i].buttons[jj]
}

func (j *SimpleJoystickRegistry) Hat(i, jj int) int16 {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if i < 0 || i >= len(j.sticks) || jj < 0 || jj >= len(j.sticks[i].hats) {
		return -1
	}
	return j.sticks[i].hats[jj]
}
