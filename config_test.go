package dscore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewRegistryDefaults(t *testing.T) {
	r := NewRegistry()
	require.Equal(t, Teleoperated, r.Mode())
	require.Equal(t, Red, r.AllianceStation())
	require.Equal(t, Position1, r.Position())
	require.False(t, r.Enabled())
	require.False(t, r.EmergencyStopped())
}

func TestRegistryAccessors(t *testing.T) {
	r := NewRegistry()
	r.SetTeamNumber(3794)
	r.SetMode(Autonomous)
	r.SetAlliance(Blue)
	r.SetPosition(Position3)
	r.SetEnabled(true)
	r.SetEmergencyStopped(true)
	r.SetFMSComms(true)
	r.SetRadioComms(true)
	r.SetRobotComms(true)
	r.SetRobotCodePresent(true)
	r.SetRobotVoltage(12.5)
	r.SetCPUUsage(10)
	r.SetRAMUsage(20)
	r.SetDiskUsage(30)
	r.SetCANUtilization(40)

	require.EqualValues(t, 3794, r.TeamNumber())
	require.Equal(t, Autonomous, r.Mode())
	require.Equal(t, Blue, r.AllianceStation())
	require.Equal(t, Position3, r.Position())
	require.True(t, r.Enabled())
	require.True(t, r.EmergencyStopped())
	require.True(t, r.FMSComms())
	require.True(t, r.RadioComms())
	require.True(t, r.RobotComms())
	require.True(t, r.RobotCodePresent())
	require.InDelta(t, 12.5, r.RobotVoltage(), 0.0001)
	require.EqualValues(t, 10, r.CPUUsage())
	require.EqualValues(t, 20, r.RAMUsage())
	require.EqualValues(t, 30, r.DiskUsage())
	require.EqualValues(t, 40, r.CANUtilization())
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.SetRobotVoltage(12.0)
		}()
		go func() {
			defer wg.Done()
			_ = r.RobotVoltage()
		}()
	}
	wg.Wait()
}
