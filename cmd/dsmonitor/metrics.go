package main

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors dsmonitor exposes, grounded on the
// root repo's prometheus.go (PrometheusMetrics): GaugeVec/CounterVec built
// with promauto so they self-register with the default registry.
type Metrics struct {
	packetsBuilt  *prometheus.CounterVec // by peer: fms, radio, robot
	packetsParsed *prometheus.CounterVec // by peer
	packetsShort  *prometheus.CounterVec // rejected for length, by peer
	watchdogReset *prometheus.CounterVec // by peer
	oneShotFired  *prometheus.CounterVec // by command: reboot, restart_code

	robotVoltage prometheus.Gauge
	robotCode    prometheus.Gauge // 1 if code present, 0 otherwise
}

// NewMetrics registers dsmonitor's collectors. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		packetsBuilt: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dsmonitor_packets_built_total",
			Help: "Outbound datagrams built, by peer.",
		}, []string{"peer"}),
		packetsParsed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dsmonitor_packets_parsed_total",
			Help: "Inbound datagrams accepted, by peer.",
		}, []string{"peer"}),
		packetsShort: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dsmonitor_packets_rejected_total",
			Help: "Inbound datagrams rejected for being under the size floor, by peer.",
		}, []string{"peer"}),
		watchdogReset: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dsmonitor_watchdog_resets_total",
			Help: "Inbound watchdog expirations handled, by peer.",
		}, []string{"peer"}),
		oneShotFired: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "dsmonitor_one_shot_commands_total",
			Help: "One-shot edge-triggered robot commands fired, by command.",
		}, []string{"command"}),
		robotVoltage: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dsmonitor_robot_voltage",
			Help: "Last decoded robot battery voltage.",
		}),
		robotCode: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "dsmonitor_robot_code_present",
			Help: "1 if the last accepted robot packet reported code present, else 0.",
		}),
	}
}
