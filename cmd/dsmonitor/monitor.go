package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frc-ds/dscore"
)

// snapshot is the JSON payload broadcast to dashboard subscribers, a plain
// copy of the fields a driver station UI would want to show live.
type snapshot struct {
	Type        string  `json:"type"`
	TeamNumber  uint16  `json:"team_number"`
	Mode        string  `json:"mode"`
	Alliance    string  `json:"alliance"`
	Position    int     `json:"position"`
	Enabled     bool    `json:"enabled"`
	EStopped    bool    `json:"e_stopped"`
	RobotComms  bool    `json:"robot_comms"`
	FMSComms    bool    `json:"fms_comms"`
	CodePresent bool    `json:"code_present"`
	Voltage     float64 `json:"voltage"`
	Timestamp   int64   `json:"timestamp"`
}

// Monitor is a small dashboard server grounded on clients/go/websocket_manager.go's
// subscriber-channel broadcast pattern and clients/go/api_server.go's
// gorilla/mux routing. It has no opinion on transport for the FMS/radio/
// robot sockets themselves — those are wired up by main.go — it only
// mirrors the live Registry state to connected operators and buffers raw
// NetConsole bytes for later download.
type Monitor struct {
	cfg    *dscore.Registry
	sticks *dscore.SimpleJoystickRegistry

	subMu       sync.RWMutex
	subscribers map[chan []byte]bool

	router *mux.Router

	upgrader websocket.Upgrader

	ncMu  sync.Mutex
	ncBuf bytes.Buffer

	metrics  *Metrics
	commands commander
}

// commander is the one-shot command surface the dashboard's reboot/restart
// endpoints drive; scheduler implements it in main.go.
type commander interface {
	Reboot()
	RestartCode()
}

// NewMonitor builds the dashboard router. cfg/sticks back the live snapshot;
// metrics may be nil. The /metrics route serves the default Prometheus
// registry either way.
func NewMonitor(cfg *dscore.Registry, sticks *dscore.SimpleJoystickRegistry, metrics *Metrics) *Monitor {
	m := &Monitor{
		cfg:         cfg,
		sticks:      sticks,
		subscribers: make(map[chan []byte]bool),
		metrics:     metrics,
		upgrader:    websocket.Upgrader{ReadBufferSize: 4096, WriteBufferSize: 4096},
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", m.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/api/snapshot", m.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/api/netconsole.zst", m.handleNetConsoleDownload).Methods(http.MethodGet)
	r.HandleFunc("/api/command/reboot", m.handleReboot).Methods(http.MethodPost)
	r.HandleFunc("/api/command/restart-code", m.handleRestartCode).Methods(http.MethodPost)
	r.HandleFunc("/ws", m.handleWS).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	m.router = r

	return m
}

func (m *Monitor) handleReboot(w http.ResponseWriter, r *http.Request) {
	if m.commands == nil {
		http.Error(w, "commands unavailable", http.StatusServiceUnavailable)
		return
	}
	m.commands.Reboot()
	w.WriteHeader(http.StatusAccepted)
}

func (m *Monitor) handleRestartCode(w http.ResponseWriter, r *http.Request) {
	if m.commands == nil {
		http.Error(w, "commands unavailable", http.StatusServiceUnavailable)
		return
	}
	m.commands.RestartCode()
	w.WriteHeader(http.StatusAccepted)
}

func (m *Monitor) Handler() http.Handler { return m.router }

func (m *Monitor) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (m *Monitor) snapshot(now time.Time) snapshot {
	mode := "teleop"
	switch m.cfg.Mode() {
	case dscore.Autonomous:
		mode = "auto"
	case dscore.Test:
		mode = "test"
	}
	alliance := "red"
	if m.cfg.AllianceStation() == dscore.Blue {
		alliance = "blue"
	}

	return snapshot{
		Type:        "snapshot",
		TeamNumber:  m.cfg.TeamNumber(),
		Mode:        mode,
		Alliance:    alliance,
		Position:    int(m.cfg.Position()),
		Enabled:     m.cfg.Enabled(),
		EStopped:    m.cfg.EmergencyStopped(),
		RobotComms:  m.cfg.RobotComms(),
		FMSComms:    m.cfg.FMSComms(),
		CodePresent: m.cfg.RobotCodePresent(),
		Voltage:     m.cfg.RobotVoltage(),
		Timestamp:   now.Unix(),
	}
}

func (m *Monitor) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(m.snapshot(time.Now()))
}

// handleWS upgrades to a WebSocket and streams snapshots as they're
// broadcast, grounded on websocket_manager.go's Subscribe/Unsubscribe pair.
func (m *Monitor) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("dsmonitor: websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	sessionID := uuid.New().String()
	log.Printf("dsmonitor: monitor session %s connected", sessionID)

	ch := m.subscribe()
	defer m.unsubscribe(ch)

	for msg := range ch {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("dsmonitor: monitor session %s write error: %v", sessionID, err)
			return
		}
	}
}

func (m *Monitor) subscribe() chan []byte {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	ch := make(chan []byte, 10)
	m.subscribers[ch] = true
	return ch
}

func (m *Monitor) unsubscribe(ch chan []byte) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	if _, ok := m.subscribers[ch]; ok {
		delete(m.subscribers, ch)
		close(ch)
	}
}

// BroadcastSnapshot pushes the current Registry state to every connected
// dashboard client. The scheduler calls this once per robot tick.
func (m *Monitor) BroadcastSnapshot() {
	data, err := json.Marshal(m.snapshot(time.Now()))
	if err != nil {
		return
	}

	m.subMu.RLock()
	defer m.subMu.RUnlock()
	for ch := range m.subscribers {
		select {
		case ch <- data:
		default:
			// subscriber's channel is full, skip this tick
		}
	}
}

// netConsoleCapacity bounds the in-memory raw capture buffer (spec's
// Non-goals exclude NetConsole payload parsing; we only store and
// compress bytes, never inspect them).
const netConsoleCapacity = 1 << 20

// CaptureNetConsole appends raw NetConsole bytes to the rolling buffer,
// grounded on clients/go/pcm_decoder.go's use of klauspost/compress for
// binary payloads — here applied to log capture instead of audio frames.
func (m *Monitor) CaptureNetConsole(data []byte) {
	m.ncMu.Lock()
	defer m.ncMu.Unlock()

	m.ncBuf.Write(data)
	if m.ncBuf.Len() > netConsoleCapacity {
		excess := m.ncBuf.Len() - netConsoleCapacity
		m.ncBuf.Next(excess)
	}
}

func (m *Monitor) handleNetConsoleDownload(w http.ResponseWriter, r *http.Request) {
	m.ncMu.Lock()
	raw := append([]byte(nil), m.ncBuf.Bytes()...)
	m.ncMu.Unlock()

	enc, err := zstd.NewWriter(w)
	if err != nil {
		http.Error(w, "compressor unavailable", http.StatusInternalServerError)
		return
	}
	defer enc.Close()

	w.Header().Set("Content-Type", "application/zstd")
	if _, err := enc.Write(raw); err != nil {
		log.Printf("dsmonitor: netconsole download write error: %v", err)
	}
}
