// Command dsmonitor is a reference scheduler for the dscore driver-station
// protocol core: it drives a Descriptor's builders/parsers on the cadence
// spec §5 describes, opens the sockets spec §4.4 asks for, and serves a live
// dashboard of the resulting Registry state. It is example wiring, not part
// of the protocol core itself — the core never performs I/O (spec §1).
package main

import (
	"flag"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/frc-ds/dscore"
)

func main() {
	configPath := flag.String("config", "dsmonitor.yaml", "path to operator config")
	flag.Parse()

	cfg, err := LoadOperatorConfig(*configPath)
	if err != nil {
		log.Fatalf("dsmonitor: config: %v", err)
	}

	desc, registry, sticks := newDescriptor(cfg)
	metrics := NewMetrics()
	monitor := NewMonitor(registry, sticks, metrics)

	robotHost := desc.RobotAddress()
	if cfg.DiscoverMDNS && cfg.Generation == "2015" {
		if ip, err := resolveRoboRIO(cfg.TeamNumber, 5*time.Second); err != nil {
			log.Printf("dsmonitor: mDNS discovery failed, falling back to DNS name: %v", err)
		} else {
			log.Printf("dsmonitor: using resolved address %s for roboRIO", ip)
			robotHost = ip.String()
		}
	}

	robotListen, err := openListenSocket(desc.RobotSocket())
	if err != nil {
		log.Fatalf("dsmonitor: robot listen socket: %v", err)
	}
	robotSend, err := openSendSocket(desc.RobotSocket(), robotHost)
	if err != nil {
		log.Printf("dsmonitor: robot send socket unavailable: %v", err)
	}
	fmsListen, err := openListenSocket(desc.FMSSocket())
	if err != nil {
		log.Printf("dsmonitor: fms listen socket unavailable: %v", err)
	}
	fmsSend, err := openSendSocket(desc.FMSSocket(), cfg.FMSHost)
	if err != nil {
		log.Printf("dsmonitor: fms send socket unavailable: %v", err)
	}
	ncListen, err := openListenSocket(desc.NetConsoleSocket())
	if err != nil {
		log.Printf("dsmonitor: netconsole socket unavailable: %v", err)
	}

	sched := &scheduler{
		desc:      desc,
		registry:  registry,
		metrics:   metrics,
		monitor:   monitor,
		robotConn: robotListen,
		robotSend: robotSend,
		fmsConn:   fmsListen,
		fmsSend:   fmsSend,
		ncConn:    ncListen,
	}
	monitor.commands = sched
	go sched.run()
	go sched.watchdog()

	log.Printf("dsmonitor: dashboard listening on %s", cfg.ListenAddr)
	if err := http.ListenAndServe(cfg.ListenAddr, monitor.Handler()); err != nil {
		log.Fatalf("dsmonitor: dashboard server: %v", err)
	}
}

// scheduler drives builders/parsers on the intervals a Descriptor reports,
// grounded on clients/hpsdr/main.go's monitorReceivers poll loop: one
// goroutine, one ticker per outbound peer, no blocking calls inside the
// tick path beyond the UDP write itself.
type scheduler struct {
	desc     dscore.Descriptor
	registry *dscore.Registry
	metrics  *Metrics
	monitor  *Monitor

	robotConn *net.UDPConn // inbound, listens on the robot's InPort
	robotSend *net.UDPConn // outbound, dialed to the robot
	fmsConn   *net.UDPConn // inbound, listens on the FMS's InPort
	fmsSend   *net.UDPConn // outbound, dialed to the FMS
	ncConn    *net.UDPConn // inbound NetConsole capture

	lastRobotMu sync.Mutex
	lastRobot   time.Time
	lastFMSMu   sync.Mutex
	lastFMS     time.Time
}

func (s *scheduler) run() {
	robotTicker := time.NewTicker(time.Duration(s.desc.RobotInterval()) * time.Millisecond)
	defer robotTicker.Stop()

	var fmsTicker *time.Ticker
	if iv := s.desc.FMSInterval(); iv > 0 {
		fmsTicker = time.NewTicker(time.Duration(iv) * time.Millisecond)
		defer fmsTicker.Stop()
	}

	if s.robotConn != nil {
		go s.readRobot()
	}
	if s.fmsConn != nil {
		go s.readFMS()
	}
	if s.ncConn != nil {
		go s.readNetConsole()
	}

	fmsCh := make(<-chan time.Time)
	if fmsTicker != nil {
		fmsCh = fmsTicker.C
	}

	for {
		select {
		case <-robotTicker.C:
			s.sendRobotPacket()
		case <-fmsCh:
			s.sendFMSPacket()
		}
	}
}

func (s *scheduler) sendRobotPacket() {
	pkt := s.desc.BuildRobotPacket()
	s.metrics.packetsBuilt.WithLabelValues("robot").Inc()

	if s.robotSend != nil {
		if _, err := s.robotSend.Write(pkt); err != nil {
			log.Printf("dsmonitor: robot send error: %v", err)
		}
	}
	s.monitor.BroadcastSnapshot()
	s.metrics.robotVoltage.Set(s.registry.RobotVoltage())
	if s.registry.RobotCodePresent() {
		s.metrics.robotCode.Set(1)
	} else {
		s.metrics.robotCode.Set(0)
	}
}

func (s *scheduler) sendFMSPacket() {
	pkt := s.desc.BuildFMSPacket()
	if pkt == nil {
		return
	}
	s.metrics.packetsBuilt.WithLabelValues("fms").Inc()
	if s.fmsSend != nil {
		if _, err := s.fmsSend.Write(pkt); err != nil {
			log.Printf("dsmonitor: fms send error: %v", err)
		}
	}
}

func (s *scheduler) readRobot() {
	buf := make([]byte, 2048)
	for {
		n, err := s.robotConn.Read(buf)
		if err != nil {
			log.Printf("dsmonitor: robot read error: %v", err)
			return
		}
		if s.desc.ReadRobotPacket(buf[:n]) {
			s.metrics.packetsParsed.WithLabelValues("robot").Inc()
		} else {
			s.metrics.packetsShort.WithLabelValues("robot").Inc()
		}
		s.lastRobotMu.Lock()
		s.lastRobot = time.Now()
		s.lastRobotMu.Unlock()
	}
}

func (s *scheduler) readFMS() {
	buf := make([]byte, 2048)
	for {
		n, err := s.fmsConn.Read(buf)
		if err != nil {
			log.Printf("dsmonitor: fms read error: %v", err)
			return
		}
		if s.desc.ReadFMSPacket(buf[:n]) {
			s.metrics.packetsParsed.WithLabelValues("fms").Inc()
		} else {
			s.metrics.packetsShort.WithLabelValues("fms").Inc()
		}
		s.lastFMSMu.Lock()
		s.lastFMS = time.Now()
		s.lastFMSMu.Unlock()
	}
}

func (s *scheduler) readNetConsole() {
	buf := make([]byte, 2048)
	for {
		n, err := s.ncConn.Read(buf)
		if err != nil {
			log.Printf("dsmonitor: netconsole read error: %v", err)
			return
		}
		s.monitor.CaptureNetConsole(buf[:n])
	}
}

// watchdog polls the last-seen timestamps for the robot and FMS peers and
// fires the matching Descriptor reset hook once each time a peer falls
// silent past dscore.InboundWatchdogMillis (spec §4.4).
func (s *scheduler) watchdog() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	limit := time.Duration(dscore.InboundWatchdogMillis) * time.Millisecond
	var robotExpired, fmsExpired bool

	for range ticker.C {
		if s.robotConn != nil {
			s.lastRobotMu.Lock()
			last := s.lastRobot
			s.lastRobotMu.Unlock()
			stale := !last.IsZero() && time.Since(last) > limit
			if stale && !robotExpired {
				s.desc.ResetRobot()
				s.metrics.watchdogReset.WithLabelValues("robot").Inc()
			}
			robotExpired = stale
		}
		if s.fmsConn != nil {
			s.lastFMSMu.Lock()
			last := s.lastFMS
			s.lastFMSMu.Unlock()
			stale := !last.IsZero() && time.Since(last) > limit
			if stale && !fmsExpired {
				s.desc.ResetFMS()
				s.metrics.watchdogReset.WithLabelValues("fms").Inc()
			}
			fmsExpired = stale
		}
	}
}

// Reboot and RestartCode satisfy the commander interface monitor.go's
// command endpoints drive; they forward straight to the Descriptor's
// one-shot edge triggers (spec §4.4).
func (s *scheduler) Reboot() {
	s.desc.RebootRobot()
	s.metrics.oneShotFired.WithLabelValues("reboot").Inc()
}

func (s *scheduler) RestartCode() {
	s.desc.RestartRobotCode()
	s.metrics.oneShotFired.WithLabelValues("restart_code").Inc()
}
