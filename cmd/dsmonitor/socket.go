package main

import (
	"fmt"
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/frc-ds/dscore"
)

// openListenSocket opens the inbound half of a UDP peer, grounded on
// protocol2.go's setSocketOptions: when the spec asks for Broadcast (the
// 2015 NetConsole socket, spec §4.6), SO_BROADCAST is set via
// golang.org/x/sys/unix before the socket is handed back as a *net.UDPConn.
func openListenSocket(spec dscore.SocketSpec) (*net.UDPConn, error) {
	if spec.Disabled {
		return nil, nil
	}

	addr := &net.UDPAddr{Port: spec.InPort}
	conn, err := net.ListenUDP("udp4", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s on :%d: %w", spec.Name, spec.InPort, err)
	}

	if spec.Broadcast {
		if err := setBroadcast(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("set broadcast on %s: %w", spec.Name, err)
		}
	}

	return conn, nil
}

// openSendSocket dials the outbound half of a UDP peer: a socket bound to
// spec.OutPort on this host, connected to host:spec.OutPort on the peer —
// spec.InPort is what this side listens on for replies, spec.OutPort is the
// peer's listening port that outbound sends must target (spec §6).
func openSendSocket(spec dscore.SocketSpec, host string) (*net.UDPConn, error) {
	if spec.Disabled || host == "" {
		return nil, nil
	}

	local := &net.UDPAddr{Port: spec.OutPort}
	remote := &net.UDPAddr{IP: net.ParseIP(host), Port: spec.OutPort}
	if remote.IP == nil {
		resolved, err := net.ResolveIPAddr("ip4", host)
		if err != nil {
			return nil, fmt.Errorf("resolve %s host %q: %w", spec.Name, host, err)
		}
		remote.IP = resolved.IP
	}

	conn, err := net.DialUDP("udp4", local, remote)
	if err != nil {
		return nil, fmt.Errorf("dial %s at %s:%d: %w", spec.Name, host, spec.OutPort, err)
	}
	return conn, nil
}

func setBroadcast(conn *net.UDPConn) error {
	raw, err := conn.SyscallConn()
	if err != nil {
		return err
	}

	var sockErr error
	err = raw.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_BROADCAST, 1)
	})
	if err != nil {
		return err
	}
	if sockErr != nil && sockErr != syscall.ENOTSUP {
		return sockErr
	}
	return nil
}
