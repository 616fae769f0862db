package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"time"

	"github.com/grandcat/zeroconf"
)

// resolveRoboRIO resolves roboRIO-<team>.local over mDNS, grounded on
// clients/go/instance_discovery.go's zeroconf.NewResolver/Browse usage. The
// 2014 generation never calls this; its robot address is the static
// 10.TE.AM.2 cRIO address (spec §4.5).
func resolveRoboRIO(team int, timeout time.Duration) (net.IP, error) {
	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("mDNS resolver: %w", err)
	}

	want := fmt.Sprintf("roboRIO-%d-FRC", team)

	entries := make(chan *zeroconf.ServiceEntry)
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var found net.IP
	done := make(chan struct{})
	go func() {
		defer close(done)
		for entry := range entries {
			if entry.Instance != want {
				continue
			}
			if len(entry.AddrIPv4) > 0 {
				found = entry.AddrIPv4[0]
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, "_ni._tcp", "local.", entries); err != nil {
		return nil, fmt.Errorf("mDNS browse: %w", err)
	}
	<-done

	if found == nil {
		return nil, fmt.Errorf("roboRIO-%d.local not found on mDNS within %s", team, timeout)
	}
	log.Printf("dsmonitor: resolved roboRIO-%d.local -> %s", team, found)
	return found, nil
}
