// Package ingest implements the streaming UDP ingest pipeline: read
// datagrams, decode them with package dlt, write tagged lines, and emit
// progress chunks over a bounded channel.
package ingest

import (
	"fmt"
	"net"
)

// MulticastConfig joins a multicast group on an optional interface; the
// zero value for Interface means "default" (0.0.0.0).
type MulticastConfig struct {
	MultiAddr string
	Interface string
}

// SocketConfig describes the UDP socket to bind, including optional
// multicast group membership.
type SocketConfig struct {
	BindAddr  string
	Port      uint16
	Multicast *MulticastConfig
}

// openSocket binds (and, if configured, joins the multicast group of) the
// UDP socket the pipeline reads datagrams from.
func openSocket(cfg SocketConfig) (*net.UDPConn, error) {
	if cfg.Multicast != nil {
		group := net.ParseIP(cfg.Multicast.MultiAddr)
		if group == nil {
			return nil, fmt.Errorf("ingest: invalid multicast address %q", cfg.Multicast.MultiAddr)
		}
		var iface *net.Interface
		if cfg.Multicast.Interface != "" && cfg.Multicast.Interface != "0.0.0.0" {
			found, err := net.InterfaceByName(cfg.Multicast.Interface)
			if err != nil {
				return nil, fmt.Errorf("ingest: resolving multicast interface %q: %w", cfg.Multicast.Interface, err)
			}
			iface = found
		}
		conn, err := net.ListenMulticastUDP("udp", iface, &net.UDPAddr{IP: group, Port: int(cfg.Port)})
		if err != nil {
			return nil, fmt.Errorf("ingest: joining multicast group: %w", err)
		}
		return conn, nil
	}

	addr := &net.UDPAddr{IP: net.ParseIP(cfg.BindAddr), Port: int(cfg.Port)}
	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("ingest: binding udp socket: %w", err)
	}
	return conn, nil
}
