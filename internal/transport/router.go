// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"encoding/binary"
	"fmt"
	"net"
)

// routerTalkModeRaw is the SAP Router talk mode used for a plain forwarded
// connection: the router relays bytes without interpreting them further
// once the route has been established.
const routerTalkModeRaw = 1

// routerMagic identifies a SAP Router administration/routing request.
var routerMagic = []byte("ROUTER_INFO")

// RouterDialer tunnels a connection through a SAP Router instance: it
// dials the router, sends a route request naming the final destination
// host and port, and on success hands back the router connection as if it
// were a direct connection to that destination.
type RouterDialer struct {
	// Inner dials the SAP Router instance itself.
	Inner Dialer
	// RouterAddress is the "host:port" of the SAP Router instance.
	RouterAddress string
	// TargetHost and TargetPort name the final destination the router
	// should forward to.
	TargetHost string
	TargetPort int
	// Route, when non-empty, is an explicit multi-hop route string
	// (host:port;host:port;...) instead of a direct single hop.
	Route string
}

// DialContext connects to RouterAddress and requests the router forward
// the connection to TargetHost:TargetPort (or along Route, if set). The
// address argument is ignored; routing destination is configured on the
// RouterDialer itself since SAP Router routes are not expressible as a
// single dial address.
func (d *RouterDialer) DialContext(ctx context.Context, _ string) (net.Conn, error) {
	conn, err := d.Inner.DialContext(ctx, d.RouterAddress)
	if err != nil {
		return nil, fmt.Errorf("transport: dial router %s: %w", d.RouterAddress, err)
	}
	route := d.Route
	if route == "" {
		route = fmt.Sprintf("%s:%d", d.TargetHost, d.TargetPort)
	}
	if err := sendRouteRequest(conn, route, routerTalkModeRaw); err != nil {
		conn.Close()
		return nil, err
	}
	if err := recvRouteReply(conn); err != nil {
		conn.Close()
		return nil, err
	}
	return conn, nil
}

// sendRouteRequest writes a route request: the router magic, a one byte
// talk mode and the length-prefixed route string.
func sendRouteRequest(conn net.Conn, route string, talkMode byte) error {
	buf := make([]byte, 0, len(routerMagic)+1+1+4+len(route))
	buf = append(buf, routerMagic...)
	buf = append(buf, talkMode)
	var lenField [4]byte
	binary.BigEndian.PutUint32(lenField[:], uint32(len(route)))
	buf = append(buf, lenField[:]...)
	buf = append(buf, route...)
	if _, err := conn.Write(buf); err != nil {
		return fmt.Errorf("transport: sending route request: %w", err)
	}
	return nil
}

// recvRouteReply reads the router's single byte acceptance code. Any
// non-zero code means the router rejected the route (unreachable
// destination, route syntax error, access control).
func recvRouteReply(conn net.Conn) error {
	var code [1]byte
	if _, err := conn.Read(code[:]); err != nil {
		return fmt.Errorf("transport: reading route reply: %w", err)
	}
	if code[0] != 0 {
		return fmt.Errorf("transport: router rejected route, code %d", code[0])
	}
	return nil
}
