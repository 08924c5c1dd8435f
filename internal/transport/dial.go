// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package transport implements the byte-level plumbing a Connection sits
// on top of: dialing a TCP socket (optionally through a SAP Router tunnel),
// wrapping it in TLS, and framing reads and writes around the protocol
// message header.
package transport

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"
)

// Dialer opens a network connection to address. It is satisfied by
// NetDialer for plain TCP, and composed with RouterDialer and TLSDialer
// to add a SAP Router hop or a TLS handshake.
type Dialer interface {
	DialContext(ctx context.Context, address string) (net.Conn, error)
}

// NetDialer is the default Dialer, a thin wrapper around net.Dialer.
type NetDialer struct {
	Timeout time.Duration
}

// DialContext dials address over TCP.
func (d *NetDialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	nd := &net.Dialer{Timeout: d.Timeout}
	conn, err := nd.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("transport: dial %s: %w", address, err)
	}
	return conn, nil
}

// TLSConfig configures the TLS handshake a TLSDialer performs after its
// inner Dialer establishes the underlying connection.
type TLSConfig struct {
	// ServerName is set as the SNI server name and used for certificate
	// hostname verification. It defaults to the host part of the dialed
	// address when empty.
	ServerName string
	// InsecureSkipVerify disables certificate verification. Intended for
	// test environments only.
	InsecureSkipVerify bool
	RootCAs            *x509.CertPool
}

// TLSDialer wraps an inner Dialer's connection in a client-side TLS
// handshake, setting the SNI server name to the dialed hostname unless the
// caller overrides it.
type TLSDialer struct {
	Inner  Dialer
	Config *TLSConfig
}

func (d *TLSDialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	conn, err := d.Inner.DialContext(ctx, address)
	if err != nil {
		return nil, err
	}
	serverName := d.Config.ServerName
	if serverName == "" {
		serverName, _, _ = net.SplitHostPort(address)
	}
	cfg := &tls.Config{
		ServerName:         serverName,
		InsecureSkipVerify: d.Config.InsecureSkipVerify,
	}
	if d.Config.RootCAs != nil {
		cfg.RootCAs = d.Config.RootCAs
	}
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.HandshakeContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("transport: tls handshake with %s: %w", serverName, err)
	}
	return tlsConn, nil
}
