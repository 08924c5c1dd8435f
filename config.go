// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package gohdb

import (
	"net"
	"strconv"
	"time"

	"github.com/usdAG/gohdb/internal/auth"
	"github.com/usdAG/gohdb/internal/transport"
	"github.com/usdAG/gohdb/metrics"
)

// Config configures a Connection. Host and Port name the HANA instance to
// reach; Methods are offered to the server in preference order during
// Authenticate.
type Config struct {
	Host string
	Port int

	Methods []auth.Method

	// Route, when set, is a SAP Router route string; the Connection
	// dials RouterAddress and asks the router to forward to Host:Port
	// along this route instead of dialing Host:Port directly.
	Route         string
	RouterAddress string

	TLS *transport.TLSConfig

	// Dialer overrides the default net.Dialer based transport, primarily
	// for tests that substitute an in-process net.Pipe.
	Dialer      transport.Dialer
	DialTimeout time.Duration

	// Metrics, when set, receives connection and authentication activity.
	Metrics *metrics.Collectors
}

func (c *Config) address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c *Config) dialer() transport.Dialer {
	var d transport.Dialer = c.Dialer
	if d == nil {
		d = &transport.NetDialer{Timeout: c.DialTimeout}
	}
	if c.Route != "" || c.RouterAddress != "" {
		d = &transport.RouterDialer{
			Inner:         d,
			RouterAddress: c.RouterAddress,
			TargetHost:    c.Host,
			TargetPort:    c.Port,
			Route:         c.Route,
		}
	}
	if c.TLS != nil {
		d = &transport.TLSDialer{Inner: d, Config: c.TLS}
	}
	return d
}
