// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package gohdb implements a client for SAP HANA's SQL Command Network
// Protocol: dialing a HANA instance (optionally through a SAP Router
// tunnel and over TLS), negotiating the wire protocol version, and
// authenticating with one of the SCRAM, SAML, JWT or session cookie
// methods.
package gohdb

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/usdAG/gohdb/internal/auth"
	"github.com/usdAG/gohdb/internal/protocol"
	"github.com/usdAG/gohdb/internal/transport"
)

// State is the lifecycle stage of a Connection.
type State int

const (
	StateUnconnected State = iota
	StateConnected
	StateInitialized
	StateAuthenticated
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnconnected:
		return "Unconnected"
	case StateConnected:
		return "Connected"
	case StateInitialized:
		return "Initialized"
	case StateAuthenticated:
		return "Authenticated"
	case StateClosed:
		return "Closed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Connection is a single client connection to a HANA instance, walking
// through Unconnected -> Connected -> Initialized -> Authenticated and
// finally Closed.
type Connection struct {
	cfg Config
	log *slog.Logger

	mu          sync.Mutex
	state       State
	framer      *transport.Framer
	sessionID   int64
	packetCount int32

	// Cookie is the opaque session cookie the server returned from the
	// last successful SCRAM authentication, usable to build a
	// SessionCookie method for a later reconnect without a password.
	Cookie []byte
}

// NewConnection returns a Connection configured by cfg. It does not dial;
// call Connect to open the underlying socket.
func NewConnection(cfg Config) *Connection {
	return &Connection{
		cfg:   cfg,
		log:   slog.Default(),
		state: StateUnconnected,
	}
}

// State returns the connection's current lifecycle state.
func (c *Connection) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Connect dials the configured host (through a SAP Router tunnel and/or
// TLS if configured) and transitions to StateConnected.
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateUnconnected {
		return &StateError{Op: "Connect", State: c.state}
	}
	conn, err := c.cfg.dialer().DialContext(ctx, c.cfg.address())
	if err != nil {
		return &ConnectionError{Op: "dial", Err: err}
	}
	c.framer = transport.NewFramer(conn)
	if c.cfg.Metrics != nil {
		c.framer.OnBytesSent = func(n int) { c.cfg.Metrics.BytesSent.Add(float64(n)) }
		c.framer.OnBytesReceived = func(n int) { c.cfg.Metrics.BytesReceived.Add(float64(n)) }
		c.cfg.Metrics.ConnectionsOpen.Inc()
	}
	c.state = StateConnected
	c.log.Debug("gohdb: connected", slog.String("address", c.cfg.address()))
	return nil
}

// Initialize performs the protocol version handshake and transitions to
// StateInitialized. It is idempotent: calling it again once Initialized or
// Authenticated is a no-op.
func (c *Connection) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateInitialized || c.state == StateAuthenticated {
		return nil
	}
	if c.state != StateConnected {
		return &StateError{Op: "Initialize", State: c.state}
	}
	reply, err := c.framer.SendInit()
	if err != nil {
		c.closeLocked()
		return &ConnectionError{Op: "initialize", Err: err}
	}
	c.state = StateInitialized
	c.log.Debug("gohdb: initialized",
		slog.Int("protocolVersionMajor", int(reply.ProtocolVersionMajor)),
		slog.Int("protocolVersionMinor", int(reply.ProtocolVersionMinor)))
	return nil
}

// Authenticate runs the authentication handshake: it offers every method
// in cfg.Methods, lets the server pick one, computes that method's proof
// and sends it back. On any failure it closes the underlying socket
// before returning, since a half-authenticated socket cannot be reused.
func (c *Connection) Authenticate(username string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateInitialized {
		return &StateError{Op: "Authenticate", State: c.state}
	}
	started := time.Now()

	chosen, serverFields, err := c.negotiateMethod(username)
	if err != nil {
		c.recordAuthFailure("negotiate")
		c.closeLocked()
		return err
	}

	proof, err := chosen.ClientProof(serverFields)
	if err != nil {
		c.recordAuthFailure("client_proof")
		c.closeLocked()
		return &AuthenticationError{Op: "compute client proof", Err: err}
	}

	finalPart := &protocol.AuthenticationPart{Fields: []protocol.AuthField{
		protocol.UsernameField(username),
		protocol.AuthField(chosen.Name()),
		protocol.AuthField(proof),
	}}
	reply, err := c.roundTrip(protocol.MessageTypeConnect, finalPart)
	if err != nil {
		c.recordAuthFailure("final_round_trip")
		c.closeLocked()
		return &AuthenticationError{Op: "send final authentication request", Err: err}
	}
	if errPart, ok := findPart(reply, protocol.PartKindError); ok {
		c.recordAuthFailure("rejected")
		c.closeLocked()
		return &AuthenticationError{Op: "authenticate", Err: fmt.Errorf("server rejected credentials: %s", protocol.DecodeCESU8(errPart.Data))}
	}

	c.sessionID = reply.SessionID
	if finalAuth, ok := findPart(reply, protocol.PartKindAuthentication); ok {
		if part, err := protocol.DecodeAuthenticationPart(finalAuth.Data); err == nil && len(part.Fields) > 0 {
			c.Cookie = []byte(part.Fields[len(part.Fields)-1])
		}
	}

	c.state = StateAuthenticated
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.AuthDuration.Observe(time.Since(started).Seconds())
	}
	c.log.Debug("gohdb: authenticated", slog.String("method", chosen.Name()), slog.Int64("session", c.sessionID))
	return nil
}

func (c *Connection) recordAuthFailure(op string) {
	if c.cfg.Metrics != nil {
		c.cfg.Metrics.AuthFailuresByOp.WithLabelValues(op).Inc()
	}
}

// negotiateMethod sends the initial authentication request listing every
// configured method and returns the method the server chose along with
// the fields it returned for that method's challenge.
func (c *Connection) negotiateMethod(username string) (auth.Method, []protocol.AuthField, error) {
	if len(c.cfg.Methods) == 0 {
		return nil, nil, &AuthenticationError{Op: "negotiate", Err: fmt.Errorf("no authentication methods configured")}
	}

	fields := []protocol.AuthField{protocol.UsernameField(username)}
	for _, m := range c.cfg.Methods {
		challenge, err := m.ClientChallenge()
		if err != nil {
			return nil, nil, &AuthenticationError{Op: "build client challenge", Err: err}
		}
		fields = append(fields, protocol.AuthField(m.Name()), protocol.AuthField(challenge))
	}
	initialPart := &protocol.AuthenticationPart{Fields: fields}

	reply, err := c.roundTrip(protocol.MessageTypeAuthenticate, initialPart)
	if err != nil {
		return nil, nil, &AuthenticationError{Op: "send initial authentication request", Err: err}
	}
	if errPart, ok := findPart(reply, protocol.PartKindError); ok {
		return nil, nil, &AuthenticationError{Op: "negotiate", Err: fmt.Errorf("server error: %s", protocol.DecodeCESU8(errPart.Data))}
	}

	authPart, ok := findPart(reply, protocol.PartKindAuthentication)
	if !ok {
		return nil, nil, &AuthenticationError{Op: "negotiate", Err: fmt.Errorf("server reply carried no authentication part")}
	}
	respFields, err := protocol.DecodeAuthenticationPart(authPart.Data)
	if err != nil {
		return nil, nil, &AuthenticationError{Op: "decode server authentication fields", Err: err}
	}
	if len(respFields.Fields) == 0 {
		return nil, nil, &AuthenticationError{Op: "negotiate", Err: fmt.Errorf("server returned no method choice")}
	}

	chosenName := string(respFields.Fields[0])
	chosen, err := auth.Select(c.cfg.Methods, chosenName)
	if err != nil {
		return nil, nil, &AuthenticationError{Op: "negotiate", Err: err}
	}
	if len(respFields.Fields) < 2 {
		return nil, nil, &AuthenticationError{Op: "negotiate", Err: fmt.Errorf("server returned no challenge for %q", chosenName)}
	}
	challenge, err := protocol.DecodeAuthenticationPart(respFields.Fields[1])
	if err != nil {
		return nil, nil, &AuthenticationError{Op: "decode server challenge", Err: err}
	}
	return chosen, challenge.Fields, nil
}

// roundTrip sends a single-part Request segment of the given message type
// and returns the next packet the server sends back, whatever its segment
// kind.
func (c *Connection) roundTrip(mt protocol.MessageType, part *protocol.AuthenticationPart) (*protocol.Packet, error) {
	c.packetCount++
	req := &protocol.Packet{
		SessionID:   c.sessionID,
		PacketCount: c.packetCount,
		Segments: []protocol.Segment{
			{
				Kind:        protocol.SegmentKindRequest,
				MessageType: mt,
				Commit:      true,
				Parts: []protocol.Part{
					{Kind: protocol.PartKindAuthentication, ArgumentCount: 1, Data: part.Bytes()},
				},
			},
		},
	}
	if err := c.framer.Send(req); err != nil {
		return nil, err
	}
	return c.framer.Receive()
}

func findPart(pkt *protocol.Packet, kind protocol.PartKind) (*protocol.Part, bool) {
	for si := range pkt.Segments {
		for pi := range pkt.Segments[si].Parts {
			if pkt.Segments[si].Parts[pi].Kind == kind {
				return &pkt.Segments[si].Parts[pi], true
			}
		}
	}
	return nil, false
}

// ConnectAuthenticate dials, initializes and authenticates in sequence,
// returning the first error encountered.
func (c *Connection) ConnectAuthenticate(ctx context.Context, username string) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	if err := c.Initialize(); err != nil {
		return err
	}
	return c.Authenticate(username)
}

// Send writes pkt to the connection. The Connection must be Authenticated.
func (c *Connection) Send(pkt *protocol.Packet) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated {
		return &StateError{Op: "Send", State: c.state}
	}
	if err := c.framer.Send(pkt); err != nil {
		return &ConnectionError{Op: "send", Err: err}
	}
	return nil
}

// Receive reads the next packet from the connection. The Connection must
// be Authenticated.
func (c *Connection) Receive() (*protocol.Packet, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateAuthenticated {
		return nil, &StateError{Op: "Receive", State: c.state}
	}
	pkt, err := c.framer.Receive()
	if err != nil {
		return nil, &ConnectionError{Op: "receive", Err: err}
	}
	return pkt, nil
}

// SendAndReceive writes pkt and returns the next packet read back.
func (c *Connection) SendAndReceive(pkt *protocol.Packet) (*protocol.Packet, error) {
	if err := c.Send(pkt); err != nil {
		return nil, err
	}
	return c.Receive()
}

// Close sends a disconnect request when Authenticated, reads the reply and
// then closes the underlying socket. It returns a ConnectionError if the
// request or reply fails, or if the reply is not a Reply segment with the
// Disconnect function code; the socket is closed in every case. It does
// not wait to read to EOF after the disconnect reply: the server may keep
// the socket open briefly for housekeeping, and blocking on that would
// turn a clean shutdown into a hang.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var disconnectErr error
	if c.state == StateAuthenticated {
		c.packetCount++
		req := &protocol.Packet{
			SessionID:   c.sessionID,
			PacketCount: c.packetCount,
			Segments: []protocol.Segment{
				{Kind: protocol.SegmentKindRequest, MessageType: protocol.MessageTypeDisconnect, Commit: true},
			},
		}
		if err := c.framer.Send(req); err != nil {
			disconnectErr = &ConnectionError{Op: "disconnect", Err: err}
		} else if reply, err := c.framer.Receive(); err != nil {
			disconnectErr = &ConnectionError{Op: "disconnect", Err: err}
		} else if len(reply.Segments) == 0 ||
			reply.Segments[0].Kind != protocol.SegmentKindReply ||
			reply.Segments[0].FunctionCode != protocol.FunctionCodeDisconnect {
			disconnectErr = &ConnectionError{Op: "disconnect", Err: fmt.Errorf("connection incorrectly closed")}
		}
	}
	err := c.closeLocked()
	if disconnectErr != nil {
		return disconnectErr
	}
	return err
}

func (c *Connection) closeLocked() error {
	wasOpen := c.state != StateClosed && c.framer != nil
	if wasOpen && c.cfg.Metrics != nil {
		c.cfg.Metrics.ConnectionsOpen.Dec()
	}
	if c.state == StateClosed || c.framer == nil {
		c.state = StateClosed
		return nil
	}
	err := c.framer.Close()
	c.state = StateClosed
	return err
}
