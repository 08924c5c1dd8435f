// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package gohdb

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/usdAG/gohdb/internal/auth"
	"github.com/usdAG/gohdb/internal/protocol"
	"github.com/usdAG/gohdb/internal/transport"
)

// pipeDialer hands back one side of an in-memory net.Pipe and runs server
// on the other side in its own goroutine, so tests never touch a real
// socket.
type pipeDialer struct {
	server func(net.Conn)
}

func (d *pipeDialer) DialContext(ctx context.Context, address string) (net.Conn, error) {
	client, server := net.Pipe()
	go d.server(server)
	return client, nil
}

func newTestConnection(t *testing.T, server func(net.Conn), methods ...auth.Method) *Connection {
	t.Helper()
	cfg := Config{
		Host:    "hana.example.com",
		Port:    30015,
		Methods: methods,
		Dialer:  &pipeDialer{server: server},
	}
	return NewConnection(cfg)
}

func readInit(t *testing.T, conn net.Conn) {
	t.Helper()
	buf := make([]byte, 14)
	if _, err := readFull(conn, buf); err != nil {
		t.Fatalf("server: reading init request: %v", err)
	}
}

func writeInitReply(t *testing.T, conn net.Conn) {
	t.Helper()
	if _, err := conn.Write([]byte{4, 0, 20, 4, 0, 1, 0, 0}); err != nil {
		t.Fatalf("server: writing init reply: %v", err)
	}
}

func readFull(conn net.Conn, buf []byte) (int, error) {
	n := 0
	for n < len(buf) {
		m, err := conn.Read(buf[n:])
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func readPacket(t *testing.T, conn net.Conn) *protocol.Packet {
	t.Helper()
	pkt, err := protocol.DecodePacket(conn)
	if err != nil {
		t.Fatalf("server: decoding packet: %v", err)
	}
	return pkt
}

// writeAuthReplyChosenMethod writes a flat authentication reply
// [method, field, field, ...], the shape used for the final
// authentication reply (method name followed by the session cookie).
func writeAuthReplyChosenMethod(t *testing.T, conn net.Conn, sessionID int64, method string, extraFields ...[]byte) {
	t.Helper()
	fields := []protocol.AuthField{protocol.AuthField(method)}
	for _, f := range extraFields {
		fields = append(fields, protocol.AuthField(f))
	}
	writeAuthReplyPart(t, conn, sessionID, &protocol.AuthenticationPart{Fields: fields})
}

// writeAuthChallengeReply writes the initial authentication reply's
// [method, nestedPart] shape, where nestedPart is itself an encoded
// AuthenticationPart carrying [salt, server_key(, rounds)] — the same
// nested re-parse a real server response requires.
func writeAuthChallengeReply(t *testing.T, conn net.Conn, sessionID int64, method string, challengeFields ...[]byte) {
	t.Helper()
	nested := make([]protocol.AuthField, len(challengeFields))
	for i, f := range challengeFields {
		nested[i] = protocol.AuthField(f)
	}
	nestedPart := &protocol.AuthenticationPart{Fields: nested}
	outer := &protocol.AuthenticationPart{Fields: []protocol.AuthField{
		protocol.AuthField(method),
		protocol.AuthField(nestedPart.Bytes()),
	}}
	writeAuthReplyPart(t, conn, sessionID, outer)
}

func writeAuthReplyPart(t *testing.T, conn net.Conn, sessionID int64, part *protocol.AuthenticationPart) {
	t.Helper()
	pkt := &protocol.Packet{
		SessionID:   sessionID,
		PacketCount: 1,
		Segments: []protocol.Segment{
			{
				Kind:         protocol.SegmentKindReply,
				FunctionCode: protocol.FunctionCodeConnect,
				Parts: []protocol.Part{
					{Kind: protocol.PartKindAuthentication, ArgumentCount: 1, Data: part.Bytes()},
				},
			},
		},
	}
	raw, err := pkt.Bytes()
	if err != nil {
		t.Fatalf("server: encoding auth reply: %v", err)
	}
	if _, err := conn.Write(raw); err != nil {
		t.Fatalf("server: writing auth reply: %v", err)
	}
}

func writeErrorReply(t *testing.T, conn net.Conn, sessionID int64, message string) {
	t.Helper()
	pkt := &protocol.Packet{
		SessionID:   sessionID,
		PacketCount: 1,
		Segments: []protocol.Segment{
			{
				Kind: protocol.SegmentKindError,
				Parts: []protocol.Part{
					{Kind: protocol.PartKindError, Data: []byte(message)},
				},
			},
		},
	}
	raw, err := pkt.Bytes()
	if err != nil {
		t.Fatalf("server: encoding error reply: %v", err)
	}
	if _, err := conn.Write(raw); err != nil {
		t.Fatalf("server: writing error reply: %v", err)
	}
}

func TestConnectAuthenticateHappyPath(t *testing.T) {
	salt := []byte{0x01, 0x02, 0x03, 0x04}
	serverKey := []byte{0x05, 0x06, 0x07, 0x08}

	server := func(conn net.Conn) {
		defer conn.Close()
		readInit(t, conn)
		writeInitReply(t, conn)

		readPacket(t, conn) // initial authentication request
		writeAuthChallengeReply(t, conn, 7, "SCRAMSHA256", salt, serverKey)

		readPacket(t, conn) // final authentication request
		writeAuthReplyChosenMethod(t, conn, 7, "SCRAMSHA256", []byte("cookie-xyz"))
	}

	conn := newTestConnection(t, server, auth.NewScramSHA256("secret"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.ConnectAuthenticate(ctx, "SYSTEM"); err != nil {
		t.Fatalf("ConnectAuthenticate: %v", err)
	}
	if conn.State() != StateAuthenticated {
		t.Fatalf("state = %v, expected Authenticated", conn.State())
	}
	if string(conn.Cookie) != "cookie-xyz" {
		t.Fatalf("cookie = %q, expected cookie-xyz", conn.Cookie)
	}
}

func TestAuthenticateMethodMismatch(t *testing.T) {
	server := func(conn net.Conn) {
		defer conn.Close()
		readInit(t, conn)
		writeInitReply(t, conn)
		readPacket(t, conn)
		writeAuthReplyChosenMethod(t, conn, 1, "SAML")
	}

	conn := newTestConnection(t, server, auth.NewScramSHA256("secret"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := conn.ConnectAuthenticate(ctx, "SYSTEM")
	if err == nil {
		t.Fatal("expected error for method mismatch")
	}
	if _, ok := err.(*AuthenticationError); !ok {
		t.Fatalf("error type = %T, expected *AuthenticationError", err)
	}
	if conn.State() != StateClosed {
		t.Fatalf("state = %v, expected Closed after auth failure", conn.State())
	}
}

func TestConnectServerErrorDuringAuth(t *testing.T) {
	server := func(conn net.Conn) {
		defer conn.Close()
		readInit(t, conn)
		writeInitReply(t, conn)
		readPacket(t, conn)
		writeErrorReply(t, conn, 0, "authentication failed: invalid credentials")
	}

	conn := newTestConnection(t, server, auth.NewScramSHA256("wrong"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	err := conn.ConnectAuthenticate(ctx, "SYSTEM")
	if err == nil {
		t.Fatal("expected error for server-reported auth failure")
	}
	if conn.State() != StateClosed {
		t.Fatalf("state = %v, expected Closed", conn.State())
	}
}

func TestDisconnectRoundTrip(t *testing.T) {
	salt := []byte{0xAA, 0xBB}
	serverKey := []byte{0xCC, 0xDD}

	server := func(conn net.Conn) {
		defer conn.Close()
		readInit(t, conn)
		writeInitReply(t, conn)
		readPacket(t, conn)
		writeAuthChallengeReply(t, conn, 9, "SCRAMSHA256", salt, serverKey)
		readPacket(t, conn)
		writeAuthReplyChosenMethod(t, conn, 9, "SCRAMSHA256", []byte("cookie"))

		disconnect := readPacket(t, conn)
		if disconnect.Segments[0].MessageType != protocol.MessageTypeDisconnect {
			t.Fatalf("expected disconnect request, got %v", disconnect.Segments[0].MessageType)
		}
		reply := &protocol.Packet{
			SessionID:   9,
			PacketCount: 1,
			Segments: []protocol.Segment{
				{Kind: protocol.SegmentKindReply, FunctionCode: protocol.FunctionCodeDisconnect},
			},
		}
		raw, _ := reply.Bytes()
		conn.Write(raw)
	}

	conn := newTestConnection(t, server, auth.NewScramSHA256("secret"))
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.ConnectAuthenticate(ctx, "SYSTEM"); err != nil {
		t.Fatalf("ConnectAuthenticate: %v", err)
	}
	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if conn.State() != StateClosed {
		t.Fatalf("state = %v, expected Closed", conn.State())
	}
}

func TestInitializeIdempotent(t *testing.T) {
	server := func(conn net.Conn) {
		defer conn.Close()
		readInit(t, conn)
		writeInitReply(t, conn)
	}
	conn := newTestConnection(t, server)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := conn.Connect(ctx); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if err := conn.Initialize(); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := conn.Initialize(); err != nil {
		t.Fatalf("second Initialize should be a no-op, got: %v", err)
	}
	if conn.State() != StateInitialized {
		t.Fatalf("state = %v, expected Initialized", conn.State())
	}
}

func TestSendReceiveRequiresAuthenticated(t *testing.T) {
	conn := newTestConnection(t, func(net.Conn) {})
	if err := conn.Send(&protocol.Packet{}); err == nil {
		t.Fatal("expected StateError sending before authentication")
	}
	if _, err := conn.Receive(); err == nil {
		t.Fatal("expected StateError receiving before authentication")
	}
}

var _ transport.Dialer = (*pipeDialer)(nil)
