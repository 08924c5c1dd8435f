// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/usdAG/gohdb/internal/protocol"
	"github.com/usdAG/gohdb/internal/trace"
)

// ErrPeerClosed indicates the remote end closed the connection cleanly
// while a Receive was in progress.
var ErrPeerClosed = errors.New("transport: peer closed connection")

// Framer sends and receives whole packets over a net.Conn, looping on
// short reads and writes the way a streaming TCP socket requires.
type Framer struct {
	conn net.Conn

	// OnBytesSent and OnBytesReceived, when set, are called with the
	// number of bytes transferred by each Send/Receive, for a caller to
	// feed into a byte counter metric.
	OnBytesSent     func(n int)
	OnBytesReceived func(n int)
}

// NewFramer returns a Framer reading and writing packets over conn.
func NewFramer(conn net.Conn) *Framer { return &Framer{conn: conn} }

// Send writes pkt's full wire encoding to the connection.
func (f *Framer) Send(pkt *protocol.Packet) error {
	raw, err := pkt.Bytes()
	if err != nil {
		return fmt.Errorf("transport: encoding packet: %w", err)
	}
	for written := 0; written < len(raw); {
		n, err := f.conn.Write(raw[written:])
		if err != nil {
			return fmt.Errorf("transport: writing packet: %w", err)
		}
		written += n
	}
	if f.OnBytesSent != nil {
		f.OnBytesSent(len(raw))
	}
	trace.Printf("-> %s", pkt)
	return nil
}

// Receive reads one complete packet from the connection, decoding its
// message header to learn the declared body length and reading exactly
// that many additional bytes.
func (f *Framer) Receive() (*protocol.Packet, error) {
	header := make([]byte, 32)
	if _, err := io.ReadFull(f.conn, header); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrPeerClosed
		}
		return nil, fmt.Errorf("transport: reading message header: %w", err)
	}
	varPartLength := littleEndianUint32(header[12:16])
	body := make([]byte, varPartLength)
	if _, err := io.ReadFull(f.conn, body); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrPeerClosed
		}
		return nil, fmt.Errorf("transport: reading packet body: %w", err)
	}
	if f.OnBytesReceived != nil {
		f.OnBytesReceived(len(header) + len(body))
	}
	pkt, err := protocol.DecodePacket(io.MultiReader(bytes.NewReader(header), bytes.NewReader(body)))
	if err != nil {
		return nil, err
	}
	trace.Printf("<- %s", pkt)
	return pkt, nil
}

// SendInit writes the fixed 14 byte initialization request and reads back
// the server's 8 byte initialization reply.
func (f *Framer) SendInit() (*protocol.InitReply, error) {
	req := protocol.InitRequest()
	for written := 0; written < len(req); {
		n, err := f.conn.Write(req[written:])
		if err != nil {
			return nil, fmt.Errorf("transport: writing init request: %w", err)
		}
		written += n
	}
	reply, err := protocol.DecodeInitReply(f.conn)
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// Close closes the underlying connection.
func (f *Framer) Close() error { return f.conn.Close() }

func littleEndianUint32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
