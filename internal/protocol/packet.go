// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

// Package protocol implements the HDB wire format: the message header,
// segment and part framing, and the length-prefixed authentication field
// encoding nested inside authentication parts.
package protocol

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/usdAG/gohdb/internal/protocol/encoding"
)

// Part is a single part of a segment: a typed, length-prefixed chunk of
// payload bytes. Data is the already-encoded part payload; callers build it
// with the encoding package or a higher-level helper such as
// AuthenticationPart.Bytes.
type Part struct {
	Kind          PartKind
	Attributes    int8
	ArgumentCount int16
	Data          []byte
}

func (p *Part) encode(enc *encoding.Encoder) {
	h := partHeader{
		partKind:       p.Kind,
		partAttributes: p.Attributes,
		argumentCount:  p.ArgumentCount,
		bufferLength:   int32(len(p.Data)),
		bufferSize:     int32(len(p.Data)),
	}
	h.encode(enc)
	enc.Bytes(p.Data)
	enc.Zeroes(padLen(partHeaderSize + len(p.Data)))
}

func (p *Part) decode(dec *encoding.Decoder) {
	var h partHeader
	h.decode(dec)
	p.Kind = h.partKind
	p.Attributes = h.partAttributes
	p.ArgumentCount = h.argumentCount
	n := int(h.bufferLength)
	p.Data = make([]byte, n)
	dec.Bytes(p.Data)
	dec.Skip(padLen(partHeaderSize + n))
}

// Segment is a single segment of a packet: a message-type- or
// function-code-tagged group of parts.
type Segment struct {
	Kind           SegmentKind
	MessageType    MessageType
	Commit         bool
	CommandOptions int8
	FunctionCode   FunctionCode
	Parts          []Part
}

func (s *Segment) encodedLen() int {
	n := segmentHeaderSize
	for _, p := range s.Parts {
		n += partHeaderSize + len(p.Data) + padLen(partHeaderSize+len(p.Data))
	}
	return n
}

func (s *Segment) encode(enc *encoding.Encoder, segmentOfs int32, segmentNo int16) {
	h := segmentHeader{
		segmentLength:  int32(s.encodedLen()),
		segmentOfs:     segmentOfs,
		noOfParts:      int16(len(s.Parts)),
		segmentNo:      segmentNo,
		segmentKind:    s.Kind,
		messageType:    s.MessageType,
		commit:         s.Commit,
		commandOptions: s.CommandOptions,
		functionCode:   s.FunctionCode,
	}
	h.encode(enc)
	for i := range s.Parts {
		s.Parts[i].encode(enc)
	}
}

func (s *Segment) decode(dec *encoding.Decoder) {
	var h segmentHeader
	h.decode(dec)
	s.Kind = h.segmentKind
	s.MessageType = h.messageType
	s.Commit = h.commit
	s.CommandOptions = h.commandOptions
	s.FunctionCode = h.functionCode
	s.Parts = make([]Part, h.noOfParts)
	for i := range s.Parts {
		s.Parts[i].decode(dec)
	}
}

// Packet is a complete HDB wire message: a session-scoped envelope around
// one or more segments.
type Packet struct {
	SessionID   int64
	PacketCount int32
	Segments    []Segment
}

// String renders a one-line summary of a packet's segments and parts, used
// by the transport layer's wire-level tracing.
func (pkt *Packet) String() string {
	var segs []string
	for _, s := range pkt.Segments {
		var parts []string
		for _, p := range s.Parts {
			parts = append(parts, fmt.Sprintf("%s(%dB)", p.Kind, len(p.Data)))
		}
		segs = append(segs, fmt.Sprintf("%s/%s[%s]", s.Kind, s.FunctionCode, strings.Join(parts, ",")))
	}
	return fmt.Sprintf("session=%d count=%d %s", pkt.SessionID, pkt.PacketCount, strings.Join(segs, " "))
}

func (pkt *Packet) varPartLength() int32 {
	var n int32
	for _, s := range pkt.Segments {
		n += int32(s.encodedLen())
	}
	return n
}

// Encode writes the packet's wire representation to w, computing every
// length field (varpartlength, segmentlength, noofsegm, noofparts,
// bufferlength) from the contained segments and parts.
func (pkt *Packet) Encode(w io.Writer) error {
	enc := encoding.NewEncoder(w)
	h := messageHeader{
		sessionID:     pkt.SessionID,
		packetCount:   pkt.PacketCount,
		varPartLength: uint32(pkt.varPartLength()),
		varPartSize:   uint32(pkt.varPartLength()),
		noOfSegm:      int16(len(pkt.Segments)),
	}
	h.encode(enc)
	var ofs int32
	for i := range pkt.Segments {
		pkt.Segments[i].encode(enc, ofs, int16(i+1))
		ofs += int32(pkt.Segments[i].encodedLen())
	}
	return enc.Error()
}

// Bytes returns the packet's wire representation.
func (pkt *Packet) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := pkt.Encode(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePacket reads a complete packet, including its message header and
// every segment and part it declares, from r.
func DecodePacket(r io.Reader) (*Packet, error) {
	dec := encoding.NewDecoder(r)
	var h messageHeader
	h.decode(dec)
	if err := dec.Error(); err != nil {
		return nil, &CodecError{Op: "decode message header", Err: err}
	}
	pkt := &Packet{
		SessionID:   h.sessionID,
		PacketCount: h.packetCount,
		Segments:    make([]Segment, h.noOfSegm),
	}
	for i := range pkt.Segments {
		pkt.Segments[i].decode(dec)
	}
	if err := dec.Error(); err != nil {
		return nil, &CodecError{Op: "decode packet body", Err: err}
	}
	return pkt, nil
}
