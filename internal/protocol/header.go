// SPDX-FileCopyrightText: 2014-2022 SAP SE
//
// SPDX-License-Identifier: Apache-2.0

package protocol

import "github.com/usdAG/gohdb/internal/protocol/encoding"

const (
	messageHeaderSize = 32
	segmentHeaderSize = 24
	partHeaderSize    = 16
)

// messageHeader is the fixed 32 byte header prefixing every packet on the wire.
type messageHeader struct {
	sessionID                int64
	packetCount              int32
	varPartLength            uint32
	varPartSize              uint32
	noOfSegm                 int16
	packetOptions            int8
	compressionVarPartLength uint32
}

func (h *messageHeader) encode(enc *encoding.Encoder) {
	enc.Int64(h.sessionID)
	enc.Int32(h.packetCount)
	enc.Uint32(h.varPartLength)
	enc.Uint32(h.varPartSize)
	enc.Int16(h.noOfSegm)
	enc.Int8(h.packetOptions)
	enc.Zeroes(1)
	enc.Uint32(h.compressionVarPartLength)
	enc.Zeroes(4)
}

func (h *messageHeader) decode(dec *encoding.Decoder) {
	h.sessionID = dec.Int64()
	h.packetCount = dec.Int32()
	h.varPartLength = dec.Uint32()
	h.varPartSize = dec.Uint32()
	h.noOfSegm = dec.Int16()
	h.packetOptions = dec.Int8()
	dec.Skip(1)
	h.compressionVarPartLength = dec.Uint32()
	dec.Skip(4)
}

// segmentHeader is the fixed 24 byte header prefixing every segment.
type segmentHeader struct {
	segmentLength  int32
	segmentOfs     int32
	noOfParts      int16
	segmentNo      int16
	segmentKind    SegmentKind
	messageType    MessageType
	commit         bool
	commandOptions int8
	functionCode   FunctionCode
}

func (h *segmentHeader) encode(enc *encoding.Encoder) {
	enc.Int32(h.segmentLength)
	enc.Int32(h.segmentOfs)
	enc.Int16(h.noOfParts)
	enc.Int16(h.segmentNo)
	enc.Int8(int8(h.segmentKind))
	switch h.segmentKind {
	case SegmentKindRequest:
		enc.Int8(int8(h.messageType))
		enc.Bool(h.commit)
		enc.Int8(h.commandOptions)
		enc.Zeroes(8)
	case SegmentKindReply, SegmentKindError:
		enc.Zeroes(1)
		enc.Int16(int16(h.functionCode))
		enc.Zeroes(8)
	default:
		enc.Zeroes(11)
	}
}

func (h *segmentHeader) decode(dec *encoding.Decoder) {
	h.segmentLength = dec.Int32()
	h.segmentOfs = dec.Int32()
	h.noOfParts = dec.Int16()
	h.segmentNo = dec.Int16()
	h.segmentKind = SegmentKind(dec.Int8())
	switch h.segmentKind {
	case SegmentKindRequest:
		h.messageType = MessageType(dec.Int8())
		h.commit = dec.Bool()
		h.commandOptions = dec.Int8()
		dec.Skip(8)
	case SegmentKindReply, SegmentKindError:
		dec.Skip(1)
		h.functionCode = FunctionCode(dec.Int16())
		dec.Skip(8)
	default:
		dec.Skip(11)
	}
}

// partHeader is the fixed 16 byte header prefixing every part.
type partHeader struct {
	partKind         PartKind
	partAttributes   int8
	argumentCount    int16
	bigArgumentCount int32
	bufferLength     int32
	bufferSize       int32
}

func (h *partHeader) encode(enc *encoding.Encoder) {
	enc.Int8(int8(h.partKind))
	enc.Int8(h.partAttributes)
	enc.Int16(h.argumentCount)
	enc.Int32(h.bigArgumentCount)
	enc.Int32(h.bufferLength)
	enc.Int32(h.bufferSize)
}

func (h *partHeader) decode(dec *encoding.Decoder) {
	h.partKind = PartKind(dec.Int8())
	h.partAttributes = dec.Int8()
	h.argumentCount = dec.Int16()
	h.bigArgumentCount = dec.Int32()
	h.bufferLength = dec.Int32()
	h.bufferSize = dec.Int32()
}

// padLen returns the number of zero bytes needed to round n up to the next
// multiple of 8, the alignment the wire format pads every part to.
func padLen(n int) int {
	if r := n % 8; r != 0 {
		return 8 - r
	}
	return 0
}
